package admission

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/killwatch/internal/domain"
	"github.com/osse101/killwatch/internal/hotspot"
	"github.com/osse101/killwatch/internal/logger"
	"github.com/osse101/killwatch/internal/metrics"
	"github.com/osse101/killwatch/internal/state"
)

// Result is the outcome of one admission attempt
type Result struct {
	Duplicate bool
	// DuplicateLayer names the layer that caught a duplicate (metrics.LayerState or metrics.LayerStore)
	DuplicateLayer string
	BattleID       int64
	BattleCreated  bool
	// Battle holds the recomputed battle, nil when the killmail has none or the recompute failed
	Battle  *domain.Battle
	Hotspot hotspot.Signal
}

// Gate admits each killmail into the permanent record at most once
type Gate struct {
	store    state.Store
	hotspots *hotspot.Detector
	repo     Repository
	now      func() time.Time
}

// NewGate creates an admission gate
func NewGate(store state.Store, hotspots *hotspot.Detector, repo Repository) *Gate {
	return &Gate{
		store:    store,
		hotspots: hotspots,
		repo:     repo,
		now:      time.Now,
	}
}

// Admit claims the killmail in the state store, records it in the hotspot
// window and persists it. A lost claim or an existing row yields
// Result.Duplicate with no side effects. On persistence failure the claim is
// released so a redelivery can try again.
func (g *Gate) Admit(ctx context.Context, km *domain.Killmail) (*Result, error) {
	log := logger.FromContext(ctx)
	now := g.now()

	claimed, err := g.store.ClaimKillmail(ctx, km.ID, now)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgClaimFailed, km.ID, err)
	}
	if !claimed {
		metrics.KillmailsDuplicate.WithLabelValues(metrics.LayerState).Inc()
		log.Debug(LogMsgDuplicate, "killmail_id", km.ID, "layer", metrics.LayerState)
		return &Result{Duplicate: true, DuplicateLayer: metrics.LayerState}, nil
	}

	sig, err := g.hotspots.Record(ctx, km.SystemID, km.ID, km.Time)
	if err != nil {
		g.release(ctx, km.ID, now)
		return nil, fmt.Errorf(ErrMsgHotspotFailed, km.ID, err)
	}
	if sig.IsHotspot && now.Sub(km.Time) > g.hotspots.Window() {
		// Delivered after its window closed: it may join a running battle but
		// never opens one.
		log.Debug(LogMsgLateHotspot, "killmail_id", km.ID, "system_id", km.SystemID, "age", now.Sub(km.Time))
		sig.IsHotspot, sig.Crossed = false, false
	}

	persisted, err := g.repo.Persist(ctx, km, sig.IsHotspot)
	if err != nil {
		metrics.PersistenceFailures.Inc()
		g.release(ctx, km.ID, now)
		return nil, fmt.Errorf(ErrMsgPersistFailed, km.ID, err)
	}
	if persisted.Duplicate {
		metrics.KillmailsDuplicate.WithLabelValues(metrics.LayerStore).Inc()
		log.Debug(LogMsgDuplicate, "killmail_id", km.ID, "layer", metrics.LayerStore)
		return &Result{Duplicate: true, DuplicateLayer: metrics.LayerStore, Hotspot: sig}, nil
	}

	result := &Result{
		BattleID:      persisted.BattleID,
		BattleCreated: persisted.BattleCreated,
		Hotspot:       sig,
	}

	if persisted.BattleCreated {
		log.Info(LogMsgBattleCreated, "battle_id", persisted.BattleID, "system_id", km.SystemID)
	}

	if persisted.BattleID != 0 {
		battle, err := g.repo.RecomputeBattle(ctx, persisted.BattleID)
		if err != nil {
			// The killmail is committed; the next admission into this battle recomputes again.
			log.Error(LogMsgRecomputeFailed, "error", err, "battle_id", persisted.BattleID)
		} else {
			result.Battle = battle
		}
	}

	log.Debug(LogMsgAdmitted, "killmail_id", km.ID, "system_id", km.SystemID, "battle_id", result.BattleID)

	return result, nil
}

func (g *Gate) release(ctx context.Context, id int64, claimedAt time.Time) {
	if err := g.store.ReleaseKillmail(ctx, id, claimedAt); err != nil {
		logger.FromContext(ctx).Error(LogMsgReleaseFailed, "error", err, "killmail_id", id)
	}
}
