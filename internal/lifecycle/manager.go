package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/killwatch/internal/admission"
	"github.com/osse101/killwatch/internal/domain"
	"github.com/osse101/killwatch/internal/event"
	"github.com/osse101/killwatch/internal/logger"
	"github.com/osse101/killwatch/internal/state"
)

// Manager owns battle and conflict state transitions. Every aggregate change
// goes through it and is announced on the bus.
type Manager interface {
	// OnAdmitted reacts to a freshly admitted killmail
	OnAdmitted(ctx context.Context, km *domain.Killmail, res *admission.Result) error
	// Sweep ends idle battles and ages conflicts. It never creates aggregates.
	Sweep(ctx context.Context, now time.Time) (*SweepResult, error)
}

// SweepResult reports what one sweep changed
type SweepResult struct {
	BattlesEnded     []domain.Battle
	ConflictsDormant int64
	ConflictsEnded   int64
}

type manager struct {
	repo  Repository
	store state.Store
	bus   event.Bus
}

// NewManager creates a lifecycle manager
func NewManager(repo Repository, store state.Store, bus event.Bus) Manager {
	return &manager{
		repo:  repo,
		store: store,
		bus:   bus,
	}
}

func (m *manager) OnAdmitted(ctx context.Context, km *domain.Killmail, res *admission.Result) error {
	if res == nil || res.Duplicate {
		return nil
	}
	log := logger.FromContext(ctx)

	if err := m.store.PushRecent(ctx, km.Summary(), domain.RecentKillmailsPerSystem); err != nil {
		log.Warn(LogMsgPushRecentFailed, "error", err, "killmail_id", km.ID)
	}

	m.publish(ctx, event.NewKillmailAdmittedEvent(km, res.BattleID))

	if res.Hotspot.Crossed {
		m.publish(ctx, event.NewHotspotDetectedEvent(km.SystemID, res.Hotspot.Count, km.Time))
	}

	m.recordConflicts(ctx, km)

	if res.BattleCreated {
		started := domain.Battle{ID: res.BattleID, SystemID: km.SystemID, RegionID: km.RegionID, Status: domain.BattleStatusActive, StartedAt: km.Time, LastKillAt: km.Time}
		if res.Battle != nil {
			started = *res.Battle
		}
		m.publish(ctx, event.NewBattleStartedEvent(started))
	}

	if res.Battle != nil {
		if milestone := res.Battle.NextMilestone(); milestone > 0 {
			m.publish(ctx, event.NewBattleMilestoneEvent(*res.Battle, milestone))
		}
	}

	if km.Value >= domain.CatastrophicLossValue {
		m.publish(ctx, event.NewCatastrophicLossEvent(*km, res.BattleID))
	}

	return nil
}

// recordConflicts credits each distinct attacking alliance in its conflict
// with the victim's alliance
func (m *manager) recordConflicts(ctx context.Context, km *domain.Killmail) {
	victim := km.Victim.AllianceID
	if victim == 0 {
		return
	}

	for _, attacker := range km.AttackerAlliances() {
		if attacker == victim {
			continue
		}
		conflict, err := m.repo.RecordConflictKill(ctx, domain.ConflictKill{
			Pair:       domain.NewConflictPair(victim, attacker),
			KillerID:   attacker,
			Value:      km.Value,
			OccurredAt: km.Time,
		})
		if err != nil {
			logger.FromContext(ctx).Error(LogMsgConflictFailed, "error", err, "killmail_id", km.ID, "victim_alliance", victim, "attacker_alliance", attacker)
			continue
		}

		total := conflict.TotalKills()
		for _, milestone := range domain.ConflictMilestones {
			if total-1 < milestone && milestone <= total {
				m.publish(ctx, event.NewConflictMilestoneEvent(*conflict, milestone))
			}
		}
	}
}

func (m *manager) Sweep(ctx context.Context, now time.Time) (*SweepResult, error) {
	log := logger.FromContext(ctx)
	result := &SweepResult{}

	ended, err := m.repo.EndIdleBattles(ctx, now, domain.BattleIdleTimeout)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgEndBattlesFailed, err)
	}
	result.BattlesEnded = ended

	for _, b := range ended {
		participants, err := m.repo.GetBattleParticipants(ctx, b.ID)
		if err != nil {
			log.Warn(LogMsgParticipantsFailed, "error", err, "battle_id", b.ID)
		}
		log.Info(LogMsgBattleEnded, "battle_id", b.ID, "system_id", b.SystemID, "kills", b.TotalKills, "duration", b.Duration())
		m.publish(ctx, event.NewBattleEndedEvent(b, participants))
	}

	dormant, endedConflicts, err := m.repo.AgeConflicts(ctx, now, domain.ConflictDormantAfter, domain.ConflictEndedAfter)
	if err != nil {
		return result, fmt.Errorf(ErrMsgAgeConflictsFailed, err)
	}
	result.ConflictsDormant = dormant
	result.ConflictsEnded = endedConflicts

	if dormant > 0 || endedConflicts > 0 {
		log.Info(LogMsgConflictsAged, "dormant", dormant, "ended", endedConflicts)
		m.publish(ctx, event.NewConflictAgedEvent(dormant, endedConflicts, now))
	}

	log.Debug(LogMsgSweepComplete, "battles_ended", len(ended))
	return result, nil
}

// publish never fails the caller; subscriber errors are logged
func (m *manager) publish(ctx context.Context, evt event.Event) {
	if err := m.bus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Error(LogMsgPublishFailed, "error", err, "type", evt.Type)
	}
}
