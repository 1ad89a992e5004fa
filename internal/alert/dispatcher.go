package alert

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/killwatch/internal/danger"
	"github.com/osse101/killwatch/internal/domain"
	"github.com/osse101/killwatch/internal/event"
	"github.com/osse101/killwatch/internal/logger"
	"github.com/osse101/killwatch/internal/metrics"
	"github.com/osse101/killwatch/internal/state"
	"github.com/osse101/killwatch/internal/universe"
	"github.com/osse101/killwatch/internal/worker"
)

// Dispatcher turns lifecycle events into chat alerts. Each alert is claimed
// before it is formatted, so only one worker ever sends it. Delivery failures
// are logged and swallowed; a claimed alert is never retried.
type Dispatcher struct {
	repo      Repository
	store     state.Store
	sender    Sender
	formatter *Formatter
	catalog   universe.Catalog
	patterns  *danger.Detector
	pool      *worker.Pool
}

// NewDispatcher creates an alert dispatcher that runs its jobs on pool
func NewDispatcher(repo Repository, store state.Store, sender Sender, catalog universe.Catalog, patterns *danger.Detector, pool *worker.Pool) *Dispatcher {
	return &Dispatcher{
		repo:      repo,
		store:     store,
		sender:    sender,
		formatter: NewFormatter(catalog),
		catalog:   catalog,
		patterns:  patterns,
		pool:      pool,
	}
}

// Register subscribes the dispatcher to the alerting event types
func (d *Dispatcher) Register(bus event.Bus) {
	bus.Subscribe(event.BattleMilestone, d.HandleEvent)
	bus.Subscribe(event.BattleEnded, d.HandleEvent)
	bus.Subscribe(event.CatastrophicLoss, d.HandleEvent)
	bus.Subscribe(event.ConflictMilestone, d.HandleEvent)
}

// HandleEvent hands the event to the worker pool without waiting: it runs
// inside the ingest path, so a full alert queue drops the alert.
func (d *Dispatcher) HandleEvent(ctx context.Context, evt event.Event) error {
	kind, job, err := d.jobFor(evt)
	if err != nil {
		metrics.AlertsFailed.WithLabelValues(kind).Inc()
		return err
	}
	if job == nil {
		logger.FromContext(ctx).Debug(LogMsgUnexpectedPayload, "type", evt.Type)
		return nil
	}

	if err := d.pool.TryEnqueue(job); err != nil {
		if errors.Is(err, worker.ErrQueueFull) {
			metrics.AlertsDropped.WithLabelValues(kind).Inc()
			logger.FromContext(ctx).Warn(LogMsgAlertDropped, "kind", kind)
		} else {
			metrics.AlertsFailed.WithLabelValues(kind).Inc()
		}
		return fmt.Errorf(ErrMsgEnqueueFailed, kind, err)
	}
	return nil
}

// jobFor builds the delivery job for an alerting event. A nil job means the
// event type raises no alert.
func (d *Dispatcher) jobFor(evt event.Event) (string, worker.JobFunc, error) {
	switch evt.Type {
	case event.BattleMilestone:
		p, err := event.DecodePayload[domain.BattleMilestonePayload](evt)
		if err != nil {
			return KindMilestone, nil, err
		}
		return KindMilestone, func(ctx context.Context) error { return d.battleMilestone(ctx, p.Battle, p.Milestone) }, nil
	case event.BattleEnded:
		p, err := event.DecodePayload[domain.BattleEndedPayload](evt)
		if err != nil {
			return KindBattleEnded, nil, err
		}
		return KindBattleEnded, func(ctx context.Context) error { return d.battleEnded(ctx, p.Battle, p.Participants) }, nil
	case event.CatastrophicLoss:
		p, err := event.DecodePayload[domain.CatastrophicLossPayload](evt)
		if err != nil {
			return KindCatastrophic, nil, err
		}
		return KindCatastrophic, func(ctx context.Context) error { return d.catastrophic(ctx, p.Killmail) }, nil
	case event.ConflictMilestone:
		p, err := event.DecodePayload[domain.ConflictMilestonePayload](evt)
		if err != nil {
			return KindConflictMilestone, nil, err
		}
		return KindConflictMilestone, func(ctx context.Context) error { return d.conflictMilestone(ctx, p.Conflict, p.Milestone) }, nil
	}
	return "", nil, nil
}

func (d *Dispatcher) battleMilestone(ctx context.Context, b domain.Battle, milestone int) error {
	prev, claimed, err := d.repo.ClaimBattleMilestone(ctx, b.ID, milestone)
	if err != nil {
		metrics.AlertsFailed.WithLabelValues(KindMilestone).Inc()
		logger.FromContext(ctx).Error(LogMsgAlertFailed, "error", fmt.Errorf(ErrMsgClaimFailed, KindMilestone, err), "battle_id", b.ID)
		return nil
	}

	kind := KindMilestone
	if prev == 0 {
		kind = KindNewBattle
	}
	if !claimed {
		d.skipped(ctx, kind, b.ID)
		return nil
	}

	var security float64
	if sys, ok := d.catalog.System(b.SystemID); ok {
		security = sys.Security
	}
	assessment := danger.AssessBattle(&b, security)

	var pattern *danger.Pattern
	if d.patterns != nil {
		if p, err := d.patterns.DetectPattern(ctx, b.SystemID); err != nil {
			logger.FromContext(ctx).Warn(LogMsgPatternFailed, "error", err, "system_id", b.SystemID)
		} else {
			pattern = &p
		}
	}

	var embed *discordgo.MessageEmbed
	if kind == KindNewBattle {
		embed = d.formatter.NewBattle(&b, assessment, pattern)
	} else {
		embed = d.formatter.Milestone(&b, milestone, assessment, pattern)
	}

	messageID, ok := d.send(ctx, kind, b.ID, embed)
	if !ok {
		return nil
	}
	if err := d.repo.SetBattleMessage(ctx, b.ID, messageID); err != nil {
		logger.FromContext(ctx).Warn(LogMsgStoreHandleFailed, "error", err, "battle_id", b.ID)
	}
	return nil
}

func (d *Dispatcher) battleEnded(ctx context.Context, b domain.Battle, participants []domain.BattleParticipant) error {
	if !d.claim(ctx, KindBattleEnded, b.ID, 0) {
		return nil
	}

	// the payload can predate the last milestone's stored handle
	messageID := b.MessageID
	if messageID == "" {
		if fresh, err := d.repo.GetBattle(ctx, b.ID); err == nil && fresh != nil {
			messageID = fresh.MessageID
		}
	}

	embed := d.formatter.BattleEnded(&b, participants)
	if messageID == "" {
		d.send(ctx, KindBattleEnded, b.ID, embed)
		return nil
	}

	log := logger.FromContext(ctx)
	if err := d.sender.Edit(ctx, messageID, embed); err != nil {
		metrics.AlertsFailed.WithLabelValues(KindBattleEnded).Inc()
		log.Error(LogMsgAlertFailed, "error", err, "kind", KindBattleEnded, "id", b.ID)
		return nil
	}
	metrics.AlertsSent.WithLabelValues(KindBattleEnded).Inc()
	log.Info(LogMsgAlertSent, "kind", KindBattleEnded, "id", b.ID, "message_id", messageID)
	return nil
}

func (d *Dispatcher) catastrophic(ctx context.Context, km domain.Killmail) error {
	if !d.claim(ctx, KindCatastrophic, km.ID, 0) {
		return nil
	}
	d.send(ctx, KindCatastrophic, km.ID, d.formatter.Catastrophic(&km))
	return nil
}

func (d *Dispatcher) conflictMilestone(ctx context.Context, c domain.Conflict, milestone int) error {
	if !d.claim(ctx, KindConflictMilestone, c.ID, milestone) {
		return nil
	}
	d.send(ctx, KindConflictMilestone, c.ID, d.formatter.ConflictMilestone(&c, milestone))
	return nil
}

// claim sets the Redis flag for a non-battle alert. False means skip.
func (d *Dispatcher) claim(ctx context.Context, kind string, id int64, milestone int) bool {
	ok, err := d.store.Claim(ctx, state.ClaimKey(kind, id, strconv.Itoa(milestone)), ClaimTTL)
	if err != nil {
		metrics.AlertsFailed.WithLabelValues(kind).Inc()
		logger.FromContext(ctx).Error(LogMsgAlertFailed, "error", fmt.Errorf(ErrMsgClaimFailed, kind, err), "id", id)
		return false
	}
	if !ok {
		d.skipped(ctx, kind, id)
	}
	return ok
}

func (d *Dispatcher) send(ctx context.Context, kind string, id int64, embed *discordgo.MessageEmbed) (string, bool) {
	log := logger.FromContext(ctx)
	messageID, err := d.sender.Send(ctx, embed)
	if err != nil {
		metrics.AlertsFailed.WithLabelValues(kind).Inc()
		log.Error(LogMsgAlertFailed, "error", err, "kind", kind, "id", id)
		return "", false
	}
	metrics.AlertsSent.WithLabelValues(kind).Inc()
	log.Info(LogMsgAlertSent, "kind", kind, "id", id, "message_id", messageID)
	return messageID, true
}

func (d *Dispatcher) skipped(ctx context.Context, kind string, id int64) {
	metrics.AlertsSkipped.WithLabelValues(kind).Inc()
	logger.FromContext(ctx).Debug(LogMsgAlertSkipped, "kind", kind, "id", id)
}
