package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/killwatch/internal/domain"
)

// Type represents the type of an event
type Type string

// Event represents a generic event in the system
type Event struct {
	Version string      `json:"version"` // Event schema version (e.g., "1.0")
	Type    Type        `json:"type"`
	Payload interface{} `json:"payload"`
}

// Event types, mirrored from domain so subscribers don't need the conversion
const (
	KillmailAdmitted  Type = domain.EventTypeKillmailAdmitted
	HotspotDetected   Type = domain.EventTypeHotspotDetected
	BattleStarted     Type = domain.EventTypeBattleStarted
	BattleMilestone   Type = domain.EventTypeBattleMilestone
	BattleEnded       Type = domain.EventTypeBattleEnded
	CatastrophicLoss  Type = domain.EventTypeCatastrophicLoss
	ConflictMilestone Type = domain.EventTypeConflictMilestone
	ConflictAged      Type = domain.EventTypeConflictAged
)

// Type-safe event constructors

// NewKillmailAdmittedEvent creates a killmail.admitted event
func NewKillmailAdmittedEvent(km *domain.Killmail, battleID int64) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    KillmailAdmitted,
		Payload: domain.KillmailAdmittedPayload{
			KillmailID: km.ID,
			SystemID:   km.SystemID,
			BattleID:   battleID,
			Value:      km.Value,
			Timestamp:  km.Time.Unix(),
		},
	}
}

// NewHotspotDetectedEvent creates a hotspot.detected event
func NewHotspotDetectedEvent(systemID int64, count int, at time.Time) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    HotspotDetected,
		Payload: domain.HotspotDetectedPayload{
			SystemID:  systemID,
			Count:     count,
			Timestamp: at.Unix(),
		},
	}
}

// NewBattleStartedEvent creates a battle.started event
func NewBattleStartedEvent(b domain.Battle) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    BattleStarted,
		Payload: domain.BattleStartedPayload{Battle: b},
	}
}

// NewBattleMilestoneEvent creates a battle.milestone event
func NewBattleMilestoneEvent(b domain.Battle, milestone int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    BattleMilestone,
		Payload: domain.BattleMilestonePayload{Battle: b, Milestone: milestone},
	}
}

// NewBattleEndedEvent creates a battle.ended event
func NewBattleEndedEvent(b domain.Battle, participants []domain.BattleParticipant) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    BattleEnded,
		Payload: domain.BattleEndedPayload{Battle: b, Participants: participants},
	}
}

// NewCatastrophicLossEvent creates a killmail.catastrophic event
func NewCatastrophicLossEvent(km domain.Killmail, battleID int64) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    CatastrophicLoss,
		Payload: domain.CatastrophicLossPayload{Killmail: km, BattleID: battleID},
	}
}

// NewConflictMilestoneEvent creates a conflict.milestone event
func NewConflictMilestoneEvent(c domain.Conflict, milestone int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    ConflictMilestone,
		Payload: domain.ConflictMilestonePayload{Conflict: c, Milestone: milestone},
	}
}

// NewConflictAgedEvent creates a conflict.aged event
func NewConflictAgedEvent(dormant, ended int64, at time.Time) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    ConflictAged,
		Payload: domain.ConflictAgedPayload{Dormant: dormant, Ended: ended, Timestamp: at.Unix()},
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers. Handlers run synchronously;
// slow work belongs on the worker pool.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
