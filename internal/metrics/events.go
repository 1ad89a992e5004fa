package metrics

import (
	"context"

	"github.com/osse101/killwatch/internal/domain"
	"github.com/osse101/killwatch/internal/event"
	"github.com/osse101/killwatch/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all events
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	eventTypes := []event.Type{
		event.KillmailAdmitted,
		event.HotspotDetected,
		event.BattleStarted,
		event.BattleMilestone,
		event.BattleEnded,
		event.CatastrophicLoss,
		event.ConflictMilestone,
		event.ConflictAged,
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}

	return nil
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	// Always increment event counter
	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch evt.Type {
	case event.KillmailAdmitted:
		p, ok := evt.Payload.(domain.KillmailAdmittedPayload)
		if !ok {
			log.Debug(LogMsgUnexpectedPayload, "type", evt.Type)
			return nil
		}
		KillmailsAdmitted.Inc()
		ISKDestroyed.Add(p.Value)

	case event.HotspotDetected:
		HotspotsDetected.Inc()

	case event.BattleStarted:
		BattlesStarted.Inc()

	case event.BattleEnded:
		BattlesEnded.Inc()

	case event.ConflictAged:
		p, ok := evt.Payload.(domain.ConflictAgedPayload)
		if !ok {
			log.Debug(LogMsgUnexpectedPayload, "type", evt.Type)
			return nil
		}
		ConflictsAged.WithLabelValues(domain.ConflictStatusDormant).Add(float64(p.Dormant))
		ConflictsAged.WithLabelValues(domain.ConflictStatusEnded).Add(float64(p.Ended))
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}
