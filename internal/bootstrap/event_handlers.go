package bootstrap

import (
	"fmt"

	"github.com/osse101/killwatch/internal/alert"
	"github.com/osse101/killwatch/internal/event"
	"github.com/osse101/killwatch/internal/logger"
	"github.com/osse101/killwatch/internal/metrics"
)

// EventHandlerDependencies holds the subscribers wired onto the bus
type EventHandlerDependencies struct {
	EventBus   event.Bus
	Dispatcher *alert.Dispatcher
}

// RegisterEventHandlers subscribes the metrics collector and the alert
// dispatcher to lifecycle events
func RegisterEventHandlers(deps EventHandlerDependencies) error {
	metricsCollector := metrics.NewEventMetricsCollector()
	if err := metricsCollector.Register(deps.EventBus); err != nil {
		return fmt.Errorf(ErrMsgFailedRegisterMetrics, err)
	}
	logger.Info(LogMsgMetricsCollectorRegistered)

	deps.Dispatcher.Register(deps.EventBus)
	logger.Info(LogMsgAlertDispatcherRegistered)

	return nil
}
