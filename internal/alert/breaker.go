package alert

import (
	"context"

	"github.com/bwmarrin/discordgo"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/osse101/killwatch/internal/logger"
)

type breakerSender struct {
	next Sender
	cb   *gobreaker.CircuitBreaker[string]
}

// NewBreakerSender guards next with a circuit breaker. While open, calls fail
// fast with gobreaker.ErrOpenState and the alert is dropped.
func NewBreakerSender(next Sender) Sender {
	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: breakerMaxHalfOpen,
		Interval:    breakerInterval,
		Timeout:     breakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerConsecutiveTrips
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn(LogMsgBreakerState, "breaker", name, "from", from.String(), "to", to.String())
		},
	})
	return &breakerSender{next: next, cb: cb}
}

func (b *breakerSender) Send(ctx context.Context, embed *discordgo.MessageEmbed) (string, error) {
	return b.cb.Execute(func() (string, error) {
		return b.next.Send(ctx, embed)
	})
}

func (b *breakerSender) Edit(ctx context.Context, messageID string, embed *discordgo.MessageEmbed) error {
	_, err := b.cb.Execute(func() (string, error) {
		return "", b.next.Edit(ctx, messageID, embed)
	})
	return err
}
