package bootstrap

import (
	"fmt"

	"github.com/osse101/killwatch/internal/alert"
	"github.com/osse101/killwatch/internal/config"
	"github.com/osse101/killwatch/internal/logger"
)

// NewAlertSender returns a breaker-guarded Discord sender, or a LogSender
// when no token or channel is configured
func NewAlertSender(cfg *config.Config) (alert.Sender, error) {
	if !cfg.AlertsEnabled() {
		logger.Warn(LogMsgAlertsToLog)
		return alert.LogSender{}, nil
	}

	discord, err := alert.NewDiscordSender(cfg.DiscordToken, cfg.DiscordChannelID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgAlertSender, err)
	}
	logger.Info(LogMsgAlertsToDiscord, "channel_id", cfg.DiscordChannelID)
	return alert.NewBreakerSender(discord), nil
}
