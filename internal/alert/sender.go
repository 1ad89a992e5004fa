package alert

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"

	"github.com/osse101/killwatch/internal/logger"
)

// Sender delivers alert embeds to the chat channel. Send returns the handle
// later used by Edit.
type Sender interface {
	Send(ctx context.Context, embed *discordgo.MessageEmbed) (string, error)
	Edit(ctx context.Context, messageID string, embed *discordgo.MessageEmbed) error
}

type discordSender struct {
	session   *discordgo.Session
	channelID string
}

// NewDiscordSender creates a REST-only Discord sender; no gateway connection is opened
func NewDiscordSender(token, channelID string) (Sender, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgSessionFailed, err)
	}
	return &discordSender{session: s, channelID: channelID}, nil
}

func (d *discordSender) Send(ctx context.Context, embed *discordgo.MessageEmbed) (string, error) {
	msg, err := d.session.ChannelMessageSendEmbed(d.channelID, embed, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf(ErrMsgSendFailed, err)
	}
	return msg.ID, nil
}

func (d *discordSender) Edit(ctx context.Context, messageID string, embed *discordgo.MessageEmbed) error {
	if _, err := d.session.ChannelMessageEditEmbed(d.channelID, messageID, embed, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf(ErrMsgEditFailed, messageID, err)
	}
	return nil
}

// LogSender writes alerts to the log instead of a channel. Used when Discord is not configured.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, embed *discordgo.MessageEmbed) (string, error) {
	id := uuid.NewString()
	logger.FromContext(ctx).Info(LogMsgAlertLogged, "message_id", id, "title", embed.Title, "description", embed.Description)
	return id, nil
}

func (LogSender) Edit(ctx context.Context, messageID string, embed *discordgo.MessageEmbed) error {
	logger.FromContext(ctx).Info(LogMsgAlertLogged, "message_id", messageID, "title", embed.Title, "edit", true)
	return nil
}
