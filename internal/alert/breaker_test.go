package alert

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreakerSender_PassesThrough(t *testing.T) {
	inner := newRecordingSender()
	s := NewBreakerSender(inner)

	id, err := s.Send(context.Background(), &discordgo.MessageEmbed{Title: "x"})
	require.NoError(t, err)
	assert.Equal(t, "msg-x", id)

	require.NoError(t, s.Edit(context.Background(), id, &discordgo.MessageEmbed{Title: "y"}))
	assert.Contains(t, inner.edits, "msg-x")
}

func TestBreakerSender_OpensAfterConsecutiveFailures(t *testing.T) {
	inner := newRecordingSender()
	inner.err = errors.New("gateway timeout")
	s := NewBreakerSender(inner)

	for i := 0; i < breakerConsecutiveTrips; i++ {
		_, err := s.Send(context.Background(), &discordgo.MessageEmbed{})
		require.Error(t, err)
		assert.NotErrorIs(t, err, gobreaker.ErrOpenState)
	}

	inner.err = nil
	_, err := s.Send(context.Background(), &discordgo.MessageEmbed{})
	assert.ErrorIs(t, err, gobreaker.ErrOpenState, "open breaker fails fast")
	assert.Zero(t, inner.sentCount())
}

func TestLogSender(t *testing.T) {
	var s LogSender
	id, err := s.Send(context.Background(), &discordgo.MessageEmbed{Title: "t"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.NoError(t, s.Edit(context.Background(), id, &discordgo.MessageEmbed{Title: "t"}))
}
