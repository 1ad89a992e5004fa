package postgres

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/killwatch/internal/domain"
)

func openBattle(t *testing.T, at time.Time) int64 {
	t.Helper()
	res, err := NewKillmailRepository(testPool).Persist(context.Background(), newKillmail(newSystemID(), at), true)
	require.NoError(t, err)
	require.NotZero(t, res.BattleID)
	return res.BattleID
}

func TestClaimBattleMilestone_SingleWinner(t *testing.T) {
	requireDB(t)
	repo := NewAlertRepository(testPool)
	battleID := openBattle(t, time.Date(2026, 4, 1, 18, 0, 0, 0, time.UTC))

	var wg sync.WaitGroup
	var winners atomic.Int32
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			prev, claimed, err := repo.ClaimBattleMilestone(context.Background(), battleID, 10)
			if err != nil {
				t.Errorf("claim failed: %v", err)
				return
			}
			if claimed {
				winners.Add(1)
				assert.Equal(t, 0, prev)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), winners.Load())
}

func TestClaimBattleMilestone_Progression(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewAlertRepository(testPool)
	battleID := openBattle(t, time.Date(2026, 4, 2, 18, 0, 0, 0, time.UTC))

	prev, claimed, err := repo.ClaimBattleMilestone(ctx, battleID, domain.NewBattleMilestone)
	require.NoError(t, err)
	assert.True(t, claimed)
	assert.Equal(t, 0, prev)

	prev, claimed, err = repo.ClaimBattleMilestone(ctx, battleID, 10)
	require.NoError(t, err)
	assert.True(t, claimed)
	assert.Equal(t, domain.NewBattleMilestone, prev)

	prev, claimed, err = repo.ClaimBattleMilestone(ctx, battleID, 10)
	require.NoError(t, err)
	assert.False(t, claimed)
	assert.Equal(t, 10, prev)

	// a skipped milestone is claimed directly
	prev, claimed, err = repo.ClaimBattleMilestone(ctx, battleID, 50)
	require.NoError(t, err)
	assert.True(t, claimed)
	assert.Equal(t, 10, prev)

	_, claimed, err = repo.ClaimBattleMilestone(ctx, battleID, 25)
	require.NoError(t, err)
	assert.False(t, claimed, "a lower milestone never rolls the marker back")
}

func TestClaimBattleMilestone_UnknownBattle(t *testing.T) {
	requireDB(t)

	_, claimed, err := NewAlertRepository(testPool).ClaimBattleMilestone(context.Background(), 987654321, 10)

	assert.False(t, claimed)
	assert.ErrorIs(t, err, domain.ErrBattleNotFound)
}

func TestBattleMessageHandle(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewAlertRepository(testPool)
	battleID := openBattle(t, time.Date(2026, 4, 3, 18, 0, 0, 0, time.UTC))

	b, err := repo.GetBattle(ctx, battleID)
	require.NoError(t, err)
	assert.Empty(t, b.MessageID)

	require.NoError(t, repo.SetBattleMessage(ctx, battleID, "1234567890"))

	b, err = repo.GetBattle(ctx, battleID)
	require.NoError(t, err)
	assert.Equal(t, "1234567890", b.MessageID)
}

func TestBattleMessageHandle_UnknownBattle(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewAlertRepository(testPool)

	assert.ErrorIs(t, repo.SetBattleMessage(ctx, 987654321, "x"), domain.ErrBattleNotFound)

	_, err := repo.GetBattle(ctx, 987654321)
	assert.ErrorIs(t, err, domain.ErrBattleNotFound)
}
