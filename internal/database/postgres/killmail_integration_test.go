package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/killwatch/internal/admission"
	"github.com/osse101/killwatch/internal/domain"
)

func TestPersist_AtMostOnce(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewKillmailRepository(testPool)
	km := newKillmail(newSystemID(), time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC))

	first, err := repo.Persist(ctx, km, false)
	require.NoError(t, err)
	assert.False(t, first.Duplicate)

	second, err := repo.Persist(ctx, km, false)
	require.NoError(t, err)
	assert.True(t, second.Duplicate)

	assert.Equal(t, 1, countRows(t, `SELECT COUNT(*) FROM killmails WHERE killmail_id = $1`, km.ID))
	assert.Equal(t, 2, countRows(t, `SELECT COUNT(*) FROM killmail_items WHERE killmail_id = $1`, km.ID))
	assert.Equal(t, 3, countRows(t, `SELECT COUNT(*) FROM killmail_attackers WHERE killmail_id = $1`, km.ID))
	assert.Equal(t, 1, countRows(t, `SELECT COUNT(*) FROM killmail_attackers WHERE killmail_id = $1 AND alliance_id IS NULL`, km.ID),
		"unknown attacker alliance stored as NULL")
}

func TestPersist_ConcurrentSameKillmail(t *testing.T) {
	requireDB(t)
	repo := NewKillmailRepository(testPool)
	km := newKillmail(newSystemID(), time.Date(2026, 2, 1, 11, 0, 0, 0, time.UTC))

	var wg sync.WaitGroup
	results := make(chan admission.Persisted, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := repo.Persist(context.Background(), km, true)
			if err != nil {
				t.Errorf("persist failed: %v", err)
				return
			}
			results <- res
		}()
	}
	wg.Wait()
	close(results)

	written, created := 0, 0
	for r := range results {
		if !r.Duplicate {
			written++
		}
		if r.BattleCreated {
			created++
		}
	}
	assert.Equal(t, 1, written)
	assert.Equal(t, 1, created)
	assert.Equal(t, 1, countRows(t, `SELECT COUNT(*) FROM killmail_items WHERE killmail_id = $1`, km.ID))
}

func TestPersist_NoBattleWithoutHotspot(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewKillmailRepository(testPool)
	km := newKillmail(newSystemID(), time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC))

	res, err := repo.Persist(ctx, km, false)

	require.NoError(t, err)
	assert.Zero(t, res.BattleID)
	assert.Equal(t, 1, countRows(t, `SELECT COUNT(*) FROM killmails WHERE killmail_id = $1 AND battle_id IS NULL`, km.ID))
}

func TestPersist_OneActiveBattlePerSystemUnderConcurrency(t *testing.T) {
	requireDB(t)
	repo := NewKillmailRepository(testPool)
	system := newSystemID()
	at := time.Date(2026, 2, 2, 20, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	results := make(chan admission.Persisted, 12)
	for i := 0; i < 12; i++ {
		km := newKillmail(system, at.Add(time.Duration(i)*time.Second))
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := repo.Persist(context.Background(), km, true)
			if err != nil {
				t.Errorf("persist failed: %v", err)
				return
			}
			results <- res
		}()
	}
	wg.Wait()
	close(results)

	var battleID int64
	created := 0
	for r := range results {
		require.NotZero(t, r.BattleID)
		if battleID == 0 {
			battleID = r.BattleID
		}
		assert.Equal(t, battleID, r.BattleID, "every killmail joins the same battle")
		if r.BattleCreated {
			created++
		}
	}
	assert.Equal(t, 1, created)
	assert.Equal(t, 1, countRows(t, `SELECT COUNT(*) FROM battles WHERE system_id = $1 AND status = 'active'`, system))
}

func TestRecomputeBattle_MatchesKillmailLog(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewKillmailRepository(testPool)
	system := newSystemID()
	start := time.Date(2026, 2, 3, 18, 0, 0, 0, time.UTC)

	var battleID int64
	var total float64
	for i := 0; i < 6; i++ {
		km := newKillmail(system, start.Add(time.Duration(i)*time.Minute))
		km.Value = float64(i+1) * 1e8
		if i == 2 {
			km.IsHeavy = true
		}
		total += km.Value
		res, err := repo.Persist(ctx, km, true)
		require.NoError(t, err)
		battleID = res.BattleID
	}

	battle, err := repo.RecomputeBattle(ctx, battleID)

	require.NoError(t, err)
	assert.Equal(t, countRows(t, `SELECT COUNT(*) FROM killmails WHERE battle_id = $1`, battleID), battle.TotalKills)
	assert.Equal(t, 6, battle.TotalKills)
	assert.InDelta(t, total, battle.TotalValue, 1)
	assert.Equal(t, 1, battle.HeavyKills)
	assert.True(t, battle.StartedAt.Equal(start))
	assert.True(t, battle.LastKillAt.Equal(start.Add(5*time.Minute)))
	assert.Equal(t, domain.BattleStatusActive, battle.Status)
}

func TestRecomputeBattle_FreshBattleHasOneKill(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewKillmailRepository(testPool)
	km := newKillmail(newSystemID(), time.Date(2026, 2, 4, 1, 0, 0, 0, time.UTC))

	res, err := repo.Persist(ctx, km, true)
	require.NoError(t, err)
	require.True(t, res.BattleCreated)

	battle, err := repo.RecomputeBattle(ctx, res.BattleID)
	require.NoError(t, err)
	assert.Equal(t, 1, battle.TotalKills)
}

func TestRecomputeBattle_NotFound(t *testing.T) {
	requireDB(t)

	_, err := NewKillmailRepository(testPool).RecomputeBattle(context.Background(), 987654321)

	assert.ErrorIs(t, err, domain.ErrBattleNotFound)
}

func TestPersist_ParticipantRollups(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewKillmailRepository(testPool)
	lifecycleRepo := NewLifecycleRepository(testPool)
	km := newKillmail(newSystemID(), time.Date(2026, 2, 5, 3, 0, 0, 0, time.UTC))

	res, err := repo.Persist(ctx, km, true)
	require.NoError(t, err)

	participants, err := lifecycleRepo.GetBattleParticipants(ctx, res.BattleID)
	require.NoError(t, err)

	byGroup := make(map[[2]int64]domain.BattleParticipant)
	for _, p := range participants {
		byGroup[[2]int64{p.AllianceID, p.CorporationID}] = p
	}
	require.Len(t, byGroup, 3)

	victim := byGroup[[2]int64{99000001, 98000001}]
	assert.Equal(t, 1, victim.Losses)
	assert.InDelta(t, km.Value, victim.ISKLost, 1)

	attackers := byGroup[[2]int64{99000002, 98000002}]
	assert.Equal(t, 1, attackers.Kills, "two pilots from one corporation count once")
	assert.InDelta(t, km.Value, attackers.ISKDestroyed, 1)

	npc := byGroup[[2]int64{0, 1000125}]
	assert.Equal(t, 1, npc.Kills)
}
