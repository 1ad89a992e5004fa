package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/killwatch/internal/domain"
	"github.com/osse101/killwatch/internal/lifecycle"
)

type lifecycleRepository struct {
	db *pgxpool.Pool
}

// NewLifecycleRepository creates the battle and conflict aggregate store
func NewLifecycleRepository(db *pgxpool.Pool) lifecycle.Repository {
	return &lifecycleRepository{db: db}
}

// RecordConflictKill upserts the conflict and the day's trend row together.
// Any new kill puts a dormant or ended conflict back to active.
func (r *lifecycleRepository) RecordConflictKill(ctx context.Context, kill domain.ConflictKill) (*domain.Conflict, error) {
	var killsA, killsB int
	var iskA, iskB float64
	if kill.KillerID == kill.Pair.A {
		killsA, iskA = 1, kill.Value
	} else {
		killsB, iskB = 1, kill.Value
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgFailedToBeginTransaction, err)
	}
	defer SafeRollback(ctx, tx)

	conflict, err := scanConflict(tx.QueryRow(ctx, `
		INSERT INTO conflicts (alliance_a, alliance_b, kills_a, kills_b, isk_destroyed_a, isk_destroyed_b, status, started_at, last_activity_at)
		VALUES ($1, $2, $3, $4, $5, $6, 'active', $7, $7)
		ON CONFLICT (alliance_a, alliance_b) DO UPDATE SET
			kills_a = conflicts.kills_a + EXCLUDED.kills_a,
			kills_b = conflicts.kills_b + EXCLUDED.kills_b,
			isk_destroyed_a = conflicts.isk_destroyed_a + EXCLUDED.isk_destroyed_a,
			isk_destroyed_b = conflicts.isk_destroyed_b + EXCLUDED.isk_destroyed_b,
			status = 'active',
			last_activity_at = GREATEST(conflicts.last_activity_at, EXCLUDED.last_activity_at)
		RETURNING `+conflictColumns,
		kill.Pair.A, kill.Pair.B, killsA, killsB, iskA, iskB, kill.OccurredAt,
	))
	if err != nil {
		return nil, fmt.Errorf(ErrMsgFailedToUpsertConflict, kill.Pair.A, kill.Pair.B, err)
	}

	day := kill.OccurredAt.UTC().Truncate(24 * time.Hour)
	_, err = tx.Exec(ctx, `
		INSERT INTO conflict_daily_stats (conflict_id, day, kills_a, kills_b, isk_destroyed_a, isk_destroyed_b)
		VALUES ($1, $2::date, $3, $4, $5, $6)
		ON CONFLICT (conflict_id, day) DO UPDATE SET
			kills_a = conflict_daily_stats.kills_a + EXCLUDED.kills_a,
			kills_b = conflict_daily_stats.kills_b + EXCLUDED.kills_b,
			isk_destroyed_a = conflict_daily_stats.isk_destroyed_a + EXCLUDED.isk_destroyed_a,
			isk_destroyed_b = conflict_daily_stats.isk_destroyed_b + EXCLUDED.isk_destroyed_b`,
		conflict.ID, day, killsA, killsB, iskA, iskB,
	)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgFailedToUpsertDailyStat, conflict.ID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgFailedToCommitTransaction, err)
	}
	return conflict, nil
}

// EndIdleBattles closes battles whose last kill is more than idle before now.
// ended_at is last_kill_at + idle, not the sweep time.
func (r *lifecycleRepository) EndIdleBattles(ctx context.Context, now time.Time, idle time.Duration) ([]domain.Battle, error) {
	rows, err := r.db.Query(ctx, `
		UPDATE battles SET
			status = 'ended',
			ended_at = last_kill_at + make_interval(secs => $2::float8),
			duration_seconds = EXTRACT(EPOCH FROM (last_kill_at + make_interval(secs => $2::float8) - started_at))::BIGINT,
			updated_at = NOW()
		WHERE status = 'active' AND last_kill_at < $1::timestamptz - make_interval(secs => $2::float8)
		RETURNING `+battleColumns,
		now, seconds(idle),
	)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgFailedToEndBattles, err)
	}
	defer rows.Close()

	var battles []domain.Battle
	for rows.Next() {
		b, err := scanBattle(rows)
		if err != nil {
			return nil, fmt.Errorf(ErrMsgFailedToScanBattle, err)
		}
		battles = append(battles, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf(ErrMsgFailedToEndBattles, err)
	}
	return battles, nil
}

// AgeConflicts ends long-dormant conflicts, then puts quiet active ones to
// sleep. A conflict moves at most one step per call.
func (r *lifecycleRepository) AgeConflicts(ctx context.Context, now time.Time, dormantAfter, endedAfter time.Duration) (int64, int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf(ErrMsgFailedToBeginTransaction, err)
	}
	defer SafeRollback(ctx, tx)

	ended, err := tx.Exec(ctx, `
		UPDATE conflicts SET status = 'ended'
		WHERE status = 'dormant' AND last_activity_at < $1::timestamptz - make_interval(secs => $2::float8)`,
		now, seconds(endedAfter),
	)
	if err != nil {
		return 0, 0, fmt.Errorf(ErrMsgFailedToAgeConflicts, domain.ConflictStatusEnded, err)
	}

	dormant, err := tx.Exec(ctx, `
		UPDATE conflicts SET status = 'dormant'
		WHERE status = 'active' AND last_activity_at < $1::timestamptz - make_interval(secs => $2::float8)`,
		now, seconds(dormantAfter),
	)
	if err != nil {
		return 0, 0, fmt.Errorf(ErrMsgFailedToAgeConflicts, domain.ConflictStatusDormant, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, 0, fmt.Errorf(ErrMsgFailedToCommitTransaction, err)
	}
	return dormant.RowsAffected(), ended.RowsAffected(), nil
}

// GetBattleParticipants lists the battle's rollups, busiest first
func (r *lifecycleRepository) GetBattleParticipants(ctx context.Context, battleID int64) ([]domain.BattleParticipant, error) {
	rows, err := r.db.Query(ctx, `
		SELECT battle_id, alliance_id, corporation_id, kills, losses, isk_destroyed, isk_lost
		FROM battle_participants
		WHERE battle_id = $1
		ORDER BY kills + losses DESC, alliance_id, corporation_id`,
		battleID,
	)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgFailedToGetParticipants, battleID, err)
	}
	defer rows.Close()

	var out []domain.BattleParticipant
	for rows.Next() {
		var p domain.BattleParticipant
		if err := rows.Scan(&p.BattleID, &p.AllianceID, &p.CorporationID, &p.Kills, &p.Losses, &p.ISKDestroyed, &p.ISKLost); err != nil {
			return nil, fmt.Errorf(ErrMsgFailedToGetParticipants, battleID, err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf(ErrMsgFailedToGetParticipants, battleID, err)
	}
	return out, nil
}
