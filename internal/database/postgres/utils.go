package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/osse101/killwatch/internal/domain"
	"github.com/osse101/killwatch/internal/logger"
)

// SafeRollback rolls back a transaction and logs any error that isn't ErrTxClosed
func SafeRollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		logger.FromContext(ctx).Error(LogMsgFailedToRollback, "error", err)
	}
}

// nullableID maps the zero "unknown" ID to SQL NULL
func nullableID(id int64) pgtype.Int8 {
	return pgtype.Int8{Int64: id, Valid: id != 0}
}

// ptrTime converts a pgtype.Timestamptz to *time.Time.
// Returns nil if the timestamp is not valid.
func ptrTime(t pgtype.Timestamptz) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}

// battleColumns is the select list scanned by scanBattle
const battleColumns = `battle_id, system_id, region_id, status, started_at, last_kill_at,
	ended_at, total_kills, total_value, heavy_kills, last_milestone, COALESCE(message_id, '')`

func scanBattle(row pgx.Row) (*domain.Battle, error) {
	var b domain.Battle
	var endedAt pgtype.Timestamptz
	err := row.Scan(&b.ID, &b.SystemID, &b.RegionID, &b.Status, &b.StartedAt, &b.LastKillAt,
		&endedAt, &b.TotalKills, &b.TotalValue, &b.HeavyKills, &b.LastMilestone, &b.MessageID)
	if err != nil {
		return nil, err
	}
	b.StartedAt = b.StartedAt.UTC()
	b.LastKillAt = b.LastKillAt.UTC()
	b.EndedAt = ptrTime(endedAt)
	return &b, nil
}

// conflictColumns is the select list scanned by scanConflict
const conflictColumns = `conflict_id, alliance_a, alliance_b, kills_a, kills_b,
	isk_destroyed_a, isk_destroyed_b, status, started_at, last_activity_at`

func scanConflict(row pgx.Row) (*domain.Conflict, error) {
	var c domain.Conflict
	err := row.Scan(&c.ID, &c.AllianceA, &c.AllianceB, &c.KillsA, &c.KillsB,
		&c.ISKDestroyedA, &c.ISKDestroyedB, &c.Status, &c.StartedAt, &c.LastActivityAt)
	if err != nil {
		return nil, err
	}
	c.StartedAt = c.StartedAt.UTC()
	c.LastActivityAt = c.LastActivityAt.UTC()
	return &c, nil
}

// seconds renders a duration for make_interval(secs => ...)
func seconds(d time.Duration) float64 {
	return d.Seconds()
}
