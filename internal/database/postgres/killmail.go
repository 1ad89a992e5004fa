package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/killwatch/internal/admission"
	"github.com/osse101/killwatch/internal/domain"
	"github.com/osse101/killwatch/internal/logger"
)

type killmailRepository struct {
	db *pgxpool.Pool
}

// NewKillmailRepository creates the permanent killmail store used by admission
func NewKillmailRepository(db *pgxpool.Pool) admission.Repository {
	return &killmailRepository{db: db}
}

// Persist writes the killmail and everything hanging off it in one transaction
func (r *killmailRepository) Persist(ctx context.Context, km *domain.Killmail, openBattle bool) (admission.Persisted, error) {
	var out admission.Persisted

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return out, fmt.Errorf(ErrMsgFailedToBeginTransaction, err)
	}
	defer SafeRollback(ctx, tx)

	inserted, err := insertKillmail(ctx, tx, km)
	if err != nil {
		return out, err
	}
	if !inserted {
		out.Duplicate = true
		return out, nil
	}

	if err := insertItems(ctx, tx, km); err != nil {
		return out, err
	}
	if err := insertAttackers(ctx, tx, km); err != nil {
		return out, err
	}

	battleID, created, err := resolveBattle(ctx, tx, km, openBattle)
	if err != nil {
		return out, err
	}

	if battleID != 0 {
		if _, err := tx.Exec(ctx, `UPDATE killmails SET battle_id = $1 WHERE killmail_id = $2`, battleID, km.ID); err != nil {
			return out, fmt.Errorf(ErrMsgFailedToLinkBattle, km.ID, battleID, err)
		}
		// Still under the FOR UPDATE lock, so the idle sweep sees this kill
		// before it can end the battle.
		if _, err := tx.Exec(ctx, `
			UPDATE battles SET last_kill_at = GREATEST(last_kill_at, $2), updated_at = NOW()
			WHERE battle_id = $1`, battleID, km.Time); err != nil {
			return out, fmt.Errorf(ErrMsgFailedToLinkBattle, km.ID, battleID, err)
		}
		if err := upsertParticipants(ctx, tx, battleID, km); err != nil {
			return out, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return out, fmt.Errorf(ErrMsgFailedToCommitTransaction, err)
	}

	out.BattleID = battleID
	out.BattleCreated = created
	return out, nil
}

// insertKillmail returns false when the row already exists
func insertKillmail(ctx context.Context, tx pgx.Tx, km *domain.Killmail) (bool, error) {
	tag, err := tx.Exec(ctx, `
		INSERT INTO killmails (
			killmail_id, hash, killmail_time, system_id, region_id, security,
			victim_character_id, victim_corporation_id, victim_alliance_id,
			ship_type_id, ship_category, ship_role, is_heavy, damage_taken,
			attacker_count, total_value, is_solo, is_npc
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT (killmail_id) DO NOTHING`,
		km.ID, km.Hash, km.Time, km.SystemID, km.RegionID, km.Security,
		nullableID(km.Victim.CharacterID), nullableID(km.Victim.CorporationID), nullableID(km.Victim.AllianceID),
		km.Victim.ShipTypeID, km.ShipCategory, km.ShipRole, km.IsHeavy, km.Victim.DamageTaken,
		km.AttackerCount, km.Value, km.Solo, km.NPC,
	)
	if err != nil {
		return false, fmt.Errorf(ErrMsgFailedToInsertKillmail, km.ID, err)
	}
	return tag.RowsAffected() == 1, nil
}

func insertItems(ctx context.Context, tx pgx.Tx, km *domain.Killmail) error {
	if len(km.Items) == 0 {
		return nil
	}
	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{"killmail_items"},
		[]string{"killmail_id", "item_type_id", "flag", "quantity", "dropped"},
		pgx.CopyFromSlice(len(km.Items), func(i int) ([]any, error) {
			it := km.Items[i]
			return []any{km.ID, it.TypeID, int32(it.Flag), it.Quantity, it.Dropped}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf(ErrMsgFailedToInsertItems, km.ID, err)
	}
	return nil
}

func insertAttackers(ctx context.Context, tx pgx.Tx, km *domain.Killmail) error {
	if len(km.Attackers) == 0 {
		return nil
	}
	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{"killmail_attackers"},
		[]string{"killmail_id", "character_id", "corporation_id", "alliance_id", "ship_type_id", "weapon_type_id", "damage_done", "final_blow"},
		pgx.CopyFromSlice(len(km.Attackers), func(i int) ([]any, error) {
			a := km.Attackers[i]
			return []any{
				km.ID, nullableID(a.CharacterID), nullableID(a.CorporationID), nullableID(a.AllianceID),
				nullableID(a.ShipTypeID), nullableID(a.WeaponTypeID), a.DamageDone, a.FinalBlow,
			}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf(ErrMsgFailedToInsertAttackers, km.ID, err)
	}
	return nil
}

const selectActiveBattleForUpdate = `
	SELECT battle_id FROM battles
	WHERE system_id = $1 AND status = 'active'
	ORDER BY last_kill_at DESC
	LIMIT 1
	FOR UPDATE`

// resolveBattle finds the system's active battle, opening one when asked and
// none exists. The partial unique index settles concurrent opens: the loser's
// insert does nothing and it re-selects the winner's row.
func resolveBattle(ctx context.Context, tx pgx.Tx, km *domain.Killmail, openBattle bool) (int64, bool, error) {
	var battleID int64
	err := tx.QueryRow(ctx, selectActiveBattleForUpdate, km.SystemID).Scan(&battleID)
	switch {
	case err == nil:
		return battleID, false, nil
	case !errors.Is(err, pgx.ErrNoRows):
		return 0, false, fmt.Errorf(ErrMsgFailedToResolveBattle, km.SystemID, err)
	case !openBattle:
		return 0, false, nil
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO battles (system_id, region_id, status, started_at, last_kill_at)
		VALUES ($1, $2, 'active', $3, $3)
		ON CONFLICT (system_id) WHERE status = 'active' DO NOTHING
		RETURNING battle_id`,
		km.SystemID, km.RegionID, km.Time,
	).Scan(&battleID)
	if err == nil {
		return battleID, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, false, fmt.Errorf(ErrMsgFailedToCreateBattle, km.SystemID, err)
	}

	logger.FromContext(ctx).Debug(LogMsgBattleCreateRaced, "system_id", km.SystemID)
	if err := tx.QueryRow(ctx, selectActiveBattleForUpdate, km.SystemID).Scan(&battleID); err != nil {
		return 0, false, fmt.Errorf(ErrMsgFailedToResolveBattle, km.SystemID, err)
	}
	return battleID, false, nil
}

const upsertParticipant = `
	INSERT INTO battle_participants (battle_id, alliance_id, corporation_id, kills, losses, isk_destroyed, isk_lost)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (battle_id, alliance_id, corporation_id) DO UPDATE SET
		kills = battle_participants.kills + EXCLUDED.kills,
		losses = battle_participants.losses + EXCLUDED.losses,
		isk_destroyed = battle_participants.isk_destroyed + EXCLUDED.isk_destroyed,
		isk_lost = battle_participants.isk_lost + EXCLUDED.isk_lost`

// upsertParticipants credits the victim's group with a loss and every
// distinct attacking (alliance, corporation) with the kill
func upsertParticipants(ctx context.Context, tx pgx.Tx, battleID int64, km *domain.Killmail) error {
	batch := &pgx.Batch{}
	batch.Queue(upsertParticipant, battleID, km.Victim.AllianceID, km.Victim.CorporationID, 0, 1, 0.0, km.Value)

	type group struct{ alliance, corporation int64 }
	seen := make(map[group]struct{}, len(km.Attackers))
	for _, a := range km.Attackers {
		g := group{a.AllianceID, a.CorporationID}
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		batch.Queue(upsertParticipant, battleID, g.alliance, g.corporation, 1, 0, km.Value, 0.0)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf(ErrMsgFailedToUpsertParticipant, battleID, err)
	}
	return nil
}

// RecomputeBattle rebuilds the counters from the killmails linked to the
// battle. The time bounds of an ended battle are final and left alone.
func (r *killmailRepository) RecomputeBattle(ctx context.Context, battleID int64) (*domain.Battle, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgFailedToBeginTransaction, err)
	}
	defer SafeRollback(ctx, tx)

	var locked int64
	if err := tx.QueryRow(ctx, `SELECT battle_id FROM battles WHERE battle_id = $1 FOR UPDATE`, battleID).Scan(&locked); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf(ErrMsgFailedToLockBattle, battleID, domain.ErrBattleNotFound)
		}
		return nil, fmt.Errorf(ErrMsgFailedToLockBattle, battleID, err)
	}

	battle, err := scanBattle(tx.QueryRow(ctx, `
		UPDATE battles b SET
			total_kills = s.kills,
			total_value = s.value,
			heavy_kills = s.heavy,
			started_at = CASE WHEN b.status = 'active' THEN LEAST(b.started_at, s.first_kill) ELSE b.started_at END,
			last_kill_at = CASE WHEN b.status = 'active' THEN GREATEST(b.last_kill_at, s.last_kill) ELSE b.last_kill_at END,
			updated_at = NOW()
		FROM (
			SELECT COUNT(*) AS kills,
				COALESCE(SUM(total_value), 0) AS value,
				COUNT(*) FILTER (WHERE is_heavy) AS heavy,
				MIN(killmail_time) AS first_kill,
				MAX(killmail_time) AS last_kill
			FROM killmails WHERE battle_id = $1
		) s
		WHERE b.battle_id = $1
		RETURNING `+battleColumns, battleID))
	if err != nil {
		return nil, fmt.Errorf(ErrMsgFailedToRecomputeBattle, battleID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgFailedToCommitTransaction, err)
	}
	return battle, nil
}
