package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/killwatch/internal/alert"
	"github.com/osse101/killwatch/internal/domain"
)

type alertRepository struct {
	db *pgxpool.Pool
}

// NewAlertRepository creates the battle alert bookkeeping store
func NewAlertRepository(db *pgxpool.Pool) alert.Repository {
	return &alertRepository{db: db}
}

// ClaimBattleMilestone is a single conditional update. Concurrent callers for
// the same milestone serialise on the row lock; only the first sees a lower
// last_milestone.
func (r *alertRepository) ClaimBattleMilestone(ctx context.Context, battleID int64, milestone int) (int, bool, error) {
	var prev int
	err := r.db.QueryRow(ctx, `
		WITH prev AS (
			SELECT last_milestone FROM battles WHERE battle_id = $1 FOR UPDATE
		)
		UPDATE battles SET last_milestone = $2, updated_at = NOW()
		FROM prev
		WHERE battles.battle_id = $1 AND prev.last_milestone < $2
		RETURNING prev.last_milestone`,
		battleID, milestone,
	).Scan(&prev)
	if err == nil {
		return prev, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, false, fmt.Errorf(ErrMsgFailedToClaimMilestone, milestone, battleID, err)
	}

	if err := r.db.QueryRow(ctx, `SELECT last_milestone FROM battles WHERE battle_id = $1`, battleID).Scan(&prev); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, fmt.Errorf(ErrMsgFailedToClaimMilestone, milestone, battleID, domain.ErrBattleNotFound)
		}
		return 0, false, fmt.Errorf(ErrMsgFailedToClaimMilestone, milestone, battleID, err)
	}
	return prev, false, nil
}

func (r *alertRepository) SetBattleMessage(ctx context.Context, battleID int64, messageID string) error {
	tag, err := r.db.Exec(ctx, `UPDATE battles SET message_id = $2, updated_at = NOW() WHERE battle_id = $1`, battleID, messageID)
	if err != nil {
		return fmt.Errorf(ErrMsgFailedToSetMessage, battleID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf(ErrMsgFailedToSetMessage, battleID, domain.ErrBattleNotFound)
	}
	return nil
}

func (r *alertRepository) GetBattle(ctx context.Context, battleID int64) (*domain.Battle, error) {
	b, err := scanBattle(r.db.QueryRow(ctx, `SELECT `+battleColumns+` FROM battles WHERE battle_id = $1`, battleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf(ErrMsgFailedToGetBattle, battleID, domain.ErrBattleNotFound)
		}
		return nil, fmt.Errorf(ErrMsgFailedToGetBattle, battleID, err)
	}
	return b, nil
}
