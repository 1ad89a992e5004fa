package alert

import (
	"context"

	"github.com/osse101/killwatch/internal/domain"
)

// Repository defines the battle alert bookkeeping kept with the battle row
type Repository interface {
	// ClaimBattleMilestone raises last_milestone to milestone if it is lower.
	// claimed is false when another worker got there first; prev is the value
	// it replaced.
	ClaimBattleMilestone(ctx context.Context, battleID int64, milestone int) (prev int, claimed bool, err error)
	SetBattleMessage(ctx context.Context, battleID int64, messageID string) error
	GetBattle(ctx context.Context, battleID int64) (*domain.Battle, error)
}
