package admission

import (
	"context"

	"github.com/osse101/killwatch/internal/domain"
)

// Persisted describes what the permanent store did with one killmail
type Persisted struct {
	// Duplicate is set when the killmail row already existed; nothing was written.
	Duplicate bool
	// BattleID is the battle the killmail was linked to, 0 for none
	BattleID      int64
	BattleCreated bool
}

// Repository defines the permanent-record operations admission needs
type Repository interface {
	// Persist writes the killmail, its items and attackers, links it to the
	// system's active battle (opening one when openBattle is set and none is
	// active) and upserts participant rollups, all in one transaction.
	Persist(ctx context.Context, km *domain.Killmail, openBattle bool) (Persisted, error)
	// RecomputeBattle rebuilds the battle's counters from its killmails under a row lock
	RecomputeBattle(ctx context.Context, battleID int64) (*domain.Battle, error)
}
