package lifecycle

import (
	"context"
	"time"

	"github.com/osse101/killwatch/internal/domain"
)

// Repository defines the aggregate operations owned by the lifecycle manager
type Repository interface {
	// RecordConflictKill upserts the pair's conflict, credits the killer,
	// reactivates a dormant or ended conflict and bumps the day's trend row.
	RecordConflictKill(ctx context.Context, kill domain.ConflictKill) (*domain.Conflict, error)
	// EndIdleBattles ends every active battle whose last kill is older than
	// idle, fixing ended_at at last_kill_at + idle, and returns them.
	EndIdleBattles(ctx context.Context, now time.Time, idle time.Duration) ([]domain.Battle, error)
	// AgeConflicts moves active conflicts to dormant and dormant ones to ended
	AgeConflicts(ctx context.Context, now time.Time, dormantAfter, endedAfter time.Duration) (dormant, ended int64, err error)
	GetBattleParticipants(ctx context.Context, battleID int64) ([]domain.BattleParticipant, error)
}
