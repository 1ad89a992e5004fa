package lifecycle

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/killwatch/internal/domain"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) RecordConflictKill(ctx context.Context, kill domain.ConflictKill) (*domain.Conflict, error) {
	args := m.Called(ctx, kill)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Conflict), args.Error(1)
}

func (m *MockRepository) EndIdleBattles(ctx context.Context, now time.Time, idle time.Duration) ([]domain.Battle, error) {
	args := m.Called(ctx, now, idle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Battle), args.Error(1)
}

func (m *MockRepository) AgeConflicts(ctx context.Context, now time.Time, dormantAfter, endedAfter time.Duration) (int64, int64, error) {
	args := m.Called(ctx, now, dormantAfter, endedAfter)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) GetBattleParticipants(ctx context.Context, battleID int64) ([]domain.BattleParticipant, error) {
	args := m.Called(ctx, battleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BattleParticipant), args.Error(1)
}
