package alert

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/killwatch/internal/domain"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) ClaimBattleMilestone(ctx context.Context, battleID int64, milestone int) (int, bool, error) {
	args := m.Called(ctx, battleID, milestone)
	return args.Int(0), args.Bool(1), args.Error(2)
}

func (m *MockRepository) SetBattleMessage(ctx context.Context, battleID int64, messageID string) error {
	args := m.Called(ctx, battleID, messageID)
	return args.Error(0)
}

func (m *MockRepository) GetBattle(ctx context.Context, battleID int64) (*domain.Battle, error) {
	args := m.Called(ctx, battleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Battle), args.Error(1)
}
