package admission

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/killwatch/internal/domain"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Persist(ctx context.Context, km *domain.Killmail, openBattle bool) (Persisted, error) {
	args := m.Called(ctx, km, openBattle)
	return args.Get(0).(Persisted), args.Error(1)
}

func (m *MockRepository) RecomputeBattle(ctx context.Context, battleID int64) (*domain.Battle, error) {
	args := m.Called(ctx, battleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Battle), args.Error(1)
}
