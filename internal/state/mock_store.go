package state

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/killwatch/internal/domain"
)

// MockStore is a mock implementation of the Store interface
type MockStore struct {
	mock.Mock
}

func (m *MockStore) ClaimKillmail(ctx context.Context, id int64, now time.Time) (bool, error) {
	args := m.Called(ctx, id, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) ReleaseKillmail(ctx context.Context, id int64, now time.Time) error {
	args := m.Called(ctx, id, now)
	return args.Error(0)
}

func (m *MockStore) RecordWindow(ctx context.Context, key, member string, at time.Time, window time.Duration) (int64, error) {
	args := m.Called(ctx, key, member, at, window)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) PushRecent(ctx context.Context, s domain.KillmailSummary, limit int) error {
	args := m.Called(ctx, s, limit)
	return args.Error(0)
}

func (m *MockStore) Recent(ctx context.Context, systemID int64, n int) ([]domain.KillmailSummary, error) {
	args := m.Called(ctx, systemID, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.KillmailSummary), args.Error(1)
}

func (m *MockStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
