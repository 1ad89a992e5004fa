package state

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/osse101/killwatch/internal/domain"
	"github.com/osse101/killwatch/internal/logger"
)

// Store is the durable ephemeral state shared by every ingest process
type Store interface {
	// ClaimKillmail atomically checks yesterday's and today's dedup partitions
	// and marks id in today's. Only the first caller gets true.
	ClaimKillmail(ctx context.Context, id int64, now time.Time) (bool, error)
	// ReleaseKillmail undoes a claim whose admission failed to persist
	ReleaseKillmail(ctx context.Context, id int64, now time.Time) error
	// RecordWindow adds member at time at to a sliding window and returns how
	// many members fall in [at-window, at]. Re-adding a member moves it.
	RecordWindow(ctx context.Context, key, member string, at time.Time, window time.Duration) (int64, error)
	// Claim sets key if absent; true means the caller owns the claim
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// PushRecent caches a killmail summary for its system
	PushRecent(ctx context.Context, s domain.KillmailSummary, limit int) error
	// Recent returns up to n summaries for a system, newest first
	Recent(ctx context.Context, systemID int64, n int) ([]domain.KillmailSummary, error)
	Ping(ctx context.Context) error
}

// claimKillmailScript checks both partitions and adds to today's in one step.
// KEYS[1] today, KEYS[2] yesterday, ARGV[1] id, ARGV[2] ttl seconds
var claimKillmailScript = redis.NewScript(`
if redis.call('SISMEMBER', KEYS[2], ARGV[1]) == 1 then
	return 0
end
local added = redis.call('SADD', KEYS[1], ARGV[1])
redis.call('EXPIRE', KEYS[1], ARGV[2])
return added
`)

type redisStore struct {
	rdb *redis.Client
}

// NewStore wraps a connected redis client
func NewStore(rdb *redis.Client) Store {
	return &redisStore{rdb: rdb}
}

// Connect opens a redis client and pings it. A failure here is fatal at startup.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf(ErrMsgConnectFailed, err)
	}
	logger.FromContext(ctx).Info(LogMsgConnected, "addr", addr)
	return rdb, nil
}

func (s *redisStore) ClaimKillmail(ctx context.Context, id int64, now time.Time) (bool, error) {
	keys := []string{DedupKey(now), DedupKey(now.Add(-24 * time.Hour))}
	added, err := claimKillmailScript.Run(ctx, s.rdb, keys, id, int(DedupTTL.Seconds())).Int()
	if err != nil {
		return false, fmt.Errorf(ErrMsgDedupFailed, id, err)
	}
	return added == 1, nil
}

func (s *redisStore) ReleaseKillmail(ctx context.Context, id int64, now time.Time) error {
	if err := s.rdb.SRem(ctx, DedupKey(now), id).Err(); err != nil {
		return fmt.Errorf(ErrMsgReleaseFailed, id, err)
	}
	return nil
}

func (s *redisStore) RecordWindow(ctx context.Context, key, member string, at time.Time, window time.Duration) (int64, error) {
	score := float64(at.UnixMilli())
	from := strconv.FormatInt(at.Add(-window).UnixMilli(), 10)
	to := strconv.FormatInt(at.UnixMilli(), 10)

	var count *redis.IntCmd
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, key, redis.Z{Score: score, Member: member})
		pipe.ZRemRangeByScore(ctx, key, "-inf", "("+from)
		// entries newer than at stay in the set but are not part of its window
		count = pipe.ZCount(ctx, key, from, to)
		pipe.Expire(ctx, key, window+windowExpirySlack)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf(ErrMsgWindowFailed, key, err)
	}
	return count.Val(), nil
}

func (s *redisStore) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, key, 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf(ErrMsgClaimFailed, key, err)
	}
	return ok, nil
}

func (s *redisStore) PushRecent(ctx context.Context, summary domain.KillmailSummary, limit int) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf(ErrMsgEncodeFailed, err)
	}

	key := RecentKey(summary.SystemID)
	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, key, data)
		pipe.LTrim(ctx, key, 0, int64(limit-1))
		pipe.Expire(ctx, key, RecentTTL)
		return nil
	})
	if err != nil {
		return fmt.Errorf(ErrMsgPushFailed, summary.SystemID, err)
	}
	return nil
}

func (s *redisStore) Recent(ctx context.Context, systemID int64, n int) ([]domain.KillmailSummary, error) {
	raw, err := s.rdb.LRange(ctx, RecentKey(systemID), 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf(ErrMsgRecentFailed, systemID, err)
	}

	out := make([]domain.KillmailSummary, 0, len(raw))
	for _, item := range raw {
		var s domain.KillmailSummary
		if err := json.Unmarshal([]byte(item), &s); err != nil {
			logger.FromContext(ctx).Warn(LogMsgSkippedBadRecent, "system_id", systemID, "error", err)
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (s *redisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}
