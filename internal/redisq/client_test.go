package redisq

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/killwatch/internal/domain"
)

const fullPackage = `{"package":{"killID":123456789,"killmail":{"killmail_id":123456789,"killmail_time":"2025-03-01T12:00:00Z","solar_system_id":30000142,"victim":{"ship_type_id":587,"corporation_id":98000001,"damage_taken":1200,"items":[]},"attackers":[{"character_id":9001,"corporation_id":98000002,"alliance_id":99000001,"ship_type_id":22456,"weapon_type_id":2873,"damage_done":1200,"final_blow":true}]},"zkb":{"hash":"abc123","totalValue":15000000,"npc":false,"solo":true}}}`

const bodylessPackage = `{"package":{"killID":123456789,"zkb":{"hash":"abc123","totalValue":15000000,"href":"https://esi.evetech.net/v1/killmails/123456789/abc123/"}}}`

const esiBody = `{"killmail_id":123456789,"killmail_time":"2025-03-01T12:00:00Z","solar_system_id":30000142,"victim":{"ship_type_id":587},"attackers":[]}`

// sleepRecorder replaces the client's sleep so tests never wait
type sleepRecorder struct {
	mu     sync.Mutex
	sleeps []time.Duration
}

func (s *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sleeps = append(s.sleeps, d)
	return ctx.Err()
}

func (s *sleepRecorder) recorded() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.sleeps...)
}

func newTestClient(t *testing.T, queueURL, esiURL string) (*Client, *sleepRecorder) {
	t.Helper()
	c := NewClient(Config{
		BaseURL:        queueURL,
		QueueID:        "killwatch-test",
		TTW:            1,
		MinInterval:    time.Millisecond,
		BackoffInitial: time.Second,
		BackoffMax:     5 * time.Second,
		UserAgent:      "killwatch-test",
		ESIURL:         esiURL,
		ESITimeout:     time.Second,
	})
	rec := &sleepRecorder{}
	c.sleep = rec.sleep
	return c, rec
}

func TestPoll_Package(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, ListenPath, r.URL.Path)
		assert.Equal(t, "killwatch-test", r.URL.Query().Get(QueryQueueID))
		assert.Equal(t, "1", r.URL.Query().Get(QueryTTW))
		assert.Equal(t, "killwatch-test", r.Header.Get("User-Agent"))
		fmt.Fprint(w, fullPackage)
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL, "")

	pkg, err := c.Poll(context.Background())

	require.NoError(t, err)
	require.NotNil(t, pkg)
	assert.Equal(t, int64(123456789), pkg.KillID)
	assert.False(t, pkg.NeedsDetail())
	assert.Equal(t, int64(30000142), pkg.Killmail.SolarSystemID)
	assert.Equal(t, "abc123", pkg.ZKB.Hash)
	assert.InDelta(t, 15000000, pkg.ZKB.TotalValue, 0.1)
	require.Len(t, pkg.Killmail.Attackers, 1)
	assert.True(t, pkg.Killmail.Attackers[0].FinalBlow)
}

func TestPoll_Empty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"package":null}`)
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL, "")

	pkg, err := c.Poll(context.Background())

	require.NoError(t, err)
	assert.Nil(t, pkg)
}

func TestPoll_FollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(ListenPath, func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/object.php?"+r.URL.RawQuery, http.StatusFound)
	})
	mux.HandleFunc("/object.php", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "killwatch-test", r.URL.Query().Get(QueryQueueID))
		fmt.Fprint(w, fullPackage)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL, "")

	pkg, err := c.Poll(context.Background())

	require.NoError(t, err)
	require.NotNil(t, pkg)
	assert.Equal(t, int64(123456789), pkg.KillID)
}

func TestPoll_RateLimited(t *testing.T) {
	tests := []struct {
		name       string
		retryAfter string
		want       time.Duration
	}{
		{"seconds", "3", 3 * time.Second},
		{"missing header", "", DefaultRetryAfter},
		{"garbage", "soon", DefaultRetryAfter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if calls.Add(1) == 1 {
					if tt.retryAfter != "" {
						w.Header().Set("Retry-After", tt.retryAfter)
					}
					w.WriteHeader(http.StatusTooManyRequests)
					return
				}
				fmt.Fprint(w, fullPackage)
			}))
			defer srv.Close()

			c, rec := newTestClient(t, srv.URL, "")

			pkg, err := c.Poll(context.Background())

			require.NoError(t, err)
			require.NotNil(t, pkg)
			assert.Equal(t, []time.Duration{tt.want}, rec.recorded())
			assert.Equal(t, int32(2), calls.Load())
		})
	}
}

func TestPoll_BackoffGrowsAndResets(t *testing.T) {
	// 503 x4, ok, 503, ok
	script := []int{503, 503, 503, 503, 200, 503, 200}
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status := script[int(calls.Add(1))-1]
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		fmt.Fprint(w, `{"package":null}`)
	}))
	defer srv.Close()

	c, rec := newTestClient(t, srv.URL, "")

	_, err := c.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 5 * time.Second}, rec.recorded(),
		"backoff doubles and caps at max")

	_, err = c.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, time.Second, rec.recorded()[4], "counter resets after a successful poll")
}

func TestPoll_NetworkErrorBacksOff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, rec := newTestClient(t, url, "")
	ctx, cancel := context.WithCancel(context.Background())
	c.sleep = func(ctx context.Context, d time.Duration) error {
		_ = rec.sleep(ctx, d)
		if len(rec.recorded()) == 2 {
			cancel()
		}
		return ctx.Err()
	}

	_, err := c.Poll(ctx)

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, rec.recorded())
}

func TestPoll_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"package":`)
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL, "")

	_, err := c.Poll(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode queue response")
}

func TestResolve_FetchesAndCachesDetail(t *testing.T) {
	var esiCalls atomic.Int32
	esi := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		esiCalls.Add(1)
		assert.Equal(t, "/killmails/123456789/abc123/", r.URL.Path)
		assert.Equal(t, DatasourceTQ, r.URL.Query().Get(QueryDatasource))
		fmt.Fprint(w, esiBody)
	}))
	defer esi.Close()

	queue := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, bodylessPackage)
	}))
	defer queue.Close()

	c, _ := newTestClient(t, queue.URL, esi.URL)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		pkg, err := c.Poll(ctx)
		require.NoError(t, err)
		require.True(t, pkg.NeedsDetail())

		require.NoError(t, c.Resolve(ctx, pkg))
		require.NotNil(t, pkg.Killmail)
		assert.Equal(t, int64(587), pkg.Killmail.Victim.ShipTypeID)
	}

	assert.Equal(t, int32(1), esiCalls.Load(), "second resolve is served from cache")
}

func TestFetchDetail_Unavailable(t *testing.T) {
	t.Run("non-200", func(t *testing.T) {
		esi := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
		}))
		defer esi.Close()

		c, _ := newTestClient(t, "", esi.URL)

		_, err := c.FetchDetail(context.Background(), 1, "hash")

		require.ErrorIs(t, err, domain.ErrDetailUnavailable)
		assert.True(t, IsDetailUnavailable(err))
		assert.Contains(t, err.Error(), "status 422")
	})

	t.Run("timeout", func(t *testing.T) {
		release := make(chan struct{})
		esi := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer esi.Close()
		defer close(release)

		c, _ := newTestClient(t, "", esi.URL)
		c.cfg.ESITimeout = 20 * time.Millisecond

		_, err := c.FetchDetail(context.Background(), 1, "hash")

		require.ErrorIs(t, err, domain.ErrDetailUnavailable)
	})

	t.Run("missing hash", func(t *testing.T) {
		c, _ := newTestClient(t, "", "")

		err := c.Resolve(context.Background(), &Package{KillID: 5})

		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrDetailUnavailable))
	})
}

func TestParseRetryAfter(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 7*time.Second, parseRetryAfter("7", now))
	assert.Equal(t, DefaultRetryAfter, parseRetryAfter("0", now))
	assert.Equal(t, 30*time.Second, parseRetryAfter(now.Add(30*time.Second).Format(http.TimeFormat), now))
	assert.Equal(t, DefaultRetryAfter, parseRetryAfter(now.Add(-time.Minute).Format(http.TimeFormat), now))
}
