package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_ListSorted(t *testing.T) {
	r := NewRegistry()
	r.Register(&MigrateCommand{})
	r.Register(&BattlesCommand{})
	r.Register(&HealthCheckCommand{})
	r.Register(&UniverseSyncCommand{})

	var names []string
	for _, c := range r.List() {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{"battles", "health-check", "migrate", "universe-sync"}, names)

	_, ok := r.Get("nope")
	assert.False(t, ok)
}

func TestUniverseDir(t *testing.T) {
	t.Setenv("UNIVERSE_DATA_DIR", "/srv/universe")
	assert.Equal(t, "/tmp/out", universeDir([]string{"/tmp/out"}))
	assert.Equal(t, "/srv/universe", universeDir(nil))
}

func TestCheckReady(t *testing.T) {
	t.Run("Ready", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/readyz", r.URL.Path)
			_, _ = w.Write([]byte(`{"status":"ok","checks":{"postgres":"ok","redis":"ok"}}`))
		}))
		defer srv.Close()

		resp, err := checkReady(context.Background(), srv.URL+"/")

		require.NoError(t, err)
		assert.Equal(t, "ok", resp.Checks["redis"])
	})

	t.Run("Not Ready", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable","message":"dependency unreachable","checks":{"redis":"unavailable"}}`))
		}))
		defer srv.Close()

		resp, err := checkReady(context.Background(), srv.URL)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "503")
		require.NotNil(t, resp)
		assert.Equal(t, "unavailable", resp.Checks["redis"])
	})
}

func TestDBURL(t *testing.T) {
	t.Setenv("DB_URL", "")
	t.Setenv("DB_USER", "kw")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_NAME", "killwatch")

	assert.Equal(t, "postgres://kw:pw@db:5433/killwatch?sslmode=disable", dbURL())

	t.Setenv("DB_URL", "postgres://override")
	assert.Equal(t, "postgres://override", dbURL())
}
