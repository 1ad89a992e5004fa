package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPinger mocks a pingable dependency
type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func decodeHealth(t *testing.T, w *httptest.ResponseRecorder) HealthResponse {
	t.Helper()
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHandleHealthz(t *testing.T) {
	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()

	HandleHealthz().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, StatusOK, decodeHealth(t, w).Status)
}

func TestHandleReadyz(t *testing.T) {
	t.Run("All Dependencies Reachable", func(t *testing.T) {
		pg, redis := &MockPinger{}, &MockPinger{}
		pg.On("Ping", mock.Anything).Return(nil)
		redis.On("Ping", mock.Anything).Return(nil)

		w := httptest.NewRecorder()
		HandleReadyz(map[string]Pinger{"postgres": pg, "redis": redis}).
			ServeHTTP(w, httptest.NewRequest("GET", "/readyz", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeHealth(t, w)
		assert.Equal(t, StatusOK, resp.Status)
		assert.Equal(t, map[string]string{"postgres": StatusOK, "redis": StatusOK}, resp.Checks)
		pg.AssertExpectations(t)
		redis.AssertExpectations(t)
	})

	t.Run("Redis Unreachable", func(t *testing.T) {
		pg, redis := &MockPinger{}, &MockPinger{}
		pg.On("Ping", mock.Anything).Return(nil)
		redis.On("Ping", mock.Anything).Return(assert.AnError)

		w := httptest.NewRecorder()
		HandleReadyz(map[string]Pinger{"postgres": pg, "redis": redis}).
			ServeHTTP(w, httptest.NewRequest("GET", "/readyz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		resp := decodeHealth(t, w)
		assert.Equal(t, StatusUnavailable, resp.Status)
		assert.Equal(t, MsgDependencyUnavailable, resp.Message)
		assert.Equal(t, StatusUnavailable, resp.Checks["redis"])
		assert.Equal(t, StatusOK, resp.Checks["postgres"])
	})

	t.Run("Ping Gets Deadline", func(t *testing.T) {
		pg := &MockPinger{}
		pg.On("Ping", mock.MatchedBy(func(ctx context.Context) bool {
			_, ok := ctx.Deadline()
			return ok
		})).Return(nil)

		w := httptest.NewRecorder()
		HandleReadyz(map[string]Pinger{"postgres": pg}).
			ServeHTTP(w, httptest.NewRequest("GET", "/readyz", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		pg.AssertExpectations(t)
	})
}

func TestHandleVersion(t *testing.T) {
	w := httptest.NewRecorder()
	HandleVersion("killwatch", "").ServeHTTP(w, httptest.NewRequest("GET", "/version", nil))

	var info VersionInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "killwatch", info.Service)
	assert.Equal(t, "dev", info.Version)
	assert.NotEmpty(t, info.GoVersion)
}

func TestHandleNotFound(t *testing.T) {
	w := httptest.NewRecorder()
	HandleNotFound().ServeHTTP(w, httptest.NewRequest("GET", "/nope", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Not Found"}`, w.Body.String())
}
