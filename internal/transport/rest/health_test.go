package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pingOK(context.Context) error { return nil }

func pingErr(context.Context) error { return errors.New("connection refused") }

func decodeHealth(t *testing.T, rec *httptest.ResponseRecorder) HealthResponse {
	t.Helper()
	var resp HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestLive_Always200(t *testing.T) {
	t.Parallel()

	h := NewHealthHandler("test-version", HealthCheck{Name: "database", Critical: true, Ping: pingErr})

	rec := httptest.NewRecorder()
	h.Live(rec, httptest.NewRequest(http.MethodGet, "/live", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeHealth(t, rec)
	assert.Equal(t, "ok", resp.Status)
	assert.False(t, resp.Timestamp.IsZero())
}

func TestReady(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		checks     []HealthCheck
		wantCode   int
		wantStatus string
	}{
		{
			name:       "database up",
			checks:     []HealthCheck{{Name: "database", Critical: true, Ping: pingOK}},
			wantCode:   http.StatusOK,
			wantStatus: "ok",
		},
		{
			name:       "database down",
			checks:     []HealthCheck{{Name: "database", Critical: true, Ping: pingErr}},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "down",
		},
		{
			name: "optional redis down does not gate readiness",
			checks: []HealthCheck{
				{Name: "database", Critical: true, Ping: pingOK},
				{Name: "redis", Ping: pingErr},
			},
			wantCode:   http.StatusOK,
			wantStatus: "ok",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := NewHealthHandler("test-version", tt.checks...)

			rec := httptest.NewRecorder()
			h.Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

			require.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantStatus, decodeHealth(t, rec).Status)
		})
	}
}

func TestHealth_AllOK(t *testing.T) {
	t.Parallel()

	h := NewHealthHandler("v1.0.0",
		HealthCheck{Name: "database", Critical: true, Ping: pingOK},
		HealthCheck{Name: "redis", Ping: pingOK},
	)

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeHealth(t, rec)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "v1.0.0", resp.Version)

	db, ok := resp.Components["database"]
	require.True(t, ok, "expected database component")
	assert.Equal(t, "ok", db.Status)
	assert.True(t, db.Critical)
	assert.NotEmpty(t, db.Latency)

	rdb, ok := resp.Components["redis"]
	require.True(t, ok, "expected redis component")
	assert.False(t, rdb.Critical)
}

func TestHealth_CriticalDown(t *testing.T) {
	t.Parallel()

	h := NewHealthHandler("v1.0.0",
		HealthCheck{Name: "database", Critical: true, Ping: pingErr},
		HealthCheck{Name: "redis", Ping: pingOK},
	)

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	resp := decodeHealth(t, rec)
	assert.Equal(t, "down", resp.Status)
	assert.Equal(t, "down", resp.Components["database"].Status)
	assert.Empty(t, resp.Components["database"].Latency)
}

func TestHealth_OptionalDownIsDegraded(t *testing.T) {
	t.Parallel()

	h := NewHealthHandler("v1.0.0",
		HealthCheck{Name: "database", Critical: true, Ping: pingOK},
		HealthCheck{Name: "redis", Ping: pingErr},
	)

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeHealth(t, rec)
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "down", resp.Components["redis"].Status)
}
