package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckerStates(t *testing.T) {
	c := NewChecker()

	assert.False(t, c.IsReady())
	assert.Equal(t, "starting", c.State())

	c.SetReady()
	assert.True(t, c.IsReady())
	assert.Equal(t, "ready", c.State())

	c.SetDraining()
	assert.False(t, c.IsReady())
	assert.Equal(t, "draining", c.State())
}

func TestLivenessHandler(t *testing.T) {
	c := NewChecker()

	rec := httptest.NewRecorder()
	c.LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
}

func TestReadinessHandler(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(*Checker)
		wantCode   int
		wantStatus string
	}{
		{
			name:       "starting",
			setup:      func(*Checker) {},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "starting",
		},
		{
			name:       "ready",
			setup:      func(c *Checker) { c.SetReady() },
			wantCode:   http.StatusOK,
			wantStatus: "ready",
		},
		{
			name: "draining",
			setup: func(c *Checker) {
				c.SetReady()
				c.SetDraining()
			},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "draining",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChecker()
			tt.setup(c)

			rec := httptest.NewRecorder()
			c.ReadinessHandler()(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			assert.Equal(t, tt.wantCode, rec.Code)

			var body healthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantStatus, body.Status)
		})
	}
}
