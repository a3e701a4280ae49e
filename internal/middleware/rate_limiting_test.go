package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/2beens/fitassist/internal/telemetry/metrics"

	"github.com/go-redis/redis_rate/v9"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLimiter struct {
	allowed  int
	err      error
	lastKey  string
	lastRate int
}

func (f *fakeLimiter) Allow(_ context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error) {
	f.lastKey = key
	f.lastRate = limit.Rate
	if f.err != nil {
		return nil, f.err
	}
	return &redis_rate.Result{
		Limit:      limit,
		Allowed:    f.allowed,
		RetryAfter: 12 * time.Second,
	}, nil
}

func TestRateLimit(t *testing.T) {
	testCases := []struct {
		name           string
		limiter        *fakeLimiter
		expectedStatus int
		expectCalled   bool
		expectLimited  float64
	}{
		{
			name:           "Allowed",
			limiter:        &fakeLimiter{allowed: 1},
			expectedStatus: http.StatusAccepted,
			expectCalled:   true,
		},
		{
			name:           "Limited",
			limiter:        &fakeLimiter{allowed: 0},
			expectedStatus: http.StatusTooManyRequests,
			expectLimited:  1,
		},
		{
			name:           "LimiterError",
			limiter:        &fakeLimiter{err: errors.New("redis down")},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			metricsManager := metrics.NewTestManager()
			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusAccepted)
			})

			req := httptest.NewRequest("POST", "/upload", nil)
			req.RemoteAddr = "10.0.0.7:51234"
			rr := httptest.NewRecorder()
			RateLimit(tc.limiter, "upload", 5, metricsManager)(next).ServeHTTP(rr, req)

			require.Equal(t, tc.expectedStatus, rr.Code)
			assert.Equal(t, tc.expectCalled, called)
			assert.Equal(t, "upload:10.0.0.7", tc.limiter.lastKey)
			assert.Equal(t, 5, tc.limiter.lastRate)
			assert.Equal(t, tc.expectLimited, testutil.ToFloat64(metricsManager.CounterRateLimitedRequests))
		})
	}
}
