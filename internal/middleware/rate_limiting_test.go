package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/2beens/gymprogress/internal/telemetry/metrics"

	"github.com/go-redis/redis_rate/v9"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestRateLimit(t *testing.T) {
	testCases := []struct {
		name           string
		result         *redis_rate.Result
		allowErr       error
		expectedStatus int
		expectNext     bool
		expectLimited  float64
	}{
		{
			name:           "allowed",
			result:         &redis_rate.Result{Allowed: 1, Remaining: 9},
			expectedStatus: http.StatusOK,
			expectNext:     true,
		},
		{
			name:           "limited",
			result:         &redis_rate.Result{Allowed: 0, RetryAfter: 1500 * time.Millisecond},
			expectedStatus: http.StatusTooManyRequests,
			expectLimited:  1,
		},
		{
			name:           "limiter error",
			allowErr:       errors.New("redis down"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			limiter := NewMockRequestRateLimiter(ctrl)
			limiter.EXPECT().
				Allow(gomock.Any(), "progression:83.12.53.65", redis_rate.PerMinute(10)).
				Return(tc.result, tc.allowErr)

			metricsManager := metrics.NewTestManager()
			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
			})

			req := httptest.NewRequest(http.MethodPost, "/gymstats/progression", nil)
			req.RemoteAddr = "83.12.53.65:4312"
			rr := httptest.NewRecorder()
			RateLimit(limiter, metricsManager, "progression", 10)(next).ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.Equal(t, tc.expectNext, nextCalled)
			assert.Equal(t, tc.expectLimited, testutil.ToFloat64(metricsManager.CounterRateLimitedRequests))
			if tc.expectLimited > 0 {
				assert.Equal(t, "2", rr.Header().Get("Retry-After"))
			}
		})
	}
}
