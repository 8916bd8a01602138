package metrics_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/catalogai/internal/metrics"
	"github.com/desertthunder/catalogai/internal/shared"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestResultLabel(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, metrics.ResultOK},
		{"rate limited", fmt.Errorf("%w: quota", shared.ErrRateLimited), metrics.ResultRateLimited},
		{"invalid input", fmt.Errorf("%w: title 1 is empty", shared.ErrInvalidInput), metrics.ResultInvalidInput},
		{"canceled", context.Canceled, metrics.ResultCanceled},
		{"other", errors.New("boom"), metrics.ResultError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := metrics.ResultLabel(tt.err); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestRecorders(t *testing.T) {
	t.Run("Recommendation Counter", func(t *testing.T) {
		counter := metrics.RecommendationsTotal.WithLabelValues("test", metrics.ResultOK)
		before := testutil.ToFloat64(counter)
		metrics.RecordRecommendation("test", nil)
		if got := testutil.ToFloat64(counter); got != before+1 {
			t.Errorf("expected %v, got %v", before+1, got)
		}
	})

	t.Run("Malformed Blocks Ignores Zero", func(t *testing.T) {
		before := testutil.ToFloat64(metrics.MalformedBlocksTotal)
		metrics.RecordMalformedBlocks(0)
		metrics.RecordMalformedBlocks(2)
		if got := testutil.ToFloat64(metrics.MalformedBlocksTotal); got != before+2 {
			t.Errorf("expected %v, got %v", before+2, got)
		}
	})

	t.Run("Active Sessions", func(t *testing.T) {
		metrics.SetActiveSessions(3)
		if got := testutil.ToFloat64(metrics.ActiveSessions); got != 3 {
			t.Errorf("expected 3, got %v", got)
		}
	})

	t.Run("Exposed By Handler", func(t *testing.T) {
		metrics.ObserveRemoteCall("Mock", "genre", 150*time.Millisecond, nil)
		metrics.ObserveHTTPRequest("GET", "/", 200, time.Millisecond)

		rec := httptest.NewRecorder()
		metrics.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
		body, _ := io.ReadAll(rec.Body)

		for _, name := range []string{
			"catalogai_remote_call_duration_seconds",
			"catalogai_http_requests_total",
			"catalogai_recommendations_total",
		} {
			if !strings.Contains(string(body), name) {
				t.Errorf("expected %s in exposition", name)
			}
		}
	})
}
