package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsolatedRegistries(t *testing.T) {
	a := New()
	b := New()

	a.InterviewsStarted.Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(a.InterviewsStarted))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.InterviewsStarted))
}

func TestHandlerExposesCounters(t *testing.T) {
	m := New()
	m.CompletionRequests.WithLabelValues("question", OutcomeFallback).Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `coach_completion_requests_total{kind="question",outcome="fallback"} 1`)
}
