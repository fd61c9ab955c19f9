package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/lingo-srs/internal/api/middleware"
	"github.com/phrazzld/lingo-srs/internal/api/shared"
	"github.com/phrazzld/lingo-srs/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceMiddleware(t *testing.T) {
	_, log, buf := logger.NewTestLogger(t)

	var traceID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = shared.GetTraceID(r.Context())
		logger.FromContext(r.Context()).Info("inside handler")
		w.WriteHeader(http.StatusNoContent)
	})

	rr := httptest.NewRecorder()
	middleware.NewTraceMiddleware(log)(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Len(t, traceID, 2*shared.TraceIDLength)
	assert.Equal(t, traceID, rr.Header().Get(middleware.TraceHeader))
	logger.AssertLogContains(t, buf, `"trace_id":"`+traceID+`"`)
	logger.AssertLogContains(t, buf, "inside handler")
}
