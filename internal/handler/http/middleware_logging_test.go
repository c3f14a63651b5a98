package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loggedRequest puts a logger writing to buf into the request context, the
// way withTraceID does.
func loggedRequest(method, target string, buf *bytes.Buffer) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	l := zerolog.New(buf)
	return req.WithContext(l.WithContext(req.Context()))
}

func TestDevLoggingStage_LogsFinishedRequest(t *testing.T) {
	var buf bytes.Buffer
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := []time.Time{start, start.Add(42 * time.Millisecond)}

	stage := newDevLoggingStage(true)
	stage.now = func() time.Time {
		now := clock[0]
		clock = clock[1:]
		return now
	}

	p := newTestPipeline(t, false,
		stage,
		StageFunc(func(x *Exchange) Outcome {
			x.Writer.WriteHeader(http.StatusCreated)
			_, _ = x.Writer.Write([]byte("created"))
			return Respond()
		}),
	)

	rr := httptest.NewRecorder()
	p.ServeHTTP(rr, loggedRequest(http.MethodPost, "/api/v1/tours?x=1", &buf))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "log: %s", buf.String())
	assert.Equal(t, "/api/v1/tours?x=1", entry["uri"])
	assert.Equal(t, http.MethodPost, entry["method"])
	assert.EqualValues(t, http.StatusCreated, entry["status"])
	assert.EqualValues(t, 7, entry["size"])
	assert.EqualValues(t, 42, entry["duration"])
}

func TestDevLoggingStage_LogsErrorResponses(t *testing.T) {
	var buf bytes.Buffer
	p := newTestPipeline(t, false, newDevLoggingStage(true))

	rr := httptest.NewRecorder()
	p.ServeHTTP(rr, loggedRequest(http.MethodGet, "/api/v1/missing", &buf))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, buf.String(), `"status":404`)
}

func TestDevLoggingStage_DisabledOutsideDevelopment(t *testing.T) {
	var buf bytes.Buffer
	x := newTestExchange(httptest.NewRecorder(), loggedRequest(http.MethodGet, "/", &buf))
	original := x.Writer

	out := newDevLoggingStage(false).Process(x)

	assert.Equal(t, outcomeContinue, out.kind)
	assert.Same(t, original, x.Writer)
	assert.Empty(t, x.finalizers)
}
