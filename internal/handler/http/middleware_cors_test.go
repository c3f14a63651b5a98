package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCORSStage_PreflightIsAnswered(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/tours/1", nil)
	req.Header.Set("Origin", "https://client.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodDelete)

	x := newTestExchange(rr, req)
	out := newCORSStage([]string{"*"}).Process(x)

	assert.Equal(t, outcomeRespond, out.kind)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), http.MethodDelete)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORSStage_SimpleRequestContinues(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tours", nil)
	req.Header.Set("Origin", "https://client.example")

	x := newTestExchange(rr, req)
	out := newCORSStage([]string{"*"}).Process(x)

	assert.Equal(t, outcomeContinue, out.kind)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORSStage_ExplicitOriginsAllowCredentials(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tours", nil)
	req.Header.Set("Origin", "https://natours.example")

	x := newTestExchange(rr, req)
	out := newCORSStage([]string{"https://natours.example"}).Process(x)

	assert.Equal(t, outcomeContinue, out.kind)
	assert.Equal(t, "https://natours.example", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORSStage_UnknownOriginGetsNoGrant(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tours", nil)
	req.Header.Set("Origin", "https://evil.example")

	x := newTestExchange(rr, req)
	out := newCORSStage([]string{"https://natours.example"}).Process(x)

	assert.Equal(t, outcomeContinue, out.kind)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}
