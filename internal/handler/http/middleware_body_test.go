package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MKhiriev/go-tour-booking/internal/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bodyRequest(path, contentType, body string) (*Exchange, Outcome) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	x := newTestExchange(httptest.NewRecorder(), req)
	return x, newBodyStage(webhookPath).Process(x)
}

func TestBodyStage_ParsesJSON(t *testing.T) {
	x, out := bodyRequest("/api/v1/tours", "application/json; charset=utf-8", `{"name":"The Sea Explorer","price":497}`)

	require.Equal(t, outcomeContinue, out.kind)
	body, ok := x.Body()
	require.True(t, ok)
	assert.Equal(t, map[string]any{"name": "The Sea Explorer", "price": json.Number("497")}, body)
}

func TestBodyStage_EmptyJSONBodyIsIgnored(t *testing.T) {
	x, out := bodyRequest("/api/v1/users/logout", "application/json", "  ")

	assert.Equal(t, outcomeContinue, out.kind)
	_, ok := x.Body()
	assert.False(t, ok)
}

func TestBodyStage_InvalidJSON(t *testing.T) {
	_, out := bodyRequest("/api/v1/tours", "application/json", `{"name":`)

	require.Equal(t, outcomeFail, out.kind)
	assertOperational(t, out.Err(), http.StatusBadRequest, app.MsgInvalidJSON)
}

func TestBodyStage_RejectsOversizedBody(t *testing.T) {
	big := `{"summary":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	_, out := bodyRequest("/api/v1/tours", "application/json", big)

	require.Equal(t, outcomeFail, out.kind)
	assertOperational(t, out.Err(), http.StatusBadRequest, app.MsgBodyTooLarge)
}

func TestBodyStage_ParsesForm(t *testing.T) {
	x, out := bodyRequest("/submit-user-data", "application/x-www-form-urlencoded", "name=Jonas&email=jonas%40example.com&tag=a&tag=b")

	require.Equal(t, outcomeContinue, out.kind)
	body, ok := x.Body()
	require.True(t, ok)
	assert.Equal(t, map[string]any{
		"name":  "Jonas",
		"email": "jonas@example.com",
		"tag":   []any{"a", "b"},
	}, body)
}

func TestBodyStage_InvalidForm(t *testing.T) {
	_, out := bodyRequest("/submit-user-data", "application/x-www-form-urlencoded", "name=%zz")

	require.Equal(t, outcomeFail, out.kind)
	assertOperational(t, out.Err(), http.StatusBadRequest, app.MsgInvalidForm)
}

func TestBodyStage_OtherContentTypesAreDropped(t *testing.T) {
	for _, contentType := range []string{"text/plain", "application/xml", ""} {
		t.Run(contentType, func(t *testing.T) {
			x, out := bodyRequest("/api/v1/users/signup", contentType, `{"name":"<script>alert(1)</script>"}`)

			assert.Equal(t, outcomeContinue, out.kind)
			_, ok := x.Body()
			assert.False(t, ok)
			raw, err := io.ReadAll(x.Request.Body)
			require.NoError(t, err)
			assert.Empty(t, raw)
			assert.Zero(t, x.Request.ContentLength)
		})
	}
}

func TestBodyStage_RejectsOversizedBodyOfAnyType(t *testing.T) {
	big := strings.Repeat("a", maxBodyBytes+1)

	for _, contentType := range []string{"text/plain", "application/octet-stream", ""} {
		t.Run(contentType, func(t *testing.T) {
			_, out := bodyRequest("/api/v1/users/signup", contentType, big)

			require.Equal(t, outcomeFail, out.kind)
			assertOperational(t, out.Err(), http.StatusBadRequest, app.MsgBodyTooLarge)
		})
	}
}

func TestBodyStage_WebhookBodyIsKeptRaw(t *testing.T) {
	payload := `{"type":"checkout.session.completed",  "data": {}}`
	x, out := bodyRequest(webhookPath, "application/json", payload)

	require.Equal(t, outcomeContinue, out.kind)
	_, parsed := x.Body()
	assert.False(t, parsed)

	raw, err := io.ReadAll(x.Request.Body)
	require.NoError(t, err)
	assert.Equal(t, payload, string(raw))
}

func TestBodyStage_WebhookAllowsLargerBody(t *testing.T) {
	payload := strings.Repeat("x", maxBodyBytes*2)
	_, out := bodyRequest(webhookPath, "application/json", payload)
	assert.Equal(t, outcomeContinue, out.kind)

	_, out = bodyRequest(webhookPath, "application/json", strings.Repeat("x", maxRawBodyBytes+1))
	require.Equal(t, outcomeFail, out.kind)
	assertOperational(t, out.Err(), http.StatusBadRequest, app.MsgBodyTooLarge)
}

func TestBodyStage_NoBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tours", nil)
	x := newTestExchange(httptest.NewRecorder(), req)

	out := newBodyStage(webhookPath).Process(x)

	assert.Equal(t, outcomeContinue, out.kind)
	_, ok := x.Body()
	assert.False(t, ok)
}
