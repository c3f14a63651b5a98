// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MKhiriev/go-tour-booking/internal/app"
	"github.com/MKhiriev/go-tour-booking/internal/apperror"
	"github.com/MKhiriev/go-tour-booking/internal/utils"
	"github.com/MKhiriev/go-tour-booking/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// ---- Helpers ----

// guardResult is what a guard did with one request.
type guardResult struct {
	exchange   *Exchange
	nextCalled bool
	forwarded  *http.Request
}

func runGuard(guard func(http.Handler) http.Handler, req *http.Request) guardResult {
	var res guardResult
	res.exchange = newTestExchange(httptest.NewRecorder(), req)
	cookieStage{}.Process(res.exchange)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res.nextCalled = true
		res.forwarded = r
	})
	guard(next).ServeHTTP(res.exchange.Writer, res.exchange.Request)
	return res
}

func requestWithToken(header, cookie string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: jwtCookieName, Value: cookie})
	}
	return req
}

func testUser(role models.Role) models.User {
	return models.User{ID: "0190f5a0-0000-7000-8000-000000000001", Name: "Leo Gillespie", Email: "leo@example.com", Role: role}
}

// ---- getTokenFromAuthHeader ----

func TestGetTokenFromAuthHeader_TableTest(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		wantToken string
		wantErr   error
	}{
		{name: "valid Bearer token", header: "Bearer my-jwt-token", wantToken: "my-jwt-token"},
		{name: "missing token part", header: "Bearer", wantErr: ErrInvalidAuthorizationHeader},
		{name: "empty header", header: "", wantErr: ErrInvalidAuthorizationHeader},
		{name: "other scheme", header: "Basic dXNlcjpwYXNz", wantErr: ErrInvalidAuthorizationHeader},
		{name: "lower-case scheme", header: "bearer token", wantErr: ErrInvalidAuthorizationHeader},
		{name: "blank token", header: "Bearer   ", wantErr: ErrEmptyToken},
		{name: "surrounding spaces trimmed", header: "Bearer  tok ", wantToken: "tok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := getTokenFromAuthHeader(tt.header)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, token)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, token)
		})
	}
}

// ---- tokenFromRequest ----

func TestTokenFromRequest(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		cookie    string
		wantToken string
		wantErr   error
	}{
		{name: "header preferred over cookie", header: "Bearer header-token", cookie: "cookie-token", wantToken: "header-token"},
		{name: "cookie when no header", cookie: "cookie-token", wantToken: "cookie-token"},
		{name: "cookie when header uses another scheme", header: "Basic abc", cookie: "cookie-token", wantToken: "cookie-token"},
		{name: "blank bearer does not fall back", header: "Bearer ", cookie: "cookie-token", wantErr: ErrEmptyToken},
		{name: "nothing", wantErr: ErrEmptyToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := newTestExchange(httptest.NewRecorder(), requestWithToken(tt.header, tt.cookie))
			cookieStage{}.Process(x)

			token, err := tokenFromRequest(x.Request)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, token)
		})
	}
}

// ---- requireAuthenticated ----

func TestRequireAuthenticated_NoToken(t *testing.T) {
	h, _ := newTestHandler(t, testConfig())

	res := runGuard(h.requireAuthenticated, requestWithToken("", ""))

	assert.False(t, res.nextCalled)
	assertOperational(t, res.exchange.err, http.StatusUnauthorized, app.MsgNotLoggedIn)
}

func TestRequireAuthenticated_InvalidToken(t *testing.T) {
	h, m := newTestHandler(t, testConfig())
	m.auth.EXPECT().Authenticate(gomock.Any(), "bad-token").
		Return(models.User{}, apperror.Unauthenticated(app.MsgPasswordRecentlyChange))

	res := runGuard(h.requireAuthenticated, requestWithToken("Bearer bad-token", ""))

	assert.False(t, res.nextCalled)
	assertOperational(t, res.exchange.err, http.StatusUnauthorized, app.MsgPasswordRecentlyChange)
}

func TestRequireAuthenticated_AttachesUser(t *testing.T) {
	h, m := newTestHandler(t, testConfig())
	user := testUser(models.RoleGuide)
	m.auth.EXPECT().Authenticate(gomock.Any(), "cookie-token").Return(user, nil)

	res := runGuard(h.requireAuthenticated, requestWithToken("", "cookie-token"))

	require.True(t, res.nextCalled)
	assert.NoError(t, res.exchange.err)

	principal, ok := utils.GetPrincipalFromContext(res.forwarded.Context())
	require.True(t, ok)
	assert.Equal(t, user.ID, principal.ID)
	assert.Equal(t, models.RoleGuide, principal.Role)

	rc, ok := utils.GetRequestContext(res.forwarded.Context())
	require.True(t, ok)
	account, ok := rc.Account()
	require.True(t, ok)
	assert.Equal(t, user.Email, account.Email)

	// cookies parsed earlier survive
	token, ok := rc.Cookie(jwtCookieName)
	assert.True(t, ok)
	assert.Equal(t, "cookie-token", token)
}

// ---- optionalAuthenticated ----

func TestOptionalAuthenticated(t *testing.T) {
	t.Run("guest without token", func(t *testing.T) {
		h, _ := newTestHandler(t, testConfig())

		res := runGuard(h.optionalAuthenticated, requestWithToken("", ""))

		require.True(t, res.nextCalled)
		_, ok := utils.GetPrincipalFromContext(res.forwarded.Context())
		assert.False(t, ok)
	})

	t.Run("guest with logged out cookie", func(t *testing.T) {
		h, m := newTestHandler(t, testConfig())
		m.auth.EXPECT().Authenticate(gomock.Any(), loggedOutCookieValue).
			Return(models.User{}, apperror.Unauthenticated(app.MsgInvalidToken))

		res := runGuard(h.optionalAuthenticated, requestWithToken("", loggedOutCookieValue))

		require.True(t, res.nextCalled)
		assert.NoError(t, res.exchange.err)
		_, ok := utils.GetPrincipalFromContext(res.forwarded.Context())
		assert.False(t, ok)
	})

	t.Run("logged in user", func(t *testing.T) {
		h, m := newTestHandler(t, testConfig())
		m.auth.EXPECT().Authenticate(gomock.Any(), "good").Return(testUser(models.RoleUser), nil)

		res := runGuard(h.optionalAuthenticated, requestWithToken("", "good"))

		require.True(t, res.nextCalled)
		principal, ok := utils.GetPrincipalFromContext(res.forwarded.Context())
		require.True(t, ok)
		assert.Equal(t, models.RoleUser, principal.Role)
	})
}

// ---- requireRole ----

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		user       *models.User
		wantNext   bool
		wantStatus int
		wantMsg    string
	}{
		{name: "no principal", wantStatus: http.StatusUnauthorized, wantMsg: app.MsgNotLoggedIn},
		{name: "role not allowed", user: ptr(testUser(models.RoleUser)), wantStatus: http.StatusForbidden, wantMsg: app.MsgNoPermission},
		{name: "admin allowed", user: ptr(testUser(models.RoleAdmin)), wantNext: true},
		{name: "lead guide allowed", user: ptr(testUser(models.RoleLeadGuide)), wantNext: true},
	}

	h := &Handler{}
	guard := h.requireRole(models.NewRoles(models.RoleAdmin, models.RoleLeadGuide))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := newTestExchange(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/api/v1/tours/1", nil))
			if tt.user != nil {
				x.Request = withUser(x.Request, *tt.user)
			}

			nextCalled := false
			guard(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { nextCalled = true })).
				ServeHTTP(x.Writer, x.Request)

			assert.Equal(t, tt.wantNext, nextCalled)
			if tt.wantNext {
				assert.NoError(t, x.err)
				return
			}
			assertOperational(t, x.err, tt.wantStatus, tt.wantMsg)
		})
	}
}

// ---- sendSession / revokeCookie ----

func TestSendSession(t *testing.T) {
	h, _ := newTestHandler(t, testConfig())
	session := models.Session{
		Token: models.AuthToken{SignedString: "signed.jwt.token"},
		User:  testUser(models.RoleUser),
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	rr := httptest.NewRecorder()

	before := time.Now()
	h.sendSession(rr, req, session, http.StatusCreated)

	assert.Equal(t, http.StatusCreated, rr.Code)

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, jwtCookieName, c.Name)
	assert.Equal(t, "signed.jwt.token", c.Value)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.WithinDuration(t, before.Add(90*24*time.Hour), c.Expires, time.Minute)

	var body models.SessionResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, models.StatusSuccess, body.Status)
	assert.Equal(t, "signed.jwt.token", body.Token)
	assert.Equal(t, session.User.Email, body.Data.User.Email)
	assert.NotContains(t, rr.Body.String(), "password")
}

func TestRevokeCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/logout", nil)
	rr := httptest.NewRecorder()

	before := time.Now()
	revokeCookie(rr, req)

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, loggedOutCookieValue, c.Value)
	assert.True(t, c.HttpOnly)
	assert.False(t, c.Secure)
	assert.WithinDuration(t, before.Add(loggedOutCookieTTL), c.Expires, 2*time.Second)
}

func ptr[T any](v T) *T {
	return &v
}
