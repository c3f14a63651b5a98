// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/MKhiriev/go-tour-booking/internal/adapter"
	"github.com/MKhiriev/go-tour-booking/internal/app"
	"github.com/MKhiriev/go-tour-booking/internal/apperror"
	"github.com/MKhiriev/go-tour-booking/internal/config"
	"github.com/MKhiriev/go-tour-booking/internal/logger"
	"github.com/MKhiriev/go-tour-booking/internal/mock"
	"github.com/MKhiriev/go-tour-booking/internal/store"
	"github.com/MKhiriev/go-tour-booking/internal/utils"
	"github.com/MKhiriev/go-tour-booking/internal/validators"
	"github.com/MKhiriev/go-tour-booking/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testSignKey = "test-sign-key"

var resetLinkRe = regexp.MustCompile(`resetPassword/([0-9a-f]{64})`)

// newTestAuthSvc builds an authService with mocked collaborators and a
// real email composer.
func newTestAuthSvc(t *testing.T, ctrl *gomock.Controller) (*authService, *mock.MockUserRepository, *mock.MockMailer, *mock.MockValidator) {
	t.Helper()

	users := mock.NewMockUserRepository(ctrl)
	mailer := mock.NewMockMailer(ctrl)
	validator := mock.NewMockValidator(ctrl)

	emails, err := adapter.NewEmailComposer(config.Mail{From: "hello@natours.io", FromName: "Natours"})
	require.NoError(t, err)

	svc := NewAuthService(users, mailer, emails, validator, config.Auth{
		JWTSecret:    testSignKey,
		JWTExpiresIn: time.Hour,
	}, logger.Nop()).(*authService)
	svc.ids = fixedIDs(testUserID)

	return svc, users, mailer, validator
}

func storedUser() models.User {
	return models.User{
		ID:           testUserID,
		Name:         "Leo Gillespie",
		Email:        "leo@example.com",
		Role:         models.RoleUser,
		PasswordHash: testPasswordHash(),
		Active:       true,
	}
}

func signupRequest() models.SignupRequest {
	return models.SignupRequest{
		Name:            "Leo Gillespie",
		Email:           " Leo@Example.com ",
		Password:        testPassword,
		PasswordConfirm: testPassword,
	}
}

// ── Signup ───────────────────────────────────────────────────────────────────

func TestAuthService_Signup_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, users, mailer, validator := newTestAuthSvc(t, ctrl)
	ctx := context.Background()
	req := signupRequest()

	validator.EXPECT().Validate(gomock.Any(), req).Return(nil)
	users.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, u models.User) (models.User, error) {
			assert.Equal(t, testUserID, u.ID)
			assert.Equal(t, "leo@example.com", u.Email)
			assert.Equal(t, models.RoleUser, u.Role)
			assert.Equal(t, defaultPhoto, u.Photo)
			assert.True(t, utils.CheckPassword(u.PasswordHash, testPassword))
			return u, nil
		})
	mailer.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, email models.Email) error {
			assert.Equal(t, "leo@example.com", email.To)
			assert.Equal(t, adapter.SubjectWelcome, email.Subject)
			assert.Contains(t, email.HTML, testBaseURL+"/me")
			return nil
		})

	session, err := svc.Signup(ctx, req, testBaseURL)

	require.NoError(t, err)
	assert.NotEmpty(t, session.Token.SignedString)
	assert.Equal(t, testUserID, session.Token.SubjectID)
	assert.Empty(t, session.User.PasswordHash)
}

func TestAuthService_Signup_MailFailureIsNotFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, users, mailer, validator := newTestAuthSvc(t, ctrl)

	validator.EXPECT().Validate(gomock.Any(), gomock.Any()).Return(nil)
	users.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, u models.User) (models.User, error) { return u, nil })
	mailer.EXPECT().Send(gomock.Any(), gomock.Any()).Return(adapter.ErrMailDelivery)

	session, err := svc.Signup(context.Background(), signupRequest(), testBaseURL)

	require.NoError(t, err)
	assert.NotEmpty(t, session.Token.SignedString)
}

func TestAuthService_Signup_ValidationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, _, _, validator := newTestAuthSvc(t, ctrl)

	verr := validators.ValidationErrors{{Field: "passwordConfirm", Message: "Passwords are not the same!"}}
	validator.EXPECT().Validate(gomock.Any(), gomock.Any()).Return(verr)

	_, err := svc.Signup(context.Background(), signupRequest(), testBaseURL)

	var got validators.ValidationErrors
	require.True(t, errors.As(err, &got))
	assert.Equal(t, verr, got)
}

func TestAuthService_Signup_DuplicateEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, users, _, validator := newTestAuthSvc(t, ctrl)

	validator.EXPECT().Validate(gomock.Any(), gomock.Any()).Return(nil)
	users.EXPECT().Create(gomock.Any(), gomock.Any()).
		Return(models.User{}, &store.DuplicateError{Field: "email", Value: "leo@example.com"})

	_, err := svc.Signup(context.Background(), signupRequest(), testBaseURL)

	var dup *store.DuplicateError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "leo@example.com", dup.Value)
}

// ── Login ────────────────────────────────────────────────────────────────────

func TestAuthService_Login(t *testing.T) {
	tests := []struct {
		name       string
		req        models.LoginRequest
		setup      func(users *mock.MockUserRepository)
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "missing password",
			req:        models.LoginRequest{Email: "leo@example.com"},
			wantStatus: http.StatusBadRequest,
			wantMsg:    app.MsgProvideEmailPassword,
		},
		{
			name: "unknown email",
			req:  models.LoginRequest{Email: "x@y.com", Password: "wrong"},
			setup: func(users *mock.MockUserRepository) {
				users.EXPECT().FindByEmail(gomock.Any(), "x@y.com").Return(models.User{}, store.ErrNotFound)
			},
			wantStatus: http.StatusUnauthorized,
			wantMsg:    app.MsgIncorrectEmailPassword,
		},
		{
			name: "wrong password",
			req:  models.LoginRequest{Email: "leo@example.com", Password: "wrong"},
			setup: func(users *mock.MockUserRepository) {
				users.EXPECT().FindByEmail(gomock.Any(), "leo@example.com").Return(storedUser(), nil)
			},
			wantStatus: http.StatusUnauthorized,
			wantMsg:    app.MsgIncorrectEmailPassword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc, users, _, _ := newTestAuthSvc(t, ctrl)
			if tt.setup != nil {
				tt.setup(users)
			}

			_, err := svc.Login(context.Background(), tt.req)

			requireOperational(t, err, tt.wantStatus, tt.wantMsg)
		})
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, users, _, _ := newTestAuthSvc(t, ctrl)

	users.EXPECT().FindByEmail(gomock.Any(), "leo@example.com").Return(storedUser(), nil)

	session, err := svc.Login(context.Background(), models.LoginRequest{Email: "LEO@example.com", Password: testPassword})

	require.NoError(t, err)
	assert.Equal(t, testUserID, session.User.ID)
	assert.Empty(t, session.User.PasswordHash)
}

func TestAuthService_Login_StorageError(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, users, _, _ := newTestAuthSvc(t, ctrl)

	users.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Return(models.User{}, errStorage)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "leo@example.com", Password: testPassword})

	assert.ErrorIs(t, err, errStorage)
	_, operational := apperror.As(err)
	assert.False(t, operational)
}

// ── Issue / Authenticate ─────────────────────────────────────────────────────

func TestAuthService_Authenticate_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, users, _, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	token, err := svc.Issue(ctx, storedUser())
	require.NoError(t, err)

	users.EXPECT().FindByID(gomock.Any(), testUserID).Return(storedUser(), nil)

	user, err := svc.Authenticate(ctx, token.SignedString)

	require.NoError(t, err)
	assert.Equal(t, testUserID, user.ID)
}

func TestAuthService_Authenticate_InvalidToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, _, _, _ := newTestAuthSvc(t, ctrl)

	_, err := svc.Authenticate(context.Background(), "not.a.token")

	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.NotErrorIs(t, err, ErrExpiredToken)
}

func TestAuthService_Authenticate_WrongSignature(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, _, _, _ := newTestAuthSvc(t, ctrl)

	token, err := utils.GenerateJWTToken(testUserID, time.Now(), time.Hour, "other-key")
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), token.SignedString)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_Authenticate_ExpiredToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, _, _, _ := newTestAuthSvc(t, ctrl)
	svc.now = fixedClock(time.Now().Add(-2 * time.Hour))

	token, err := svc.Issue(context.Background(), storedUser())
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), token.SignedString)

	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestAuthService_Authenticate_UserGone(t *testing.T) {
	for _, storeErr := range []error{store.ErrNotFound, &store.CastError{Field: "id", Value: "x"}} {
		ctrl := gomock.NewController(t)
		svc, users, _, _ := newTestAuthSvc(t, ctrl)

		token, err := svc.Issue(context.Background(), storedUser())
		require.NoError(t, err)
		users.EXPECT().FindByID(gomock.Any(), testUserID).Return(models.User{}, storeErr)

		_, err = svc.Authenticate(context.Background(), token.SignedString)

		requireOperational(t, err, http.StatusUnauthorized, app.MsgUserNoLongerExists)
	}
}

func TestAuthService_Authenticate_PasswordChangedAfterIssue(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, users, _, _ := newTestAuthSvc(t, ctrl)

	issuedAt := time.Now().Add(-10 * time.Minute)
	svc.now = fixedClock(issuedAt)
	token, err := svc.Issue(context.Background(), storedUser())
	require.NoError(t, err)

	changed := issuedAt.Add(5 * time.Minute)
	user := storedUser()
	user.PasswordChangedAt = &changed
	users.EXPECT().FindByID(gomock.Any(), testUserID).Return(user, nil)

	_, err = svc.Authenticate(context.Background(), token.SignedString)

	requireOperational(t, err, http.StatusUnauthorized, app.MsgPasswordRecentlyChange)
}

// ── ForgotPassword ───────────────────────────────────────────────────────────

func TestAuthService_ForgotPassword_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, users, mailer, _ := newTestAuthSvc(t, ctrl)
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = fixedClock(now)

	var storedHash string
	users.EXPECT().FindByEmail(gomock.Any(), "leo@example.com").Return(storedUser(), nil)
	users.EXPECT().SetResetToken(gomock.Any(), testUserID, gomock.Any(), now.Add(resetTokenTTL)).DoAndReturn(
		func(_ context.Context, _ string, hashed string, _ time.Time) error {
			storedHash = hashed
			return nil
		})
	mailer.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, email models.Email) error {
			assert.Equal(t, adapter.SubjectPasswordReset, email.Subject)
			m := resetLinkRe.FindStringSubmatch(email.Text)
			require.Len(t, m, 2)
			assert.Equal(t, storedHash, utils.HashToken(m[1]))
			return nil
		})

	err := svc.ForgotPassword(context.Background(), models.ForgotPasswordRequest{Email: "leo@example.com"}, testBaseURL)

	require.NoError(t, err)
}

func TestAuthService_ForgotPassword_UnknownEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, users, _, _ := newTestAuthSvc(t, ctrl)

	users.EXPECT().FindByEmail(gomock.Any(), "nobody@example.com").Return(models.User{}, store.ErrNotFound)

	err := svc.ForgotPassword(context.Background(), models.ForgotPasswordRequest{Email: "nobody@example.com"}, testBaseURL)

	requireOperational(t, err, http.StatusNotFound, app.MsgNoUserWithEmail)
}

func TestAuthService_ForgotPassword_MailFailureRollsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, users, mailer, _ := newTestAuthSvc(t, ctrl)

	gomock.InOrder(
		users.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Return(storedUser(), nil),
		users.EXPECT().SetResetToken(gomock.Any(), testUserID, gomock.Any(), gomock.Any()).Return(nil),
		mailer.EXPECT().Send(gomock.Any(), gomock.Any()).Return(adapter.ErrMailDelivery),
		users.EXPECT().ClearResetToken(gomock.Any(), testUserID).Return(nil),
	)

	err := svc.ForgotPassword(context.Background(), models.ForgotPasswordRequest{Email: "leo@example.com"}, testBaseURL)

	requireOperational(t, err, http.StatusInternalServerError, app.MsgErrorSendingEmail)
	assert.ErrorIs(t, err, adapter.ErrMailDelivery)
}

// ── ResetPassword ────────────────────────────────────────────────────────────

func TestAuthService_ResetPassword_InvalidToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, users, _, _ := newTestAuthSvc(t, ctrl)

	users.EXPECT().FindByResetToken(gomock.Any(), utils.HashToken("expired"), gomock.Any()).
		Return(models.User{}, store.ErrNotFound)

	_, err := svc.ResetPassword(context.Background(), "expired", models.ResetPasswordRequest{
		Password: "newpass123", PasswordConfirm: "newpass123",
	})

	requireOperational(t, err, http.StatusBadRequest, app.MsgResetTokenInvalid)
}

func TestAuthService_ResetPassword_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, users, _, validator := newTestAuthSvc(t, ctrl)
	now := time.Now().Truncate(time.Second)
	svc.now = fixedClock(now)
	req := models.ResetPasswordRequest{Password: "newpass123", PasswordConfirm: "newpass123"}

	users.EXPECT().FindByResetToken(gomock.Any(), utils.HashToken("plain"), now).Return(storedUser(), nil)
	validator.EXPECT().Validate(gomock.Any(), req).Return(nil)
	users.EXPECT().UpdatePassword(gomock.Any(), testUserID, gomock.Any(), now).DoAndReturn(
		func(_ context.Context, _ string, hash string, changedAt time.Time) (models.User, error) {
			assert.True(t, utils.CheckPassword(hash, "newpass123"))
			u := storedUser()
			u.PasswordHash = hash
			u.PasswordChangedAt = &changedAt
			return u, nil
		})

	session, err := svc.ResetPassword(context.Background(), "plain", req)

	require.NoError(t, err)
	assert.False(t, session.User.ChangedPasswordAfter(session.Token.IssuedAt),
		"a token issued with the password change must stay valid")
}

// ── UpdatePassword ───────────────────────────────────────────────────────────

func TestAuthService_UpdatePassword_WrongCurrent(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, users, _, _ := newTestAuthSvc(t, ctrl)

	users.EXPECT().FindByID(gomock.Any(), testUserID).Return(storedUser(), nil)

	_, err := svc.UpdatePassword(context.Background(), testUserID, models.UpdatePasswordRequest{
		PasswordCurrent: "wrong", Password: "newpass123", PasswordConfirm: "newpass123",
	})

	requireOperational(t, err, http.StatusUnauthorized, app.MsgCurrentPasswordWrong)
}

func TestAuthService_UpdatePassword_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, users, _, validator := newTestAuthSvc(t, ctrl)
	req := models.UpdatePasswordRequest{PasswordCurrent: testPassword, Password: "newpass123", PasswordConfirm: "newpass123"}

	users.EXPECT().FindByID(gomock.Any(), testUserID).Return(storedUser(), nil)
	validator.EXPECT().Validate(gomock.Any(), req).Return(nil)
	users.EXPECT().UpdatePassword(gomock.Any(), testUserID, gomock.Any(), gomock.Any()).
		Return(storedUser(), nil)

	session, err := svc.UpdatePassword(context.Background(), testUserID, req)

	require.NoError(t, err)
	assert.NotEmpty(t, session.Token.SignedString)
}
