package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/MKhiriev/go-tour-booking/internal/adapter"
	"github.com/MKhiriev/go-tour-booking/internal/app"
	"github.com/MKhiriev/go-tour-booking/internal/apperror"
	"github.com/MKhiriev/go-tour-booking/internal/config"
	"github.com/MKhiriev/go-tour-booking/internal/logger"
	"github.com/MKhiriev/go-tour-booking/internal/store"
	"github.com/MKhiriev/go-tour-booking/internal/utils"
	"github.com/MKhiriev/go-tour-booking/internal/validators"
	"github.com/MKhiriev/go-tour-booking/models"
)

const (
	// resetTokenTTL is how long an emailed password reset token is accepted.
	resetTokenTTL = 10 * time.Minute

	// defaultPhoto is the avatar of new accounts.
	defaultPhoto = "default.jpg"

	resetPasswordPath = "/api/v1/users/resetPassword/"
	accountPath       = "/me"
)

// idGenerator produces identifiers for new records.
type idGenerator interface {
	Generate() string
}

// authService is the concrete implementation of AuthService.
// It handles signup, credential verification, password recovery and the
// JWT token lifecycle. Tokens are not stored: a token is valid until it
// expires or its subject changes the password.
type authService struct {
	// users is the data-access layer used to create and look up accounts.
	users store.UserRepository

	// mailer delivers welcome and password reset emails.
	mailer adapter.Mailer

	// emails renders the email templates.
	emails *adapter.EmailComposer

	validator validators.Validator
	ids       idGenerator

	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	tokenSignKey string

	// tokenDuration controls how long a newly issued JWT remains valid.
	tokenDuration time.Duration

	now    func() time.Time
	logger *logger.Logger
}

// NewAuthService constructs a new AuthService wired to the given repository
// and mail transport and populated with token parameters from cfg.
//
// The returned service is safe for concurrent use; all state is read-only after
// construction.
func NewAuthService(
	users store.UserRepository,
	mailer adapter.Mailer,
	emails *adapter.EmailComposer,
	validator validators.Validator,
	cfg config.Auth,
	logger *logger.Logger,
) AuthService {
	return &authService{
		users:         users,
		mailer:        mailer,
		emails:        emails,
		validator:     validator,
		ids:           utils.NewUUIDGenerator(),
		tokenSignKey:  cfg.JWTSecret,
		tokenDuration: cfg.JWTExpiresIn,
		now:           time.Now,
		logger:        logger,
	}
}

// Signup creates a regular user account.
//
// The role is always "user"; it is never taken from the request. A failed
// welcome email is logged and does not fail the signup.
func (a *authService) Signup(ctx context.Context, req models.SignupRequest, baseURL string) (models.Session, error) {
	log := logger.FromContext(ctx)

	if err := a.validator.Validate(ctx, req); err != nil {
		return models.Session{}, fmt.Errorf("signup validation failed: %w", err)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		log.Err(err).Str("func", "authService.Signup").Msg("error hashing password")
		return models.Session{}, fmt.Errorf("%w: %w", ErrPasswordHashing, err)
	}

	user, err := a.users.Create(ctx, models.User{
		ID:           a.ids.Generate(),
		Name:         strings.TrimSpace(req.Name),
		Email:        normalizeEmail(req.Email),
		Photo:        defaultPhoto,
		Role:         models.RoleUser,
		PasswordHash: hash,
		Active:       true,
	})
	if err != nil {
		log.Err(err).Str("func", "authService.Signup").Msg("user creation ended with error")
		return models.Session{}, fmt.Errorf("user creation ended with error: %w", mapStoreError(err))
	}

	if err = a.send(ctx, user, baseURL+accountPath, a.emails.Welcome); err != nil {
		log.Warn().Err(err).Str("func", "authService.Signup").Str("user_id", user.ID).Msg("welcome email was not sent")
	}

	return a.session(ctx, user)
}

// Login authenticates a user by email and password.
//
// Returns:
//   - 400 if email or password is empty.
//   - 401 if no active account has the email or the password is wrong.
//     Both cases share one message so accounts cannot be enumerated.
func (a *authService) Login(ctx context.Context, req models.LoginRequest) (models.Session, error) {
	if req.Email == "" || req.Password == "" {
		return models.Session{}, apperror.BadRequest(app.MsgProvideEmailPassword)
	}

	user, err := a.users.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Session{}, apperror.Wrap(err, http.StatusUnauthorized, app.MsgIncorrectEmailPassword)
		}
		logger.FromContext(ctx).Err(err).Str("func", "authService.Login").Msg("user search by email failed")
		return models.Session{}, fmt.Errorf("user search by email failed: %w", err)
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		return models.Session{}, apperror.Unauthenticated(app.MsgIncorrectEmailPassword)
	}

	return a.session(ctx, user)
}

// Issue signs a JWT for user with the configured lifetime.
func (a *authService) Issue(ctx context.Context, user models.User) (models.AuthToken, error) {
	token, err := utils.GenerateJWTToken(user.ID, a.now(), a.tokenDuration, a.tokenSignKey)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "authService.Issue").Msg("error signing token")
		return models.AuthToken{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

// Authenticate verifies tokenString and loads its subject.
//
// Returns:
//   - ErrExpiredToken or ErrInvalidToken when verification fails.
//   - 401 when the subject no longer exists or was deactivated.
//   - 401 when the password changed after the token was issued.
func (a *authService) Authenticate(ctx context.Context, tokenString string) (models.User, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey)
	if err != nil {
		if errors.Is(err, utils.ErrTokenExpired) {
			return models.User{}, fmt.Errorf("%w: %w", ErrExpiredToken, err)
		}
		return models.User{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	user, err := a.users.FindByID(ctx, token.SubjectID)
	if err != nil {
		var castErr *store.CastError
		if errors.Is(err, store.ErrNotFound) || errors.As(err, &castErr) {
			return models.User{}, apperror.Wrap(err, http.StatusUnauthorized, app.MsgUserNoLongerExists)
		}
		logger.FromContext(ctx).Err(err).Str("func", "authService.Authenticate").Msg("error loading token subject")
		return models.User{}, fmt.Errorf("error loading token subject: %w", err)
	}

	if user.ChangedPasswordAfter(token.IssuedAt) {
		return models.User{}, apperror.Unauthenticated(app.MsgPasswordRecentlyChange)
	}

	return user, nil
}

// ForgotPassword stores a fresh reset token for the account and emails the
// plain token to it. When the email cannot be sent the token is cleared
// again and a 500 operational error is returned.
func (a *authService) ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest, baseURL string) error {
	log := logger.FromContext(ctx)

	user, err := a.users.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperror.Wrap(err, http.StatusNotFound, app.MsgNoUserWithEmail)
		}
		log.Err(err).Str("func", "authService.ForgotPassword").Msg("user search by email failed")
		return fmt.Errorf("user search by email failed: %w", err)
	}

	plain, hashed, err := utils.GenerateResetToken()
	if err != nil {
		return err
	}

	if err = a.users.SetResetToken(ctx, user.ID, hashed, a.now().Add(resetTokenTTL)); err != nil {
		log.Err(err).Str("func", "authService.ForgotPassword").Msg("error storing reset token")
		return fmt.Errorf("error storing reset token: %w", err)
	}

	if err = a.send(ctx, user, baseURL+resetPasswordPath+plain, a.emails.PasswordReset); err != nil {
		log.Err(err).Str("func", "authService.ForgotPassword").Str("user_id", user.ID).Msg("reset email was not sent")
		if clearErr := a.users.ClearResetToken(ctx, user.ID); clearErr != nil {
			log.Err(clearErr).Str("func", "authService.ForgotPassword").Msg("error clearing reset token")
		}
		return apperror.Wrap(err, http.StatusInternalServerError, app.MsgErrorSendingEmail)
	}

	return nil
}

// ResetPassword sets a new password for the holder of an unexpired reset
// token and starts a new session.
func (a *authService) ResetPassword(ctx context.Context, token string, req models.ResetPasswordRequest) (models.Session, error) {
	user, err := a.users.FindByResetToken(ctx, utils.HashToken(token), a.now())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Session{}, apperror.Wrap(err, http.StatusBadRequest, app.MsgResetTokenInvalid)
		}
		logger.FromContext(ctx).Err(err).Str("func", "authService.ResetPassword").Msg("reset token lookup failed")
		return models.Session{}, fmt.Errorf("reset token lookup failed: %w", err)
	}

	if err = a.validator.Validate(ctx, req); err != nil {
		return models.Session{}, fmt.Errorf("reset password validation failed: %w", err)
	}

	return a.changePassword(ctx, user.ID, req.Password)
}

// UpdatePassword changes the password of a logged-in user after checking
// the current one.
func (a *authService) UpdatePassword(ctx context.Context, userID string, req models.UpdatePasswordRequest) (models.Session, error) {
	user, err := a.users.FindByID(ctx, userID)
	if err != nil {
		return models.Session{}, fmt.Errorf("user search by id failed: %w", mapStoreError(err))
	}

	if !utils.CheckPassword(user.PasswordHash, req.PasswordCurrent) {
		return models.Session{}, apperror.Unauthenticated(app.MsgCurrentPasswordWrong)
	}

	if err = a.validator.Validate(ctx, req); err != nil {
		return models.Session{}, fmt.Errorf("update password validation failed: %w", err)
	}

	return a.changePassword(ctx, user.ID, req.Password)
}

// changePassword stores the new hash and issues a token. The change is
// stamped before the token is signed, so the new token is never older than
// the change.
func (a *authService) changePassword(ctx context.Context, userID, password string) (models.Session, error) {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return models.Session{}, fmt.Errorf("%w: %w", ErrPasswordHashing, err)
	}

	user, err := a.users.UpdatePassword(ctx, userID, hash, a.now())
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "authService.changePassword").Msg("error storing password")
		return models.Session{}, fmt.Errorf("error storing password: %w", mapStoreError(err))
	}

	return a.session(ctx, user)
}

func (a *authService) session(ctx context.Context, user models.User) (models.Session, error) {
	token, err := a.Issue(ctx, user)
	if err != nil {
		return models.Session{}, err
	}

	user.PasswordHash = ""
	return models.Session{Token: token, User: user}, nil
}

// send composes an email for user with compose and delivers it.
func (a *authService) send(ctx context.Context, user models.User, url string, compose func(models.User, string) (models.Email, error)) error {
	email, err := compose(user, url)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrComposingEmail, err)
	}

	return a.mailer.Send(ctx, email)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
