package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-tour-booking/internal/app"
	"github.com/MKhiriev/go-tour-booking/internal/apperror"
	"github.com/MKhiriev/go-tour-booking/internal/logger"
	"github.com/MKhiriev/go-tour-booking/internal/store"
	"github.com/MKhiriev/go-tour-booking/internal/validators"
	"github.com/MKhiriev/go-tour-booking/models"
)

type userService struct {
	users     store.UserRepository
	validator validators.Validator
	logger    *logger.Logger
}

func NewUserService(users store.UserRepository, validator validators.Validator, logger *logger.Logger) UserService {
	return &userService{
		users:     users,
		validator: validator,
		logger:    logger,
	}
}

func (s *userService) Get(ctx context.Context, id string) (models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return models.User{}, mapStoreError(err)
	}

	return user, nil
}

func (s *userService) List(ctx context.Context, features models.QueryFeatures) ([]models.User, error) {
	users, err := s.users.List(ctx, features)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "userService.List").Msg("error listing users")
		return nil, fmt.Errorf("error listing users: %w", err)
	}

	return users, nil
}

// Update applies a partial update. An empty update returns the user as is.
func (s *userService) Update(ctx context.Context, id string, update models.UserUpdate) (models.User, error) {
	if err := s.validator.Validate(ctx, update); err != nil {
		return models.User{}, fmt.Errorf("user update validation failed: %w", err)
	}

	if update.Email != nil {
		email := normalizeEmail(*update.Email)
		update.Email = &email
	}

	user, err := s.users.Update(ctx, id, update)
	if errors.Is(err, store.ErrNothingToUpdate) {
		return s.Get(ctx, id)
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "userService.Update").Str("id", id).Msg("error updating user")
		return models.User{}, fmt.Errorf("error updating user: %w", mapStoreError(err))
	}

	return user, nil
}

func (s *userService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting user: %w", mapStoreError(err))
	}

	return nil
}

// UpdateMe rejects password fields and applies only name and email.
func (s *userService) UpdateMe(ctx context.Context, userID string, req models.UpdateMeRequest) (models.User, error) {
	if req.HasPassword() {
		return models.User{}, apperror.BadRequest(app.MsgNotForPasswordUpdates)
	}

	return s.Update(ctx, userID, req.UserUpdate())
}

// DeleteMe deactivates the account. Deactivated accounts disappear from
// every read and can no longer authenticate.
func (s *userService) DeleteMe(ctx context.Context, userID string) error {
	if err := s.users.Deactivate(ctx, userID); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "userService.DeleteMe").Str("id", userID).Msg("error deactivating user")
		return fmt.Errorf("error deactivating user: %w", mapStoreError(err))
	}

	return nil
}
