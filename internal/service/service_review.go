package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-tour-booking/internal/logger"
	"github.com/MKhiriev/go-tour-booking/internal/store"
	"github.com/MKhiriev/go-tour-booking/internal/utils"
	"github.com/MKhiriev/go-tour-booking/internal/validators"
	"github.com/MKhiriev/go-tour-booking/models"
)

// reviewService stores reviews. The repository keeps each tour's rating
// summary in step with every write.
type reviewService struct {
	reviews   store.ReviewRepository
	validator validators.Validator
	ids       idGenerator
	logger    *logger.Logger
}

func NewReviewService(reviews store.ReviewRepository, validator validators.Validator, logger *logger.Logger) ReviewService {
	return &reviewService{
		reviews:   reviews,
		validator: validator,
		ids:       utils.NewUUIDGenerator(),
		logger:    logger,
	}
}

// Create fills the tour from the nested route and the user from the
// caller when the payload leaves them out. A second review of the same
// tour by the same user fails with a duplicate error.
func (s *reviewService) Create(ctx context.Context, input models.ReviewInput, tourID string, caller models.Principal) (models.Review, error) {
	if input.TourID == "" {
		input.TourID = tourID
	}
	if input.UserID == "" {
		input.UserID = caller.ID
	}

	if err := s.validator.Validate(ctx, input); err != nil {
		return models.Review{}, fmt.Errorf("error during review validation before saving: %w", err)
	}

	review, err := s.reviews.Create(ctx, models.Review{
		ID:     s.ids.Generate(),
		Review: input.Review,
		Rating: input.Rating,
		TourID: input.TourID,
		UserID: input.UserID,
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "reviewService.Create").Str("tour_id", input.TourID).Msg("error creating review")
		return models.Review{}, fmt.Errorf("error creating review: %w", mapStoreError(err))
	}

	return review, nil
}

func (s *reviewService) Get(ctx context.Context, id string) (models.Review, error) {
	review, err := s.reviews.Get(ctx, id)
	if err != nil {
		return models.Review{}, mapStoreError(err)
	}

	return review, nil
}

func (s *reviewService) List(ctx context.Context, tourID string, features models.QueryFeatures) ([]models.Review, error) {
	if tourID != "" {
		features = features.WithFilter("tour", tourID)
	}

	reviews, err := s.reviews.List(ctx, features)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "reviewService.List").Msg("error listing reviews")
		return nil, fmt.Errorf("error listing reviews: %w", err)
	}

	return reviews, nil
}

// Update applies a partial update. An empty update returns the review as is.
func (s *reviewService) Update(ctx context.Context, id string, update models.ReviewUpdate) (models.Review, error) {
	if err := s.validator.Validate(ctx, update); err != nil {
		return models.Review{}, fmt.Errorf("error during review validation before updating: %w", err)
	}

	review, err := s.reviews.Update(ctx, id, update)
	if errors.Is(err, store.ErrNothingToUpdate) {
		return s.Get(ctx, id)
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "reviewService.Update").Str("id", id).Msg("error updating review")
		return models.Review{}, fmt.Errorf("error updating review: %w", mapStoreError(err))
	}

	return review, nil
}

func (s *reviewService) Delete(ctx context.Context, id string) error {
	if err := s.reviews.Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting review: %w", mapStoreError(err))
	}

	return nil
}
