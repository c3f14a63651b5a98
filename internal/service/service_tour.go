package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-tour-booking/internal/app"
	"github.com/MKhiriev/go-tour-booking/internal/apperror"
	"github.com/MKhiriev/go-tour-booking/internal/logger"
	"github.com/MKhiriev/go-tour-booking/internal/store"
	"github.com/MKhiriev/go-tour-booking/internal/utils"
	"github.com/MKhiriev/go-tour-booking/models"
)

// Earth radius per distance unit. Distances are converted to radians with
// the unit radius and back to meters with earthRadiusMeters.
const (
	earthRadiusMiles  = 3963.2
	earthRadiusKm     = 6378.1
	earthRadiusMeters = 6378100

	metersToMiles = 0.000621371
	metersToKm    = 0.001

	unitMiles = "mi"
)

type tourService struct {
	tours  store.TourRepository
	ids    idGenerator
	logger *logger.Logger
}

// NewTourService returns a TourService. Inputs are not validated here; wrap
// it with [NewTourValidationService].
func NewTourService(tours store.TourRepository, logger *logger.Logger) TourService {
	return &tourService{
		tours:  tours,
		ids:    utils.NewUUIDGenerator(),
		logger: logger,
	}
}

func (s *tourService) Create(ctx context.Context, input models.TourInput) (models.Tour, error) {
	tour := input.Tour()
	tour.ID = s.ids.Generate()

	created, err := s.tours.Create(ctx, tour)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "tourService.Create").Str("name", tour.Name).Msg("error creating tour")
		return models.Tour{}, fmt.Errorf("error creating tour: %w", mapStoreError(err))
	}

	return created, nil
}

func (s *tourService) Get(ctx context.Context, id string) (models.Tour, error) {
	tour, err := s.tours.Get(ctx, id)
	if err != nil {
		return models.Tour{}, mapStoreError(err)
	}

	return tour, nil
}

// GetBySlug is used by the rendered tour page, which reports a missing tour
// by name rather than by id.
func (s *tourService) GetBySlug(ctx context.Context, slug string) (models.Tour, error) {
	tour, err := s.tours.GetBySlug(ctx, slug)
	if errors.Is(err, store.ErrNotFound) {
		return models.Tour{}, apperror.Wrap(err, http.StatusNotFound, app.MsgNoTourFound)
	}
	if err != nil {
		return models.Tour{}, fmt.Errorf("error loading tour %q: %w", slug, err)
	}

	return tour, nil
}

func (s *tourService) List(ctx context.Context, features models.QueryFeatures) ([]models.Tour, error) {
	tours, err := s.tours.List(ctx, features)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "tourService.List").Msg("error listing tours")
		return nil, fmt.Errorf("error listing tours: %w", err)
	}

	return tours, nil
}

// Update applies a partial update. An empty update returns the tour as is.
func (s *tourService) Update(ctx context.Context, id string, update models.TourUpdate) (models.Tour, error) {
	tour, err := s.tours.Update(ctx, id, update)
	if errors.Is(err, store.ErrNothingToUpdate) {
		return s.Get(ctx, id)
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "tourService.Update").Str("id", id).Msg("error updating tour")
		return models.Tour{}, fmt.Errorf("error updating tour: %w", mapStoreError(err))
	}

	return tour, nil
}

func (s *tourService) Delete(ctx context.Context, id string) error {
	if err := s.tours.Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting tour: %w", mapStoreError(err))
	}

	return nil
}

func (s *tourService) Stats(ctx context.Context) ([]models.TourStats, error) {
	stats, err := s.tours.Stats(ctx)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "tourService.Stats").Msg("error aggregating tour stats")
		return nil, fmt.Errorf("error aggregating tour stats: %w", err)
	}

	return stats, nil
}

func (s *tourService) MonthlyPlan(ctx context.Context, year string) ([]models.MonthlyPlan, error) {
	y, err := strconv.Atoi(year)
	if err != nil || y < 1 || y > 9999 {
		return nil, apperror.BadRequest(app.MsgInvalidYear)
	}

	plan, err := s.tours.MonthlyPlan(ctx, y)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "tourService.MonthlyPlan").Int("year", y).Msg("error building monthly plan")
		return nil, fmt.Errorf("error building monthly plan: %w", err)
	}

	return plan, nil
}

func (s *tourService) Within(ctx context.Context, distance, latlng, unit string) ([]models.Tour, error) {
	center, err := parseLatLng(latlng)
	if err != nil {
		return nil, err
	}

	d, err := strconv.ParseFloat(distance, 64)
	if err != nil || d < 0 {
		return nil, apperror.BadRequest(fmt.Sprintf(app.MsgInvalidFieldFmt, "distance", distance))
	}

	radius := earthRadiusKm
	if unit == unitMiles {
		radius = earthRadiusMiles
	}

	tours, err := s.tours.Within(ctx, center, d/radius*earthRadiusMeters)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "tourService.Within").Msg("error searching tours within distance")
		return nil, fmt.Errorf("error searching tours within distance: %w", err)
	}

	return tours, nil
}

func (s *tourService) Distances(ctx context.Context, latlng, unit string) ([]models.TourDistance, error) {
	center, err := parseLatLng(latlng)
	if err != nil {
		return nil, err
	}

	multiplier := metersToKm
	if unit == unitMiles {
		multiplier = metersToMiles
	}

	distances, err := s.tours.Distances(ctx, center, multiplier)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "tourService.Distances").Msg("error computing tour distances")
		return nil, fmt.Errorf("error computing tour distances: %w", err)
	}

	return distances, nil
}

// parseLatLng parses "lat,lng" into a location.
func parseLatLng(latlng string) (models.Location, error) {
	latStr, lngStr, ok := strings.Cut(latlng, ",")
	if !ok {
		return models.Location{}, apperror.BadRequest(app.MsgLatLngFormat)
	}

	lat, latErr := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	lng, lngErr := strconv.ParseFloat(strings.TrimSpace(lngStr), 64)
	if latErr != nil || lngErr != nil || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return models.Location{}, apperror.BadRequest(app.MsgLatLngFormat)
	}

	return models.Location{Lat: lat, Lng: lng}, nil
}
