package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-tour-booking/internal/validators"
	"github.com/MKhiriev/go-tour-booking/models"
)

// TourServiceWrapper decorates a TourService with extra behavior.
type TourServiceWrapper interface {
	Wrap(TourService) TourService
}

// BookingServiceWrapper decorates a BookingService with extra behavior.
type BookingServiceWrapper interface {
	Wrap(BookingService) BookingService
}

// TourValidationService checks tour payloads against their struct rules
// before they reach the wrapped service.
type TourValidationService struct {
	TourService
	validator validators.Validator
}

func NewTourValidationService(validator validators.Validator) TourServiceWrapper {
	return &TourValidationService{validator: validator}
}

func (v *TourValidationService) Wrap(inner TourService) TourService {
	v.TourService = inner
	return v
}

func (v *TourValidationService) Create(ctx context.Context, input models.TourInput) (models.Tour, error) {
	if err := v.validator.Validate(ctx, input); err != nil {
		return models.Tour{}, fmt.Errorf("error during tour validation before saving: %w", err)
	}

	return v.TourService.Create(ctx, input)
}

func (v *TourValidationService) Update(ctx context.Context, id string, update models.TourUpdate) (models.Tour, error) {
	if err := v.validator.Validate(ctx, update); err != nil {
		return models.Tour{}, fmt.Errorf("error during tour validation before updating: %w", err)
	}

	return v.TourService.Update(ctx, id, update)
}

// BookingValidationService checks booking payloads before they reach the
// wrapped service.
type BookingValidationService struct {
	BookingService
	validator validators.Validator
}

func NewBookingValidationService(validator validators.Validator) BookingServiceWrapper {
	return &BookingValidationService{validator: validator}
}

func (v *BookingValidationService) Wrap(inner BookingService) BookingService {
	v.BookingService = inner
	return v
}

func (v *BookingValidationService) Create(ctx context.Context, input models.BookingInput) (models.Booking, error) {
	if err := v.validator.Validate(ctx, input); err != nil {
		return models.Booking{}, fmt.Errorf("error during booking validation before saving: %w", err)
	}

	return v.BookingService.Create(ctx, input)
}

func (v *BookingValidationService) Update(ctx context.Context, id string, update models.BookingUpdate) (models.Booking, error) {
	if err := v.validator.Validate(ctx, update); err != nil {
		return models.Booking{}, fmt.Errorf("error during booking validation before updating: %w", err)
	}

	return v.BookingService.Update(ctx, id, update)
}
