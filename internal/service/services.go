package service

import (
	"github.com/MKhiriev/go-tour-booking/internal/adapter"
	"github.com/MKhiriev/go-tour-booking/internal/config"
	"github.com/MKhiriev/go-tour-booking/internal/logger"
	"github.com/MKhiriev/go-tour-booking/internal/store"
	"github.com/MKhiriev/go-tour-booking/internal/validators"
)

// Services groups the business services used by the HTTP handlers.
type Services struct {
	AuthService    AuthService
	UserService    UserService
	TourService    TourService
	ReviewService  ReviewService
	BookingService BookingService
}

// Adapters groups the outbound integrations the services depend on.
type Adapters struct {
	Mailer  adapter.Mailer
	Emails  *adapter.EmailComposer
	Payment adapter.PaymentGateway
}

func NewServices(storages *store.Storages, adapters Adapters, validator validators.Validator, cfg config.StructuredConfig, logger *logger.Logger) *Services {
	tourService := NewTourValidationService(validator).
		Wrap(NewTourService(storages.Tours, logger))
	bookingService := NewBookingValidationService(validator).
		Wrap(NewBookingService(storages.Bookings, storages.Tours, storages.Users, adapters.Payment, logger))

	return &Services{
		AuthService:    NewAuthService(storages.Users, adapters.Mailer, adapters.Emails, validator, cfg.Auth, logger),
		UserService:    NewUserService(storages.Users, validator, logger),
		TourService:    tourService,
		ReviewService:  NewReviewService(storages.Reviews, validator, logger),
		BookingService: bookingService,
	}
}
