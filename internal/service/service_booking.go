package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-tour-booking/internal/adapter"
	"github.com/MKhiriev/go-tour-booking/internal/logger"
	"github.com/MKhiriev/go-tour-booking/internal/store"
	"github.com/MKhiriev/go-tour-booking/internal/utils"
	"github.com/MKhiriev/go-tour-booking/models"
)

// Links handed to the payment provider, relative to the site base URL.
const (
	checkoutSuccessPath = "/my-tours?alert=booking"
	tourPagePath        = "/tour/"
	tourImagePath       = "/img/tours/"
)

// bookingService runs the checkout flow and manages bookings.
type bookingService struct {
	bookings store.BookingRepository
	tours    store.TourRepository
	users    store.UserRepository

	// gateway creates checkout sessions and verifies payment webhooks.
	gateway adapter.PaymentGateway

	ids    idGenerator
	logger *logger.Logger
}

// NewBookingService returns a BookingService. Inputs are not validated here;
// wrap it with [NewBookingValidationService].
func NewBookingService(
	bookings store.BookingRepository,
	tours store.TourRepository,
	users store.UserRepository,
	gateway adapter.PaymentGateway,
	logger *logger.Logger,
) BookingService {
	return &bookingService{
		bookings: bookings,
		tours:    tours,
		users:    users,
		gateway:  gateway,
		ids:      utils.NewUUIDGenerator(),
		logger:   logger,
	}
}

// CheckoutSession creates a payment checkout for one seat on the tour.
// The tour id travels with the session and comes back in the webhook.
func (s *bookingService) CheckoutSession(ctx context.Context, tourID string, user models.User, baseURL string) (models.CheckoutSession, error) {
	tour, err := s.tours.Get(ctx, tourID)
	if err != nil {
		return models.CheckoutSession{}, mapStoreError(err)
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, models.CheckoutRequest{
		Tour:          tour,
		CustomerEmail: user.Email,
		SuccessURL:    baseURL + checkoutSuccessPath,
		CancelURL:     baseURL + tourPagePath + tour.Slug,
		ImageURL:      baseURL + tourImagePath + tour.ImageCover,
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "bookingService.CheckoutSession").Str("tour_id", tourID).Msg("error creating checkout session")
		return models.CheckoutSession{}, fmt.Errorf("error creating checkout session: %w", err)
	}

	return session, nil
}

// HandleWebhook verifies payload against signature and, for a completed
// checkout, books the tour for the customer. Other event types are
// acknowledged without side effects.
func (s *bookingService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	log := logger.FromContext(ctx)

	completed, err := s.gateway.ParseWebhook(payload, signature)
	if errors.Is(err, adapter.ErrIgnoredEvent) {
		log.Debug().Str("func", "bookingService.HandleWebhook").Msg("webhook event ignored")
		return nil
	}
	if err != nil {
		log.Err(err).Str("func", "bookingService.HandleWebhook").Msg("webhook rejected")
		return mapPaymentError(err)
	}

	user, err := s.users.FindByEmail(ctx, normalizeEmail(completed.CustomerEmail))
	if err != nil {
		log.Err(err).Str("func", "bookingService.HandleWebhook").Str("tour_id", completed.TourID).Msg("customer of completed checkout not found")
		return fmt.Errorf("customer of completed checkout not found: %w", mapStoreError(err))
	}

	booking, err := s.bookings.Create(ctx, models.Booking{
		ID:     s.ids.Generate(),
		TourID: completed.TourID,
		UserID: user.ID,
		Price:  completed.Price,
		Paid:   true,
	})
	if err != nil {
		log.Err(err).Str("func", "bookingService.HandleWebhook").Str("tour_id", completed.TourID).Msg("error creating booking")
		return fmt.Errorf("error creating booking: %w", mapStoreError(err))
	}

	log.Info().Str("booking_id", booking.ID).Str("tour_id", booking.TourID).Msg("booking created from checkout")
	return nil
}

// MyTours returns the distinct tours booked by userID.
func (s *bookingService) MyTours(ctx context.Context, userID string) ([]models.Tour, error) {
	bookings, err := s.bookings.ListByUser(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "bookingService.MyTours").Msg("error listing user bookings")
		return nil, fmt.Errorf("error listing user bookings: %w", mapStoreError(err))
	}

	seen := make(map[string]struct{}, len(bookings))
	ids := make([]string, 0, len(bookings))
	for _, b := range bookings {
		if _, ok := seen[b.TourID]; ok {
			continue
		}
		seen[b.TourID] = struct{}{}
		ids = append(ids, b.TourID)
	}

	tours, err := s.tours.ListByIDs(ctx, ids)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "bookingService.MyTours").Msg("error loading booked tours")
		return nil, fmt.Errorf("error loading booked tours: %w", err)
	}

	return tours, nil
}

// Create stores a booking made by an administrator. Paid defaults to true.
func (s *bookingService) Create(ctx context.Context, input models.BookingInput) (models.Booking, error) {
	paid := true
	if input.Paid != nil {
		paid = *input.Paid
	}

	booking, err := s.bookings.Create(ctx, models.Booking{
		ID:     s.ids.Generate(),
		TourID: input.TourID,
		UserID: input.UserID,
		Price:  input.Price,
		Paid:   paid,
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "bookingService.Create").Msg("error creating booking")
		return models.Booking{}, fmt.Errorf("error creating booking: %w", mapStoreError(err))
	}

	return booking, nil
}

func (s *bookingService) Get(ctx context.Context, id string) (models.Booking, error) {
	booking, err := s.bookings.Get(ctx, id)
	if err != nil {
		return models.Booking{}, mapStoreError(err)
	}

	return booking, nil
}

func (s *bookingService) List(ctx context.Context, features models.QueryFeatures) ([]models.Booking, error) {
	bookings, err := s.bookings.List(ctx, features)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "bookingService.List").Msg("error listing bookings")
		return nil, fmt.Errorf("error listing bookings: %w", err)
	}

	return bookings, nil
}

// Update applies a partial update. An empty update returns the booking as is.
func (s *bookingService) Update(ctx context.Context, id string, update models.BookingUpdate) (models.Booking, error) {
	booking, err := s.bookings.Update(ctx, id, update)
	if errors.Is(err, store.ErrNothingToUpdate) {
		return s.Get(ctx, id)
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "bookingService.Update").Str("id", id).Msg("error updating booking")
		return models.Booking{}, fmt.Errorf("error updating booking: %w", mapStoreError(err))
	}

	return booking, nil
}

func (s *bookingService) Delete(ctx context.Context, id string) error {
	if err := s.bookings.Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting booking: %w", mapStoreError(err))
	}

	return nil
}
