// Package service holds the business rules of the tour-booking API.
//
// Services sit between the HTTP handlers and the repositories. Failures a
// client may see are returned as [apperror.OperationalError] values; backend
// errors (cast, duplicate, validation) are passed through wrapped so the
// HTTP error normalizer can translate them.
package service

import (
	"context"

	"github.com/MKhiriev/go-tour-booking/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// AuthService issues and verifies session tokens and manages credentials.
type AuthService interface {
	// Signup creates a user account and sends a welcome email to it.
	// baseURL is the scheme://host used in the emailed link.
	Signup(ctx context.Context, req models.SignupRequest, baseURL string) (models.Session, error)
	Login(ctx context.Context, req models.LoginRequest) (models.Session, error)
	// Issue signs a new session token for user.
	Issue(ctx context.Context, user models.User) (models.AuthToken, error)
	// Authenticate verifies token and loads its still-valid subject.
	Authenticate(ctx context.Context, token string) (models.User, error)
	ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest, baseURL string) error
	ResetPassword(ctx context.Context, token string, req models.ResetPasswordRequest) (models.Session, error)
	UpdatePassword(ctx context.Context, userID string, req models.UpdatePasswordRequest) (models.Session, error)
}

// UserService manages user accounts.
type UserService interface {
	Get(ctx context.Context, id string) (models.User, error)
	List(ctx context.Context, features models.QueryFeatures) ([]models.User, error)
	Update(ctx context.Context, id string, update models.UserUpdate) (models.User, error)
	Delete(ctx context.Context, id string) error
	// UpdateMe changes the caller's name or email.
	UpdateMe(ctx context.Context, userID string, req models.UpdateMeRequest) (models.User, error)
	// DeleteMe deactivates the caller's account.
	DeleteMe(ctx context.Context, userID string) error
}

// TourService manages tours and their reports.
type TourService interface {
	Create(ctx context.Context, input models.TourInput) (models.Tour, error)
	Get(ctx context.Context, id string) (models.Tour, error)
	GetBySlug(ctx context.Context, slug string) (models.Tour, error)
	List(ctx context.Context, features models.QueryFeatures) ([]models.Tour, error)
	Update(ctx context.Context, id string, update models.TourUpdate) (models.Tour, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) ([]models.TourStats, error)
	// MonthlyPlan counts tour starts per month of year, given as a
	// decimal string from the URL.
	MonthlyPlan(ctx context.Context, year string) ([]models.MonthlyPlan, error)
	// Within finds tours starting inside distance of latlng ("lat,lng").
	// unit is "mi" for miles, anything else means kilometers.
	Within(ctx context.Context, distance, latlng, unit string) ([]models.Tour, error)
	// Distances lists every tour with its distance from latlng in unit.
	Distances(ctx context.Context, latlng, unit string) ([]models.TourDistance, error)
}

// ReviewService manages reviews, optionally scoped to one tour.
type ReviewService interface {
	// Create stores a review. Missing tour and user ids default to tourID
	// and the caller.
	Create(ctx context.Context, input models.ReviewInput, tourID string, caller models.Principal) (models.Review, error)
	Get(ctx context.Context, id string) (models.Review, error)
	// List returns reviews of tourID, or of every tour when tourID is empty.
	List(ctx context.Context, tourID string, features models.QueryFeatures) ([]models.Review, error)
	Update(ctx context.Context, id string, update models.ReviewUpdate) (models.Review, error)
	Delete(ctx context.Context, id string) error
}

// BookingService manages bookings and the payment checkout flow.
type BookingService interface {
	// CheckoutSession starts a payment for tourID on behalf of user.
	CheckoutSession(ctx context.Context, tourID string, user models.User, baseURL string) (models.CheckoutSession, error)
	// HandleWebhook verifies a payment callback and records the booking of
	// a completed checkout.
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
	// MyTours returns the tours booked by userID.
	MyTours(ctx context.Context, userID string) ([]models.Tour, error)
	Create(ctx context.Context, input models.BookingInput) (models.Booking, error)
	Get(ctx context.Context, id string) (models.Booking, error)
	List(ctx context.Context, features models.QueryFeatures) ([]models.Booking, error)
	Update(ctx context.Context, id string, update models.BookingUpdate) (models.Booking, error)
	Delete(ctx context.Context, id string) error
}
