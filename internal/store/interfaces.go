package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-tour-booking/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// UserRepository persists user accounts. Inactive (self-deleted) accounts
// are invisible to every read.
type UserRepository interface {
	Create(ctx context.Context, user models.User) (models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
	// FindByEmail includes the password hash, for login.
	FindByEmail(ctx context.Context, email string) (models.User, error)
	// FindByResetToken returns the user whose hashed reset token matches and
	// has not expired at now.
	FindByResetToken(ctx context.Context, hashedToken string, now time.Time) (models.User, error)
	List(ctx context.Context, features models.QueryFeatures) ([]models.User, error)
	Update(ctx context.Context, id string, update models.UserUpdate) (models.User, error)
	// UpdatePassword stores a new hash, stamps changedAt and clears any
	// pending reset token.
	UpdatePassword(ctx context.Context, id, passwordHash string, changedAt time.Time) (models.User, error)
	SetResetToken(ctx context.Context, id, hashedToken string, expires time.Time) error
	ClearResetToken(ctx context.Context, id string) error
	Deactivate(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// TourRepository persists tours. Secret tours are excluded from every read.
type TourRepository interface {
	Create(ctx context.Context, tour models.Tour) (models.Tour, error)
	Get(ctx context.Context, id string) (models.Tour, error)
	GetBySlug(ctx context.Context, slug string) (models.Tour, error)
	List(ctx context.Context, features models.QueryFeatures) ([]models.Tour, error)
	ListByIDs(ctx context.Context, ids []string) ([]models.Tour, error)
	Update(ctx context.Context, id string, update models.TourUpdate) (models.Tour, error)
	Delete(ctx context.Context, id string) error
	// Stats aggregates tours rated 4.5 or better, grouped by difficulty.
	Stats(ctx context.Context) ([]models.TourStats, error)
	// MonthlyPlan counts tour starts per month of year.
	MonthlyPlan(ctx context.Context, year int) ([]models.MonthlyPlan, error)
	// Within returns tours starting no farther than radiusMeters from center.
	Within(ctx context.Context, center models.Location, radiusMeters float64) ([]models.Tour, error)
	// Distances returns every tour with its distance from center, in meters
	// scaled by multiplier, nearest first.
	Distances(ctx context.Context, center models.Location, multiplier float64) ([]models.TourDistance, error)
}

// ReviewRepository persists reviews. Every write recalculates the ratings
// of the reviewed tour.
type ReviewRepository interface {
	Create(ctx context.Context, review models.Review) (models.Review, error)
	Get(ctx context.Context, id string) (models.Review, error)
	List(ctx context.Context, features models.QueryFeatures) ([]models.Review, error)
	Update(ctx context.Context, id string, update models.ReviewUpdate) (models.Review, error)
	Delete(ctx context.Context, id string) error
}

// BookingRepository persists bookings.
type BookingRepository interface {
	Create(ctx context.Context, booking models.Booking) (models.Booking, error)
	Get(ctx context.Context, id string) (models.Booking, error)
	List(ctx context.Context, features models.QueryFeatures) ([]models.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]models.Booking, error)
	Update(ctx context.Context, id string, update models.BookingUpdate) (models.Booking, error)
	Delete(ctx context.Context, id string) error
}

// RateLimitStore records request hits per key and counts them over a
// rolling window.
type RateLimitStore interface {
	// Hit records n hits for key at the given moment.
	Hit(ctx context.Context, key string, at time.Time, n int) error
	// Count returns the hits for key within the window that ends at now.
	Count(ctx context.Context, key string, now time.Time) (int, error)
	// Prune drops hits that fell out of the window ending at now and
	// returns how many records were removed.
	Prune(ctx context.Context, now time.Time) (int64, error)
}
