package store

import (
	"github.com/MKhiriev/go-tour-booking/internal/config"
	"github.com/MKhiriev/go-tour-booking/internal/logger"
)

// Storages groups every repository the services depend on.
type Storages struct {
	Users      UserRepository
	Tours      TourRepository
	Reviews    ReviewRepository
	Bookings   BookingRepository
	RateLimits RateLimitStore
}

// NewStorages builds the repositories on top of db. The rate limit store is
// chosen by cfg.Backend.
func NewStorages(db *DB, cfg config.RateLimit, log *logger.Logger) *Storages {
	var rateLimits RateLimitStore
	switch cfg.Backend {
	case config.RateLimitBackendPostgres:
		rateLimits = NewPostgresRateLimitStore(db, cfg.Window, log)
	default:
		rateLimits = NewMemoryRateLimitStore(cfg.Window)
	}

	return &Storages{
		Users:      NewUserRepository(db, log),
		Tours:      NewTourRepository(db, log),
		Reviews:    NewReviewRepository(db, log),
		Bookings:   NewBookingRepository(db, log),
		RateLimits: rateLimits,
	}
}
