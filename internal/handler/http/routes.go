package http

import (
	"github.com/MKhiriev/go-tour-booking/models"
	"github.com/go-chi/chi/v5"
)

var (
	rolesAdmin       = models.NewRoles(models.RoleAdmin)
	rolesTourEditors = models.NewRoles(models.RoleAdmin, models.RoleLeadGuide)
	rolesTourStaff   = models.NewRoles(models.RoleAdmin, models.RoleLeadGuide, models.RoleGuide)
	rolesReviewer    = models.NewRoles(models.RoleUser)
	rolesReviewOwner = models.NewRoles(models.RoleUser, models.RoleAdmin)
)

// routes is the dispatch stage's router. Unmatched paths and methods end
// in the fallback handler.
func (h *Handler) routes() *chi.Mux {
	router := chi.NewRouter()

	// views
	router.Group(func(r chi.Router) {
		r.Use(h.optionalAuthenticated)
		r.Get("/", h.handle(h.overviewPage))
		r.Get("/tour/{slug}", h.handle(h.tourPage))
		r.Get("/login", h.handle(h.loginPage))
	})
	router.Group(func(r chi.Router) {
		r.Use(h.requireAuthenticated)
		r.Get("/me", h.handle(h.accountPage))
		r.Get("/my-tours", h.handle(h.myToursPage))
		r.Post("/submit-user-data", h.handle(h.submitUserData))
	})

	router.Post(webhookPath, h.handle(h.webhookCheckout))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/tours", h.tourRoutes)
		r.Route("/users", h.userRoutes)
		r.Route("/reviews", h.reviewRoutes)
		r.Route("/bookings", h.bookingRoutes)
	})

	router.NotFound(routeNotFound)
	router.MethodNotAllowed(routeNotFound)

	return router
}

func (h *Handler) tourRoutes(r chi.Router) {
	r.Get("/top-5-cheap", h.handle(h.topTours))
	r.Get("/tour-stats", h.handle(h.tourStats))
	r.With(h.requireAuthenticated, h.requireRole(rolesTourStaff)).
		Get("/monthly-plan/{year}", h.handle(h.monthlyPlan))
	r.Get("/tours-within/{distance}/center/{latlng}/unit/{unit}", h.handle(h.toursWithin))
	r.Get("/distances/{latlng}/unit/{unit}", h.handle(h.tourDistances))

	r.Get("/", h.handle(h.listTours))
	r.With(h.requireAuthenticated, h.requireRole(rolesTourEditors)).
		Post("/", h.handle(h.createTour))

	r.Route("/{tourID}", func(r chi.Router) {
		r.Get("/", h.handle(h.getTour))
		r.Group(func(r chi.Router) {
			r.Use(h.requireAuthenticated, h.requireRole(rolesTourEditors))
			r.Patch("/", h.handle(h.updateTour))
			r.Delete("/", h.handle(h.deleteTour))
		})
		r.Route("/reviews", h.reviewRoutes)
	})
}

func (h *Handler) userRoutes(r chi.Router) {
	r.Post("/signup", h.handle(h.signup))
	r.Post("/login", h.handle(h.login))
	r.Get("/logout", h.handle(h.logout))
	r.Post("/forgotPassword", h.handle(h.forgotPassword))
	r.Patch("/resetPassword/{token}", h.handle(h.resetPassword))

	r.Group(func(r chi.Router) {
		r.Use(h.requireAuthenticated)
		r.Patch("/updateMyPassword", h.handle(h.updateMyPassword))
		r.Get("/me", h.handle(h.getMe))
		r.Patch("/updateMe", h.handle(h.updateMe))
		r.Delete("/deleteMe", h.handle(h.deleteMe))

		r.Group(func(r chi.Router) {
			r.Use(h.requireRole(rolesAdmin))
			r.Get("/", h.handle(h.listUsers))
			r.Post("/", h.handle(h.createUser))
			r.Get("/{userID}", h.handle(h.getUser))
			r.Patch("/{userID}", h.handle(h.updateUser))
			r.Delete("/{userID}", h.handle(h.deleteUser))
		})
	})
}

func (h *Handler) reviewRoutes(r chi.Router) {
	r.Use(h.requireAuthenticated)

	r.Get("/", h.handle(h.listReviews))
	r.With(h.requireRole(rolesReviewer)).Post("/", h.handle(h.createReview))
	r.Get("/{reviewID}", h.handle(h.getReview))
	r.With(h.requireRole(rolesReviewOwner)).Patch("/{reviewID}", h.handle(h.updateReview))
	r.With(h.requireRole(rolesReviewOwner)).Delete("/{reviewID}", h.handle(h.deleteReview))
}

func (h *Handler) bookingRoutes(r chi.Router) {
	r.Use(h.requireAuthenticated)

	r.Get("/checkout-session/{tourID}", h.handle(h.checkoutSession))

	r.Group(func(r chi.Router) {
		r.Use(h.requireRole(rolesTourEditors))
		r.Get("/", h.handle(h.listBookings))
		r.Post("/", h.handle(h.createBooking))
		r.Get("/{bookingID}", h.handle(h.getBooking))
		r.Patch("/{bookingID}", h.handle(h.updateBooking))
		r.Delete("/{bookingID}", h.handle(h.deleteBooking))
	})
}
