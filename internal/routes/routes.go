package routes

import (
	"github.com/closerly/backend/internal/handlers"
	"github.com/closerly/backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	bookingHandler *handlers.BookingHandler,
	verifyHandler *handlers.VerifyHandler,
	formationHandler *handlers.FormationHandler,
	contentHandler *handlers.ContentHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	adminKey string,
) {
	// Rate limiting config for submission endpoints
	rateLimitConfig := middleware.DefaultSubmissionRateLimit()

	// Public routes - no authentication required
	router.With(middleware.RateLimitByIP(rateLimitConfig)).Post("/bookings", bookingHandler.SubmitBooking)
	router.With(middleware.RateLimitByIP(rateLimitConfig)).Post("/turnstile/verify", verifyHandler.VerifyToken)

	router.Get("/formations", formationHandler.ListPublished)
	router.Get("/content", contentHandler.ListSections)
	router.Get("/content/{section}", contentHandler.GetSection)
	router.Post("/analytics/events", analyticsHandler.RecordEvent)

	// Admin routes - pre-shared key required
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdminKey(adminKey))

		r.Get("/admin/bookings", bookingHandler.ListBookings)
		r.Get("/admin/bookings/{id}", bookingHandler.GetBooking)
		r.Patch("/admin/bookings/{id}/status", bookingHandler.UpdateBookingStatus)

		r.Get("/admin/formations", formationHandler.ListAll)
		r.Post("/admin/formations", formationHandler.CreateFormation)
		r.Put("/admin/formations/{id}", formationHandler.UpdateFormation)
		r.Delete("/admin/formations/{id}", formationHandler.DeleteFormation)

		r.Get("/admin/content", contentHandler.ListSections)
		r.Put("/admin/content/{section}", contentHandler.UpsertSection)
		r.Get("/admin/analytics/summary", analyticsHandler.Summary)
	})
}
