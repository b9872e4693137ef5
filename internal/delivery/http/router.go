package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"slotpoll/internal/delivery/http/controllers"
	"slotpoll/internal/delivery/http/middleware"
	"slotpoll/internal/domain"
	"slotpoll/internal/metrics"
)

// NewRouter initializes the HTTP router with all application routes.
// Event management requires a Bearer token; responding to an event only
// requires knowing its link.
func NewRouter(
	authController *controllers.AuthController,
	eventController *controllers.EventController,
	availabilityController *controllers.AvailabilityController,
	verifier domain.TokenVerifier,
	limiter *middleware.RateLimiter,
) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier)

	// Auth
	mux.HandleFunc("POST /auth/signup", limiter.Limit(authController.SignUp))
	mux.HandleFunc("POST /auth/login", limiter.Limit(authController.Login))

	// Events
	mux.HandleFunc("POST /events", auth(eventController.CreateEvent))
	mux.HandleFunc("GET /events/me", auth(eventController.ListMyEvents))
	mux.HandleFunc("GET /events/{eventID}", eventController.GetEvent)
	mux.HandleFunc("DELETE /events/{eventID}", auth(eventController.DeleteEvent))
	mux.HandleFunc("POST /events/{eventID}/invitations", auth(eventController.SendInvitations))

	// Availability
	mux.HandleFunc("POST /events/{eventID}/responses", limiter.Limit(availabilityController.SubmitResponses))
	mux.HandleFunc("POST /events/{eventID}/responses/import", limiter.Limit(availabilityController.ImportResponses))
	mux.HandleFunc("GET /events/{eventID}/participants", availabilityController.ListParticipants)
	mux.HandleFunc("GET /events/{eventID}/aggregation", availabilityController.GetAggregation)
	mux.HandleFunc("GET /events/{eventID}/recommendations", availabilityController.GetRecommendations)

	// Operational endpoints
	mux.Handle("GET /metrics", metrics.Handler())
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
