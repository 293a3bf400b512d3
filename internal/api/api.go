// Package api exposes the Gatherly services over an HTTP JSON API.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nvasko/gatherly/internal/auth"
	"github.com/nvasko/gatherly/internal/middleware"
	"github.com/nvasko/gatherly/internal/service"
)

// Handler bundles the services behind the HTTP routes.
type Handler struct {
	members       *service.MembershipService
	expenses      *service.ExpenseService
	queries       *service.QueryService
	authenticator auth.Authenticator
	jwt           *auth.JWTManager
}

// NewHandler creates the HTTP handler with its collaborators injected.
func NewHandler(
	members *service.MembershipService,
	expenses *service.ExpenseService,
	queries *service.QueryService,
	authenticator auth.Authenticator,
	jwt *auth.JWTManager,
) *Handler {
	return &Handler{
		members:       members,
		expenses:      expenses,
		queries:       queries,
		authenticator: authenticator,
		jwt:           jwt,
	}
}

// Routes assembles the router: public auth endpoints, the authenticated
// /api tree, and the operational endpoints.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Metrics(routePattern))
	r.Use(middleware.Logging)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Public routes
	r.Post("/auth/register", h.register)
	r.Post("/auth/login", h.login)
	r.Post("/auth/reset", h.requestPasswordReset)
	r.Post("/auth/reset/confirm", h.confirmPasswordReset)

	// Protected routes - require a valid bearer token
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.jwt))

		r.Post("/auth/logout", h.logout)
		r.Get("/api/me", h.currentUser)

		r.Get("/api/users", h.listUsers)
		r.Post("/api/users/resolve", h.resolveDisplayNames)

		r.Get("/api/events", h.listEvents)
		r.Post("/api/events", h.createEvent)
		r.Get("/api/events/{eventID}", h.getEvent)
		r.Patch("/api/events/{eventID}", h.updateEvent)
		r.Delete("/api/events/{eventID}", h.deleteEvent)

		r.Get("/api/invitations", h.listInvitations)
		r.Get("/api/invitations/watch", h.watchInvitations)

		r.Post("/api/events/{eventID}/invites", h.invite)
		r.Post("/api/events/{eventID}/invites/accept", h.acceptInvitation)
		r.Post("/api/events/{eventID}/invites/decline", h.declineInvitation)
		r.Delete("/api/events/{eventID}/members/{userID}", h.removeMember)

		r.Get("/api/events/{eventID}/expense", h.getExpense)
		r.Put("/api/events/{eventID}/expense", h.saveExpense)
	})

	return r
}

// routePattern returns the matched chi pattern for metrics labels,
// falling back to the raw path for unrouted requests.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}
