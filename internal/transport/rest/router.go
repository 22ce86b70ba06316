package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/heartmarshall/catering-backend/internal/transport/middleware"
)

// Handlers groups every endpoint the router mounts. Invoices and Webhook are
// optional: a nil handler leaves its routes unmounted.
type Handlers struct {
	Health   *HealthHandler
	Routes   *RouteHandler
	Catalog  *CatalogHandler
	Public   *PublicHandler
	Inbox    *InboxHandler
	Tasks    *TaskHandler
	Activity *ActivityHandler
	Invoices *InvoiceHandler
	Webhook  *WebhookHandler
	Session  *SessionHandler

	InboxStream    http.Handler
	PresenceStream http.Handler
}

// Middlewares are the request pipeline stages, built by the caller. Auth,
// User and Admin are required; PublicLimit and Loaders may be nil.
type Middlewares struct {
	// Global wraps every route, outermost first.
	Global []middleware.Middleware
	// Auth resolves the bearer token; anonymous requests pass.
	Auth middleware.Middleware
	// User and Admin gate customer and back-office routes.
	User  middleware.Middleware
	Admin middleware.Middleware
	// PublicLimit rate-limits anonymous writes.
	PublicLimit middleware.Middleware
	// Loaders installs per-request DataLoaders.
	Loaders middleware.Middleware
}

// NewRouter wires handlers to paths.
func NewRouter(h Handlers, mw Middlewares) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Chain(mw.Global...))

	r.Get("/live", h.Health.Live)
	r.Get("/ready", h.Health.Ready)
	r.Get("/health", h.Health.Health)

	if h.Webhook != nil {
		r.Post("/api/webhooks/email", h.Webhook.Email)
	}

	r.Group(func(r chi.Router) {
		r.Use(mw.Auth)

		r.Route("/api", func(r chi.Router) {
			r.Get("/routes", h.Routes.List)
			r.Get("/routes/resolve", h.Routes.Resolve)
			r.Get("/routes/alternate", h.Routes.Alternate)

			r.Get("/packages", h.Catalog.Packages)
			r.Get("/locations", h.Catalog.Locations)
			r.Get("/menu", h.Catalog.Menu)
			r.Post("/pricing/quote", h.Catalog.Quote)

			r.With(middleware.Optional(mw.PublicLimit)).Post("/inquiries", h.Public.SubmitInquiry)

			r.Group(func(r chi.Router) {
				r.Use(mw.User)
				r.Post("/checkout/orders", h.Public.PlaceOrder)
				r.Get("/account/orders", h.Public.MyOrders)
				r.Get("/auth/me", h.Session.Me)
				r.Post("/auth/logout", h.Session.Logout)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(mw.Admin)
				r.Use(middleware.Optional(mw.Loaders))

				r.Get("/inbox", h.Inbox.List)
				r.Get("/inbox/counts", h.Inbox.Counts)
				r.Get("/inbox/{type}/{id}", h.Inbox.Get)
				r.Put("/inbox/{type}/{id}/status", h.Inbox.UpdateStatus)
				r.Put("/inbox/{type}/{id}/assignee", h.Inbox.Assign)
				r.Put("/inbox/{type}/{id}/notes", h.Inbox.UpdateNotes)
				r.Put("/inquiries/{id}/priority", h.Inbox.SetPriority)
				r.Post("/bookings/{id}/confirm-menu", h.Inbox.ConfirmMenu)

				r.Get("/inquiries/{id}/tasks", h.Tasks.ListByInquiry)
				r.Get("/tasks", h.Tasks.ListOpen)
				r.Post("/tasks", h.Tasks.Create)
				r.Post("/tasks/{id}/complete", h.Tasks.Complete)
				r.Post("/tasks/{id}/cancel", h.Tasks.Cancel)

				r.Get("/activity/{type}/{id}", h.Activity.List)

				if h.Invoices != nil {
					r.Post("/orders/{id}/invoice", h.Invoices.CreateForOrder)
					r.Post("/invoices/sync", h.Invoices.Sync)
				}
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(mw.Admin)
			r.Handle("/ws/inbox", h.InboxStream)
			r.Handle("/ws/presence", h.PresenceStream)
		})
	})

	return r
}
