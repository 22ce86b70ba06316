package rest

import (
	"log/slog"
	"net/http"

	"github.com/heartmarshall/catering-backend/internal/domain"
	"github.com/heartmarshall/catering-backend/internal/routing"
)

// RouteHandler exposes the localized route table to the frontend.
type RouteHandler struct {
	resolver *routing.Resolver
	log      *slog.Logger
}

// NewRouteHandler creates a RouteHandler.
func NewRouteHandler(resolver *routing.Resolver, logger *slog.Logger) *RouteHandler {
	return &RouteHandler{resolver: resolver, log: logger.With("handler", "routes")}
}

// List returns every route with both language paths.
// GET /api/routes
func (h *RouteHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.resolver.Table().Routes())
}

type resolvedPath struct {
	Path     string `json:"path"`
	Language string `json:"language"`
}

// Resolve maps a route key (or legacy path) to its path in lang.
// GET /api/routes/resolve?target=contact&lang=en
func (h *RouteHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("target")
	if target == "" {
		handleError(h.log, w, r, domain.NewValidationError("target", "required"))
		return
	}
	lang, err := queryLanguage(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resolvedPath{
		Path:     h.resolver.ResolvePath(target, lang),
		Language: lang.String(),
	})
}

type alternatePath struct {
	Path     string `json:"path,omitempty"`
	Language string `json:"language"`
	Matched  bool   `json:"matched"`
}

// Alternate returns the path of the same page in the other language.
// matched=false means no route has that path; the frontend omits the link.
// GET /api/routes/alternate?path=/kontakt&lang=de
func (h *RouteHandler) Alternate(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		handleError(h.log, w, r, domain.NewValidationError("path", "required"))
		return
	}

	current := routing.LanguageFromPath(path)
	if r.URL.Query().Get("lang") != "" {
		lang, err := queryLanguage(r)
		if err != nil {
			handleError(h.log, w, r, err)
			return
		}
		current = lang
	}

	alt, ok := h.resolver.ResolveAlternate(path, current)
	writeJSON(w, http.StatusOK, alternatePath{
		Path:     alt,
		Language: current.Other().String(),
		Matched:  ok,
	})
}

// LoginPath returns the localized login page for the caller's site language,
// taken from ?lang= or else from the Referer path.
func LoginPath(resolver *routing.Resolver) func(*http.Request) string {
	return func(r *http.Request) string {
		lang := domain.Language(r.URL.Query().Get("lang"))
		if !lang.IsValid() {
			lang = domain.LanguageDE
			if ref := r.Referer(); ref != "" {
				if u, err := r.URL.Parse(ref); err == nil {
					lang = routing.LanguageFromPath(u.Path)
				}
			}
		}
		return resolver.ResolvePath(string(routing.KeyLogin), lang)
	}
}
