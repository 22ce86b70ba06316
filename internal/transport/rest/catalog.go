package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/heartmarshall/catering-backend/internal/domain"
	"github.com/heartmarshall/catering-backend/internal/service/catalog"
	"github.com/heartmarshall/catering-backend/internal/service/pricing"
)

type catalogService interface {
	ListPackages(ctx context.Context) ([]domain.EventPackage, error)
	ListLocations(ctx context.Context) ([]domain.Location, error)
	ListMenuItems(ctx context.Context) ([]domain.MenuItem, error)
	Quote(ctx context.Context, input catalog.QuoteInput) (*domain.EventPackage, pricing.Quote, error)
}

// CatalogHandler serves the public package and location catalog.
type CatalogHandler struct {
	svc catalogService
	log *slog.Logger
}

// NewCatalogHandler creates a CatalogHandler.
func NewCatalogHandler(svc catalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{svc: svc, log: logger.With("handler", "catalog")}
}

// Packages lists active event packages with names in ?lang=.
// GET /api/packages
func (h *CatalogHandler) Packages(w http.ResponseWriter, r *http.Request) {
	lang, err := queryLanguage(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	list, err := h.svc.ListPackages(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	out := make([]packageResponse, len(list))
	for i := range list {
		out[i] = toPackageResponse(&list[i], lang)
	}
	writeJSON(w, http.StatusOK, out)
}

// Locations lists active venues.
// GET /api/locations
func (h *CatalogHandler) Locations(w http.ResponseWriter, r *http.Request) {
	lang, err := queryLanguage(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	list, err := h.svc.ListLocations(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	out := make([]locationResponse, len(list))
	for i := range list {
		out[i] = toLocationResponse(&list[i], lang)
	}
	writeJSON(w, http.StatusOK, out)
}

// Menu lists active menu items with their server-side unit prices.
// GET /api/menu
func (h *CatalogHandler) Menu(w http.ResponseWriter, r *http.Request) {
	lang, err := queryLanguage(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	list, err := h.svc.ListMenuItems(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	out := make([]menuItemResponse, len(list))
	for i := range list {
		out[i] = toMenuItemResponse(&list[i], lang)
	}
	writeJSON(w, http.StatusOK, out)
}

type quoteRequest struct {
	PackageID  uuid.UUID `json:"packageId"`
	GuestCount int       `json:"guestCount"`
}

// Quote prices a package for a guest count.
// POST /api/pricing/quote
func (h *CatalogHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	pkg, q, err := h.svc.Quote(r.Context(), catalog.QuoteInput{PackageID: req.PackageID, GuestCount: req.GuestCount})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toQuoteResponse(pkg, q))
}
