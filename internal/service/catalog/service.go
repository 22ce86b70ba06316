// Package catalog serves event packages, menu items and locations and quotes package prices.
package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/catering-backend/internal/domain"
	"github.com/heartmarshall/catering-backend/internal/service/pricing"
)

type catalogRepo interface {
	GetPackage(ctx context.Context, id uuid.UUID) (*domain.EventPackage, error)
	ListActivePackages(ctx context.Context) ([]domain.EventPackage, error)
	ListActiveLocations(ctx context.Context) ([]domain.Location, error)
	ListActiveMenuItems(ctx context.Context) ([]domain.MenuItem, error)
}

type pricer interface {
	Quote(pkg *domain.EventPackage, guests int) (pricing.Quote, error)
}

// Service provides the public catalog.
type Service struct {
	repo   catalogRepo
	pricer pricer
	log    *slog.Logger
}

// NewService creates a new catalog service.
func NewService(log *slog.Logger, repo catalogRepo, pricer pricer) *Service {
	return &Service{
		repo:   repo,
		pricer: pricer,
		log:    log.With("service", "catalog"),
	}
}

// ListPackages returns the active packages, cheapest first.
func (s *Service) ListPackages(ctx context.Context) ([]domain.EventPackage, error) {
	pkgs, err := s.repo.ListActivePackages(ctx)
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	return pkgs, nil
}

// ListLocations returns the active venues.
func (s *Service) ListLocations(ctx context.Context) ([]domain.Location, error) {
	locs, err := s.repo.ListActiveLocations(ctx)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	return locs, nil
}

// ListMenuItems returns the active menu items that can be added to an order.
func (s *Service) ListMenuItems(ctx context.Context) ([]domain.MenuItem, error) {
	items, err := s.repo.ListActiveMenuItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	return items, nil
}

// QuoteInput asks for the price of one package for a guest count.
type QuoteInput struct {
	PackageID  uuid.UUID
	GuestCount int
}

// Quote prices an active package. The guest count must lie within the package bounds.
func (s *Service) Quote(ctx context.Context, input QuoteInput) (*domain.EventPackage, pricing.Quote, error) {
	if input.PackageID == uuid.Nil {
		return nil, pricing.Quote{}, domain.NewValidationError("packageId", "required")
	}
	if input.GuestCount < 1 {
		return nil, pricing.Quote{}, domain.NewValidationError("guestCount", "must be at least 1")
	}

	pkg, err := s.repo.GetPackage(ctx, input.PackageID)
	if err != nil {
		return nil, pricing.Quote{}, fmt.Errorf("get package: %w", err)
	}
	if !pkg.Active {
		return nil, pricing.Quote{}, fmt.Errorf("package %s: %w", pkg.ID, domain.ErrNotFound)
	}
	if err := CheckGuests(pkg, input.GuestCount); err != nil {
		return nil, pricing.Quote{}, err
	}

	q, err := s.pricer.Quote(pkg, input.GuestCount)
	if err != nil {
		return nil, pricing.Quote{}, fmt.Errorf("quote package: %w", err)
	}
	return pkg, q, nil
}

// CheckGuests validates guests against the package's min and max. A zero max is unbounded.
func CheckGuests(pkg *domain.EventPackage, guests int) error {
	if pkg.MinGuests > 0 && guests < pkg.MinGuests {
		return domain.NewValidationError("guestCount", fmt.Sprintf("at least %d guests", pkg.MinGuests))
	}
	if pkg.MaxGuests > 0 && guests > pkg.MaxGuests {
		return domain.NewValidationError("guestCount", fmt.Sprintf("at most %d guests", pkg.MaxGuests))
	}
	return nil
}
