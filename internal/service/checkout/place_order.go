package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/heartmarshall/catering-backend/internal/domain"
	"github.com/heartmarshall/catering-backend/internal/service/catalog"
	"github.com/heartmarshall/catering-backend/internal/service/pricing"
	"github.com/heartmarshall/catering-backend/pkg/ctxutil"
)

// PlaceOrder prices the cart and stores a pending order for the caller.
// Package lines are priced by the engine; the total is the sum of the
// cent-rounded line totals.
func (s *Service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*domain.CateringOrder, error) {
	customerID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	items, err := s.priceLines(ctx, input)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal)
	}

	now := s.now().UTC()
	order := &domain.CateringOrder{
		ID:            uuid.New(),
		CustomerID:    &customerID,
		CustomerName:  strings.TrimSpace(input.CustomerName),
		CustomerEmail: strings.TrimSpace(input.CustomerEmail),
		Items:         items,
		TotalAmount:   total,
		DeliveryDate:  input.DeliveryDate,
		Status:        domain.OrderStatusPending,
		PaymentStatus: domain.PaymentStatusUnbilled,
		CreatedAt:     now,
	}

	var created *domain.CateringOrder
	for attempt := 1; ; attempt++ {
		order.OrderNumber = OrderNumber(now, s.suffix())
		created, err = s.orders.Create(ctx, order)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrAlreadyExists) || attempt == numberAttempts {
			return nil, fmt.Errorf("create order: %w", err)
		}
		s.log.DebugContext(ctx, "order number collision", "order_number", order.OrderNumber)
	}

	s.activity.Append(ctx, domain.ActivityLogEntry{
		EntityType: domain.EntityTypeOrder,
		EntityID:   created.ID,
		Action:     domain.ActionCreated,
		NewValue: map[string]any{
			"order_number": created.OrderNumber,
			"total":        created.TotalAmount.StringFixed(2),
		},
	})

	return created, nil
}

func (s *Service) priceLines(ctx context.Context, input PlaceOrderInput) ([]domain.OrderItem, error) {
	var pkgIDs, menuIDs []uuid.UUID
	for _, l := range input.Lines {
		if l.IsPackage() {
			pkgIDs = append(pkgIDs, *l.PackageID)
		} else {
			menuIDs = append(menuIDs, *l.MenuItemID)
		}
	}

	var pkgs map[uuid.UUID]domain.EventPackage
	if len(pkgIDs) > 0 {
		var err error
		pkgs, err = s.packages.GetPackagesByIDs(ctx, pkgIDs)
		if err != nil {
			return nil, fmt.Errorf("load packages: %w", err)
		}
	}
	var menu map[uuid.UUID]domain.MenuItem
	if len(menuIDs) > 0 {
		var err error
		menu, err = s.menu.GetMenuItemsByIDs(ctx, menuIDs)
		if err != nil {
			return nil, fmt.Errorf("load menu items: %w", err)
		}
	}

	lang := input.Language
	if lang == "" {
		lang = domain.LanguageDE
	}

	items := make([]domain.OrderItem, 0, len(input.Lines))
	for n, l := range input.Lines {
		if !l.IsPackage() {
			m, ok := menu[*l.MenuItemID]
			if !ok || !m.Active {
				return nil, domain.NewValidationError(fmt.Sprintf("lines[%d].menuItemId", n), "unknown menu item")
			}
			items = append(items, domain.OrderItem{
				MenuItemID: &m.ID,
				Name:       m.Name(lang),
				UnitPrice:  m.UnitPrice,
				Quantity:   l.Quantity,
				LineTotal:  m.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))).Round(2),
			})
			continue
		}

		pkg, ok := pkgs[*l.PackageID]
		if !ok || !pkg.Active {
			return nil, domain.NewValidationError(fmt.Sprintf("lines[%d].packageId", n), "unknown package")
		}
		if err := catalog.CheckGuests(&pkg, l.GuestCount); err != nil {
			return nil, err
		}

		base := pkg.BasePrice.InexactFloat64()
		unit, err := s.pricer.UnitPrice(pkg.ID, base, l.GuestCount, pkg.PricePerPerson)
		if err != nil {
			return nil, fmt.Errorf("price package %s: %w", pkg.Slug, err)
		}
		id := pkg.ID
		items = append(items, domain.OrderItem{
			PackageID: &id,
			Name:      pkg.Name(lang),
			UnitPrice: decimal.NewFromFloat(unit),
			Quantity:  l.GuestCount,
			LineTotal: pricing.Round(s.pricer.Price(pkg.ID, base, l.GuestCount, pkg.PricePerPerson)),
		})
	}
	return items, nil
}

// ListOrders returns the caller's own orders, newest first.
func (s *Service) ListOrders(ctx context.Context) ([]domain.CateringOrder, error) {
	customerID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	orders, err := s.orders.ListByCustomer(ctx, customerID, ListOrdersLimit)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}
