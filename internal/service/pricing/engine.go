// Package pricing computes event package prices for flat, per-person and tiered packages.
package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/heartmarshall/catering-backend/internal/domain"
)

// Mode is the pricing mode that applies to a package.
type Mode string

const (
	ModePerPerson Mode = "per_person"
	ModeTiered    Mode = "tiered"
	ModeFlat      Mode = "flat"
)

// TierConfig identifies the tiered package: a flat BasePrice covering BaseGuests,
// plus BasePrice/BaseGuests for every guest beyond that.
type TierConfig struct {
	PackageID  uuid.UUID
	BasePrice  float64
	BaseGuests int
	// MatchByBasePrice treats any non per-person package priced at exactly
	// BasePrice as tiered, even when its id differs from PackageID.
	MatchByBasePrice bool
}

// Engine is a pure price calculator. It does not clamp guest counts to a
// package's min/max; that is a validation concern of the caller.
type Engine struct {
	tier TierConfig
}

// NewEngine creates an Engine for the given tier definition.
func NewEngine(tier TierConfig) *Engine {
	return &Engine{tier: tier}
}

// Tier returns the tier definition.
func (e *Engine) Tier() TierConfig { return e.tier }

// Mode reports which pricing mode applies. Per-person wins over tier matching.
func (e *Engine) Mode(packageID uuid.UUID, basePrice float64, perPerson bool) Mode {
	switch {
	case perPerson:
		return ModePerPerson
	case e.isTiered(packageID, basePrice):
		return ModeTiered
	default:
		return ModeFlat
	}
}

func (e *Engine) isTiered(packageID uuid.UUID, basePrice float64) bool {
	if e.tier.PackageID != uuid.Nil && packageID == e.tier.PackageID {
		return true
	}
	return e.tier.MatchByBasePrice && basePrice == e.tier.BasePrice
}

// Price returns the package total at full floating precision.
func (e *Engine) Price(packageID uuid.UUID, basePrice float64, guests int, perPerson bool) float64 {
	switch e.Mode(packageID, basePrice, perPerson) {
	case ModePerPerson:
		return basePrice * float64(guests)
	case ModeTiered:
		return e.tier.BasePrice + float64(e.extraGuests(guests))*e.extraGuestRate()
	default:
		return basePrice
	}
}

// UnitPrice returns Price divided by guests, so that unit * guests == total.
func (e *Engine) UnitPrice(packageID uuid.UUID, basePrice float64, guests int, perPerson bool) (float64, error) {
	if guests < 1 {
		return 0, domain.ErrInvalidGuestCount
	}
	return e.Price(packageID, basePrice, guests, perPerson) / float64(guests), nil
}

func (e *Engine) extraGuests(guests int) int {
	return max(0, guests-e.tier.BaseGuests)
}

// extraGuestRate is derived from the tier so it always agrees with the base price.
func (e *Engine) extraGuestRate() float64 {
	return e.tier.BasePrice / float64(e.tier.BaseGuests)
}

// Quote is a price breakdown for one package and guest count.
type Quote struct {
	Mode        Mode
	Guests      int
	Total       float64
	UnitPrice   float64
	ExtraGuests int
	ExtraCost   float64
	// Display is Total rounded to cents.
	Display decimal.Decimal
}

// Quote prices pkg for guests and returns the breakdown.
func (e *Engine) Quote(pkg *domain.EventPackage, guests int) (Quote, error) {
	base := pkg.BasePrice.InexactFloat64()

	unit, err := e.UnitPrice(pkg.ID, base, guests, pkg.PricePerPerson)
	if err != nil {
		return Quote{}, err
	}

	q := Quote{
		Mode:      e.Mode(pkg.ID, base, pkg.PricePerPerson),
		Guests:    guests,
		Total:     e.Price(pkg.ID, base, guests, pkg.PricePerPerson),
		UnitPrice: unit,
	}
	if q.Mode == ModeTiered {
		q.ExtraGuests = e.extraGuests(guests)
		q.ExtraCost = float64(q.ExtraGuests) * e.extraGuestRate()
	}
	q.Display = Round(q.Total)

	return q, nil
}

// Round converts an amount to cents, half away from zero. Only apply it at display
// or persistence time; intermediate sums must stay unrounded.
func Round(amount float64) decimal.Decimal {
	return decimal.NewFromFloat(amount).Round(2)
}
