package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventPackage is a bookable event offer authored by staff.
type EventPackage struct {
	ID             uuid.UUID
	Slug           string
	NameDE         string
	NameEN         string
	BasePrice      decimal.Decimal
	PricePerPerson bool
	MinGuests      int
	MaxGuests      int
	Active         bool
	CreatedAt      time.Time
}

// Name returns the package name in the requested language.
func (p *EventPackage) Name(lang Language) string {
	if lang == LanguageEN && p.NameEN != "" {
		return p.NameEN
	}
	return p.NameDE
}

// Location is an event venue.
type Location struct {
	ID          uuid.UUID
	Slug        string
	NameDE      string
	NameEN      string
	City        string
	MaxCapacity int
	Active      bool
}

// Name returns the location name in the requested language.
func (l *Location) Name(lang Language) string {
	if lang == LanguageEN && l.NameEN != "" {
		return l.NameEN
	}
	return l.NameDE
}

// MenuItem is an extra that can be ordered alongside a package, priced per unit.
type MenuItem struct {
	ID        uuid.UUID
	Slug      string
	NameDE    string
	NameEN    string
	UnitPrice decimal.Decimal
	Active    bool
	CreatedAt time.Time
}

// Name returns the menu item name in the requested language.
func (m *MenuItem) Name(lang Language) string {
	if lang == LanguageEN && m.NameEN != "" {
		return m.NameEN
	}
	return m.NameDE
}
