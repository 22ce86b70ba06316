package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/heartmarshall/catering-backend/internal/domain"
)

// UniqueSuffix returns a short unique string for generating non-conflicting test data.
func UniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedInquiry inserts an event inquiry named contactName with the given creation time.
func SeedInquiry(t *testing.T, pool *pgxpool.Pool, contactName string, createdAt time.Time) domain.EventInquiry {
	t.Helper()

	inq := domain.EventInquiry{
		ID:          uuid.New(),
		ContactName: contactName,
		Email:       "inq-" + UniqueSuffix() + "@example.com",
		Language:    domain.LanguageDE,
		Status:      domain.InquiryStatusNew,
		Priority:    domain.PriorityNormal,
		CreatedAt:   createdAt.UTC().Truncate(time.Microsecond),
		UpdatedAt:   createdAt.UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO event_inquiries (id, contact_name, email, language, status, priority, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		inq.ID, inq.ContactName, inq.Email, string(inq.Language), string(inq.Status), string(inq.Priority),
		inq.CreatedAt, inq.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedInquiry: %v", err)
	}
	return inq
}

// SeedOrder inserts a pending catering order for customerName.
func SeedOrder(t *testing.T, pool *pgxpool.Pool, customerName string, createdAt time.Time) domain.CateringOrder {
	t.Helper()

	o := domain.CateringOrder{
		ID:            uuid.New(),
		OrderNumber:   "CO-TEST-" + UniqueSuffix(),
		CustomerName:  customerName,
		CustomerEmail: "order-" + UniqueSuffix() + "@example.com",
		TotalAmount:   decimal.RequireFromString("120.50"),
		Status:        domain.OrderStatusPending,
		PaymentStatus: domain.PaymentStatusUnbilled,
		CreatedAt:     createdAt.UTC().Truncate(time.Microsecond),
		UpdatedAt:     createdAt.UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO catering_orders (id, order_number, customer_name, customer_email, total_amount, status, payment_status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5::numeric, $6, $7, $8, $9)`,
		o.ID, o.OrderNumber, o.CustomerName, o.CustomerEmail, o.TotalAmount.StringFixed(2), string(o.Status), string(o.PaymentStatus),
		o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedOrder: %v", err)
	}
	return o
}

// SeedBooking inserts a booking whose menu is still pending.
func SeedBooking(t *testing.T, pool *pgxpool.Pool, customerName string, createdAt, eventDate time.Time) domain.EventBooking {
	t.Helper()

	b := domain.EventBooking{
		ID:            uuid.New(),
		BookingNumber: "EB-TEST-" + UniqueSuffix(),
		CustomerName:  customerName,
		GuestCount:    80,
		EventDate:     eventDate.UTC().Truncate(time.Microsecond),
		Status:        domain.BookingStatusMenuPending,
		CreatedAt:     createdAt.UTC().Truncate(time.Microsecond),
		UpdatedAt:     createdAt.UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO event_bookings (id, booking_number, customer_name, guest_count, event_date, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		b.ID, b.BookingNumber, b.CustomerName, b.GuestCount, b.EventDate, string(b.Status), b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedBooking: %v", err)
	}
	return b
}

// SeedPackage inserts an active event package.
func SeedPackage(t *testing.T, pool *pgxpool.Pool, basePrice string, perPerson bool) domain.EventPackage {
	t.Helper()

	suffix := UniqueSuffix()
	p := domain.EventPackage{
		ID:             uuid.New(),
		Slug:           "pkg-" + suffix,
		NameDE:         "Paket " + suffix,
		NameEN:         "Package " + suffix,
		BasePrice:      decimal.RequireFromString(basePrice),
		PricePerPerson: perPerson,
		MinGuests:      1,
		MaxGuests:      300,
		Active:         true,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO packages (id, slug, name_de, name_en, base_price, price_per_person, min_guests, max_guests)
		 VALUES ($1, $2, $3, $4, $5::numeric, $6, $7, $8)`,
		p.ID, p.Slug, p.NameDE, p.NameEN, p.BasePrice.StringFixed(2), p.PricePerPerson, p.MinGuests, p.MaxGuests,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedPackage: %v", err)
	}
	return p
}

// SeedMenuItem inserts an active menu item with a random slug.
func SeedMenuItem(t *testing.T, pool *pgxpool.Pool, unitPrice string) domain.MenuItem {
	t.Helper()

	suffix := UniqueSuffix()
	m := domain.MenuItem{
		ID:        uuid.New(),
		Slug:      "menu-" + suffix,
		NameDE:    "Gericht " + suffix,
		NameEN:    "Dish " + suffix,
		UnitPrice: decimal.RequireFromString(unitPrice),
		Active:    true,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO menu_items (id, slug, name_de, name_en, unit_price) VALUES ($1, $2, $3, $4, $5::numeric)`,
		m.ID, m.Slug, m.NameDE, m.NameEN, m.UnitPrice.StringFixed(2),
	)
	if err != nil {
		t.Fatalf("testhelper: SeedMenuItem: %v", err)
	}
	return m
}

// SeedAdmin grants the admin role to a fresh user id and returns it.
func SeedAdmin(t *testing.T, pool *pgxpool.Pool) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO user_roles (user_id, role) VALUES ($1, 'admin')`, id)
	if err != nil {
		t.Fatalf("testhelper: SeedAdmin: %v", err)
	}
	return id
}
