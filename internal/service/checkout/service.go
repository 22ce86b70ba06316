// Package checkout turns a customer's cart into a catering order.
package checkout

import (
	"context"
	"crypto/rand"
	"log/slog"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/catering-backend/internal/domain"
)

type packageReader interface {
	GetPackagesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.EventPackage, error)
}

type menuReader interface {
	GetMenuItemsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.MenuItem, error)
}

type orderRepo interface {
	Create(ctx context.Context, o *domain.CateringOrder) (*domain.CateringOrder, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, limit int) ([]domain.CateringOrder, error)
}

type pricer interface {
	Price(packageID uuid.UUID, basePrice float64, guests int, perPerson bool) float64
	UnitPrice(packageID uuid.UUID, basePrice float64, guests int, perPerson bool) (float64, error)
}

type activityLogger interface {
	Append(ctx context.Context, e domain.ActivityLogEntry)
}

const (
	MaxLines         = 50
	MaxQuantity      = 10000
	ListOrdersLimit  = 100
	numberAttempts   = 3
	numberSuffixSize = 6
)

// Service places and lists shop orders.
type Service struct {
	packages packageReader
	menu     menuReader
	orders   orderRepo
	pricer   pricer
	activity activityLogger
	log      *slog.Logger
	now      func() time.Time
	suffix   func() string
}

// NewService creates a new checkout service.
func NewService(log *slog.Logger, packages packageReader, menu menuReader, orders orderRepo, pricer pricer, activity activityLogger) *Service {
	return &Service{
		packages: packages,
		menu:     menu,
		orders:   orders,
		pricer:   pricer,
		activity: activity,
		log:      log.With("service", "checkout"),
		now:      time.Now,
		suffix:   randomSuffix,
	}
}

// OrderNumber formats CO-YYYYMMDD-XXXXXX.
func OrderNumber(day time.Time, suffix string) string {
	return "CO-" + day.UTC().Format("20060102") + "-" + suffix
}

const suffixAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func randomSuffix() string {
	b := make([]byte, numberSuffixSize)
	limit := big.NewInt(int64(len(suffixAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			panic(err)
		}
		b[i] = suffixAlphabet[n.Int64()]
	}
	return string(b)
}
