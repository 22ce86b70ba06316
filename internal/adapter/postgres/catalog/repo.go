// Package catalog implements read access to event packages, menu items and locations.
package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	postgres "github.com/heartmarshall/catering-backend/internal/adapter/postgres"
	"github.com/heartmarshall/catering-backend/internal/domain"
)

const (
	packageColumns  = "id, slug, name_de, name_en, base_price::text, price_per_person, min_guests, max_guests, active, created_at"
	locationColumns = "id, slug, name_de, name_en, city, max_capacity, active"
	menuColumns     = "id, slug, name_de, name_en, unit_price::text, active, created_at"
)

// Repo provides catalog reads backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new catalog repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// GetPackage returns a package by id, active or not.
func (r *Repo) GetPackage(ctx context.Context, id uuid.UUID) (*domain.EventPackage, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	p, err := scanPackage(q.QueryRow(ctx, `SELECT `+packageColumns+` FROM packages WHERE id = $1`, id))
	if err != nil {
		return nil, postgres.MapError(err, "package", id)
	}
	return p, nil
}

// GetPackagesByIDs returns the packages with the given ids keyed by id.
func (r *Repo) GetPackagesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.EventPackage, error) {
	out := make(map[uuid.UUID]domain.EventPackage, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := q.Query(ctx, `SELECT `+packageColumns+` FROM packages WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("get packages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan package: %w", err)
		}
		out[p.ID] = *p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get packages: %w", err)
	}
	return out, nil
}

// ListActivePackages returns active packages ordered by price.
func (r *Repo) ListActivePackages(ctx context.Context) ([]domain.EventPackage, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, `SELECT `+packageColumns+` FROM packages WHERE active ORDER BY base_price, slug`)
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	defer rows.Close()

	var out []domain.EventPackage
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan package: %w", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	return out, nil
}

// ListActiveLocations returns active locations ordered by slug.
func (r *Repo) ListActiveLocations(ctx context.Context) ([]domain.Location, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, `SELECT `+locationColumns+` FROM locations WHERE active ORDER BY slug`)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	var out []domain.Location
	for rows.Next() {
		var l domain.Location
		if err := rows.Scan(&l.ID, &l.Slug, &l.NameDE, &l.NameEN, &l.City, &l.MaxCapacity, &l.Active); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	return out, nil
}

// GetMenuItemsByIDs returns the menu items with the given ids keyed by id, active or not.
func (r *Repo) GetMenuItemsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.MenuItem, error) {
	out := make(map[uuid.UUID]domain.MenuItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := q.Query(ctx, `SELECT `+menuColumns+` FROM menu_items WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("get menu items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		out[m.ID] = *m
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get menu items: %w", err)
	}
	return out, nil
}

// ListActiveMenuItems returns active menu items ordered by slug.
func (r *Repo) ListActiveMenuItems(ctx context.Context) ([]domain.MenuItem, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, `SELECT `+menuColumns+` FROM menu_items WHERE active ORDER BY slug`)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	defer rows.Close()

	var out []domain.MenuItem
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		out = append(out, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	return out, nil
}

func scanMenuItem(row postgres.Scanner) (*domain.MenuItem, error) {
	var (
		m     domain.MenuItem
		price string
	)
	if err := row.Scan(&m.ID, &m.Slug, &m.NameDE, &m.NameEN, &price, &m.Active, &m.CreatedAt); err != nil {
		return nil, err
	}

	d, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("menu item %s unit price %q: %w", m.ID, price, err)
	}
	m.UnitPrice = d
	return &m, nil
}

func scanPackage(row postgres.Scanner) (*domain.EventPackage, error) {
	var (
		p     domain.EventPackage
		price string
	)
	if err := row.Scan(&p.ID, &p.Slug, &p.NameDE, &p.NameEN, &price, &p.PricePerPerson,
		&p.MinGuests, &p.MaxGuests, &p.Active, &p.CreatedAt); err != nil {
		return nil, err
	}

	d, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("package %s base price %q: %w", p.ID, price, err)
	}
	p.BasePrice = d
	return &p, nil
}
