// Package order implements the catering order repository using PostgreSQL.
package order

import (
	"context"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	postgres "github.com/heartmarshall/catering-backend/internal/adapter/postgres"
	"github.com/heartmarshall/catering-backend/internal/domain"
)

const (
	table  = "catering_orders"
	entity = "catering_order"
	// total_amount is read as text so it scans into decimal without float conversion.
	columns = "id, order_number, customer_id, customer_name, customer_email, items, total_amount::text, " +
		"delivery_date, status, payment_status, invoice_voucher_id, assigned_to, notes, created_at, updated_at"
)

var sourceColumns = postgres.SourceColumns{
	Status:     "status",
	Assignee:   "assigned_to",
	CreatedAt:  "created_at",
	SearchCols: []string{"order_number", "customer_name", "customer_email"},
}

// Repo provides catering order persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new order repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts an order and returns the stored row.
func (r *Repo) Create(ctx context.Context, o *domain.CateringOrder) (*domain.CateringOrder, error) {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return nil, fmt.Errorf("catering_order marshal items: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	row := q.QueryRow(ctx,
		`INSERT INTO catering_orders
		   (id, order_number, customer_id, customer_name, customer_email, items, total_amount,
		    delivery_date, status, payment_status, assigned_to, notes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7::numeric, $8, $9, $10, $11, $12, $13, $13)
		 RETURNING `+columns,
		o.ID, o.OrderNumber, postgres.PgUUID(o.CustomerID), o.CustomerName, o.CustomerEmail, itemsJSON,
		o.TotalAmount.StringFixed(2), o.DeliveryDate, string(o.Status), string(o.PaymentStatus),
		postgres.PgUUID(o.AssignedTo), o.Notes, o.CreatedAt,
	)

	created, err := scan(row)
	if err != nil {
		return nil, postgres.MapError(err, entity, o.ID)
	}
	return created, nil
}

// UpdateStatus sets the status and returns the previous one.
func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (domain.OrderStatus, error) {
	var old string
	err := postgres.SwapColumn(ctx, postgres.QuerierFromCtx(ctx, r.pool), table, "status", id, string(status), &old)
	if err != nil {
		return "", postgres.MapError(err, entity, id)
	}
	return domain.OrderStatus(old), nil
}

// UpdateAssignee sets or clears the assignee and returns the previous one.
func (r *Repo) UpdateAssignee(ctx context.Context, id uuid.UUID, assignee *uuid.UUID) (*uuid.UUID, error) {
	var old pgtype.UUID
	err := postgres.SwapColumn(ctx, postgres.QuerierFromCtx(ctx, r.pool), table, "assigned_to", id, postgres.PgUUID(assignee), &old)
	if err != nil {
		return nil, postgres.MapError(err, entity, id)
	}
	return postgres.UUIDPtr(old), nil
}

// UpdateNotes replaces the internal notes and returns the previous text.
func (r *Repo) UpdateNotes(ctx context.Context, id uuid.UUID, notes *string) (*string, error) {
	var old *string
	err := postgres.SwapColumn(ctx, postgres.QuerierFromCtx(ctx, r.pool), table, "notes", id, notes, &old)
	if err != nil {
		return nil, postgres.MapError(err, entity, id)
	}
	return old, nil
}

// SetInvoice stores the provider voucher id and marks the order as billed.
func (r *Repo) SetInvoice(ctx context.Context, id uuid.UUID, voucherID string) error {
	err := postgres.ExecOne(ctx, postgres.QuerierFromCtx(ctx, r.pool),
		`UPDATE catering_orders
		 SET invoice_voucher_id = $2, payment_status = 'open', updated_at = now()
		 WHERE id = $1`,
		id, voucherID,
	)
	return postgres.MapError(err, entity, id)
}

// SetPaymentStatus updates the payment status.
func (r *Repo) SetPaymentStatus(ctx context.Context, id uuid.UUID, status domain.PaymentStatus) error {
	err := postgres.ExecOne(ctx, postgres.QuerierFromCtx(ctx, r.pool),
		`UPDATE catering_orders SET payment_status = $2, updated_at = now() WHERE id = $1`,
		id, string(status),
	)
	return postgres.MapError(err, entity, id)
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns an order by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.CateringOrder, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	o, err := scan(q.QueryRow(ctx, `SELECT `+columns+` FROM catering_orders WHERE id = $1`, id))
	if err != nil {
		return nil, postgres.MapError(err, entity, id)
	}
	return o, nil
}

// ListInbox returns orders matching query, newest first.
func (r *Repo) ListInbox(ctx context.Context, query domain.SourceQuery) ([]domain.CateringOrder, error) {
	b := postgres.ApplySourceQuery(postgres.Builder().Select(columns).From(table), query, sourceColumns)
	return r.list(ctx, b)
}

// ListByCustomer returns the orders placed by a customer, newest first.
func (r *Repo) ListByCustomer(ctx context.Context, customerID uuid.UUID, limit int) ([]domain.CateringOrder, error) {
	b := postgres.Builder().Select(columns).From(table).
		Where(sq.Expr("customer_id = ?", customerID)).
		OrderBy("created_at DESC", "id ASC").
		Limit(uint64(limit))
	return r.list(ctx, b)
}

// ListOpenInvoices returns orders with a voucher whose payment is still open.
func (r *Repo) ListOpenInvoices(ctx context.Context, limit int) ([]domain.CateringOrder, error) {
	b := postgres.Builder().Select(columns).From(table).
		Where(sq.NotEq{"invoice_voucher_id": nil}).
		Where(sq.Eq{"payment_status": string(domain.PaymentStatusOpen)}).
		OrderBy("created_at ASC", "id ASC").
		Limit(uint64(limit))
	return r.list(ctx, b)
}

// CountByStatus counts orders in status.
func (r *Repo) CountByStatus(ctx context.Context, status domain.OrderStatus) (int, error) {
	b := postgres.Builder().Select("count(*)").From(table).Where(sq.Eq{"status": string(status)})

	n, err := postgres.Count(ctx, postgres.QuerierFromCtx(ctx, r.pool), b)
	if err != nil {
		return 0, fmt.Errorf("count catering_orders by status: %w", err)
	}
	return n, nil
}

func (r *Repo) list(ctx context.Context, b postgres.Sqlizer) ([]domain.CateringOrder, error) {
	rows, err := postgres.Query(ctx, postgres.QuerierFromCtx(ctx, r.pool), b)
	if err != nil {
		return nil, fmt.Errorf("list catering_orders: %w", err)
	}
	defer rows.Close()

	var out []domain.CateringOrder
	for rows.Next() {
		o, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan catering_order: %w", err)
		}
		out = append(out, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list catering_orders: %w", err)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Mapping helpers
// ---------------------------------------------------------------------------

func scan(row postgres.Scanner) (*domain.CateringOrder, error) {
	var (
		o                     domain.CateringOrder
		customer, assigned    pgtype.UUID
		itemsJSON             []byte
		total                 string
		status, paymentStatus string
	)

	err := row.Scan(
		&o.ID, &o.OrderNumber, &customer, &o.CustomerName, &o.CustomerEmail, &itemsJSON, &total,
		&o.DeliveryDate, &status, &paymentStatus, &o.InvoiceVoucherID, &assigned, &o.Notes,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(itemsJSON) > 0 {
		if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
			return nil, fmt.Errorf("catering_order %s unmarshal items: %w", o.ID, err)
		}
	}
	amount, err := decimal.NewFromString(total)
	if err != nil {
		return nil, fmt.Errorf("catering_order %s parse total: %w", o.ID, err)
	}

	o.TotalAmount = amount
	o.CustomerID = postgres.UUIDPtr(customer)
	o.AssignedTo = postgres.UUIDPtr(assigned)
	o.Status = domain.OrderStatus(status)
	o.PaymentStatus = domain.PaymentStatus(paymentStatus)
	return &o, nil
}
