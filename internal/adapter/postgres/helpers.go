package postgres

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/heartmarshall/catering-backend/internal/domain"
)

// Scanner is satisfied by pgx.Row and pgx.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// UUIDPtr converts a nullable pgtype.UUID to *uuid.UUID (NULL -> nil).
func UUIDPtr(id pgtype.UUID) *uuid.UUID {
	if !id.Valid {
		return nil
	}
	u := uuid.UUID(id.Bytes)
	return &u
}

// PgUUID converts a *uuid.UUID to pgtype.UUID (nil -> NULL).
func PgUUID(id *uuid.UUID) pgtype.UUID {
	if id == nil {
		return pgtype.UUID{}
	}
	return pgtype.UUID{Bytes: *id, Valid: true}
}

// SwapColumn sets column of row id in table to value, bumps updated_at and scans
// the previous value into old. table and column must be trusted identifiers.
// Returns pgx.ErrNoRows when the row does not exist.
func SwapColumn(ctx context.Context, q Querier, table, column string, id uuid.UUID, value, old any) error {
	sql := fmt.Sprintf(
		`UPDATE %[1]s t SET %[2]s = $2, updated_at = now()
		 FROM (SELECT id, %[2]s FROM %[1]s WHERE id = $1 FOR UPDATE) prev
		 WHERE t.id = prev.id
		 RETURNING prev.%[2]s`,
		table, column,
	)
	return q.QueryRow(ctx, sql, id, value).Scan(old)
}

// SourceColumns names the columns an inbox source filters and sorts on.
type SourceColumns struct {
	Status     string
	Assignee   string
	CreatedAt  string
	EventDate  string // empty when the source has no alternate time key
	Priority   string // empty when the source has no priority
	SearchCols []string
}

// ApplySourceQuery adds the filter, ordering and limit of q to b.
func ApplySourceQuery(b sq.SelectBuilder, q domain.SourceQuery, cols SourceColumns) sq.SelectBuilder {
	timeCol := cols.CreatedAt
	if q.TimeKey == domain.BookingByEventDate && cols.EventDate != "" {
		timeCol = cols.EventDate
	}

	if s := strings.TrimSpace(q.Search); s != "" && len(cols.SearchCols) > 0 {
		pattern := "%" + escapeLike(s) + "%"
		or := sq.Or{}
		for _, c := range cols.SearchCols {
			or = append(or, sq.ILike{c: pattern})
		}
		b = b.Where(or)
	}
	if len(q.Statuses) > 0 {
		b = b.Where(sq.Eq{cols.Status: q.Statuses})
	}
	if len(q.Priorities) > 0 && cols.Priority != "" {
		ps := make([]string, len(q.Priorities))
		for i, p := range q.Priorities {
			ps[i] = string(p)
		}
		b = b.Where(sq.Eq{cols.Priority: ps})
	}
	if q.AssignedTo != nil {
		// uuid.UUID is an array; sq.Eq would expand it into an IN list.
		b = b.Where(sq.Expr(cols.Assignee+" = ?", *q.AssignedTo))
	}
	if q.From != nil {
		b = b.Where(sq.GtOrEq{timeCol: *q.From})
	}
	if q.To != nil {
		b = b.Where(sq.Lt{timeCol: *q.To})
	}

	if q.Ranked && cols.Priority != "" {
		b = b.OrderBy(fmt.Sprintf("CASE %s WHEN 'urgent' THEN 2 WHEN 'high' THEN 1 ELSE 0 END DESC", cols.Priority))
	}
	b = b.OrderBy(timeCol+" DESC", "id ASC")

	if q.Limit > 0 {
		b = b.Limit(uint64(q.Limit))
	}
	return b
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
