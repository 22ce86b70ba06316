// Package activity implements the append-only activity log repository using PostgreSQL.
package activity

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/catering-backend/internal/adapter/postgres"
	"github.com/heartmarshall/catering-backend/internal/domain"
)

const columns = "id, entity_type, entity_id, action, actor_id, actor_email, old_value, new_value, metadata, created_at"

// Repo provides activity log persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new activity repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Insert appends an entry. Entries are never updated or deleted.
func (r *Repo) Insert(ctx context.Context, e domain.ActivityLogEntry) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	oldJSON, err := marshalNullable(e.OldValue)
	if err != nil {
		return fmt.Errorf("activity_log marshal old value: %w", err)
	}
	newJSON, err := marshalNullable(e.NewValue)
	if err != nil {
		return fmt.Errorf("activity_log marshal new value: %w", err)
	}
	metaJSON, err := marshalNullable(e.Metadata)
	if err != nil {
		return fmt.Errorf("activity_log marshal metadata: %w", err)
	}

	_, err = q.Exec(ctx,
		`INSERT INTO activity_logs
		   (id, entity_type, entity_id, action, actor_id, actor_email, old_value, new_value, metadata, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		e.ID, string(e.EntityType), e.EntityID, string(e.Action), postgres.PgUUID(e.ActorID), e.ActorEmail,
		oldJSON, newJSON, metaJSON, e.CreatedAt,
	)
	if err != nil {
		return postgres.MapError(err, "activity_log", e.ID)
	}
	return nil
}

// ListByEntity returns the entries of one entity, newest first.
func (r *Repo) ListByEntity(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID, limit int) ([]domain.ActivityLogEntry, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx,
		`SELECT `+columns+` FROM activity_logs
		 WHERE entity_type = $1 AND entity_id = $2
		 ORDER BY created_at DESC, id DESC
		 LIMIT $3`,
		string(entityType), entityID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list activity_logs: %w", err)
	}
	defer rows.Close()

	var out []domain.ActivityLogEntry
	for rows.Next() {
		var (
			e                       domain.ActivityLogEntry
			etype, action           string
			actor                   pgtype.UUID
			oldRaw, newRaw, metaRaw []byte
		)
		if err := rows.Scan(&e.ID, &etype, &e.EntityID, &action, &actor, &e.ActorEmail,
			&oldRaw, &newRaw, &metaRaw, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity_log: %w", err)
		}
		e.EntityType = domain.EntityType(etype)
		e.Action = domain.ActivityAction(action)
		e.ActorID = postgres.UUIDPtr(actor)
		if e.OldValue, err = unmarshalNullable(oldRaw); err != nil {
			return nil, fmt.Errorf("activity_log %s old value: %w", e.ID, err)
		}
		if e.NewValue, err = unmarshalNullable(newRaw); err != nil {
			return nil, fmt.Errorf("activity_log %s new value: %w", e.ID, err)
		}
		if e.Metadata, err = unmarshalNullable(metaRaw); err != nil {
			return nil, fmt.Errorf("activity_log %s metadata: %w", e.ID, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list activity_logs: %w", err)
	}
	return out, nil
}

func marshalNullable(m map[string]any) ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func unmarshalNullable(raw []byte) (map[string]any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}
