package activity_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/catering-backend/internal/adapter/postgres/activity"
	"github.com/heartmarshall/catering-backend/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/catering-backend/internal/domain"
)

func TestRepo_InsertAndListNewestFirst(t *testing.T) {
	t.Parallel()
	repo := activity.New(testhelper.SetupTestDB(t))
	ctx := context.Background()

	entityID := uuid.New()
	actor := uuid.New()
	base := time.Now().UTC().Truncate(time.Microsecond)

	created := domain.ActivityLogEntry{
		ID: uuid.New(), EntityType: domain.EntityTypeInquiry, EntityID: entityID,
		Action: domain.ActionCreated, ActorEmail: "", CreatedAt: base.Add(-time.Minute),
	}
	changed := domain.ActivityLogEntry{
		ID: uuid.New(), EntityType: domain.EntityTypeInquiry, EntityID: entityID,
		Action: domain.ActionStatusChanged, ActorID: &actor, ActorEmail: "chef@example.com",
		OldValue:  map[string]any{"status": "new"},
		NewValue:  map[string]any{"status": "contacted"},
		Metadata:  map[string]any{"source": "inbox"},
		CreatedAt: base,
	}
	require.NoError(t, repo.Insert(ctx, created))
	require.NoError(t, repo.Insert(ctx, changed))

	// Same id under another type must not leak in.
	require.NoError(t, repo.Insert(ctx, domain.ActivityLogEntry{
		ID: uuid.New(), EntityType: domain.EntityTypeOrder, EntityID: entityID,
		Action: domain.ActionCreated, CreatedAt: base,
	}))

	got, err := repo.ListByEntity(ctx, domain.EntityTypeInquiry, entityID, 50)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, changed.ID, got[0].ID)
	assert.Equal(t, domain.ActionStatusChanged, got[0].Action)
	assert.Equal(t, "contacted", got[0].NewValue["status"])
	assert.Equal(t, "new", got[0].OldValue["status"])
	assert.Equal(t, "inbox", got[0].Metadata["source"])
	require.NotNil(t, got[0].ActorID)
	assert.Equal(t, actor, *got[0].ActorID)

	assert.Equal(t, created.ID, got[1].ID)
	assert.Nil(t, got[1].OldValue)
	assert.Nil(t, got[1].ActorID)
}

func TestRepo_ListByEntity_SameInstantUsesIDOrder(t *testing.T) {
	t.Parallel()
	repo := activity.New(testhelper.SetupTestDB(t))
	ctx := context.Background()

	entityID := uuid.New()
	at := time.Now().UTC().Truncate(time.Microsecond)

	var ids []uuid.UUID
	for range 3 {
		id, err := uuid.NewV7()
		require.NoError(t, err)
		ids = append(ids, id)
		require.NoError(t, repo.Insert(ctx, domain.ActivityLogEntry{
			ID: id, EntityType: domain.EntityTypeTask, EntityID: entityID,
			Action: domain.ActionTaskCreated, CreatedAt: at,
		}))
	}

	got, err := repo.ListByEntity(ctx, domain.EntityTypeTask, entityID, 10)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []uuid.UUID{ids[2], ids[1], ids[0]}, []uuid.UUID{got[0].ID, got[1].ID, got[2].ID})
}

func TestRepo_ListByEntity_Limit(t *testing.T) {
	t.Parallel()
	repo := activity.New(testhelper.SetupTestDB(t))
	ctx := context.Background()

	entityID := uuid.New()
	for i := range 5 {
		require.NoError(t, repo.Insert(ctx, domain.ActivityLogEntry{
			ID: uuid.New(), EntityType: domain.EntityTypeBooking, EntityID: entityID,
			Action: domain.ActionNoteUpdated, CreatedAt: time.Now().Add(time.Duration(i) * time.Second),
		}))
	}

	got, err := repo.ListByEntity(ctx, domain.EntityTypeBooking, entityID, 3)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestRepo_Insert_InvalidEntityType(t *testing.T) {
	t.Parallel()
	repo := activity.New(testhelper.SetupTestDB(t))

	err := repo.Insert(context.Background(), domain.ActivityLogEntry{
		ID: uuid.New(), EntityType: "invoice", EntityID: uuid.New(), Action: domain.ActionCreated, CreatedAt: time.Now(),
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
