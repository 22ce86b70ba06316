package role_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/catering-backend/internal/adapter/postgres/role"
	"github.com/heartmarshall/catering-backend/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/catering-backend/internal/domain"
)

func TestRepo_IsAdmin(t *testing.T) {
	t.Parallel()
	pool := testhelper.SetupTestDB(t)
	repo := role.New(pool)
	ctx := context.Background()

	admin := testhelper.SeedAdmin(t, pool)

	ok, err := repo.IsAdmin(ctx, admin)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.IsAdmin(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRepo_Grant_Idempotent(t *testing.T) {
	t.Parallel()
	repo := role.New(testhelper.SetupTestDB(t))
	ctx := context.Background()

	id := uuid.New()
	require.NoError(t, repo.Grant(ctx, id, domain.UserRoleCustomer))
	require.NoError(t, repo.Grant(ctx, id, domain.UserRoleCustomer))

	ok, err := repo.HasRole(ctx, id, domain.UserRoleCustomer)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.IsAdmin(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRepo_Grant_UnknownRole(t *testing.T) {
	t.Parallel()
	repo := role.New(testhelper.SetupTestDB(t))

	err := repo.Grant(context.Background(), uuid.New(), domain.UserRole("owner"))
	assert.ErrorIs(t, err, domain.ErrValidation)
}
