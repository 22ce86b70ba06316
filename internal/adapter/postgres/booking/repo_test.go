package booking_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/catering-backend/internal/adapter/postgres/booking"
	"github.com/heartmarshall/catering-backend/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/catering-backend/internal/domain"
)

func TestRepo_ConfirmMenu(t *testing.T) {
	t.Parallel()
	pool := testhelper.SetupTestDB(t)
	repo := booking.New(pool)
	ctx := context.Background()

	b := testhelper.SeedBooking(t, pool, "Menu "+testhelper.UniqueSuffix(), time.Now(), time.Now().AddDate(0, 1, 0))

	before, err := repo.CountPendingMenu(ctx)
	require.NoError(t, err)

	old, err := repo.ConfirmMenu(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, old.MenuConfirmed)
	assert.Equal(t, domain.BookingStatusMenuPending, old.Status)

	got, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, got.MenuConfirmed)
	assert.Equal(t, domain.BookingStatusReady, got.Status)

	after, err := repo.CountPendingMenu(ctx)
	require.NoError(t, err)
	assert.LessOrEqual(t, after, before)
}

func TestRepo_ConfirmMenu_Missing(t *testing.T) {
	t.Parallel()
	repo := booking.New(testhelper.SetupTestDB(t))

	_, err := repo.ConfirmMenu(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRepo_ListInbox_EventDateKey(t *testing.T) {
	t.Parallel()
	pool := testhelper.SetupTestDB(t)
	repo := booking.New(pool)
	ctx := context.Background()

	tag := "Bk" + testhelper.UniqueSuffix()
	now := time.Now()
	// Created first but the event is later.
	early := testhelper.SeedBooking(t, pool, tag+" early", now.Add(-2*time.Hour), now.AddDate(0, 3, 0))
	late := testhelper.SeedBooking(t, pool, tag+" late", now.Add(-time.Hour), now.AddDate(0, 1, 0))

	byCreated, err := repo.ListInbox(ctx, domain.SourceQuery{Search: tag, TimeKey: domain.BookingByCreatedAt})
	require.NoError(t, err)
	require.Len(t, byCreated, 2)
	assert.Equal(t, late.ID, byCreated[0].ID)

	byEvent, err := repo.ListInbox(ctx, domain.SourceQuery{Search: tag, TimeKey: domain.BookingByEventDate})
	require.NoError(t, err)
	require.Len(t, byEvent, 2)
	assert.Equal(t, early.ID, byEvent[0].ID)
}

func TestRepo_CreateWithInquiry(t *testing.T) {
	t.Parallel()
	pool := testhelper.SetupTestDB(t)
	repo := booking.New(pool)
	ctx := context.Background()

	inq := testhelper.SeedInquiry(t, pool, "Linked "+testhelper.UniqueSuffix(), time.Now())
	in := &domain.EventBooking{
		ID:            uuid.New(),
		BookingNumber: "EB-" + testhelper.UniqueSuffix(),
		InquiryID:     &inq.ID,
		CustomerName:  inq.ContactName,
		GuestCount:    120,
		EventDate:     time.Now().AddDate(0, 2, 0).UTC().Truncate(time.Microsecond),
		Status:        domain.BookingStatusMenuPending,
		CreatedAt:     time.Now().UTC().Truncate(time.Microsecond),
	}

	created, err := repo.Create(ctx, in)
	require.NoError(t, err)
	require.NotNil(t, created.InquiryID)
	assert.Equal(t, inq.ID, *created.InquiryID)

	in.ID = uuid.New()
	in.BookingNumber = "EB-" + testhelper.UniqueSuffix()
	missing := uuid.New()
	in.InquiryID = &missing
	_, err = repo.Create(ctx, in)
	assert.ErrorIs(t, err, domain.ErrNotFound, "foreign key violation maps to not found")
}
