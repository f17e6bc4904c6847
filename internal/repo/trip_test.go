package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/carrylink/internal/domain"
	"github.com/pkordes/carrylink/internal/repo"
)

func newTripRepo(t *testing.T) repo.TripRepo {
	t.Helper()
	return repo.NewTripRepo(newTestTx(t))
}

func TestTripRepo_Create(t *testing.T) {
	r := newTripRepo(t)
	ctx := context.Background()

	input := tripFixture()
	got, err := r.Create(ctx, input)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID, "ID should be DB-generated UUID")
	assert.Equal(t, input.TravelerID, got.TravelerID)
	assert.Equal(t, "Paris", got.FromCity)
	assert.Equal(t, "Alger", got.ToCity)
	assert.True(t, got.DepartureDate.Equal(input.DepartureDate), "DepartureDate mismatch")
	assert.Equal(t, domain.TripOpen, got.Status, "status defaults to open")
	assert.False(t, got.CreatedAt.IsZero(), "CreatedAt should be set by DB")
}

func TestTripRepo_GetByID(t *testing.T) {
	r := newTripRepo(t)
	ctx := context.Background()

	created, err := r.Create(ctx, tripFixture())
	require.NoError(t, err)

	got, err := r.GetByID(ctx, created.ID)

	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestTripRepo_GetByID_NotFound(t *testing.T) {
	r := newTripRepo(t)

	_, err := r.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripRepo_ListByTraveler(t *testing.T) {
	r := newTripRepo(t)
	ctx := context.Background()
	traveler := uuid.New()

	later := tripFixture()
	later.TravelerID = traveler
	later.DepartureDate = date(2025, 4, 1)
	sooner := tripFixture()
	sooner.TravelerID = traveler
	someoneElse := tripFixture()

	for _, tr := range []domain.Trip{later, sooner, someoneElse} {
		_, err := r.Create(ctx, tr)
		require.NoError(t, err)
	}

	got, err := r.ListByTraveler(ctx, traveler, domain.TripOpen)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].DepartureDate.Equal(sooner.DepartureDate), "ordered by departure date")

	closed, err := r.ListByTraveler(ctx, traveler, domain.TripClosed)
	require.NoError(t, err)
	assert.Empty(t, closed)
}

func TestTripRepo_Update(t *testing.T) {
	r := newTripRepo(t)
	ctx := context.Background()

	created, err := r.Create(ctx, tripFixture())
	require.NoError(t, err)

	created.ToCity = "Oran"
	created.DepartureDate = date(2025, 3, 11)
	created.Notes = ""

	updated, err := r.Update(ctx, created)

	require.NoError(t, err)
	assert.Equal(t, "Oran", updated.ToCity)
	assert.True(t, updated.DepartureDate.Equal(date(2025, 3, 11)))
	assert.Empty(t, updated.Notes)
}

func TestTripRepo_Update_NotFound(t *testing.T) {
	r := newTripRepo(t)

	ghost := tripFixture()
	ghost.ID = uuid.New()

	_, err := r.Update(context.Background(), ghost)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripRepo_SetStatus(t *testing.T) {
	r := newTripRepo(t)
	ctx := context.Background()

	created, err := r.Create(ctx, tripFixture())
	require.NoError(t, err)

	closed, err := r.SetStatus(ctx, created.ID, domain.TripClosed)

	require.NoError(t, err)
	assert.Equal(t, domain.TripClosed, closed.Status)

	_, err = r.SetStatus(ctx, uuid.New(), domain.TripClosed)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
