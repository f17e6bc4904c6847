package service_test

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pkordes/carrylink/internal/domain"
	"github.com/pkordes/carrylink/internal/matching"
	"github.com/pkordes/carrylink/internal/repo"
)

// ---- mock repos ------------------------------------------------------------

// mockTripRepo is a hand-written test double for repo.TripRepo.
// Each method is a function field: set only the ones your test needs.
type mockTripRepo struct {
	create         func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID        func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	listByTraveler func(ctx context.Context, travelerID uuid.UUID, status domain.TripStatus) ([]domain.Trip, error)
	update         func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	setStatus      func(ctx context.Context, id uuid.UUID, status domain.TripStatus) (domain.Trip, error)
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, trip)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) ListByTraveler(ctx context.Context, travelerID uuid.UUID, status domain.TripStatus) ([]domain.Trip, error) {
	return m.listByTraveler(ctx, travelerID, status)
}
func (m *mockTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.update(ctx, trip)
}
func (m *mockTripRepo) SetStatus(ctx context.Context, id uuid.UUID, status domain.TripStatus) (domain.Trip, error) {
	return m.setStatus(ctx, id, status)
}

// compile-time check: mockTripRepo must satisfy repo.TripRepo.
var _ repo.TripRepo = (*mockTripRepo)(nil)

// mockShipmentRepo is a hand-written test double for repo.ShipmentRequestRepo.
type mockShipmentRepo struct {
	create             func(ctx context.Context, req domain.ShipmentRequest) (domain.ShipmentRequest, error)
	getByID            func(ctx context.Context, id uuid.UUID) (domain.ShipmentRequest, error)
	listOpen           func(ctx context.Context, f repo.OpenShipmentFilter) ([]domain.ShipmentRequest, int64, error)
	incrementViewCount func(ctx context.Context, id uuid.UUID) (domain.ShipmentRequest, error)
}

func (m *mockShipmentRepo) Create(ctx context.Context, req domain.ShipmentRequest) (domain.ShipmentRequest, error) {
	return m.create(ctx, req)
}
func (m *mockShipmentRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.ShipmentRequest, error) {
	return m.getByID(ctx, id)
}
func (m *mockShipmentRepo) ListOpen(ctx context.Context, f repo.OpenShipmentFilter) ([]domain.ShipmentRequest, int64, error) {
	return m.listOpen(ctx, f)
}
func (m *mockShipmentRepo) IncrementViewCount(ctx context.Context, id uuid.UUID) (domain.ShipmentRequest, error) {
	return m.incrementViewCount(ctx, id)
}

var _ repo.ShipmentRequestRepo = (*mockShipmentRepo)(nil)

// mockMatchRepo is a hand-written test double for repo.MatchRepo.
type mockMatchRepo struct {
	create                func(ctx context.Context, m domain.Match) (domain.Match, error)
	getByID               func(ctx context.Context, id uuid.UUID) (domain.Match, error)
	listByTrip            func(ctx context.Context, tripID uuid.UUID) ([]domain.Match, error)
	listByShipmentRequest func(ctx context.Context, requestID uuid.UUID) ([]domain.Match, error)
	hasStatus             func(ctx context.Context, tripID uuid.UUID, statuses ...domain.MatchStatus) (bool, error)
	compareAndSwapStatus  func(ctx context.Context, id uuid.UUID, from, to domain.MatchStatus) (domain.Match, error)
}

func (m *mockMatchRepo) Create(ctx context.Context, match domain.Match) (domain.Match, error) {
	return m.create(ctx, match)
}
func (m *mockMatchRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Match, error) {
	return m.getByID(ctx, id)
}
func (m *mockMatchRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Match, error) {
	return m.listByTrip(ctx, tripID)
}
func (m *mockMatchRepo) ListByShipmentRequest(ctx context.Context, requestID uuid.UUID) ([]domain.Match, error) {
	return m.listByShipmentRequest(ctx, requestID)
}
func (m *mockMatchRepo) HasStatus(ctx context.Context, tripID uuid.UUID, statuses ...domain.MatchStatus) (bool, error) {
	return m.hasStatus(ctx, tripID, statuses...)
}
func (m *mockMatchRepo) CompareAndSwapStatus(ctx context.Context, id uuid.UUID, from, to domain.MatchStatus) (domain.Match, error) {
	return m.compareAndSwapStatus(ctx, id, from, to)
}

var _ repo.MatchRepo = (*mockMatchRepo)(nil)

// ---- shared helpers --------------------------------------------------------

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// cities is the built-in region table; every city it lists is known.
var cities = matching.MustDefaultRegionTable()
