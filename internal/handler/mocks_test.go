package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/carrylink/internal/domain"
	"github.com/pkordes/carrylink/internal/handler"
	"github.com/pkordes/carrylink/internal/matching"
	"github.com/pkordes/carrylink/internal/middleware"
	"github.com/pkordes/carrylink/internal/service"
)

// mockTripServicer is a test double for handler.TripServicer.
// Set only the method fields your test needs.
type mockTripServicer struct {
	create   func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID  func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	listOpen func(ctx context.Context, travelerID uuid.UUID) ([]domain.Trip, error)
	update   func(ctx context.Context, actor uuid.UUID, trip domain.Trip) (domain.Trip, error)
	close    func(ctx context.Context, actor, id uuid.UUID) (domain.Trip, error)
}

func (m *mockTripServicer) Create(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	return m.create(ctx, t)
}
func (m *mockTripServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripServicer) ListOpen(ctx context.Context, travelerID uuid.UUID) ([]domain.Trip, error) {
	return m.listOpen(ctx, travelerID)
}
func (m *mockTripServicer) Update(ctx context.Context, actor uuid.UUID, t domain.Trip) (domain.Trip, error) {
	return m.update(ctx, actor, t)
}
func (m *mockTripServicer) Close(ctx context.Context, actor, id uuid.UUID) (domain.Trip, error) {
	return m.close(ctx, actor, id)
}

// mockShipmentServicer is a test double for handler.ShipmentServicer.
type mockShipmentServicer struct {
	create   func(ctx context.Context, req domain.ShipmentRequest) (domain.ShipmentRequest, error)
	view     func(ctx context.Context, id uuid.UUID) (domain.ShipmentRequest, error)
	listOpen func(ctx context.Context, exclude uuid.UUID, asOf time.Time, page *domain.PaginationParams) ([]domain.ShipmentRequest, int64, error)
}

func (m *mockShipmentServicer) Create(ctx context.Context, r domain.ShipmentRequest) (domain.ShipmentRequest, error) {
	return m.create(ctx, r)
}
func (m *mockShipmentServicer) View(ctx context.Context, id uuid.UUID) (domain.ShipmentRequest, error) {
	return m.view(ctx, id)
}
func (m *mockShipmentServicer) ListOpen(ctx context.Context, exclude uuid.UUID, asOf time.Time, page *domain.PaginationParams) ([]domain.ShipmentRequest, int64, error) {
	return m.listOpen(ctx, exclude, asOf, page)
}

// mockMatchServicer is a test double for handler.MatchServicer.
type mockMatchServicer struct {
	propose       func(ctx context.Context, actor, tripID, requestID uuid.UUID) (domain.Match, domain.MatchClassification, error)
	updateStatus  func(ctx context.Context, actor, matchID uuid.UUID, status domain.MatchStatus) (domain.Match, error)
	getByID       func(ctx context.Context, id uuid.UUID) (domain.Match, error)
	listByTrip    func(ctx context.Context, tripID uuid.UUID) ([]domain.Match, error)
	listByRequest func(ctx context.Context, requestID uuid.UUID) ([]domain.Match, error)
	candidates    func(ctx context.Context, tripID uuid.UUID) ([]matching.Candidate, error)
	classifyBatch func(ctx context.Context, trip matching.TripInput, reqs []matching.RequestInput) (service.BatchResult, error)
}

func (m *mockMatchServicer) Propose(ctx context.Context, actor, tripID, requestID uuid.UUID) (domain.Match, domain.MatchClassification, error) {
	return m.propose(ctx, actor, tripID, requestID)
}
func (m *mockMatchServicer) UpdateStatus(ctx context.Context, actor, matchID uuid.UUID, status domain.MatchStatus) (domain.Match, error) {
	return m.updateStatus(ctx, actor, matchID, status)
}
func (m *mockMatchServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Match, error) {
	return m.getByID(ctx, id)
}
func (m *mockMatchServicer) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Match, error) {
	return m.listByTrip(ctx, tripID)
}
func (m *mockMatchServicer) ListByShipmentRequest(ctx context.Context, requestID uuid.UUID) ([]domain.Match, error) {
	return m.listByRequest(ctx, requestID)
}
func (m *mockMatchServicer) Candidates(ctx context.Context, tripID uuid.UUID) ([]matching.Candidate, error) {
	return m.candidates(ctx, tripID)
}
func (m *mockMatchServicer) ClassifyBatch(ctx context.Context, trip matching.TripInput, reqs []matching.RequestInput) (service.BatchResult, error) {
	return m.classifyBatch(ctx, trip, reqs)
}

// compile-time checks: the mocks must satisfy the handler interfaces.
var (
	_ handler.TripServicer     = (*mockTripServicer)(nil)
	_ handler.ShipmentServicer = (*mockShipmentServicer)(nil)
	_ handler.MatchServicer    = (*mockMatchServicer)(nil)
)

// ---- helpers ---------------------------------------------------------------

// fixedNow is the clock every test server runs on.
var fixedNow = time.Date(2025, 3, 9, 15, 30, 0, 0, time.UTC)

// newHTTPHandler wires a Server with the given mocks behind the actor
// middleware, the same order main.go uses.
func newHTTPHandler(trips handler.TripServicer, shipments handler.ShipmentServicer, matches handler.MatchServicer) http.Handler {
	srv := handler.NewServer(trips, shipments, matches).WithClock(func() time.Time { return fixedNow })
	return middleware.NewActorHandler()(srv.Handler())
}

// do sends one request, acting as actor unless it is uuid.Nil.
func do(t *testing.T, h http.Handler, method, path string, actor uuid.UUID, body any) *httptest.ResponseRecorder {
	t.Helper()
	req := jsonRequest(t, method, path, body)
	if actor != uuid.Nil {
		req.Header.Set(middleware.ActorHeader, actor.String())
	}
	return serve(h, req)
}

// jsonRequest builds a request whose body is body encoded as JSON, or sent
// verbatim when it is a string.
func jsonRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	var r io.Reader
	if body != nil {
		r = jsonBody(t, body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	if s, ok := v.(string); ok {
		return bytes.NewBufferString(s)
	}
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[handler.ErrorResponse](t, rec).Error.Code
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func tripFixture(traveler uuid.UUID) domain.Trip {
	return domain.Trip{
		ID:            uuid.New(),
		TravelerID:    traveler,
		FromCity:      "Paris",
		ToCity:        "Alger",
		DepartureDate: date(2025, 3, 10),
		Status:        domain.TripOpen,
		CreatedAt:     fixedNow,
		UpdatedAt:     fixedNow,
	}
}

func shipmentFixture(sender uuid.UUID) domain.ShipmentRequest {
	earliest, latest := date(2025, 3, 8), date(2025, 3, 12)
	return domain.ShipmentRequest{
		ID:           uuid.New(),
		SenderID:     sender,
		FromCity:     "Paris",
		ToCity:       "Alger",
		EarliestDate: &earliest,
		LatestDate:   &latest,
		ItemType:     "documents",
		WeightKg:     1.5,
		Status:       domain.ShipmentOpen,
		CreatedAt:    fixedNow,
		UpdatedAt:    fixedNow,
	}
}
