// Package handler implements the HTTP handlers for the Carrylink API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, trip.go, match.go, ...) but share the same Server struct
// so they can access its dependencies.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/carrylink/internal/domain"
	"github.com/pkordes/carrylink/internal/matching"
	"github.com/pkordes/carrylink/internal/service"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	ListOpen(ctx context.Context, travelerID uuid.UUID) ([]domain.Trip, error)
	Update(ctx context.Context, actor uuid.UUID, trip domain.Trip) (domain.Trip, error)
	Close(ctx context.Context, actor, id uuid.UUID) (domain.Trip, error)
}

// ShipmentServicer defines the business operations the shipment request
// handlers depend on.
type ShipmentServicer interface {
	Create(ctx context.Context, req domain.ShipmentRequest) (domain.ShipmentRequest, error)
	View(ctx context.Context, id uuid.UUID) (domain.ShipmentRequest, error)
	ListOpen(ctx context.Context, excludeUser uuid.UUID, asOf time.Time, page *domain.PaginationParams) ([]domain.ShipmentRequest, int64, error)
}

// MatchServicer defines the match and classification operations.
type MatchServicer interface {
	Propose(ctx context.Context, actor, tripID, requestID uuid.UUID) (domain.Match, domain.MatchClassification, error)
	UpdateStatus(ctx context.Context, actor, matchID uuid.UUID, status domain.MatchStatus) (domain.Match, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Match, error)
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Match, error)
	ListByShipmentRequest(ctx context.Context, requestID uuid.UUID) ([]domain.Match, error)
	Candidates(ctx context.Context, tripID uuid.UUID) ([]matching.Candidate, error)
	ClassifyBatch(ctx context.Context, trip matching.TripInput, requests []matching.RequestInput) (service.BatchResult, error)
}

var (
	_ TripServicer     = (*service.TripService)(nil)
	_ ShipmentServicer = (*service.ShipmentService)(nil)
	_ MatchServicer    = (*service.MatchService)(nil)
)

// Server holds the services behind every endpoint.
type Server struct {
	trips     TripServicer
	shipments ShipmentServicer
	matches   MatchServicer
	now       func() time.Time
}

// NewServer constructs the Server with all its dependencies.
// Any servicer may be nil when a test exercises only part of the API.
func NewServer(trips TripServicer, shipments ShipmentServicer, matches MatchServicer) *Server {
	return &Server{trips: trips, shipments: shipments, matches: matches, now: time.Now}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil, nil)
}

// WithClock replaces the server's clock, used for the default as-of date.
func (s *Server) WithClock(now func() time.Time) *Server {
	s.now = now
	return s
}

// Handler returns a chi router serving every endpoint. Cross-cutting
// middleware (request IDs, the acting user, logging) is applied by the caller.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	s.Register(r)
	return r
}

// Register mounts every endpoint on r.
func (s *Server) Register(r chi.Router) {
	r.Get("/healthz", s.GetHealth)
	r.Post("/classify", s.Classify)

	r.Route("/trips", func(r chi.Router) {
		r.Post("/", s.CreateTrip)
		r.Get("/", s.ListTrips)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetTrip)
			r.Patch("/", s.UpdateTrip)
			r.Post("/close", s.CloseTrip)
			r.Get("/candidates", s.ListCandidates)
			r.Get("/matches", s.ListTripMatches)
		})
	})

	r.Route("/shipment-requests", func(r chi.Router) {
		r.Post("/", s.CreateShipmentRequest)
		r.Get("/", s.ListShipmentRequests)
		r.Get("/{id}", s.GetShipmentRequest)
		r.Get("/{id}/matches", s.ListShipmentRequestMatches)
	})

	r.Route("/matches", func(r chi.Router) {
		r.Post("/", s.ProposeMatch)
		r.Get("/{id}", s.GetMatch)
		r.Patch("/{id}", s.UpdateMatchStatus)
	})
}
