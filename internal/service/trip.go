// Package service contains the business logic for the Carrylink API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here: services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/carrylink/internal/domain"
	"github.com/pkordes/carrylink/internal/matching"
	"github.com/pkordes/carrylink/internal/repo"
)

// CityDirectory answers whether a city name is one the service knows.
// *matching.RegionTable satisfies it.
type CityDirectory interface {
	KnownCity(city string) bool
}

var _ CityDirectory = (*matching.RegionTable)(nil)

// TripService implements business logic for Trip operations.
// It holds the match repo because a trip's departure date is locked once a
// match against it has been accepted.
type TripService struct {
	trips   repo.TripRepo
	matches repo.MatchRepo
	cities  CityDirectory
	retry   RetryPolicy
}

// NewTripService constructs a TripService backed by the provided repos.
func NewTripService(trips repo.TripRepo, matches repo.MatchRepo, cities CityDirectory, retry RetryPolicy) *TripService {
	return &TripService{trips: trips, matches: matches, cities: cities, retry: retry}
}

// Create validates and persists a new trip. The trip always starts open.
// Returns domain.ErrValidation if input violates business rules.
func (s *TripService) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	trip = normalizeTrip(trip)
	if err := s.validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}
	result, err := s.trips.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single trip by ID.
// Returns domain.ErrNotFound if no trip with that ID exists.
func (s *TripService) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	result, err := read(ctx, s.retry, func(ctx context.Context) (domain.Trip, error) {
		return s.trips.GetByID(ctx, id)
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return result, nil
}

// ListOpen returns the traveler's open trips, soonest departure first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TripService) ListOpen(ctx context.Context, travelerID uuid.UUID) ([]domain.Trip, error) {
	trips, err := read(ctx, s.retry, func(ctx context.Context) ([]domain.Trip, error) {
		return s.trips.ListByTraveler(ctx, travelerID, domain.TripOpen)
	})
	if err != nil {
		return nil, fmt.Errorf("service.TripService.ListOpen: %w", err)
	}
	if trips == nil {
		return []domain.Trip{}, nil
	}
	return trips, nil
}

// Update changes the route, departure date or notes of an open trip owned by
// actor. The departure date cannot change once a match has been accepted.
// Returns domain.ErrUnauthorized if actor is not the traveler,
// domain.ErrValidation for invalid input or a locked departure date,
// domain.ErrNotFound if the trip does not exist.
func (s *TripService) Update(ctx context.Context, actor uuid.UUID, trip domain.Trip) (domain.Trip, error) {
	current, err := s.trips.GetByID(ctx, trip.ID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	if current.TravelerID != actor {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w: only the traveler may edit a trip", domain.ErrUnauthorized)
	}
	if !current.IsOpen() {
		return domain.Trip{}, fmt.Errorf("%w: trip is closed", domain.ErrValidation)
	}

	trip.TravelerID = current.TravelerID
	trip = normalizeTrip(trip)
	if err := s.validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}

	if !domain.DateOf(trip.DepartureDate).Equal(domain.DateOf(current.DepartureDate)) {
		locked, err := s.matches.HasStatus(ctx, trip.ID, domain.MatchAccepted, domain.MatchCompleted)
		if err != nil {
			return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
		}
		if locked {
			return domain.Trip{}, fmt.Errorf("%w: departure_date cannot change after a match was accepted", domain.ErrValidation)
		}
	}

	result, err := s.trips.Update(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return result, nil
}

// Close moves an open trip owned by actor to closed.
// Returns domain.ErrUnauthorized if actor is not the traveler and
// domain.ErrInvalidTransition if the trip is already closed.
func (s *TripService) Close(ctx context.Context, actor, id uuid.UUID) (domain.Trip, error) {
	current, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Close: %w", err)
	}
	if current.TravelerID != actor {
		return domain.Trip{}, fmt.Errorf("service.TripService.Close: %w: only the traveler may close a trip", domain.ErrUnauthorized)
	}
	if !current.IsOpen() {
		return domain.Trip{}, fmt.Errorf("service.TripService.Close: %w: trip is already closed", domain.ErrInvalidTransition)
	}

	result, err := s.trips.SetStatus(ctx, id, domain.TripClosed)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Close: %w", err)
	}
	return result, nil
}

func normalizeTrip(t domain.Trip) domain.Trip {
	t.FromCity = strings.TrimSpace(t.FromCity)
	t.ToCity = strings.TrimSpace(t.ToCity)
	t.Notes = strings.TrimSpace(t.Notes)
	if !t.DepartureDate.IsZero() {
		t.DepartureDate = domain.DateOf(t.DepartureDate)
	}
	return t
}

// validateTrip enforces business rules common to both Create and Update.
//   - The traveler must be set.
//   - Both cities must be known and different.
//   - The departure date is required.
func (s *TripService) validateTrip(t domain.Trip) error {
	if t.TravelerID == uuid.Nil {
		return fmt.Errorf("%w: traveler_id is required", domain.ErrValidation)
	}
	if err := validateRoute(s.cities, t.FromCity, t.ToCity); err != nil {
		return err
	}
	if t.DepartureDate.IsZero() {
		return fmt.Errorf("%w: departure_date is required", domain.ErrValidation)
	}
	return nil
}

// validateRoute checks a from/to pair against the known city list.
func validateRoute(cities CityDirectory, from, to string) error {
	if from == "" {
		return fmt.Errorf("%w: from_city is required", domain.ErrValidation)
	}
	if to == "" {
		return fmt.Errorf("%w: to_city is required", domain.ErrValidation)
	}
	if !cities.KnownCity(from) {
		return fmt.Errorf("%w: unknown from_city %q", domain.ErrValidation, from)
	}
	if !cities.KnownCity(to) {
		return fmt.Errorf("%w: unknown to_city %q", domain.ErrValidation, to)
	}
	if matching.SameCity(from, to) {
		return fmt.Errorf("%w: from_city and to_city must differ", domain.ErrValidation)
	}
	return nil
}
