// Package repo contains all database access logic for the Carrylink API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/carrylink/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TripRepo defines the persistence operations for Trips.
// The service layer depends on this interface, not the concrete Postgres implementation,
// which allows the service to be unit-tested with a mock.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record (with DB-generated
	// id, status, created_at, and updated_at populated).
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip by its UUID primary key.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// ListByTraveler returns the traveler's trips with the given status,
	// ordered by departure_date ascending.
	ListByTraveler(ctx context.Context, travelerID uuid.UUID, status domain.TripStatus) ([]domain.Trip, error)

	// Update overwrites the route, departure date and notes of an existing trip.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// SetStatus moves a trip to status and returns the updated record.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	SetStatus(ctx context.Context, id uuid.UUID, status domain.TripStatus) (domain.Trip, error)
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `id, traveler_id, from_city, to_city, departure_date, status, notes, created_at, updated_at`

// Create inserts a new trip row and returns the full persisted record.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (traveler_id, from_city, to_city, departure_date, notes)
		VALUES (@traveler_id, @from_city, @to_city, @departure_date, @notes)
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"traveler_id":    trip.TravelerID,
		"from_city":      trip.FromCity,
		"to_city":        trip.ToCity,
		"departure_date": dateArg(trip.DepartureDate),
		"notes":          trip.Notes,
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a trip by primary key.
func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE id = @id`

	result, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

// ListByTraveler returns one traveler's trips in a given status, soonest first.
func (r *pgTripRepo) ListByTraveler(ctx context.Context, travelerID uuid.UUID, status domain.TripStatus) ([]domain.Trip, error) {
	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE traveler_id = @traveler_id AND status = @status
		ORDER BY departure_date ASC, created_at ASC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"traveler_id": travelerID, "status": string(status)})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListByTraveler: %w", err)
	}
	defer rows.Close()

	trips := []domain.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TripRepo.ListByTraveler: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListByTraveler: rows: %w", err)
	}
	return trips, nil
}

// Update overwrites the mutable fields of a trip and returns the updated record.
func (r *pgTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET from_city      = @from_city,
		    to_city        = @to_city,
		    departure_date = @departure_date,
		    notes          = @notes,
		    updated_at     = now()
		WHERE id = @id
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"id":             trip.ID,
		"from_city":      trip.FromCity,
		"to_city":        trip.ToCity,
		"departure_date": dateArg(trip.DepartureDate),
		"notes":          trip.Notes,
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}
	return result, nil
}

// SetStatus changes a trip's status.
func (r *pgTripRepo) SetStatus(ctx context.Context, id uuid.UUID, status domain.TripStatus) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET status = @status, updated_at = now()
		WHERE id = @id
		RETURNING ` + tripColumns

	result, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "status": string(status)}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.SetStatus: %w", err)
	}
	return result, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan helpers
// to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanTrip maps a single database row into a domain.Trip.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t         domain.Trip
		id        pgtype.UUID
		traveler  pgtype.UUID
		departure pgtype.Date
		status    string
	)

	err := s.Scan(&id, &traveler, &t.FromCity, &t.ToCity, &departure, &status, &t.Notes, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.TravelerID = uuid.UUID(traveler.Bytes)
	t.DepartureDate = departure.Time
	t.Status = domain.TripStatus(status)
	return t, nil
}
