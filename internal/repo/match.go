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

// uniqueViolation is the SQLSTATE Postgres reports for a unique index conflict.
const uniqueViolation = "23505"

// activePairIndex is the partial unique index allowing one live match per pair.
const activePairIndex = "matches_active_pair_idx"

// MatchRepo defines the persistence operations for Matches.
type MatchRepo interface {
	// Create inserts a pending match.
	// Returns domain.ErrDuplicateMatch if a pending or accepted match already
	// exists for the same trip and shipment request.
	Create(ctx context.Context, m domain.Match) (domain.Match, error)

	// GetByID retrieves a single match.
	// Returns domain.ErrNotFound if no match with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Match, error)

	// ListByTrip returns every match for a trip, newest first.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Match, error)

	// ListByShipmentRequest returns every match for a request, newest first.
	ListByShipmentRequest(ctx context.Context, requestID uuid.UUID) ([]domain.Match, error)

	// HasStatus reports whether the trip has at least one match in any of statuses.
	HasStatus(ctx context.Context, tripID uuid.UUID, statuses ...domain.MatchStatus) (bool, error)

	// CompareAndSwapStatus moves the match from `from` to `to` only if its stored
	// status is still `from`. Moving to completed also marks the shipment request
	// completed, in the same statement.
	// Returns domain.ErrConcurrentModification if the stored status differs,
	// domain.ErrNotFound if the match does not exist.
	CompareAndSwapStatus(ctx context.Context, id uuid.UUID, from, to domain.MatchStatus) (domain.Match, error)
}

// pgMatchRepo is the Postgres implementation of MatchRepo.
type pgMatchRepo struct {
	db db
}

// NewMatchRepo constructs a MatchRepo backed by the provided db connection.
func NewMatchRepo(db db) MatchRepo {
	return &pgMatchRepo{db: db}
}

const matchColumns = `id, trip_id, shipment_request_id, proposed_by, status, created_at, updated_at`

func (r *pgMatchRepo) Create(ctx context.Context, m domain.Match) (domain.Match, error) {
	const q = `
		INSERT INTO matches (trip_id, shipment_request_id, proposed_by, status)
		VALUES (@trip_id, @shipment_request_id, @proposed_by, 'pending')
		RETURNING ` + matchColumns

	args := pgx.NamedArgs{
		"trip_id":             m.TripID,
		"shipment_request_id": m.ShipmentRequestID,
		"proposed_by":         m.ProposedBy,
	}

	result, err := scanMatch(r.db.QueryRow(ctx, q, args))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == activePairIndex {
			err = domain.ErrDuplicateMatch
		}
		return domain.Match{}, fmt.Errorf("repo.MatchRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgMatchRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Match, error) {
	const q = `SELECT ` + matchColumns + ` FROM matches WHERE id = @id`

	result, err := scanMatch(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Match{}, fmt.Errorf("repo.MatchRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgMatchRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Match, error) {
	const q = `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE trip_id = @id
		ORDER BY created_at DESC`

	ms, err := r.list(ctx, q, tripID)
	if err != nil {
		return nil, fmt.Errorf("repo.MatchRepo.ListByTrip: %w", err)
	}
	return ms, nil
}

func (r *pgMatchRepo) ListByShipmentRequest(ctx context.Context, requestID uuid.UUID) ([]domain.Match, error) {
	const q = `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE shipment_request_id = @id
		ORDER BY created_at DESC`

	ms, err := r.list(ctx, q, requestID)
	if err != nil {
		return nil, fmt.Errorf("repo.MatchRepo.ListByShipmentRequest: %w", err)
	}
	return ms, nil
}

func (r *pgMatchRepo) list(ctx context.Context, q string, id uuid.UUID) ([]domain.Match, error) {
	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := []domain.Match{}
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return matches, nil
}

func (r *pgMatchRepo) HasStatus(ctx context.Context, tripID uuid.UUID, statuses ...domain.MatchStatus) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM matches WHERE trip_id = @trip_id AND status = ANY(@statuses))`

	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"trip_id": tripID, "statuses": names}).Scan(&exists); err != nil {
		return false, fmt.Errorf("repo.MatchRepo.HasStatus: %w", err)
	}
	return exists, nil
}

// CompareAndSwapStatus runs the guarded update and the request completion as one
// statement. When the guard fails, a follow-up read tells a missing row apart
// from a status that moved underneath the caller.
func (r *pgMatchRepo) CompareAndSwapStatus(ctx context.Context, id uuid.UUID, from, to domain.MatchStatus) (domain.Match, error) {
	const q = `
		WITH swapped AS (
			UPDATE matches
			SET status = @to, updated_at = now()
			WHERE id = @id AND status = @from
			RETURNING ` + matchColumns + `
		), completed AS (
			UPDATE shipment_requests
			SET status = 'completed', updated_at = now()
			WHERE @to = 'completed'
			  AND id IN (SELECT shipment_request_id FROM swapped)
		)
		SELECT ` + matchColumns + ` FROM swapped`

	args := pgx.NamedArgs{"id": id, "from": string(from), "to": string(to)}

	result, err := scanMatch(r.db.QueryRow(ctx, q, args))
	if err == nil {
		return result, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Match{}, fmt.Errorf("repo.MatchRepo.CompareAndSwapStatus: %w", err)
	}
	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return domain.Match{}, fmt.Errorf("repo.MatchRepo.CompareAndSwapStatus: %w", getErr)
	}
	return domain.Match{}, fmt.Errorf("repo.MatchRepo.CompareAndSwapStatus: %w", domain.ErrConcurrentModification)
}

// scanMatch maps a single database row into a domain.Match.
func scanMatch(s scanner) (domain.Match, error) {
	var (
		m        domain.Match
		id       pgtype.UUID
		tripID   pgtype.UUID
		reqID    pgtype.UUID
		proposer pgtype.UUID
		status   string
	)

	err := s.Scan(&id, &tripID, &reqID, &proposer, &status, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Match{}, domain.ErrNotFound
		}
		return domain.Match{}, err
	}

	m.ID = uuid.UUID(id.Bytes)
	m.TripID = uuid.UUID(tripID.Bytes)
	m.ShipmentRequestID = uuid.UUID(reqID.Bytes)
	m.ProposedBy = uuid.UUID(proposer.Bytes)
	m.Status = domain.MatchStatus(status)
	return m, nil
}
