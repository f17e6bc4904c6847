package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/carrylink/internal/domain"
)

// OpenShipmentFilter selects the open shipment requests shown to a traveler.
type OpenShipmentFilter struct {
	// ExcludeSenderID hides the acting user's own requests. uuid.Nil hides nothing.
	ExcludeSenderID uuid.UUID
	// AsOf drops requests whose latest_date is before this calendar date.
	AsOf time.Time
	// Page limits the result. A nil Page returns every matching row.
	Page *domain.PaginationParams
}

// ShipmentRequestRepo defines the persistence operations for ShipmentRequests.
type ShipmentRequestRepo interface {
	// Create inserts a new request and returns the persisted record.
	Create(ctx context.Context, req domain.ShipmentRequest) (domain.ShipmentRequest, error)

	// GetByID retrieves a single request.
	// Returns domain.ErrNotFound if no request with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.ShipmentRequest, error)

	// ListOpen returns open, unexpired requests newest first, plus the total
	// number of rows matching the filter regardless of paging.
	ListOpen(ctx context.Context, f OpenShipmentFilter) ([]domain.ShipmentRequest, int64, error)

	// IncrementViewCount bumps view_count by one and returns the updated record.
	// Returns domain.ErrNotFound if no request with that ID exists.
	IncrementViewCount(ctx context.Context, id uuid.UUID) (domain.ShipmentRequest, error)
}

// pgShipmentRequestRepo is the Postgres implementation of ShipmentRequestRepo.
type pgShipmentRequestRepo struct {
	db db
}

// NewShipmentRequestRepo constructs a ShipmentRequestRepo backed by the provided db connection.
func NewShipmentRequestRepo(db db) ShipmentRequestRepo {
	return &pgShipmentRequestRepo{db: db}
}

const shipmentColumns = `id, sender_id, from_city, to_city, earliest_date, latest_date, item_type,
	weight_kg, notes, image_url, view_count, price, status, created_at, updated_at`

func (r *pgShipmentRequestRepo) Create(ctx context.Context, req domain.ShipmentRequest) (domain.ShipmentRequest, error) {
	const q = `
		INSERT INTO shipment_requests
			(sender_id, from_city, to_city, earliest_date, latest_date, item_type, weight_kg, notes, image_url, price)
		VALUES
			(@sender_id, @from_city, @to_city, @earliest_date, @latest_date, @item_type, @weight_kg, @notes, @image_url, @price)
		RETURNING ` + shipmentColumns

	args := pgx.NamedArgs{
		"sender_id":     req.SenderID,
		"from_city":     req.FromCity,
		"to_city":       req.ToCity,
		"earliest_date": optionalDateArg(req.EarliestDate),
		"latest_date":   optionalDateArg(req.LatestDate),
		"item_type":     req.ItemType,
		"weight_kg":     req.WeightKg,
		"notes":         req.Notes,
		"image_url":     req.ImageURL, // nil becomes NULL
		"price":         req.Price,
	}

	result, err := scanShipment(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.ShipmentRequest{}, fmt.Errorf("repo.ShipmentRequestRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgShipmentRequestRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.ShipmentRequest, error) {
	const q = `SELECT ` + shipmentColumns + ` FROM shipment_requests WHERE id = @id`

	result, err := scanShipment(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.ShipmentRequest{}, fmt.Errorf("repo.ShipmentRequestRepo.GetByID: %w", err)
	}
	return result, nil
}

// ListOpen uses a COUNT(*) OVER () window so one round trip yields both the
// page and the total. LIMIT NULL means no limit in Postgres.
func (r *pgShipmentRequestRepo) ListOpen(ctx context.Context, f OpenShipmentFilter) ([]domain.ShipmentRequest, int64, error) {
	const q = `
		SELECT ` + shipmentColumns + `, COUNT(*) OVER () AS total
		FROM shipment_requests
		WHERE status = 'open'
		  AND sender_id <> @exclude_sender_id
		  AND (latest_date IS NULL OR latest_date >= @as_of)
		ORDER BY created_at DESC, id
		LIMIT @limit OFFSET @offset`

	args := pgx.NamedArgs{
		"exclude_sender_id": f.ExcludeSenderID,
		"as_of":             dateArg(f.AsOf),
		"limit":             nil,
		"offset":            0,
	}
	if f.Page != nil {
		args["limit"] = f.Page.Limit
		args["offset"] = f.Page.Offset()
	}

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.ShipmentRequestRepo.ListOpen: %w", err)
	}
	defer rows.Close()

	var total int64
	reqs := []domain.ShipmentRequest{}
	for rows.Next() {
		req, err := scanShipment(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.ShipmentRequestRepo.ListOpen: scan: %w", err)
		}
		reqs = append(reqs, req)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.ShipmentRequestRepo.ListOpen: rows: %w", err)
	}
	return reqs, total, nil
}

func (r *pgShipmentRequestRepo) IncrementViewCount(ctx context.Context, id uuid.UUID) (domain.ShipmentRequest, error) {
	const q = `
		UPDATE shipment_requests
		SET view_count = view_count + 1
		WHERE id = @id
		RETURNING ` + shipmentColumns

	result, err := scanShipment(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.ShipmentRequest{}, fmt.Errorf("repo.ShipmentRequestRepo.IncrementViewCount: %w", err)
	}
	return result, nil
}

// scanShipment maps a row into a domain.ShipmentRequest. Extra destinations
// (such as a window total) are scanned after the standard columns.
func scanShipment(s scanner, extra ...any) (domain.ShipmentRequest, error) {
	var (
		req      domain.ShipmentRequest
		id       pgtype.UUID
		sender   pgtype.UUID
		earliest pgtype.Date
		latest   pgtype.Date
		status   string
	)

	dest := []any{
		&id, &sender, &req.FromCity, &req.ToCity, &earliest, &latest, &req.ItemType,
		&req.WeightKg, &req.Notes, &req.ImageURL, &req.ViewCount, &req.Price, &status,
		&req.CreatedAt, &req.UpdatedAt,
	}
	if err := s.Scan(append(dest, extra...)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ShipmentRequest{}, domain.ErrNotFound
		}
		return domain.ShipmentRequest{}, err
	}

	req.ID = uuid.UUID(id.Bytes)
	req.SenderID = uuid.UUID(sender.Bytes)
	req.EarliestDate = optionalDate(earliest)
	req.LatestDate = optionalDate(latest)
	req.Status = domain.ShipmentStatus(status)
	return req, nil
}
