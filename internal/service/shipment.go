package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/carrylink/internal/domain"
	"github.com/pkordes/carrylink/internal/repo"
)

// ShipmentService implements business logic for ShipmentRequest operations.
type ShipmentService struct {
	requests repo.ShipmentRequestRepo
	cities   CityDirectory
	retry    RetryPolicy
}

// NewShipmentService constructs a ShipmentService backed by the provided repo.
func NewShipmentService(requests repo.ShipmentRequestRepo, cities CityDirectory, retry RetryPolicy) *ShipmentService {
	return &ShipmentService{requests: requests, cities: cities, retry: retry}
}

// Create validates and persists a new shipment request.
// Returns domain.ErrValidation if input violates business rules.
func (s *ShipmentService) Create(ctx context.Context, req domain.ShipmentRequest) (domain.ShipmentRequest, error) {
	req = normalizeShipment(req)
	if err := s.validateShipment(req); err != nil {
		return domain.ShipmentRequest{}, err
	}
	result, err := s.requests.Create(ctx, req)
	if err != nil {
		return domain.ShipmentRequest{}, fmt.Errorf("service.ShipmentService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single request without counting a view.
func (s *ShipmentService) GetByID(ctx context.Context, id uuid.UUID) (domain.ShipmentRequest, error) {
	result, err := read(ctx, s.retry, func(ctx context.Context) (domain.ShipmentRequest, error) {
		return s.requests.GetByID(ctx, id)
	})
	if err != nil {
		return domain.ShipmentRequest{}, fmt.Errorf("service.ShipmentService.GetByID: %w", err)
	}
	return result, nil
}

// View returns a single request and counts the view. The increment is a
// write, so it is not retried.
func (s *ShipmentService) View(ctx context.Context, id uuid.UUID) (domain.ShipmentRequest, error) {
	result, err := s.requests.IncrementViewCount(ctx, id)
	if err != nil {
		return domain.ShipmentRequest{}, fmt.Errorf("service.ShipmentService.View: %w", err)
	}
	return result, nil
}

// ListOpen returns open requests not posted by excludeUser and not expired as
// of asOf, newest first, with the total row count for pagination.
// Always returns a non-nil slice so callers can safely range over it.
func (s *ShipmentService) ListOpen(ctx context.Context, excludeUser uuid.UUID, asOf time.Time, page *domain.PaginationParams) ([]domain.ShipmentRequest, int64, error) {
	type listing struct {
		items []domain.ShipmentRequest
		total int64
	}

	filter := repo.OpenShipmentFilter{ExcludeSenderID: excludeUser, AsOf: domain.DateOf(asOf), Page: page}
	got, err := read(ctx, s.retry, func(ctx context.Context) (listing, error) {
		items, total, err := s.requests.ListOpen(ctx, filter)
		return listing{items: items, total: total}, err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("service.ShipmentService.ListOpen: %w", err)
	}
	if got.items == nil {
		return []domain.ShipmentRequest{}, got.total, nil
	}
	return got.items, got.total, nil
}

func normalizeShipment(r domain.ShipmentRequest) domain.ShipmentRequest {
	r.FromCity = strings.TrimSpace(r.FromCity)
	r.ToCity = strings.TrimSpace(r.ToCity)
	r.ItemType = strings.ToLower(strings.TrimSpace(r.ItemType))
	if r.ItemType == "" {
		r.ItemType = "other"
	}
	r.Notes = strings.TrimSpace(r.Notes)
	if r.ImageURL != nil && strings.TrimSpace(*r.ImageURL) == "" {
		r.ImageURL = nil
	}
	if r.EarliestDate != nil {
		d := domain.DateOf(*r.EarliestDate)
		r.EarliestDate = &d
	}
	if r.LatestDate != nil {
		d := domain.DateOf(*r.LatestDate)
		r.LatestDate = &d
	}
	return r
}

// validateShipment enforces the request rules:
//   - The sender must be set.
//   - Both cities must be known and different.
//   - earliest_date must not be after latest_date when both are set.
//   - weight_kg must be positive; price, when set, must not be negative.
func (s *ShipmentService) validateShipment(r domain.ShipmentRequest) error {
	if r.SenderID == uuid.Nil {
		return fmt.Errorf("%w: sender_id is required", domain.ErrValidation)
	}
	if err := validateRoute(s.cities, r.FromCity, r.ToCity); err != nil {
		return err
	}
	if r.EarliestDate != nil && r.LatestDate != nil && r.EarliestDate.After(*r.LatestDate) {
		return fmt.Errorf("%w: earliest_date must not be after latest_date", domain.ErrValidation)
	}
	if r.WeightKg <= 0 {
		return fmt.Errorf("%w: weight_kg must be positive", domain.ErrValidation)
	}
	if r.Price != nil && *r.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", domain.ErrValidation)
	}
	return nil
}
