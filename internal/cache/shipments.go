// Package cache holds read-through Redis caches placed in front of repos.
// A cache failure never fails the request: it is logged and the repo answers.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/pkordes/carrylink/internal/domain"
	"github.com/pkordes/carrylink/internal/repo"
)

const (
	keyPrefix     = "carrylink:shipments:open"
	generationKey = keyPrefix + ":gen"
)

// ShipmentRequests decorates a repo.ShipmentRequestRepo, caching ListOpen
// pages for ttl. Writes that change the open listing bump a generation
// counter, which orphans every cached page at once; orphans expire by TTL.
type ShipmentRequests struct {
	next   repo.ShipmentRequestRepo
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

var _ repo.ShipmentRequestRepo = (*ShipmentRequests)(nil)

// NewShipmentRequests wraps next with a Redis cache.
func NewShipmentRequests(next repo.ShipmentRequestRepo, client *redis.Client, ttl time.Duration, logger *slog.Logger) *ShipmentRequests {
	return &ShipmentRequests{next: next, client: client, ttl: ttl, logger: logger}
}

// openPage is the cached form of one ListOpen result.
type openPage struct {
	Items []domain.ShipmentRequest `json:"items"`
	Total int64                    `json:"total"`
}

func (c *ShipmentRequests) Create(ctx context.Context, req domain.ShipmentRequest) (domain.ShipmentRequest, error) {
	created, err := c.next.Create(ctx, req)
	if err != nil {
		return domain.ShipmentRequest{}, err
	}
	c.invalidate(ctx)
	return created, nil
}

func (c *ShipmentRequests) GetByID(ctx context.Context, id uuid.UUID) (domain.ShipmentRequest, error) {
	return c.next.GetByID(ctx, id)
}

// IncrementViewCount is passed through. Cached pages may show a view count
// that is behind by at most one TTL.
func (c *ShipmentRequests) IncrementViewCount(ctx context.Context, id uuid.UUID) (domain.ShipmentRequest, error) {
	return c.next.IncrementViewCount(ctx, id)
}

func (c *ShipmentRequests) ListOpen(ctx context.Context, f repo.OpenShipmentFilter) ([]domain.ShipmentRequest, int64, error) {
	key, err := c.pageKey(ctx, f)
	if err != nil {
		c.logger.WarnContext(ctx, "shipment cache: read generation", slog.Any("error", err))
		return c.next.ListOpen(ctx, f)
	}

	if page, ok := c.get(ctx, key); ok {
		return page.Items, page.Total, nil
	}

	items, total, err := c.next.ListOpen(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	c.set(ctx, key, openPage{Items: items, Total: total})
	return items, total, nil
}

// Invalidate drops every cached page. It is called when a request leaves the
// open listing outside this decorator, such as when its match completes.
func (c *ShipmentRequests) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		return fmt.Errorf("cache.ShipmentRequests.Invalidate: %w", err)
	}
	return nil
}

func (c *ShipmentRequests) invalidate(ctx context.Context) {
	if err := c.Invalidate(ctx); err != nil {
		c.logger.WarnContext(ctx, "shipment cache: invalidate", slog.Any("error", err))
	}
}

func (c *ShipmentRequests) pageKey(ctx context.Context, f repo.OpenShipmentFilter) (string, error) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}

	page, limit := 0, 0
	if f.Page != nil {
		page, limit = f.Page.Page, f.Page.Limit
	}
	return fmt.Sprintf("%s:%d:%s:%s:%d:%d", keyPrefix, gen, f.ExcludeSenderID, domain.FormatDate(f.AsOf), page, limit), nil
}

func (c *ShipmentRequests) get(ctx context.Context, key string) (openPage, bool) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WarnContext(ctx, "shipment cache: get", slog.String("key", key), slog.Any("error", err))
		}
		return openPage{}, false
	}

	var page openPage
	if err := json.Unmarshal(raw, &page); err != nil {
		c.logger.WarnContext(ctx, "shipment cache: decode", slog.String("key", key), slog.Any("error", err))
		return openPage{}, false
	}
	return page, true
}

func (c *ShipmentRequests) set(ctx context.Context, key string, page openPage) {
	raw, err := json.Marshal(page)
	if err != nil {
		c.logger.WarnContext(ctx, "shipment cache: encode", slog.Any("error", err))
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "shipment cache: set", slog.String("key", key), slog.Any("error", err))
	}
}
