package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ShipmentStatus is the lifecycle state of a ShipmentRequest.
type ShipmentStatus string

const (
	ShipmentOpen      ShipmentStatus = "open"
	ShipmentCompleted ShipmentStatus = "completed"
)

// ShipmentRequest is a sender's package that needs carrying between two cities
// inside an inclusive date window. A nil bound means the window is open on
// that side, and a request with either bound missing matches any date.
type ShipmentRequest struct {
	ID           uuid.UUID      `json:"id"`
	SenderID     uuid.UUID      `json:"sender_id"`
	FromCity     string         `json:"from_city"`
	ToCity       string         `json:"to_city"`
	EarliestDate *time.Time     `json:"earliest_date,omitempty"`
	LatestDate   *time.Time     `json:"latest_date,omitempty"`
	ItemType     string         `json:"item_type"`
	WeightKg     float64        `json:"weight_kg"`
	Notes        string         `json:"notes,omitempty"`
	ImageURL     *string        `json:"image_url,omitempty"`
	ViewCount    int            `json:"view_count"`
	Price        *float64       `json:"price,omitempty"`
	Status       ShipmentStatus `json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// Expired reports whether the request's window closed before asOf.
// Requests without a latest date never expire.
func (r ShipmentRequest) Expired(asOf time.Time) bool {
	return r.LatestDate != nil && DateOf(*r.LatestDate).Before(DateOf(asOf))
}

// itemImages maps the known item categories to their representative image.
var itemImages = map[string]string{
	"documents":   "/images/items/documents.png",
	"electronics": "/images/items/electronics.png",
	"clothes":     "/images/items/clothes.png",
	"food":        "/images/items/food.png",
	"medicine":    "/images/items/medicine.png",
}

const defaultItemImage = "/images/items/other.png"

// DisplayImage returns the uploaded image when present, otherwise the
// representative image for the request's item type.
func (r ShipmentRequest) DisplayImage() string {
	if r.ImageURL != nil && *r.ImageURL != "" {
		return *r.ImageURL
	}
	return ItemImage(r.ItemType)
}

// ItemImage returns the representative image for a free-text item category.
func ItemImage(itemType string) string {
	if img, ok := itemImages[strings.ToLower(strings.TrimSpace(itemType))]; ok {
		return img
	}
	return defaultItemImage
}
