package handler

import (
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/carrylink/internal/domain"
)

// Pagination describes one page of a list response.
type Pagination struct {
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	Total   int  `json:"total"`
	HasMore bool `json:"has_more"`
}

// ---- trips -----------------------------------------------------------------

// Trip is the wire form of domain.Trip.
type Trip struct {
	ID            uuid.UUID          `json:"id"`
	TravelerID    uuid.UUID          `json:"traveler_id"`
	FromCity      string             `json:"from_city"`
	ToCity        string             `json:"to_city"`
	DepartureDate openapi_types.Date `json:"departure_date"`
	Status        string             `json:"status"`
	Notes         string             `json:"notes,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// TripInput is the body of POST /trips and PATCH /trips/{id}.
type TripInput struct {
	FromCity      string              `json:"from_city"`
	ToCity        string              `json:"to_city"`
	DepartureDate *openapi_types.Date `json:"departure_date"`
	Notes         string              `json:"notes"`
}

func tripToResponse(t domain.Trip) Trip {
	return Trip{
		ID:            t.ID,
		TravelerID:    t.TravelerID,
		FromCity:      t.FromCity,
		ToCity:        t.ToCity,
		DepartureDate: openapi_types.Date{Time: t.DepartureDate},
		Status:        string(t.Status),
		Notes:         t.Notes,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

// toDomain leaves a missing departure date zero; the service rejects it.
func (in TripInput) toDomain(id, traveler uuid.UUID) domain.Trip {
	t := domain.Trip{
		ID:         id,
		TravelerID: traveler,
		FromCity:   in.FromCity,
		ToCity:     in.ToCity,
		Notes:      in.Notes,
	}
	if in.DepartureDate != nil {
		t.DepartureDate = in.DepartureDate.Time
	}
	return t
}

// ---- shipment requests -----------------------------------------------------

// ShipmentRequest is the wire form of domain.ShipmentRequest. DisplayImage
// is image_url, or the item type's representative picture when unset.
type ShipmentRequest struct {
	ID           uuid.UUID           `json:"id"`
	SenderID     uuid.UUID           `json:"sender_id"`
	FromCity     string              `json:"from_city"`
	ToCity       string              `json:"to_city"`
	EarliestDate *openapi_types.Date `json:"earliest_date"`
	LatestDate   *openapi_types.Date `json:"latest_date"`
	ItemType     string              `json:"item_type"`
	WeightKg     float64             `json:"weight_kg"`
	Notes        string              `json:"notes,omitempty"`
	ImageURL     *string             `json:"image_url"`
	DisplayImage string              `json:"display_image"`
	ViewCount    int                 `json:"view_count"`
	Price        *float64            `json:"price"`
	Status       string              `json:"status"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// ShipmentRequestInput is the body of POST /shipment-requests.
type ShipmentRequestInput struct {
	FromCity     string              `json:"from_city"`
	ToCity       string              `json:"to_city"`
	EarliestDate *openapi_types.Date `json:"earliest_date"`
	LatestDate   *openapi_types.Date `json:"latest_date"`
	ItemType     string              `json:"item_type"`
	WeightKg     float64             `json:"weight_kg"`
	Notes        string              `json:"notes"`
	ImageURL     *string             `json:"image_url"`
	Price        *float64            `json:"price"`
}

// ShipmentRequestList is the body of GET /shipment-requests.
type ShipmentRequestList struct {
	Data       []ShipmentRequest `json:"data"`
	Pagination Pagination        `json:"pagination"`
}

func shipmentToResponse(r domain.ShipmentRequest) ShipmentRequest {
	return ShipmentRequest{
		ID:           r.ID,
		SenderID:     r.SenderID,
		FromCity:     r.FromCity,
		ToCity:       r.ToCity,
		EarliestDate: toWireDate(r.EarliestDate),
		LatestDate:   toWireDate(r.LatestDate),
		ItemType:     r.ItemType,
		WeightKg:     r.WeightKg,
		Notes:        r.Notes,
		ImageURL:     r.ImageURL,
		DisplayImage: r.DisplayImage(),
		ViewCount:    r.ViewCount,
		Price:        r.Price,
		Status:       string(r.Status),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func (in ShipmentRequestInput) toDomain(sender uuid.UUID) domain.ShipmentRequest {
	return domain.ShipmentRequest{
		SenderID:     sender,
		FromCity:     in.FromCity,
		ToCity:       in.ToCity,
		EarliestDate: fromWireDate(in.EarliestDate),
		LatestDate:   fromWireDate(in.LatestDate),
		ItemType:     in.ItemType,
		WeightKg:     in.WeightKg,
		Notes:        in.Notes,
		ImageURL:     in.ImageURL,
		Price:        in.Price,
	}
}

// ---- matches ---------------------------------------------------------------

// Match is the wire form of domain.Match. Classification is only present on
// the response to a proposal.
type Match struct {
	ID                uuid.UUID                   `json:"id"`
	TripID            uuid.UUID                   `json:"trip_id"`
	ShipmentRequestID uuid.UUID                   `json:"shipment_request_id"`
	ProposedBy        uuid.UUID                   `json:"proposed_by"`
	Status            string                      `json:"status"`
	Classification    *domain.MatchClassification `json:"classification,omitempty"`
	CreatedAt         time.Time                   `json:"created_at"`
	UpdatedAt         time.Time                   `json:"updated_at"`
}

// ProposeMatchInput is the body of POST /matches.
type ProposeMatchInput struct {
	TripID            uuid.UUID `json:"trip_id"`
	ShipmentRequestID uuid.UUID `json:"shipment_request_id"`
}

// UpdateMatchInput is the body of PATCH /matches/{id}.
type UpdateMatchInput struct {
	Status string `json:"status"`
}

// Candidate pairs an open shipment request with its classification.
type Candidate struct {
	ShipmentRequest ShipmentRequest            `json:"shipment_request"`
	Classification  domain.MatchClassification `json:"classification"`
}

func matchToResponse(m domain.Match) Match {
	return Match{
		ID:                m.ID,
		TripID:            m.TripID,
		ShipmentRequestID: m.ShipmentRequestID,
		ProposedBy:        m.ProposedBy,
		Status:            string(m.Status),
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func matchesToResponse(ms []domain.Match) []Match {
	out := make([]Match, len(ms))
	for i, m := range ms {
		out[i] = matchToResponse(m)
	}
	return out
}

// ---- dates -----------------------------------------------------------------

func toWireDate(t *time.Time) *openapi_types.Date {
	if t == nil {
		return nil
	}
	return &openapi_types.Date{Time: *t}
}

func fromWireDate(d *openapi_types.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}
