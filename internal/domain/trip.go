// Package domain contains the core data types for the Carrylink marketplace.
// This package has no dependencies on other internal packages and is imported
// by every other internal package (matching, repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// TripStatus is the lifecycle state of a Trip.
type TripStatus string

const (
	TripOpen   TripStatus = "open"
	TripClosed TripStatus = "closed"
)

// Trip is one journey a traveler intends to make with spare luggage capacity.
// DepartureDate is a single calendar date, never a range.
type Trip struct {
	ID            uuid.UUID  `json:"id"`
	TravelerID    uuid.UUID  `json:"traveler_id"`
	FromCity      string     `json:"from_city"`
	ToCity        string     `json:"to_city"`
	DepartureDate time.Time  `json:"departure_date"`
	Status        TripStatus `json:"status"`
	Notes         string     `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// IsOpen reports whether the trip still accepts new matches.
func (t Trip) IsOpen() bool {
	return t.Status == TripOpen
}
