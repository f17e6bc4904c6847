package domain

import (
	"time"

	"github.com/google/uuid"
)

// MatchStatus is the lifecycle state of a Match.
//
//	pending ──► accepted ──► completed
//	   │
//	   └──────► rejected
type MatchStatus string

const (
	MatchPending   MatchStatus = "pending"
	MatchAccepted  MatchStatus = "accepted"
	MatchRejected  MatchStatus = "rejected"
	MatchCompleted MatchStatus = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s MatchStatus) Valid() bool {
	switch s {
	case MatchPending, MatchAccepted, MatchRejected, MatchCompleted:
		return true
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s MatchStatus) Terminal() bool {
	return s == MatchRejected || s == MatchCompleted
}

// CanTransition reports whether from→to is an allowed status change.
func CanTransition(from, to MatchStatus) bool {
	switch from {
	case MatchPending:
		return to == MatchAccepted || to == MatchRejected
	case MatchAccepted:
		return to == MatchCompleted
	}
	return false
}

// Match is a proposed pairing between one Trip and one ShipmentRequest.
// ProposedBy is the user who created the proposal; accept and reject must
// come from the other party.
type Match struct {
	ID                uuid.UUID   `json:"id"`
	TripID            uuid.UUID   `json:"trip_id"`
	ShipmentRequestID uuid.UUID   `json:"shipment_request_id"`
	ProposedBy        uuid.UUID   `json:"proposed_by"`
	Status            MatchStatus `json:"status"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}
