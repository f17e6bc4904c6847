// Package events announces match lifecycle changes to collaborators outside
// this service (messaging threads, notification delivery). Delivery is
// best effort: callers log a failed Notify and carry on.
package events

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/carrylink/internal/domain"
)

// Type names an event on the wire.
type Type string

const (
	MatchAccepted  Type = "match.accepted"
	MatchCompleted Type = "match.completed"
)

// Event is the payload published for a match status change.
type Event struct {
	Type              Type      `json:"type"`
	MatchID           uuid.UUID `json:"match_id"`
	TripID            uuid.UUID `json:"trip_id"`
	ShipmentRequestID uuid.UUID `json:"shipment_request_id"`
	TravelerID        uuid.UUID `json:"traveler_id"`
	SenderID          uuid.UUID `json:"sender_id"`
	OccurredAt        time.Time `json:"occurred_at"`
}

// ForStatus returns the event type announced when a match enters status,
// and false for statuses nobody subscribes to.
func ForStatus(status domain.MatchStatus) (Type, bool) {
	switch status {
	case domain.MatchAccepted:
		return MatchAccepted, true
	case domain.MatchCompleted:
		return MatchCompleted, true
	}
	return "", false
}

// Notifier delivers events.
type Notifier interface {
	Notify(ctx context.Context, e Event) error
}

// NotifierFunc adapts a plain function to Notifier.
type NotifierFunc func(ctx context.Context, e Event) error

func (f NotifierFunc) Notify(ctx context.Context, e Event) error {
	return f(ctx, e)
}

// Fanout delivers each event to every notifier in order. One failing
// notifier does not stop the rest; their errors are joined.
type Fanout []Notifier

func (f Fanout) Notify(ctx context.Context, e Event) error {
	var errs []error
	for _, n := range f {
		if err := n.Notify(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogNotifier writes events to a structured logger. It is the notifier used
// when Redis is not configured.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a LogNotifier writing to logger.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, e Event) error {
	n.logger.InfoContext(ctx, "match event",
		slog.String("type", string(e.Type)),
		slog.String("match_id", e.MatchID.String()),
		slog.String("trip_id", e.TripID.String()),
		slog.String("shipment_request_id", e.ShipmentRequestID.String()),
	)
	return nil
}
