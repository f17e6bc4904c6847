package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/carrylink/internal/domain"
	"github.com/pkordes/carrylink/internal/events"
	"github.com/pkordes/carrylink/internal/matching"
	"github.com/pkordes/carrylink/internal/repo"
)

// MatchService proposes matches between trips and shipment requests and moves
// them through their lifecycle. It also serves classification: candidate
// requests for a trip, and ad hoc batches of wire records.
type MatchService struct {
	trips      repo.TripRepo
	requests   repo.ShipmentRequestRepo
	matches    repo.MatchRepo
	classifier *matching.Classifier
	notifier   events.Notifier
	logger     *slog.Logger
	retry      RetryPolicy
	now        func() time.Time
}

// MatchServiceDeps groups MatchService's collaborators.
type MatchServiceDeps struct {
	Trips      repo.TripRepo
	Requests   repo.ShipmentRequestRepo
	Matches    repo.MatchRepo
	Classifier *matching.Classifier
	Notifier   events.Notifier
	Logger     *slog.Logger
	Retry      RetryPolicy
	// Now defaults to time.Now.
	Now func() time.Time
}

// NewMatchService constructs a MatchService.
func NewMatchService(d MatchServiceDeps) *MatchService {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	notifier := d.Notifier
	if notifier == nil {
		notifier = events.NewLogNotifier(logger)
	}
	return &MatchService{
		trips:      d.Trips,
		requests:   d.Requests,
		matches:    d.Matches,
		classifier: d.Classifier,
		notifier:   notifier,
		logger:     logger,
		retry:      d.Retry,
		now:        now,
	}
}

// Propose records a pending match between a trip and a shipment request on
// behalf of actor, who must own one of them.
//
// Returns domain.ErrUnauthorized if actor owns neither side,
// domain.ErrValidation if either side is no longer open, the request's window
// has passed, the traveler is the sender, or the pair is incompatible, and domain.ErrDuplicateMatch if a
// pending or accepted match already exists for the pair.
func (s *MatchService) Propose(ctx context.Context, actor, tripID, requestID uuid.UUID) (domain.Match, domain.MatchClassification, error) {
	trip, req, err := s.loadPair(ctx, tripID, requestID)
	if err != nil {
		return domain.Match{}, domain.MatchClassification{}, fmt.Errorf("service.MatchService.Propose: %w", err)
	}

	if actor != trip.TravelerID && actor != req.SenderID {
		return domain.Match{}, domain.MatchClassification{}, fmt.Errorf("service.MatchService.Propose: %w: only the traveler or the sender may propose", domain.ErrUnauthorized)
	}
	if trip.TravelerID == req.SenderID {
		return domain.Match{}, domain.MatchClassification{}, fmt.Errorf("%w: a traveler cannot carry their own shipment", domain.ErrValidation)
	}
	if !trip.IsOpen() {
		return domain.Match{}, domain.MatchClassification{}, fmt.Errorf("%w: trip is closed", domain.ErrValidation)
	}
	if req.Status != domain.ShipmentOpen {
		return domain.Match{}, domain.MatchClassification{}, fmt.Errorf("%w: shipment request is %s", domain.ErrValidation, req.Status)
	}
	if req.Expired(s.now()) {
		return domain.Match{}, domain.MatchClassification{}, fmt.Errorf("%w: shipment request has expired", domain.ErrValidation)
	}

	cls := s.classifier.Classify(trip, req)
	if !cls.MatchType.Compatible() {
		return domain.Match{}, cls, fmt.Errorf("%w: trip and shipment request are incompatible", domain.ErrValidation)
	}

	m, err := s.matches.Create(ctx, domain.Match{
		TripID:            trip.ID,
		ShipmentRequestID: req.ID,
		ProposedBy:        actor,
		Status:            domain.MatchPending,
	})
	if err != nil {
		return domain.Match{}, cls, fmt.Errorf("service.MatchService.Propose: %w", err)
	}

	s.logger.InfoContext(ctx, "match proposed",
		slog.String("match_id", m.ID.String()),
		slog.String("match_type", string(cls.MatchType)),
	)
	return m, cls, nil
}

// UpdateStatus moves a match to status on behalf of actor.
//
// The actor must be the trip's traveler or the request's sender. Accepting or
// rejecting is reserved to the party that did not propose; completing is open
// to either. The write is a compare-and-swap on the status read here and is
// not retried.
//
// Returns domain.ErrUnauthorized, domain.ErrInvalidTransition,
// domain.ErrConcurrentModification or domain.ErrNotFound.
func (s *MatchService) UpdateStatus(ctx context.Context, actor, matchID uuid.UUID, status domain.MatchStatus) (domain.Match, error) {
	if !status.Valid() {
		return domain.Match{}, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}

	m, err := read(ctx, s.retry, func(ctx context.Context) (domain.Match, error) {
		return s.matches.GetByID(ctx, matchID)
	})
	if err != nil {
		return domain.Match{}, fmt.Errorf("service.MatchService.UpdateStatus: %w", err)
	}
	trip, req, err := s.loadPair(ctx, m.TripID, m.ShipmentRequestID)
	if err != nil {
		return domain.Match{}, fmt.Errorf("service.MatchService.UpdateStatus: %w", err)
	}

	if actor != trip.TravelerID && actor != req.SenderID {
		return domain.Match{}, fmt.Errorf("service.MatchService.UpdateStatus: %w: not a party to this match", domain.ErrUnauthorized)
	}
	if (status == domain.MatchAccepted || status == domain.MatchRejected) && actor == m.ProposedBy {
		return domain.Match{}, fmt.Errorf("service.MatchService.UpdateStatus: %w: the proposer cannot %s their own proposal", domain.ErrUnauthorized, verb(status))
	}
	if m.Status.Terminal() {
		return domain.Match{}, fmt.Errorf("service.MatchService.UpdateStatus: %w: match is already %s", domain.ErrInvalidTransition, m.Status)
	}
	if !domain.CanTransition(m.Status, status) {
		return domain.Match{}, fmt.Errorf("service.MatchService.UpdateStatus: %w: %s to %s", domain.ErrInvalidTransition, m.Status, status)
	}

	updated, err := s.matches.CompareAndSwapStatus(ctx, m.ID, m.Status, status)
	if err != nil {
		return domain.Match{}, fmt.Errorf("service.MatchService.UpdateStatus: %w", err)
	}

	s.announce(ctx, updated, trip, req)
	return updated, nil
}

// announce publishes the lifecycle event for m's new status, if any.
// Delivery failures are logged; the status change already happened.
func (s *MatchService) announce(ctx context.Context, m domain.Match, trip domain.Trip, req domain.ShipmentRequest) {
	typ, ok := events.ForStatus(m.Status)
	if !ok {
		return
	}
	e := events.Event{
		Type:              typ,
		MatchID:           m.ID,
		TripID:            trip.ID,
		ShipmentRequestID: req.ID,
		TravelerID:        trip.TravelerID,
		SenderID:          req.SenderID,
		OccurredAt:        s.now().UTC(),
	}
	if err := s.notifier.Notify(ctx, e); err != nil {
		s.logger.WarnContext(ctx, "match event not delivered",
			slog.String("type", string(typ)),
			slog.String("match_id", m.ID.String()),
			slog.Any("error", err),
		)
	}
}

// GetByID returns a single match.
func (s *MatchService) GetByID(ctx context.Context, id uuid.UUID) (domain.Match, error) {
	m, err := read(ctx, s.retry, func(ctx context.Context) (domain.Match, error) {
		return s.matches.GetByID(ctx, id)
	})
	if err != nil {
		return domain.Match{}, fmt.Errorf("service.MatchService.GetByID: %w", err)
	}
	return m, nil
}

// ListByTrip returns every match for a trip, newest first.
// Returns domain.ErrNotFound if the trip does not exist.
func (s *MatchService) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Match, error) {
	ms, err := read(ctx, s.retry, func(ctx context.Context) ([]domain.Match, error) {
		if _, err := s.trips.GetByID(ctx, tripID); err != nil {
			return nil, err
		}
		return s.matches.ListByTrip(ctx, tripID)
	})
	if err != nil {
		return nil, fmt.Errorf("service.MatchService.ListByTrip: %w", err)
	}
	if ms == nil {
		return []domain.Match{}, nil
	}
	return ms, nil
}

// ListByShipmentRequest returns every match for a request, newest first.
// Returns domain.ErrNotFound if the request does not exist.
func (s *MatchService) ListByShipmentRequest(ctx context.Context, requestID uuid.UUID) ([]domain.Match, error) {
	ms, err := read(ctx, s.retry, func(ctx context.Context) ([]domain.Match, error) {
		if _, err := s.requests.GetByID(ctx, requestID); err != nil {
			return nil, err
		}
		return s.matches.ListByShipmentRequest(ctx, requestID)
	})
	if err != nil {
		return nil, fmt.Errorf("service.MatchService.ListByShipmentRequest: %w", err)
	}
	if ms == nil {
		return []domain.Match{}, nil
	}
	return ms, nil
}

// Candidates returns the open, unexpired requests compatible with a trip,
// best first. The traveler's own requests are left out.
func (s *MatchService) Candidates(ctx context.Context, tripID uuid.UUID) ([]matching.Candidate, error) {
	trip, err := read(ctx, s.retry, func(ctx context.Context) (domain.Trip, error) {
		return s.trips.GetByID(ctx, tripID)
	})
	if err != nil {
		return nil, fmt.Errorf("service.MatchService.Candidates: %w", err)
	}
	if !trip.IsOpen() {
		return []matching.Candidate{}, nil
	}

	filter := repo.OpenShipmentFilter{ExcludeSenderID: trip.TravelerID, AsOf: domain.DateOf(s.now())}
	requests, err := read(ctx, s.retry, func(ctx context.Context) ([]domain.ShipmentRequest, error) {
		items, _, err := s.requests.ListOpen(ctx, filter)
		return items, err
	})
	if err != nil {
		return nil, fmt.Errorf("service.MatchService.Candidates: %w", err)
	}

	candidates, err := s.classifier.ClassifyCandidates(ctx, trip, requests)
	if err != nil {
		return nil, fmt.Errorf("service.MatchService.Candidates: %w", err)
	}
	s.logger.DebugContext(ctx, "candidates classified",
		slog.String("trip_id", trip.ID.String()),
		slog.Int("open_requests", len(requests)),
		slog.Int("compatible", len(candidates)),
	)
	return candidates, nil
}

// BatchResult is the outcome of ClassifyBatch.
type BatchResult struct {
	// Classified holds one entry per request that parsed, in input order.
	Classified []matching.InputResult
	// Skipped holds the ids (or input positions, for records without an id)
	// of requests whose dates did not parse.
	Skipped []string
}

// ClassifyBatch classifies wire records. A malformed trip date fails the
// call with domain.ErrParse; a malformed request date skips that request
// and is logged.
func (s *MatchService) ClassifyBatch(ctx context.Context, trip matching.TripInput, requests []matching.RequestInput) (BatchResult, error) {
	if _, err := domain.ParseDate(trip.DepartureDate); err != nil {
		return BatchResult{}, fmt.Errorf("service.MatchService.ClassifyBatch: departure_date: %w", err)
	}

	out := BatchResult{Classified: []matching.InputResult{}, Skipped: []string{}}
	for i, r := range s.classifier.ClassifyInputs(trip, requests) {
		if r.Err != nil {
			ref := r.Request.ID
			if ref == "" {
				ref = fmt.Sprintf("#%d", i)
			}
			s.logger.WarnContext(ctx, "skipping unparseable shipment request",
				slog.String("request", ref),
				slog.Any("error", r.Err),
			)
			out.Skipped = append(out.Skipped, ref)
			continue
		}
		out.Classified = append(out.Classified, r)
	}
	return out, nil
}

func (s *MatchService) loadPair(ctx context.Context, tripID, requestID uuid.UUID) (domain.Trip, domain.ShipmentRequest, error) {
	trip, err := read(ctx, s.retry, func(ctx context.Context) (domain.Trip, error) {
		return s.trips.GetByID(ctx, tripID)
	})
	if err != nil {
		return domain.Trip{}, domain.ShipmentRequest{}, err
	}
	req, err := read(ctx, s.retry, func(ctx context.Context) (domain.ShipmentRequest, error) {
		return s.requests.GetByID(ctx, requestID)
	})
	if err != nil {
		return domain.Trip{}, domain.ShipmentRequest{}, err
	}
	return trip, req, nil
}

func verb(status domain.MatchStatus) string {
	if status == domain.MatchAccepted {
		return "accept"
	}
	return "reject"
}
