package matching

import (
	"context"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/pkordes/carrylink/internal/domain"
)

// Candidate is a shipment request found compatible with a trip.
type Candidate struct {
	Request        domain.ShipmentRequest
	Classification domain.MatchClassification
}

// ClassifyCandidates classifies every request against trip in parallel and
// returns the compatible ones, best first. Ordering: match type rank, then
// smaller date difference, then earlier latest date (unbounded windows last),
// then request id for a stable result.
//
// The only error is ctx's, when it is cancelled before all pairs are done.
func (c *Classifier) ClassifyCandidates(ctx context.Context, trip domain.Trip, requests []domain.ShipmentRequest) ([]Candidate, error) {
	results := make([]domain.MatchClassification, len(requests))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range requests {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = c.Classify(trip, requests[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]Candidate, 0, len(requests))
	for i, cls := range results {
		if cls.MatchType.Compatible() {
			out = append(out, Candidate{Request: requests[i], Classification: cls})
		}
	}
	SortCandidates(out)
	return out, nil
}

// SortCandidates orders candidates best first, in place.
func SortCandidates(cs []Candidate) {
	sort.SliceStable(cs, func(i, j int) bool {
		a, b := cs[i], cs[j]
		if ra, rb := a.Classification.MatchType.Rank(), b.Classification.MatchType.Rank(); ra != rb {
			return ra < rb
		}
		if a.Classification.DateDifference != b.Classification.DateDifference {
			return a.Classification.DateDifference < b.Classification.DateDifference
		}
		la, lb := a.Request.LatestDate, b.Request.LatestDate
		switch {
		case la != nil && lb == nil:
			return true
		case la == nil && lb != nil:
			return false
		case la != nil && lb != nil && !la.Equal(*lb):
			return la.Before(*lb)
		}
		return a.Request.ID.String() < b.Request.ID.String()
	})
}

// InputResult is the outcome for one wire record in ClassifyInputs.
// Exactly one of Classification and Err is meaningful.
type InputResult struct {
	Request        RequestInput
	Classification domain.MatchClassification
	Err            error
}

// ClassifyInputs classifies one wire trip against many wire requests. A pair
// that fails to parse carries its error and does not affect the others.
func (c *Classifier) ClassifyInputs(trip TripInput, requests []RequestInput) []InputResult {
	out := make([]InputResult, len(requests))
	for i, r := range requests {
		cls, err := c.ClassifyInput(trip, r)
		out[i] = InputResult{Request: r, Classification: cls, Err: err}
	}
	return out
}
