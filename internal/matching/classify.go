package matching

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkordes/carrylink/internal/domain"
)

// DefaultThresholdDays is how far outside a request's window a departure may
// fall and still count as a flexible-date match.
const DefaultThresholdDays = 3

// Classifier holds the static inputs of classification: the region table and
// the flexible-date threshold. It is safe for concurrent use.
type Classifier struct {
	regions   *RegionTable
	threshold int
}

// NewClassifier returns a Classifier. A nil table means no city belongs to
// any region; a negative threshold is clamped to zero.
func NewClassifier(regions *RegionTable, thresholdDays int) *Classifier {
	if thresholdDays < 0 {
		thresholdDays = 0
	}
	return &Classifier{regions: regions, threshold: thresholdDays}
}

// Threshold returns the flexible-date tolerance in days.
func (c *Classifier) Threshold() int { return c.threshold }

// Regions returns the region table the classifier consults.
func (c *Classifier) Regions() *RegionTable { return c.regions }

// Route is the part of a trip or request the classifier reads.
type Route struct {
	FromCity string
	ToCity   string
}

// Classify compares a trip against a shipment request.
func (c *Classifier) Classify(trip domain.Trip, req domain.ShipmentRequest) domain.MatchClassification {
	return c.classify(
		Route{FromCity: trip.FromCity, ToCity: trip.ToCity}, trip.DepartureDate,
		Route{FromCity: req.FromCity, ToCity: req.ToCity}, req.EarliestDate, req.LatestDate,
	)
}

// TripInput is a trip as received on the wire, dates as YYYY-MM-DD.
type TripInput struct {
	FromCity      string `json:"from_city"`
	ToCity        string `json:"to_city"`
	DepartureDate string `json:"departure_date"`
}

// RequestInput is a shipment request as received on the wire. An empty date
// string is a missing bound.
type RequestInput struct {
	ID           string `json:"id,omitempty"`
	FromCity     string `json:"from_city"`
	ToCity       string `json:"to_city"`
	EarliestDate string `json:"earliest_date,omitempty"`
	LatestDate   string `json:"latest_date,omitempty"`
}

// ClassifyInput parses and classifies wire records. Any malformed date fails
// the whole pair with an error wrapping domain.ErrParse; no partial result is
// returned.
func (c *Classifier) ClassifyInput(trip TripInput, req RequestInput) (domain.MatchClassification, error) {
	departure, err := domain.ParseDate(trip.DepartureDate)
	if err != nil {
		return domain.MatchClassification{}, fmt.Errorf("matching.ClassifyInput: departure_date: %w", err)
	}
	earliest, err := domain.ParseOptionalDate(req.EarliestDate)
	if err != nil {
		return domain.MatchClassification{}, fmt.Errorf("matching.ClassifyInput: earliest_date: %w", err)
	}
	latest, err := domain.ParseOptionalDate(req.LatestDate)
	if err != nil {
		return domain.MatchClassification{}, fmt.Errorf("matching.ClassifyInput: latest_date: %w", err)
	}
	return c.classify(
		Route{FromCity: trip.FromCity, ToCity: trip.ToCity}, departure,
		Route{FromCity: req.FromCity, ToCity: req.ToCity}, earliest, latest,
	), nil
}

// classify applies the decision table. An end whose cities are equal matches
// even when the city is missing from the region table, so an unknown origin
// shared by both routes still allows a region-level match on the other end.
func (c *Classifier) classify(trip Route, departure time.Time, req Route, earliest, latest *time.Time) domain.MatchClassification {
	originExact := SameCity(trip.FromCity, req.FromCity)
	destExact := SameCity(trip.ToCity, req.ToCity)
	locationExact := originExact && destExact

	// Both ends must agree, each either on the city or on its region.
	// A partial match on one end only is incompatible.
	var names []string
	locationFlexible := false
	if !locationExact {
		originOK, originName := c.endMatch(originExact, trip.FromCity, req.FromCity)
		destOK, destName := c.endMatch(destExact, trip.ToCity, req.ToCity)
		locationFlexible = originOK && destOK
		if locationFlexible {
			for _, n := range []string{originName, destName} {
				if n != "" && (len(names) == 0 || names[len(names)-1] != n) {
					names = append(names, n)
				}
			}
		}
	}

	prox := DateProximity(departure, earliest, latest)
	dateClose := prox.WithinRange || prox.DistanceDays <= c.threshold

	out := domain.MatchClassification{
		MatchType:       domain.MatchIncompatible,
		IsExactDate:     prox.WithinRange,
		IsExactLocation: locationExact,
		DateDifference:  prox.DistanceDays,
	}
	switch {
	case locationExact && prox.WithinRange:
		out.MatchType = domain.MatchExact
	case locationExact && dateClose:
		out.MatchType = domain.MatchFlexibleDate
	case locationFlexible && prox.WithinRange:
		out.MatchType = domain.MatchFlexibleLocation
	case locationFlexible && dateClose:
		out.MatchType = domain.MatchFlexibleBoth
	}
	if locationFlexible {
		out.RegionName = strings.Join(names, " → ")
	}
	return out
}

// endMatch reports whether one end of the route agrees and, when it agrees
// only at region level, the region's display name.
func (c *Classifier) endMatch(exact bool, a, b string) (bool, string) {
	if exact {
		return true, ""
	}
	id, ok := c.regions.SameRegion(a, b)
	if !ok {
		return false, ""
	}
	return true, c.regions.Name(id)
}
