package domain

// MatchType is the outcome of classifying a trip against a shipment request.
type MatchType string

const (
	MatchExact            MatchType = "exact"
	MatchFlexibleDate     MatchType = "flexible_date"
	MatchFlexibleLocation MatchType = "flexible_location"
	MatchFlexibleBoth     MatchType = "flexible_both"
	MatchIncompatible     MatchType = "incompatible"
)

// Compatible reports whether the pair may be proposed as a match.
func (t MatchType) Compatible() bool {
	return t != MatchIncompatible && t != ""
}

// Rank orders compatible types from best to worst; incompatible sorts last.
func (t MatchType) Rank() int {
	switch t {
	case MatchExact:
		return 0
	case MatchFlexibleDate:
		return 1
	case MatchFlexibleLocation:
		return 2
	case MatchFlexibleBoth:
		return 3
	}
	return 4
}

// MatchClassification is the derived, never persisted, verdict for one
// (Trip, ShipmentRequest) pair. Badge renderers rely on DateDifference being
// set whenever IsExactDate is false and RegionName whenever IsExactLocation
// is false on a compatible pair.
type MatchClassification struct {
	MatchType       MatchType `json:"matchType"`
	IsExactDate     bool      `json:"isExactDate"`
	IsExactLocation bool      `json:"isExactLocation"`
	DateDifference  int       `json:"dateDifference"`
	// RegionName is set on region-level location matches only. When the two
	// ends matched in different regions it joins both names, origin first,
	// as "France-other → Algérie-north"; a single shared region appears once.
	RegionName      string    `json:"regionName,omitempty"`
}
