package matching

import (
	"time"

	"github.com/pkordes/carrylink/internal/domain"
)

// Proximity describes where a single date falls relative to a date window.
type Proximity struct {
	WithinRange  bool `json:"withinRange"`
	DistanceDays int  `json:"distanceDays"`
}

// DateProximity compares date against the inclusive window [start, end] at
// day granularity. A missing bound makes the window match every date.
// Outside the window, DistanceDays is the gap to the nearer bound.
func DateProximity(date time.Time, start, end *time.Time) Proximity {
	if start == nil || end == nil {
		return Proximity{WithinRange: true}
	}
	if before := domain.DaysBetween(date, *start); before > 0 {
		return Proximity{DistanceDays: before}
	}
	if after := domain.DaysBetween(*end, date); after > 0 {
		return Proximity{DistanceDays: after}
	}
	return Proximity{WithinRange: true}
}

// DateProximityISO is DateProximity over YYYY-MM-DD strings. Empty bounds are
// treated as missing; malformed input wraps domain.ErrParse.
func DateProximityISO(date, start, end string) (Proximity, error) {
	d, err := domain.ParseDate(date)
	if err != nil {
		return Proximity{}, err
	}
	s, err := domain.ParseOptionalDate(start)
	if err != nil {
		return Proximity{}, err
	}
	e, err := domain.ParseOptionalDate(end)
	if err != nil {
		return Proximity{}, err
	}
	return DateProximity(d, s, e), nil
}
