package repo

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/carrylink/internal/domain"
)

// dateArg converts a calendar date into a DATE parameter, dropping any
// time-of-day so a trip created at 23:30 in Algiers stays on its day.
func dateArg(t time.Time) pgtype.Date {
	return pgtype.Date{Time: domain.DateOf(t), Valid: true}
}

// optionalDateArg is dateArg for nullable columns; nil becomes NULL.
func optionalDateArg(t *time.Time) pgtype.Date {
	if t == nil {
		return pgtype.Date{}
	}
	return dateArg(*t)
}

// optionalDate converts a scanned nullable DATE back into a *time.Time.
func optionalDate(d pgtype.Date) *time.Time {
	if !d.Valid {
		return nil
	}
	t := d.Time
	return &t
}
