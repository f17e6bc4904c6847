package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. unknown city, earliest date after latest date).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrParse is returned when a calendar date is not in YYYY-MM-DD form.
// Classification of the affected pair is aborted; batch callers skip the pair.
var ErrParse = errors.New("parse error")

// ErrDuplicateMatch is returned when a pending or accepted match already
// exists for the same trip and shipment request.
var ErrDuplicateMatch = errors.New("duplicate match")

// ErrUnauthorized is returned when the acting user is not allowed to act on a
// match (not a party to it, or not the counterparty of the proposer).
var ErrUnauthorized = errors.New("unauthorized")

// ErrInvalidTransition is returned when a match status change is not one of
// pending→accepted, pending→rejected or accepted→completed.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrConcurrentModification is returned when the stored match status changed
// between read and write. The caller may reload and retry.
var ErrConcurrentModification = errors.New("concurrent modification")
