package domain

const (
	// DefaultPageLimit is the page size used when a list request names none.
	DefaultPageLimit = 20
	// MaxPageLimit caps the page size a client may ask for.
	MaxPageLimit = 100
)

// PaginationParams selects one page of a list. Page is 1-indexed.
type PaginationParams struct {
	Page  int
	Limit int
}

// NewPaginationParams builds PaginationParams from optional query values.
// Missing or non-positive values take the defaults; Limit is capped at
// MaxPageLimit.
func NewPaginationParams(page, limit *int) PaginationParams {
	p := PaginationParams{Page: 1, Limit: DefaultPageLimit}
	if page != nil && *page >= 1 {
		p.Page = *page
	}
	if limit != nil && *limit >= 1 {
		p.Limit = min(*limit, MaxPageLimit)
	}
	return p
}

// Offset is the number of rows skipped before this page.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// HasMore reports whether rows remain after this page out of total.
func (p PaginationParams) HasMore(total int64) bool {
	return int64(p.Offset()+p.Limit) < total
}
