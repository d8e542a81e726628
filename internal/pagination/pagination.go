package pagination

import "strconv"

// DefaultLimit is used whenever the requested limit is not an allowed size.
const DefaultLimit = 25

// allowedLimits is the fixed set of page sizes the dashboard offers. Any
// other requested value falls back to DefaultLimit; values are never clamped
// to the nearest member.
var allowedLimits = map[int]struct{}{
	10:  {},
	25:  {},
	50:  {},
	100: {},
}

// Params holds normalized pagination parameters.
type Params struct {
	Page  int
	Limit int
}

// Envelope is the derived, stateless pagination metadata returned alongside
// every list response. It is computed per request and never persisted.
type Envelope struct {
	Page            int   `json:"page"`
	Limit           int   `json:"limit"`
	TotalCount      int64 `json:"totalCount"`
	TotalPages      int   `json:"totalPages"`
	HasNextPage     bool  `json:"hasNextPage"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
}

// ParseParams normalizes raw page/limit query values. Page defaults to 1 and
// is floored at 1. Limit must be one of {10,25,50,100}; anything else
// (including unparsable input) silently becomes DefaultLimit.
func ParseParams(pageStr, limitStr string) Params {
	page := 1
	if pageStr != "" {
		if n, err := strconv.Atoi(pageStr); err == nil && n >= 1 {
			page = n
		}
	}

	limit := DefaultLimit
	if limitStr != "" {
		if n, err := strconv.Atoi(limitStr); err == nil {
			if _, ok := allowedLimits[n]; ok {
				limit = n
			}
		}
	}

	return Params{Page: page, Limit: limit}
}

// Offset returns the row offset for the page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// BuildEnvelope computes envelope fields from a total row count. A page past
// the end keeps the requested page number with HasNextPage=false; callers get
// an empty slice from the repository for such pages.
func BuildEnvelope(p Params, totalCount int64) Envelope {
	totalPages := int((totalCount + int64(p.Limit) - 1) / int64(p.Limit))
	return Envelope{
		Page:            p.Page,
		Limit:           p.Limit,
		TotalCount:      totalCount,
		TotalPages:      totalPages,
		HasNextPage:     p.Page < totalPages,
		HasPreviousPage: p.Page > 1,
	}
}
