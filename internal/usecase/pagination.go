package usecase

import (
	"github.com/identra/identity-service/internal/core/domain"
)

const (
	// DefaultPageLimit applies when the caller omits a limit.
	DefaultPageLimit = 20
	// MaxPageLimit caps how many rows a single page may request.
	MaxPageLimit = 100
)

// PageParams are validated pagination bounds.
type PageParams struct {
	Limit  int
	Offset int
}

// NewPageParams validates optional limit/offset values against [1,100] and
// [0,inf) and applies defaults. Validation happens before any repository
// call, so a bad request never touches storage.
func NewPageParams(limit, offset *int) (PageParams, error) {
	params := PageParams{Limit: DefaultPageLimit, Offset: 0}

	if limit != nil {
		if *limit < 1 || *limit > MaxPageLimit {
			return PageParams{}, domain.NewValidationError("limit", "limit must be between 1 and 100")
		}
		params.Limit = *limit
	}

	if offset != nil {
		if *offset < 0 {
			return PageParams{}, domain.NewValidationError("offset", "offset must not be negative")
		}
		params.Offset = *offset
	}

	return params, nil
}

// Pagination is the response envelope metadata for list operations.
type Pagination struct {
	Total       int  `json:"total"`
	Limit       int  `json:"limit"`
	Offset      int  `json:"offset"`
	HasMore     bool `json:"has_more"`
	CurrentPage int  `json:"current_page"`
	TotalPages  int  `json:"total_pages"`
}

// BuildPagination derives page metadata from the total row count.
func BuildPagination(total int, params PageParams) Pagination {
	totalPages := 0
	if total > 0 {
		totalPages = (total + params.Limit - 1) / params.Limit
	}

	return Pagination{
		Total:       total,
		Limit:       params.Limit,
		Offset:      params.Offset,
		HasMore:     params.Offset+params.Limit < total,
		CurrentPage: params.Offset/params.Limit + 1,
		TotalPages:  totalPages,
	}
}

// Page wraps a result slice with its pagination envelope.
type Page[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}
