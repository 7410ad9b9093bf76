package usecase

import (
	"errors"
	"testing"

	"github.com/identra/identity-service/internal/core/domain"
)

func intPtr(v int) *int { return &v }

func TestNewPageParamsDefaults(t *testing.T) {
	params, err := NewPageParams(nil, nil)
	if err != nil {
		t.Fatalf("NewPageParams returned error: %v", err)
	}

	if params.Limit != DefaultPageLimit {
		t.Errorf("expected default limit %d, got %d", DefaultPageLimit, params.Limit)
	}
	if params.Offset != 0 {
		t.Errorf("expected default offset 0, got %d", params.Offset)
	}
}

func TestNewPageParamsBounds(t *testing.T) {
	cases := []struct {
		name   string
		limit  *int
		offset *int
		field  string
	}{
		{"limit zero", intPtr(0), nil, "limit"},
		{"limit above max", intPtr(101), nil, "limit"},
		{"negative offset", nil, intPtr(-1), "offset"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewPageParams(tc.limit, tc.offset)
			if err == nil {
				t.Fatal("expected error")
			}

			var validationErr *domain.ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected ValidationError, got %T", err)
			}
			if validationErr.Field != tc.field {
				t.Errorf("expected field %q, got %q", tc.field, validationErr.Field)
			}
		})
	}

	params, err := NewPageParams(intPtr(100), intPtr(0))
	if err != nil {
		t.Fatalf("expected boundary values to be accepted, got %v", err)
	}
	if params.Limit != 100 {
		t.Errorf("expected limit 100, got %d", params.Limit)
	}
}

func TestBuildPagination(t *testing.T) {
	cases := []struct {
		name        string
		total       int
		limit       int
		offset      int
		hasMore     bool
		currentPage int
		totalPages  int
	}{
		{"middle of small pages", 10, 1, 2, true, 3, 10},
		{"first page with remainder", 45, 20, 0, true, 1, 3},
		{"last partial page", 45, 20, 40, false, 3, 3},
		{"empty result", 0, 20, 0, false, 1, 0},
		{"exact fit", 40, 20, 20, false, 2, 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := BuildPagination(tc.total, PageParams{Limit: tc.limit, Offset: tc.offset})

			if p.HasMore != tc.hasMore {
				t.Errorf("HasMore = %v, want %v", p.HasMore, tc.hasMore)
			}
			if p.CurrentPage != tc.currentPage {
				t.Errorf("CurrentPage = %d, want %d", p.CurrentPage, tc.currentPage)
			}
			if p.TotalPages != tc.totalPages {
				t.Errorf("TotalPages = %d, want %d", p.TotalPages, tc.totalPages)
			}
			if p.Total != tc.total {
				t.Errorf("Total = %d, want %d", p.Total, tc.total)
			}
		})
	}
}
