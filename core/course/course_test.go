package course

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		limit      int
		totalCount int
		want       Pagination
	}{
		{
			name: "middle page", page: 2, limit: 20, totalCount: 45,
			want: Pagination{Page: 2, Limit: 20, TotalCount: 45, TotalPages: 3, HasNext: true, HasPrev: true},
		},
		{
			name: "last page", page: 3, limit: 20, totalCount: 45,
			want: Pagination{Page: 3, Limit: 20, TotalCount: 45, TotalPages: 3, HasNext: false, HasPrev: true},
		},
		{
			name: "first page", page: 1, limit: 20, totalCount: 45,
			want: Pagination{Page: 1, Limit: 20, TotalCount: 45, TotalPages: 3, HasNext: true, HasPrev: false},
		},
		{
			name: "empty result", page: 1, limit: 20, totalCount: 0,
			want: Pagination{Page: 1, Limit: 20, TotalCount: 0, TotalPages: 0, HasNext: false, HasPrev: false},
		},
		{
			name: "exact fit", page: 2, limit: 10, totalCount: 20,
			want: Pagination{Page: 2, Limit: 10, TotalCount: 20, TotalPages: 2, HasNext: false, HasPrev: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewPagination(tt.page, tt.limit, tt.totalCount)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("unexpected pagination (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRoundRating(t *testing.T) {
	tests := []struct {
		avg  float64
		want float64
	}{
		{0, 0},
		{14.0 / 3.0, 4.7}, // ratings [5,5,4]
		{4.25, 4.3},
		{4.24, 4.2},
		{5, 5},
	}

	for _, tt := range tests {
		if got := roundRating(tt.avg); got != tt.want {
			t.Errorf("roundRating(%v) = %v, want %v", tt.avg, got, tt.want)
		}
	}
}

func TestCatalogOrder(t *testing.T) {
	tests := []struct {
		sortBy string
		want   string
	}{
		{SortPopularity, " ORDER BY enrollment_count DESC"},
		{SortRating, " ORDER BY review_count DESC"},
		{SortNewest, " ORDER BY c.created_at DESC"},
		{SortPriceLow, " ORDER BY c.price_cents ASC"},
		{SortPriceHigh, " ORDER BY c.price_cents DESC"},
		{"", " ORDER BY enrollment_count DESC"},
		{"garbage", " ORDER BY enrollment_count DESC"},
	}

	for _, tt := range tests {
		if got := catalogOrder(tt.sortBy); got != tt.want {
			t.Errorf("catalogOrder(%q) = %q, want %q", tt.sortBy, got, tt.want)
		}
	}
}

func TestCatalogWhere(t *testing.T) {
	min, max := 10, 50
	f := Filter{
		Category: "programming",
		Search:   "go",
		MinPrice: &min,
		MaxPrice: &max,
	}

	where, args := catalogWhere(f)

	want := ` WHERE c.status = 'PUBLISHED' AND c.category = $1 AND (c.title ILIKE $2 OR c.subtitle ILIKE $2 OR c.description ILIKE $2) AND c.price_cents >= $3 AND c.price_cents <= $4`
	if where != want {
		t.Fatalf("unexpected where clause:\ngot  %q\nwant %q", where, want)
	}

	// Dollar bounds are converted to cents.
	wantArgs := []interface{}{"programming", "%go%", 1000, 5000}
	if diff := cmp.Diff(wantArgs, args); diff != "" {
		t.Fatalf("unexpected args (-want +got):\n%s", diff)
	}
}
