package shared

import "testing"

func TestNewPagination(t *testing.T) {
	cases := []struct {
		name                 string
		page, limit, total   int
		wantPages, wantLimit int
	}{
		{name: "partial last page", page: 3, limit: 10, total: 25, wantPages: 3, wantLimit: 10},
		{name: "exact fit", page: 1, limit: 5, total: 10, wantPages: 2, wantLimit: 5},
		{name: "empty", page: 1, limit: 10, total: 0, wantPages: 0, wantLimit: 10},
		{name: "defaults", page: 0, limit: 0, total: 41, wantPages: 3, wantLimit: DefaultPageSize},
		{name: "clamped", page: 1, limit: 1000, total: 150, wantPages: 2, wantLimit: MaxPageSize},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPagination(tc.page, tc.limit, tc.total)
			if p.Pages != tc.wantPages {
				t.Fatalf("expected %d pages, got %d", tc.wantPages, p.Pages)
			}
			if p.Limit != tc.wantLimit {
				t.Fatalf("expected limit %d, got %d", tc.wantLimit, p.Limit)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	if got := Offset(3, 10); got != 20 {
		t.Fatalf("expected offset 20, got %d", got)
	}
	if got := Offset(0, 10); got != 0 {
		t.Fatalf("expected offset 0, got %d", got)
	}
}
