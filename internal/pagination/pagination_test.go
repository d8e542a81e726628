package pagination

import "testing"

func TestParseParams(t *testing.T) {
	tests := []struct {
		name      string
		page      string
		limit     string
		wantPage  int
		wantLimit int
	}{
		{name: "defaults when empty", page: "", limit: "", wantPage: 1, wantLimit: 25},
		{name: "valid values pass through", page: "3", limit: "50", wantPage: 3, wantLimit: 50},
		{name: "all allowed limits accepted", page: "1", limit: "10", wantPage: 1, wantLimit: 10},
		{name: "limit 100 accepted", page: "1", limit: "100", wantPage: 1, wantLimit: 100},
		{name: "disallowed limit falls back to 25", page: "1", limit: "30", wantPage: 1, wantLimit: 25},
		{name: "limit just below allowed falls back", page: "1", limit: "24", wantPage: 1, wantLimit: 25},
		{name: "huge limit falls back, not capped", page: "1", limit: "1000", wantPage: 1, wantLimit: 25},
		{name: "zero limit falls back", page: "1", limit: "0", wantPage: 1, wantLimit: 25},
		{name: "negative limit falls back", page: "1", limit: "-10", wantPage: 1, wantLimit: 25},
		{name: "unparsable limit falls back", page: "1", limit: "abc", wantPage: 1, wantLimit: 25},
		{name: "page zero floors to 1", page: "0", limit: "25", wantPage: 1, wantLimit: 25},
		{name: "negative page floors to 1", page: "-2", limit: "25", wantPage: 1, wantLimit: 25},
		{name: "unparsable page floors to 1", page: "x", limit: "25", wantPage: 1, wantLimit: 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseParams(tt.page, tt.limit)
			if got.Page != tt.wantPage {
				t.Errorf("Page = %d, want %d", got.Page, tt.wantPage)
			}
			if got.Limit != tt.wantLimit {
				t.Errorf("Limit = %d, want %d", got.Limit, tt.wantLimit)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	if got := (Params{Page: 1, Limit: 25}).Offset(); got != 0 {
		t.Errorf("Offset = %d, want 0", got)
	}
	if got := (Params{Page: 3, Limit: 10}).Offset(); got != 20 {
		t.Errorf("Offset = %d, want 20", got)
	}
}

func TestBuildEnvelope(t *testing.T) {
	tests := []struct {
		name        string
		params      Params
		total       int64
		wantPages   int
		wantNext    bool
		wantPrev    bool
		wantEchoPag int
	}{
		{name: "first of many", params: Params{Page: 1, Limit: 25}, total: 60, wantPages: 3, wantNext: true, wantPrev: false, wantEchoPag: 1},
		{name: "middle page", params: Params{Page: 2, Limit: 25}, total: 60, wantPages: 3, wantNext: true, wantPrev: true, wantEchoPag: 2},
		{name: "last page", params: Params{Page: 3, Limit: 25}, total: 60, wantPages: 3, wantNext: false, wantPrev: true, wantEchoPag: 3},
		{name: "exact multiple", params: Params{Page: 2, Limit: 10}, total: 20, wantPages: 2, wantNext: false, wantPrev: true, wantEchoPag: 2},
		{name: "partial last page of 15 vans", params: Params{Page: 2, Limit: 10}, total: 15, wantPages: 2, wantNext: false, wantPrev: true, wantEchoPag: 2},
		{name: "empty result set", params: Params{Page: 1, Limit: 25}, total: 0, wantPages: 0, wantNext: false, wantPrev: false, wantEchoPag: 1},
		{name: "page past the end echoes request", params: Params{Page: 9, Limit: 25}, total: 30, wantPages: 2, wantNext: false, wantPrev: true, wantEchoPag: 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := BuildEnvelope(tt.params, tt.total)
			if env.Page != tt.wantEchoPag {
				t.Errorf("Page = %d, want %d", env.Page, tt.wantEchoPag)
			}
			if env.TotalPages != tt.wantPages {
				t.Errorf("TotalPages = %d, want %d", env.TotalPages, tt.wantPages)
			}
			if env.HasNextPage != tt.wantNext {
				t.Errorf("HasNextPage = %v, want %v", env.HasNextPage, tt.wantNext)
			}
			if env.HasPreviousPage != tt.wantPrev {
				t.Errorf("HasPreviousPage = %v, want %v", env.HasPreviousPage, tt.wantPrev)
			}
			if env.TotalCount != tt.total {
				t.Errorf("TotalCount = %d, want %d", env.TotalCount, tt.total)
			}
		})
	}
}
