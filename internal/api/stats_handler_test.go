// File path: internal/api/stats_handler_test.go
package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/liveforge-ai/liveforge/internal/build"
)

func TestParseDurationText(t *testing.T) {
	cases := map[string]struct {
		seconds int
		ok      bool
	}{
		"4m 28s": {268, true},
		"0m 5s":  {5, true},
		"12m 0s": {720, true},
		"":       {0, false},
		"fast":   {0, false},
	}
	for text, want := range cases {
		secs, ok := parseDurationText(text)
		if ok != want.ok || secs != want.seconds {
			t.Fatalf("parse %q: expected (%d,%v), got (%d,%v)", text, want.seconds, want.ok, secs, ok)
		}
	}
}

func TestStatsAggregation(t *testing.T) {
	srv, store := newTestServer(t)
	base := time.Now()
	seedRecord(t, store, "build_a", build.StatusSuccess, base, "4m 0s", 4)
	seedRecord(t, store, "build_b", build.StatusSuccess, base.Add(time.Second), "2m 0s", 4)
	seedRecord(t, store, "build_c", build.StatusFailed, base.Add(2*time.Second), "", 1)

	req := httptest.NewRequest(http.MethodGet, "/v1/stats", nil)
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var resp statsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.TotalBuilds != 3 {
		t.Fatalf("expected 3 builds, got %d", resp.TotalBuilds)
	}
	if resp.SuccessRate != "66.7" {
		t.Fatalf("expected success rate 66.7, got %q", resp.SuccessRate)
	}
	if resp.AvgBuildTime != "3m 0s" {
		t.Fatalf("expected avg 3m 0s, got %q", resp.AvgBuildTime)
	}
	if resp.TotalProofs != 9 {
		t.Fatalf("expected 9 proofs, got %d", resp.TotalProofs)
	}
}

func TestStatsEmptyStore(t *testing.T) {
	srv, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/stats", nil)
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)

	var resp statsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.TotalBuilds != 0 || resp.SuccessRate != "0.0" || resp.AvgBuildTime != "0m 0s" {
		t.Fatalf("unexpected empty stats: %+v", resp)
	}
}
