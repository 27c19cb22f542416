// File path: internal/api/stats_handler.go
package api

import (
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/liveforge-ai/liveforge/internal/build"
)

var durationRe = regexp.MustCompile(`(\d+)m\s*(\d+)s`)

// parseDurationText inverts the "4m 28s" record format back into seconds.
func parseDurationText(text string) (int, bool) {
	m := durationRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	minutes, _ := strconv.Atoi(m[1])
	seconds, _ := strconv.Atoi(m[2])
	return minutes*60 + seconds, true
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	records := s.store.List()

	resp := statsResponse{
		TotalBuilds:  len(records),
		SuccessRate:  "0.0",
		AvgBuildTime: "0m 0s",
	}

	successes := 0
	totalSeconds, timed := 0, 0
	for _, rec := range records {
		if rec.Status == build.StatusSuccess {
			successes++
		}
		resp.TotalProofs += len(rec.ChainProofs)
		if secs, ok := parseDurationText(rec.Duration); ok {
			totalSeconds += secs
			timed++
		}
	}
	if len(records) > 0 {
		resp.SuccessRate = fmt.Sprintf("%.1f", float64(successes)/float64(len(records))*100)
	}
	if timed > 0 {
		resp.AvgBuildTime = build.FormatDuration(time.Duration(totalSeconds/timed) * time.Second)
	}
	writeJSON(w, http.StatusOK, resp)
}
