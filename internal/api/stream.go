// File path: internal/api/stream.go
package api

import (
	"fmt"
	"net/http"

	"github.com/liveforge-ai/liveforge/internal/build"
)

// eventStream frames build events onto an open HTTP response in the
// text/event-stream convention: one JSON object per frame, frames
// separated by a blank line, flushed the instant they are written.
type eventStream struct {
	w       http.ResponseWriter
	flusher http.Flusher
	failed  bool
}

func newEventStream(w http.ResponseWriter) (*eventStream, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("response writer does not support streaming")
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()
	return &eventStream{w: w, flusher: flusher}, nil
}

// send writes one frame. After the first write failure the stream goes
// silent: the subscriber is gone and remaining frames are discarded while
// the build runs to completion.
func (s *eventStream) send(ev build.Event) {
	if s.failed {
		return
	}
	payload, err := build.MarshalEvent(ev)
	if err != nil {
		s.failed = true
		return
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", payload); err != nil {
		s.failed = true
		return
	}
	s.flusher.Flush()
}
