// File path: internal/api/live_build_handler.go
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/liveforge-ai/liveforge/internal/build"
	"github.com/liveforge-ai/liveforge/internal/common"
)

// handleLiveBuild validates the prompt, opens an event stream and runs the
// build, relaying every event as it is emitted. The run itself is detached
// from the request context: a subscriber that disconnects mid-stream loses
// frames, not the build — the record still reaches a terminal state and is
// archived.
func (s *Server) handleLiveBuild(w http.ResponseWriter, r *http.Request) {
	var req liveBuildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("prompt required"))
		return
	}

	stream, err := newEventStream(w)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	events := make(chan build.Event, 64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer close(events)
		s.runner.Run(context.Background(), prompt, func(ev build.Event) {
			events <- ev
		})
	}()

	for ev := range events {
		stream.send(ev)
	}
	<-done
	if stream.failed {
		common.Logger().Warn("api: subscriber lost before build finished")
	}
}
