package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/zatekoja/volunteerconnect/backend/internal/domain/providers"
	"github.com/zatekoja/volunteerconnect/backend/internal/infrastructure/observability"
)

const defaultHeartbeatInterval = 30 * time.Second

// ImportProgressHandler streams import progress as Server-Sent Events.
type ImportProgressHandler struct {
	subscriber providers.ImportProgressSubscriber
	heartbeat  time.Duration
}

// NewImportProgressHandler creates a progress stream handler. A non-positive
// heartbeat uses 30s.
func NewImportProgressHandler(subscriber providers.ImportProgressSubscriber, heartbeat time.Duration) *ImportProgressHandler {
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeatInterval
	}
	return &ImportProgressHandler{subscriber: subscriber, heartbeat: heartbeat}
}

// StreamProgress handles GET /api/import/hospitals/progress
func (h *ImportProgressHandler) StreamProgress(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	ctx := r.Context()
	updates, err := h.subscriber.Subscribe(ctx)
	if err != nil {
		observability.LoggerFromContext(ctx).Error().Err(err).Msg("failed to subscribe to import progress")
		respondWithError(w, http.StatusServiceUnavailable, "progress stream unavailable")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	writeEvent(w, "connected", map[string]interface{}{"timestamp": time.Now().UTC()})
	flusher.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			writeEvent(w, "heartbeat", map[string]interface{}{"timestamp": time.Now().UTC()})
			flusher.Flush()
		case progress, ok := <-updates:
			if !ok {
				return
			}
			name := "progress"
			if progress.Done {
				name = "done"
			}
			writeEvent(w, name, progress)
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, name string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data)
}
