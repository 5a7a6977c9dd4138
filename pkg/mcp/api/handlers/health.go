package handlers

import (
	"net/http"
	"time"

	"github.com/marmos91/shortcut-mcp/pkg/mcp/session"
)

// ServiceName identifies this server in health responses.
const ServiceName = "shortcut-mcp"

// HealthHandler handles the health check endpoint.
//
// The endpoint is unauthenticated and carries no session semantics: it
// reports process identity, uptime, and the current session count, and
// always answers 200 as long as the HTTP server is responsive.
type HealthHandler struct {
	registry  *session.Registry
	startTime time.Time
}

// healthResponse is the health check envelope.
type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
}

// NewHealthHandler creates a health check handler.
//
// The registry parameter may be nil, in which case the session count is
// omitted from the response.
func NewHealthHandler(registry *session.Registry) *HealthHandler {
	return &HealthHandler{
		registry:  registry,
		startTime: time.Now(),
	}
}

// Liveness handles GET /health - simple liveness probe.
//
// Returns 200 OK if the server process is running. This endpoint is designed
// for Kubernetes liveness probes and should always succeed as long as the
// HTTP server is responsive.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	uptime := time.Since(h.startTime)

	data := map[string]any{
		"service":    ServiceName,
		"started_at": h.startTime.UTC().Format(time.RFC3339),
		"uptime":     uptime.Round(time.Second).String(),
		"uptime_sec": int64(uptime.Seconds()),
	}
	if h.registry != nil {
		data["sessions"] = h.registry.Count()
	}

	WriteJSON(w, http.StatusOK, healthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Data:      data,
	})
}
