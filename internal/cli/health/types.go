// Package health declares the wire shape of the /health endpoint so CLI
// commands can decode it without importing the server handlers.
package health

// Details is the data section of a health response.
type Details struct {
	Service   string `json:"service"`
	StartedAt string `json:"started_at"`
	Uptime    string `json:"uptime"`
	UptimeSec int64  `json:"uptime_sec"`
	Sessions  int    `json:"sessions"`
}

// Response is the envelope returned by GET /health.
type Response struct {
	Status    string  `json:"status"`
	Timestamp string  `json:"timestamp"`
	Data      Details `json:"data"`
	Error     string  `json:"error,omitempty"`
}
