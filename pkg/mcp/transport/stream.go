package transport

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/marmos91/shortcut-mcp/internal/logger"
	"github.com/marmos91/shortcut-mcp/pkg/mcp/jsonrpc"
)

// ============================================================================
// Server-to-Client SSE Stream
// ============================================================================

// handleStream attaches the session's single SSE stream. Buffered events
// after the client's Last-Event-ID marker are replayed first, then live
// events are forwarded until the client disconnects or the transport closes.
// A client that abandons the stream abandons the session: disconnect closes
// the transport.
func (t *Transport) handleStream(w http.ResponseWriter, r *http.Request) error {
	if !acceptsEventStream(r) {
		return t.writeMessage(w, http.StatusNotAcceptable,
			jsonrpc.NewErrorResponse(nil, jsonrpc.CodeServerError, "stream requires Accept: text/event-stream"))
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		return fmt.Errorf("response writer does not support streaming")
	}

	var marker uint64
	if raw := r.Header.Get(HeaderLastEventID); raw != "" {
		m, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return t.writeMessage(w, http.StatusBadRequest,
				jsonrpc.NewErrorResponse(nil, jsonrpc.CodeInvalidRequest, "malformed Last-Event-ID"))
		}
		marker = m
	}

	// Attach under the lock so the replay snapshot and the live channel
	// cover disjoint event ranges: anything sent after this point lands on
	// the channel, anything before is in the snapshot.
	ch := make(chan event, t.cfg.EventBufferSize)
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return t.writeMessage(w, http.StatusNotFound,
			jsonrpc.NewErrorResponse(nil, jsonrpc.CodeSessionNotFound, "session terminated"))
	}
	if t.stream != nil {
		t.mu.Unlock()
		return t.writeMessage(w, http.StatusConflict,
			jsonrpc.NewErrorResponse(nil, jsonrpc.CodeServerError, "session already has an active stream"))
	}
	t.stream = ch
	replay := t.events.after(marker)
	t.mu.Unlock()

	t.engine.cfg.Metrics.recordStreamAttached()
	defer func() {
		t.mu.Lock()
		if t.stream == ch {
			t.stream = nil
		}
		t.mu.Unlock()
		t.engine.cfg.Metrics.recordStreamDetached()
	}()

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	t.setSessionHeader(w)
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ctx := r.Context()
	logger.DebugCtx(ctx, "stream attached", logger.Count(len(replay)))

	for _, ev := range replay {
		// Write errors here mean the client is already gone; the select
		// below observes the dead connection through the request context.
		_ = writeEvent(w, ev)
	}
	if len(replay) > 0 {
		flusher.Flush()
		t.engine.cfg.Metrics.recordEventsReplayed(len(replay))
	}

	heartbeat := time.NewTicker(t.cfg.HeartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.DebugCtx(ctx, "stream client disconnected")
			_ = t.Close()
			return nil

		case <-t.done:
			return nil

		case ev := <-ch:
			if err := writeEvent(w, ev); err != nil {
				_ = t.Close()
				return nil
			}
			flusher.Flush()

		case <-heartbeat.C:
			if _, err := io.WriteString(w, ": keepalive\n\n"); err != nil {
				_ = t.Close()
				return nil
			}
			flusher.Flush()
		}
	}
}

// writeEvent frames one event in SSE wire format. The id field doubles as
// the client's resumption marker.
func writeEvent(w io.Writer, ev event) error {
	_, err := fmt.Fprintf(w, "id: %d\ndata: %s\n\n", ev.id, ev.data)
	return err
}

// acceptsEventStream reports whether the request's Accept header admits
// text/event-stream.
func acceptsEventStream(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	if accept == "" {
		return false
	}
	for _, part := range strings.Split(accept, ",") {
		mediaType := strings.TrimSpace(part)
		if i := strings.IndexByte(mediaType, ';'); i >= 0 {
			mediaType = strings.TrimSpace(mediaType[:i])
		}
		switch mediaType {
		case "text/event-stream", "text/*", "*/*":
			return true
		}
	}
	return false
}
