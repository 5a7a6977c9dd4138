// Package transport implements the MCP streamable HTTP transport: per-session
// request handling over POST, a server-to-client SSE stream over GET with
// bounded replay, and explicit termination over DELETE.
//
// One Transport exists per session. The dispatcher creates it on bootstrap,
// wires its lifecycle callbacks to the session registry, and routes every
// subsequent request for that session through HandleRequest.
package transport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/marmos91/shortcut-mcp/pkg/mcp/jsonrpc"
)

const (
	defaultEventBufferSize   = 256
	defaultHeartbeatInterval = 30 * time.Second
)

// Config tunes per-session stream behavior. Zero values fall back to
// package defaults.
type Config struct {
	// EventBufferSize bounds the per-session replay ring. Once full, the
	// oldest events are dropped and can no longer be replayed.
	EventBufferSize int

	// HeartbeatInterval is how often an SSE comment is written to an idle
	// stream so intermediaries do not time it out.
	HeartbeatInterval time.Duration
}

// Factory builds transports that share one engine and one config.
type Factory struct {
	engine *Engine
	cfg    Config
}

// NewFactory creates a transport factory.
func NewFactory(engine *Engine, cfg Config) *Factory {
	if cfg.EventBufferSize <= 0 {
		cfg.EventBufferSize = defaultEventBufferSize
	}
	if cfg.HeartbeatInterval <= 0 {
		cfg.HeartbeatInterval = defaultHeartbeatInterval
	}
	return &Factory{engine: engine, cfg: cfg}
}

// New creates a transport for a single session-to-be. onEstablished fires
// once, synchronously, when an initialize request mints the session id;
// onClosed fires once when the transport shuts down. Either callback may
// be nil.
func (f *Factory) New(onEstablished func(sessionID string), onClosed func()) *Transport {
	return &Transport{
		engine:        f.engine,
		cfg:           f.cfg,
		onEstablished: onEstablished,
		onClosed:      onClosed,
		events:        newEventRing(f.cfg.EventBufferSize),
		done:          make(chan struct{}),
	}
}

// Transport carries one session's protocol state.
type Transport struct {
	engine *Engine
	cfg    Config

	onEstablished func(string)
	onClosed      func()

	mu          sync.Mutex
	sessionID   string
	initialized bool
	closed      bool
	events      *eventRing
	nextEventID uint64
	stream      chan event // non-nil while a GET stream is attached

	closeOnce sync.Once
	done      chan struct{}
}

// SessionID returns the minted session identifier, or "" before the
// initialize handshake completes.
func (t *Transport) SessionID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sessionID
}

// establish mints the session id and reports it through onEstablished.
// Fails if the transport already carries a session.
func (t *Transport) establish() (string, error) {
	t.mu.Lock()
	if t.sessionID != "" {
		id := t.sessionID
		t.mu.Unlock()
		return "", fmt.Errorf("session %s already established", id)
	}
	id := uuid.NewString()
	t.sessionID = id
	t.mu.Unlock()

	// Outside the lock: the callback re-enters the transport via SessionID.
	if t.onEstablished != nil {
		t.onEstablished(id)
	}
	return id, nil
}

func (t *Transport) markInitialized() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.initialized = true
}

func (t *Transport) isInitialized() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.initialized
}

// Close shuts the transport down: the SSE stream (if any) terminates and
// onClosed fires. Safe to call multiple times; only the first has effect.
func (t *Transport) Close() error {
	t.closeOnce.Do(func() {
		t.mu.Lock()
		t.closed = true
		t.mu.Unlock()
		close(t.done)

		if t.onClosed != nil {
			t.onClosed()
		}
	})
	return nil
}

// SendNotification queues a server-initiated notification for the session's
// SSE stream. The event is buffered for replay regardless of whether a
// stream is currently attached.
func (t *Transport) SendNotification(method string, params any) error {
	data, err := json.Marshal(jsonrpc.NewNotification(method, params))
	if err != nil {
		return fmt.Errorf("marshaling notification: %w", err)
	}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return fmt.Errorf("transport closed")
	}
	t.nextEventID++
	ev := event{id: t.nextEventID, data: data}
	t.events.append(ev)
	if t.stream != nil {
		select {
		case t.stream <- ev:
		default:
			// Slow consumer; the ring keeps the event for replay on resume.
		}
	}
	t.mu.Unlock()

	t.engine.cfg.Metrics.recordEventSent()
	return nil
}

// HandleRequest routes one HTTP request for this session. The body has
// already been read by the caller; it is nil for GET and DELETE.
//
// A non-nil error means nothing was written yet and the caller still owns
// the response.
func (t *Transport) HandleRequest(w http.ResponseWriter, r *http.Request, body []byte) error {
	switch r.Method {
	case http.MethodPost:
		return t.handlePost(w, r, body)
	case http.MethodGet:
		return t.handleStream(w, r)
	case http.MethodDelete:
		return t.handleDelete(w)
	default:
		w.Header().Set("Allow", "GET, POST, DELETE")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return nil
	}
}

// handlePost parses the body (single message or batch), dispatches each
// message, and frames the responses. A body holding only notifications or
// client responses is acknowledged with 202 and no payload.
func (t *Transport) handlePost(w http.ResponseWriter, r *http.Request, body []byte) error {
	ctx := r.Context()

	msgs, batch, perr := jsonrpc.ParseMessages(body)
	if perr != nil {
		return t.writeMessage(w, http.StatusBadRequest, jsonrpc.NewErrorResponse(nil, perr.Code, perr.Message))
	}

	// initialize carries the handshake and must not share a batch.
	if len(msgs) > 1 && jsonrpc.ContainsMethod(msgs, MethodInitialize) {
		return t.writeMessage(w, http.StatusBadRequest,
			jsonrpc.NewErrorResponse(jsonrpc.FirstID(msgs), jsonrpc.CodeInvalidRequest, "initialize must be sent alone"))
	}

	var responses []*jsonrpc.Response
	for _, msg := range msgs {
		if msg.IsResponse() {
			// A reply to a server-initiated request. This server never
			// issues those, so there is nothing to correlate.
			continue
		}

		req := msg.AsRequest()
		if verr := req.Validate(); verr != nil {
			responses = append(responses, jsonrpc.NewErrorResponse(req.ID, verr.Code, verr.Message))
			continue
		}
		if req.IsNotification() {
			t.engine.handleNotification(ctx, t, req.Method)
			continue
		}
		responses = append(responses, t.engine.handle(ctx, t, req))
	}

	if len(responses) == 0 {
		t.setSessionHeader(w)
		w.WriteHeader(http.StatusAccepted)
		return nil
	}

	if batch {
		return t.writeMessage(w, http.StatusOK, responses)
	}
	return t.writeMessage(w, http.StatusOK, responses[0])
}

// handleDelete terminates the session at the client's request.
func (t *Transport) handleDelete(w http.ResponseWriter) error {
	t.setSessionHeader(w)
	_ = t.Close()
	w.WriteHeader(http.StatusOK)
	return nil
}

func (t *Transport) setSessionHeader(w http.ResponseWriter) {
	if id := t.SessionID(); id != "" {
		w.Header().Set(HeaderSessionID, id)
	}
}

// writeMessage marshals before touching the ResponseWriter so a marshal
// failure leaves the response unstarted for the caller to handle.
func (t *Transport) writeMessage(w http.ResponseWriter, status int, v any) error {
	buf, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling response: %w", err)
	}
	t.setSessionHeader(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf)
	return nil
}
