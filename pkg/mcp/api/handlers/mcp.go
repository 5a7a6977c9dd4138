package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/marmos91/shortcut-mcp/internal/logger"
	"github.com/marmos91/shortcut-mcp/internal/telemetry"
	"github.com/marmos91/shortcut-mcp/pkg/mcp/jsonrpc"
	"github.com/marmos91/shortcut-mcp/pkg/mcp/session"
	"github.com/marmos91/shortcut-mcp/pkg/mcp/transport"
	"github.com/marmos91/shortcut-mcp/pkg/shortcut"
)

// CredentialValidator checks a credential against the upstream service.
// Consulted exactly once per session, at bootstrap; continuations are
// checked against the registry binding instead.
type CredentialValidator interface {
	Validate(ctx context.Context, credential string) error
}

// ValidatorFunc adapts a function to CredentialValidator.
type ValidatorFunc func(ctx context.Context, credential string) error

// Validate implements CredentialValidator.
func (f ValidatorFunc) Validate(ctx context.Context, credential string) error {
	return f(ctx, credential)
}

// TransportFactory builds one transport per bootstrap, wired to session
// lifecycle callbacks.
type TransportFactory interface {
	New(onEstablished func(sessionID string), onClosed func()) session.Transport
}

// MCPHandler dispatches /mcp requests. It decides continuation versus
// bootstrap, enforces the credential rules, and synthesizes the error
// taxonomy; all JSON-RPC framing happens inside the routed transport.
type MCPHandler struct {
	registry  *session.Registry
	validator CredentialValidator
	factory   TransportFactory
}

// NewMCPHandler creates the dispatcher for the /mcp endpoint.
func NewMCPHandler(registry *session.Registry, validator CredentialValidator, factory TransportFactory) *MCPHandler {
	return &MCPHandler{registry: registry, validator: validator, factory: factory}
}

// ServeHTTP dispatches one request. Internal failures are converted to the
// generic 500 envelope only when no response has started; a transport that
// fails mid-stream gets nothing appended.
func (h *MCPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ww, ok := w.(middleware.WrapResponseWriter)
	if !ok {
		ww = middleware.NewWrapResponseWriter(w, r.ProtoMajor)
	}

	sessionID := r.Header.Get(transport.HeaderSessionID)
	lc := logger.NewLogContext(r.RemoteAddr).WithSession(sessionID)
	ctx := logger.WithContext(r.Context(), lc)
	ctx, span := telemetry.StartRequestSpan(ctx, r.Method, sessionID)
	defer span.End()
	r = r.WithContext(ctx)

	defer func() {
		if rec := recover(); rec != nil {
			logger.ErrorCtx(ctx, "dispatcher panic", logger.Verb(r.Method), "panic", rec)
			if ww.Status() == 0 {
				InternalFailure(ww, nil)
			}
		}
	}()

	var err error
	switch r.Method {
	case http.MethodPost:
		err = h.handlePost(ww, r)
	case http.MethodGet, http.MethodDelete:
		err = h.handleContinuation(ww, r)
	default:
		ww.Header().Set("Allow", "GET, POST, DELETE")
		http.Error(ww, "method not allowed", http.StatusMethodNotAllowed)
	}

	if err != nil {
		logger.ErrorCtx(ctx, "request handling failed", logger.Verb(r.Method), logger.Err(err))
		if ww.Status() == 0 {
			InternalFailure(ww, nil)
		}
	}
}

// handlePost routes a POST. Evaluated in strict order, first match wins:
// known session id, then bootstrap (an initialize body wins even over an
// unknown id header), then unknown id, then unroutable.
func (h *MCPHandler) handlePost(w middleware.WrapResponseWriter, r *http.Request) error {
	ctx := r.Context()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.WarnCtx(ctx, "request body unreadable", logger.Err(err))
		MalformedRequest(w, nil)
		return nil
	}

	// One parse up front serves bootstrap detection and id echoing. The
	// routed transport does its own parsing.
	msgs, _, perr := jsonrpc.ParseMessages(body)
	var reqID json.RawMessage
	if perr == nil {
		reqID = jsonrpc.FirstID(msgs)
	}

	sessionID := r.Header.Get(transport.HeaderSessionID)

	// 1. Known session id: continuation.
	if sessionID != "" && h.registry.Has(sessionID) {
		credential := ExtractCredential(r)
		if credential == "" {
			AuthMissing(w, reqID)
			return nil
		}
		if !h.registry.ValidateCredential(sessionID, credential) {
			logger.WarnCtx(ctx, "credential does not match session")
			AuthMismatch(w, reqID)
			return nil
		}

		s, ok := h.registry.Get(sessionID)
		if !ok {
			// Swept between the existence check and the touch.
			SessionUnknown(w, reqID)
			return nil
		}

		ctx = shortcut.ContextWithToken(ctx, credential)
		return s.Transport.HandleRequest(w, r.WithContext(ctx), body)
	}

	// 2. Bootstrap: the body carries an initialize request, regardless of
	// any session id header sent.
	if perr == nil && jsonrpc.ContainsMethod(msgs, transport.MethodInitialize) {
		return h.handleBootstrap(w, r, body, reqID)
	}

	// 3. Session id present but unknown.
	if sessionID != "" {
		SessionUnknown(w, reqID)
		return nil
	}

	// 4. No id, not a bootstrap: unroutable.
	MalformedRequest(w, reqID)
	return nil
}

// handleBootstrap validates the credential upstream, then hands the body to
// a fresh transport whose lifecycle callbacks keep the registry in sync.
func (h *MCPHandler) handleBootstrap(w middleware.WrapResponseWriter, r *http.Request, body []byte, reqID json.RawMessage) error {
	ctx := r.Context()

	credential := ExtractCredential(r)
	if credential == "" {
		AuthMissing(w, reqID)
		return nil
	}

	if err := h.validator.Validate(ctx, credential); err != nil {
		// A network failure is indistinguishable from a wrong credential
		// on purpose; the client remedy is the same.
		logger.WarnCtx(ctx, "credential rejected upstream", logger.Err(err))
		AuthInvalidUpstream(w, reqID)
		return nil
	}

	var t session.Transport
	t = h.factory.New(
		func(string) {
			if _, cerr := h.registry.Create(t, credential); cerr != nil {
				logger.ErrorCtx(ctx, "session registration failed", logger.Err(cerr))
			}
		},
		func() {
			h.registry.Remove(t.SessionID())
		},
	)

	ctx = shortcut.ContextWithToken(ctx, credential)
	return t.HandleRequest(w, r.WithContext(ctx), body)
}

// handleContinuation routes GET (stream open/resume) and DELETE (explicit
// termination). Session existence is checked before anything else; without
// a session there is no context to frame a JSON-RPC envelope against, so
// the rejection is plain text.
func (h *MCPHandler) handleContinuation(w middleware.WrapResponseWriter, r *http.Request) error {
	ctx := r.Context()

	sessionID := r.Header.Get(transport.HeaderSessionID)
	if sessionID == "" || !h.registry.Has(sessionID) {
		InvalidSession(w)
		return nil
	}

	credential := ExtractCredential(r)
	if credential == "" {
		AuthMissing(w, nil)
		return nil
	}
	if !h.registry.ValidateCredential(sessionID, credential) {
		logger.WarnCtx(ctx, "credential does not match session", logger.Verb(r.Method))
		AuthMismatch(w, nil)
		return nil
	}

	s, ok := h.registry.Get(sessionID)
	if !ok {
		InvalidSession(w)
		return nil
	}

	// DELETE forwards to the transport too: the close runs there and its
	// closed callback performs the removal, keeping a single removal path.
	ctx = shortcut.ContextWithToken(ctx, credential)
	return s.Transport.HandleRequest(w, r.WithContext(ctx), nil)
}
