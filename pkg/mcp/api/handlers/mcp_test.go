package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/shortcut-mcp/pkg/mcp/jsonrpc"
	"github.com/marmos91/shortcut-mcp/pkg/mcp/session"
	"github.com/marmos91/shortcut-mcp/pkg/mcp/transport"
	"github.com/marmos91/shortcut-mcp/pkg/shortcut"
)

const initializeBody = `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test-client","version":"0.0.0"}}}`

const pingBody = `{"jsonrpc":"2.0","id":2,"method":"ping"}`

// ============================================================================
// Stubs
// ============================================================================

// stubTransport stands in for a protocol transport. On a POST carrying an
// initialize request it mints its id and fires the established callback,
// mirroring the real transport's handshake. The failure knobs let tests
// drive the dispatcher's containment paths.
type stubTransport struct {
	mintID        string
	onEstablished func(string)
	onClosed      func()

	// Failure knobs, set before the request under test.
	handleErr  error
	panicMsg   string
	writeFirst bool

	mu        sync.Mutex
	id        string
	lastVerb  string
	lastBody  []byte
	lastToken string
	forwards  atomic.Int32
	closes    atomic.Int32
}

func (t *stubTransport) SessionID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.id
}

func (t *stubTransport) Close() error {
	if t.closes.Add(1) == 1 && t.onClosed != nil {
		t.onClosed()
	}
	return nil
}

func (t *stubTransport) HandleRequest(w http.ResponseWriter, r *http.Request, body []byte) error {
	t.forwards.Add(1)
	t.mu.Lock()
	t.lastVerb = r.Method
	t.lastBody = append([]byte(nil), body...)
	t.lastToken = shortcut.TokenFromContext(r.Context())
	t.mu.Unlock()

	if t.writeFirst {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":{}}`))
	}
	if t.panicMsg != "" {
		panic(t.panicMsg)
	}
	if t.handleErr != nil {
		return t.handleErr
	}
	if t.writeFirst {
		return nil
	}

	switch r.Method {
	case http.MethodPost:
		if bytes.Contains(body, []byte(`"initialize"`)) && t.SessionID() == "" {
			t.mu.Lock()
			t.id = t.mintID
			t.mu.Unlock()
			if t.onEstablished != nil {
				t.onEstablished(t.mintID)
			}
		}
		w.Header().Set(transport.HeaderSessionID, t.SessionID())
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":{}}`))
	case http.MethodGet:
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
	case http.MethodDelete:
		w.WriteHeader(http.StatusOK)
		_ = t.Close()
	}
	return nil
}

type stubFactory struct {
	mu      sync.Mutex
	minted  int
	created []*stubTransport
}

func (f *stubFactory) New(onEstablished func(string), onClosed func()) session.Transport {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.minted++
	t := &stubTransport{
		mintID:        fmt.Sprintf("session-%d", f.minted),
		onEstablished: onEstablished,
		onClosed:      onClosed,
	}
	f.created = append(f.created, t)
	return t
}

func (f *stubFactory) last(t *testing.T) *stubTransport {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.created, "no transport was minted")
	return f.created[len(f.created)-1]
}

func (f *stubFactory) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

// errReader fails every read, standing in for a client that drops mid-body.
type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("read reset") }

// ============================================================================
// Helpers
// ============================================================================

func newTestHandler(validateErr error) (*MCPHandler, *session.Registry, *stubFactory) {
	registry := session.NewRegistry(session.Config{})
	factory := &stubFactory{}
	validator := ValidatorFunc(func(ctx context.Context, credential string) error {
		return validateErr
	})
	return NewMCPHandler(registry, validator, factory), registry, factory
}

func doRequest(h *MCPHandler, verb, sessionID, credential, body string) *httptest.ResponseRecorder {
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	r := httptest.NewRequest(verb, "/mcp", rdr)
	if sessionID != "" {
		r.Header.Set(transport.HeaderSessionID, sessionID)
	}
	if credential != "" {
		r.Header.Set("Authorization", "Bearer "+credential)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}

func decodeRPCError(t *testing.T, rec *httptest.ResponseRecorder) *jsonrpc.Response {
	t.Helper()
	var resp jsonrpc.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), "body: %s", rec.Body.String())
	require.NotNil(t, resp.Error, "expected an error envelope, got: %s", rec.Body.String())
	return &resp
}

func establishSession(t *testing.T, h *MCPHandler, credential string) string {
	t.Helper()
	rec := doRequest(h, http.MethodPost, "", credential, initializeBody)
	require.Equal(t, http.StatusOK, rec.Code, "bootstrap failed: %s", rec.Body.String())
	id := rec.Header().Get(transport.HeaderSessionID)
	require.NotEmpty(t, id)
	return id
}

// ============================================================================
// Bootstrap
// ============================================================================

func TestMCPHandler_Bootstrap(t *testing.T) {
	t.Run("EstablishesSessionAndEchoesHeader", func(t *testing.T) {
		h, registry, factory := newTestHandler(nil)

		id := establishSession(t, h, "tok-123")

		assert.Equal(t, 1, registry.Count())
		assert.True(t, registry.Has(id))
		assert.Equal(t, "tok-123", factory.last(t).lastToken,
			"the credential must travel to the transport via the request context")
	})

	t.Run("MissingCredentialRejected", func(t *testing.T) {
		h, registry, factory := newTestHandler(nil)

		rec := doRequest(h, http.MethodPost, "", "", initializeBody)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		resp := decodeRPCError(t, rec)
		assert.Equal(t, jsonrpc.CodeServerError, resp.Error.Code)
		assert.Equal(t, 0, registry.Count())
		assert.Equal(t, 0, factory.count(), "no transport may be minted without credentials")
	})

	t.Run("UpstreamRejectionLeavesNoSession", func(t *testing.T) {
		h, registry, factory := newTestHandler(errors.New("401 from upstream"))

		for range 2 {
			rec := doRequest(h, http.MethodPost, "", "bad-token", initializeBody)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			resp := decodeRPCError(t, rec)
			assert.Equal(t, jsonrpc.CodeAuthRejected, resp.Error.Code)
			assert.NotContains(t, resp.Error.Message, "401 from upstream",
				"upstream error detail must not leak to the client")
		}
		assert.Equal(t, 0, registry.Count(), "every rejected bootstrap must leave the registry empty")
		assert.Equal(t, 0, factory.count())
	})

	t.Run("InitializeWinsOverUnknownSessionHeader", func(t *testing.T) {
		h, registry, _ := newTestHandler(nil)

		rec := doRequest(h, http.MethodPost, "ghost-session", "tok", initializeBody)

		require.Equal(t, http.StatusOK, rec.Code,
			"an initialize body starts a fresh session even under a stale id header")
		minted := rec.Header().Get(transport.HeaderSessionID)
		assert.NotEmpty(t, minted)
		assert.NotEqual(t, "ghost-session", minted)
		assert.Equal(t, 1, registry.Count())
	})

	t.Run("AuthErrorsEchoRequestID", func(t *testing.T) {
		h, _, _ := newTestHandler(nil)

		body := `{"jsonrpc":"2.0","id":42,"method":"initialize","params":{}}`
		rec := doRequest(h, http.MethodPost, "", "", body)

		resp := decodeRPCError(t, rec)
		assert.Equal(t, json.RawMessage("42"), resp.ID)
	})
}

// ============================================================================
// POST continuation
// ============================================================================

func TestMCPHandler_PostContinuation(t *testing.T) {
	t.Run("ForwardsToBoundTransport", func(t *testing.T) {
		h, _, factory := newTestHandler(nil)
		id := establishSession(t, h, "tok")

		rec := doRequest(h, http.MethodPost, id, "tok", pingBody)

		assert.Equal(t, http.StatusOK, rec.Code)
		st := factory.last(t)
		assert.Equal(t, int32(2), st.forwards.Load())
		assert.Equal(t, pingBody, string(st.lastBody))
		assert.Equal(t, "tok", st.lastToken)
	})

	t.Run("MissingCredentialRejected", func(t *testing.T) {
		h, _, factory := newTestHandler(nil)
		id := establishSession(t, h, "tok")

		rec := doRequest(h, http.MethodPost, id, "", pingBody)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		resp := decodeRPCError(t, rec)
		assert.Equal(t, jsonrpc.CodeServerError, resp.Error.Code)
		assert.Equal(t, int32(1), factory.last(t).forwards.Load(),
			"the transport must not see unauthenticated requests")
	})

	t.Run("WrongCredentialRejected", func(t *testing.T) {
		h, _, factory := newTestHandler(nil)
		id := establishSession(t, h, "tok")

		rec := doRequest(h, http.MethodPost, id, "other-token", pingBody)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		resp := decodeRPCError(t, rec)
		assert.Equal(t, jsonrpc.CodeServerError, resp.Error.Code)
		assert.Equal(t, int32(1), factory.last(t).forwards.Load())
	})

	t.Run("UnknownSessionNotFound", func(t *testing.T) {
		h, _, _ := newTestHandler(nil)

		body := `{"jsonrpc":"2.0","id":7,"method":"ping"}`
		rec := doRequest(h, http.MethodPost, "never-created", "tok", body)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		resp := decodeRPCError(t, rec)
		assert.Equal(t, jsonrpc.CodeSessionNotFound, resp.Error.Code)
		assert.Equal(t, json.RawMessage("7"), resp.ID)
	})

	t.Run("MalformedBodyWithKnownSessionForwards", func(t *testing.T) {
		h, _, factory := newTestHandler(nil)
		id := establishSession(t, h, "tok")

		rec := doRequest(h, http.MethodPost, id, "tok", `{not json`)

		// JSON framing is the transport's concern, not the dispatcher's.
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, int32(2), factory.last(t).forwards.Load())
		assert.Equal(t, `{not json`, string(factory.last(t).lastBody))
	})

	t.Run("ReinitializeOnLiveSessionForwards", func(t *testing.T) {
		h, registry, factory := newTestHandler(nil)
		id := establishSession(t, h, "tok")

		rec := doRequest(h, http.MethodPost, id, "tok", initializeBody)

		// A known id wins over the initialize body; the bound transport
		// answers, no second session appears.
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, registry.Count())
		assert.Equal(t, 1, factory.count())
		assert.Equal(t, int32(2), factory.last(t).forwards.Load())
	})

	t.Run("NoSessionNoInitializeUnroutable", func(t *testing.T) {
		h, _, _ := newTestHandler(nil)

		rec := doRequest(h, http.MethodPost, "", "tok", pingBody)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeRPCError(t, rec)
		assert.Equal(t, jsonrpc.CodeServerError, resp.Error.Code)
	})

	t.Run("UnreadableBodyRejected", func(t *testing.T) {
		h, _, _ := newTestHandler(nil)

		r := httptest.NewRequest(http.MethodPost, "/mcp", errReader{})
		r.Header.Set("Authorization", "Bearer tok")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeRPCError(t, rec)
		assert.Equal(t, jsonrpc.CodeServerError, resp.Error.Code)
	})
}

// ============================================================================
// GET and DELETE continuation
// ============================================================================

func TestMCPHandler_StreamAndDelete(t *testing.T) {
	t.Run("MissingSessionHeaderPlainText", func(t *testing.T) {
		h, _, _ := newTestHandler(nil)

		rec := doRequest(h, http.MethodGet, "", "tok", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid or missing session ID\n", rec.Body.String())
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	})

	t.Run("ExistenceCheckedBeforeCredentials", func(t *testing.T) {
		h, _, _ := newTestHandler(nil)

		// No credential at all: an unknown session must still yield the
		// plain-text 400, not a credential error.
		for _, verb := range []string{http.MethodGet, http.MethodDelete} {
			rec := doRequest(h, verb, "never-created", "", "")

			assert.Equal(t, http.StatusBadRequest, rec.Code, "verb %s", verb)
			assert.Equal(t, "Invalid or missing session ID\n", rec.Body.String(), "verb %s", verb)
		}
	})

	t.Run("MissingCredentialRejected", func(t *testing.T) {
		h, _, _ := newTestHandler(nil)
		id := establishSession(t, h, "tok")

		rec := doRequest(h, http.MethodGet, id, "", "")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		resp := decodeRPCError(t, rec)
		assert.Equal(t, jsonrpc.CodeServerError, resp.Error.Code)
	})

	t.Run("WrongCredentialRejected", func(t *testing.T) {
		h, _, factory := newTestHandler(nil)
		id := establishSession(t, h, "tok")

		rec := doRequest(h, http.MethodDelete, id, "other", "")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, int32(0), factory.last(t).closes.Load(),
			"a mismatched credential must not terminate the session")
	})

	t.Run("ForwardsStreamOpen", func(t *testing.T) {
		h, _, factory := newTestHandler(nil)
		id := establishSession(t, h, "tok")

		rec := doRequest(h, http.MethodGet, id, "tok", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		st := factory.last(t)
		assert.Equal(t, http.MethodGet, st.lastVerb)
		assert.Equal(t, "tok", st.lastToken)
	})

	t.Run("DeleteClosesAndRemoves", func(t *testing.T) {
		h, registry, factory := newTestHandler(nil)
		id := establishSession(t, h, "tok")

		rec := doRequest(h, http.MethodDelete, id, "tok", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, int32(1), factory.last(t).closes.Load())
		assert.Equal(t, 0, registry.Count(), "the closed callback must remove the session")

		// The id is gone now, so a second DELETE gets the plain-text 400.
		rec = doRequest(h, http.MethodDelete, id, "tok", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid or missing session ID\n", rec.Body.String())
	})
}

// ============================================================================
// Failure containment
// ============================================================================

func TestMCPHandler_FailureContainment(t *testing.T) {
	t.Run("TransportErrorBeforeWriteBecomes500", func(t *testing.T) {
		h, _, factory := newTestHandler(nil)
		id := establishSession(t, h, "tok")
		factory.last(t).handleErr = errors.New("connection reset by upstream")

		rec := doRequest(h, http.MethodPost, id, "tok", pingBody)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		resp := decodeRPCError(t, rec)
		assert.Equal(t, jsonrpc.CodeInternalError, resp.Error.Code)
		assert.Equal(t, "internal server error", resp.Error.Message)
		assert.NotContains(t, rec.Body.String(), "connection reset",
			"internal error detail must never reach the client")
	})

	t.Run("TransportErrorAfterWriteLeavesResponse", func(t *testing.T) {
		h, _, factory := newTestHandler(nil)
		id := establishSession(t, h, "tok")
		st := factory.last(t)
		st.writeFirst = true
		st.handleErr = errors.New("stream broke mid-flight")

		rec := doRequest(h, http.MethodPost, id, "tok", pingBody)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"jsonrpc":"2.0","id":1,"result":{}}`, rec.Body.String(),
			"a started response must not get an error envelope appended")
	})

	t.Run("TransportPanicBeforeWriteBecomes500", func(t *testing.T) {
		h, _, factory := newTestHandler(nil)
		id := establishSession(t, h, "tok")
		factory.last(t).panicMsg = "secret internal detail"

		rec := doRequest(h, http.MethodPost, id, "tok", pingBody)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		resp := decodeRPCError(t, rec)
		assert.Equal(t, jsonrpc.CodeInternalError, resp.Error.Code)
		assert.NotContains(t, rec.Body.String(), "secret internal detail")
	})

	t.Run("TransportPanicAfterWriteLeavesResponse", func(t *testing.T) {
		h, _, factory := newTestHandler(nil)
		id := establishSession(t, h, "tok")
		st := factory.last(t)
		st.writeFirst = true
		st.panicMsg = "secret internal detail"

		rec := doRequest(h, http.MethodPost, id, "tok", pingBody)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"jsonrpc":"2.0","id":1,"result":{}}`, rec.Body.String())
	})

	t.Run("UnsupportedVerbRejected", func(t *testing.T) {
		h, _, _ := newTestHandler(nil)

		rec := doRequest(h, http.MethodPatch, "", "tok", "{}")

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		assert.Equal(t, "GET, POST, DELETE", rec.Header().Get("Allow"))
	})
}
