// Package handlers provides the HTTP handlers for the MCP endpoint.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/marmos91/shortcut-mcp/pkg/mcp/jsonrpc"
)

// Dispatcher-synthesized errors are JSON-RPC envelopes:
// {"jsonrpc":"2.0","error":{code,message},"id":<echoed|null>}.
// The transport frames its own errors; these cover everything the
// dispatcher rejects before a transport is involved.

// WriteRPCError writes a synthesized JSON-RPC error envelope.
func WriteRPCError(w http.ResponseWriter, status int, id json.RawMessage, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(jsonrpc.NewErrorResponse(id, code, message))
}

// AuthMissing writes the 401 for a request that carries no credential.
func AuthMissing(w http.ResponseWriter, id json.RawMessage) {
	WriteRPCError(w, http.StatusUnauthorized, id, jsonrpc.CodeServerError,
		"missing credentials: set Authorization: Bearer or X-Shortcut-Api-Token")
}

// AuthMismatch writes the 401 for a credential that does not match the
// session it claims. Seeing this means the client's session/credential
// bookkeeping is broken.
func AuthMismatch(w http.ResponseWriter, id json.RawMessage) {
	WriteRPCError(w, http.StatusUnauthorized, id, jsonrpc.CodeServerError,
		"credentials do not match this session")
}

// AuthInvalidUpstream writes the 401 for a bootstrap credential the
// upstream service rejected. Distinct from AuthMismatch so the client
// knows to re-authenticate rather than fix its bookkeeping.
func AuthInvalidUpstream(w http.ResponseWriter, id json.RawMessage) {
	WriteRPCError(w, http.StatusUnauthorized, id, jsonrpc.CodeAuthRejected,
		"invalid credentials: token rejected by Shortcut")
}

// SessionUnknown writes the 404 for an id that was never issued or has
// been evicted. The two cases are deliberately indistinguishable; the
// remedy is the same: restart the handshake.
func SessionUnknown(w http.ResponseWriter, id json.RawMessage) {
	WriteRPCError(w, http.StatusNotFound, id, jsonrpc.CodeSessionNotFound,
		"unknown or expired session: restart the handshake")
}

// MalformedRequest writes the 400 for a POST that cannot be routed at all:
// no session id and not an initialize request.
func MalformedRequest(w http.ResponseWriter, id json.RawMessage) {
	WriteRPCError(w, http.StatusBadRequest, id, jsonrpc.CodeServerError,
		"malformed request: no session id and not an initialize request")
}

// InternalFailure writes the generic 500 envelope. The triggering detail
// goes to the log, never to the client.
func InternalFailure(w http.ResponseWriter, id json.RawMessage) {
	WriteRPCError(w, http.StatusInternalServerError, id, jsonrpc.CodeInternalError,
		"internal server error")
}

// InvalidSession writes the terminal plain-text rejection for GET/DELETE
// with a missing or unknown session id. No JSON-RPC envelope: there is no
// session context to frame one against. Checked before credentials.
func InvalidSession(w http.ResponseWriter) {
	http.Error(w, "Invalid or missing session ID", http.StatusBadRequest)
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
