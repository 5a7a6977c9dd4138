package logger

import (
	"log/slog"
	"time"
)

// Standard field keys for structured logging.
// Use these keys consistently across all log statements for log aggregation
// and querying.
const (
	// ========================================================================
	// Distributed Tracing
	// ========================================================================
	KeyTraceID = "trace_id" // OpenTelemetry trace ID for request correlation
	KeySpanID  = "span_id"  // OpenTelemetry span ID for operation tracking

	// ========================================================================
	// JSON-RPC & MCP
	// ========================================================================
	KeyMethod          = "method"           // JSON-RPC method: initialize, tools/call, etc.
	KeyRPCID           = "rpc_id"           // JSON-RPC request id (string form)
	KeyTool            = "tool"             // MCP tool name for tools/call
	KeyProtocolVersion = "protocol_version" // Negotiated MCP protocol revision
	KeyEventID         = "event_id"         // SSE event id for stream resumption

	// ========================================================================
	// HTTP Transport
	// ========================================================================
	KeyVerb      = "verb"       // HTTP method on the MCP endpoint
	KeyPath      = "path"       // Request path
	KeyStatus    = "status"     // HTTP status code
	KeyBytes     = "bytes"      // Response body size in bytes
	KeyRequestID = "request_id" // Per-request correlation ID (chi middleware)

	// ========================================================================
	// Session Lifecycle
	// ========================================================================
	KeySessionID = "session_id" // MCP session identifier
	KeySessions  = "sessions"   // Number of live sessions
	KeyReason    = "reason"     // Termination reason: expired, deleted, shutdown
	KeyIdleFor   = "idle_for"   // Time since last session activity

	// ========================================================================
	// Client Identification
	// ========================================================================
	KeyClientIP   = "client_ip"   // Client IP address
	KeyRemoteAddr = "remote_addr" // Full remote address with port

	// ========================================================================
	// Shortcut Upstream
	// ========================================================================
	KeyEndpoint    = "endpoint"     // Shortcut API path, e.g. /api/v3/member
	KeyStoryID     = "story_id"     // Shortcut story public ID
	KeyEpicID      = "epic_id"      // Shortcut epic public ID
	KeyIterationID = "iteration_id" // Shortcut iteration public ID
	KeyObjectiveID = "objective_id" // Shortcut objective public ID
	KeyWorkflowID  = "workflow_id"  // Shortcut workflow public ID
	KeyMemberID    = "member_id"    // Shortcut member UUID
	KeyTeamID      = "team_id"      // Shortcut group/team UUID
	KeyQuery       = "query"        // Search query string
	KeyPageSize    = "page_size"    // Requested page size

	// ========================================================================
	// Operation Metadata
	// ========================================================================
	KeyDurationMs = "duration_ms" // Operation duration in milliseconds
	KeyError      = "error"       // Error message
	KeyErrorCode  = "error_code"  // Numeric error code (JSON-RPC or HTTP)
	KeyCount      = "count"       // Generic item count
	KeyAttempt    = "attempt"     // Retry attempt number
	KeyListenAddr = "listen_addr" // Server listen address
)

// ============================================================================
// Field constructors for type safety
// These functions provide type-safe construction of slog.Attr values.
// ============================================================================

// TraceID returns a slog.Attr for OpenTelemetry trace ID
func TraceID(id string) slog.Attr {
	return slog.String(KeyTraceID, id)
}

// SpanID returns a slog.Attr for OpenTelemetry span ID
func SpanID(id string) slog.Attr {
	return slog.String(KeySpanID, id)
}

// Method returns a slog.Attr for the JSON-RPC method name
func Method(name string) slog.Attr {
	return slog.String(KeyMethod, name)
}

// RPCID returns a slog.Attr for the JSON-RPC request id
func RPCID(id string) slog.Attr {
	return slog.String(KeyRPCID, id)
}

// Tool returns a slog.Attr for an MCP tool name
func Tool(name string) slog.Attr {
	return slog.String(KeyTool, name)
}

// ProtocolVersion returns a slog.Attr for the MCP protocol revision
func ProtocolVersion(v string) slog.Attr {
	return slog.String(KeyProtocolVersion, v)
}

// EventID returns a slog.Attr for an SSE event id
func EventID(id string) slog.Attr {
	return slog.String(KeyEventID, id)
}

// Verb returns a slog.Attr for the HTTP method
func Verb(v string) slog.Attr {
	return slog.String(KeyVerb, v)
}

// Path returns a slog.Attr for the request path
func Path(p string) slog.Attr {
	return slog.String(KeyPath, p)
}

// Status returns a slog.Attr for an HTTP status code
func Status(code int) slog.Attr {
	return slog.Int(KeyStatus, code)
}

// Bytes returns a slog.Attr for a response body size
func Bytes(n int) slog.Attr {
	return slog.Int(KeyBytes, n)
}

// RequestID returns a slog.Attr for the per-request correlation ID
func RequestID(id string) slog.Attr {
	return slog.String(KeyRequestID, id)
}

// SessionID returns a slog.Attr for an MCP session identifier
func SessionID(id string) slog.Attr {
	return slog.String(KeySessionID, id)
}

// Sessions returns a slog.Attr for the live session count
func Sessions(n int) slog.Attr {
	return slog.Int(KeySessions, n)
}

// Reason returns a slog.Attr for a session termination reason
func Reason(r string) slog.Attr {
	return slog.String(KeyReason, r)
}

// IdleFor returns a slog.Attr for time since last session activity
func IdleFor(d time.Duration) slog.Attr {
	return slog.Duration(KeyIdleFor, d)
}

// ClientIP returns a slog.Attr for the client IP address
func ClientIP(addr string) slog.Attr {
	return slog.String(KeyClientIP, addr)
}

// RemoteAddr returns a slog.Attr for the full remote address
func RemoteAddr(addr string) slog.Attr {
	return slog.String(KeyRemoteAddr, addr)
}

// Endpoint returns a slog.Attr for a Shortcut API path
func Endpoint(p string) slog.Attr {
	return slog.String(KeyEndpoint, p)
}

// StoryID returns a slog.Attr for a Shortcut story public ID
func StoryID(id int64) slog.Attr {
	return slog.Int64(KeyStoryID, id)
}

// EpicID returns a slog.Attr for a Shortcut epic public ID
func EpicID(id int64) slog.Attr {
	return slog.Int64(KeyEpicID, id)
}

// IterationID returns a slog.Attr for a Shortcut iteration public ID
func IterationID(id int64) slog.Attr {
	return slog.Int64(KeyIterationID, id)
}

// ObjectiveID returns a slog.Attr for a Shortcut objective public ID
func ObjectiveID(id int64) slog.Attr {
	return slog.Int64(KeyObjectiveID, id)
}

// WorkflowID returns a slog.Attr for a Shortcut workflow public ID
func WorkflowID(id int64) slog.Attr {
	return slog.Int64(KeyWorkflowID, id)
}

// MemberID returns a slog.Attr for a Shortcut member UUID
func MemberID(id string) slog.Attr {
	return slog.String(KeyMemberID, id)
}

// TeamID returns a slog.Attr for a Shortcut group/team UUID
func TeamID(id string) slog.Attr {
	return slog.String(KeyTeamID, id)
}

// Query returns a slog.Attr for a search query
func Query(q string) slog.Attr {
	return slog.String(KeyQuery, q)
}

// PageSize returns a slog.Attr for a requested page size
func PageSize(n int) slog.Attr {
	return slog.Int(KeyPageSize, n)
}

// DurationMs returns a slog.Attr for duration in milliseconds
func DurationMs(ms float64) slog.Attr {
	return slog.Float64(KeyDurationMs, ms)
}

// Err returns a slog.Attr for an error
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// ErrorCode returns a slog.Attr for a numeric error code
func ErrorCode(code int) slog.Attr {
	return slog.Int(KeyErrorCode, code)
}

// Count returns a slog.Attr for a generic item count
func Count(n int) slog.Attr {
	return slog.Int(KeyCount, n)
}

// Attempt returns a slog.Attr for a retry attempt number
func Attempt(n int) slog.Attr {
	return slog.Int(KeyAttempt, n)
}

// ListenAddr returns a slog.Attr for a server listen address
func ListenAddr(addr string) slog.Attr {
	return slog.String(KeyListenAddr, addr)
}
