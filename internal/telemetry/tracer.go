package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Common attribute keys for MCP and Shortcut operations.
// These follow OpenTelemetry semantic conventions where applicable.
const (
	// ========================================================================
	// Client attributes
	// ========================================================================
	AttrClientIP   = "client.ip"
	AttrClientAddr = "client.address"

	// ========================================================================
	// MCP protocol attributes
	// ========================================================================
	AttrMCPMethod    = "mcp.method"           // JSON-RPC method name
	AttrMCPSessionID = "mcp.session_id"       // Session identifier
	AttrMCPTool      = "mcp.tool"             // Tool name for tools/call
	AttrMCPVersion   = "mcp.protocol_version" // Negotiated protocol revision
	AttrMCPVerb      = "mcp.http_verb"        // HTTP verb on the MCP endpoint
	AttrRPCID        = "rpc.id"               // JSON-RPC request id
	AttrRPCErrorCode = "rpc.error_code"       // JSON-RPC error code

	// ========================================================================
	// Shortcut upstream attributes
	// ========================================================================
	AttrShortcutEndpoint = "shortcut.endpoint" // API path, e.g. /api/v3/stories/search
	AttrShortcutStatus   = "shortcut.status"   // Upstream HTTP status
	AttrShortcutQuery    = "shortcut.query"    // Search query string
)

// Span names for operations.
// Format: <component>.<operation>
const (
	SpanMCPRequest    = "mcp.request"
	SpanMCPInitialize = "mcp.initialize"
	SpanMCPToolsList  = "mcp.tools_list"
	SpanMCPToolCall   = "mcp.tool_call"
	SpanMCPStream     = "mcp.stream"

	SpanSessionCreate = "session.create"
	SpanSessionSweep  = "session.sweep"

	SpanShortcutCall  = "shortcut.call"
	SpanTokenValidate = "shortcut.validate_token"
)

// ClientIP returns an attribute for client IP address
func ClientIP(ip string) attribute.KeyValue {
	return attribute.String(AttrClientIP, ip)
}

// ClientAddr returns an attribute for full client address
func ClientAddr(addr string) attribute.KeyValue {
	return attribute.String(AttrClientAddr, addr)
}

// MCPMethod returns an attribute for the JSON-RPC method name
func MCPMethod(method string) attribute.KeyValue {
	return attribute.String(AttrMCPMethod, method)
}

// MCPSessionID returns an attribute for the session identifier
func MCPSessionID(id string) attribute.KeyValue {
	return attribute.String(AttrMCPSessionID, id)
}

// MCPTool returns an attribute for a tool name
func MCPTool(name string) attribute.KeyValue {
	return attribute.String(AttrMCPTool, name)
}

// MCPVersion returns an attribute for the protocol revision
func MCPVersion(v string) attribute.KeyValue {
	return attribute.String(AttrMCPVersion, v)
}

// MCPVerb returns an attribute for the HTTP verb on the MCP endpoint
func MCPVerb(verb string) attribute.KeyValue {
	return attribute.String(AttrMCPVerb, verb)
}

// RPCID returns an attribute for the JSON-RPC request id
func RPCID(id string) attribute.KeyValue {
	return attribute.String(AttrRPCID, id)
}

// RPCErrorCode returns an attribute for a JSON-RPC error code
func RPCErrorCode(code int) attribute.KeyValue {
	return attribute.Int(AttrRPCErrorCode, code)
}

// ShortcutEndpoint returns an attribute for a Shortcut API path
func ShortcutEndpoint(p string) attribute.KeyValue {
	return attribute.String(AttrShortcutEndpoint, p)
}

// ShortcutStatus returns an attribute for an upstream HTTP status
func ShortcutStatus(status int) attribute.KeyValue {
	return attribute.Int(AttrShortcutStatus, status)
}

// ShortcutQuery returns an attribute for a search query string
func ShortcutQuery(q string) attribute.KeyValue {
	return attribute.String(AttrShortcutQuery, q)
}

// StartRequestSpan starts a span for an MCP request.
// This is a convenience function that sets common attributes.
func StartRequestSpan(ctx context.Context, verb, sessionID string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := []attribute.KeyValue{
		MCPVerb(verb),
	}
	if sessionID != "" {
		allAttrs = append(allAttrs, MCPSessionID(sessionID))
	}
	allAttrs = append(allAttrs, attrs...)

	return StartSpan(ctx, SpanMCPRequest, trace.WithAttributes(allAttrs...))
}

// StartToolSpan starts a span for a tool invocation.
func StartToolSpan(ctx context.Context, tool string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := []attribute.KeyValue{
		MCPTool(tool),
	}
	allAttrs = append(allAttrs, attrs...)

	return StartSpan(ctx, SpanMCPToolCall, trace.WithAttributes(allAttrs...))
}

// StartShortcutSpan starts a span for an upstream Shortcut API call.
func StartShortcutSpan(ctx context.Context, endpoint string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := []attribute.KeyValue{
		ShortcutEndpoint(endpoint),
	}
	allAttrs = append(allAttrs, attrs...)

	return StartSpan(ctx, SpanShortcutCall, trace.WithAttributes(allAttrs...))
}
