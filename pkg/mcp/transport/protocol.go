package transport

import (
	"encoding/json"

	"github.com/marmos91/shortcut-mcp/pkg/mcp/tools"
)

// ProtocolVersion is the MCP revision this transport implements (the
// streamable HTTP revision).
const ProtocolVersion = "2025-03-26"

// HTTP headers defined by the streamable HTTP transport.
const (
	// HeaderSessionID carries the server-assigned session identifier.
	HeaderSessionID = "Mcp-Session-Id"

	// HeaderLastEventID carries the SSE resumption marker on GET.
	HeaderLastEventID = "Last-Event-ID"
)

// JSON-RPC method names handled by the engine.
const (
	MethodInitialize  = "initialize"
	MethodInitialized = "notifications/initialized"
	MethodCancelled   = "notifications/cancelled"
	MethodPing        = "ping"
	MethodToolsList   = "tools/list"
	MethodToolsCall   = "tools/call"
)

// Implementation identifies one side of the protocol handshake.
type Implementation struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// InitializeParams are the client's half of the handshake.
type InitializeParams struct {
	ProtocolVersion string          `json:"protocolVersion"`
	Capabilities    json.RawMessage `json:"capabilities,omitempty"`
	ClientInfo      Implementation  `json:"clientInfo"`
}

// InitializeResult is the server's half of the handshake.
type InitializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    ServerCapabilities `json:"capabilities"`
	ServerInfo      Implementation     `json:"serverInfo"`
	Instructions    string             `json:"instructions,omitempty"`
}

// ServerCapabilities advertises what this server can do. Only tools are
// offered.
type ServerCapabilities struct {
	Tools *ToolsCapability `json:"tools,omitempty"`
}

// ToolsCapability describes the tools capability.
type ToolsCapability struct {
	ListChanged bool `json:"listChanged,omitempty"`
}

// ToolsListResult is the result of tools/list.
type ToolsListResult struct {
	Tools []*tools.Tool `json:"tools"`
}

// ToolCallParams are the params of tools/call.
type ToolCallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}
