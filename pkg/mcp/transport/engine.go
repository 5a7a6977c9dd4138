package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/marmos91/shortcut-mcp/internal/logger"
	"github.com/marmos91/shortcut-mcp/internal/telemetry"
	"github.com/marmos91/shortcut-mcp/pkg/mcp/jsonrpc"
	"github.com/marmos91/shortcut-mcp/pkg/mcp/tools"
)

// ============================================================================
// JSON-RPC Method Dispatch
// ============================================================================

// EngineConfig carries the server identity advertised during the
// initialize handshake.
type EngineConfig struct {
	// ServerInfo names this server in initialize responses.
	ServerInfo Implementation

	// Instructions is optional guidance surfaced to the client's model.
	Instructions string

	// Metrics records per-method counters. May be nil.
	Metrics *Metrics
}

// Engine executes JSON-RPC methods against a tool registry. One engine is
// shared by every transport; all per-session state lives on the Transport.
type Engine struct {
	tools *tools.Registry
	cfg   EngineConfig
}

// NewEngine creates an engine backed by the given tool registry.
func NewEngine(reg *tools.Registry, cfg EngineConfig) *Engine {
	return &Engine{tools: reg, cfg: cfg}
}

// handle executes a single request and returns its response. Notifications
// must be routed through handleNotification instead.
func (e *Engine) handle(ctx context.Context, t *Transport, req *jsonrpc.Request) *jsonrpc.Response {
	start := time.Now()
	if lc := logger.FromContext(ctx); lc != nil {
		ctx = logger.WithContext(ctx, lc.WithMethod(req.Method))
	}

	var resp *jsonrpc.Response
	switch req.Method {
	case MethodInitialize:
		resp = e.handleInitialize(ctx, t, req)
	case MethodPing:
		resp = jsonrpc.NewResponse(req.ID, struct{}{})
	case MethodToolsList:
		resp = e.handleToolsList(ctx, req)
	case MethodToolsCall:
		resp = e.handleToolCall(ctx, req)
	default:
		logger.DebugCtx(ctx, "method not found", logger.RPCID(req.IDString()))
		resp = jsonrpc.NewErrorResponse(req.ID, jsonrpc.CodeMethodNotFound,
			fmt.Sprintf("method not found: %s", req.Method))
	}

	outcome := "ok"
	if resp.Error != nil {
		outcome = "error"
	}
	e.cfg.Metrics.recordRPC(req.Method, outcome, time.Since(start).Seconds())

	return resp
}

// handleNotification processes a client notification. Notifications never
// produce a response; unknown ones are ignored.
func (e *Engine) handleNotification(ctx context.Context, t *Transport, method string) {
	switch method {
	case MethodInitialized:
		t.markInitialized()
		logger.DebugCtx(ctx, "client completed initialization")
	case MethodCancelled:
		logger.DebugCtx(ctx, "client cancelled an in-flight request")
	default:
		logger.DebugCtx(ctx, "ignoring notification", logger.Method(method))
	}
}

// handleInitialize performs the handshake. The session identifier is minted
// only after the params decode cleanly, so a malformed initialize never
// leaves a half-created session behind.
func (e *Engine) handleInitialize(ctx context.Context, t *Transport, req *jsonrpc.Request) *jsonrpc.Response {
	var params InitializeParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return jsonrpc.NewErrorResponse(req.ID, jsonrpc.CodeInvalidParams, "malformed initialize params")
		}
	}

	id, err := t.establish()
	if err != nil {
		logger.WarnCtx(ctx, "initialize on established session", logger.Err(err))
		return jsonrpc.NewErrorResponse(req.ID, jsonrpc.CodeInvalidRequest, "session already initialized")
	}

	logger.InfoCtx(ctx, "session initialized",
		logger.SessionID(id),
		"client", params.ClientInfo.Name,
		"client_version", params.ClientInfo.Version,
		logger.ProtocolVersion(params.ProtocolVersion))

	return jsonrpc.NewResponse(req.ID, &InitializeResult{
		ProtocolVersion: ProtocolVersion,
		Capabilities: ServerCapabilities{
			Tools: &ToolsCapability{ListChanged: false},
		},
		ServerInfo:   e.cfg.ServerInfo,
		Instructions: e.cfg.Instructions,
	})
}

func (e *Engine) handleToolsList(ctx context.Context, req *jsonrpc.Request) *jsonrpc.Response {
	list := e.tools.List()
	logger.DebugCtx(ctx, "listing tools", logger.Count(len(list)))
	return jsonrpc.NewResponse(req.ID, &ToolsListResult{Tools: list})
}

// handleToolCall runs a tool. Tool failures are reported inside the result
// with isError set rather than as protocol errors, so the client's model can
// read them. Handler panics are logged server-side and replaced with a
// generic message.
func (e *Engine) handleToolCall(ctx context.Context, req *jsonrpc.Request) *jsonrpc.Response {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil || params.Name == "" {
		return jsonrpc.NewErrorResponse(req.ID, jsonrpc.CodeInvalidParams, "tools/call requires a tool name")
	}

	if lc := logger.FromContext(ctx); lc != nil {
		ctx = logger.WithContext(ctx, lc.WithTool(params.Name))
	}
	ctx, span := telemetry.StartToolSpan(ctx, params.Name)
	defer span.End()

	start := time.Now()
	result, err := e.tools.Call(ctx, params.Name, params.Arguments)

	switch {
	case errors.Is(err, tools.ErrNotFound):
		e.cfg.Metrics.recordToolCall(params.Name, "not_found")
		return jsonrpc.NewErrorResponse(req.ID, jsonrpc.CodeInvalidParams,
			fmt.Sprintf("unknown tool: %s", params.Name))

	case errors.Is(err, tools.ErrInternal):
		telemetry.RecordError(ctx, err)
		logger.ErrorCtx(ctx, "tool handler failed",
			logger.Err(err),
			logger.DurationMs(logger.Duration(start)))
		e.cfg.Metrics.recordToolCall(params.Name, "internal")
		return jsonrpc.NewResponse(req.ID, tools.ErrorResult("internal tool failure"))

	case err != nil:
		logger.WarnCtx(ctx, "tool returned error",
			logger.Err(err),
			logger.DurationMs(logger.Duration(start)))
		e.cfg.Metrics.recordToolCall(params.Name, "tool_error")
		return jsonrpc.NewResponse(req.ID, tools.ErrorResult("%s", err.Error()))
	}

	logger.DebugCtx(ctx, "tool call completed", logger.DurationMs(logger.Duration(start)))
	e.cfg.Metrics.recordToolCall(params.Name, "ok")
	return jsonrpc.NewResponse(req.ID, result)
}
