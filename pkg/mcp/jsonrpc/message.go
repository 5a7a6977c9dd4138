// Package jsonrpc implements the JSON-RPC 2.0 message framing used by the
// MCP streamable HTTP transport.
package jsonrpc

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Version is the protocol version string carried by every message.
const Version = "2.0"

// Request is a JSON-RPC request or notification. A request without an id
// is a notification and expects no response.
//
// The id is kept as raw JSON so string and numeric ids round-trip verbatim
// when echoed back in a response.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// IsNotification reports whether the request carries no id and therefore
// expects no response.
func (r *Request) IsNotification() bool {
	return len(r.ID) == 0 || bytes.Equal(r.ID, []byte("null"))
}

// IDString renders the request id for logging. Quoted string ids are
// unquoted; a missing id renders as an empty string.
func (r *Request) IDString() string {
	if len(r.ID) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(r.ID, &s); err == nil {
		return s
	}
	return string(r.ID)
}

// Response is a JSON-RPC response. Exactly one of Result and Error is set.
// The id field is always emitted; a nil id marshals as null, which is what
// the protocol requires when the request id could not be recovered.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Error is the error member of a failed response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

// NewError creates an Error with the given code and message.
func NewError(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

// NewResponse creates a success response echoing the given request id.
func NewResponse(id json.RawMessage, result any) *Response {
	return &Response{JSONRPC: Version, ID: id, Result: result}
}

// NewErrorResponse creates an error response echoing the given request id.
// A nil id is legal and marshals as null.
func NewErrorResponse(id json.RawMessage, code int, message string) *Response {
	return &Response{JSONRPC: Version, ID: id, Error: NewError(code, message)}
}

// Notification is an outbound server-to-client message without an id.
type Notification struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

// NewNotification creates a server-to-client notification.
func NewNotification(method string, params any) *Notification {
	return &Notification{JSONRPC: Version, Method: method, Params: params}
}

// AnyMessage is a decoded message of unknown kind. Clients legitimately POST
// requests, notifications and responses (replies to server-initiated
// requests); AnyMessage carries enough of each to classify them.
type AnyMessage struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// IsResponse reports whether the message is a response to a server request.
func (m *AnyMessage) IsResponse() bool {
	return m.Method == "" && (m.Result != nil || m.Error != nil)
}

// AsRequest returns the message as a request, or nil if it is a response.
func (m *AnyMessage) AsRequest() *Request {
	if m.IsResponse() {
		return nil
	}
	return &Request{JSONRPC: m.JSONRPC, ID: m.ID, Method: m.Method, Params: m.Params}
}

// ParseMessages decodes a POST body into one or more messages. The body may
// be a single message object or a batch array; batch reports which form was
// received so the response can mirror it. An empty batch is an error per the
// JSON-RPC specification.
func ParseMessages(data []byte) (msgs []*AnyMessage, batch bool, perr *Error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, false, NewError(CodeParseError, "empty request body")
	}

	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &msgs); err != nil {
			return nil, true, NewError(CodeParseError, "invalid JSON batch")
		}
		if len(msgs) == 0 {
			return nil, true, NewError(CodeInvalidRequest, "empty batch")
		}
		return msgs, true, nil
	}

	var msg AnyMessage
	if err := json.Unmarshal(trimmed, &msg); err != nil {
		return nil, false, NewError(CodeParseError, "invalid JSON")
	}
	return []*AnyMessage{&msg}, false, nil
}

// Validate checks the structural invariants of a decoded request.
func (r *Request) Validate() *Error {
	if r.JSONRPC != Version {
		return NewError(CodeInvalidRequest, fmt.Sprintf("unsupported jsonrpc version %q", r.JSONRPC))
	}
	if r.Method == "" {
		return NewError(CodeInvalidRequest, "missing method")
	}
	return nil
}

// ContainsMethod reports whether any message in the slice carries the given
// method name. Used to recognize bootstrap bodies before a session exists.
func ContainsMethod(msgs []*AnyMessage, method string) bool {
	for _, m := range msgs {
		if m != nil && m.Method == method {
			return true
		}
	}
	return false
}

// FirstID returns the id of the first request carrying one, or nil. Errors
// synthesized before routing echo this id so the client can correlate them.
func FirstID(msgs []*AnyMessage) json.RawMessage {
	for _, m := range msgs {
		if m == nil || m.IsResponse() {
			continue
		}
		if len(m.ID) > 0 && !bytes.Equal(m.ID, []byte("null")) {
			return m.ID
		}
	}
	return nil
}
