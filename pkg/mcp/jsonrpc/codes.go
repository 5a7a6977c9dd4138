package jsonrpc

// Error codes defined by the JSON-RPC 2.0 specification.
const (
	// CodeParseError indicates the server received invalid JSON.
	CodeParseError = -32700

	// CodeInvalidRequest indicates the payload is not a valid request object.
	CodeInvalidRequest = -32600

	// CodeMethodNotFound indicates the requested method does not exist.
	CodeMethodNotFound = -32601

	// CodeInvalidParams indicates the method parameters are invalid.
	CodeInvalidParams = -32602

	// CodeInternalError indicates an internal server failure. The message
	// attached to this code is always generic; internal detail stays in the
	// server logs.
	CodeInternalError = -32603
)

// Implementation-defined server error codes (-32000 to -32099).
const (
	// CodeServerError covers request-level conditions the client can correct:
	// missing credentials, credentials that do not match the session, and
	// bodies that cannot be routed at all.
	CodeServerError = -32000

	// CodeSessionNotFound indicates the session id is unknown or expired.
	// "Never existed" and "evicted" are deliberately indistinguishable.
	CodeSessionNotFound = -32001

	// CodeAuthRejected indicates the upstream API rejected the credential
	// during session bootstrap.
	CodeAuthRejected = -32002
)
