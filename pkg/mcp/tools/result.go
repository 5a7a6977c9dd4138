package tools

import "fmt"

// ContentTypeText is the only content type the Shortcut tools emit.
const ContentTypeText = "text"

// Content is a single content item inside a tool result.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// Result is the outcome of a tool call, serialized as the tools/call result.
// IsError marks tool-level failure (bad story id, upstream rejection); it is
// distinct from a protocol error, which aborts the call entirely.
type Result struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError,omitempty"`
}

// TextResult builds a successful single-text result.
func TextResult(format string, args ...any) *Result {
	return &Result{
		Content: []Content{{Type: ContentTypeText, Text: fmt.Sprintf(format, args...)}},
	}
}

// ErrorResult builds a failed single-text result.
func ErrorResult(format string, args ...any) *Result {
	return &Result{
		Content: []Content{{Type: ContentTypeText, Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}
