package shortcut

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// ============================================================================
// Generic API Client Helpers
// ============================================================================
//
// These helpers reduce repetitive HTTP boilerplate across API client resource
// files. Each helper wraps the underlying Client.get/post/put methods with
// type-safe generics for request/response handling. They are unexported
// (package-internal).

// getResource performs a GET request to the given path and decodes the
// response body into a value of type T. Returns a pointer to the decoded
// value.
func getResource[T any](ctx context.Context, c *Client, path string) (*T, error) {
	var result T
	if err := c.get(ctx, path, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// listResources performs a GET request to the given path and decodes the
// response body into a slice of type T.
func listResources[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	var results []T
	if err := c.get(ctx, path, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// createResource performs a POST request to the given path with the provided
// body and decodes the response into a value of type T.
func createResource[T any](ctx context.Context, c *Client, path string, body any) (*T, error) {
	var result T
	if err := c.post(ctx, path, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// updateResource performs a PUT request to the given path with the provided
// body and decodes the response into a value of type T.
func updateResource[T any](ctx context.Context, c *Client, path string, body any) (*T, error) {
	var result T
	if err := c.put(ctx, path, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// resourcePath builds a resource path by formatting a path template with the
// given arguments using fmt.Sprintf.
func resourcePath(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}

// searchPath builds a /search endpoint path with query, page size and detail
// level encoded as URL parameters.
func searchPath(endpoint, query string, pageSize int, detail string) string {
	params := url.Values{}
	params.Set("query", query)
	if pageSize > 0 {
		params.Set("page_size", strconv.Itoa(pageSize))
	}
	if detail != "" {
		params.Set("detail", detail)
	}
	return endpoint + "?" + params.Encode()
}
