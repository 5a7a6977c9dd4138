package shortcut

// SearchResults is a page of search hits. Next, when set, is the path of the
// following page including its search parameters.
type SearchResults[T any] struct {
	Total int64   `json:"total"`
	Data  []T     `json:"data"`
	Next  *string `json:"next,omitempty"`
}
