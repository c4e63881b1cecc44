package types

// ListResponse is a generic list envelope for API responses
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// NewListResponse creates a new list response with the given items
func NewListResponse[T any](items []T) ListResponse[T] {
	return ListResponse[T]{
		Items: items,
		Total: len(items),
	}
}
