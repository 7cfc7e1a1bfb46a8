package handler

import "gdsgames/backend/internal/store"

const defaultPageSize = 20

// PaginationMeta defines the structure for pagination metadata.
type PaginationMeta struct {
	TotalItems int64 `json:"total_items"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// PaginatedResponse defines the structure for a paginated list of any type.
type PaginatedResponse[T any] struct {
	Data []T            `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

// NewPaginatedResponse creates a new PaginatedResponse.
func NewPaginatedResponse[T any](data []T, totalItems int64, limit, offset int) PaginatedResponse[T] {
	if data == nil {
		data = []T{}
	}
	return PaginatedResponse[T]{
		Data: data,
		Meta: PaginationMeta{
			TotalItems: totalItems,
			Limit:      limit,
			Offset:     offset,
		},
	}
}

// clampLimit mirrors the bounds the stores apply so responses echo the
// effective values.
func clampLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	if limit > store.MaxPageSize {
		return store.MaxPageSize
	}
	return limit
}
