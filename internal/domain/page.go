// catalog-service/internal/domain/page.go
package domain

import "math"

// PageRequest selects a zero-based page of a result set.
type PageRequest struct {
	Number int
	Size   int
}

// Offset is the number of rows preceding the requested page. It saturates at
// math.MaxInt instead of overflowing.
func (p PageRequest) Offset() int {
	if p.Size > 0 && p.Number > math.MaxInt/p.Size {
		return math.MaxInt
	}
	return p.Number * p.Size
}

// Page is one slice of an ordered result set plus the total number of
// matching rows across all pages.
type Page[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	PageNumber int   `json:"pageNumber"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
	Last       bool  `json:"last"`
}

// NewPage assembles a page envelope. Items is never nil so it encodes as [].
func NewPage[T any](items []T, total int64, req PageRequest) Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if req.Size > 0 {
		totalPages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	return Page[T]{
		Items:      items,
		TotalCount: total,
		PageNumber: req.Number,
		PageSize:   req.Size,
		TotalPages: totalPages,
		Last:       req.Number >= totalPages-1,
	}
}

// MapPage converts every item of p with fn, keeping the paging metadata.
func MapPage[T, U any](p Page[T], fn func(T) U) Page[U] {
	items := make([]U, 0, len(p.Items))
	for _, item := range p.Items {
		items = append(items, fn(item))
	}
	return Page[U]{
		Items:      items,
		TotalCount: p.TotalCount,
		PageNumber: p.PageNumber,
		PageSize:   p.PageSize,
		TotalPages: p.TotalPages,
		Last:       p.Last,
	}
}
