package pagination

import (
	"strings"

	"family-album-go/internal/apperr"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

var ErrInvalidSortOrder = apperr.New(apperr.KindBadRequest, "invalid_sort_order", "sortOrder must be asc or desc")

// Params are 1-based page numbers with a page size.
type Params struct {
	Page  int
	Limit int
}

func (p Params) Normalize(defaultLimit, maxLimit int) Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = defaultLimit
	}
	if maxLimit > 0 && p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	return p
}

func (p Params) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

type Result[T any] struct {
	Items      []T
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

func NewResult[T any](items []T, total int64, p Params) Result[T] {
	if items == nil {
		items = make([]T, 0)
	}
	return Result[T]{
		Items:      items,
		Total:      total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: TotalPages(total, p.Limit),
	}
}

func TotalPages(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

func ParseSortOrder(value string, fallback SortOrder) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return fallback, nil
	case "asc":
		return SortAsc, nil
	case "desc":
		return SortDesc, nil
	default:
		return "", ErrInvalidSortOrder
	}
}
