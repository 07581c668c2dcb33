package store

import (
	"github.com/mytherion/client/internal/logger"
	"github.com/mytherion/client/types"
)

// record is any list element addressed by id.
type record interface {
	GetID() int64
}

// prepend returns a new list with item first and no other element
// sharing its id.
func prepend[T record](list []T, item T) []T {
	out := make([]T, 0, len(list)+1)
	out = append(out, item)
	for _, existing := range list {
		if existing.GetID() != item.GetID() {
			out = append(out, existing)
		}
	}
	return out
}

// replace returns a new list where the element with item's id is item.
// The list is returned unchanged when no element matches.
func replace[T record](list []T, item T) []T {
	for i, existing := range list {
		if existing.GetID() == item.GetID() {
			out := make([]T, len(list))
			copy(out, list)
			out[i] = item
			return out
		}
	}
	return list
}

// remove returns a new list without the element with id.
func remove[T record](list []T, id int64) []T {
	out := make([]T, 0, len(list))
	for _, existing := range list {
		if existing.GetID() != id {
			out = append(out, existing)
		}
	}
	return out
}

// ptr returns a pointer to a copy of v.
func ptr[T any](v T) *T {
	return &v
}

// lastPage re-requests the last page when result lies past the end of a
// non-empty list, as happens once trailing records are deleted.
func lastPage[T any](log *logger.Logger, result types.Page[T], fetch func(page int) (types.Page[T], error)) (types.Page[T], error) {
	pagination := types.PaginationOf(result)
	if pagination.Valid() {
		return result, nil
	}
	page := pagination.Clamp().Page
	log.Debug("Page out of range, fetching last page", logger.Fields{
		"requested":  pagination.Page,
		"page":       page,
		"totalPages": pagination.TotalPages,
	})
	return fetch(page)
}
