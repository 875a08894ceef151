// Package pagination walks cursor-paginated collections.
package pagination

import (
	"context"
	"fmt"
)

// Cursor is the continuation state returned with each page
type Cursor struct {
	Token         string `json:"token"`
	MoreAvailable bool   `json:"more_available"`
}

// Done reports whether the walk must stop after this cursor
func (c Cursor) Done() bool {
	return !c.MoreAvailable || c.Token == ""
}

// Page is the result of a walk. When a page after the first failed, Items
// holds everything fetched so far and Warning/Cause describe the failure.
type Page[T any] struct {
	Items   []T
	Pages   int
	Cursor  Cursor
	Warning string
	Cause   error
}

// Partial reports whether the walk stopped because of a failed page
func (p *Page[T]) Partial() bool {
	return p.Cause != nil
}

// FetchFirst fetches the first page
type FetchFirst[T any] func(ctx context.Context) ([]T, Cursor, error)

// FetchNext fetches the page after token
type FetchNext[T any] func(ctx context.Context, token string) ([]T, Cursor, error)

// Merge folds a fetched page into the accumulated items
type Merge[T any] func(acc, page []T) []T

// Paginate fetches the first page and then follows cursors until the
// collection ends or maxPages pages have been fetched. maxPages == 0 means
// no limit.
//
// A failing first page is an error. A failing later page is not: the items
// gathered so far are returned with a warning. Pages are strictly sequential.
func Paginate[T any](ctx context.Context, maxPages int, first FetchFirst[T], next FetchNext[T], merge Merge[T]) (*Page[T], error) {
	if merge == nil {
		merge = func(acc, page []T) []T { return append(acc, page...) }
	}

	items, cursor, err := first(ctx)
	if err != nil {
		return nil, err
	}

	page := &Page[T]{
		Items:  merge(nil, items),
		Pages:  1,
		Cursor: cursor,
	}

	for !page.Cursor.Done() && (maxPages == 0 || page.Pages < maxPages) {
		items, cursor, err := next(ctx, page.Cursor.Token)
		if err != nil {
			page.Warning = fmt.Sprintf("not all pages were downloaded: %s", err)
			page.Cause = err
			return page, nil
		}
		page.Items = merge(page.Items, items)
		page.Cursor = cursor
		page.Pages++
	}

	return page, nil
}
