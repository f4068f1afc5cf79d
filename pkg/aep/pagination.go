package aep

import (
	"context"
	"fmt"
)

// PageFetcher fetches one page of list results. Implemented by the resource
// collections; the iterator drives it with an advancing start token.
type PageFetcher[T any] func(ctx context.Context, params *QueryParams) (*ListResponse[T], error)

// PaginationIterator walks registry list pages item by item, following the
// _page.next token until the registry stops returning one.
type PaginationIterator[T any] struct {
	ctx     context.Context
	fetch   PageFetcher[T]
	params  *QueryParams
	current *ListResponse[T]
	index   int
	done    bool
}

// NewPaginationIterator creates an iterator over a paginated listing.
func NewPaginationIterator[T any](ctx context.Context, fetch PageFetcher[T], params *QueryParams) *PaginationIterator[T] {
	if params == nil {
		params = NewQueryParams()
	}

	return &PaginationIterator[T]{
		ctx:    ctx,
		fetch:  fetch,
		params: params.Clone(),
	}
}

// HasNext reports whether another item is available. It fetches the next page
// when the current one is exhausted.
func (it *PaginationIterator[T]) HasNext() bool {
	if it.done {
		return false
	}

	if it.current != nil && it.index < len(it.current.Results) {
		return true
	}

	err := it.advance()
	if err != nil {
		// Next surfaces the error; HasNext only answers availability.
		return true
	}

	return !it.done
}

// Next returns the next item, fetching pages as needed.
func (it *PaginationIterator[T]) Next() (T, error) {
	var zero T

	if it.current == nil || it.index >= len(it.current.Results) {
		err := it.advance()
		if err != nil {
			return zero, err
		}
	}

	if it.done || it.index >= len(it.current.Results) {
		return zero, ErrNoMoreItems
	}

	item := it.current.Results[it.index]
	it.index++

	return item, nil
}

func (it *PaginationIterator[T]) advance() error {
	if it.current != nil {
		if it.current.Page.Next == "" {
			it.done = true

			return nil
		}

		it.params.Start = it.current.Page.Next
	}

	page, err := it.fetch(it.ctx, it.params)
	if err != nil {
		it.done = true

		return fmt.Errorf("fetching page: %w", err)
	}

	it.current = page
	it.index = 0

	if len(page.Results) == 0 {
		it.done = true
	}

	return nil
}

// FetchAll drains a paginated listing into a single slice.
func FetchAll[T any](ctx context.Context, fetch PageFetcher[T], params *QueryParams) ([]T, error) {
	if params == nil {
		params = NewQueryParams()
	}

	params = params.Clone()

	var all []T

	for {
		page, err := fetch(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("fetching page: %w", err)
		}

		all = append(all, page.Results...)

		if page.Page.Next == "" {
			return all, nil
		}

		params.Start = page.Page.Next
	}
}
