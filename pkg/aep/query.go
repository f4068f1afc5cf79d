package aep

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// QueryParams represent the query options accepted by registry list
// endpoints. Property filters are applied server side
// ("property=title==My Schema").
type QueryParams struct {
	// Properties filters by exact attribute match. Multiple entries are
	// comma-joined into a single property expression.
	Properties map[string]string

	// OrderBy sorts results ("title", "-title").
	OrderBy string

	// Start is the pagination token from a previous page's _page.next.
	Start string

	// Limit caps the page size when greater than zero.
	Limit int

	// Format selects the XED response detail for list and find operations.
	Format Format
}

// NewQueryParams creates an empty QueryParams.
func NewQueryParams() *QueryParams {
	return &QueryParams{
		Properties: make(map[string]string),
	}
}

// WithProperty adds an exact-match attribute filter.
func (q *QueryParams) WithProperty(name, value string) *QueryParams {
	if q.Properties == nil {
		q.Properties = make(map[string]string)
	}

	q.Properties[name] = value

	return q
}

// WithTitle filters by resource title.
func (q *QueryParams) WithTitle(title string) *QueryParams {
	return q.WithProperty("title", title)
}

// WithOrderBy sets the sort order.
func (q *QueryParams) WithOrderBy(orderBy string) *QueryParams {
	q.OrderBy = orderBy

	return q
}

// WithStart sets the pagination token.
func (q *QueryParams) WithStart(start string) *QueryParams {
	q.Start = start

	return q
}

// WithLimit caps the page size.
func (q *QueryParams) WithLimit(limit int) *QueryParams {
	q.Limit = limit

	return q
}

// WithFormat selects the XED response detail.
func (q *QueryParams) WithFormat(format Format) *QueryParams {
	q.Format = format

	return q
}

// ToValues converts the params to URL query values.
func (q *QueryParams) ToValues() url.Values {
	values := url.Values{}

	if len(q.Properties) > 0 {
		expressions := make([]string, 0, len(q.Properties))
		for name, value := range q.Properties {
			expressions = append(expressions, name+"=="+value)
		}

		sort.Strings(expressions)
		values.Set("property", strings.Join(expressions, ","))
	}

	if q.OrderBy != "" {
		values.Set("orderby", q.OrderBy)
	}

	if q.Start != "" {
		values.Set("start", q.Start)
	}

	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}

	return values
}

// Clone returns an independent copy, used by pagination to advance the start
// token without mutating the caller's params.
func (q *QueryParams) Clone() *QueryParams {
	clone := *q

	clone.Properties = make(map[string]string, len(q.Properties))
	for name, value := range q.Properties {
		clone.Properties[name] = value
	}

	return &clone
}
