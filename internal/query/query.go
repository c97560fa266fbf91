// Package query owns the canonical product-listing state and its mapping to
// and from the browser's query string. The query string is the single source
// of truth: no listing parameter may diverge from the address bar.
package query

import (
	"net/url"
	"strconv"
	"strings"
)

// Query is the listing state tuple. It is a value: navigation replaces it,
// nothing mutates it in place.
type Query struct {
	Page       int
	Search     string
	CategoryID string
}

// Default returns the query for an unfiltered first page.
func Default() Query {
	return Query{Page: 1}
}

// Parse builds a Query from a raw query string ("page=2&q=sofa").
// A missing, non-numeric or sub-1 page defaults to 1; q defaults to empty;
// category_id defaults to absent. A leading "?" is tolerated.
func Parse(rawQuery string) Query {
	rawQuery = strings.TrimPrefix(rawQuery, "?")

	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return Default()
	}

	q := Default()
	if page, err := strconv.Atoi(values.Get("page")); err == nil && page >= 1 {
		q.Page = page
	}
	q.Search = values.Get("q")
	q.CategoryID = values.Get("category_id")
	return q
}

// Encode serializes the query in canonical order: page, q, category_id.
// Page is always present; q and category_id are omitted when empty, so that
// Parse(Encode(q)) is equivalent to q for every valid query.
func (q Query) Encode() string {
	var b strings.Builder
	b.WriteString("page=")
	b.WriteString(strconv.Itoa(q.Page))

	if q.Search != "" {
		b.WriteString("&q=")
		b.WriteString(url.QueryEscape(q.Search))
	}
	if q.CategoryID != "" {
		b.WriteString("&category_id=")
		b.WriteString(url.QueryEscape(q.CategoryID))
	}
	return b.String()
}

// WithPage returns a copy on the given page, preserving filters.
// Pages below 1 are clamped to 1.
func (q Query) WithPage(page int) Query {
	if page < 1 {
		page = 1
	}
	q.Page = page
	return q
}

// WithSearch returns a copy with the search term. Changing the term resets
// the page to 1; setting the same term keeps the current page.
func (q Query) WithSearch(search string) Query {
	if q.Search != search {
		q.Page = 1
	}
	q.Search = search
	return q
}

// WithCategory returns a copy with the category filter. Changing the
// category resets the page to 1; setting the same one keeps the current page.
func (q Query) WithCategory(categoryID string) Query {
	if q.CategoryID != categoryID {
		q.Page = 1
	}
	q.CategoryID = categoryID
	return q
}
