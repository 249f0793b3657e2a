// internal/app/system/paging/paging.go
package paging

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/skilllink/internal/app/system/apperr"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultLimit is the page size used when the request does not set one.
const DefaultLimit = 10

// MaxLimit caps the page size a caller may request.
const MaxLimit = 100

// ErrBadPage is returned when page or limit is not a positive integer.
// Both ErrBadPage and the sort errors are apperr Validation errors.
var ErrBadPage = apperr.BadRequest("Page and limit must be positive integers.")

// Params is a 1-based page request.
type Params struct {
	Page  int64
	Limit int64
}

// Parse reads "page" and "limit" from the query string. Missing values take
// the defaults (1, DefaultLimit); non-numeric or non-positive values are
// rejected; limit is clamped to MaxLimit. A page whose offset would not fit
// in an int64 is rejected too.
func Parse(r *http.Request) (Params, error) {
	page, err := positive(query.Get(r, "page"), 1)
	if err != nil {
		return Params{}, err
	}
	limit, err := positive(query.Get(r, "limit"), DefaultLimit)
	if err != nil {
		return Params{}, err
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if page-1 > math.MaxInt64/limit {
		return Params{}, ErrBadPage
	}
	return Params{Page: page, Limit: limit}, nil
}

func positive(s string, def int64) (int64, error) {
	if s == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 1 {
		return 0, ErrBadPage
	}
	return n, nil
}

// Skip is the number of documents before this page.
func (p Params) Skip() int64 { return (p.Page - 1) * p.Limit }

// ApplyToFind sets skip and limit on find.
func (p Params) ApplyToFind(find *options.FindOptions) *options.FindOptions {
	return find.SetSkip(p.Skip()).SetLimit(p.Limit)
}

// Sort is a validated single-field sort.
type Sort struct {
	Field string
	Order int // 1 ascending, -1 descending
}

// ParseSort reads "sort_by" and "order". sort_by must be one of allowed
// (default def). order is descending only when it equals "desc" (any case);
// a missing order means descending.
func ParseSort(r *http.Request, def string, allowed ...string) (Sort, error) {
	field := query.Get(r, "sort_by")
	if field == "" {
		field = def
	}
	ok := false
	for _, a := range allowed {
		if field == a {
			ok = true
			break
		}
	}
	if !ok {
		return Sort{}, apperr.BadRequest(fmt.Sprintf("Invalid sort field: %s", field))
	}

	order := query.Get(r, "order")
	if order == "" || strings.EqualFold(order, "desc") {
		return Sort{Field: field, Order: -1}, nil
	}
	return Sort{Field: field, Order: 1}, nil
}

// Doc returns the sort document with _id as a tiebreaker so that pages
// are stable when the sort field has duplicates.
func (s Sort) Doc() bson.D {
	return bson.D{
		{Key: s.Field, Value: s.Order},
		{Key: "_id", Value: s.Order},
	}
}

// Page is the response envelope for paged lists.
type Page[T any] struct {
	Page    int64 `json:"page"`
	Limit   int64 `json:"limit"`
	Count   int   `json:"count"`
	Total   int64 `json:"total"`
	Results []T   `json:"results"`
}

// NewPage wraps rows as a Page. A nil slice is rendered as [].
func NewPage[T any](p Params, rows []T, total int64) Page[T] {
	if rows == nil {
		rows = []T{}
	}
	return Page[T]{
		Page:    p.Page,
		Limit:   p.Limit,
		Count:   len(rows),
		Total:   total,
		Results: rows,
	}
}
