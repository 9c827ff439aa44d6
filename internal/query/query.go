// Package query implements the list query used by every list view:
// free-text search, multi-value field filters, an inclusive date range,
// single-key sorting and page slicing over an in-memory collection.
//
// Malformed or missing parameters never fail a query; they are treated as absent.
package query

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

// Pagination and sort defaults.
const (
	DefaultPage     = 1
	MinPage         = 1
	DefaultPageSize = 20
	MinPageSize     = 1
	SortAsc         = "asc"
	SortDesc        = "desc"
)

// Params describes one list request.
type Params struct {
	// Query is matched case-insensitively against the searchable fields.
	Query string `json:"query,omitempty"`

	// Filters maps a filter name to the set of accepted values.
	// Empty sets and unknown names are no-ops.
	Filters map[string][]string `json:"filters,omitempty"`

	// From and To bound the date range inclusively. Empty or unparseable
	// bounds are unbounded.
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`

	Page     int `json:"page,omitempty"`
	PageSize int `json:"pageSize,omitempty"`

	SortBy  string `json:"sortBy,omitempty"`
	SortDir string `json:"sortDir,omitempty"`
}

// Result is one page of a filtered, sorted collection.
type Result[T any] struct {
	Items    []T `json:"items"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`

	// Total is the number of records that passed all filters, before slicing.
	Total int `json:"total"`
}

// Filter decides whether a record passes a multi-value filter.
type Filter[T any] struct {
	// Value extracts the field compared against the accepted set.
	// Records with an empty value never match.
	Value func(T) string

	// Bypass, if set, lets a record through regardless of the set.
	Bypass func(T) bool
}

// Spec describes how a record type is searched, filtered and sorted.
type Spec[T any] struct {
	// Search returns the fields the free-text query is matched against.
	Search func(T) []string

	Filters map[string]Filter[T]

	// Date returns the reference timestamp for the date range filter.
	// A nil Date disables the range filter for this record type.
	Date func(T) time.Time

	// Sorts maps sort keys to comparators returning <0, 0, >0.
	Sorts map[string]func(a, b T) int

	// PageSize is used when Params.PageSize is zero. Zero means DefaultPageSize.
	PageSize int
}

// Run applies p to items according to spec. items is not modified.
func Run[T any](items []T, spec Spec[T], p Params) Result[T] {
	out := make([]T, 0, len(items))
	needle := strings.ToLower(strings.TrimSpace(p.Query))
	filters := activeFilters(spec, p.Filters)
	from, hasFrom := ParseTime(p.From)
	to, hasTo := ParseTime(p.To)
	useRange := spec.Date != nil && (hasFrom || hasTo)

	for _, item := range items {
		if needle != "" && !matchesText(spec.Search, item, needle) {
			continue
		}
		if !matchesFilters(filters, item) {
			continue
		}
		if useRange {
			ts := spec.Date(item)
			if hasFrom && ts.Before(from) {
				continue
			}
			if hasTo && ts.After(to) {
				continue
			}
		}
		out = append(out, item)
	}

	if compare, ok := spec.Sorts[p.SortBy]; ok {
		if strings.EqualFold(p.SortDir, SortDesc) {
			slices.SortStableFunc(out, func(a, b T) int { return compare(b, a) })
		} else {
			slices.SortStableFunc(out, compare)
		}
	}

	page, pageSize := Normalize(p.Page, p.PageSize, spec.PageSize)
	return Result[T]{
		Items:    Slice(out, page, pageSize),
		Page:     page,
		PageSize: pageSize,
		Total:    len(out),
	}
}

// Normalize clamps page to at least 1. A zero pageSize takes fallback
// (or DefaultPageSize when fallback is zero); any other value is clamped to at least 1.
func Normalize(page, pageSize, fallback int) (int, int) {
	if page < MinPage {
		page = DefaultPage
	}
	if pageSize == 0 {
		pageSize = fallback
		if pageSize == 0 {
			pageSize = DefaultPageSize
		}
	}
	if pageSize < MinPageSize {
		pageSize = MinPageSize
	}
	return page, pageSize
}

// Slice returns the items of the given 1-based page. Out-of-range pages are empty.
// The bounds are checked before multiplying, so huge pages cannot overflow.
func Slice[T any](items []T, page, pageSize int) []T {
	if len(items) == 0 || page < 1 || pageSize < 1 || page-1 > (len(items)-1)/pageSize {
		return []T{}
	}
	start := (page - 1) * pageSize
	end := start + min(pageSize, len(items)-start)
	return items[start:end]
}

type activeFilter[T any] struct {
	filter Filter[T]
	set    map[string]struct{}
}

func activeFilters[T any](spec Spec[T], requested map[string][]string) []activeFilter[T] {
	var active []activeFilter[T]
	for name, values := range requested {
		f, ok := spec.Filters[name]
		if !ok || f.Value == nil {
			continue
		}
		set := make(map[string]struct{}, len(values))
		for _, v := range values {
			if v = strings.TrimSpace(v); v != "" {
				set[v] = struct{}{}
			}
		}
		if len(set) == 0 {
			continue
		}
		active = append(active, activeFilter[T]{filter: f, set: set})
	}
	return active
}

func matchesFilters[T any](filters []activeFilter[T], item T) bool {
	for _, af := range filters {
		if af.filter.Bypass != nil && af.filter.Bypass(item) {
			continue
		}
		v := af.filter.Value(item)
		if v == "" {
			return false
		}
		if _, ok := af.set[v]; !ok {
			return false
		}
	}
	return true
}

func matchesText[T any](search func(T) []string, item T, needle string) bool {
	if search == nil {
		return false
	}
	for _, field := range search(item) {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// timeLayouts are tried in order by ParseTime.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.DateOnly,
}

// ParseTime parses an ISO timestamp or date. Dates without a zone are UTC.
func ParseTime(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ByString builds a comparator over a string field.
func ByString[T any](field func(T) string) func(a, b T) int {
	return func(a, b T) int { return cmp.Compare(field(a), field(b)) }
}

// ByTime builds a comparator over a time field.
func ByTime[T any](field func(T) time.Time) func(a, b T) int {
	return func(a, b T) int { return field(a).Compare(field(b)) }
}

// In builds a filter that accepts records whose field is in the requested set.
func In[T any](field func(T) string) Filter[T] {
	return Filter[T]{Value: field}
}
