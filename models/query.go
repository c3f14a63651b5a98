package models

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// FilterOp is a comparison operator accepted in query-string filters,
// written as field[op]=value.
type FilterOp string

const (
	OpEq  FilterOp = "eq"
	OpGt  FilterOp = "gt"
	OpGte FilterOp = "gte"
	OpLt  FilterOp = "lt"
	OpLte FilterOp = "lte"
)

// Pagination defaults.
const (
	DefaultPage  = 1
	DefaultLimit = 100
)

// reservedQueryParams are consumed by sorting, projection and pagination
// and never become filters.
var reservedQueryParams = map[string]struct{}{
	"page":   {},
	"sort":   {},
	"limit":  {},
	"fields": {},
}

// Filter is a single field condition.
type Filter struct {
	Field  string
	Op     FilterOp
	Values []string
}

// QueryFeatures is the list-endpoint query translated from the URL query
// string: filters, sort order, projected fields and pagination.
type QueryFeatures struct {
	Filters []Filter
	Sort    []string
	Fields  []string
	Page    int
	Limit   int
}

// Offset returns the number of rows to skip for the current page.
func (q QueryFeatures) Offset() int {
	return (q.Page - 1) * q.Limit
}

// WithFilter returns a copy with an extra equality filter.
func (q QueryFeatures) WithFilter(field string, values ...string) QueryFeatures {
	filters := make([]Filter, 0, len(q.Filters)+1)
	filters = append(filters, q.Filters...)
	q.Filters = append(filters, Filter{Field: field, Op: OpEq, Values: values})
	return q
}

// ParseQueryFeatures translates a URL query into [QueryFeatures].
// Keys are processed in sorted order so equal queries yield equal results.
func ParseQueryFeatures(query url.Values) QueryFeatures {
	features := QueryFeatures{
		Page:  positiveOr(query.Get("page"), DefaultPage),
		Limit: positiveOr(query.Get("limit"), DefaultLimit),
	}

	if s := query.Get("sort"); s != "" {
		features.Sort = splitList(s)
	}
	if f := query.Get("fields"); f != "" {
		features.Fields = splitList(f)
	}

	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if _, reserved := reservedQueryParams[key]; reserved {
			continue
		}

		field, op, ok := parseFilterKey(key)
		if !ok {
			continue
		}

		values := query[key]
		if op != OpEq && len(values) > 1 {
			values = values[len(values)-1:]
		}
		features.Filters = append(features.Filters, Filter{Field: field, Op: op, Values: values})
	}

	return features
}

func parseFilterKey(key string) (string, FilterOp, bool) {
	open := strings.IndexByte(key, '[')
	if open < 0 {
		return key, OpEq, key != ""
	}
	if !strings.HasSuffix(key, "]") || open == 0 {
		return "", "", false
	}

	field := key[:open]
	switch op := FilterOp(key[open+1 : len(key)-1]); op {
	case OpGt, OpGte, OpLt, OpLte:
		return field, op, true
	}

	return "", "", false
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	return out
}

func positiveOr(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}

	return n
}
