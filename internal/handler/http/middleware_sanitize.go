// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// operatorMarker starts keys that a query backend could read as an operator.
const operatorMarker = "$"

// sanitizeStage drops operator-like keys and strips markup from strings in
// the parsed body and the query. Route parameters are not resolved yet, so
// the path they are read from is cleaned instead: markup is stripped and
// leading operator markers are trimmed from every segment.
type sanitizeStage struct {
	policy *bluemonday.Policy
}

func newSanitizeStage() *sanitizeStage {
	return &sanitizeStage{policy: bluemonday.StrictPolicy()}
}

func (s *sanitizeStage) Process(x *Exchange) Outcome {
	if body, ok := x.Body(); ok {
		x.SetBody(s.clean(body))
	}

	r := x.Request
	if r.URL.RawQuery != "" {
		query := r.URL.Query()
		cleaned := make(url.Values, len(query))
		for key, values := range query {
			if strings.HasPrefix(key, operatorMarker) {
				continue
			}
			for _, v := range values {
				cleaned.Add(s.cleanString(key), s.cleanString(v))
			}
		}
		r.URL.RawQuery = cleaned.Encode()
	}

	if path := s.cleanPath(r.URL.Path); path != r.URL.Path {
		r.URL.Path = path
		r.URL.RawPath = ""
	}

	return Continue()
}

// cleanPath sanitizes the decoded path as a whole, so markup spanning a "/"
// is removed in one piece, then trims operator markers segment by segment.
func (s *sanitizeStage) cleanPath(path string) string {
	segments := strings.Split(s.cleanString(path), "/")
	for i, segment := range segments {
		segments[i] = strings.TrimLeft(segment, operatorMarker)
	}

	return strings.Join(segments, "/")
}

// clean walks a decoded JSON value and returns its sanitized copy.
func (s *sanitizeStage) clean(v any) any {
	switch v := v.(type) {
	case map[string]any:
		for key, elem := range v {
			if strings.HasPrefix(key, operatorMarker) {
				delete(v, key)
				continue
			}
			v[key] = s.clean(elem)
		}
		return v
	case []any:
		for i, elem := range v {
			v[i] = s.clean(elem)
		}
		return v
	case string:
		return s.cleanString(v)
	default:
		return v
	}
}

// cleanString leaves markup-free strings untouched.
func (s *sanitizeStage) cleanString(v string) string {
	if !strings.ContainsAny(v, "<>") {
		return v
	}

	return s.policy.Sanitize(v)
}
