package http

import (
	"encoding/json"
	"fmt"
	"strings"
)

// project limits the JSON fields of doc. "fields=name,price" keeps the
// listed fields and id; "fields=-summary" drops summary. Without fields the
// document is returned as is.
func project(doc any, fields []string) (any, error) {
	if len(fields) == 0 {
		return doc, nil
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("error projecting document: %w", err)
	}

	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("error projecting document: %w", err)
	}

	if strings.HasPrefix(fields[0], "-") {
		for _, f := range fields {
			delete(obj, strings.TrimPrefix(f, "-"))
		}
		return obj, nil
	}

	kept := map[string]any{"id": obj["id"]}
	for _, f := range fields {
		if v, ok := obj[f]; ok {
			kept[f] = v
		}
	}

	return kept, nil
}

// projectAll applies [project] to every document.
func projectAll[T any](docs []T, fields []string) ([]any, error) {
	out := make([]any, 0, len(docs))
	for _, doc := range docs {
		p, err := project(doc, fields)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	return out, nil
}
