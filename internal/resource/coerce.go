package resource

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Coerce decodes a response body into a sequence. A JSON array yields its
// elements in order; any other value (object, null, string, number, bool)
// yields a one-element sequence. An empty body counts as null, so the result
// is never empty unless the backend sent an empty array.
func Coerce[T any](raw []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		trimmed = []byte("null")
	}

	if trimmed[0] == '[' {
		items := make([]T, 0)
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("decode sequence: %w", err)
		}
		return items, nil
	}

	var item T
	if err := json.Unmarshal(trimmed, &item); err != nil {
		return nil, fmt.Errorf("decode single value: %w", err)
	}
	return []T{item}, nil
}
