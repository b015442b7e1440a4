package runner

import (
	"bytes"
	"encoding/json"
)

// CountFields returns the number of top-level fields of a JSON body, or nil
// when the body is not a JSON object or array.
//
// Objects count their keys. An array whose first element is an object counts
// that element's keys, since ticker APIs often wrap a single record in a list.
// Other arrays count their elements.
func CountFields(body []byte) *int {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil
	}

	var n int
	switch v := payload.(type) {
	case map[string]any:
		n = len(v)
	case []any:
		n = len(v)
		if len(v) > 0 {
			if first, ok := v[0].(map[string]any); ok {
				n = len(first)
			}
		}
	default:
		return nil
	}

	return &n
}
