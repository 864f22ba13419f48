package envelope

import (
	"bytes"
	"encoding/json"
)

var null = []byte("null")

// Unmarshal decodes a response body that arrives either bare or wrapped in a
// {"data": ...} envelope. Backends are inconsistent about the wrapper, so
// the envelope is tried first and the bare shape used as fallback.
func Unmarshal(data []byte, target interface{}) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, null) {
		return nil
	}
	if trimmed[0] == '{' {
		wrapper := struct {
			Data json.RawMessage `json:"data"`
		}{}
		if err := json.Unmarshal(trimmed, &wrapper); err == nil {
			if payload := bytes.TrimSpace(wrapper.Data); len(payload) > 0 && !bytes.Equal(payload, null) {
				return json.Unmarshal(payload, target)
			}
		}
	}
	return json.Unmarshal(trimmed, target)
}
