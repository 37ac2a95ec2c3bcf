package utils

import (
	"encoding/json"
	"fmt"
)

// FormatJSON formats a value as indented JSON for CLI output.
func FormatJSON(data interface{}) (string, error) {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("error formatting JSON: %w", err)
	}
	return string(bytes), nil
}

// DecodeObjectList splits a JSON array into its object-shaped members,
// discarding everything else. A non-array input yields a nil slice. The
// second return value counts discarded members so callers can log them.
func DecodeObjectList(raw json.RawMessage) ([]json.RawMessage, int) {
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, 0
	}

	objects := make([]json.RawMessage, 0, len(entries))
	dropped := 0
	for _, entry := range entries {
		if isJSONObject(entry) {
			objects = append(objects, entry)
		} else {
			dropped++
		}
	}
	return objects, dropped
}

func isJSONObject(raw json.RawMessage) bool {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case '{':
			return true
		default:
			return false
		}
	}
	return false
}
