package models

import "encoding/json"

// AuditEvent is a single record from the paged GET /audit-events feed.
// The feed is treated as untrusted: LooseStrings keeps only string members
// of resource_lrns, and AdditionalDetails values may be any JSON scalar.
type AuditEvent struct {
	Action            string         `json:"action"`
	EventTime         string         `json:"event_time"`
	ResourceLRNs      LooseStrings   `json:"resource_lrns"`
	AdditionalDetails map[string]any `json:"additional_details"`
}

// LooseStrings decodes a JSON array keeping only its string elements.
// Non-array values (including null) decode to an empty slice rather than
// failing the surrounding event.
type LooseStrings []string

// UnmarshalJSON implements json.Unmarshaler.
func (s *LooseStrings) UnmarshalJSON(data []byte) error {
	*s = nil

	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	for _, v := range raw {
		if str, ok := v.(string); ok {
			*s = append(*s, str)
		}
	}
	return nil
}
