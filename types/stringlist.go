package types

import (
	"encoding/json"
	"strings"
)

// StringList is a list-valued field (technologies, skills) that tolerates
// the loose encodings admin clients send: a native JSON array, a
// JSON-encoded array inside a string, or a plain comma-separated string.
type StringList []string

// ParseStringList normalizes a raw string into a StringList. The fallback
// order is fixed: JSON array first, then comma-split with trimming. Empty
// entries are dropped.
func ParseStringList(raw string) StringList {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var parsed []string
	if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
		out := make(StringList, 0, len(parsed))
		for _, item := range parsed {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
		return out
	}

	parts := strings.Split(raw, ",")
	out := make(StringList, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// UnmarshalJSON accepts either a JSON array of strings or a single string,
// applying ParseStringList to the latter.
func (l *StringList) UnmarshalJSON(data []byte) error {
	var items []string
	if err := json.Unmarshal(data, &items); err == nil {
		out := make(StringList, 0, len(items))
		for _, item := range items {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
		*l = out
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*l = ParseStringList(raw)
	return nil
}
