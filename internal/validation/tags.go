package validation

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TagList accepts either a JSON array of strings or a single comma-separated
// string. The decoded value is not yet normalized.
type TagList []string

func (t *TagList) UnmarshalJSON(b []byte) error {
	trimmed := strings.TrimSpace(string(b))
	if trimmed == "null" {
		*t = nil
		return nil
	}
	if strings.HasPrefix(trimmed, "[") {
		var list []string
		if err := json.Unmarshal(b, &list); err != nil {
			return fmt.Errorf("tags: %w", err)
		}
		*t = TagList(list)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("tags: expected list or comma-separated string")
	}
	*t = TagList(strings.Split(s, ","))
	return nil
}

// SplitTags parses a comma-separated form value.
func SplitTags(raw string) []string {
	return NormalizeTags(strings.Split(raw, ","))
}

// NormalizeTags trims every entry, drops empties and keeps the first
// occurrence of each tag. Applying it twice yields the same list.
func NormalizeTags(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, raw := range in {
		for _, part := range strings.Split(raw, ",") {
			tag := strings.TrimSpace(part)
			if tag == "" {
				continue
			}
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			out = append(out, tag)
		}
	}
	return out
}
