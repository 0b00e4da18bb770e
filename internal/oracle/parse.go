package oracle

import (
	"encoding/json"
	"fmt"
	"strings"
)

// parseJSON decodes a model reply into v, tolerating markdown fences and
// prose around the object.
func parseJSON(raw string, v any) error {
	raw = strings.TrimSpace(raw)

	if strings.HasPrefix(raw, "```") {
		lines := strings.Split(raw, "\n")
		if len(lines) >= 2 {
			end := len(lines)
			if strings.TrimSpace(lines[end-1]) == "```" {
				end--
			}
			raw = strings.Join(lines[1:end], "\n")
		}
	}

	if start, end := strings.Index(raw, "{"), strings.LastIndex(raw, "}"); start >= 0 && end > start {
		raw = raw[start : end+1]
	}

	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("json parse: %w", err)
	}
	return nil
}
