package parsers

import (
	"encoding/json"
	"strings"

	"github.com/agadjuka/LookTown-cloud.ru/internal/assistant/model"
	logx "github.com/agadjuka/LookTown-cloud.ru/pkg/logger"
)

// basic safety limits to avoid pathological inputs
const (
	maxContentLen = 64 * 1024 // 64KB
	maxFields     = 32
)

// ExtractUpdate pulls a structured field update out of an agent reply. The
// models are instructed to answer with bare JSON when they emit an update,
// but in practice the object arrives wrapped in markdown fences or
// surrounding prose, so this scans for the outermost object. A reply with no
// parseable JSON object is not an error: it is a plain conversational reply
// and the caller must treat it as such.
func ExtractUpdate(content string) model.FieldUpdate {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}
	if len(content) > maxContentLen {
		logx.Warn().
			Str("component", "update_parser").
			Int("orig_len", len(content)).
			Msg("content truncated due to size limit")
		content = content[:maxContentLen]
	}

	content = stripFences(content)

	raw := tryUnmarshal(content)
	if raw == nil {
		// fall back to the outermost {...} span inside the text
		start := strings.Index(content, "{")
		end := strings.LastIndex(content, "}")
		if start < 0 || end <= start {
			return nil
		}
		raw = tryUnmarshal(content[start : end+1])
	}
	if raw == nil {
		return nil
	}
	if len(raw) > maxFields {
		logx.Warn().
			Str("component", "update_parser").
			Int("fields", len(raw)).
			Msg("update rejected: too many fields")
		return nil
	}
	// a JSON object carrying none of the booking fields is not an update:
	// replies legitimately embed unrelated JSON (a price list, a tool echo)
	// and must stay conversational
	known := false
	for k := range raw {
		if model.IsBookingField(k) {
			known = true
			break
		}
	}
	if !known {
		return nil
	}
	return model.FieldUpdate(raw)
}

// ExtractUserMessage pulls the client-facing text out of a tool result of
// the form {"user_message": "..."}. Returns "" when the payload has none.
func ExtractUserMessage(raw string) string {
	m := tryUnmarshal(stripFences(strings.TrimSpace(raw)))
	if m == nil {
		return ""
	}
	if v, ok := m["user_message"].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func tryUnmarshal(s string) map[string]any {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "{") || !strings.HasSuffix(s, "}") {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil
	}
	return m
}

// stripFences removes a surrounding markdown code block, if any.
func stripFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) > 1 {
		s = strings.Join(lines[1:], "\n")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
