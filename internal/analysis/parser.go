package analysis

import (
	"encoding/json"
	"strings"
)

// Parse recovers a structured Report from raw model output. The model is
// asked for bare JSON but routinely wraps it in code fences or surrounding
// prose, so the text is normalized in stages before strict decoding:
// fences are stripped, a leading bare language tag is dropped, and the
// candidate is narrowed to the outermost brace span.
//
// Validation stops at the presence of the summary, timeline and insights
// sections. On any decode or validation failure Parse returns (nil, false);
// it never panics. Same input always yields the same output.
func Parse(raw string) (*Report, bool) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return nil, false
	}

	candidate = stripFences(candidate)
	candidate = stripLanguageTag(candidate)

	// Narrow to the outermost brace span to recover JSON embedded in
	// surrounding commentary.
	start := strings.Index(candidate, "{")
	end := strings.LastIndex(candidate, "}")
	if start == -1 || end == -1 || end < start {
		return nil, false
	}
	candidate = candidate[start : end+1]

	var keys map[string]json.RawMessage
	if err := json.Unmarshal([]byte(candidate), &keys); err != nil {
		return nil, false
	}
	for _, required := range []string{"summary", "timeline", "insights"} {
		if _, ok := keys[required]; !ok {
			return nil, false
		}
	}

	var report Report
	if err := json.Unmarshal([]byte(candidate), &report); err != nil {
		return nil, false
	}
	return &report, true
}

// stripFences removes leading and trailing triple-backtick fences, with or
// without a language tag on the opening fence.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = s[3:]
		// Drop the language tag on the same line as the opening fence.
		if idx := strings.IndexByte(s, '\n'); idx != -1 {
			firstLine := strings.TrimSpace(s[:idx])
			if firstLine != "" && !strings.ContainsAny(firstLine, "{}") {
				s = s[idx+1:]
			}
		}
	}
	if strings.HasSuffix(strings.TrimSpace(s), "```") {
		trimmed := strings.TrimSpace(s)
		s = trimmed[:len(trimmed)-3]
	}
	return strings.TrimSpace(s)
}

// stripLanguageTag drops a bare leading token like "json" left behind when
// the model emits the tag on its own line outside the fence.
func stripLanguageTag(s string) string {
	for _, tag := range []string{"json", "JSON"} {
		if strings.HasPrefix(s, tag) {
			rest := strings.TrimLeft(s[len(tag):], " \t\r\n")
			if strings.HasPrefix(rest, "{") {
				return rest
			}
		}
	}
	return s
}
