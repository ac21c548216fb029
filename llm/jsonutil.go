package llm

import (
	"encoding/json"
	"strings"
)

// Extract strips a markdown code fence from a model response and returns
// the inner payload when it is strict JSON. The fence handling mirrors
// how models typically wrap output: if the trimmed text starts with
// ```, the whole first line (fence plus optional language tag) is
// dropped, and a trailing ``` line is dropped if present. The remainder
// must parse as strict JSON; otherwise ok is false and the original
// string is returned unchanged.
func Extract(raw string) (payload string, ok bool) {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```") {
		if idx := strings.Index(cleaned, "\n"); idx >= 0 {
			cleaned = cleaned[idx+1:]
		}
		if strings.HasSuffix(cleaned, "```") {
			if idx := strings.LastIndex(cleaned, "\n"); idx >= 0 {
				cleaned = cleaned[:idx]
			}
		}
	}
	if !json.Valid([]byte(cleaned)) {
		return raw, false
	}
	return cleaned, true
}

// Decode parses a JSON payload out of a model response, tolerating a
// markdown code fence. On success it returns the decoded value; on any
// parse failure it returns the original string unchanged with ok false.
// Callers treat a non-structured result as a malformed response, not a
// hard error. Decode never panics.
func Decode(raw string) (value any, ok bool) {
	payload, ok := Extract(raw)
	if !ok {
		return raw, false
	}

	var v any
	if err := json.Unmarshal([]byte(payload), &v); err != nil {
		return raw, false
	}
	return v, true
}
