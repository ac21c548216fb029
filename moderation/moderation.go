// Package moderation provides PII masking and a moderation hook for
// inbound messages.
package moderation

import "regexp"

var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phonePattern = regexp.MustCompile(`\+?\d[\d\s\-()]{7,}\d`)
)

// MaskPII replaces email addresses and phone numbers with placeholder
// tokens. Applied before any text leaves the process.
func MaskPII(text string) string {
	text = emailPattern.ReplaceAllString(text, "[email]")
	text = phonePattern.ReplaceAllString(text, "[phone]")
	return text
}

// Result is the outcome of a moderation check.
type Result struct {
	Flagged bool   `json:"flagged"`
	Reason  string `json:"reason"`
}

// Moderate checks text against content policy. The current
// implementation is a pass-through hook; callers branch on Flagged so a
// real policy backend can slot in without interface changes.
func Moderate(text string) Result {
	_ = text
	return Result{Flagged: false, Reason: "not_implemented"}
}
