package rank

import (
	"strings"
	"unicode/utf8"
)

// heuristicScore scores a rewrite without a model. Length buckets favor
// the 100-350 character range, then small bonuses reward tone-specific
// cues in the text.
func heuristicScore(text, targetTone string) float64 {
	length := utf8.RuneCountInString(text)

	var base float64
	switch {
	case length <= 40:
		base = 4.0
	case length <= 100:
		base = 7.0
	case length <= 350:
		base = 8.5
	case length <= 700:
		base = 7.2
	default:
		base = 5.5
	}

	tone := strings.ToLower(targetTone)
	lowered := strings.ToLower(text)
	bonus := 0.0
	if (tone == "professional" || tone == "formal") && containsAny(lowered, "regards", "sincerely", "appreciate") {
		bonus += 0.5
	}
	if tone == "friendly" && containsAny(lowered, "thanks", "excited", "glad", "hey") {
		bonus += 0.5
	}
	if tone == "concise" && length < 200 {
		bonus += 0.5
	}
	if tone == "persuasive" && containsAny(lowered, "benefit", "impact", "value", "recommend") {
		bonus += 0.5
	}
	if tone == "empathetic" && containsAny(lowered, "understand", "appreciate", "support", "sorry") {
		bonus += 0.5
	}

	return base + bonus
}

func containsAny(text string, keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
