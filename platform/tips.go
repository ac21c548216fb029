package platform

import "strings"

// platformTips holds the static per-platform messaging tips. The logic
// is intentionally simple and static for reliability.
var platformTips = map[string]string{
	"whatsapp": "Keep it short, use line breaks for readability. Emojis help convey tone, but don't overuse.",
	"linkedin": "Stay professional, avoid slang, include a clear ask, and keep paragraphs short.",
	"email":    "Use a clear subject, polite greeting, one key ask, and a short signature block.",
	"twitter":  "Be concise and action-oriented; consider a thread for longer thoughts.",
	"sms":      "Very concise, one clear ask, avoid links unless necessary.",
}

// Tips returns platform-specific tips keyed by "platform" and "tips".
// Unknown or empty platforms get a generic tip with a normalized name.
func Tips(platform string) map[string]string {
	if strings.TrimSpace(platform) == "" {
		return map[string]string{
			"platform": "generic",
			"tips":     "Adapt tone to the audience; keep it clear, short, and respectful.",
		}
	}

	key := strings.ToLower(strings.TrimSpace(platform))
	if tip, ok := platformTips[key]; ok {
		return map[string]string{"platform": key, "tips": tip}
	}
	return map[string]string{
		"platform": key,
		"tips":     "No specific guidance found; keep it concise and audience-appropriate.",
	}
}
