package rewrite

import (
	"fmt"
	"strings"

	"github.com/c360studio/vibeshift/grounding"
	"github.com/c360studio/vibeshift/vibe"
)

// Prompt size caps. Truncation is plain suffix replacement with an
// ellipsis marker, never word-aware; deterministic beats elegant here.
const (
	// MaxMessageChars caps the message included in a prompt.
	MaxMessageChars = 2000

	// guidancePreviewChars caps each vibe guidance snippet.
	guidancePreviewChars = 180

	// excerptChars caps each grounding excerpt.
	excerptChars = 240
)

// Prompt is the assembled instruction/content pair for one generation
// attempt. Message carries the truncated input so deterministic tiers
// can rewrite it without re-deriving it from the content block.
type Prompt struct {
	System  string
	User    string
	Message string
}

// Truncate caps text at max characters, replacing the tail with "..."
// when it does not fit. Counted in runes.
func Truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max-3]) + "..."
}

// BuildPrompt assembles the generation prompt from the message, the vibe
// taxonomy, and retrieved grounding documents. The instruction block
// pins the output contract; the content block carries the truncated
// message, guidance previews, and grounding excerpts.
func BuildPrompt(message string, specs []vibe.Spec, docs []grounding.Document) Prompt {
	text := Truncate(message, MaxMessageChars)

	system := "You rewrite short messages in multiple specific tones." +
		" Return strict JSON array with exactly 5 objects, each having keys:" +
		" vibe, rewritten_text, explanation, use_cases (array of short strings)." +
		" The five vibes must be: " + strings.Join(vibe.Canonical, ", ") + ", in that order."

	var guidance strings.Builder
	for _, spec := range specs {
		fmt.Fprintf(&guidance, "- %s: %s\n", spec.Name, Truncate(spec.Guidance, guidancePreviewChars))
	}

	var sb strings.Builder
	sb.WriteString("Rewrite the message into five vibes using the guidance below, respond with JSON only.\n\n")
	fmt.Fprintf(&sb, "Message: %s\n\n", text)
	fmt.Fprintf(&sb, "Vibe guidance:\n%s", guidance.String())

	if len(docs) > 0 {
		sb.WriteString("\nRetrieved guidance:\n")
		for _, doc := range docs {
			fmt.Fprintf(&sb, "- %s: %s\n", doc.Title, Truncate(doc.Text, excerptChars))
		}
	}

	return Prompt{
		System:  system,
		User:    sb.String(),
		Message: text,
	}
}
