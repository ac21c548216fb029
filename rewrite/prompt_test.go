package rewrite

import (
	"strings"
	"testing"

	"github.com/c360studio/vibeshift/grounding"
	"github.com/c360studio/vibeshift/vibe"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		max   int
		want  string
	}{
		{"fits", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"over", "hello world", 8, "hello..."},
		{"multibyte", "héllo wörld", 8, "héllo..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.input, tt.max); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.max, got, tt.want)
			}
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("Can we move the meeting?", vibe.Templates(), nil)

	if !strings.Contains(prompt.System, "exactly 5 objects") {
		t.Error("system prompt missing output contract")
	}
	for _, name := range vibe.Canonical {
		if !strings.Contains(prompt.System, name) {
			t.Errorf("system prompt missing vibe %q", name)
		}
		if !strings.Contains(prompt.User, name+":") {
			t.Errorf("user prompt missing guidance for %q", name)
		}
	}
	if !strings.Contains(prompt.User, "Message: Can we move the meeting?") {
		t.Error("user prompt missing message")
	}
	if strings.Contains(prompt.User, "Retrieved guidance") {
		t.Error("user prompt has grounding section without documents")
	}
	if prompt.Message != "Can we move the meeting?" {
		t.Errorf("Message = %q", prompt.Message)
	}
}

func TestBuildPromptWithGrounding(t *testing.T) {
	docs := []grounding.Document{
		{Title: "LinkedIn etiquette", Text: strings.Repeat("x", 500)},
	}
	prompt := BuildPrompt("hi", vibe.Templates(), docs)

	if !strings.Contains(prompt.User, "Retrieved guidance:") {
		t.Fatal("user prompt missing grounding section")
	}
	if !strings.Contains(prompt.User, "LinkedIn etiquette: ") {
		t.Error("user prompt missing document title")
	}
	// Excerpts are capped, the full 500-char text must not appear.
	if strings.Contains(prompt.User, strings.Repeat("x", 300)) {
		t.Error("grounding excerpt not truncated")
	}
}

func TestBuildPromptTruncatesMessage(t *testing.T) {
	long := strings.Repeat("m", MaxMessageChars+500)
	prompt := BuildPrompt(long, vibe.Templates(), nil)

	if len([]rune(prompt.Message)) != MaxMessageChars {
		t.Errorf("message length = %d, want %d", len([]rune(prompt.Message)), MaxMessageChars)
	}
	if !strings.HasSuffix(prompt.Message, "...") {
		t.Error("truncated message missing ellipsis")
	}
}
