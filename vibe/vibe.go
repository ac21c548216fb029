// Package vibe defines the fixed tone taxonomy and the candidate type that
// flows through the rewrite pipeline.
package vibe

// Canonical lists the five vibe names in their fixed output order.
// Every candidate set produced by the pipeline carries exactly these
// labels, each once, in this order.
var Canonical = []string{
	"Professional",
	"Friendly",
	"Persuasive",
	"Concise",
	"Empathetic",
}

// MaxUseCases caps the number of use-case strings kept per candidate.
const MaxUseCases = 4

// Spec pairs a vibe name with its rewrite guidance.
type Spec struct {
	Name     string
	Guidance string
}

// templates holds the process-wide guidance for each canonical vibe.
// Loaded once, never mutated.
var templates = map[string]string{
	"Professional": "Use measured, workplace-appropriate language. Prefer complete sentences, avoid slang and exclamation marks, and keep the request or point unambiguous. A polite closing is welcome when the message asks for something.",
	"Friendly":     "Sound warm and approachable, like talking to a colleague you know well. Contractions are fine, a light exclamation or emoji can help, and the message should feel personal rather than scripted.",
	"Persuasive":   "Lead with the benefit to the reader. Make the value or impact concrete, include a clear call to action, and keep momentum by trimming hedging words like maybe or perhaps.",
	"Concise":      "Cut everything that does not carry meaning. Short sentences, no filler, one idea per clause. The rewrite should read faster than the original while keeping every commitment intact.",
	"Empathetic":   "Acknowledge how the reader likely feels before making any ask. Use softening phrases, show that their situation is understood, and avoid anything that could read as dismissive or rushed.",
}

// Templates returns the five vibe specs in canonical order.
func Templates() []Spec {
	specs := make([]Spec, 0, len(Canonical))
	for _, name := range Canonical {
		specs = append(specs, Spec{Name: name, Guidance: templates[name]})
	}
	return specs
}

// Index returns the canonical position of a vibe name, or -1 if the
// name is not one of the five.
func Index(name string) int {
	for i, c := range Canonical {
		if c == name {
			return i
		}
	}
	return -1
}

// IsCanonical reports whether name is one of the five vibe labels.
func IsCanonical(name string) bool {
	return Index(name) >= 0
}

// Candidate is one rewritten-text proposal plus metadata. Score is
// attached by the ranking stage; before ranking it is absent.
type Candidate struct {
	Vibe           string   `json:"vibe"`
	RewrittenText  string   `json:"rewritten_text"`
	Explanation    string   `json:"explanation"`
	UseCases       []string `json:"use_cases"`
	PlatformIssues []string `json:"platform_issues,omitempty"`
}
