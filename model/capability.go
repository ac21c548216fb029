// Package model provides capability-based model selection for pipeline
// stages. Instead of hardcoding model names, stages specify capabilities
// (rewrite, judge, tone) and the registry resolves them to configured
// endpoints with fallback chains.
package model

// Capability represents a semantic capability for model selection.
type Capability string

const (
	// CapabilityRewrite is for generating the five vibe rewrites.
	CapabilityRewrite Capability = "rewrite"

	// CapabilityJudge is for scoring rewrite candidates against a rubric.
	CapabilityJudge Capability = "judge"

	// CapabilityTone is for classifying the tone of the input message.
	CapabilityTone Capability = "tone"
)

// IsValid checks if a capability string is a known capability.
func (c Capability) IsValid() bool {
	switch c {
	case CapabilityRewrite, CapabilityJudge, CapabilityTone:
		return true
	}
	return false
}

// String returns the string representation of the capability.
func (c Capability) String() string {
	return string(c)
}

// ParseCapability converts a string to a Capability, returning empty for
// invalid values.
func ParseCapability(s string) Capability {
	cap := Capability(s)
	if cap.IsValid() {
		return cap
	}
	return ""
}
