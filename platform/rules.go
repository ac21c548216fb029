// Package platform enforces per-platform formatting constraints on
// generated text and serves static per-platform messaging tips.
package platform

import (
	"sort"
	"strings"
)

// Rules describes the formatting constraints for one platform.
// Immutable per call.
type Rules struct {
	MaxChars     int  `json:"max_chars" yaml:"max_chars"`
	HashtagsMax  int  `json:"hashtags_max" yaml:"hashtags_max"`
	LinebreaksOK bool `json:"linebreaks_ok" yaml:"linebreaks_ok"`
}

// RulesProvider resolves a platform name to its rules. Implementations
// must fall back to a generic permissive rule set for unknown or empty
// platform names.
type RulesProvider interface {
	Rules(platform string) Rules
}

// GenericRules is the permissive rule set used when no platform is
// specified or the platform is unrecognized.
var GenericRules = Rules{MaxChars: 2000, HashtagsMax: 10, LinebreaksOK: true}

// defaultRules holds the built-in per-platform constraint table.
var defaultRules = map[string]Rules{
	"whatsapp": {MaxChars: 1000, HashtagsMax: 5, LinebreaksOK: true},
	"linkedin": {MaxChars: 3000, HashtagsMax: 5, LinebreaksOK: true},
	"email":    {MaxChars: 5000, HashtagsMax: 2, LinebreaksOK: true},
	"twitter":  {MaxChars: 280, HashtagsMax: 3, LinebreaksOK: true},
	"sms":      {MaxChars: 160, HashtagsMax: 0, LinebreaksOK: false},
}

// StaticRules is a RulesProvider backed by an in-memory table, loaded
// once at startup.
type StaticRules struct {
	rules   map[string]Rules
	generic Rules
}

// NewStaticRules creates a provider from the built-in table, with
// overrides applied on top. An override for a new platform name adds it.
func NewStaticRules(overrides map[string]Rules) *StaticRules {
	rules := make(map[string]Rules, len(defaultRules)+len(overrides))
	for name, r := range defaultRules {
		rules[name] = r
	}
	for name, r := range overrides {
		rules[strings.ToLower(strings.TrimSpace(name))] = r
	}
	return &StaticRules{rules: rules, generic: GenericRules}
}

// Rules returns the rule set for a platform, or the generic set when the
// platform is empty or unknown. Lookup is case-insensitive.
func (s *StaticRules) Rules(platform string) Rules {
	key := strings.ToLower(strings.TrimSpace(platform))
	if key == "" {
		return s.generic
	}
	if r, ok := s.rules[key]; ok {
		return r
	}
	return s.generic
}

// Known returns whether the platform has a specific rule set.
func (s *StaticRules) Known(platform string) bool {
	_, ok := s.rules[strings.ToLower(strings.TrimSpace(platform))]
	return ok
}

// Names lists the platforms with specific rule sets, sorted.
func (s *StaticRules) Names() []string {
	names := make([]string, 0, len(s.rules))
	for name := range s.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
