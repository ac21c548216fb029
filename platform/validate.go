package platform

import (
	"regexp"
	"strings"
)

// Issue tags recorded by Validate. Informational only; they never block
// the pipeline.
const (
	IssueTrimmedToMaxChars    = "trimmed_to_max_chars"
	IssueRemovedExtraHashtags = "removed_extra_hashtags"
	IssueRemovedLinebreaks    = "removed_linebreaks"
)

// hashtagPattern matches a #word token at the start of the text or after
// whitespace.
var hashtagPattern = regexp.MustCompile(`(^|\s)#\w+`)

// Outcome is the result of validating one candidate text against a
// platform's rules.
type Outcome struct {
	Text   string   `json:"text"`
	Issues []string `json:"issues"`
	Rules  Rules    `json:"rules"`
}

// CountHashtags returns the number of hashtag tokens in text.
func CountHashtags(text string) int {
	return len(hashtagPattern.FindAllString(text, -1))
}

// Validate normalizes text to satisfy the rules for the given platform.
// Steps apply in fixed order: length cap, hashtag cap, linebreak policy.
// Validation never fails; constraint breaches are fixed in place and
// reported as issue tags.
func Validate(text string, platform string, provider RulesProvider) Outcome {
	rules := provider.Rules(platform)
	issues := []string{}
	fixed := text
	if rules.HashtagsMax < 0 {
		rules.HashtagsMax = 0
	}

	// Length cap. Counted in runes so multi-byte text isn't split.
	// A non-positive MaxChars means no cap.
	if runes := []rune(fixed); rules.MaxChars > 0 && len(runes) > rules.MaxChars {
		fixed = string(runes[:rules.MaxChars-1])
		issues = append(issues, IssueTrimmedToMaxChars)
	}

	// Hashtag cap. Greedy left-to-right trim: keep the first
	// hashtags_max hashtag tokens and every non-hashtag token, drop the
	// rest. Rejoining with single spaces may alter original spacing;
	// that is deliberate, not a bug.
	if CountHashtags(fixed) > rules.HashtagsMax {
		parts := strings.Fields(fixed)
		kept := make([]string, 0, len(parts))
		keep := rules.HashtagsMax
		for _, p := range parts {
			if strings.HasPrefix(p, "#") {
				if keep > 0 {
					kept = append(kept, p)
					keep--
				}
				continue
			}
			kept = append(kept, p)
		}
		fixed = strings.Join(kept, " ")
		issues = append(issues, IssueRemovedExtraHashtags)
	}

	// Linebreak policy.
	if !rules.LinebreaksOK && strings.Contains(fixed, "\n") {
		fixed = strings.ReplaceAll(fixed, "\n", " ")
		issues = append(issues, IssueRemovedLinebreaks)
	}

	return Outcome{Text: fixed, Issues: issues, Rules: rules}
}
