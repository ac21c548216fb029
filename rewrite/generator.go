package rewrite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/c360studio/vibeshift/grounding"
	"github.com/c360studio/vibeshift/llm"
	"github.com/c360studio/vibeshift/metric"
	"github.com/c360studio/vibeshift/platform"
	"github.com/c360studio/vibeshift/vibe"
)

const defaultTemperature = 0.7

// Tier is one generation strategy in the fallback chain. Each tier is
// attempted exactly once per request.
type Tier interface {
	Name() string
	Generate(ctx context.Context, prompt Prompt) ([]vibe.Candidate, error)
}

// providerTier generates candidates through an LLM endpoint and
// enforces the candidate contract on the response.
type providerTier struct {
	name        string
	completer   llm.Completer
	model       string
	temperature float64
}

// NewProviderTier wraps an LLM endpoint as a generation tier. The model
// names a registry endpoint resolved at completion time. A non-positive
// temperature uses the default.
func NewProviderTier(name string, completer llm.Completer, model string, temperature float64) Tier {
	if temperature <= 0 {
		temperature = defaultTemperature
	}
	return &providerTier{
		name:        name,
		completer:   completer,
		model:       model,
		temperature: temperature,
	}
}

func (t *providerTier) Name() string { return t.name }

// rawCandidate uses pointer fields so a missing key is distinguishable
// from an empty value.
type rawCandidate struct {
	Vibe          *string  `json:"vibe"`
	RewrittenText *string  `json:"rewritten_text"`
	Explanation   *string  `json:"explanation"`
	UseCases      []string `json:"use_cases"`
}

func (t *providerTier) Generate(ctx context.Context, prompt Prompt) ([]vibe.Candidate, error) {
	temp := t.temperature
	resp, err := t.completer.Complete(ctx, llm.Request{
		Model: t.model,
		Messages: []llm.Message{
			{Role: "system", Content: prompt.System},
			{Role: "user", Content: prompt.User},
		},
		Temperature: &temp,
	})
	if err != nil {
		return nil, err
	}
	return decodeCandidates(resp.Content)
}

// decodeCandidates parses a provider response into the five canonical
// candidates. Structural failures return ErrMalformedResponse; parseable
// responses that break the contract return a ContractViolationError.
func decodeCandidates(raw string) ([]vibe.Candidate, error) {
	payload, ok := llm.Extract(raw)
	if !ok {
		return nil, fmt.Errorf("%w: no JSON payload in response", ErrMalformedResponse)
	}

	var parsed []rawCandidate
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(parsed) != len(vibe.Canonical) {
		return nil, &ContractViolationError{
			Reason: fmt.Sprintf("expected %d candidates, got %d", len(vibe.Canonical), len(parsed)),
		}
	}

	// Re-key by vibe label so ordering mistakes do not fail the tier.
	byVibe := make(map[string]vibe.Candidate, len(parsed))
	for i, rc := range parsed {
		if rc.Vibe == nil || rc.RewrittenText == nil || rc.Explanation == nil {
			return nil, &ContractViolationError{
				Reason: fmt.Sprintf("candidate %d missing required field", i),
			}
		}
		name := strings.TrimSpace(*rc.Vibe)
		if !vibe.IsCanonical(name) {
			return nil, &ContractViolationError{
				Reason: fmt.Sprintf("unrecognized vibe %q", name),
			}
		}
		canonical := vibe.Canonical[vibe.Index(name)]
		if _, dup := byVibe[canonical]; dup {
			return nil, &ContractViolationError{
				Reason: fmt.Sprintf("duplicate vibe %q", canonical),
			}
		}
		useCases := rc.UseCases
		if len(useCases) > vibe.MaxUseCases {
			useCases = useCases[:vibe.MaxUseCases]
		}
		byVibe[canonical] = vibe.Candidate{
			Vibe:          canonical,
			RewrittenText: *rc.RewrittenText,
			Explanation:   *rc.Explanation,
			UseCases:      useCases,
		}
	}

	out := make([]vibe.Candidate, 0, len(vibe.Canonical))
	for _, name := range vibe.Canonical {
		out = append(out, byVibe[name])
	}
	return out, nil
}

// fallbackTier produces deterministic template rewrites. It never fails,
// which makes it the terminal tier in every chain.
type fallbackTier struct{}

// NewFallbackTier returns the deterministic local tier.
func NewFallbackTier() Tier { return fallbackTier{} }

func (fallbackTier) Name() string { return "local-template" }

func (fallbackTier) Generate(_ context.Context, prompt Prompt) ([]vibe.Candidate, error) {
	out := make([]vibe.Candidate, 0, len(vibe.Canonical))
	for _, name := range vibe.Canonical {
		lower := strings.ToLower(name)
		out = append(out, vibe.Candidate{
			Vibe:          name,
			RewrittenText: fmt.Sprintf("[%s] %s", name, prompt.Message),
			Explanation:   fmt.Sprintf("Uses %s tone cues based on simple template guidance.", lower),
			UseCases: []string{
				fmt.Sprintf("Use when you need a %s tone.", lower),
				"Useful for quick edits when time is limited.",
			},
		})
	}
	return out, nil
}

// Generator orchestrates grounding retrieval, the tier chain, and
// platform validation for one rewrite request.
type Generator struct {
	tiers     []Tier
	grounding *grounding.Client
	topK      int
	rules     platform.RulesProvider
	logger    *slog.Logger
	metrics   *metric.Recorder
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithGrounding attaches a grounding client for retrieval before
// generation. Without one, prompts carry no retrieved guidance.
func WithGrounding(client *grounding.Client) GeneratorOption {
	return func(g *Generator) { g.grounding = client }
}

// WithTopK caps how many guidance documents are retrieved per request.
// Non-positive values fall back to grounding.DefaultTopK.
func WithTopK(n int) GeneratorOption {
	return func(g *Generator) { g.topK = n }
}

// WithRules overrides the platform rules provider.
func WithRules(provider platform.RulesProvider) GeneratorOption {
	return func(g *Generator) { g.rules = provider }
}

// WithGeneratorLogger sets the logger.
func WithGeneratorLogger(logger *slog.Logger) GeneratorOption {
	return func(g *Generator) { g.logger = logger }
}

// WithGeneratorMetrics sets the metrics recorder.
func WithGeneratorMetrics(rec *metric.Recorder) GeneratorOption {
	return func(g *Generator) { g.metrics = rec }
}

// NewGenerator builds a generator over the given tier chain. The
// deterministic fallback tier is appended automatically if the chain
// does not already end with one.
func NewGenerator(tiers []Tier, opts ...GeneratorOption) *Generator {
	g := &Generator{
		tiers:  tiers,
		rules:  platform.NewStaticRules(nil),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if len(g.tiers) == 0 || g.tiers[len(g.tiers)-1].Name() != "local-template" {
		g.tiers = append(g.tiers, NewFallbackTier())
	}
	return g
}

// Generate produces the five canonical candidates for message. It never
// returns an error: the terminal template tier always succeeds. When
// platformName is set, each candidate is validated against that
// platform's rules and annotated with any adjustments.
func (g *Generator) Generate(ctx context.Context, message, platformName, userID string) []vibe.Candidate {
	var docs []grounding.Document
	if g.grounding != nil {
		label := platformName
		if label == "" {
			label = "generic"
		}
		query := fmt.Sprintf("%s guidance for: %s", label, Truncate(message, 200))
		docs = g.grounding.Retrieve(ctx, query, platformName, userID, g.topK)
	}

	prompt := BuildPrompt(message, vibe.Templates(), docs)

	var candidates []vibe.Candidate
	for i, tier := range g.tiers {
		got, err := tier.Generate(ctx, prompt)
		if err == nil {
			if i > 0 {
				g.logger.Info("generation tier succeeded after fallback",
					"tier", tier.Name(), "attempts", i+1)
			}
			candidates = got
			break
		}

		g.logger.Warn("generation tier failed",
			"tier", tier.Name(), "error", err)
		g.metrics.TierFallback(tier.Name())
		if errors.Is(err, ErrMalformedResponse) {
			g.metrics.ParseFailure()
		}
	}

	if platformName != "" {
		for i := range candidates {
			outcome := platform.Validate(candidates[i].RewrittenText, platformName, g.rules)
			candidates[i].RewrittenText = outcome.Text
			candidates[i].PlatformIssues = outcome.Issues
		}
	}

	return candidates
}
