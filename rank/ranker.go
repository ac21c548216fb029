// Package rank scores rewrite candidates and selects the top results.
// Model-backed judging walks an endpoint chain; a length-and-keyword
// heuristic covers every failure so ranking always completes.
package rank

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/c360studio/vibeshift/llm"
	"github.com/c360studio/vibeshift/metric"
	"github.com/c360studio/vibeshift/vibe"
)

const (
	// DefaultTopN is the number of ranked candidates returned when the
	// caller does not ask for a specific count.
	DefaultTopN = 3

	// MinTopN and MaxTopN bound the requested result count.
	MinTopN = 1
	MaxTopN = 10
)

// ScoredCandidate is a candidate with its judge or heuristic score.
type ScoredCandidate struct {
	vibe.Candidate
	Score float64 `json:"score"`
}

// ContractViolationError reports a judge response that parsed but did
// not satisfy the scoring contract.
type ContractViolationError struct {
	Model  string
	Reason string
}

func (e *ContractViolationError) Error() string {
	return fmt.Sprintf("ranking contract violation from %s: %s", e.Model, e.Reason)
}

// Ranker scores candidates through a chain of judge endpoints with a
// heuristic terminal fallback.
type Ranker struct {
	completer llm.Completer
	models    []string
	logger    *slog.Logger
	metrics   *metric.Recorder
}

// Option configures a Ranker.
type Option func(*Ranker)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Ranker) { r.logger = logger }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(rec *metric.Recorder) Option {
	return func(r *Ranker) { r.metrics = rec }
}

// NewRanker builds a ranker over the given judge endpoint chain. An
// empty chain or nil completer means heuristic-only ranking.
func NewRanker(completer llm.Completer, models []string, opts ...Option) *Ranker {
	r := &Ranker{
		completer: completer,
		models:    models,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ClampTopN bounds a requested result count, substituting the default
// for non-positive input.
func ClampTopN(n int) int {
	if n <= 0 {
		return DefaultTopN
	}
	if n < MinTopN {
		return MinTopN
	}
	if n > MaxTopN {
		return MaxTopN
	}
	return n
}

// Rank scores candidates against the target tone and platform, sorts
// them by score descending, and returns the top n. The sort is stable:
// equal scores keep their input order. Rank never fails; the heuristic
// path covers every judge failure.
func (r *Ranker) Rank(ctx context.Context, candidates []vibe.Candidate, message, targetTone, platform string, n int) []ScoredCandidate {
	if len(candidates) == 0 {
		return nil
	}
	n = ClampTopN(n)

	scores, ok := r.judgeScores(ctx, candidates, message, targetTone, platform)
	if !ok {
		r.metrics.RankFallback()
		scores = make([]float64, len(candidates))
		for i, c := range candidates {
			scores[i] = heuristicScore(c.RewrittenText, targetTone)
		}
	}

	scored := make([]ScoredCandidate, len(candidates))
	for i, c := range candidates {
		scored[i] = ScoredCandidate{Candidate: c, Score: scores[i]}
	}
	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].Score > scored[b].Score
	})

	if n > len(scored) {
		n = len(scored)
	}
	return scored[:n]
}

// scoreRecord is one entry in a judge response. Ids pair scores with
// candidates explicitly so re-ordered responses still resolve.
type scoreRecord struct {
	ID    string   `json:"id"`
	Score *float64 `json:"score"`
}

func (r *Ranker) judgeScores(ctx context.Context, candidates []vibe.Candidate, message, targetTone, platform string) ([]float64, bool) {
	if r.completer == nil || len(r.models) == 0 {
		return nil, false
	}

	system := "You are a precise evaluator. Score each candidate (0-10) based on:" +
		" 1) Tone alignment to the requested tone," +
		" 2) Clarity and readability," +
		" 3) Fit for the specified platform." +
		" Return STRICT JSON array of objects {\"id\": string, \"score\": number}, one per candidate."

	if platform == "" {
		platform = "generic"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Target tone: %s\nPlatform: %s\n\nOriginal message: %s\n\nCandidates:\n", targetTone, platform, message)
	for i, c := range candidates {
		fmt.Fprintf(&sb, "- id c%d: %s\n", i+1, c.RewrittenText)
	}
	user := sb.String()

	for _, model := range r.models {
		resp, err := r.completer.Complete(ctx, llm.Request{
			Model: model,
			Messages: []llm.Message{
				{Role: "system", Content: system},
				{Role: "user", Content: user},
			},
		})
		if err != nil {
			r.logger.Warn("judge model failed", "model", model, "error", err)
			continue
		}
		scores, err := decodeScores(resp.Content, model, len(candidates))
		if err != nil {
			r.logger.Warn("judge response rejected", "model", model, "error", err)
			continue
		}
		return scores, true
	}
	return nil, false
}

// decodeScores parses a judge response into per-candidate scores,
// resolving each record by its id. Every id c1..cN must appear exactly
// once with a numeric score.
func decodeScores(raw, model string, count int) ([]float64, error) {
	payload, ok := llm.Extract(raw)
	if !ok {
		return nil, &ContractViolationError{Model: model, Reason: "no JSON payload in response"}
	}
	var records []scoreRecord
	if err := json.Unmarshal([]byte(payload), &records); err != nil {
		return nil, &ContractViolationError{Model: model, Reason: err.Error()}
	}
	if len(records) != count {
		return nil, &ContractViolationError{
			Model:  model,
			Reason: fmt.Sprintf("expected %d scores, got %d", count, len(records)),
		}
	}

	scores := make([]float64, count)
	seen := make(map[int]bool, count)
	for _, rec := range records {
		idx, err := parseCandidateID(rec.ID)
		if err != nil || idx < 1 || idx > count {
			return nil, &ContractViolationError{
				Model:  model,
				Reason: fmt.Sprintf("unknown candidate id %q", rec.ID),
			}
		}
		if seen[idx] {
			return nil, &ContractViolationError{
				Model:  model,
				Reason: fmt.Sprintf("duplicate candidate id %q", rec.ID),
			}
		}
		if rec.Score == nil {
			return nil, &ContractViolationError{
				Model:  model,
				Reason: fmt.Sprintf("missing score for id %q", rec.ID),
			}
		}
		seen[idx] = true
		scores[idx-1] = *rec.Score
	}
	return scores, nil
}

// parseCandidateID resolves an id of the exact form "c<number>". Sloppy
// judge output like "c1junk" must not map to a candidate.
func parseCandidateID(id string) (int, error) {
	rest, ok := strings.CutPrefix(id, "c")
	if !ok {
		return 0, fmt.Errorf("missing c prefix")
	}
	return strconv.Atoi(rest)
}
