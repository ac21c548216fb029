package rewrite

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/c360studio/vibeshift/llm"
)

// ToneResult is the outcome of tone analysis on an input message.
type ToneResult struct {
	OverallTone string `json:"overall_tone"`
	Rationale   string `json:"rationale"`
}

// ToneAnalyzer classifies the overall tone of a message. It prefers an
// LLM endpoint and falls back to keyword heuristics when the model is
// unavailable or returns something unusable.
type ToneAnalyzer struct {
	completer llm.Completer
	model     string
	logger    *slog.Logger
}

// ToneOption configures a ToneAnalyzer.
type ToneOption func(*ToneAnalyzer)

// WithToneLogger sets the logger.
func WithToneLogger(logger *slog.Logger) ToneOption {
	return func(a *ToneAnalyzer) { a.logger = logger }
}

// NewToneAnalyzer builds an analyzer over the given endpoint. A nil
// completer or empty model skips the LLM attempt entirely.
func NewToneAnalyzer(completer llm.Completer, model string, opts ...ToneOption) *ToneAnalyzer {
	a := &ToneAnalyzer{
		completer: completer,
		model:     model,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze classifies message tone. Never returns an error: heuristics
// cover every failure of the model path.
func (a *ToneAnalyzer) Analyze(ctx context.Context, message string) ToneResult {
	if a.completer != nil && a.model != "" {
		if result, ok := a.analyzeLLM(ctx, message); ok {
			return result
		}
	}
	return heuristicTone(message)
}

func (a *ToneAnalyzer) analyzeLLM(ctx context.Context, message string) (ToneResult, bool) {
	text := Truncate(message, MaxMessageChars)
	resp, err := a.completer.Complete(ctx, llm.Request{
		Model: a.model,
		Messages: []llm.Message{
			{Role: "system", Content: "You analyze the tone of short user messages." +
				" Return strict JSON with keys: overall_tone (string), rationale (string)."},
			{Role: "user", Content: "Analyze the tone of this message and return JSON only.\n\nMessage: " + text + "\n"},
		},
	})
	if err != nil {
		a.logger.Warn("tone analysis model failed, using heuristic", "error", err)
		return ToneResult{}, false
	}

	payload, ok := llm.Extract(resp.Content)
	if !ok {
		return ToneResult{}, false
	}
	var result ToneResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil || result.OverallTone == "" {
		return ToneResult{}, false
	}
	return result, true
}

var toneKeywords = []struct {
	tone  string
	words []string
}{
	{"Polite", []string{"please", "would you", "kindly", "appreciate"}},
	{"Urgent", []string{"urgent", "asap", "now", "immediately"}},
	{"Apologetic", []string{"sorry", "apologize", "regret"}},
	{"Positive", []string{"great", "awesome", "thanks", "thank you"}},
}

func heuristicTone(message string) ToneResult {
	lowered := strings.ToLower(message)
	tone := "Neutral"
	for _, tk := range toneKeywords {
		matched := false
		for _, w := range tk.words {
			if strings.Contains(lowered, w) {
				matched = true
				break
			}
		}
		if matched {
			tone = tk.tone
			break
		}
	}
	return ToneResult{
		OverallTone: tone,
		Rationale:   "Heuristic analysis based on presence of polite, urgent, apologetic, or positive keywords.",
	}
}
