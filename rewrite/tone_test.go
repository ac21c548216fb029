package rewrite

import (
	"context"
	"errors"
	"testing"

	"github.com/c360studio/vibeshift/llm"
	"github.com/c360studio/vibeshift/llm/testutil"
)

func TestAnalyzeModelPath(t *testing.T) {
	mock := &testutil.MockCompleter{
		Responses: []*llm.Response{
			{Content: `{"overall_tone": "Frustrated", "rationale": "short, clipped phrasing"}`, Model: "m"},
		},
	}
	analyzer := NewToneAnalyzer(mock, "m")

	got := analyzer.Analyze(context.Background(), "fine. whatever.")
	if got.OverallTone != "Frustrated" {
		t.Errorf("OverallTone = %q, want Frustrated", got.OverallTone)
	}
	if got.Rationale == "" {
		t.Error("Rationale is empty")
	}
}

func TestAnalyzeFallsBackOnError(t *testing.T) {
	mock := &testutil.MockCompleter{Err: errors.New("unavailable")}
	analyzer := NewToneAnalyzer(mock, "m")

	got := analyzer.Analyze(context.Background(), "please send the report")
	if got.OverallTone != "Polite" {
		t.Errorf("OverallTone = %q, want Polite", got.OverallTone)
	}
}

func TestAnalyzeFallsBackOnBadJSON(t *testing.T) {
	mock := &testutil.MockCompleter{
		Responses: []*llm.Response{{Content: "no json here", Model: "m"}},
	}
	analyzer := NewToneAnalyzer(mock, "m")

	got := analyzer.Analyze(context.Background(), "we need this ASAP")
	if got.OverallTone != "Urgent" {
		t.Errorf("OverallTone = %q, want Urgent", got.OverallTone)
	}
}

func TestAnalyzeWithoutModel(t *testing.T) {
	analyzer := NewToneAnalyzer(nil, "")
	if got := analyzer.Analyze(context.Background(), "hi"); got.OverallTone != "Neutral" {
		t.Errorf("OverallTone = %q, want Neutral", got.OverallTone)
	}
}

func TestHeuristicTone(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"Could you kindly review this?", "Polite"},
		{"need this done immediately", "Urgent"},
		{"sorry about the delay", "Apologetic"},
		{"thanks, that was awesome", "Positive"},
		{"the meeting is at three", "Neutral"},
		// polite wins when multiple categories match
		{"please fix this asap", "Polite"},
	}
	for _, tt := range tests {
		got := heuristicTone(tt.message)
		if got.OverallTone != tt.want {
			t.Errorf("heuristicTone(%q) = %q, want %q", tt.message, got.OverallTone, tt.want)
		}
	}
}
