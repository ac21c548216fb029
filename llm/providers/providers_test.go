package providers

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/c360studio/vibeshift/llm"
)

func TestAllProvidersRegistered(t *testing.T) {
	for _, name := range []string{"openai", "gemini", "anthropic", "ollama"} {
		if llm.GetProvider(name) == nil {
			t.Errorf("provider %q not registered", name)
		}
	}
}

func TestOpenAIBuildURL(t *testing.T) {
	p := &OpenAIProvider{}
	tests := []struct {
		base string
		want string
	}{
		{"", "https://api.openai.com/v1/chat/completions"},
		{"https://gateway.example/v1", "https://gateway.example/v1/chat/completions"},
		{"https://gateway.example/v1/", "https://gateway.example/v1/chat/completions"},
		{"https://gateway.example/v1/chat/completions", "https://gateway.example/v1/chat/completions"},
	}
	for _, tt := range tests {
		if got := p.BuildURL(tt.base, "gpt-4o"); got != tt.want {
			t.Errorf("BuildURL(%q) = %q, want %q", tt.base, got, tt.want)
		}
	}
}

func TestOpenAIRequestBody(t *testing.T) {
	p := &OpenAIProvider{}
	temp := 0.7
	body, err := p.BuildRequestBody("gpt-4o-mini", []llm.Message{
		{Role: "system", Content: "sys"},
		{Role: "user", Content: "hi"},
	}, &temp, 100)
	if err != nil {
		t.Fatal(err)
	}

	var req struct {
		Model       string `json:"model"`
		Messages    []any  `json:"messages"`
		Temperature *float64
		MaxTokens   *int `json:"max_tokens"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		t.Fatal(err)
	}
	if req.Model != "gpt-4o-mini" || len(req.Messages) != 2 {
		t.Errorf("request = %+v", req)
	}
	if req.MaxTokens == nil || *req.MaxTokens != 100 {
		t.Errorf("max_tokens = %v", req.MaxTokens)
	}
}

func TestOpenAIParseResponse(t *testing.T) {
	p := &OpenAIProvider{}
	body := `{"model":"gpt-4o-mini","choices":[{"message":{"role":"assistant","content":"hello"},"finish_reason":"stop"}],"usage":{"prompt_tokens":3,"completion_tokens":2,"total_tokens":5}}`

	resp, err := p.ParseResponse([]byte(body), "gpt-4o-mini")
	if err != nil {
		t.Fatal(err)
	}
	if resp.Content != "hello" || resp.FinishReason != "stop" {
		t.Errorf("resp = %+v", resp)
	}
	if resp.Usage.TotalTokens != 5 {
		t.Errorf("usage = %+v", resp.Usage)
	}
}

func TestOpenAIParseResponseNoChoices(t *testing.T) {
	p := &OpenAIProvider{}
	if _, err := p.ParseResponse([]byte(`{"choices":[]}`), "m"); err == nil {
		t.Error("expected error for empty choices")
	}
}

func TestGeminiBuildURL(t *testing.T) {
	p := &GeminiProvider{}
	got := p.BuildURL("", "gemini-1.5-flash")
	want := "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash:generateContent"
	if got != want {
		t.Errorf("BuildURL() = %q, want %q", got, want)
	}
}

func TestGeminiRequestBody(t *testing.T) {
	p := &GeminiProvider{}
	body, err := p.BuildRequestBody("gemini-1.5-flash", []llm.Message{
		{Role: "system", Content: "sys instruction"},
		{Role: "user", Content: "question"},
		{Role: "assistant", Content: "earlier answer"},
	}, nil, 0)
	if err != nil {
		t.Fatal(err)
	}

	var req struct {
		SystemInstruction *struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"systemInstruction"`
		Contents []struct {
			Role string `json:"role"`
		} `json:"contents"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		t.Fatal(err)
	}
	if req.SystemInstruction == nil || req.SystemInstruction.Parts[0].Text != "sys instruction" {
		t.Error("system message not mapped to systemInstruction")
	}
	if len(req.Contents) != 2 {
		t.Fatalf("contents = %d, want 2", len(req.Contents))
	}
	if req.Contents[0].Role != "user" || req.Contents[1].Role != "model" {
		t.Errorf("roles = %s, %s", req.Contents[0].Role, req.Contents[1].Role)
	}
}

func TestGeminiParseResponseJoinsParts(t *testing.T) {
	p := &GeminiProvider{}
	body := `{"candidates":[{"content":{"parts":[{"text":"hel"},{"text":"lo"}],"role":"model"},"finishReason":"STOP"}]}`

	resp, err := p.ParseResponse([]byte(body), "gemini-1.5-flash")
	if err != nil {
		t.Fatal(err)
	}
	if resp.Content != "hello" {
		t.Errorf("Content = %q, want hello", resp.Content)
	}
}

func TestAnthropicRequestBody(t *testing.T) {
	p := &AnthropicProvider{}
	body, err := p.BuildRequestBody("claude-sonnet", []llm.Message{
		{Role: "system", Content: "sys"},
		{Role: "user", Content: "hi"},
	}, nil, 0)
	if err != nil {
		t.Fatal(err)
	}

	var req struct {
		System    string `json:"system"`
		MaxTokens int    `json:"max_tokens"`
		Messages  []struct {
			Role string `json:"role"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		t.Fatal(err)
	}
	if req.System != "sys" {
		t.Errorf("system = %q", req.System)
	}
	if req.MaxTokens == 0 {
		t.Error("max_tokens default missing")
	}
	if len(req.Messages) != 1 || req.Messages[0].Role != "user" {
		t.Errorf("messages = %+v", req.Messages)
	}
}

func TestOllamaBuildURL(t *testing.T) {
	p := &OllamaProvider{}
	got := p.BuildURL("", "qwen2.5:7b")
	if !strings.HasPrefix(got, "http://localhost:11434") || !strings.HasSuffix(got, "/chat/completions") {
		t.Errorf("BuildURL() = %q", got)
	}
}
