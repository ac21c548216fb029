package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/c360studio/vibeshift/model"
)

// stubProvider is a minimal provider for exercising the client without
// depending on a real wire format.
type stubProvider struct{}

func (stubProvider) Name() string { return "stub" }

func (stubProvider) BuildURL(baseURL, _ string) string { return baseURL + "/complete" }

func (stubProvider) SetHeaders(_ *http.Request) {}

func (stubProvider) BuildRequestBody(model string, messages []Message, _ *float64, _ int) ([]byte, error) {
	return json.Marshal(map[string]any{"model": model, "messages": messages})
}

func (stubProvider) ParseResponse(body []byte, model string) (*Response, error) {
	var parsed struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, err
	}
	return &Response{Content: parsed.Content, Model: model}, nil
}

func newTestRegistry(url string) *model.Registry {
	reg := model.NewRegistry(nil, nil)
	reg.SetEndpoint("stub-model", &model.EndpointConfig{
		Provider: "stub",
		URL:      url,
		Model:    "stub-1",
	})
	return reg
}

func TestClientComplete(t *testing.T) {
	RegisterProvider(stubProvider{})

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/complete" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var req struct {
			Model    string    `json:"model"`
			Messages []Message `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "stub-1" {
			t.Errorf("request model = %q, want stub-1", req.Model)
		}
		json.NewEncoder(w).Encode(map[string]string{"content": "hello back"})
	}))
	defer ts.Close()

	client := NewClient(newTestRegistry(ts.URL))
	resp, err := client.Complete(context.Background(), Request{
		Model:    "stub-model",
		Messages: []Message{{Role: "user", Content: "hello"}},
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if resp.Content != "hello back" {
		t.Errorf("Content = %q, want %q", resp.Content, "hello back")
	}
	if resp.Model != "stub-1" {
		t.Errorf("Model = %q, want stub-1", resp.Model)
	}
}

func TestClientCompleteHTTPError(t *testing.T) {
	RegisterProvider(stubProvider{})

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer ts.Close()

	client := NewClient(newTestRegistry(ts.URL))
	_, err := client.Complete(context.Background(), Request{
		Model:    "stub-model",
		Messages: []Message{{Role: "user", Content: "hello"}},
	})
	if err == nil {
		t.Fatal("Complete() error = nil, want *ProviderError")
	}

	var pErr *ProviderError
	if !errors.As(err, &pErr) {
		t.Fatalf("error type = %T, want *ProviderError", err)
	}
	if pErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("StatusCode = %d, want %d", pErr.StatusCode, http.StatusTooManyRequests)
	}
	if pErr.Provider != "stub" {
		t.Errorf("Provider = %q, want stub", pErr.Provider)
	}
}

func TestClientCompleteUnknownEndpoint(t *testing.T) {
	client := NewClient(model.NewRegistry(nil, nil))
	_, err := client.Complete(context.Background(), Request{
		Model:    "missing",
		Messages: []Message{{Role: "user", Content: "hello"}},
	})
	if !IsProviderError(err) {
		t.Fatalf("error = %v, want provider error", err)
	}
}

func TestClientCompleteValidation(t *testing.T) {
	client := NewClient(model.NewRegistry(nil, nil))

	if _, err := client.Complete(context.Background(), Request{}); err == nil {
		t.Error("empty model accepted")
	}
	if _, err := client.Complete(context.Background(), Request{Model: "m"}); err == nil {
		t.Error("empty messages accepted")
	}
}
