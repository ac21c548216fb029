package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/c360studio/vibeshift/grounding"
	"github.com/c360studio/vibeshift/llm/testutil"
	"github.com/c360studio/vibeshift/rank"
	"github.com/c360studio/vibeshift/rewrite"
	"github.com/c360studio/vibeshift/vibe"
)

// newTestServer builds a server whose provider tier always fails, so
// responses come from the deterministic template tier and the heuristic
// ranker. That keeps handler tests independent of any model.
func newTestServer(t *testing.T) (*Server, *http.ServeMux) {
	t.Helper()

	failing := &testutil.MockCompleter{Err: errors.New("unavailable")}
	gen := rewrite.NewGenerator([]rewrite.Tier{
		rewrite.NewProviderTier("primary", failing, "m", 0),
	})
	tone := rewrite.NewToneAnalyzer(nil, "")
	ranker := rank.NewRanker(nil, nil)

	store := grounding.NewMemoryStore()
	srv := New(gen, tone, ranker, WithStore(store))

	mux := http.NewServeMux()
	srv.RegisterHandlers(mux)
	return srv, mux
}

func postJSON(t *testing.T, mux *http.ServeMux, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestRewriteVibes(t *testing.T) {
	_, mux := newTestServer(t)

	w := postJSON(t, mux, "/rewrite_vibes", RewriteVibesRequest{Message: "Hi", Platform: "twitter"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp RewriteVibesResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.OriginalMessage != "Hi" {
		t.Errorf("OriginalMessage = %q", resp.OriginalMessage)
	}
	if resp.RequestID == "" {
		t.Error("request ID missing")
	}
	if len(resp.Vibes) != 5 {
		t.Fatalf("got %d vibes, want 5", len(resp.Vibes))
	}
	for i, name := range vibe.Canonical {
		if resp.Vibes[i].Vibe != name {
			t.Errorf("vibe %d = %q, want %q", i, resp.Vibes[i].Vibe, name)
		}
	}
	if resp.ToneAnalysis.OverallTone == "" {
		t.Error("tone analysis missing")
	}
	if resp.PlatformTips["platform"] != "twitter" {
		t.Errorf("platform tips = %v", resp.PlatformTips)
	}
}

func TestRewriteVibesMasksPII(t *testing.T) {
	_, mux := newTestServer(t)

	w := postJSON(t, mux, "/rewrite_vibes", RewriteVibesRequest{Message: "mail me at a@b.com"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp RewriteVibesResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	// The original echoes back unmasked; generated text uses the masked
	// message.
	if resp.OriginalMessage != "mail me at a@b.com" {
		t.Errorf("OriginalMessage = %q", resp.OriginalMessage)
	}
	if resp.Vibes[0].RewrittenText != "[Professional] mail me at [email]" {
		t.Errorf("rewritten = %q", resp.Vibes[0].RewrittenText)
	}
}

func TestRewriteVibesValidation(t *testing.T) {
	_, mux := newTestServer(t)

	w := postJSON(t, mux, "/rewrite_vibes", RewriteVibesRequest{Message: "   "})
	if w.Code != http.StatusBadRequest {
		t.Errorf("blank message status = %d, want 400", w.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/rewrite_vibes", bytes.NewReader([]byte("{not json")))
	w2 := httptest.NewRecorder()
	mux.ServeHTTP(w2, req)
	if w2.Code != http.StatusBadRequest {
		t.Errorf("bad body status = %d, want 400", w2.Code)
	}
}

func TestRewriteTop(t *testing.T) {
	_, mux := newTestServer(t)

	w := postJSON(t, mux, "/rewrite_top", RewriteTopRequest{
		Message:       "Can you review my draft?",
		TargetTone:    "Concise",
		NumCandidates: 2,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp RewriteTopResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.TargetTone != "Concise" {
		t.Errorf("TargetTone = %q", resp.TargetTone)
	}
	if len(resp.TopRewrites) != 2 {
		t.Fatalf("got %d rewrites, want 2", len(resp.TopRewrites))
	}
	if resp.TopRewrites[0].Score < resp.TopRewrites[1].Score {
		t.Error("results not sorted by score descending")
	}
}

func TestRewriteTopDefaultsToThree(t *testing.T) {
	_, mux := newTestServer(t)

	w := postJSON(t, mux, "/rewrite_top", RewriteTopRequest{Message: "hello", TargetTone: "Friendly"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp RewriteTopResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.TopRewrites) != rank.DefaultTopN {
		t.Errorf("got %d rewrites, want %d", len(resp.TopRewrites), rank.DefaultTopN)
	}
}

func TestRewriteTopValidation(t *testing.T) {
	_, mux := newTestServer(t)

	w := postJSON(t, mux, "/rewrite_top", RewriteTopRequest{Message: "hello"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing target_tone status = %d, want 400", w.Code)
	}

	w = postJSON(t, mux, "/rewrite_top", RewriteTopRequest{
		Message: "hello", TargetTone: "Friendly", NumCandidates: 11,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("num_candidates=11 status = %d, want 400", w.Code)
	}
}

func TestFeedbackAccept(t *testing.T) {
	srv, mux := newTestServer(t)

	w := postJSON(t, mux, "/feedback_accept", FeedbackRequest{
		UserID:       "alice",
		Message:      "original",
		AcceptedText: "Hey! Quick question for you.",
		Platform:     "WhatsApp",
		TargetTone:   "Friendly",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["stored"] == "" {
		t.Fatal("no document id returned")
	}

	// The stored example is retrievable for that user.
	docs, err := srv.store.Retrieve(context.Background(), grounding.Query{
		Text:   "quick question",
		UserID: "alice",
		TopK:   1,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 || docs[0].Platform != "whatsapp" {
		t.Errorf("stored docs = %v", docs)
	}
}

func TestFeedbackAcceptValidation(t *testing.T) {
	_, mux := newTestServer(t)

	w := postJSON(t, mux, "/feedback_accept", FeedbackRequest{UserID: "alice"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestSeedGuidelines(t *testing.T) {
	_, mux := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/seed_guidelines", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp map[string]int
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["inserted"] == 0 {
		t.Error("no guidelines inserted")
	}
}

func TestStoreEndpointsWithoutStore(t *testing.T) {
	failing := &testutil.MockCompleter{Err: errors.New("unavailable")}
	gen := rewrite.NewGenerator([]rewrite.Tier{rewrite.NewProviderTier("p", failing, "m", 0)})
	srv := New(gen, rewrite.NewToneAnalyzer(nil, ""), rank.NewRanker(nil, nil))

	mux := http.NewServeMux()
	srv.RegisterHandlers(mux)

	req := httptest.NewRequest(http.MethodPost, "/seed_guidelines", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}

func TestHealthz(t *testing.T) {
	_, mux := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestPlatforms(t *testing.T) {
	_, mux := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/platforms", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp struct {
		Platforms []string `json:"platforms"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Platforms) == 0 {
		t.Error("no platforms listed")
	}
}
