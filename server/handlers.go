package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/c360studio/vibeshift/grounding"
	"github.com/c360studio/vibeshift/moderation"
	"github.com/c360studio/vibeshift/platform"
	"github.com/c360studio/vibeshift/rank"
	"github.com/c360studio/vibeshift/rewrite"
	"github.com/c360studio/vibeshift/vibe"
)

// RewriteVibesRequest is the request body for POST /rewrite_vibes.
type RewriteVibesRequest struct {
	Message  string `json:"message"`
	Platform string `json:"platform,omitempty"`
	UserID   string `json:"user_id,omitempty"`
}

// RewriteVibesResponse includes tone analysis, the five vibes, and
// platform tips.
type RewriteVibesResponse struct {
	RequestID       string             `json:"request_id"`
	OriginalMessage string             `json:"original_message"`
	ToneAnalysis    rewrite.ToneResult `json:"tone_analysis"`
	Vibes           []vibe.Candidate   `json:"vibes"`
	PlatformTips    map[string]string  `json:"platform_tips"`
}

// RewriteTopRequest is the request body for POST /rewrite_top.
type RewriteTopRequest struct {
	Message       string `json:"message"`
	Platform      string `json:"platform,omitempty"`
	TargetTone    string `json:"target_tone"`
	NumCandidates int    `json:"num_candidates,omitempty"`
	UserID        string `json:"user_id,omitempty"`
}

// RewriteTopResponse carries the top-N ranked rewrites for a target tone.
type RewriteTopResponse struct {
	RequestID       string                 `json:"request_id"`
	OriginalMessage string                 `json:"original_message"`
	TargetTone      string                 `json:"target_tone"`
	PlatformTips    map[string]string      `json:"platform_tips"`
	TopRewrites     []rank.ScoredCandidate `json:"top_rewrites"`
}

// FeedbackRequest stores an accepted rewrite as a style example.
type FeedbackRequest struct {
	UserID       string `json:"user_id"`
	Message      string `json:"message"`
	AcceptedText string `json:"accepted_text"`
	Platform     string `json:"platform,omitempty"`
	TargetTone   string `json:"target_tone"`
}

// handleRewriteVibes handles POST /rewrite_vibes.
func (s *Server) handleRewriteVibes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var req RewriteVibesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	if result := moderation.Moderate(req.Message); result.Flagged {
		s.writeError(w, http.StatusUnprocessableEntity, "message rejected: "+result.Reason)
		return
	}
	clean := moderation.MaskPII(req.Message)

	tone := s.tone.Analyze(ctx, clean)
	vibes := s.generator.Generate(ctx, clean, req.Platform, req.UserID)

	s.writeJSON(w, http.StatusOK, RewriteVibesResponse{
		RequestID:       uuid.New().String(),
		OriginalMessage: req.Message,
		ToneAnalysis:    tone,
		Vibes:           vibes,
		PlatformTips:    platform.Tips(req.Platform),
	})
}

// handleRewriteTop handles POST /rewrite_top.
func (s *Server) handleRewriteTop(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var req RewriteTopRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.writeError(w, http.StatusBadRequest, "message is required")
		return
	}
	if strings.TrimSpace(req.TargetTone) == "" {
		s.writeError(w, http.StatusBadRequest, "target_tone is required")
		return
	}
	if req.NumCandidates != 0 && (req.NumCandidates < rank.MinTopN || req.NumCandidates > rank.MaxTopN) {
		s.writeError(w, http.StatusBadRequest, "num_candidates must be 1-10")
		return
	}

	if result := moderation.Moderate(req.Message); result.Flagged {
		s.writeError(w, http.StatusUnprocessableEntity, "message rejected: "+result.Reason)
		return
	}
	clean := moderation.MaskPII(req.Message)

	candidates := s.generator.Generate(ctx, clean, req.Platform, req.UserID)
	top := s.ranker.Rank(ctx, candidates, clean, req.TargetTone, req.Platform, req.NumCandidates)

	s.writeJSON(w, http.StatusOK, RewriteTopResponse{
		RequestID:       uuid.New().String(),
		OriginalMessage: clean,
		TargetTone:      req.TargetTone,
		PlatformTips:    platform.Tips(req.Platform),
		TopRewrites:     top,
	})
}

// handleFeedbackAccept handles POST /feedback_accept.
func (s *Server) handleFeedbackAccept(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if s.store == nil {
		s.writeError(w, http.StatusServiceUnavailable, "feedback store not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var req FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == "" || req.AcceptedText == "" || req.TargetTone == "" {
		s.writeError(w, http.StatusBadRequest, "user_id, accepted_text, and target_tone are required")
		return
	}

	docID, err := grounding.UpsertUserExample(ctx, s.store, req.UserID, req.Message,
		strings.ToLower(req.Platform), req.TargetTone, req.AcceptedText)
	if err != nil {
		s.log().Error("Failed to store feedback example", "user_id", req.UserID, "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to store feedback")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"stored": docID})
}

// handleSeedGuidelines handles POST /seed_guidelines.
func (s *Server) handleSeedGuidelines(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if s.store == nil {
		s.writeError(w, http.StatusServiceUnavailable, "guideline store not configured")
		return
	}

	count, err := grounding.SeedDefaults(ctx, s.store)
	if err != nil {
		s.log().Error("Failed to seed guidelines", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to seed guidelines")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]int{"inserted": count})
}

// writeJSON writes a JSON response.
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log().Warn("Failed to write JSON response", "error", err)
	}
}

// writeError writes an error response.
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
