package grounding

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// tokenPattern splits query and document text into scoring tokens.
var tokenPattern = regexp.MustCompile(`[a-z0-9]+`)

// Relevance weights for the keyword index. Scope matches dominate token
// overlap so a platform-specific guideline beats a generic one that
// happens to share more words.
const (
	tokenWeight    = 1.0
	platformWeight = 2.0
	userWeight     = 3.0
)

// MemoryStore is an in-memory keyword index over guidance documents.
// Scoring is deterministic: token overlap plus fixed boosts for platform
// and user scope matches. Safe for concurrent use.
type MemoryStore struct {
	mu   sync.RWMutex
	docs []Document
	byID map[string]int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]int)}
}

// Upsert inserts or replaces a document by ID.
func (s *MemoryStore) Upsert(_ context.Context, doc Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.byID[doc.ID]; ok {
		s.docs[i] = doc
		return nil
	}
	s.byID[doc.ID] = len(s.docs)
	s.docs = append(s.docs, doc)
	return nil
}

// Len returns the number of stored documents.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Retrieve scores every document against the query and returns up to
// TopK positive-scoring documents, relevance descending. Ties keep
// insertion order.
func (s *MemoryStore) Retrieve(_ context.Context, q Query) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	queryTokens := tokenize(q.Text)
	platform := strings.ToLower(strings.TrimSpace(q.Platform))

	scored := make([]Document, 0, len(s.docs))
	for _, doc := range s.docs {
		score := scoreDocument(doc, queryTokens, platform, q.UserID)
		if score <= 0 {
			continue
		}
		doc.Relevance = score
		scored = append(scored, doc)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Relevance > scored[j].Relevance
	})

	if q.TopK > 0 && len(scored) > q.TopK {
		scored = scored[:q.TopK]
	}
	return scored, nil
}

// scoreDocument computes the deterministic keyword relevance of one
// document. Documents scoped to another user never match.
func scoreDocument(doc Document, queryTokens map[string]struct{}, platform, userID string) float64 {
	if doc.UserID != "" && doc.UserID != userID {
		return 0
	}

	score := 0.0
	docTokens := tokenize(doc.Title + " " + doc.Text + " " + doc.Tone)
	for tok := range queryTokens {
		if _, ok := docTokens[tok]; ok {
			score += tokenWeight
		}
	}

	if doc.Platform != "" && doc.Platform == platform {
		score += platformWeight
	}
	if doc.UserID != "" && doc.UserID == userID {
		score += userWeight
	}
	return score
}

// tokenize lowercases text and extracts alphanumeric tokens.
func tokenize(text string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, tok := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		tokens[tok] = struct{}{}
	}
	return tokens
}
