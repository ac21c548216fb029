// Package grounding stores and retrieves style-guidance snippets used to
// enrich rewrite prompts. Retrieval is strictly best-effort: the Client
// wrapper swallows every failure, so grounding can only improve output
// quality, never correctness.
package grounding

import "context"

// Document is one guidance snippet. Platform, Tone, and UserID scope the
// document; empty values mean the document applies generally.
type Document struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Text      string  `json:"text"`
	Platform  string  `json:"platform,omitempty"`
	Tone      string  `json:"tone,omitempty"`
	UserID    string  `json:"user_id,omitempty"`
	Relevance float64 `json:"relevance"`
}

// Query describes a retrieval request.
type Query struct {
	// Text is the free-text query the documents are scored against.
	Text string

	// Platform biases retrieval toward documents scoped to it. Empty
	// means no platform bias.
	Platform string

	// UserID biases retrieval toward that user's stored examples.
	UserID string

	// TopK caps the number of documents returned.
	TopK int
}

// Store is the document store contract the pipeline depends on. Its
// internal indexing is an implementation detail; only this query surface
// matters to the core.
type Store interface {
	// Retrieve returns up to TopK documents ordered by relevance
	// descending.
	Retrieve(ctx context.Context, q Query) ([]Document, error)

	// Upsert inserts or replaces a document by ID.
	Upsert(ctx context.Context, doc Document) error
}
