// Package testutil provides test utilities for the llm package.
// It includes mock implementations for testing pipeline interactions.
package testutil

import (
	"context"
	"sync"

	"github.com/c360studio/vibeshift/llm"
)

// MockCompleter is a thread-safe mock completion client for testing.
// It captures the requests passed to Complete() and returns configured
// responses in sequence.
//
// Usage:
//
//	// Single response mock
//	mock := &testutil.MockCompleter{
//	    Responses: []*llm.Response{
//	        {Content: `[{"vibe": "Professional", ...}]`, Model: "test-model"},
//	    },
//	}
//
//	// Multiple responses (for tier cascade testing)
//	mock := &testutil.MockCompleter{
//	    Responses: []*llm.Response{
//	        {Content: "not json", Model: "test-model"},
//	        {Content: `[1, 2, 3, 4, 5]`, Model: "test-model"},
//	    },
//	}
//
//	// Error response
//	mock := &testutil.MockCompleter{
//	    Err: errors.New("connection failed"),
//	}
type MockCompleter struct {
	mu            sync.Mutex
	requests      []llm.Request
	Responses     []*llm.Response // Responses to return in sequence
	Err           error           // Error to return (takes precedence over Responses)
	responseIndex int
}

// Complete implements llm.Completer. It returns the next response from
// the Responses slice, or Err if set, and records the request.
func (m *MockCompleter) Complete(_ context.Context, req llm.Request) (*llm.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)

	if m.Err != nil {
		return nil, m.Err
	}

	if m.responseIndex < len(m.Responses) {
		resp := m.Responses[m.responseIndex]
		m.responseIndex++
		return resp, nil
	}

	// Default response if no responses configured
	return &llm.Response{Content: "", Model: "test-model"}, nil
}

// Requests returns a copy of the requests passed to Complete().
func (m *MockCompleter) Requests() []llm.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]llm.Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// CallCount returns the number of times Complete() was called.
func (m *MockCompleter) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Reset clears the mock's state (recorded requests and response index).
func (m *MockCompleter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = nil
	m.responseIndex = 0
}
