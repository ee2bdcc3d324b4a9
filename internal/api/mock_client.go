package api

import (
	"context"
	"sync"
	"time"
)

// MockAnswerClient is a scriptable answer service for tests of the packages
// that consume the client.
type MockAnswerClient struct {
	// Answer and Err are returned when AskFunc is nil
	Answer string
	Err    error
	// Delay holds every call for the given duration, or until ctx is done
	Delay time.Duration
	// Release, when non-nil, blocks every call until it is closed or ctx is done
	Release chan struct{}
	AskFunc func(ctx context.Context, question string) (string, error)

	mu        sync.Mutex
	questions []string
}

// Ask records the question and returns the scripted outcome
func (m *MockAnswerClient) Ask(ctx context.Context, question string) (string, error) {
	m.mu.Lock()
	m.questions = append(m.questions, question)
	m.mu.Unlock()

	if m.Release != nil {
		select {
		case <-m.Release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if m.AskFunc != nil {
		return m.AskFunc(ctx, question)
	}
	return m.Answer, m.Err
}

// Questions returns every question received so far
func (m *MockAnswerClient) Questions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.questions))
	copy(out, m.questions)
	return out
}

// Calls returns the number of Ask calls
func (m *MockAnswerClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.questions)
}
