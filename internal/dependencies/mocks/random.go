package mocks

import (
	"fmt"
	"sync"

	"github.com/mcoot/stadiumdash/internal/dependencies/random"
)

// MockRandom returns queued values. Once a queue is drained, String returns
// "reset-N" and Token returns "token-N" so values stay distinct.
type MockRandom struct {
	mu          sync.Mutex
	strings     []string
	tokens      []string
	stringsMade int
	issued      int
}

var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// String returns the next queued string or a generated one
func (r *MockRandom) String(int, string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stringsMade++
	if len(r.strings) == 0 {
		return fmt.Sprintf("reset-%d", r.stringsMade)
	}
	next := r.strings[0]
	r.strings = r.strings[1:]
	return next
}

// Token returns the next queued token or a generated one
func (r *MockRandom) Token(int) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.issued++
	if len(r.tokens) == 0 {
		return fmt.Sprintf("token-%d", r.issued)
	}
	next := r.tokens[0]
	r.tokens = r.tokens[1:]
	return next
}

// QueueString queues values for String, used for reset tokens
func (r *MockRandom) QueueString(values ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strings = append(r.strings, values...)
}

// QueueToken queues values for Token, used for session tokens
func (r *MockRandom) QueueToken(values ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens = append(r.tokens, values...)
}
