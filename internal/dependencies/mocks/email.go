package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mcoot/stadiumdash/internal/email"
)

// MockSender records sent emails instead of delivering them
type MockSender struct {
	mu   sync.Mutex
	Sent []email.SendRequest

	// Err, when set, is returned from every Send
	Err error
}

// Ensure MockSender implements Sender
var _ email.Sender = (*MockSender)(nil)

// NewMockSender creates a new MockSender
func NewMockSender() *MockSender {
	return &MockSender{}
}

// Send records the request
func (s *MockSender) Send(_ context.Context, req email.SendRequest) (email.SendResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return email.SendResult{}, s.Err
	}
	s.Sent = append(s.Sent, req)
	return email.SendResult{
		MessageID: fmt.Sprintf("mock-%d", len(s.Sent)),
		SentAt:    time.Now(),
	}, nil
}

// Last returns the most recently sent email, or nil if none
func (s *MockSender) Last() *email.SendRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Sent) == 0 {
		return nil
	}
	req := s.Sent[len(s.Sent)-1]
	return &req
}
