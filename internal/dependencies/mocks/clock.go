package mocks

import (
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/mcoot/stadiumdash/internal/dependencies/clock"
)

// MockClock is a fake clock that only moves when told to.
// The embedded FakeClock can also drive tickers in tests.
type MockClock struct {
	*clockwork.FakeClock
}

var _ clock.Clock = (*MockClock)(nil)

// NewMockClock creates a MockClock starting at t
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{FakeClock: clockwork.NewFakeClockAt(t)}
}

// Set moves the clock to t, which must not be in the past
func (c *MockClock) Set(t time.Time) {
	c.Advance(t.Sub(c.Now()))
}
