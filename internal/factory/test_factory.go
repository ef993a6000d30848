package factory

import (
	"time"

	"github.com/mcoot/stadiumdash/internal/dependencies/mocks"
	"github.com/mcoot/stadiumdash/internal/services/auth"
	"github.com/mcoot/stadiumdash/internal/storage/memory"
	"github.com/mcoot/stadiumdash/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	Store        *memory.Storage
	MockClock    *mocks.MockClock
	MockRandom   *mocks.MockRandom
	MockSender   *mocks.MockSender
	MockVerifier *mocks.MockVerifier
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	mockSender := mocks.NewMockSender()
	mockVerifier := mocks.NewMockVerifier()

	app := newWithDependencies(store, mockClock, mockRandom, mockSender, mockVerifier, auth.DefaultConfig(), testutil.NopLogger())

	return &TestApp{
		App:          app,
		Store:        store,
		MockClock:    mockClock,
		MockRandom:   mockRandom,
		MockSender:   mockSender,
		MockVerifier: mockVerifier,
	}
}
