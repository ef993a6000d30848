package clock

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Clock is the time source for session and reset-token expiry.
// Any clockwork.Clock satisfies it.
type Clock interface {
	Now() time.Time
}

// New returns the wall clock
func New() clockwork.Clock {
	return clockwork.NewRealClock()
}
