package occupancy

import "time"

// Clock supplies the current time to components that need one.  All
// billing math takes an explicit as-of timestamp instead of reading a
// global clock, so settlement stays deterministic and tests can pin
// time with NewFixedClock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// NewSystemClock returns a Clock backed by time.Now in UTC.
func NewSystemClock() Clock { return systemClock{} }

func (systemClock) Now() time.Time { return time.Now().UTC() }

type fixedClock struct {
	now time.Time
}

// NewFixedClock returns a Clock that always reports the same instant.
func NewFixedClock(t time.Time) Clock { return fixedClock{now: t.UTC()} }

func (f fixedClock) Now() time.Time { return f.now }
