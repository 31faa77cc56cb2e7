package fixtures

import (
	"time"

	"github.com/librarykit/lending-policy-go/lending"
)

// FixedClock is a lending.Clock that always reports the same date.
type FixedClock struct {
	date time.Time
}

// NewFixedClock creates a FixedClock pinned to the given date,
// normalized to day granularity in UTC.
func NewFixedClock(date time.Time) FixedClock {
	return FixedClock{date: lending.ToLibraryDate(date)}
}

// Today implements the lending.Clock interface.
func (c FixedClock) Today() time.Time {
	return c.date
}

// PlusDays returns a new FixedClock advanced by the given number of days.
func (c FixedClock) PlusDays(days int) FixedClock {
	return FixedClock{date: c.date.AddDate(0, 0, days)}
}

// Compile-time check to ensure FixedClock implements the Clock interface.
var _ lending.Clock = FixedClock{}
