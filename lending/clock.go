package lending

import (
	"time"
)

// Clock supplies the current library date. Injecting it keeps "today"
// deterministic in tests instead of depending on wall-clock reads.
type Clock interface {
	Today() time.Time
}

// SystemClock reads the wall clock, truncated to day granularity.
type SystemClock struct{}

func (SystemClock) Today() time.Time {
	return ToLibraryDate(time.Now())
}
