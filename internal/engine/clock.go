package engine

import "time"

// SystemClock reads the wall clock in the local time zone, so date-keys
// follow the shop's calendar day.
type SystemClock struct{}

// Now returns the current local time.
func (SystemClock) Now() time.Time {
	return time.Now()
}
