// Package clock centralizes "today" and "this week" decisions. Every other
// component consults this package instead of reading wall-clock time, so day
// and week boundaries stay testable with an injected fake.
package clock

import "time"

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func NewSystemClock() *SystemClock {
	return &SystemClock{}
}

func (c *SystemClock) Now() time.Time {
	return time.Now().UTC()
}
