// Package clock abstracts wall-clock time so services that compute
// due dates and overdue states can be tested deterministically.
package clock

import "time"

type Clock interface {
	Now() time.Time
}

// System reads the real time.
type System struct{}

func (System) Now() time.Time { return time.Now() }

// Fixed always returns the same instant. Test helper.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time { return f.T }
