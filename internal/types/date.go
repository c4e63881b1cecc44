package types

import (
	"time"
)

// DateOf normalizes a timestamp to midnight UTC. All day-boundary
// arithmetic in the billing core operates on normalized dates so that the
// wall-clock time a batch runs at never changes its decisions.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole calendar days from one date to
// another. The result is negative when to precedes from.
func DaysBetween(from, to time.Time) int {
	from = DateOf(from)
	to = DateOf(to)
	return int(to.Sub(from).Hours() / 24)
}
