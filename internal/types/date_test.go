package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateOf(t *testing.T) {
	late := time.Date(2025, 6, 1, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), DateOf(late))

	// Non-UTC timestamps normalize to their UTC calendar day
	madrid := time.FixedZone("CET+2", 2*60*60)
	local := time.Date(2025, 6, 1, 1, 30, 0, 0, madrid) // 2025-05-31T23:30Z
	assert.Equal(t, time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC), DateOf(local))
}

func TestDaysBetween(t *testing.T) {
	jun1 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	jul1 := time.Date(2025, 7, 1, 3, 0, 0, 0, time.UTC)

	assert.Equal(t, 30, DaysBetween(jun1, jul1))
	assert.Equal(t, -30, DaysBetween(jul1, jun1))
	assert.Equal(t, 0, DaysBetween(jun1, jun1))
}
