package prayer

import (
	"time"

	"github.com/smokyabdulrahman/ramadan-companion/internal/clock"
	"github.com/smokyabdulrahman/ramadan-companion/internal/logger"
)

// Target names which of the two countdown boundaries comes next.
type Target string

const (
	TargetFirst  Target = "first"
	TargetSecond Target = "second"
)

// Countdown is the time remaining until the next of two daily boundaries.
type Countdown struct {
	Next      Target        `json:"next_target"`
	Remaining time.Duration `json:"-"`
	Display   string        `json:"remaining"`
	First     clock.Time    `json:"first"`
	Second    clock.Time    `json:"second"`
	// Tomorrow is set when the target is tomorrow's first boundary.
	Tomorrow bool `json:"tomorrow,omitempty"`
}

// At returns the absolute time the countdown ends, relative to now.
func (c Countdown) At(now time.Time) time.Time {
	return now.Add(c.Remaining).Truncate(time.Minute)
}

// Project computes the countdown from now to the next of first and second.
// Once second has passed, the target is first on the following day. The
// projector keeps no state; callers re-run it for a live display.
func Project(now time.Time, first, second clock.Time) Countdown {
	if first >= second {
		logger.Warn("countdown boundaries out of order", "first", first, "second", second)
	}

	nowSec := now.Hour()*3600 + now.Minute()*60 + now.Second()
	firstSec := int(first) * 60
	secondSec := int(second) * 60

	c := Countdown{First: first, Second: second}
	var remaining int
	switch {
	case nowSec < firstSec:
		c.Next = TargetFirst
		remaining = firstSec - nowSec
	case nowSec < secondSec:
		c.Next = TargetSecond
		remaining = secondSec - nowSec
	default:
		c.Next = TargetFirst
		c.Tomorrow = true
		remaining = firstSec + clock.MinutesPerDay*60 - nowSec
	}

	c.Remaining = time.Duration(remaining) * time.Second
	c.Display = FormatRemaining(c.Remaining)
	return c
}

// FormatRemaining renders d as "XhYmZs", omitting zero leading units
// ("5m0s", "7s"). Negative durations are clamped to zero with a warning.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		logger.Warn("negative countdown clamped to zero", "remaining", d)
		d = 0
	}
	return d.Truncate(time.Second).String()
}
