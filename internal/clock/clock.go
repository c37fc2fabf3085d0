// Package clock converts between "HH:MM" strings and minutes since midnight
// and does arithmetic on a wrapping 24-hour clock.
package clock

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/smokyabdulrahman/ramadan-companion/internal/errors"
)

// MinutesPerDay is the modulus of every clock computation.
const MinutesPerDay = 24 * 60

// Sentinel is what CleanRawTime returns for empty input. It is a valid
// time of day, so callers that care must check the raw input with IsSentinel.
const Sentinel = "00:00"

// Time is a time of day in minutes since midnight, always in [0, 1440).
type Time int

// New returns the time for hour and minute, wrapping out-of-range values.
func New(hour, minute int) Time {
	return Time(wrap(hour*60 + minute))
}

// Of returns the wall-clock time of day of t in its own location.
func Of(t time.Time) Time {
	return New(t.Hour(), t.Minute())
}

// Parse cleans a raw upstream time string and converts it to a Time.
func Parse(raw string) (Time, error) {
	m, err := ToMinutes(CleanRawTime(raw))
	if err != nil {
		return 0, err
	}
	return Time(m), nil
}

// MustParse is Parse for literals; it panics on malformed input.
func MustParse(s string) Time {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Hour returns the hour component.
func (t Time) Hour() int { return int(t) / 60 }

// Minute returns the minute component.
func (t Time) Minute() int { return int(t) % 60 }

// Add returns t shifted by the given number of minutes, wrapping past midnight.
func (t Time) Add(minutes int) Time {
	return Time(wrap(int(t) + minutes))
}

// On places t on the calendar day of date, in date's location.
func (t Time) On(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location())
}

func (t Time) String() string {
	return ToTimeString(int(t))
}

// MarshalText encodes t as "HH:MM".
func (t Time) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText accepts anything Parse accepts.
func (t *Time) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ToMinutes converts "HH:MM" to minutes since midnight. The input must be
// two colon-separated integers with hour in [0,23] and minute in [0,59].
func ToMinutes(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, apperrors.Wrap(apperrors.ParseError, "invalid time format: %q", s)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ParseError, "invalid hour in %q", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ParseError, "invalid minute in %q", s)
	}

	if hour < 0 || hour > 23 {
		return 0, apperrors.Wrap(apperrors.ParseError, "hour out of range in %q", s)
	}
	if minute < 0 || minute > 59 {
		return 0, apperrors.Wrap(apperrors.ParseError, "minute out of range in %q", s)
	}

	return hour*60 + minute, nil
}

// ToTimeString formats minutes since midnight as zero-padded "HH:MM",
// taking the value modulo 1440 first.
func ToTimeString(minutes int) string {
	m := wrap(minutes)
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// CleanRawTime normalizes an upstream time string: "5:17:00 (SGT)" becomes
// "05:17". Empty input yields Sentinel.
func CleanRawTime(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Sentinel
	}

	// Strip a timezone annotation like " (SGT)" that upstreams append.
	if idx := strings.Index(s, "("); idx != -1 {
		s = strings.TrimSpace(s[:idx])
	}

	parts := strings.Split(s, ":")
	if len(parts) == 3 {
		parts = parts[:2]
	}
	if len(parts) == 2 && len(parts[0]) == 1 {
		parts[0] = "0" + parts[0]
	}

	return strings.Join(parts, ":")
}

// IsSentinel reports whether raw carries no time at all, so that its cleaned
// form is the Sentinel rather than a real midnight.
func IsSentinel(raw string) bool {
	return strings.TrimSpace(raw) == ""
}

// ShortestDifference returns b-a taken the short way around the clock, in
// (-720, 720]. Use it for every "is this near that" comparison.
func ShortestDifference(a, b Time) int {
	d := int(b) - int(a)
	for d > MinutesPerDay/2 {
		d -= MinutesPerDay
	}
	for d <= -MinutesPerDay/2 {
		d += MinutesPerDay
	}
	return d
}

// Distance is the absolute shortest difference between a and b.
func Distance(a, b Time) int {
	d := ShortestDifference(a, b)
	if d < 0 {
		return -d
	}
	return d
}

func wrap(m int) int {
	m %= MinutesPerDay
	if m < 0 {
		m += MinutesPerDay
	}
	return m
}
