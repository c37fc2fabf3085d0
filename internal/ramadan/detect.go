// Package ramadan decides whether a day falls inside, is approaching, or is
// outside Ramadan, from a Hijri calendar reading and a table of announced
// dates.
package ramadan

import (
	"fmt"
	"time"
)

const (
	// ApproachingThresholdDays is how close the start must be to count as
	// approaching.
	ApproachingThresholdDays = 3

	// MaxMonthDays is the longest a Hijri month can be.
	MaxMonthDays = 30

	// DefaultTotalDays is assumed when no announced window exists.
	DefaultTotalDays = 30
)

// Source records which path produced a detection.
type Source string

const (
	SourceOverride    Source = "override"
	SourceComputed    Source = "computed"
	SourceUnavailable Source = "unavailable"
)

// Reading is what the lunar calendar oracle says about a Gregorian date.
type Reading struct {
	Day   int    `json:"day"`
	Month string `json:"month"`
	Year  int    `json:"year"`
}

func (r Reading) String() string {
	return fmt.Sprintf("%d %s %d AH", r.Day, r.Month, r.Year)
}

// Detection is the answer to "is it Ramadan today".
type Detection struct {
	InWindow       bool      `json:"in_window"`
	Approaching    bool      `json:"approaching"`
	CurrentDay     int       `json:"current_day,omitempty"`
	DaysUntilStart int       `json:"days_until_start,omitempty"`
	HijriYear      int       `json:"hijri_year,omitempty"`
	Start          time.Time `json:"start_date,omitzero"`
	End            time.Time `json:"end_date,omitzero"`
	TotalDays      int       `json:"total_days,omitempty"`
	Source         Source    `json:"source"`
}

// Unavailable is the detection returned when the oracle cannot be read.
func Unavailable() Detection {
	return Detection{Source: SourceUnavailable}
}

// Detect classifies today. An entry in table for the reading's year (or the
// next one) is authoritative; otherwise the reading's month decides.
func Detect(today time.Time, reading Reading, table OverrideTable) Detection {
	today = dateOf(today)
	month := MonthNumber(reading.Month)

	if o, ok := table.Lookup(reading.Year); ok {
		return detectOverride(today, o)
	}

	d := Detection{Source: SourceComputed, HijriYear: reading.Year}
	switch month {
	case Ramadan:
		d.InWindow = true
		d.CurrentDay = reading.Day
		d.TotalDays = DefaultTotalDays
		d.Start = today.AddDate(0, 0, -(reading.Day - 1))
		d.End = d.Start.AddDate(0, 0, d.TotalDays-1)
	case Shaban:
		d.DaysUntilStart = max(1, MaxMonthDays-reading.Day)
		d.Approaching = d.DaysUntilStart <= ApproachingThresholdDays
		d.TotalDays = DefaultTotalDays
		d.Start = today.AddDate(0, 0, d.DaysUntilStart)
		d.End = d.Start.AddDate(0, 0, d.TotalDays-1)
	}
	return d
}

func detectOverride(today time.Time, o Override) Detection {
	d := Detection{
		Source:    SourceOverride,
		HijriYear: o.Year,
		Start:     dateOf(o.Start),
		End:       dateOf(o.End),
		TotalDays: o.Days(),
	}

	switch {
	case today.Before(d.Start):
		d.DaysUntilStart = daysBetween(today, d.Start)
		d.Approaching = d.DaysUntilStart <= ApproachingThresholdDays
	case !today.After(d.End):
		d.InWindow = true
		d.CurrentDay = daysBetween(d.Start, today) + 1
	}
	return d
}

// Window returns the period window for a detection that is inside Ramadan.
func (d Detection) Window() (Window, bool) {
	if !d.InWindow {
		return Window{}, false
	}
	return Window{
		StartDay:  1,
		TotalDays: d.TotalDays,
		Start:     d.Start,
		End:       d.End,
		HijriYear: d.HijriYear,
		Source:    d.Source,
	}, true
}

// Window is the persisted description of the current Ramadan.
type Window struct {
	StartDay  int       `json:"start_day"`
	TotalDays int       `json:"total_days"`
	Start     time.Time `json:"start_date"`
	End       time.Time `json:"end_date"`
	HijriYear int       `json:"hijri_year"`
	Source    Source    `json:"source"`
}

// Validate checks the day count and, for computed windows, that the end
// date follows from the start.
func (w Window) Validate() error {
	if w.TotalDays < 1 || w.TotalDays > MaxMonthDays {
		return fmt.Errorf("total days %d out of range", w.TotalDays)
	}
	if w.StartDay < 1 || w.StartDay > w.TotalDays {
		return fmt.Errorf("start day %d out of range", w.StartDay)
	}
	if w.Source != SourceOverride {
		if want := w.Start.AddDate(0, 0, w.TotalDays-1); !dateOf(want).Equal(dateOf(w.End)) {
			return fmt.Errorf("end date %s does not match start %s + %d days",
				w.End.Format(dateLayout), w.Start.Format(dateLayout), w.TotalDays-1)
		}
	}
	return nil
}

// DayOf returns the ordinal day of date within the window, clamped to
// [0, TotalDays]. 0 means before the start.
func (w Window) DayOf(date time.Time) int {
	day := daysBetween(w.Start, date) + 1
	if day < 0 {
		return 0
	}
	return min(day, w.TotalDays)
}

// Contains reports whether date is inside the window.
func (w Window) Contains(date time.Time) bool {
	d := dateOf(date)
	return !d.Before(dateOf(w.Start)) && !d.After(dateOf(w.End))
}
