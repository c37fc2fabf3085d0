package ramadan

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

const dateLayout = "2006-01-02"

// Override is an officially announced Ramadan for one Hijri year. Start and
// End are inclusive calendar dates.
type Override struct {
	Year  int       `json:"year"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Days returns the number of days in the window.
func (o Override) Days() int {
	return daysBetween(o.Start, o.End) + 1
}

// OverrideTable maps Hijri year to its announced window.
type OverrideTable map[int]Override

// Overrides is the built-in table. It is maintained by hand each year from
// the Singapore authority's announcements.
var Overrides = OverrideTable{
	1446: {Year: 1446, Start: date(2025, time.March, 2), End: date(2025, time.March, 30)},
	1447: {Year: 1447, Start: date(2026, time.February, 19), End: date(2026, time.March, 20)},
	1448: {Year: 1448, Start: date(2027, time.February, 8), End: date(2027, time.March, 9)},
}

// Lookup returns the entry for year, or failing that for year+1, which
// covers a table populated ahead of the computed reading.
func (t OverrideTable) Lookup(year int) (Override, bool) {
	if o, ok := t[year]; ok {
		return o, true
	}
	o, ok := t[year+1]
	return o, ok
}

// Merge returns a new table with other's entries taking precedence.
func (t OverrideTable) Merge(other OverrideTable) OverrideTable {
	merged := make(OverrideTable, len(t)+len(other))
	for y, o := range t {
		merged[y] = o
	}
	for y, o := range other {
		merged[y] = o
	}
	return merged
}

type overrideFile map[string]struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// LoadOverrides reads a JSON file of the form
//
//	{"1447": {"start": "2026-02-19", "end": "2026-03-20"}}
//
// and merges it over the built-in table. An empty path returns the
// built-in table.
func LoadOverrides(path string) (OverrideTable, error) {
	if path == "" {
		return Overrides, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read overrides: %w", err)
	}

	var raw overrideFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse overrides: %w", err)
	}

	table := make(OverrideTable, len(raw))
	for key, entry := range raw {
		year, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("invalid hijri year %q in overrides", key)
		}
		start, err := time.Parse(dateLayout, entry.Start)
		if err != nil {
			return nil, fmt.Errorf("invalid start date for %d: %w", year, err)
		}
		end, err := time.Parse(dateLayout, entry.End)
		if err != nil {
			return nil, fmt.Errorf("invalid end date for %d: %w", year, err)
		}
		o := Override{Year: year, Start: start, End: end}
		if days := o.Days(); days < 1 || days > MaxMonthDays {
			return nil, fmt.Errorf("override for %d spans %d days", year, days)
		}
		table[year] = o
	}

	return Overrides.Merge(table), nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// dateOf drops the clock and location of t, keeping its calendar date.
func dateOf(t time.Time) time.Time {
	return date(t.Year(), t.Month(), t.Day())
}

// daysBetween counts calendar days from a to b.
func daysBetween(a, b time.Time) int {
	return int(dateOf(b).Sub(dateOf(a)).Hours() / 24)
}
