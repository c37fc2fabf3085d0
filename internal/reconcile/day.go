package reconcile

import (
	"github.com/smokyabdulrahman/ramadan-companion/internal/clock"
	"github.com/smokyabdulrahman/ramadan-companion/internal/prayer"
)

// SingaporeDefaults is the hardcoded regional timetable used when neither
// source can be read.
var SingaporeDefaults = map[string]clock.Time{
	prayer.Imsak:   clock.New(5, 30),
	prayer.Fajr:    clock.New(5, 40),
	prayer.Sunrise: clock.New(7, 2),
	prayer.Dhuhr:   clock.New(13, 7),
	prayer.Asr:     clock.New(16, 29),
	prayer.Maghrib: clock.New(19, 10),
	prayer.Isha:    clock.New(20, 23),
}

// Raw is one day of unparsed times from a single source, keyed by event
// name. A missing key or empty string means the source had no value.
type Raw map[string]string

// Day is a fully reconciled day.
type Day struct {
	Imsak  Result   `json:"imsak"`
	Events []Result `json:"events"`
}

// Day reconciles Imsak and the six boundaries of one day. Boundaries are
// published for the same event by both sources, so they use no offset.
// Nothing is cached; each call works only from its inputs.
func (r *Reconciler) Day(calculated, authority Raw) Day {
	d := Day{
		Imsak:  r.Imsak(calculated[prayer.Imsak], authority[prayer.Fajr]),
		Events: make([]Result, 0, len(prayer.BoundaryNames)),
	}
	for _, name := range prayer.BoundaryNames {
		d.Events = append(d.Events, r.Reconcile(name, calculated[name], authority[name], 0))
	}
	return d
}

// Get returns the reconciled result for name, including Imsak.
func (d Day) Get(name string) (Result, bool) {
	if name == prayer.Imsak {
		return d.Imsak, true
	}
	for _, e := range d.Events {
		if e.Event == name {
			return e, true
		}
	}
	return Result{}, false
}

// Boundaries returns the reconciled boundary set.
func (d Day) Boundaries() prayer.BoundarySet {
	var b prayer.BoundarySet
	for _, e := range d.Events {
		switch e.Event {
		case prayer.Fajr:
			b.Fajr = e.Value
		case prayer.Sunrise:
			b.Sunrise = e.Value
		case prayer.Dhuhr:
			b.Dhuhr = e.Value
		case prayer.Asr:
			b.Asr = e.Value
		case prayer.Maghrib:
			b.Maghrib = e.Value
		case prayer.Isha:
			b.Isha = e.Value
		}
	}
	return b
}

// LowConfidence reports whether any value fell back to the regional default.
func (d Day) LowConfidence() bool {
	if d.Imsak.LowConfidence {
		return true
	}
	for _, e := range d.Events {
		if e.LowConfidence {
			return true
		}
	}
	return false
}

// DefaultDay returns a day made only of regional defaults.
func (r *Reconciler) DefaultDay() Day {
	return r.Day(nil, nil)
}
