package prayer

import (
	"fmt"

	"github.com/smokyabdulrahman/ramadan-companion/internal/clock"
)

// Prayer is a named boundary time within a day.
type Prayer struct {
	Name string
	Time clock.Time
}

// Boundary names, in chronological order within a day.
const (
	Imsak   = "Imsak"
	Fajr    = "Fajr"
	Sunrise = "Sunrise"
	Dhuhr   = "Dhuhr"
	Asr     = "Asr"
	Maghrib = "Maghrib"
	Isha    = "Isha"
)

// BoundaryNames lists the six boundaries of a BoundarySet in order.
var BoundaryNames = []string{Fajr, Sunrise, Dhuhr, Asr, Maghrib, Isha}

// ShortNames maps full names to abbreviations for compact status lines.
var ShortNames = map[string]string{
	Imsak:   "Im",
	Fajr:    "F",
	Sunrise: "S",
	Dhuhr:   "D",
	Asr:     "A",
	Maghrib: "M",
	Isha:    "I",
}

// BoundarySet holds the six boundary times that divide one calendar day into
// prayer periods. A valid set is strictly increasing; the stretch after Isha
// and before the next Fajr belongs to the previous day's Isha.
type BoundarySet struct {
	Fajr    clock.Time `json:"fajr"`
	Sunrise clock.Time `json:"sunrise"`
	Dhuhr   clock.Time `json:"dhuhr"`
	Asr     clock.Time `json:"asr"`
	Maghrib clock.Time `json:"maghrib"`
	Isha    clock.Time `json:"isha"`
}

// Prayers returns the set as an ordered slice.
func (b BoundarySet) Prayers() []Prayer {
	return []Prayer{
		{Name: Fajr, Time: b.Fajr},
		{Name: Sunrise, Time: b.Sunrise},
		{Name: Dhuhr, Time: b.Dhuhr},
		{Name: Asr, Time: b.Asr},
		{Name: Maghrib, Time: b.Maghrib},
		{Name: Isha, Time: b.Isha},
	}
}

// Get returns the boundary with the given name.
func (b BoundarySet) Get(name string) (clock.Time, bool) {
	for _, p := range b.Prayers() {
		if p.Name == name {
			return p.Time, true
		}
	}
	return 0, false
}

// Validate reports the first pair of boundaries that is out of order.
func (b BoundarySet) Validate() error {
	prayers := b.Prayers()
	for i := 1; i < len(prayers); i++ {
		if prayers[i].Time <= prayers[i-1].Time {
			return fmt.Errorf("boundary %s (%s) is not after %s (%s)",
				prayers[i].Name, prayers[i].Time, prayers[i-1].Name, prayers[i-1].Time)
		}
	}
	return nil
}

// NextPrayer finds the first prayer strictly after now.
// If all prayers for today have passed, it returns nil (caller should use tomorrow's Fajr).
func NextPrayer(prayers []Prayer, now clock.Time) *Prayer {
	for i := range prayers {
		if prayers[i].Time > now {
			return &prayers[i]
		}
	}
	return nil
}
