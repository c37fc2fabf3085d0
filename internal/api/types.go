package api

import (
	"strconv"

	apperrors "github.com/smokyabdulrahman/ramadan-companion/internal/errors"
	"github.com/smokyabdulrahman/ramadan-companion/internal/ramadan"
)

// Response represents the top-level Al Adhan API response.
type Response struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Data   Data   `json:"data"`
}

// Data holds the prayer timings, date info, and metadata.
type Data struct {
	Timings Timings  `json:"timings"`
	Date    DateInfo `json:"date"`
	Meta    Meta     `json:"meta"`
}

// Timings contains all prayer and event times as HH:MM strings.
// The API may include a timezone suffix like " (SGT)", stripped by clock.CleanRawTime.
type Timings struct {
	Fajr       string `json:"Fajr"`
	Sunrise    string `json:"Sunrise"`
	Dhuhr      string `json:"Dhuhr"`
	Asr        string `json:"Asr"`
	Sunset     string `json:"Sunset"`
	Maghrib    string `json:"Maghrib"`
	Isha       string `json:"Isha"`
	Imsak      string `json:"Imsak"`
	Midnight   string `json:"Midnight"`
	Firstthird string `json:"Firstthird"`
	Lastthird  string `json:"Lastthird"`
}

// Raw returns the events the reconciler uses, keyed by name.
func (t Timings) Raw() map[string]string {
	return map[string]string{
		"Imsak":   t.Imsak,
		"Fajr":    t.Fajr,
		"Sunrise": t.Sunrise,
		"Dhuhr":   t.Dhuhr,
		"Asr":     t.Asr,
		"Maghrib": t.Maghrib,
		"Isha":    t.Isha,
	}
}

// DateInfo contains date representations.
type DateInfo struct {
	Readable  string        `json:"readable"`
	Timestamp string        `json:"timestamp"`
	Hijri     HijriDate     `json:"hijri"`
	Gregorian GregorianDate `json:"gregorian"`
}

// HijriDate represents the Hijri (Islamic) date from the API response.
type HijriDate struct {
	Date        string           `json:"date"` // e.g. "01-09-1447"
	Day         string           `json:"day"`
	Month       HijriMonth       `json:"month"`
	Year        string           `json:"year"`
	Designation HijriDesignation `json:"designation"`
}

// HijriMonth represents the month in the Hijri calendar.
type HijriMonth struct {
	Number int    `json:"number"`
	En     string `json:"en"` // transliterated name, e.g. "Ramaḍān"
	Ar     string `json:"ar"` // Arabic name
}

// HijriDesignation contains the calendar designation labels.
type HijriDesignation struct {
	Abbreviated string `json:"abbreviated"` // "AH"
	Expanded    string `json:"expanded"`    // "Anno Hegirae"
}

// Format returns the Hijri date as "DD MonthName YYYY AH".
func (h HijriDate) Format() string {
	if h.Day == "" || h.Month.En == "" || h.Year == "" {
		return ""
	}
	abbr := h.Designation.Abbreviated
	if abbr == "" {
		abbr = "AH"
	}
	return h.Day + " " + h.Month.En + " " + h.Year + " " + abbr
}

// Reading converts the date to the form the Ramadan detector consumes.
// The month is kept as its name; the detector resolves spellings itself.
func (h HijriDate) Reading() (ramadan.Reading, error) {
	day, err := strconv.Atoi(h.Day)
	if err != nil {
		return ramadan.Reading{}, apperrors.Wrap(apperrors.ParseError, "invalid hijri day %q", h.Day)
	}
	year, err := strconv.Atoi(h.Year)
	if err != nil {
		return ramadan.Reading{}, apperrors.Wrap(apperrors.ParseError, "invalid hijri year %q", h.Year)
	}
	return ramadan.Reading{Day: day, Month: h.Month.En, Year: year}, nil
}

// GregorianDate represents the Gregorian date from the API response.
type GregorianDate struct {
	Date    string         `json:"date"` // e.g. "19-02-2026"
	Day     string         `json:"day"`
	Weekday GregorianDay   `json:"weekday"`
	Month   GregorianMonth `json:"month"`
	Year    string         `json:"year"`
}

// GregorianDay contains the weekday name.
type GregorianDay struct {
	En string `json:"en"` // e.g. "Thursday"
}

// GregorianMonth contains the month details.
type GregorianMonth struct {
	Number int    `json:"number"`
	En     string `json:"en"` // e.g. "February"
}

// Meta contains request metadata returned by the API.
type Meta struct {
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	Timezone  string     `json:"timezone"`
	Method    MethodInfo `json:"method"`
	School    string     `json:"school"`
}

// MethodInfo identifies the calculation method used.
type MethodInfo struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// HijriResponse is the Al Adhan gToH (Gregorian to Hijri) response.
type HijriResponse struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Data   struct {
		Hijri     HijriDate     `json:"hijri"`
		Gregorian GregorianDate `json:"gregorian"`
	} `json:"data"`
}
