package prayer

import (
	"github.com/smokyabdulrahman/ramadan-companion/internal/clock"
	"github.com/smokyabdulrahman/ramadan-companion/internal/logger"
)

// Period is one of the named prayer periods of a day.
type Period int

const (
	// PeriodNone covers Sunrise until Dhuhr. It is a real gap, not an error.
	PeriodNone Period = iota
	PeriodFajr
	PeriodDhuhr
	PeriodAsr
	PeriodMaghrib
	PeriodIsha
)

func (p Period) String() string {
	switch p {
	case PeriodFajr:
		return Fajr
	case PeriodDhuhr:
		return Dhuhr
	case PeriodAsr:
		return Asr
	case PeriodMaghrib:
		return Maghrib
	case PeriodIsha:
		return Isha
	default:
		return "none"
	}
}

// Classification is the period "now" falls in. PreviousDay is set for the
// hours after midnight and before Fajr, which belong to yesterday's Isha.
type Classification struct {
	Period      Period `json:"period"`
	PreviousDay bool   `json:"previous_day,omitempty"`
}

func (c Classification) String() string {
	if c.PreviousDay {
		return c.Period.String() + " (previous day)"
	}
	return c.Period.String()
}

// Active reports whether now is inside any named period.
func (c Classification) Active() bool {
	return c.Period != PeriodNone
}

// Classify places now into exactly one period of the boundary set. Ranges are
// half-open [start, end) and rules apply in order, first match wins. An
// out-of-order set is logged and classified anyway.
func Classify(now clock.Time, b BoundarySet) Classification {
	if err := b.Validate(); err != nil {
		logger.Warn("classifying against invalid boundary set", "error", err)
	}

	switch {
	case b.Fajr <= now && now < b.Sunrise:
		return Classification{Period: PeriodFajr}
	case b.Dhuhr <= now && now < b.Asr:
		return Classification{Period: PeriodDhuhr}
	case b.Asr <= now && now < b.Maghrib:
		return Classification{Period: PeriodAsr}
	case b.Maghrib <= now && now < b.Isha:
		return Classification{Period: PeriodMaghrib}
	case now >= b.Isha:
		return Classification{Period: PeriodIsha}
	case now < b.Fajr:
		return Classification{Period: PeriodIsha, PreviousDay: true}
	default:
		return Classification{Period: PeriodNone}
	}
}
