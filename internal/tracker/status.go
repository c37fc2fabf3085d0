package tracker

import (
	"strings"

	apperrors "github.com/smokyabdulrahman/ramadan-companion/internal/errors"
)

// Status is a closed set of outcomes for one tracked activity. Exactly one
// value per set is the success tag that extends a streak.
type Status interface {
	comparable
	Succeeded() bool
	Valid() bool
	String() string
}

// FastStatus is the outcome of a day's fast.
type FastStatus string

const (
	FastCompleted FastStatus = "completed"
	FastMissed    FastStatus = "missed"
	FastExcused   FastStatus = "excused"
	FastNotLogged FastStatus = "not-logged"
)

// FastStatuses lists every FastStatus.
var FastStatuses = []FastStatus{FastCompleted, FastMissed, FastExcused, FastNotLogged}

func (s FastStatus) Succeeded() bool {
	switch s {
	case FastCompleted:
		return true
	case FastMissed, FastExcused, FastNotLogged:
		return false
	}
	return false
}

func (s FastStatus) Valid() bool {
	switch s {
	case FastCompleted, FastMissed, FastExcused, FastNotLogged:
		return true
	}
	return false
}

func (s FastStatus) String() string { return string(s) }

// TaraweehStatus is whether the night prayer was attended. The qualifier
// holds where it was prayed.
type TaraweehStatus string

const (
	TaraweehPrayed    TaraweehStatus = "prayed"
	TaraweehMissed    TaraweehStatus = "missed"
	TaraweehNotLogged TaraweehStatus = "not-logged"
)

// TaraweehStatuses lists every TaraweehStatus.
var TaraweehStatuses = []TaraweehStatus{TaraweehPrayed, TaraweehMissed, TaraweehNotLogged}

func (s TaraweehStatus) Succeeded() bool {
	switch s {
	case TaraweehPrayed:
		return true
	case TaraweehMissed, TaraweehNotLogged:
		return false
	}
	return false
}

func (s TaraweehStatus) Valid() bool {
	switch s {
	case TaraweehPrayed, TaraweehMissed, TaraweehNotLogged:
		return true
	}
	return false
}

func (s TaraweehStatus) String() string { return string(s) }

// QuranStatus is the day's reading progress. The qualifier holds the
// number of pages read.
type QuranStatus string

const (
	QuranCompleted QuranStatus = "completed"
	QuranPartial   QuranStatus = "partial"
	QuranMissed    QuranStatus = "missed"
	QuranNotLogged QuranStatus = "not-logged"
)

// QuranStatuses lists every QuranStatus.
var QuranStatuses = []QuranStatus{QuranCompleted, QuranPartial, QuranMissed, QuranNotLogged}

func (s QuranStatus) Succeeded() bool {
	switch s {
	case QuranCompleted:
		return true
	case QuranPartial, QuranMissed, QuranNotLogged:
		return false
	}
	return false
}

func (s QuranStatus) Valid() bool {
	switch s {
	case QuranCompleted, QuranPartial, QuranMissed, QuranNotLogged:
		return true
	}
	return false
}

func (s QuranStatus) String() string { return string(s) }

// ParseStatus matches raw case-insensitively against values.
func ParseStatus[S Status](raw string, values []S) (S, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	for _, v := range values {
		if v.String() == raw {
			return v, nil
		}
	}
	var zero S
	names := make([]string, len(values))
	for i, v := range values {
		names[i] = v.String()
	}
	return zero, apperrors.Wrap(apperrors.InvalidInput, "unknown status %q (valid: %s)", raw, strings.Join(names, ", "))
}
