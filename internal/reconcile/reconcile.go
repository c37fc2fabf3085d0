// Package reconcile picks one trusted time for an event out of an
// astronomically calculated value and an officially published one.
package reconcile

import (
	"github.com/smokyabdulrahman/ramadan-companion/internal/clock"
	apperrors "github.com/smokyabdulrahman/ramadan-companion/internal/errors"
	"github.com/smokyabdulrahman/ramadan-companion/internal/logger"
	"github.com/smokyabdulrahman/ramadan-companion/internal/prayer"
)

const (
	// ImsakOffsetMinutes is how far Imsak sits before the authority's Fajr.
	ImsakOffsetMinutes = 10

	// ToleranceMinutes is the largest disagreement that still trusts the
	// calculated value.
	ToleranceMinutes = 2
)

// Source says where a reconciled value came from.
type Source string

const (
	SourceCalculated Source = "calculated"
	SourceAuthority  Source = "authority"
	SourceDefault    Source = "default"
)

// Result is one reconciled event time. It is derived on every query and
// never stored.
type Result struct {
	Event  string     `json:"event"`
	Value  clock.Time `json:"value"`
	Source Source     `json:"source"`

	// Raw inputs after cleaning; empty when the source had nothing.
	Calculated string `json:"calculated,omitempty"`
	Authority  string `json:"authority,omitempty"`

	// Diff is |calculated - authority derived| in minutes, or -1 when only
	// one source was available.
	Diff             int  `json:"diff"`
	OffsetMinutes    int  `json:"offset_minutes"`
	ToleranceMinutes int  `json:"tolerance_minutes"`
	Mismatch         bool `json:"mismatch,omitempty"`
	LowConfidence    bool `json:"low_confidence,omitempty"`
}

// Reconciler holds the policy constants and the regional fallback table.
type Reconciler struct {
	Tolerance int
	Defaults  map[string]clock.Time
}

// New returns a reconciler with the standard tolerance and Singapore
// defaults.
func New() *Reconciler {
	return &Reconciler{
		Tolerance: ToleranceMinutes,
		Defaults:  SingaporeDefaults,
	}
}

// Reconcile resolves event from the calculated value and the authority
// value shifted back by offset minutes. Empty or malformed inputs count as
// unavailable. With neither source the regional default is returned and
// flagged low-confidence.
func (r *Reconciler) Reconcile(event, calculated, authority string, offset int) Result {
	res := Result{
		Event:            event,
		Diff:             -1,
		OffsetMinutes:    offset,
		ToleranceMinutes: r.Tolerance,
	}

	calc, calcOK := parse(event, "calculated", calculated)
	auth, authOK := parse(event, "authority", authority)
	if calcOK {
		res.Calculated = calc.String()
	}
	if authOK {
		res.Authority = auth.String()
	}
	derived := auth.Add(-offset)

	switch {
	case calcOK && authOK:
		res.Diff = clock.Distance(calc, derived)
		if res.Diff > r.Tolerance {
			res.Value, res.Source, res.Mismatch = derived, SourceAuthority, true
			logger.Warn(apperrors.ValidationMismatch.Message,
				"code", apperrors.ValidationMismatch.Code,
				"event", event,
				"calculated", calc,
				"authority", auth,
				"derived", derived,
				"diff", res.Diff,
				"tolerance", r.Tolerance,
			)
		} else {
			res.Value, res.Source = calc, SourceCalculated
		}
	case calcOK:
		res.Value, res.Source = calc, SourceCalculated
	case authOK:
		res.Value, res.Source = derived, SourceAuthority
	default:
		res.Value, res.Source, res.LowConfidence = r.fallback(event), SourceDefault, true
		logger.Warn("no time source available, using regional default", "event", event, "value", res.Value)
	}

	return res
}

// Imsak derives Imsak from the authority's Fajr and reconciles it with the
// calculated Imsak.
func (r *Reconciler) Imsak(calculatedImsak, authorityFajr string) Result {
	return r.Reconcile(prayer.Imsak, calculatedImsak, authorityFajr, ImsakOffsetMinutes)
}

func (r *Reconciler) fallback(event string) clock.Time {
	if t, ok := r.Defaults[event]; ok {
		return t
	}
	if t, ok := SingaporeDefaults[event]; ok {
		return t
	}
	return 0
}

func parse(event, source, raw string) (clock.Time, bool) {
	if clock.IsSentinel(raw) {
		return 0, false
	}
	t, err := clock.Parse(raw)
	if err != nil {
		logger.Warn("ignoring unparseable time", "event", event, "source", source, "raw", raw, "error", err)
		return 0, false
	}
	return t, true
}
