package reconcile

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/smokyabdulrahman/ramadan-companion/internal/clock"
	"github.com/smokyabdulrahman/ramadan-companion/internal/logger"
	"github.com/smokyabdulrahman/ramadan-companion/internal/prayer"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logger.Logger = logger.New(&buf, log.DebugLevel)
	t.Cleanup(func() { logger.Logger = nil })
	return &buf
}

func TestReconcile_AuthorityOverride(t *testing.T) {
	buf := captureLogs(t)

	got := New().Imsak("05:25", "05:30")

	if got.Value != clock.MustParse("05:20") {
		t.Errorf("Value = %s, want 05:20", got.Value)
	}
	if got.Source != SourceAuthority {
		t.Errorf("Source = %s, want %s", got.Source, SourceAuthority)
	}
	if got.Diff != 5 || !got.Mismatch {
		t.Errorf("Diff = %d, Mismatch = %v; want 5, true", got.Diff, got.Mismatch)
	}
	if got.OffsetMinutes != ImsakOffsetMinutes || got.ToleranceMinutes != ToleranceMinutes {
		t.Errorf("policy not echoed: %+v", got)
	}

	out := buf.String()
	for _, want := range []string{"VALIDATION_MISMATCH", "diff=5", "calculated=05:25", "authority=05:30"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q: %s", want, out)
		}
	}
}

func TestReconcile_WithinToleranceKeepsCalculated(t *testing.T) {
	r := New()

	tests := []struct {
		calc string
		auth string
	}{
		{"05:20", "05:30"}, // exact agreement
		{"05:22", "05:30"}, // diff 2, at tolerance
		{"05:18", "05:30"}, // diff 2 the other way
	}

	for _, tt := range tests {
		got := r.Imsak(tt.calc, tt.auth)
		if got.Value != clock.MustParse(tt.calc) || got.Source != SourceCalculated {
			t.Errorf("Imsak(%s, %s) = %s from %s, want calculated value unchanged",
				tt.calc, tt.auth, got.Value, got.Source)
		}
		if got.Mismatch {
			t.Errorf("Imsak(%s, %s) flagged as mismatch", tt.calc, tt.auth)
		}
	}
}

func TestReconcile_Idempotence(t *testing.T) {
	r := New()
	for m := 0; m < clock.MinutesPerDay; m += 7 {
		auth := clock.Time(m)
		for delta := -ToleranceMinutes; delta <= ToleranceMinutes; delta++ {
			calc := auth.Add(-ImsakOffsetMinutes + delta)
			got := r.Imsak(calc.String(), auth.String())
			if got.Value != calc {
				t.Fatalf("calc=%s auth=%s: got %s, want calculated value", calc, auth, got.Value)
			}
		}
	}
}

func TestReconcile_WrapsAroundMidnight(t *testing.T) {
	got := New().Reconcile("Test", "23:59", "00:10", 10)
	// derived = 00:00; the short way round they are 1 minute apart.
	if got.Diff != 1 || got.Source != SourceCalculated {
		t.Errorf("got diff=%d source=%s, want 1 calculated", got.Diff, got.Source)
	}
}

func TestReconcile_SingleSource(t *testing.T) {
	r := New()

	calcOnly := r.Imsak("05:25", "")
	if calcOnly.Value != clock.MustParse("05:25") || calcOnly.Source != SourceCalculated || calcOnly.Diff != -1 {
		t.Errorf("calculated only = %+v", calcOnly)
	}

	authOnly := r.Imsak("", "05:30 (SGT)")
	if authOnly.Value != clock.MustParse("05:20") || authOnly.Source != SourceAuthority {
		t.Errorf("authority only = %+v, want derived 05:20", authOnly)
	}
	if authOnly.LowConfidence {
		t.Error("single source should not be low confidence")
	}
}

func TestReconcile_NoSourceFallsBackToDefault(t *testing.T) {
	buf := captureLogs(t)

	got := New().Reconcile(prayer.Maghrib, "", "  ", 0)
	if got.Value != SingaporeDefaults[prayer.Maghrib] {
		t.Errorf("Value = %s, want regional default", got.Value)
	}
	if got.Source != SourceDefault || !got.LowConfidence {
		t.Errorf("got source=%s low=%v", got.Source, got.LowConfidence)
	}
	if !strings.Contains(buf.String(), "regional default") {
		t.Errorf("expected warning, got %q", buf.String())
	}
}

func TestReconcile_MalformedCountsAsUnavailable(t *testing.T) {
	got := New().Imsak("25:99", "05:30")
	if got.Source != SourceAuthority || got.Value != clock.MustParse("05:20") {
		t.Errorf("got %+v, want authority-derived value", got)
	}
}

func TestReconcile_CustomDefaults(t *testing.T) {
	r := &Reconciler{
		Tolerance: ToleranceMinutes,
		Defaults:  map[string]clock.Time{prayer.Fajr: clock.New(4, 45)},
	}
	if got := r.Reconcile(prayer.Fajr, "", "", 0); got.Value != clock.New(4, 45) {
		t.Errorf("custom default = %s", got.Value)
	}
	// Events missing from a custom table use the built-in one.
	if got := r.Reconcile(prayer.Isha, "", "", 0); got.Value != SingaporeDefaults[prayer.Isha] {
		t.Errorf("fallback default = %s", got.Value)
	}
}
