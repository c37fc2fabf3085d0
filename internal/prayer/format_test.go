package prayer

import (
	"strings"
	"testing"
	"time"
)

// formatTestEvent returns a fixed event and "now" for format tests.
func formatTestEvent() (Event, time.Time) {
	at := time.Date(2026, 2, 28, 19, 10, 0, 0, time.UTC)
	now := time.Date(2026, 2, 28, 16, 55, 0, 0, time.UTC)
	return Event{Name: Maghrib, At: at}, now
}

func TestFormatOutput_AllBuiltinModes(t *testing.T) {
	e, now := formatTestEvent()

	tests := []struct {
		mode string
		want string
	}{
		{FormatTimeRemaining, "2h15m0s"},
		{FormatNextTime, "19:10"},
		{FormatNameAndTime, "Maghrib 19:10"},
		{FormatNameAndRemaining, "Maghrib 2h15m0s"},
		{FormatShortNameAndTime, "M 19:10"},
		{FormatShortNameAndRemain, "M 2h15m0s"},
		{FormatFull, "Maghrib 19:10 (2h15m0s)"},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			got := FormatOutput(e, now, tt.mode, "15:04")
			if got != tt.want {
				t.Errorf("FormatOutput(%q) = %q, want %q", tt.mode, got, tt.want)
			}
		})
	}
}

func TestFormatOutput_12HourFormat(t *testing.T) {
	e, now := formatTestEvent()

	got := FormatOutput(e, now, FormatNameAndTime, "3:04 PM")
	if got != "Maghrib 7:10 PM" {
		t.Errorf("12h format = %q, want %q", got, "Maghrib 7:10 PM")
	}
}

func TestFormatOutput_UnknownModeDefaultsToNameAndTime(t *testing.T) {
	e, now := formatTestEvent()

	if got := FormatOutput(e, now, "nonexistent", "15:04"); got != "Maghrib 19:10" {
		t.Errorf("unknown mode = %q", got)
	}
}

func TestFormatOutput_CustomTemplate(t *testing.T) {
	e, now := formatTestEvent()
	now = now.Add(-30 * time.Second)

	got := FormatOutput(e, now, "{{.ShortName}} {{.Hours}}:{{.Minutes}}:{{.Seconds}}", "15:04")
	if got != "M 2:15:30" {
		t.Errorf("custom template = %q, want %q", got, "M 2:15:30")
	}
}

func TestFormatOutput_BadTemplate(t *testing.T) {
	e, now := formatTestEvent()

	got := FormatOutput(e, now, "{{.Nope", "15:04")
	if !strings.HasPrefix(got, "template-err:") {
		t.Errorf("bad template = %q, want template-err prefix", got)
	}
}

func TestFormatOutput_PastEventShowsZero(t *testing.T) {
	e, now := formatTestEvent()

	got := FormatOutput(e, now.Add(4*time.Hour), FormatTimeRemaining, "15:04")
	if got != "0s" {
		t.Errorf("past event remaining = %q, want 0s", got)
	}
}

func TestFormatOutput_UnknownShortNameFallsBack(t *testing.T) {
	_, now := formatTestEvent()
	e := Event{Name: "Iftar", At: now.Add(time.Hour)}

	if got := FormatOutput(e, now, FormatShortNameAndTime, "15:04"); got != "Iftar 17:55" {
		t.Errorf("got %q", got)
	}
}
