package prayer

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"
)

// Format constants for display modes.
const (
	FormatTimeRemaining      = "time-remaining"
	FormatNextTime           = "next-time"
	FormatNameAndTime        = "name-and-time"
	FormatNameAndRemaining   = "name-and-remaining"
	FormatShortNameAndTime   = "short-name-and-time"
	FormatShortNameAndRemain = "short-name-and-remaining"
	FormatFull               = "full"
)

// Event is an upcoming named moment, such as the next prayer or iftar.
type Event struct {
	Name string
	At   time.Time
}

// FormatData is the data passed to custom Go templates.
type FormatData struct {
	Name      string // Full name, e.g. "Maghrib"
	ShortName string // Abbreviated name, e.g. "M"
	Time      string // Formatted time, e.g. "19:10" or "7:10 PM"
	Remaining string // Time remaining, e.g. "2h15m0s"
	Hours     int    // Whole hours remaining
	Minutes   int    // Remaining minutes after hours
	Seconds   int    // Remaining seconds after minutes
}

// FormatOutput formats an event for display according to the chosen mode.
// timeFormat should be "15:04" for 24h or "3:04 PM" for 12h.
//
// If mode contains "{{", it is treated as a custom Go template string.
// Available template fields: .Name, .ShortName, .Time, .Remaining, .Hours, .Minutes, .Seconds
//
// Example: "{{.Name}} in {{.Remaining}}" -> "Maghrib in 2h15m0s"
func FormatOutput(e Event, now time.Time, mode string, timeFormat string) string {
	d := e.At.Sub(now)
	if d < 0 {
		d = 0
	}
	remaining := FormatRemaining(d)
	timeStr := e.At.Format(timeFormat)
	short := ShortNames[e.Name]
	if short == "" {
		short = e.Name
	}

	if strings.Contains(mode, "{{") {
		return formatCustom(mode, FormatData{
			Name:      e.Name,
			ShortName: short,
			Time:      timeStr,
			Remaining: remaining,
			Hours:     int(d.Hours()),
			Minutes:   int(d.Minutes()) % 60,
			Seconds:   int(d.Seconds()) % 60,
		})
	}

	switch mode {
	case FormatTimeRemaining:
		return remaining
	case FormatNextTime:
		return timeStr
	case FormatNameAndTime:
		return fmt.Sprintf("%s %s", e.Name, timeStr)
	case FormatNameAndRemaining:
		return fmt.Sprintf("%s %s", e.Name, remaining)
	case FormatShortNameAndTime:
		return fmt.Sprintf("%s %s", short, timeStr)
	case FormatShortNameAndRemain:
		return fmt.Sprintf("%s %s", short, remaining)
	case FormatFull:
		return fmt.Sprintf("%s %s (%s)", e.Name, timeStr, remaining)
	default:
		return fmt.Sprintf("%s %s", e.Name, timeStr)
	}
}

// formatCustom executes a user-provided Go template string against the FormatData.
func formatCustom(tmpl string, data FormatData) string {
	t, err := template.New("custom").Parse(tmpl)
	if err != nil {
		return fmt.Sprintf("template-err: %v", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return fmt.Sprintf("template-err: %v", err)
	}

	return buf.String()
}
