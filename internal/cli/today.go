package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/smokyabdulrahman/ramadan-companion/internal/clock"
	"github.com/smokyabdulrahman/ramadan-companion/internal/companion"
	"github.com/smokyabdulrahman/ramadan-companion/internal/display"
	"github.com/smokyabdulrahman/ramadan-companion/internal/logger"
	"github.com/smokyabdulrahman/ramadan-companion/internal/prayer"
	"github.com/smokyabdulrahman/ramadan-companion/internal/ramadan"
	"github.com/smokyabdulrahman/ramadan-companion/internal/reconcile"
	"github.com/spf13/cobra"
)

func newTodayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show today's reconciled schedule, period and countdown",
		Long:  "Display today's Imsak and prayer times with their sources, the current\nprayer period, the Ramadan day and the sahur/iftar countdown.",
		Args:  cobra.NoArgs,
		RunE:  runToday,
	}
}

// todayView is everything the today screen shows.
type todayView struct {
	Date      string                   `json:"date"`
	Location  string                   `json:"location,omitempty"`
	Timezone  string                   `json:"timezone"`
	Source    companion.ScheduleSource `json:"schedule_source"`
	Imsak     reconcile.Result         `json:"imsak"`
	Events    []reconcile.Result       `json:"events"`
	Period    string                   `json:"period"`
	Countdown prayer.Countdown         `json:"countdown"`
	Ramadan   ramadan.Detection        `json:"ramadan"`
	Reset     bool                     `json:"reset,omitempty"`
	// LowConfidence is set when any time came from regional defaults.
	LowConfidence bool `json:"low_confidence"`

	period prayer.Classification
	now    time.Time
}

func runToday(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	now := a.now()

	det, reset, err := a.service.SyncWindow(ctx, now)
	if err != nil {
		logger.Warn("failed to store ramadan window", "err", err)
	}

	sched := a.service.Schedule(ctx, now)
	v := todayView{
		Date:          now.Format("2006-01-02"),
		Location:      a.place,
		Timezone:      a.tz.String(),
		Source:        sched.Source,
		Imsak:         sched.Day.Imsak,
		Events:        sched.Day.Events,
		Countdown:     companion.CountdownFor(sched.Day, now),
		Ramadan:       det,
		Reset:         reset,
		LowConfidence: sched.Day.LowConfidence(),
		period:        prayer.Classify(clock.Of(now), sched.Day.Boundaries()),
		now:           now,
	}
	v.Period = v.period.String()

	out := cmd.OutOrStdout()
	if FlagJSON {
		return printJSON(out, v)
	}
	printTodayRich(out, v, a.timeFmt)
	return nil
}

// printTodayRich renders the colored terminal output for today's schedule.
func printTodayRich(w io.Writer, v todayView, goTimeFmt string) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", display.Bold("Ramadan Companion"))
	fmt.Fprintln(w)

	if v.Location != "" {
		fmt.Fprintf(w, "  %s\n", v.Location)
	}
	fmt.Fprintf(w, "  %s\n", v.Timezone)
	fmt.Fprintf(w, "  %s\n", v.now.Format("Monday 02 January 2006"))
	if line := ramadanLine(v.Ramadan); line != "" {
		fmt.Fprintf(w, "  %s\n", display.Accent(line))
	}
	if v.Reset {
		fmt.Fprintf(w, "  %s\n", display.Yellow("New Ramadan started; previous logs were cleared."))
	}
	fmt.Fprintln(w)

	t := display.NewTable([]string{"Event", "Time", "Source", "Note"})
	rows := append([]reconcile.Result{v.Imsak}, v.Events...)
	for i, r := range rows {
		t.AddRow([]string{r.Event, r.Value.On(v.now).Format(goTimeFmt), string(r.Source), resultNote(r)})
		if r.LowConfidence {
			t.DimRow(i)
		}
		if v.period.Active() && !v.period.PreviousDay && r.Event == v.period.Period.String() {
			t.SetHighlightRow(i)
		}
	}
	fmt.Fprint(w, t.Render())
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  Period     %s\n", v.Period)
	fmt.Fprintf(w, "  %s\n", countdownLine(v.Countdown))
	if v.Source != companion.ScheduleLive {
		fmt.Fprintf(w, "  %s\n", display.Yellow(fmt.Sprintf("Both time sources unavailable; showing %s times.", v.Source)))
	}
	if v.LowConfidence {
		fmt.Fprintf(w, "  %s\n", display.Yellow("Some times are regional defaults and may be off for your location."))
	}
	fmt.Fprintln(w)
}

// resultNote explains a reconciled value that was not a plain agreement.
func resultNote(r reconcile.Result) string {
	switch {
	case r.LowConfidence:
		return "regional default"
	case r.Mismatch:
		return fmt.Sprintf("sources differ by %dm", r.Diff)
	case r.Diff < 0 && r.Source == reconcile.SourceCalculated:
		return "calculated only"
	case r.Diff < 0 && r.Source == reconcile.SourceAuthority:
		return "published only"
	default:
		return ""
	}
}

// countdownLine describes the sahur/iftar countdown in one line.
func countdownLine(c prayer.Countdown) string {
	switch {
	case c.Next == prayer.TargetSecond:
		return fmt.Sprintf("Iftar (Maghrib %s) in %s", c.Second, display.Bold(c.Display))
	case c.Tomorrow:
		return fmt.Sprintf("Sahur ends (Imsak %s, tomorrow) in %s", c.First, display.Bold(c.Display))
	default:
		return fmt.Sprintf("Sahur ends (Imsak %s) in %s", c.First, display.Bold(c.Display))
	}
}

// ramadanLine summarizes a detection, or returns "" outside any window.
func ramadanLine(d ramadan.Detection) string {
	switch {
	case d.InWindow:
		return fmt.Sprintf("Ramadan %d AH, day %d of %d", d.HijriYear, d.CurrentDay, d.TotalDays)
	case d.Approaching:
		return fmt.Sprintf("Ramadan begins in %s", pluralDays(d.DaysUntilStart))
	default:
		return ""
	}
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

// warn prints a yellow warning line to the command's stderr.
func warn(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintln(cmd.ErrOrStderr(), display.Yellow("warning: "+fmt.Sprintf(format, args...)))
}
