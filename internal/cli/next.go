package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/smokyabdulrahman/ramadan-companion/internal/clock"
	"github.com/smokyabdulrahman/ramadan-companion/internal/companion"
	"github.com/smokyabdulrahman/ramadan-companion/internal/prayer"
	"github.com/smokyabdulrahman/ramadan-companion/internal/reconcile"
	"github.com/smokyabdulrahman/ramadan-companion/internal/tui"
	"github.com/spf13/cobra"
)

var (
	flagFormat     string
	flagWatch      bool
	flagNextPrayer bool
)

func newNextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Show the next sahur or iftar boundary with countdown",
		Long: "Display the next of Imsak (end of sahur) and Maghrib (iftar) with a countdown.\n" +
			"The output is a single line suitable for a tmux status bar; --watch opens a live view.",
		Args: cobra.NoArgs,
		RunE: runNext,
	}

	cmd.Flags().StringVar(&flagFormat, "format", prayer.FormatFull, "Display format: time-remaining, next-time, name-and-time, name-and-remaining, short-name-and-time, short-name-and-remaining, full, or a custom Go template")
	cmd.Flags().BoolVarP(&flagWatch, "watch", "w", false, "Show a live countdown until q is pressed")
	cmd.Flags().BoolVar(&flagNextPrayer, "prayer", false, "Count down to the next prayer instead of sahur/iftar")

	return cmd
}

// nextJSON is the JSON output of the next command.
type nextJSON struct {
	Event     string `json:"event"`
	Time      string `json:"time"`
	Remaining string `json:"remaining"`
	Tomorrow  bool   `json:"tomorrow,omitempty"`
	// LowConfidence is set when the time came from regional defaults.
	LowConfidence bool `json:"low_confidence,omitempty"`
}

func runNext(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	now := a.now()

	if flagWatch {
		day := a.service.Schedule(ctx, now).Day
		load := func(ctx context.Context, date time.Time) reconcile.Day {
			return a.service.Schedule(ctx, date).Day
		}
		title := "Ramadan Companion"
		if a.place != "" {
			title += "  " + a.place
		}
		return tui.Run(tui.New(title, day, now, load))
	}

	var (
		event    prayer.Event
		lowConf  bool
		tomorrow bool
	)
	if flagNextPrayer {
		event, lowConf = nextPrayerEvent(ctx, a, now)
		tomorrow = event.At.Day() != now.Day()
	} else {
		sched := a.service.Schedule(ctx, now)
		c := companion.CountdownFor(sched.Day, now)
		event = prayer.Event{Name: prayer.Imsak, At: c.At(now)}
		if c.Next == prayer.TargetSecond {
			event.Name = prayer.Maghrib
		}
		lowConf = sched.Day.LowConfidence()
		tomorrow = c.Tomorrow
	}

	out := cmd.OutOrStdout()
	if FlagJSON {
		return printJSON(out, nextJSON{
			Event:         event.Name,
			Time:          event.At.Format(a.timeFmt),
			Remaining:     prayer.FormatRemaining(event.At.Sub(now)),
			Tomorrow:      tomorrow,
			LowConfidence: lowConf,
		})
	}

	fmt.Fprint(out, prayer.FormatOutput(event, now, flagFormat, a.timeFmt))
	return nil
}

// nextPrayerEvent finds the first boundary after now, rolling over to
// tomorrow's Fajr once Isha has passed.
func nextPrayerEvent(ctx context.Context, a *app, now time.Time) (prayer.Event, bool) {
	day := a.service.Schedule(ctx, now).Day
	if p := prayer.NextPrayer(day.Boundaries().Prayers(), clock.Of(now)); p != nil {
		return prayer.Event{Name: p.Name, At: p.Time.On(now)}, day.LowConfidence()
	}

	tomorrow := now.AddDate(0, 0, 1)
	next := a.service.Schedule(ctx, tomorrow).Day
	return prayer.Event{Name: prayer.Fajr, At: next.Boundaries().Fajr.On(tomorrow)}, next.LowConfidence()
}
