package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/smokyabdulrahman/ramadan-companion/internal/companion"
	"github.com/smokyabdulrahman/ramadan-companion/internal/display"
	apperrors "github.com/smokyabdulrahman/ramadan-companion/internal/errors"
	"github.com/smokyabdulrahman/ramadan-companion/internal/logger"
	"github.com/smokyabdulrahman/ramadan-companion/internal/ramadan"
	"github.com/smokyabdulrahman/ramadan-companion/internal/tracker"
	"github.com/spf13/cobra"
)

var (
	flagLogDay  int
	flagLogNote string
)

const notInitializedHint = "no Ramadan window stored yet; nothing was logged (run `ramadan` during Ramadan to start tracking)"

func newLogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Record fasting, taraweeh or Quran reading for a day",
		Long:  "Record today's (or --day's) outcome for one tracked activity.\nLogging again for the same day replaces the earlier entry.",
	}

	cmd.PersistentFlags().IntVar(&flagLogDay, "day", 0, "Ramadan day to log (default: today)")
	cmd.PersistentFlags().StringVar(&flagLogNote, "note", "", "Qualifier: excuse, where taraweeh was prayed, or number of pages read")

	cmd.AddCommand(&cobra.Command{
		Use:   "fast <status>",
		Short: "Log a fast: " + statusList(tracker.FastStatuses),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLog(cmd, args[0], "fasting", tracker.FastStatuses, func(ctx context.Context, svc *companion.Service, day int, s tracker.FastStatus, note string) error {
				_, err := svc.LogFast(ctx, day, s, note)
				return err
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "taraweeh <status>",
		Short: "Log taraweeh: " + statusList(tracker.TaraweehStatuses),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLog(cmd, args[0], "taraweeh", tracker.TaraweehStatuses, func(ctx context.Context, svc *companion.Service, day int, s tracker.TaraweehStatus, note string) error {
				_, err := svc.LogTaraweeh(ctx, day, s, note)
				return err
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "quran <status>",
		Short: "Log Quran reading: " + statusList(tracker.QuranStatuses),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLog(cmd, args[0], "quran", tracker.QuranStatuses, func(ctx context.Context, svc *companion.Service, day int, s tracker.QuranStatus, note string) error {
				_, err := svc.LogQuran(ctx, day, s, note)
				return err
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show every logged day",
		Args:  cobra.NoArgs,
		RunE:  runLogShow,
	})

	return cmd
}

func statusList[S tracker.Status](values []S) string {
	names := make([]string, len(values))
	for i, v := range values {
		names[i] = v.String()
	}
	return strings.Join(names, ", ")
}

// runLog parses the status, resolves the day and writes the entry. With no
// stored window the write is dropped and the command still succeeds.
func runLog[S tracker.Status](cmd *cobra.Command, raw, activity string, values []S, write func(context.Context, *companion.Service, int, S, string) error) error {
	status, err := tracker.ParseStatus(raw, values)
	if err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	now := a.now()

	if _, _, err := a.service.SyncWindow(ctx, now); err != nil {
		logger.Warn("failed to store ramadan window", "err", err)
	}

	day := flagLogDay
	if day == 0 {
		w, err := a.service.Tracker().Window(ctx)
		if companion.IsNotInitialized(err) {
			warn(cmd, notInitializedHint)
			return nil
		}
		if err != nil {
			return err
		}
		if !w.Contains(now) {
			return apperrors.Wrap(apperrors.InvalidInput, "today is outside the stored Ramadan window (%s to %s); pass --day",
				w.Start.Format("2006-01-02"), w.End.Format("2006-01-02"))
		}
		day = w.DayOf(now)
	}

	err = write(ctx, a.service, day, status, flagLogNote)
	if companion.IsNotInitialized(err) {
		warn(cmd, notInitializedHint)
		return nil
	}
	if err != nil {
		return err
	}

	line := fmt.Sprintf("Logged %s for day %d: %s", activity, day, display.Status(status.String(), status.Succeeded()))
	if flagLogNote != "" {
		line += fmt.Sprintf(" (%s)", flagLogNote)
	}
	fmt.Fprintln(cmd.OutOrStdout(), line)
	return nil
}

// logRow is one day of the log show table.
type logRow struct {
	Day      int                                     `json:"day"`
	Fasting  *tracker.DayLog[tracker.FastStatus]     `json:"fasting,omitempty"`
	Taraweeh *tracker.DayLog[tracker.TaraweehStatus] `json:"taraweeh,omitempty"`
	Quran    *tracker.DayLog[tracker.QuranStatus]    `json:"quran,omitempty"`
}

func runLogShow(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	now := a.now()
	t := a.service.Tracker()

	w, err := t.Window(ctx)
	if companion.IsNotInitialized(err) {
		warn(cmd, "no Ramadan window stored yet")
		return nil
	}
	if err != nil {
		return err
	}

	rows, err := logRows(ctx, t, w)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if FlagJSON {
		return printJSON(out, rows)
	}

	table := display.NewTable([]string{"Day", "Date", "Fast", "Taraweeh", "Quran"})
	table.AlignRight(0)
	for i, r := range rows {
		table.AddRow([]string{
			fmt.Sprintf("%d", r.Day),
			w.Start.AddDate(0, 0, r.Day-1).Format("Mon 02 Jan"),
			cell(r.Fasting),
			cell(r.Taraweeh),
			cell(r.Quran),
		})
		if w.Contains(now) && r.Day == w.DayOf(now) {
			table.SetHighlightRow(i)
		}
	}

	fmt.Fprintf(out, "\n  %s\n\n", display.Bold(fmt.Sprintf("Ramadan %d AH", w.HijriYear)))
	fmt.Fprint(out, table.Render())
	fmt.Fprintln(out)
	return nil
}

// logRows lists every day of w that has at least one entry, in day order.
func logRows(ctx context.Context, t *tracker.Tracker, w ramadan.Window) ([]logRow, error) {
	fasting, err := t.Fasting(ctx)
	if err != nil {
		return nil, err
	}
	taraweeh, err := t.Taraweeh(ctx)
	if err != nil {
		return nil, err
	}
	quran, err := t.Quran(ctx)
	if err != nil {
		return nil, err
	}

	rows := []logRow{}
	for d := 1; d <= w.TotalDays; d++ {
		r := logRow{Day: d}
		if l, ok := fasting[d]; ok {
			r.Fasting = &l
		}
		if l, ok := taraweeh[d]; ok {
			r.Taraweeh = &l
		}
		if l, ok := quran[d]; ok {
			r.Quran = &l
		}
		if r.Fasting != nil || r.Taraweeh != nil || r.Quran != nil {
			rows = append(rows, r)
		}
	}
	return rows, nil
}

func cell[S tracker.Status](l *tracker.DayLog[S]) string {
	if l == nil {
		return display.Dim("-")
	}
	s := display.Status(l.Status.String(), l.Status.Succeeded())
	if l.Qualifier != "" {
		s += " (" + l.Qualifier + ")"
	}
	return s
}
