package cli

import (
	"fmt"
	"strconv"

	"github.com/smokyabdulrahman/ramadan-companion/internal/companion"
	"github.com/smokyabdulrahman/ramadan-companion/internal/display"
	apperrors "github.com/smokyabdulrahman/ramadan-companion/internal/errors"
	"github.com/smokyabdulrahman/ramadan-companion/internal/prayer"
	"github.com/spf13/cobra"
)

// maxListDays caps list so a month view fits one Ramadan.
const maxListDays = 30

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [days]",
		Short: "Show reconciled times for multiple days",
		Long:  "Display a grid of Imsak and prayer times for N days starting today (default: 7, max: 30).",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runList,
	}
}

func runList(cmd *cobra.Command, args []string) error {
	days := 7
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 || n > maxListDays {
			return apperrors.Wrap(apperrors.InvalidInput, "days must be a number between 1 and %d, got %q", maxListDays, args[0])
		}
		days = n
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	now := a.now()

	schedules := make([]companion.DaySchedule, 0, days)
	for i := 0; i < days; i++ {
		schedules = append(schedules, a.service.Schedule(ctx, now.AddDate(0, 0, i)))
	}

	out := cmd.OutOrStdout()
	if FlagJSON {
		return printJSON(out, schedules)
	}

	headers := []string{"Date", prayer.Imsak}
	headers = append(headers, prayer.BoundaryNames...)
	t := display.NewTable(headers)
	t.SetHighlightRow(0)

	lowConf := false
	for i, s := range schedules {
		date := now.AddDate(0, 0, i)
		label := date.Format("Mon 02 Jan")
		if s.Day.LowConfidence() {
			label += "*"
			lowConf = true
			t.DimRow(i)
		}
		row := []string{label, s.Day.Imsak.Value.On(date).Format(a.timeFmt)}
		for _, e := range s.Day.Events {
			row = append(row, e.Value.On(date).Format(a.timeFmt))
		}
		t.AddRow(row)
	}

	fmt.Fprintln(out)
	fmt.Fprint(out, t.Render())
	if lowConf {
		fmt.Fprintf(out, "\n  %s\n", display.Dim("* includes regional default times"))
	}
	fmt.Fprintln(out)
	return nil
}
