package cli

import (
	"fmt"
	"io"
	"strconv"

	apperrors "github.com/smokyabdulrahman/ramadan-companion/internal/errors"
	"github.com/smokyabdulrahman/ramadan-companion/internal/schedule"
	"github.com/spf13/cobra"
)

func newRemindCmd() *cobra.Command {
	var opts schedule.Options
	cmd := &cobra.Command{
		Use:   "remind [days]",
		Short: "Plan sahur, iftar and prayer reminders",
		Long: "Plan reminders for the next N days (default: 1, max: 30): sahur ahead of\n" +
			"Imsak, iftar at Maghrib and, with --prayers, each of the five prayers.\n" +
			"Reminders already in the past are skipped.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			days := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 || n > schedule.MaxDays {
					return apperrors.Wrap(apperrors.InvalidInput, "days must be a number between 1 and %d, got %q", schedule.MaxDays, args[0])
				}
				days = n
			}

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			var w io.Writer = out
			if FlagJSON {
				w = io.Discard
			}
			layout := "Mon 02 Jan " + a.timeFmt
			s := schedule.New(a.service, schedule.WriterNotifier{W: w, Layout: layout}, opts)

			reminders, err := s.Plan(cmd.Context(), a.now(), days)
			if err != nil {
				return err
			}
			if FlagJSON {
				if reminders == nil {
					reminders = []schedule.Reminder{}
				}
				return printJSON(out, reminders)
			}
			if len(reminders) == 0 {
				fmt.Fprintln(out, "No upcoming reminders.")
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&opts.SahurLead, "lead", schedule.DefaultSahurLead, "How long before Imsak the sahur reminder fires")
	cmd.Flags().BoolVar(&opts.Prayers, "prayers", false, "Also remind at each of the five prayers")
	return cmd
}
