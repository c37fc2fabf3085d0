package cli

import (
	"fmt"
	"io"

	"github.com/smokyabdulrahman/ramadan-companion/internal/display"
	"github.com/smokyabdulrahman/ramadan-companion/internal/ramadan"
	"github.com/spf13/cobra"
)

func newRamadanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ramadan",
		Short: "Show whether today is in, near or outside Ramadan",
		Long: "Detect Ramadan from the Hijri calendar and the announced dates.\n" +
			"Inside Ramadan the window is stored so days can be logged; a new\n" +
			"Hijri year replaces the previous window and clears its logs.",
		Args: cobra.NoArgs,
		RunE: runRamadan,
	}
}

// ramadanJSON is the JSON output of the ramadan command.
type ramadanJSON struct {
	ramadan.Detection
	Reset bool `json:"reset,omitempty"`
}

func runRamadan(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	det, reset, err := a.service.SyncWindow(cmd.Context(), a.now())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if FlagJSON {
		return printJSON(out, ramadanJSON{Detection: det, Reset: reset})
	}
	printDetection(out, det, reset)
	return nil
}

func printDetection(w io.Writer, d ramadan.Detection, reset bool) {
	fmt.Fprintln(w)
	switch {
	case d.InWindow:
		fmt.Fprintf(w, "  %s\n", display.Bold(fmt.Sprintf("Ramadan %d AH", d.HijriYear)))
		fmt.Fprintf(w, "  Day %d of %d\n", d.CurrentDay, d.TotalDays)
		fmt.Fprintf(w, "  %s to %s (%s)\n", d.Start.Format("02 Jan 2006"), d.End.Format("02 Jan 2006"), d.Source)
		if reset {
			fmt.Fprintf(w, "  %s\n", display.Yellow("New Ramadan started; previous logs were cleared."))
		}
	case d.Source == ramadan.SourceUnavailable:
		fmt.Fprintf(w, "  %s\n", display.Yellow("Hijri calendar unavailable; assuming outside Ramadan."))
	case d.DaysUntilStart > 0:
		line := fmt.Sprintf("Ramadan begins in %s, on %s", pluralDays(d.DaysUntilStart), d.Start.Format("Monday 02 Jan 2006"))
		if d.Approaching {
			line = display.Accent(line)
		}
		fmt.Fprintf(w, "  %s\n", line)
	default:
		fmt.Fprintln(w, "  Not Ramadan.")
	}
	fmt.Fprintln(w)
}
