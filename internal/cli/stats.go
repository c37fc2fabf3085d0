package cli

import (
	"fmt"
	"io"

	"github.com/smokyabdulrahman/ramadan-companion/internal/companion"
	"github.com/smokyabdulrahman/ramadan-companion/internal/display"
	"github.com/smokyabdulrahman/ramadan-companion/internal/tracker"
	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show completion, streaks and the composite score",
		Long: "Summarize the logs of the stored Ramadan window: completions and streaks\n" +
			"per activity, and a composite score weighting fasting 40%, taraweeh 30%\n" +
			"and Quran reading 30%.",
		Args: cobra.NoArgs,
		RunE: runStats,
	}
}

func runStats(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	summary, err := a.service.Stats(cmd.Context(), a.now())
	if companion.IsNotInitialized(err) {
		warn(cmd, "no Ramadan window stored yet; run `ramadan` during Ramadan to start tracking")
		return nil
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if FlagJSON {
		return printJSON(out, summary)
	}
	printStats(out, summary)
	return nil
}

func printStats(w io.Writer, s tracker.Summary) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", display.Bold(fmt.Sprintf("Ramadan %d AH", s.HijriYear)))
	fmt.Fprintf(w, "  Day %d of %d, %s remaining\n", s.CurrentDay, s.TotalDays, pluralDays(s.DaysRemaining))
	fmt.Fprintln(w)

	statsLine(w, "Fasting", s.Fasting.Ratio(s.DaysElapsed), s.Fasting.Completions, s.Fasting.CurrentStreak, s.Fasting.LongestStreak)
	statsLine(w, "Taraweeh", s.Taraweeh.Ratio(s.DaysElapsed), s.Taraweeh.Completions, s.Taraweeh.CurrentStreak, s.Taraweeh.LongestStreak)
	statsLine(w, "Quran", s.Quran.Ratio(s.DaysElapsed), s.Quran.Completions, s.Quran.CurrentStreak, s.Quran.LongestStreak)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Score     %s\n", display.Accent(fmt.Sprintf("%d / 100", s.Score)))
	fmt.Fprintln(w)
}

func statsLine(w io.Writer, name string, ratio float64, completions, streak, best int) {
	fmt.Fprintf(w, "  %-9s %s  %d done, streak %d (best %d)\n",
		name, display.Bar(ratio, display.DefaultBarWidth), completions, streak, best)
}
