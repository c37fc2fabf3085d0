package display

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
)

// DefaultBarWidth is the width of stat bars in cells.
const DefaultBarWidth = 30

// Bar renders a static progress bar for percent in [0, 100]. With styling
// disabled it falls back to a plain ASCII bar so piped output stays readable.
func Bar(percent float64, width int) string {
	if width <= 0 {
		width = DefaultBarWidth
	}
	ratio := clampRatio(percent / 100)

	if !enabled {
		filled := int(ratio*float64(width) + 0.5)
		bar := make([]byte, width)
		for i := range bar {
			if i < filled {
				bar[i] = '#'
			} else {
				bar[i] = '.'
			}
		}
		return fmt.Sprintf("[%s] %3.0f%%", bar, ratio*100)
	}

	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(width),
	)
	return p.ViewAs(ratio)
}

func clampRatio(r float64) float64 {
	switch {
	case r < 0:
		return 0
	case r > 1:
		return 1
	default:
		return r
	}
}
