package statusline

import (
	"strings"

	"github.com/himattm/contextline/internal/colors"
	"github.com/himattm/contextline/internal/tier"
)

const (
	barFilled = "█"
	barEmpty  = "░"
)

// RenderBar draws exactly width glyphs: floor(percent*width/100) filled
// blocks in the tier color followed by empty blocks in the neutral color.
func RenderBar(percent, width int, theme colors.Theme) string {
	if width <= 0 {
		return ""
	}
	percent = tier.Clamp(percent)
	filled := percent * width / 100

	var bar strings.Builder
	if filled > 0 {
		bar.WriteString(colors.Wrap(theme.Tiers[tier.Classify(percent)], strings.Repeat(barFilled, filled)))
	}
	if empty := width - filled; empty > 0 {
		bar.WriteString(colors.Wrap(theme.BarEmpty, strings.Repeat(barEmpty, empty)))
	}
	return bar.String()
}
