package colors

import "fmt"

// ANSI color codes
const (
	Reset   = "\033[0m"
	Cyan    = "\033[36m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Red     = "\033[31m"
	Magenta = "\033[35m"
	Blue    = "\033[34m"
	Gray    = "\033[90m"
	Dim     = "\033[2m"
	Orange  = "\033[38;5;208m"
)

// Wrap wraps text in color codes
func Wrap(color, text string) string {
	return fmt.Sprintf("%s%s%s", color, text, Reset)
}

// Separator returns the status line separator
func Separator() string {
	return Wrap(Gray, " | ")
}

// Theme holds every color the status line uses. It is built once per
// process and passed by value into the builders.
type Theme struct {
	Model     string
	Directory string
	Branch    string
	Ahead     string
	Behind    string
	Caution   string
	Files     string
	Added     string
	Removed   string
	Cost      string
	Usage     string
	BarEmpty  string
	Message   string

	// Tiers is indexed by tier.Tier, lowest usage first.
	Tiers [5]string
}

// DefaultTheme returns the stock palette
func DefaultTheme() Theme {
	return Theme{
		Model:     Magenta,
		Directory: Cyan,
		Branch:    Green,
		Ahead:     Green,
		Behind:    Red,
		Caution:   Yellow,
		Files:     Yellow,
		Added:     Green,
		Removed:   Red,
		Cost:      Yellow,
		Usage:     Gray,
		BarEmpty:  Gray,
		Message:   Dim,
		Tiers:     [5]string{Green, Cyan, Yellow, Orange, Red},
	}
}
