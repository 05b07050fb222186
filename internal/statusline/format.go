package statusline

import "strconv"

// FormatTokens renders a token count compactly:
//
//	543      -> 543
//	1500     -> 1.5K
//	54000    -> 54K
//	1500000  -> 1.5M
//	15000000 -> 15M
//
// The single decimal is truncated, never rounded, so 9999 is 9.9K.
func FormatTokens(n int) string {
	if n < 0 {
		n = 0
	}
	switch {
	case n < 1_000:
		return strconv.Itoa(n)
	case n < 10_000:
		return strconv.Itoa(n/1_000) + "." + strconv.Itoa(n%1_000/100) + "K"
	case n < 1_000_000:
		return strconv.Itoa(n/1_000) + "K"
	case n < 10_000_000:
		return strconv.Itoa(n/1_000_000) + "." + strconv.Itoa(n%1_000_000/100_000) + "M"
	default:
		return strconv.Itoa(n/1_000_000) + "M"
	}
}
