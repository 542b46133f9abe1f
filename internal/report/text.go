package report

import (
	"strings"

	"golang.org/x/text/width"
)

// DisplayWidth is the number of terminal cells s occupies. Wide and
// fullwidth runes take two cells.
func DisplayWidth(s string) int {
	n := 0
	for _, r := range s {
		n += runeWidth(r)
	}
	return n
}

func runeWidth(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	default:
		return 1
	}
}

// Truncate shortens s to at most cells cells, marking the cut with "…".
func Truncate(s string, cells int) string {
	if cells <= 0 {
		return ""
	}
	if DisplayWidth(s) <= cells {
		return s
	}
	var b strings.Builder
	used := 0
	for _, r := range s {
		w := runeWidth(r)
		if used+w > cells-1 {
			break
		}
		b.WriteRune(r)
		used += w
	}
	b.WriteString("…")
	return b.String()
}

// PadRight truncates or pads s with spaces to exactly cells cells.
func PadRight(s string, cells int) string {
	s = Truncate(s, cells)
	if gap := cells - DisplayWidth(s); gap > 0 {
		s += strings.Repeat(" ", gap)
	}
	return s
}

// PadLeft right-aligns s in cells cells.
func PadLeft(s string, cells int) string {
	s = Truncate(s, cells)
	if gap := cells - DisplayWidth(s); gap > 0 {
		s = strings.Repeat(" ", gap) + s
	}
	return s
}
