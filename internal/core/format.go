package core

import (
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Korean)

// FormatDate renders a YYYYMMDD date as YY.MM.DD. Missing dates render as
// the placeholder; short values are cut without panicking.
func FormatDate(d YMD) string {
	if d.IsZero() {
		return Placeholder
	}
	r := []rune(d.String())
	return runeSlice(r, 2, 4) + "." + runeSlice(r, 4, 6) + "." + runeSlice(r, 6, 8)
}

// FormatMonth renders a YYYYMM month key as YY.MM.
func FormatMonth(key string) string {
	if key == "" || key == Placeholder {
		return Placeholder
	}
	r := []rune(key)
	return runeSlice(r, 2, 4) + "." + runeSlice(r, 4, len(r))
}

// FormatRate renders part/total as a percentage with one decimal, or "0"
// when there is nothing to divide.
func FormatRate(part, total int) string {
	if total <= 0 {
		return "0"
	}
	return strconv.FormatFloat(float64(part)/float64(total)*100, 'f', 1, 64)
}

// FormatThousands renders n with Korean digit grouping (1,234).
func FormatThousands(n int) string {
	return printer.Sprintf("%d", n)
}

// OrPlaceholder substitutes the placeholder for an empty value.
func OrPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}

func runeSlice(r []rune, from, to int) string {
	if from > len(r) {
		from = len(r)
	}
	if to > len(r) {
		to = len(r)
	}
	if from >= to {
		return ""
	}
	return string(r[from:to])
}
