package textwidth

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/encoding/simplifiedchinese"
)

var ansiRegexp = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// narrow lists ranges that GBK encodes with two bytes but terminals draw in
// a single column: box drawing borders, quotation arrows and the middle dot.
var narrow = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x00b7, Hi: 0x00b7, Stride: 1},
		{Lo: 0x2039, Hi: 0x203a, Stride: 1},
		{Lo: 0x2500, Hi: 0x257f, Stride: 1},
	},
}

// StringWidth returns the maximum visual width (in monospace columns) of the
// provided string. A character GBK encodes with two bytes, such as a Chinese
// character, occupies two columns unless it belongs to the narrow table.
func StringWidth(s string) int {
	if s == "" {
		return 0
	}
	maxWidth := 0
	for _, line := range strings.Split(s, "\n") {
		maxWidth = max(maxWidth, lineWidth(line))
	}
	return maxWidth
}

// PadRight appends ASCII spaces until the rendered width matches target.
func PadRight(s string, width int) string {
	diff := width - StringWidth(s)
	if diff <= 0 {
		return s
	}
	return s + strings.Repeat(" ", diff)
}

// Center pads s on both sides to width, putting the odd space on the right.
func Center(s string, width int) string {
	diff := width - StringWidth(s)
	if diff <= 0 {
		return s
	}
	return strings.Repeat(" ", diff/2) + s + strings.Repeat(" ", diff-diff/2)
}

func lineWidth(s string) int {
	encoder := simplifiedchinese.GBK.NewEncoder()
	width := 0
	for _, r := range stripANSI(s) {
		switch {
		case r == '\r':
		case r <= unicode.MaxASCII, unicode.Is(narrow, r):
			width++
		default:
			encoded, err := encoder.String(string(r))
			if err != nil || len(encoded) > 1 {
				width += 2
			} else {
				width++
			}
		}
	}
	return width
}

func stripANSI(s string) string {
	return ansiRegexp.ReplaceAllString(s, "")
}
