package util

import (
	"fmt"

	"github.com/mattn/go-runewidth"
)

// Terminal control sequences
const (
	ColorReset   = "\033[0m"
	ColorBlue    = "\033[34m"
	ColorCyan    = "\033[36m"
	ColorGreen   = "\033[32m"
	ColorYellow  = "\033[33m"
	ColorRed     = "\033[31m"
	ColorMagenta = "\033[35m"
	ColorBold    = "\033[1m"
)

// HighlightStart and HighlightEnd wrap matched text in presenter
// output, mirroring grep's bold-red match highlighting.
const (
	HighlightStart = ColorBold + ColorRed
	HighlightEnd   = ColorReset
)

// GetDisplayWidth calculates the actual display width of a string,
// accounting for wide and combining runes.
func GetDisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// FormatFileHeading formats the per-file heading printed before a
// recording is searched (Cyan + Bold when colored).
func FormatFileHeading(name string, colored bool) string {
	if !colored {
		return name + ":"
	}
	return fmt.Sprintf("%s%s%s:%s", ColorBold, ColorCyan, name, ColorReset)
}
