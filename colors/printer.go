package colors

import (
	"io"
	"regexp"

	"github.com/fatih/color"
)

// COLOR is a terminal style. Every style supports Print/Println/Printf and the
// Fprint/Sprint families.
type COLOR = *color.Color

var (
	RED       COLOR = color.New(color.FgRed)
	BOLD_RED  COLOR = color.New(color.FgRed, color.Bold)
	GREEN     COLOR = color.New(color.FgGreen)
	YELLOW    COLOR = color.New(color.FgYellow)
	ORANGE    COLOR = color.New(color.FgHiYellow)
	BLUE      COLOR = color.New(color.FgBlue)
	BOLD_BLUE COLOR = color.New(color.FgBlue, color.Bold)
	PURPLE    COLOR = color.New(color.FgMagenta)
	CYAN      COLOR = color.New(color.FgCyan)
	BROWN     COLOR = color.New(color.FgYellow, color.Faint)
	GREY      COLOR = color.New(color.FgHiBlack)
	WHITE     COLOR = color.New(color.FgWhite)
	BOLD      COLOR = color.New(color.Bold)
)

// Enable turns ANSI output on or off for every style.
// fatih/color disables itself when stdout is not a terminal; this overrides that.
func Enable(on bool) {
	color.NoColor = !on
}

// Enabled reports whether styles currently emit escape codes.
func Enabled() bool {
	return !color.NoColor
}

// FprintWithColor writes args to w in the given style
func FprintWithColor(w io.Writer, c COLOR, args ...any) {
	c.Fprint(w, args...)
}

// SprintWithColor renders args in the given style
func SprintWithColor(c COLOR, args ...any) string {
	return c.Sprint(args...)
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)

// StripANSI removes ANSI color codes from a string
func StripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}
