package report

import (
	"os"

	"golang.org/x/sys/unix"
)

// DefaultWidth is the column limit used when the output is not a
// terminal.
const DefaultWidth = 80

// TerminalWidth returns the column count of the terminal behind f, or
// DefaultWidth when f is not a terminal.
func TerminalWidth(f *os.File) int {
	ws, err := unix.IoctlGetWinsize(int(f.Fd()), unix.TIOCGWINSZ)
	if err != nil || ws.Col == 0 {
		return DefaultWidth
	}
	return int(ws.Col)
}
