package util

import (
	"os"

	"golang.org/x/term"
)

// IsTerminal checks if the given file descriptor is a terminal
func IsTerminal(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}

// IsInteractive reports whether both stdin and stdout are terminals,
// i.e. whether prompting the user makes sense
func IsInteractive() bool {
	return IsTerminal(os.Stdin.Fd()) && IsTerminal(os.Stdout.Fd())
}

// GetTerminalWidth returns the width of the terminal, or 80 if not a terminal
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 80
	}
	return width
}
