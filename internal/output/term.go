package output

import (
	"os"

	"golang.org/x/term"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// StdoutIsTerminal reports whether stdout is a terminal. Styled tables and
// release lines are only printed when it is; pipes get plain text.
func StdoutIsTerminal() bool {
	return IsTerminal(os.Stdout)
}
