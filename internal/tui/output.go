package tui

import (
	"os"

	"golang.org/x/term"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// OutputMode is how a command should present results.
type OutputMode int

const (
	// OutputModePlain is unstyled text, for pipes, dumb terminals and --plain.
	OutputModePlain OutputMode = iota
	// OutputModeInteractive runs the Bubble Tea program.
	OutputModeInteractive
)

// DetectOutputMode picks an output mode from the flag and the terminal.
// The viewer needs a terminal on both stdin and stdout.
func DetectOutputMode(forcePlain bool) OutputMode {
	if forcePlain {
		return OutputModePlain
	}
	if !isTerminal(os.Stdout) || !isTerminal(os.Stdin) || os.Getenv("TERM") == "dumb" {
		return OutputModePlain
	}
	return OutputModeInteractive
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// FormatCount renders n with locale grouping, e.g. 12,345.
func FormatCount(n int) string {
	return message.NewPrinter(language.English).Sprintf("%d", n)
}
