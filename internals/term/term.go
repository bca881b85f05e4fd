package term

import (
	"os"

	"github.com/mattn/go-isatty"
)

// IsTerminal reports whether f is attached to an interactive terminal.
// CLI output helpers use it to pick between human and plain formatting.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func SupportsHyperlinks() bool {
	term := os.Getenv("TERM")
	if term == "" || term == "dumb" {
		return false
	}
	for _, key := range []string{
		"WT_SESSION",
		"VTE_VERSION",
		"KONSOLE_VERSION",
		"KITTY_WINDOW_ID",
		"WEZTERM_EXECUTABLE",
		"TERM_PROGRAM",
	} {
		if os.Getenv(key) != "" {
			return true
		}
	}
	return false
}

// ClickableLink wraps label in an OSC 8 hyperlink when the terminal
// supports them, otherwise returns the label unchanged.
func ClickableLink(label string, url string) string {
	if url == "" {
		return label
	}
	if label == "" {
		label = url
	}
	if !SupportsHyperlinks() {
		return label
	}
	return "\x1b]8;;" + url + "\x1b\\" + label + "\x1b]8;;\x1b\\"
}
