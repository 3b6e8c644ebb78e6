package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ColorEnabled reports whether styled output should be produced: NO_COLOR is
// unset and noColor was not requested.
func ColorEnabled(noColor bool) bool {
	if noColor {
		return false
	}
	_, set := os.LookupEnv("NO_COLOR")
	return !set
}

// SetColor switches all lipgloss styles between the detected profile and plain ASCII.
func SetColor(enabled bool) {
	if enabled {
		lipgloss.SetColorProfile(termenv.EnvColorProfile())
		return
	}
	lipgloss.SetColorProfile(termenv.Ascii)
}
