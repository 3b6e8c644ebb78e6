package styles

import "github.com/charmbracelet/lipgloss"

// Centralized Lip Gloss styles for thermite's terminal output.
// All colors are specified using hex codes.

const (
	FireColor  = "#ff3b1f"
	EmberColor = "#ffb020"
	AshColor   = "#8a8a8a"
	CoolColor  = "#f2f2f2"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(FireColor)).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(EmberColor)).
			MarginBottom(1)

	// Banner lines alternate between fire and ember.
	BannerFireStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(FireColor))

	BannerEmberStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color(EmberColor))

	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(EmberColor))

	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(CoolColor))

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(FireColor)).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(EmberColor)).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(FireColor)).
			Bold(true)

	NormalTextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(CoolColor))

	HelpStyle = lipgloss.NewStyle().
			Faint(true).
			Foreground(lipgloss.Color(AshColor)).
			MarginTop(1)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(EmberColor))

	// Box around the SSD/NVMe warning.
	WarningBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(FireColor)).
			Padding(0, 1)
)
