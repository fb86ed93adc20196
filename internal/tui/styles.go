package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/dataviewer/internal/tui/detail"
)

// Color palette.
const (
	colorPrimary   = lipgloss.Color("33")
	colorHighlight = lipgloss.Color("229")
	colorSelectBg  = lipgloss.Color("57")
	colorSubtle    = lipgloss.Color("241")
	colorBorder    = lipgloss.Color("240")
	colorLabel     = lipgloss.Color("252")
	colorValue     = lipgloss.Color("250")
)

//nolint:gochecknoglobals // Shared lipgloss styles.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			MarginBottom(1)

	LabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorLabel)

	ValueStyle = lipgloss.NewStyle().
			Foreground(colorValue)

	SubtleStyle = lipgloss.NewStyle().
			Foreground(colorSubtle)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(colorHighlight).
			Background(colorSelectBg)

	FocusedPaneStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Padding(0, 1)

	BlurredPaneStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorBorder).
				Padding(0, 1)

	TableHeaderStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(colorBorder).
				BorderBottom(true).
				Bold(true).
				Padding(0, 1)

	TableSelectedStyle = lipgloss.NewStyle().
				Foreground(colorHighlight).
				Background(colorSelectBg).
				Bold(false)

	OverlayBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(colorPrimary).
			Padding(1, 2)

	OverlayTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorHighlight).
				Background(colorPrimary).
				Padding(0, 1)
)

// overlayStyles maps the shared styles onto the detail overlay.
func overlayStyles() detail.Styles {
	return detail.Styles{
		Box:   OverlayBoxStyle,
		Title: OverlayTitleStyle,
		Label: LabelStyle,
		Value: ValueStyle,
		Hint:  SubtleStyle,
	}
}
