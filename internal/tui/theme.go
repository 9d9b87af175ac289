package tui

import "github.com/charmbracelet/lipgloss"

// ---------------------------------------------------------------------------
// Catppuccin Mocha palette — true-color hex values
// https://catppuccin.com/palette
// ---------------------------------------------------------------------------

const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorMauve    lipgloss.Color = "#cba6f7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorPeach    lipgloss.Color = "#fab387"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorSky      lipgloss.Color = "#89dceb"
	colorBlue     lipgloss.Color = "#89b4fa"
	colorLavender lipgloss.Color = "#b4befe"

	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorOverlay0 lipgloss.Color = "#6c7086"
	colorSurface1 lipgloss.Color = "#45475a"
	colorSurface0 lipgloss.Color = "#313244"
	colorBase     lipgloss.Color = "#1e1e2e"
	colorMantle   lipgloss.Color = "#181825"
)

// ---------------------------------------------------------------------------
// Semantic color aliases
// ---------------------------------------------------------------------------

const (
	colorAccent  = colorMauve
	colorFocus   = colorLavender
	colorSuccess = colorGreen
	colorError   = colorRed
	colorWarning = colorPeach
	colorInfo    = colorTeal
)

// ---------------------------------------------------------------------------
// Shared styles
// ---------------------------------------------------------------------------

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)

	assistantStyle = lipgloss.NewStyle().Foreground(colorText)
	userStyle      = lipgloss.NewStyle().Foreground(colorBlue).Align(lipgloss.Right)
	speakerStyle   = lipgloss.NewStyle().Foreground(colorOverlay1)

	actionStyle = lipgloss.NewStyle().
			Foreground(colorLavender).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Padding(0, 1)

	cardGreenStyle = lipgloss.NewStyle().
			Foreground(colorGreen).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorGreen).
			Padding(0, 1)
	cardOrangeStyle = lipgloss.NewStyle().
			Foreground(colorPeach).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPeach).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Padding(0, 1)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorFocus).
			Padding(1, 2)

	footerStyle = lipgloss.NewStyle().Foreground(colorSubtext0)
	statusStyle = lipgloss.NewStyle().Foreground(colorInfo)
	errorStyle  = lipgloss.NewStyle().Foreground(colorError)

	statusReadyStyle  = lipgloss.NewStyle().Foreground(colorGreen)
	statusAiFixStyle  = lipgloss.NewStyle().Foreground(colorSky)
	statusManualStyle = lipgloss.NewStyle().Foreground(colorPeach)

	progressDoneStyle    = lipgloss.NewStyle().Foreground(colorGreen)
	progressCurrentStyle = lipgloss.NewStyle().Foreground(colorLavender).Bold(true)
	progressTodoStyle    = lipgloss.NewStyle().Foreground(colorOverlay0)
)
