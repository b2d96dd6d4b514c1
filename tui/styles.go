package tui

import "github.com/charmbracelet/lipgloss"

// Tile colors follow the usual word-game palette.
var (
	ColorExact   = lipgloss.Color("#538D4E")
	ColorPresent = lipgloss.Color("#B59F3B")
	ColorAbsent  = lipgloss.Color("#3A3A3C")

	ColorFgPrimary = lipgloss.Color("#FFFFFF")
	ColorFgMuted   = lipgloss.Color("#818384")
	ColorAccent    = lipgloss.Color("#61AFEF")
	ColorRed       = lipgloss.Color("#E06C75")
	ColorBorder    = lipgloss.Color("#565758")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorFgPrimary).
			Bold(true).
			MarginBottom(1)

	tileBase = lipgloss.NewStyle().
			Foreground(ColorFgPrimary).
			Bold(true).
			Width(3).
			Align(lipgloss.Center)

	ExactTileStyle   = tileBase.Background(ColorExact)
	PresentTileStyle = tileBase.Background(ColorPresent)
	AbsentTileStyle  = tileBase.Background(ColorAbsent)

	CellStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(ColorBorder).
			Width(1).
			Align(lipgloss.Center)

	FocusedCellStyle = CellStyle.
				BorderForeground(ColorAccent)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorFgMuted)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	BannerStyle = lipgloss.NewStyle().
			Foreground(ColorExact).
			Bold(true).
			MarginTop(1)
)
