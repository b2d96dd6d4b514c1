package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wricardo/wordle-duel/game/history"
	"github.com/wricardo/wordle-duel/game/service"
	"github.com/wricardo/wordle-duel/game/session"
)

// View renders the current screen
func (m *Model) View() string {
	var body string
	switch m.screen {
	case ScreenMenu:
		body = m.viewMenu()
	case ScreenCreate:
		body = m.viewCreate()
	case ScreenDiscover:
		body = m.viewDiscover()
	case ScreenGame:
		body = m.viewGame()
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Multiplayer Wordle"))
	b.WriteString("\n")
	b.WriteString(body)
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(ErrorStyle.Render(m.err.Error()))
	}
	b.WriteString("\n")
	return b.String()
}

func (m *Model) viewMenu() string {
	var b strings.Builder
	for i, item := range menuItems {
		if i == m.menuIdx {
			b.WriteString(SelectedStyle.Render("> " + item))
		} else {
			b.WriteString("  " + item)
		}
		b.WriteString("\n")
	}
	b.WriteString(MutedStyle.Render("\n↑/↓ move • enter select • q quit"))
	return b.String()
}

func (m *Model) viewCreate() string {
	return m.nameInput.View() + "\n" +
		MutedStyle.Render("\nenter create game • esc back")
}

func (m *Model) viewDiscover() string {
	var b strings.Builder
	b.WriteString("Available Games\n\n")

	switch {
	case m.loading:
		b.WriteString(m.spinner.View() + " Loading games...\n")
	case len(m.games) == 0:
		b.WriteString(MutedStyle.Render("No available games.") + "\n")
	default:
		for i, g := range m.games {
			line := fmt.Sprintf("%s - %d players", g.Name, g.Players)
			if i == m.gameIdx {
				b.WriteString(SelectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString(MutedStyle.Render("\nenter join • r refresh • esc back"))
	return b.String()
}

func (m *Model) viewGame() string {
	if m.game == nil {
		return ""
	}
	view := m.game.View()

	var b strings.Builder
	switch {
	case view.Status == session.Connecting:
		b.WriteString(m.spinner.View() + " Joining game...\n")
		return b.String()
	case view.Status == session.Closed && view.Err != nil && !view.Completed:
		b.WriteString(ErrorStyle.Render("Disconnected: "+view.Err.Error()) + "\n")
		b.WriteString(MutedStyle.Render("\nesc back"))
		return b.String()
	}

	if label := view.PlayerLabel(); label != "" {
		b.WriteString(lipgloss.NewStyle().Bold(true).Render(label) + "\n\n")
	}

	if !view.Completed {
		b.WriteString(renderCells(view))
		b.WriteString("\n")
		if view.Cooldown {
			b.WriteString(MutedStyle.Render("Cooldown...") + "\n")
		}
	}

	for _, row := range view.Rows {
		b.WriteString(renderRow(row))
		b.WriteString(" " + MutedStyle.Render(row.Player.String()))
		b.WriteString("\n")
	}

	if view.Completed {
		b.WriteString(BannerStyle.Render("Game Over!") + "\n")
		if view.Status == session.Closed {
			b.WriteString(MutedStyle.Render("Connection closed") + "\n")
		}
	}
	if m.notice != "" {
		b.WriteString(ErrorStyle.Render(m.notice) + "\n")
	}

	b.WriteString(MutedStyle.Render("\ntype letters • enter submit • esc leave"))
	return b.String()
}

func renderCells(view *service.View) string {
	cells := make([]string, len(view.Cells))
	for i, r := range view.Cells {
		letter := " "
		if r != 0 {
			letter = string(r)
		}
		style := CellStyle
		if i == view.Focus {
			style = FocusedCellStyle
		}
		cells[i] = style.Render(letter)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func renderRow(row history.Row) string {
	tiles := make([]string, len(row.Tiles))
	for i, tile := range row.Tiles {
		tiles[i] = tileStyle(tile.Marker).Render(string(tile.Letter))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tiles...)
}

func tileStyle(marker history.Marker) lipgloss.Style {
	switch marker {
	case history.MarkerExact:
		return ExactTileStyle
	case history.MarkerPresent:
		return PresentTileStyle
	default:
		return AbsentTileStyle
	}
}
