package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

var (
	// HelpOverlayStyle defines the style for the help overlay container.
	HelpOverlayStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1, 2).
		MarginTop(1)
)

// HelpModel wraps the bubbles help component.
type HelpModel struct {
	help   help.Model
	keymap KeyMap
}

// NewHelpModel creates a new help overlay model.
func NewHelpModel(keymap KeyMap) HelpModel {
	h := help.New()
	h.ShowAll = true

	return HelpModel{
		help:   h,
		keymap: keymap,
	}
}

// View renders the full help overlay.
func (m HelpModel) View(width int) string {
	m.help.Width = width - 8 // Account for padding and border
	m.help.ShowAll = true
	return HelpOverlayStyle.Render(m.help.View(m.keymap))
}

// ShortView renders the single-line key hints.
func (m HelpModel) ShortView(width int) string {
	m.help.Width = width
	m.help.ShowAll = false
	return m.help.View(m.keymap)
}
