package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/firmscout/firmscout/internal/report"
)

// Run starts the interactive report browser.
func Run(r *report.Report) error {
	m := NewModel(r)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
