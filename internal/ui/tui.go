// ABOUTME: TUI initialization and control
// ABOUTME: Wraps the bubbletea program for the scoreboard
package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandigames/dominacao/internal/app"
)

// Run starts the scoreboard TUI and blocks until the user quits.
func Run(client app.Client, threshold time.Duration) error {
	p := tea.NewProgram(NewModel(client, threshold), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
