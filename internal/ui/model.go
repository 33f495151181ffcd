// ABOUTME: Bubbletea model for the console scoreboard
// ABOUTME: Polls the actor and renders scores, owner, and winner
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandigames/dominacao/internal/app"
)

// refreshInterval is the scoreboard poll cadence.
const refreshInterval = 250 * time.Millisecond

// StatusMsg carries a fresh match snapshot into the model.
type StatusMsg app.Snapshot

// errMsg reports a failed actor query.
type errMsg struct{ err error }

// tickMsg schedules the next poll.
type tickMsg struct{}

// Model represents the scoreboard state
type Model struct {
	client    app.Client
	snap      app.Snapshot
	threshold time.Duration
	err       error
	width     int
	height    int
}

// NewModel creates a scoreboard model polling client.
func NewModel(client app.Client, threshold time.Duration) Model {
	return Model{
		client:    client,
		threshold: threshold,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.poll(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// poll queries the actor off the UI goroutine.
func (m Model) poll() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		snap, err := client.Snapshot()
		if err != nil {
			return errMsg{err}
		}
		return StatusMsg(snap)
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tickMsg:
		return m, tea.Batch(m.poll(), tick())
	case StatusMsg:
		m.snap = app.Snapshot(msg)
		m.err = nil
	case errMsg:
		m.err = msg.err
	}

	return m, nil
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "s":
		client := m.client
		return m, func() tea.Msg {
			if err := client.StartGame(); err != nil {
				return errMsg{err}
			}
			return nil
		}
	case "x":
		client := m.client
		return m, func() tea.Msg {
			if err := client.StopGame(); err != nil {
				return errMsg{err}
			}
			return nil
		}
	}
	return m, nil
}

// View renders the scoreboard
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	s := "┌─ Dominacao ──────────────────────────────────────────┐\n"
	s += fmt.Sprintf("│ %-52s │\n", m.statusLine())
	s += "├──────────────────────────────────────────────────────┤\n"
	s += m.renderTeam("Red ", m.snap.Scores.Red)
	s += m.renderTeam("Blue", m.snap.Scores.Blue)
	s += "├──────────────────────────────────────────────────────┤\n"
	if m.err != nil {
		s += fmt.Sprintf("│ Error: %-45s │\n", truncate(m.err.Error(), 45))
	}
	s += "│ s:Start  x:Stop  q:Quit                              │\n"
	s += "└──────────────────────────────────────────────────────┘\n"

	return s
}

func (m Model) statusLine() string {
	if m.snap.Winner != nil {
		return fmt.Sprintf("%s wins!", strings.ToUpper(m.snap.Winner.String()))
	}
	if !m.snap.Active {
		return "No match running"
	}
	if m.snap.Owner != nil {
		return fmt.Sprintf("Match running — %s holds the point", m.snap.Owner.String())
	}
	return "Match running — point unclaimed"
}

func (m Model) renderTeam(label string, d time.Duration) string {
	held := ""
	if m.snap.Owner != nil && strings.EqualFold(strings.TrimSpace(label), m.snap.Owner.String()) {
		held = " ◀"
	}
	bar := renderBar(d, m.threshold, 20)
	return fmt.Sprintf("│ %s [%s] %6.1fs%-2s%-16s │\n",
		label, bar, d.Seconds(), held, "")
}

// renderBar draws a progress bar of width chars.
func renderBar(value, max time.Duration, width int) string {
	if max <= 0 {
		return strings.Repeat("░", width)
	}
	filled := int(float64(width) * float64(value) / float64(max))
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// truncate shortens s to max characters.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max < 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
