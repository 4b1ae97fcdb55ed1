package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ccswitch.dev/cli/internal/core/domain"
)

const cursorMarker = "❯"

var (
	selectorTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("86"))

	selectorHintStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245"))

	selectorCursorStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("86"))

	selectorRowStyle = lipgloss.NewStyle()

	selectorActiveRowStyle = lipgloss.NewStyle().
				Bold(true)
)

// RunSelector shows the interactive entry list and blocks until the user
// picks an entry or cancels. It returns the selected index, or -1 on cancel.
// An empty list is reported as ErrNoConfigurations before the terminal is
// touched. Bubble Tea owns the terminal raw-mode resource and restores it on
// every exit path, including panics inside the loop.
func RunSelector(entries domain.EntryList) (int, error) {
	if len(entries) == 0 {
		return -1, domain.ErrNoConfigurations
	}

	program := tea.NewProgram(newSelectorModel(entries), tea.WithAltScreen())

	final, err := program.Run()
	if err != nil {
		return -1, fmt.Errorf("selector failed: %w", err)
	}

	model, ok := final.(selectorModel)
	if !ok || model.cancelled {
		return -1, nil
	}
	return model.choice, nil
}

// selectorModel is the Bubble Tea state for the configuration list. The
// entries are fixed for the life of the program; only the cursor moves.
type selectorModel struct {
	entries   domain.EntryList
	nameWidth int
	cursor    int
	choice    int
	cancelled bool
}

func newSelectorModel(entries domain.EntryList) selectorModel {
	return selectorModel{
		entries:   entries,
		nameWidth: entries.NameWidth(),
		choice:    -1,
	}
}

// Init implements the Bubble Tea init method
func (m selectorModel) Init() tea.Cmd {
	return nil
}

// Update implements the Bubble Tea update method
func (m selectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Redraw at the current cursor; nothing to reposition.
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			m.cursor = (m.cursor - 1 + len(m.entries)) % len(m.entries)
			return m, nil

		case "down", "j":
			m.cursor = (m.cursor + 1) % len(m.entries)
			return m, nil

		case "enter":
			m.choice = m.cursor
			return m, tea.Quit

		case "esc", "q", "ctrl+c":
			m.cancelled = true
			return m, tea.Quit
		}
	}

	return m, nil
}

// View implements the Bubble Tea view method
func (m selectorModel) View() string {
	title := selectorTitleStyle.Render("Claude Code Configuration Selector")
	hint := selectorHintStyle.Render("Use ↑/↓ to navigate, Enter to select, Esc/q to quit")

	rows := make([]string, 0, len(m.entries))
	for i, entry := range m.entries {
		label := entry.Label(m.nameWidth)

		if i == m.cursor {
			rows = append(rows, selectorCursorStyle.Render(cursorMarker+" ")+selectorActiveRowStyle.Render(label))
		} else {
			rows = append(rows, "  "+selectorRowStyle.Render(label))
		}
	}

	list := lipgloss.JoinVertical(lipgloss.Left, rows...)

	return lipgloss.JoinVertical(lipgloss.Left, title, hint, "", list) + "\n"
}
