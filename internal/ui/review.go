package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	headerHeight = 1
	footerHeight = 1
)

type reviewKeyMap struct {
	Apply key.Binding
	Quit  key.Binding
}

var reviewKeys = reviewKeyMap{
	Apply: key.NewBinding(
		key.WithKeys("enter", "y"),
		key.WithHelp("enter", "apply"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "cancel"),
	),
}

// ReviewModel shows a plan in a scrollable viewport and waits for the
// user to apply or cancel it
type ReviewModel struct {
	title     string
	content   string
	viewport  viewport.Model
	ready     bool
	width     int
	confirmed bool
}

// NewReviewModel creates the review screen for rendered plan text
func NewReviewModel(title, content string) ReviewModel {
	return ReviewModel{
		title:   title,
		content: HighlightPlan(content),
	}
}

// Init implements tea.Model
func (m ReviewModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		height := msg.Height - headerHeight - footerHeight
		if height < 1 {
			height = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.viewport.SetContent(m.content)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, reviewKeys.Apply):
			m.confirmed = true
			return m, tea.Quit
		case key.Matches(msg, reviewKeys.Quit):
			m.confirmed = false
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View implements tea.Model
func (m ReviewModel) View() string {
	if !m.ready {
		return "Loading plan..."
	}

	header := FormatHeader(m.title, m.width)
	footer := FormatFooter(m.width,
		FormatKeybinding("enter", "apply"),
		FormatKeybinding("q", "cancel"),
		FormatKeybinding("↑/↓", "scroll"),
	)

	return lipgloss.JoinVertical(lipgloss.Left, header, m.viewport.View(), footer)
}

// Confirmed reports whether the user chose to apply the plan
func (m ReviewModel) Confirmed() bool {
	return m.confirmed
}

// HighlightPlan colors the action markers of a rendered plan
func HighlightPlan(content string) string {
	markers := []struct {
		prefix string
		style  lipgloss.Style
	}{
		{"KEEP:", SuccessStyle},
		{"DELETE:", ErrorStyle},
		{"SKIP:", WarningStyle},
		{"TARGET:", InfoStyle},
	}

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " ")
		indent := line[:len(line)-len(trimmed)]
		for _, mk := range markers {
			if strings.HasPrefix(trimmed, mk.prefix) {
				lines[i] = indent + mk.style.Render(mk.prefix) + trimmed[len(mk.prefix):]
				break
			}
		}
	}
	return strings.Join(lines, "\n")
}
