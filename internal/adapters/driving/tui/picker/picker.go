// Package picker provides a bubbletea list for choosing a stored credential.
package picker

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/portal-login/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/portal-login/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/portal-login/internal/core/domain"
)

// MaxVisible is the number of rows rendered at once.
const MaxVisible = 10

// Model lists credentials by username, filtered by typed text.
// Passwords are never rendered.
type Model struct {
	creds    []domain.Credential
	visible  []int
	cursor   int
	filter   string
	choice   *domain.Credential
	quitting bool
	width    int

	keys   *keymap.KeyMap
	styles *styles.Styles
}

// New creates a picker over creds.
func New(creds []domain.Credential) *Model {
	m := &Model{
		creds:  creds,
		width:  80,
		keys:   keymap.DefaultKeyMap(),
		styles: styles.DefaultStyles(),
	}
	m.applyFilter()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Cancel):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Select):
			if m.cursor < len(m.visible) {
				c := m.creds[m.visible[m.cursor]]
				m.choice = &c
			}
			return m, tea.Quit

		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}

		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.visible)-1 {
				m.cursor++
			}

		case key.Matches(msg, m.keys.Erase):
			if r := []rune(m.filter); len(r) > 0 {
				m.filter = string(r[:len(r)-1])
				m.applyFilter()
			}

		case key.Matches(msg, m.keys.Clear):
			m.filter = ""
			m.applyFilter()

		case msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace:
			if msg.Type == tea.KeySpace {
				m.filter += " "
			} else {
				m.filter += string(msg.Runes)
			}
			m.applyFilter()
		}
	}

	return m, nil
}

func (m *Model) applyFilter() {
	m.cursor = 0
	m.visible = m.visible[:0]
	needle := strings.ToLower(m.filter)
	for i, c := range m.creds {
		if needle == "" || strings.Contains(strings.ToLower(c.Username), needle) {
			m.visible = append(m.visible, i)
		}
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.choice != nil || m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Select a credential"))
	b.WriteString("\n\n")

	if m.filter != "" {
		b.WriteString(m.styles.Filter.Render("Filter: " + m.filter))
	} else {
		b.WriteString(m.styles.Muted.Render("Type to filter..."))
	}
	b.WriteString("\n\n")

	if len(m.visible) == 0 {
		b.WriteString(m.styles.Muted.Render("No matches found"))
		b.WriteString("\n")
	} else {
		start := 0
		if m.cursor >= MaxVisible {
			start = m.cursor - MaxVisible + 1
		}
		end := min(start+MaxVisible, len(m.visible))

		for i := start; i < end; i++ {
			name := m.creds[m.visible[i]].Username
			if i == m.cursor {
				b.WriteString(m.styles.Selected.Render("> " + name))
			} else {
				b.WriteString(m.styles.Normal.Render("  " + name))
			}
			b.WriteString("\n")
		}

		if len(m.visible) > MaxVisible {
			b.WriteString("\n")
			b.WriteString(m.styles.Muted.Render(fmt.Sprintf("Showing %d-%d of %d",
				start+1, end, len(m.visible))))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(m.styles.Help.Render(helpLine(m.keys.ShortHelp())))

	return b.String()
}

func helpLine(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		parts = append(parts, h.Key+": "+h.Desc)
	}
	return strings.Join(parts, " • ")
}

// Choice returns the selected credential, or nil if the picker was cancelled.
func (m *Model) Choice() *domain.Credential {
	return m.choice
}

// Cancelled reports whether the user closed the picker without choosing.
func (m *Model) Cancelled() bool {
	return m.quitting
}

// Run shows the picker on the given terminal streams and blocks until the
// user chooses or cancels. A nil credential means cancelled.
func Run(creds []domain.Credential, in io.Reader, out io.Writer) (*domain.Credential, error) {
	m := New(creds)
	p := tea.NewProgram(m, tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("picker: %w", err)
	}
	return final.(*Model).Choice(), nil
}
