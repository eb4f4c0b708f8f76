package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/calebmorse/healthdesk/internal/suggest"
)

// maxVisibleSuggestions caps the dropdown height.
const maxVisibleSuggestions = 8

// SearchBox wires a text input to a suggestion session and renders the
// dropdown. The page search box and the header quick-search are both
// this component with different sessions behind them.
type SearchBox struct {
	name    string
	input   textinput.Model
	session *suggest.Session
	width   int
}

// NewSearchBox creates a box named name around session.
func NewSearchBox(name, placeholder, prompt string, session *suggest.Session) SearchBox {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = prompt
	ti.CharLimit = 200

	return SearchBox{
		name:    name,
		input:   ti,
		session: session,
	}
}

// Name returns the box's surface name.
func (b SearchBox) Name() string { return b.name }

// Focus activates the box for typing.
func (b *SearchBox) Focus() tea.Cmd {
	b.session.Focus()
	b.input.Focus()
	return textinput.Blink
}

// Blur deactivates the box. The session dismisses after its grace delay.
func (b *SearchBox) Blur() {
	b.session.Blur()
	b.input.Blur()
}

// Focused reports whether the box currently has input focus.
func (b SearchBox) Focused() bool { return b.input.Focused() }

// SetWidth sets the rendered width.
func (b *SearchBox) SetWidth(w int) {
	b.width = w
	b.input.Width = w - 6
}

// Update routes a message. Navigation and commit keys go to the
// session; everything else feeds the text input.
func (b SearchBox) Update(msg tea.Msg) (SearchBox, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && b.input.Focused() {
		switch key.String() {
		case "down":
			b.session.MoveDown()
			return b, nil
		case "up":
			b.session.MoveUp()
			return b, nil
		case "enter":
			b.session.Enter()
			return b, nil
		case "esc":
			b.session.Escape()
			return b, nil
		}
	}

	oldValue := b.input.Value()
	var cmd tea.Cmd
	b.input, cmd = b.input.Update(msg)
	if v := b.input.Value(); v != oldValue {
		b.session.SetQuery(v)
	}
	return b, cmd
}

// HandleSessionEvent syncs the input with session-driven changes.
func (b *SearchBox) HandleSessionEvent(e suggest.Event) {
	if e.Type == suggest.EventCommitted {
		b.input.SetValue(e.Query)
		b.input.CursorEnd()
	}
}

// Listen returns a command waiting for the next session event. The
// timeout re-polls so the loop never wedges on a quiet session.
func (b SearchBox) Listen() tea.Cmd {
	name := b.name
	ch := b.session.Subscribe()
	return func() tea.Msg {
		select {
		case e := <-ch:
			return SessionEventMsg{Box: name, Event: e}
		case <-time.After(5 * time.Second):
			return SessionEventMsg{Box: name}
		}
	}
}

// View renders the input plus the dropdown when the session is open.
func (b SearchBox) View() string {
	var sb strings.Builder
	sb.WriteString(b.input.View())

	snap := b.session.Snapshot()
	if !snap.Open {
		return sb.String()
	}

	// Scroll the window so the highlighted row stays visible.
	start := 0
	if snap.Highlighted >= maxVisibleSuggestions {
		start = snap.Highlighted - maxVisibleSuggestions + 1
	}
	end := start + maxVisibleSuggestions
	if end > len(snap.Suggestions) {
		end = len(snap.Suggestions)
	}

	for i := start; i < end; i++ {
		s := snap.Suggestions[i]
		sb.WriteString("\n")
		if i == snap.Highlighted {
			sb.WriteString(SelectedSuggestion.Render("› " + s))
		} else {
			sb.WriteString(NormalSuggestion.Render("  " + s))
		}
	}
	if end < len(snap.Suggestions) {
		sb.WriteString("\n")
		sb.WriteString(HelpStyle.Render("  ↓ more below"))
	}
	return sb.String()
}
