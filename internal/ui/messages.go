// Package ui provides the Bubble Tea TUI for healthdesk.
package ui

import (
	"github.com/calebmorse/healthdesk/internal/control"
	"github.com/calebmorse/healthdesk/internal/suggest"
)

// SessionEventMsg wraps a suggestion session event for the tea loop.
// Box names which search surface it came from.
type SessionEventMsg struct {
	Box   string
	Event suggest.Event
}

// ControlEventMsg wraps a controller event for the tea loop.
type ControlEventMsg control.Event
