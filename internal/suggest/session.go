// Package suggest implements the query interaction engine: a debounced,
// cancellable as-you-type suggestion session with keyboard-driven
// selection. The same engine backs every search surface in the app;
// surfaces differ only in the options and the injected lookup/commit
// functions.
//
// # Concurrency
//
// A Session is safe for concurrent use. Timer and lookup callbacks
// arrive on their own goroutines; all state changes happen under one
// mutex, and only the most recently issued lookup may update state
// (older results are dropped by token comparison in the Guard).
//
// # Event Channel
//
// Subscribe() returns a buffered channel that receives events as the
// session changes. If the subscriber doesn't consume events fast
// enough, new events are dropped (non-blocking send).
package suggest

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/calebmorse/healthdesk/internal/api"
	"github.com/calebmorse/healthdesk/internal/logging"
)

// CommitFunc performs the action for a committed query: a full search,
// a quick-open, whatever the surface wants. It runs off the session
// goroutine; the session stays busy until it returns.
type CommitFunc func(ctx context.Context, query string) error

// State identifies where the session is in its lifecycle.
type State int

const (
	StateIdle State = iota
	StateDebouncing
	StateAwaiting
	StateOpen
	StateDismissed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDebouncing:
		return "debouncing"
	case StateAwaiting:
		return "awaiting"
	case StateOpen:
		return "open"
	case StateDismissed:
		return "dismissed"
	}
	return "unknown"
}

// EventType categorizes session events.
type EventType string

const (
	// EventSuggestions fires when the suggestion list changes,
	// including when it is cleared.
	EventSuggestions EventType = "suggestions"
	// EventCommitted fires exactly once per commit gesture.
	EventCommitted EventType = "committed"
	// EventDismissed fires when the list closes without a commit.
	EventDismissed EventType = "dismissed"
	// EventDone fires when a commit action finishes, successfully or not.
	EventDone EventType = "done"
	// EventError carries a user-visible failure from a commit action.
	EventError EventType = "error"
)

// Event is sent to subscribers when session state changes.
type Event struct {
	Type        EventType
	Query       string
	Suggestions []string
	Err         error
}

// Options tune a session for its surface.
type Options struct {
	Delay     time.Duration // quiet interval before a lookup fires
	MinChars  int           // shortest query that triggers suggestions
	BlurGrace time.Duration // delay before blur dismisses, allows a click to land
	// LastCommitted seeds the committed-query memory, so a surface
	// rebuilt mid-interaction doesn't re-suggest the query it just ran.
	LastCommitted string
}

// DefaultOptions are the page search box settings.
func DefaultOptions() Options {
	return Options{
		Delay:     220 * time.Millisecond,
		MinChars:  2,
		BlurGrace: 150 * time.Millisecond,
	}
}

// QuickOptions are the header quick-search settings. Same engine,
// slightly lazier timer.
func QuickOptions() Options {
	o := DefaultOptions()
	o.Delay = 250 * time.Millisecond
	return o
}

// Snapshot is a consistent read of the visible session state.
type Snapshot struct {
	State         State
	Query         string
	Suggestions   []string
	Highlighted   int
	Open          bool
	Focused       bool
	Busy          bool
	LastCommitted string
}

// Session is the suggestion state machine. Create one per mounted
// search surface and Close it when the surface goes away.
type Session struct {
	mu sync.Mutex

	opts   Options
	lookup LookupFunc
	commit CommitFunc

	state         State
	query         string
	suggestions   []string
	highlighted   int
	focused       bool
	busy          bool
	lastCommitted string

	deb       Debouncer
	guard     Guard
	blurTimer *time.Timer
	blurGen   uint64

	ctx    context.Context
	cancel context.CancelFunc
	events chan Event
}

// NewSession creates a session around the given lookup and commit
// functions. Zero option fields fall back to DefaultOptions values.
func NewSession(lookup LookupFunc, commit CommitFunc, opts Options) *Session {
	def := DefaultOptions()
	if opts.Delay <= 0 {
		opts.Delay = def.Delay
	}
	if opts.MinChars <= 0 {
		opts.MinChars = def.MinChars
	}
	if opts.BlurGrace <= 0 {
		opts.BlurGrace = def.BlurGrace
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		opts:          opts,
		lookup:        lookup,
		commit:        commit,
		state:         StateIdle,
		highlighted:   -1,
		lastCommitted: strings.TrimSpace(opts.LastCommitted),
		ctx:           ctx,
		cancel:        cancel,
		events:        make(chan Event, 16),
	}
}

// Subscribe returns the session's event channel.
func (s *Session) Subscribe() <-chan Event {
	return s.events
}

// Close tears the session down: pending timers and requests are
// cancelled and any in-flight commit context is revoked.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearPendingLocked()
	s.cancel()
}

// Snapshot returns a consistent copy of the visible state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		State:         s.state,
		Query:         s.query,
		Suggestions:   append([]string(nil), s.suggestions...),
		Highlighted:   s.highlighted,
		Open:          s.state == StateOpen,
		Focused:       s.focused,
		Busy:          s.busy,
		LastCommitted: s.lastCommitted,
	}
}

// SetQuery reacts to a keystroke changing the input to q.
func (s *Session) SetQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.query = q
	trimmed := strings.TrimSpace(q)

	if utf8.RuneCountInString(trimmed) < s.opts.MinChars || trimmed == s.lastCommitted {
		s.clearPendingLocked()
		if s.suggestions != nil {
			s.suggestions = nil
			s.highlighted = -1
			s.emitLocked(Event{Type: EventSuggestions, Query: trimmed})
		}
		if s.state != StateDismissed || s.focused {
			s.state = StateIdle
		}
		return
	}

	if !s.focused {
		return
	}

	s.state = StateDebouncing
	s.deb.Schedule(func() { s.fire(trimmed) }, s.opts.Delay)
}

// fire runs when the debounce timer elapses for query q.
func (s *Session) fire(q string) {
	s.mu.Lock()
	if s.state != StateDebouncing {
		s.mu.Unlock()
		return
	}
	s.state = StateAwaiting
	ctx := s.ctx
	s.mu.Unlock()

	s.guard.Do(ctx, q, s.lookup, func(items []string, err error) {
		s.deliver(q, items, err)
	})
}

// deliver applies a surviving lookup result. Errors degrade to an empty
// list: suggestions are an enhancement, not a critical path.
func (s *Session) deliver(q string, items []string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateAwaiting {
		return
	}

	if err != nil {
		if !api.IsCancelled(err) {
			logging.Debug("suggestion lookup failed", "query", q, "err", err)
		}
		items = nil
	}

	if len(items) == 0 {
		s.suggestions = nil
		s.highlighted = -1
		s.state = StateIdle
		s.emitLocked(Event{Type: EventSuggestions, Query: q})
		return
	}

	s.suggestions = items
	s.highlighted = -1
	if s.focused {
		s.state = StateOpen
	} else {
		s.state = StateIdle
	}
	s.emitLocked(Event{Type: EventSuggestions, Query: q, Suggestions: append([]string(nil), items...)})
}

// MoveDown advances the highlight, wrapping past the end.
func (s *Session) MoveDown() {
	s.move(1)
}

// MoveUp retreats the highlight, wrapping past the start.
func (s *Session) MoveUp() {
	s.move(-1)
}

func (s *Session) move(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateOpen || len(s.suggestions) == 0 {
		return
	}
	n := len(s.suggestions)
	if s.highlighted < 0 {
		if delta > 0 {
			s.highlighted = 0
		} else {
			s.highlighted = n - 1
		}
		return
	}
	s.highlighted = ((s.highlighted+delta)%n + n) % n
}

// Enter commits the highlighted suggestion, or the raw typed query when
// nothing is highlighted.
func (s *Session) Enter() {
	s.mu.Lock()
	q := strings.TrimSpace(s.query)
	if s.state == StateOpen && s.highlighted >= 0 && s.highlighted < len(s.suggestions) {
		q = s.suggestions[s.highlighted]
	}
	s.commitLocked(q)
}

// Commit runs the commit flow for the raw typed query, exactly as a
// submit button would.
func (s *Session) Commit() {
	s.mu.Lock()
	s.commitLocked(strings.TrimSpace(s.query))
}

// Select commits the suggestion at index i, as a mouse click on the
// dropdown would.
func (s *Session) Select(i int) {
	s.mu.Lock()
	if s.state != StateOpen || i < 0 || i >= len(s.suggestions) {
		s.mu.Unlock()
		return
	}
	s.commitLocked(s.suggestions[i])
}

// commitLocked finalizes q. Caller holds the lock; commitLocked releases it.
// The busy flag makes commits single-flight: a second gesture while one
// is running (Enter plus a submit double-fire, say) is a no-op.
func (s *Session) commitLocked(q string) {
	if q == "" || s.busy {
		s.mu.Unlock()
		return
	}

	s.busy = true
	s.clearPendingLocked()
	s.suggestions = nil
	s.highlighted = -1
	s.state = StateDismissed
	s.query = q
	s.lastCommitted = q
	commit := s.commit
	ctx := s.ctx
	s.emitLocked(Event{Type: EventCommitted, Query: q})
	s.mu.Unlock()

	go func() {
		var err error
		if commit != nil {
			err = commit(ctx, q)
		}

		s.mu.Lock()
		s.busy = false
		if s.focused && s.state == StateDismissed {
			s.state = StateIdle
		}
		if err != nil && !api.IsCancelled(err) {
			logging.Warn("commit failed", "query", q, "err", err)
			s.emitLocked(Event{Type: EventError, Query: q, Err: err})
		}
		s.emitLocked(Event{Type: EventDone, Query: q, Err: err})
		s.mu.Unlock()
	}()
}

// Escape closes the suggestion list without committing.
func (s *Session) Escape() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateOpen {
		return
	}
	s.dismissLocked()
}

// Focus marks the surface focused and reopens interaction.
func (s *Session) Focus() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.blurGen++
	if s.blurTimer != nil {
		s.blurTimer.Stop()
		s.blurTimer = nil
	}
	s.focused = true
	if s.state == StateDismissed {
		s.state = StateIdle
	}
}

// Blur schedules a dismissal after a short grace period, so a click on
// a suggestion still lands before the list disappears.
func (s *Session) Blur() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.blurGen++
	gen := s.blurGen
	if s.blurTimer != nil {
		s.blurTimer.Stop()
	}
	s.blurTimer = time.AfterFunc(s.opts.BlurGrace, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if gen != s.blurGen {
			return
		}
		s.focused = false
		s.dismissLocked()
		s.state = StateDismissed
	})
}

// dismissLocked closes the list and cancels anything pending.
func (s *Session) dismissLocked() {
	s.clearPendingLocked()
	s.suggestions = nil
	s.highlighted = -1
	s.state = StateDismissed
	s.emitLocked(Event{Type: EventDismissed, Query: strings.TrimSpace(s.query)})
}

func (s *Session) clearPendingLocked() {
	s.deb.Cancel()
	s.guard.Cancel()
}

// emitLocked sends without blocking; subscribers that lag lose events.
func (s *Session) emitLocked(e Event) {
	select {
	case s.events <- e:
	default:
	}
}
