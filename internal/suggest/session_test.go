package suggest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// fastOptions keeps timers short so the full flow runs in milliseconds.
func fastOptions() Options {
	return Options{
		Delay:     15 * time.Millisecond,
		MinChars:  2,
		BlurGrace: 40 * time.Millisecond,
	}
}

// countingLookup records every query it was asked for.
type countingLookup struct {
	mu      sync.Mutex
	queries []string
	items   []string
	err     error
}

func (c *countingLookup) fn(ctx context.Context, q string) ([]string, error) {
	c.mu.Lock()
	c.queries = append(c.queries, q)
	c.mu.Unlock()
	return c.items, c.err
}

func (c *countingLookup) calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.queries...)
}

func TestSessionNoLookupBelowMinChars(t *testing.T) {
	lk := &countingLookup{items: []string{"covid"}}
	s := NewSession(lk.fn, nil, fastOptions())
	defer s.Close()

	s.Focus()
	s.SetQuery("c")
	time.Sleep(80 * time.Millisecond)

	if got := lk.calls(); len(got) != 0 {
		t.Errorf("lookup called %v for a 1-char query, want none", got)
	}
	if st := s.Snapshot().State; st != StateIdle {
		t.Errorf("state = %v, want idle", st)
	}
}

func TestSessionDebounceCarriesFinalQuery(t *testing.T) {
	lk := &countingLookup{items: []string{"covid in India"}}
	s := NewSession(lk.fn, nil, fastOptions())
	defer s.Close()

	s.Focus()
	// A burst of keystrokes faster than the delay: one request, the
	// final text.
	for _, q := range []string{"co", "cov", "covi", "covid"} {
		s.SetQuery(q)
		time.Sleep(2 * time.Millisecond)
	}

	waitUntil(t, func() bool { return len(lk.calls()) > 0 })
	time.Sleep(60 * time.Millisecond)

	got := lk.calls()
	if len(got) != 1 || got[0] != "covid" {
		t.Errorf("lookup calls = %v, want [covid]", got)
	}
	snap := s.Snapshot()
	if !snap.Open || len(snap.Suggestions) != 1 {
		t.Errorf("snapshot = %+v, want open with 1 suggestion", snap)
	}
}

func TestSessionTrimsBeforeLookup(t *testing.T) {
	lk := &countingLookup{items: []string{"flu"}}
	s := NewSession(lk.fn, nil, fastOptions())
	defer s.Close()

	s.Focus()
	s.SetQuery("  flu trends  ")
	waitUntil(t, func() bool { return len(lk.calls()) > 0 })

	if got := lk.calls(); got[0] != "flu trends" {
		t.Errorf("lookup query = %q, want %q", got[0], "flu trends")
	}
}

func TestSessionStaleResultDropped(t *testing.T) {
	release := make(chan struct{})
	var mu sync.Mutex
	var calls int

	lookup := func(ctx context.Context, q string) ([]string, error) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 1 {
			<-release
			return []string{"stale"}, nil
		}
		return []string{"fresh"}, nil
	}

	s := NewSession(lookup, nil, fastOptions())
	defer s.Close()
	s.Focus()

	s.SetQuery("cov")
	waitUntil(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls == 1
	})

	s.SetQuery("covid")
	waitUntil(t, func() bool { return s.Snapshot().Open })
	close(release)
	time.Sleep(60 * time.Millisecond)

	snap := s.Snapshot()
	if len(snap.Suggestions) != 1 || snap.Suggestions[0] != "fresh" {
		t.Errorf("suggestions = %v, want [fresh]", snap.Suggestions)
	}
}

func TestSessionLookupErrorFailsSilent(t *testing.T) {
	lk := &countingLookup{err: errors.New("boom")}
	s := NewSession(lk.fn, nil, fastOptions())
	defer s.Close()

	s.Focus()
	s.SetQuery("covid")
	waitUntil(t, func() bool { return len(lk.calls()) > 0 })
	time.Sleep(30 * time.Millisecond)

	snap := s.Snapshot()
	if snap.Open || len(snap.Suggestions) != 0 {
		t.Errorf("snapshot = %+v, want closed with no suggestions", snap)
	}
	if snap.State != StateIdle {
		t.Errorf("state = %v, want idle after a failed lookup", snap.State)
	}
}

func openSession(t *testing.T, items []string) *Session {
	t.Helper()
	lk := &countingLookup{items: items}
	s := NewSession(lk.fn, nil, fastOptions())
	t.Cleanup(s.Close)
	s.Focus()
	s.SetQuery("covid")
	waitUntil(t, func() bool { return s.Snapshot().Open })
	return s
}

func TestSessionHighlightWraps(t *testing.T) {
	s := openSession(t, []string{"a", "b", "c"})

	steps := []struct {
		move func()
		want int
	}{
		{s.MoveUp, 2},   // from no highlight, up lands on the last item
		{s.MoveDown, 0}, // wraps past the end
		{s.MoveDown, 1},
		{s.MoveDown, 2},
		{s.MoveDown, 0},
		{s.MoveUp, 2},
	}
	for i, st := range steps {
		st.move()
		if got := s.Snapshot().Highlighted; got != st.want {
			t.Fatalf("step %d: highlighted = %d, want %d", i, got, st.want)
		}
	}
}

func TestSessionMoveDownFromNoHighlight(t *testing.T) {
	s := openSession(t, []string{"a", "b"})
	s.MoveDown()
	if got := s.Snapshot().Highlighted; got != 0 {
		t.Errorf("highlighted = %d, want 0", got)
	}
}

// commitRecorder captures committed queries and lets tests hold the
// commit open to probe the busy flag.
type commitRecorder struct {
	mu      sync.Mutex
	queries []string
	hold    chan struct{}
}

func (c *commitRecorder) fn(ctx context.Context, q string) error {
	c.mu.Lock()
	c.queries = append(c.queries, q)
	c.mu.Unlock()
	if c.hold != nil {
		<-c.hold
	}
	return nil
}

func (c *commitRecorder) committed() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.queries...)
}

func TestSessionEnterCommitsHighlighted(t *testing.T) {
	lk := &countingLookup{items: []string{"covid in India", "covid in World"}}
	rec := &commitRecorder{}
	s := NewSession(lk.fn, rec.fn, fastOptions())
	defer s.Close()

	s.Focus()
	s.SetQuery("covid")
	waitUntil(t, func() bool { return s.Snapshot().Open })

	s.MoveDown()
	s.Enter()

	waitUntil(t, func() bool { return len(rec.committed()) == 1 })
	if got := rec.committed()[0]; got != "covid in India" {
		t.Errorf("committed %q, want the highlighted suggestion", got)
	}
	waitUntil(t, func() bool { return !s.Snapshot().Busy })
	snap := s.Snapshot()
	if snap.Open {
		t.Error("list still open after commit")
	}
	if snap.Query != "covid in India" || snap.LastCommitted != "covid in India" {
		t.Errorf("query/lastCommitted = %q/%q, want the committed text", snap.Query, snap.LastCommitted)
	}
}

func TestSessionEnterWithoutHighlightCommitsTyped(t *testing.T) {
	lk := &countingLookup{items: []string{"covid in India"}}
	rec := &commitRecorder{}
	s := NewSession(lk.fn, rec.fn, fastOptions())
	defer s.Close()

	s.Focus()
	s.SetQuery("  covid  ")
	waitUntil(t, func() bool { return s.Snapshot().Open })
	s.Enter()

	waitUntil(t, func() bool { return len(rec.committed()) == 1 })
	if got := rec.committed()[0]; got != "covid" {
		t.Errorf("committed %q, want the trimmed typed query", got)
	}
}

func TestSessionSelectCommitsClicked(t *testing.T) {
	lk := &countingLookup{items: []string{"covid in India", "covid in World"}}
	rec := &commitRecorder{}
	s := NewSession(lk.fn, rec.fn, fastOptions())
	defer s.Close()

	s.Focus()
	s.SetQuery("covid")
	waitUntil(t, func() bool { return s.Snapshot().Open })

	// A click commits the clicked row regardless of the highlight.
	s.Select(1)

	waitUntil(t, func() bool { return len(rec.committed()) == 1 })
	if got := rec.committed()[0]; got != "covid in World" {
		t.Errorf("committed %q, want the clicked suggestion", got)
	}
	waitUntil(t, func() bool { return !s.Snapshot().Busy })
	if snap := s.Snapshot(); snap.LastCommitted != "covid in World" {
		t.Errorf("lastCommitted = %q, want the clicked suggestion", snap.LastCommitted)
	}
}

func TestSessionSelectOutOfRangeIsNoOp(t *testing.T) {
	lk := &countingLookup{items: []string{"covid in India"}}
	rec := &commitRecorder{}
	s := NewSession(lk.fn, rec.fn, fastOptions())
	defer s.Close()

	s.Focus()
	s.SetQuery("covid")
	waitUntil(t, func() bool { return s.Snapshot().Open })

	s.Select(-1)
	s.Select(5)
	time.Sleep(30 * time.Millisecond)

	if got := rec.committed(); len(got) != 0 {
		t.Errorf("committed %v from out-of-range clicks, want nothing", got)
	}
	if !s.Snapshot().Open {
		t.Error("out-of-range click closed the list")
	}
}

func TestSessionSelectWhileClosedIsNoOp(t *testing.T) {
	rec := &commitRecorder{}
	s := NewSession(nil, rec.fn, fastOptions())
	defer s.Close()

	s.Focus()
	s.Select(0)
	time.Sleep(30 * time.Millisecond)

	if got := rec.committed(); len(got) != 0 {
		t.Errorf("committed %v with no list open, want nothing", got)
	}
}

func TestSessionCommitSingleFlight(t *testing.T) {
	rec := &commitRecorder{hold: make(chan struct{})}
	s := NewSession(nil, rec.fn, fastOptions())
	defer s.Close()

	s.Focus()
	s.SetQuery("xx") // matches nothing, but gives Commit a query
	s.Commit()
	waitUntil(t, func() bool { return len(rec.committed()) == 1 })

	// A second gesture while the first commit is still running is a no-op.
	s.Commit()
	time.Sleep(30 * time.Millisecond)
	close(rec.hold)
	waitUntil(t, func() bool { return !s.Snapshot().Busy })

	if got := rec.committed(); len(got) != 1 {
		t.Errorf("commit ran %d times, want 1", len(got))
	}
}

func TestSessionCommittedQueryNotResuggested(t *testing.T) {
	lk := &countingLookup{items: []string{"covid in India"}}
	rec := &commitRecorder{}
	s := NewSession(lk.fn, rec.fn, fastOptions())
	defer s.Close()

	s.Focus()
	s.SetQuery("covid")
	waitUntil(t, func() bool { return s.Snapshot().Open })
	s.MoveDown()
	s.Enter()
	waitUntil(t, func() bool { return !s.Snapshot().Busy })

	before := len(lk.calls())
	// The commit wrote the suggestion back into the input; that echo
	// must not open a new suggestion round.
	s.SetQuery("covid in India")
	time.Sleep(80 * time.Millisecond)

	if after := len(lk.calls()); after != before {
		t.Errorf("lookup fired %d extra times for the just-committed query", after-before)
	}
	if s.Snapshot().Open {
		t.Error("list reopened for the just-committed query")
	}
}

func TestSessionSeededLastCommitted(t *testing.T) {
	lk := &countingLookup{items: []string{"flu shots"}}
	opts := fastOptions()
	opts.LastCommitted = "flu shots"
	s := NewSession(lk.fn, nil, opts)
	defer s.Close()

	s.Focus()
	s.SetQuery("flu shots")
	time.Sleep(80 * time.Millisecond)

	if got := lk.calls(); len(got) != 0 {
		t.Errorf("lookup called %v for the seeded committed query, want none", got)
	}
}

func TestSessionEscapeDismisses(t *testing.T) {
	s := openSession(t, []string{"a", "b"})

	s.Escape()
	snap := s.Snapshot()
	if snap.Open || len(snap.Suggestions) != 0 {
		t.Errorf("snapshot = %+v, want dismissed with no suggestions", snap)
	}
	if snap.State != StateDismissed {
		t.Errorf("state = %v, want dismissed", snap.State)
	}
}

func TestSessionBlurGraceDismisses(t *testing.T) {
	s := openSession(t, []string{"a"})

	s.Blur()
	// Within the grace window the list is still up.
	if !s.Snapshot().Open {
		t.Error("list closed before the blur grace elapsed")
	}
	waitUntil(t, func() bool { return s.Snapshot().State == StateDismissed })
	if s.Snapshot().Focused {
		t.Error("still focused after blur landed")
	}
}

func TestSessionFocusCancelsBlur(t *testing.T) {
	s := openSession(t, []string{"a"})

	s.Blur()
	s.Focus()
	time.Sleep(60 * time.Millisecond)

	snap := s.Snapshot()
	if !snap.Focused {
		t.Error("refocus did not stick")
	}
	if snap.State == StateDismissed {
		t.Error("blur landed despite a refocus inside the grace window")
	}
}

func TestSessionEventsOnCommit(t *testing.T) {
	rec := &commitRecorder{}
	s := NewSession(nil, rec.fn, fastOptions())
	defer s.Close()
	events := s.Subscribe()

	s.Focus()
	s.SetQuery("covid")
	s.Commit()

	var got []EventType
	deadline := time.After(2 * time.Second)
	for len(got) < 2 {
		select {
		case e := <-events:
			if e.Type == EventSuggestions {
				continue
			}
			got = append(got, e.Type)
		case <-deadline:
			t.Fatalf("timed out, events so far: %v", got)
		}
	}
	if got[0] != EventCommitted || got[1] != EventDone {
		t.Errorf("events = %v, want [committed done]", got)
	}
}

func TestSessionCommitErrorEmitsError(t *testing.T) {
	wantErr := errors.New("search failed")
	commit := func(ctx context.Context, q string) error { return wantErr }
	s := NewSession(nil, commit, fastOptions())
	defer s.Close()
	events := s.Subscribe()

	s.Focus()
	s.SetQuery("covid")
	s.Commit()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case e := <-events:
			if e.Type == EventError {
				if !errors.Is(e.Err, wantErr) {
					t.Errorf("event err = %v, want %v", e.Err, wantErr)
				}
				return
			}
		case <-deadline:
			t.Fatal("no error event for a failing commit")
		}
	}
}

func TestSessionCancelledCommitStaysSilent(t *testing.T) {
	commit := func(ctx context.Context, q string) error { return context.Canceled }
	s := NewSession(nil, commit, fastOptions())
	defer s.Close()
	events := s.Subscribe()

	s.Focus()
	s.SetQuery("covid")
	s.Commit()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case e := <-events:
			if e.Type == EventError {
				t.Fatal("cancellation surfaced as an error event")
			}
			if e.Type == EventDone {
				return
			}
		case <-deadline:
			t.Fatal("no done event")
		}
	}
}
