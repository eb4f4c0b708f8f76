package ui

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/calebmorse/healthdesk/internal/api"
	"github.com/calebmorse/healthdesk/internal/control"
	"github.com/calebmorse/healthdesk/internal/narrate"
	"github.com/calebmorse/healthdesk/internal/suggest"
)

// App is the root Bubble Tea model. It owns two search surfaces over
// the same engine: the page search box (full search on commit) and the
// header quick-search (quick-open on commit). Results land in the
// controller's event channel and are rendered below.
type App struct {
	ctrl *control.SearchController

	page  SearchBox
	quick SearchBox

	payload *api.ResponsePayload
	detail  []api.SeriesPoint
	notice  string
	errMsg  string

	seriesPoints int
	spinner      spinner.Model
	searching    bool
	width        int
	height       int
	ready        bool
}

// NewApp assembles the root model. The boxes arrive pre-wired to their
// sessions; seriesPoints is how many trailing points to show inline.
func NewApp(ctrl *control.SearchController, page, quick SearchBox, seriesPoints int) App {
	s := spinner.New()
	s.Spinner = spinner.Dot

	if seriesPoints <= 0 {
		seriesPoints = narrate.DefaultWindow
	}
	return App{
		ctrl:         ctrl,
		page:         page,
		quick:        quick,
		seriesPoints: seriesPoints,
		spinner:      s,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.page.Focus(),
		a.page.Listen(),
		a.quick.Listen(),
		a.listenForControlEvents(),
		a.spinner.Tick,
	)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.page.SetWidth(msg.Width - 4)
		a.quick.SetWidth(min(40, msg.Width/2))
		a.ready = true
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case SessionEventMsg:
		a.handleSessionEvent(msg)
		// Re-arm the listener for whichever box emitted.
		if msg.Box == a.page.Name() {
			cmds = append(cmds, a.page.Listen())
		} else {
			cmds = append(cmds, a.quick.Listen())
		}

	case ControlEventMsg:
		a.handleControlEvent(control.Event(msg))
		cmds = append(cmds, a.listenForControlEvents())

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return a, tea.Batch(cmds...)
}

func (a App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit

	case "tab":
		// Toggle focus between the page box and the quick-search.
		var cmd tea.Cmd
		if a.page.Focused() {
			a.page.Blur()
			cmd = a.quick.Focus()
		} else {
			a.quick.Blur()
			cmd = a.page.Focus()
		}
		return a, cmd
	}

	var cmd tea.Cmd
	if a.page.Focused() {
		a.page, cmd = a.page.Update(msg)
	} else if a.quick.Focused() {
		a.quick, cmd = a.quick.Update(msg)
	}
	return a, cmd
}

func (a *App) handleSessionEvent(msg SessionEventMsg) {
	e := msg.Event
	if e.Type == "" {
		return // listener timeout re-poll
	}

	if msg.Box == a.page.Name() {
		a.page.HandleSessionEvent(e)
	} else {
		a.quick.HandleSessionEvent(e)
	}

	switch e.Type {
	case suggest.EventCommitted:
		a.notice = ""
		a.errMsg = ""
	case suggest.EventError:
		a.searching = false
		a.errMsg = errorMessage(e.Err)
	case suggest.EventDone:
		a.searching = false
	}
}

func (a *App) handleControlEvent(e control.Event) {
	if e.Type == "" {
		return // listener timeout re-poll
	}

	switch e.Type {
	case control.EventSearchStarted:
		a.searching = true
	case control.EventSearchCompleted, control.EventChatCompleted:
		a.searching = false
		a.payload = e.Payload
		a.detail = narrate.LastPoints(e.Payload, a.seriesPoints)
		a.errMsg = ""
	case control.EventOpened:
		a.notice = "Opened top source in your browser."
	case control.EventNotice:
		a.notice = e.Notice
	}
}

// errorMessage maps an internal error to the single user-visible line.
func errorMessage(err error) string {
	if err == nil {
		return ""
	}
	var te *api.TransportError
	if errors.As(err, &te) {
		return "The service could not be reached. Check your connection and try again."
	}
	var me *api.MalformedResponse
	if errors.As(err, &me) {
		return "The service sent an unexpected response. Please try again."
	}
	return "Something went wrong: " + err.Error()
}

// listenForControlEvents waits for the next controller event, with a
// timeout re-poll so the loop never wedges.
func (a App) listenForControlEvents() tea.Cmd {
	ch := a.ctrl.Subscribe()
	return func() tea.Msg {
		select {
		case e := <-ch:
			return ControlEventMsg(e)
		case <-time.After(5 * time.Second):
			return ControlEventMsg{}
		}
	}
}

// View implements tea.Model.
func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}

	var sb strings.Builder

	// Header: title left, quick-search right.
	title := Header.Render("HEALTHDESK")
	sb.WriteString(title)
	sb.WriteString("  ")
	sb.WriteString(a.quick.View())
	sb.WriteString("\n\n")

	sb.WriteString(a.page.View())
	sb.WriteString("\n\n")

	if a.errMsg != "" {
		sb.WriteString(ErrorStyle.Width(a.width).Render(a.errMsg))
		sb.WriteString("\n")
	}
	if a.notice != "" {
		sb.WriteString(NoticeStyle.Render(a.notice))
		sb.WriteString("\n")
	}

	if a.searching {
		sb.WriteString(a.spinner.View())
		sb.WriteString(" Searching...\n")
	} else {
		sb.WriteString(renderResults(a.payload, a.detail, a.width-4))
	}

	sb.WriteString("\n")
	sb.WriteString(StatusBar.Width(a.width).Render(
		"tab: switch box  ↑↓: navigate  enter: search/open  esc: dismiss  ctrl+c: quit"))

	return sb.String()
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
