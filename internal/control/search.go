// Package control sits between the API client and the UI, in the same
// shape as a classic controller layer: the UI asks for work, results
// come back on an event channel. Commit actions from suggestion
// sessions land here.
package control

import (
	"context"
	"strings"
	"sync"

	"github.com/calebmorse/healthdesk/internal/api"
	"github.com/calebmorse/healthdesk/internal/links"
	"github.com/calebmorse/healthdesk/internal/logging"
)

// EventType categorizes controller events.
type EventType string

const (
	EventSearchStarted   EventType = "search_started"
	EventSearchCompleted EventType = "search_completed"
	EventChatCompleted   EventType = "chat_completed"
	EventOpened          EventType = "opened"
	EventNotice          EventType = "notice"
)

// Event is sent to subscribers when an action progresses.
type Event struct {
	Type    EventType
	Query   string
	Payload *api.ResponsePayload // populated on completion events
	Notice  string               // populated on EventNotice
}

// SearchController runs commit actions against the service and streams
// outcomes to the UI. Events are sent non-blocking on a buffered
// channel; a lagging subscriber loses events rather than stalling an
// action.
type SearchController struct {
	client   *api.Client
	resolver *links.Resolver
	events   chan Event

	mu      sync.Mutex
	history []api.ChatTurn
}

// NewSearchController creates a controller around client and resolver.
func NewSearchController(client *api.Client, resolver *links.Resolver) *SearchController {
	return &SearchController{
		client:   client,
		resolver: resolver,
		events:   make(chan Event, 10),
	}
}

// Subscribe returns the controller's event channel.
func (c *SearchController) Subscribe() <-chan Event {
	return c.events
}

// Search runs a full search for a committed query. Suitable as a
// session CommitFunc: the error return is the user-visible failure.
func (c *SearchController) Search(ctx context.Context, query string) error {
	c.emit(Event{Type: EventSearchStarted, Query: query})

	payload, err := c.client.Search(ctx, query, nil)
	if err != nil {
		return err
	}

	c.emit(Event{Type: EventSearchCompleted, Query: query, Payload: payload})
	return nil
}

// QuickOpen resolves a committed query and opens the top source.
// Resolution failures degrade to the "no sources" notice; quick-open
// never errors past this point.
func (c *SearchController) QuickOpen(ctx context.Context, query string) error {
	opened, notice := c.resolver.ResolveAndOpenFirst(ctx, query)
	if opened {
		c.emit(Event{Type: EventOpened, Query: query})
		return nil
	}
	if msg := c.resolver.LastError(); msg != "" {
		notice = msg
	}
	c.emit(Event{Type: EventNotice, Query: query, Notice: notice})
	return nil
}

// Chat sends a committed message with the running conversation history.
// History lives only in memory for the life of the controller.
func (c *SearchController) Chat(ctx context.Context, message string) error {
	c.mu.Lock()
	history := append([]api.ChatTurn(nil), c.history...)
	c.mu.Unlock()

	payload, err := c.client.Chat(ctx, message, history)
	if err != nil {
		return err
	}

	reply := strings.TrimSpace(payload.Reply)
	if reply == "" {
		reply = strings.TrimSpace(payload.Summary)
	}
	c.mu.Lock()
	c.history = append(c.history, api.ChatTurn{Role: "user", Content: message})
	if reply != "" {
		c.history = append(c.history, api.ChatTurn{Role: "assistant", Content: reply})
	}
	c.mu.Unlock()

	c.emit(Event{Type: EventChatCompleted, Query: message, Payload: payload})
	return nil
}

func (c *SearchController) emit(e Event) {
	select {
	case c.events <- e:
	default:
		logging.Debug("controller event dropped", "type", string(e.Type))
	}
}
