package ui

import (
	"testing"
	"time"

	"github.com/calebmorse/healthdesk/internal/api"
	"github.com/calebmorse/healthdesk/internal/control"
	"github.com/calebmorse/healthdesk/internal/links"
)

func newTestApp() App {
	client := api.NewClient("http://localhost:0", time.Second)
	ctrl := control.NewSearchController(client, links.NewResolver(client, nil))
	return NewApp(ctrl, SearchBox{}, SearchBox{}, 3)
}

func TestControlListenerRearmsAfterTimeout(t *testing.T) {
	app := newTestApp()

	// The listener's timeout branch delivers an empty event. Update must
	// hand back a replacement listener for it, or the controller channel
	// goes unread forever after the first quiet five seconds.
	model, cmd := app.Update(ControlEventMsg{})
	if cmd == nil {
		t.Fatal("no replacement listener after a timeout re-poll")
	}

	got := model.(App)
	if got.searching || got.payload != nil || got.notice != "" || got.errMsg != "" {
		t.Errorf("timeout re-poll mutated state: %+v", got)
	}
}

func TestControlEventUpdatesResults(t *testing.T) {
	app := newTestApp()

	payload := &api.ResponsePayload{
		Summary: "Flu activity is rising.",
		Series: []api.SeriesPoint{
			{Date: "2024-01", Value: api.Num(2.1)},
			{Date: "2024-02", Value: api.Num(3.4)},
		},
	}
	model, cmd := app.Update(ControlEventMsg{
		Type:    control.EventSearchCompleted,
		Query:   "flu trends",
		Payload: payload,
	})
	if cmd == nil {
		t.Fatal("no replacement listener after a completion event")
	}

	got := model.(App)
	if got.payload != payload {
		t.Error("payload not stored")
	}
	if len(got.detail) != 2 || got.detail[0].Date != "2024-01" {
		t.Errorf("detail = %+v, want the trailing series window", got.detail)
	}
	if got.searching {
		t.Error("still searching after completion")
	}
}
