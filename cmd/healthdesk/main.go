// Command healthdesk is the terminal client for the health assistant
// service: a debounced as-you-type search box with suggestion
// navigation, plus a header quick-search that jumps straight to the
// top-ranked source.
package main

import (
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/calebmorse/healthdesk/internal/api"
	"github.com/calebmorse/healthdesk/internal/config"
	"github.com/calebmorse/healthdesk/internal/control"
	"github.com/calebmorse/healthdesk/internal/links"
	"github.com/calebmorse/healthdesk/internal/logging"
	"github.com/calebmorse/healthdesk/internal/suggest"
	"github.com/calebmorse/healthdesk/internal/ui"
)

func main() {
	if err := logging.Init(); err != nil {
		log.Printf("logging disabled: %v", err)
	}
	defer logging.Close()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	client := api.NewClient(cfg.Service.BaseURL, cfg.RequestTimeout())
	resolver := links.NewResolver(client, nil)
	ctrl := control.NewSearchController(client, resolver)

	// Both surfaces run the same engine; they differ only in timing
	// and in what a commit does.
	pageOpts := suggest.DefaultOptions()
	pageOpts.Delay = cfg.SuggestDelay()
	pageOpts.MinChars = cfg.Suggest.MinChars
	pageOpts.BlurGrace = cfg.BlurGrace()
	pageSession := suggest.NewSession(client.Suggest, ctrl.Search, pageOpts)
	defer pageSession.Close()

	quickOpts := suggest.QuickOptions()
	quickOpts.Delay = cfg.QuickDelay()
	quickOpts.MinChars = cfg.Suggest.MinChars
	quickOpts.BlurGrace = cfg.BlurGrace()
	quickSession := suggest.NewSession(client.Suggest, ctrl.QuickOpen, quickOpts)
	defer quickSession.Close()

	page := ui.NewSearchBox("page", "Ask about covid, flu, medicines, nutrition...", "? ", pageSession)
	quick := ui.NewSearchBox("quick", "quick open", "/ ", quickSession)

	app := ui.NewApp(ctrl, page, quick, cfg.UI.SeriesPoints)

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}
}
