// Package links resolves committed queries to ranked reference items
// and implements quick-open: jump straight to the top-ranked source.
package links

import (
	"context"
	"os/exec"
	"runtime"
	"strings"
	"sync"

	"github.com/calebmorse/healthdesk/internal/api"
	"github.com/calebmorse/healthdesk/internal/logging"
)

// NoSourcesNotice is shown when quick-open finds nothing to open.
const NoSourcesNotice = "No sources found for this query."

// Opener opens a URL in an external context (normally the browser).
type Opener interface {
	Open(url string) error
}

// ExecOpener shells out to the platform opener.
type ExecOpener struct{}

// Open launches the default handler for url.
func (ExecOpener) Open(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}

// Resolver fails softly: transport and parse failures yield an empty
// item list plus a recorded message, never an error past this boundary.
type Resolver struct {
	client *api.Client
	opener Opener

	mu      sync.Mutex
	lastErr string
}

// NewResolver creates a resolver. A nil opener falls back to ExecOpener.
func NewResolver(client *api.Client, opener Opener) *Resolver {
	if opener == nil {
		opener = ExecOpener{}
	}
	return &Resolver{client: client, opener: opener}
}

// Resolve fetches the ranked reference list for query. On failure it
// returns an empty list and records a display message; the last error
// wins when several occur in sequence.
func (r *Resolver) Resolve(ctx context.Context, query string) []api.ReferenceItem {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	items, err := r.client.Links(ctx, query)
	if err != nil {
		if !api.IsCancelled(err) {
			logging.Warn("link resolution failed", "query", query, "err", err)
			r.setError("Could not fetch sources: " + err.Error())
		}
		return nil
	}

	r.setError("")
	return items
}

// ResolveAndOpenFirst resolves query and opens the top item's URL in a
// new context. The navigation side effect happens at most once per
// call. The returned notice is non-empty when nothing was opened.
func (r *Resolver) ResolveAndOpenFirst(ctx context.Context, query string) (opened bool, notice string) {
	items := r.Resolve(ctx, query)
	if len(items) == 0 {
		return false, NoSourcesNotice
	}

	top := items[0]
	if top.URL == "" {
		return false, NoSourcesNotice
	}
	if err := r.opener.Open(top.URL); err != nil {
		logging.Warn("open url failed", "url", top.URL, "err", err)
		return false, "Could not open " + top.URL
	}
	logging.Info("quick-open", "query", query, "url", top.URL)
	return true, ""
}

// LastError returns the recorded display message for the most recent
// failure, or "" when the last resolution succeeded.
func (r *Resolver) LastError() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}

func (r *Resolver) setError(msg string) {
	r.mu.Lock()
	r.lastErr = msg
	r.mu.Unlock()
}
