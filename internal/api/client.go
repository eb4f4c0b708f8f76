// Package api implements the HTTP client for the remote health assistant
// service. The client owns request construction, response decoding, and
// error classification; everything above it (suggestion sessions, link
// resolution, the TUI) treats the service as opaque.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/calebmorse/healthdesk/internal/logging"
)

const maxBodyBytes = 10 << 20

// Client talks to the assistant service over HTTP/JSON.
type Client struct {
	baseURL string
	client  *http.Client

	// Suggest calls are keystroke-driven. The debouncer upstream keeps
	// the rate low in practice; the limiter is a backstop so a stuck
	// timer can never hammer the service.
	suggestLimiter *rate.Limiter
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		client:         &http.Client{Timeout: timeout},
		suggestLimiter: rate.NewLimiter(rate.Every(100*time.Millisecond), 3),
	}
}

// Search runs a full search for a committed query.
func (c *Client) Search(ctx context.Context, query string, filters map[string]any) (*ResponsePayload, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	body := map[string]any{"query": query}
	if len(filters) > 0 {
		body["filters"] = filters
	}

	var payload ResponsePayload
	if err := c.post(ctx, "search", "/search", body, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Suggest fetches as-you-type suggestions for a partial query.
// The returned order is the server's rank order.
func (c *Client) Suggest(ctx context.Context, q string) ([]string, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, ErrEmptyQuery
	}

	if err := c.suggestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := c.baseURL + "/search_suggest?q=" + url.QueryEscape(q)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &TransportError{Op: "suggest", Err: err}
	}

	var out struct {
		Suggestions []string `json:"suggestions"`
	}
	if err := c.do("suggest", req, &out); err != nil {
		return nil, err
	}
	return out.Suggestions, nil
}

// Links resolves a committed query to a ranked reference list.
func (c *Client) Links(ctx context.Context, query string) ([]ReferenceItem, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	body := map[string]any{"query": query, "mode": "links"}
	var out struct {
		Items []ReferenceItem `json:"items"`
	}
	if err := c.post(ctx, "links", "/search", body, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// Chat sends a message with the prior conversation turns.
func (c *Client) Chat(ctx context.Context, message string, history []ChatTurn) (*ResponsePayload, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyQuery
	}

	if history == nil {
		history = []ChatTurn{}
	}
	body := map[string]any{"message": message, "history": history}

	var payload ResponsePayload
	if err := c.post(ctx, "chat", "/chat", body, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *Client) post(ctx context.Context, op, path string, body, out any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return &MalformedResponse{Op: op, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(op, req, out)
}

func (c *Client) do(op string, req *http.Request, out any) error {
	t0 := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		// Surface cancellation as-is so callers can classify it.
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return ctxErr
		}
		logging.Error("API request failed", "op", op, "err", err)
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return ctxErr
		}
		return &TransportError{Op: op, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		logging.Warn("API error", "op", op, "status", resp.StatusCode, "elapsed", time.Since(t0))
		return &TransportError{Op: op, Status: resp.StatusCode}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &MalformedResponse{Op: op, Err: err}
	}

	logging.Debug("API response", "op", op, "bytes", len(body), "elapsed", time.Since(t0))
	return nil
}
