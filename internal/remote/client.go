// Package remote reaches a running coordinator over its JSON API so the
// panel can run as a separate process.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"toxshield/internal/host"
	"toxshield/internal/models"
	"toxshield/internal/router"
)

// ErrRemote wraps error envelopes returned by the coordinator.
var ErrRemote = errors.New("coordinator error")

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  string          `json:"error"`
}

// Client talks to one coordinator.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for the coordinator at baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Call implements router.Caller against POST /api/messages.
func (c *Client) Call(ctx context.Context, t models.MessageType, payload any, out any) error {
	msg := models.Message{Type: t}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode %s payload: %w", t, err)
		}
		msg.Payload = raw
	}
	return c.do(ctx, http.MethodPost, "/api/messages", msg, out)
}

// ActiveTab finds the active tab among the coordinator's open tabs.
func (c *Client) ActiveTab(ctx context.Context) (models.TabID, error) {
	var list []models.TabStateResponse
	if err := c.do(ctx, http.MethodGet, "/api/tabs", nil, &list); err != nil {
		return 0, err
	}
	for _, st := range list {
		if st.Active {
			return st.TabID, nil
		}
	}
	return 0, host.ErrNoActiveTab
}

// TabLink returns a caller that forwards REQUEST_ANALYZE_NOW to tab.
func (c *Client) TabLink(id models.TabID) (router.Caller, error) {
	return tabCaller{client: c, tab: id}, nil
}

type tabCaller struct {
	client *Client
	tab    models.TabID
}

func (tc tabCaller) Call(ctx context.Context, t models.MessageType, payload any, out any) error {
	if t != models.MsgRequestAnalyzeNow {
		return fmt.Errorf("%w: %s", router.ErrUnhandled, t)
	}
	path := "/api/tabs/" + strconv.Itoa(int(tc.tab)) + "/analyze-now"
	return tc.client.do(ctx, http.MethodPost, path, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		r = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%s %s: status %d: %w", method, path, resp.StatusCode, err)
	}
	if env.Status != models.StatusOK {
		if tabErr := tabStatusError(resp.StatusCode); tabErr != nil {
			return fmt.Errorf("%w: %w: %s %s: %s", ErrRemote, tabErr, method, path, env.Error)
		}
		return fmt.Errorf("%w: %s %s: %d %s", ErrRemote, method, path, resp.StatusCode, env.Error)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}

// tabStatusError maps the tab API's error statuses back to host errors.
func tabStatusError(status int) error {
	switch status {
	case http.StatusNotFound:
		return host.ErrTabNotFound
	case http.StatusConflict:
		return host.ErrNoObserver
	default:
		return nil
	}
}
