package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"imagestyle/internal/earnings"

	"github.com/gorilla/websocket"
)

// Event is one message of the live appointment feed.
type Event struct {
	Type        string                `json:"type"`
	Appointment *earnings.Appointment `json:"appointment,omitempty"`
}

// Subscribe opens the live feed and calls fn for every event until ctx is
// done or the server closes the feed. fn runs on the reading goroutine.
func (c *HTTPClient) Subscribe(ctx context.Context, fn func(Event)) error {
	u, err := c.feedURL()
	if err != nil {
		return err
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		if resp != nil && resp.StatusCode != http.StatusSwitchingProtocols {
			return &APIError{Status: resp.StatusCode, Message: "live feed refused"}
		}
		return fmt.Errorf("dial live feed: %w", err)
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		var ev Event
		if err := conn.ReadJSON(&ev); err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read live feed: %w", err)
		}
		fn(ev)
	}
}

func (c *HTTPClient) feedURL() (string, error) {
	u, err := url.Parse(c.baseURL + "/ws/appointments")
	if err != nil {
		return "", err
	}
	switch strings.ToLower(u.Scheme) {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", errors.New("unsupported base url scheme " + u.Scheme)
	}
	u.RawQuery = url.Values{"token": {c.token}}.Encode()
	return u.String(), nil
}
