package client

import (
	"net/http"
	"time"

	"github.com/constrogen/procure"
)

// Option mutates Client.
type Option func(*Client)

// Event describes an outgoing request or its response for diagnostics.
type Event struct {
	Method string
	URL    string
	Status int
	Header http.Header
	Body   []byte
	Err    error
}

// Listener observes requests and responses; it never alters behavior.
type Listener func(event *Event)

// WithHTTPClient allows custom http.Client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout overrides the default per-call timeout.
func WithTimeout(duration time.Duration) Option {
	return func(c *Client) {
		if duration <= 0 {
			return
		}
		c.timeout = duration
	}
}

// WithLogout injects the callback fired when the backend reports the access
// token as invalid or expired. The client never awaits it.
func WithLogout(logout func()) Option {
	return func(c *Client) {
		c.logout = logout
	}
}

// WithLogger overrides the diagnostic logger.
func WithLogger(logger procure.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDebug enables request/response logging. Meant for development
// runtimes only; it must stay off in production builds.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithListener sets a listener that observes requests and responses.
func WithListener(listener Listener) Option {
	return func(c *Client) {
		c.listener = listener
	}
}
