// Package client implements the single shared HTTP gateway to the
// procurement backend. Authentication and tenant headers are attached to
// every outgoing request and every failure is coerced into the standardized
// error shape, so endpoint wrappers get session-expiry handling for free.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/constrogen/procure"
	"github.com/constrogen/procure/storage"
	"github.com/google/uuid"
	"golang.org/x/net/publicsuffix"
)

// Client is the HTTP gateway. One instance is bound to a fixed base URL and
// timeout at process start and shared by every endpoint wrapper.
type Client struct {
	baseURL    string
	store      storage.Store
	httpClient *http.Client
	timeout    time.Duration
	logout     func()
	logger     procure.Logger
	debug      bool
	listener   Listener
}

// New creates a client bound to baseURL. The store is consulted read-only on
// every request for the persisted authentication blob.
func New(baseURL string, store storage.Store, options ...Option) (*Client, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/") + "/",
		store:   store,
		timeout: procure.DefaultTimeout,
		logger:  procure.DefaultLogger,
	}
	for _, opt := range options {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Jar: jar}
	}
	if c.httpClient.Timeout == 0 {
		c.httpClient.Timeout = c.timeout
	}
	return c, nil
}

// Do issues a request against an endpoint relative to the base URL and
// returns the raw response body. Failures are returned as *procure.Error, or
// *procure.SessionExpiredError when the backend rejected the access token.
func (c *Client) Do(ctx context.Context, method, endpoint string, params url.Values, body interface{}) ([]byte, error) {
	requestURL := c.baseURL + strings.TrimPrefix(endpoint, "/")
	if len(params) > 0 {
		separator := "?"
		if strings.Contains(requestURL, "?") {
			separator = "&"
		}
		requestURL += separator + params.Encode()
	}
	var reader io.Reader
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return nil, procure.NewTransportError(fmt.Sprintf("failed to marshal request: %v", err))
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, requestURL, reader)
	if err != nil {
		return nil, procure.NewTransportError(err.Error())
	}
	c.prepare(ctx, req)
	if c.debug {
		c.logger.Debugf("api request: %s %s headers=%v body=%s", method, requestURL, req.Header, payload)
	}
	c.notify(&Event{Method: method, URL: requestURL, Header: req.Header, Body: payload})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.notify(&Event{Method: method, URL: requestURL, Err: err})
		return nil, procure.NewTransportError(err.Error())
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, procure.NewTransportError(err.Error())
	}
	if c.debug {
		c.logger.Debugf("api response: %s %s status=%d body=%s", method, requestURL, resp.StatusCode, data)
	}
	c.notify(&Event{Method: method, URL: requestURL, Status: resp.StatusCode, Header: resp.Header, Body: data})
	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return data, nil
	}
	return nil, c.responseError(resp.StatusCode, data)
}

// prepare attaches content, correlation, bearer and tenant headers. The
// blob is read from storage on every request so the client always sees the
// latest session without holding state of its own.
func (c *Client) prepare(ctx context.Context, req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(procure.HeaderRequestID, uuid.New().String())
	info := &procure.AuthInfo{}
	if ok := c.store.Get(ctx, procure.AuthInfoKey, info); !ok {
		return
	}
	if !info.Authenticated() {
		return
	}
	req.Header.Set(procure.HeaderAuthorization, "Bearer "+info.AccessToken())
	if account, ok := info.AccountHeader(); ok {
		req.Header.Set(procure.HeaderAccount, account)
	}
}

// tokenErrorBody is the backend payload shape for authentication failures.
type tokenErrorBody struct {
	Code     string `json:"code"`
	Messages []struct {
		Message string `json:"message"`
	} `json:"messages"`
	Message string `json:"message"`
}

func (b *tokenErrorBody) expired() bool {
	if b.Code != procure.CodeTokenNotValid {
		return false
	}
	for _, item := range b.Messages {
		if item.Message == procure.MessageTokenExpired {
			return true
		}
	}
	return false
}

// responseError coerces a non-2xx response into the standardized error
// shape. The expired-token case additionally fires the logout callback
// without awaiting it.
func (c *Client) responseError(status int, body []byte) error {
	payload := &tokenErrorBody{}
	_ = json.Unmarshal(body, payload)
	if payload.expired() {
		if c.logout != nil {
			go c.logout()
		}
		return procure.NewSessionExpiredError(body)
	}
	message := payload.Message
	if message == "" {
		message = http.StatusText(status)
	}
	return procure.NewError(status, message, body)
}

func (c *Client) notify(event *Event) {
	if c.listener != nil {
		c.listener(event)
	}
}

// Get issues a GET request and decodes the response body into T.
func Get[T any](ctx context.Context, c *Client, endpoint string, params url.Values) (T, error) {
	return decode[T](c.Do(ctx, http.MethodGet, endpoint, params, nil))
}

// Post issues a POST request and decodes the response body into T.
func Post[T any](ctx context.Context, c *Client, endpoint string, body interface{}) (T, error) {
	return decode[T](c.Do(ctx, http.MethodPost, endpoint, nil, body))
}

// Put issues a PUT request and decodes the response body into T.
func Put[T any](ctx context.Context, c *Client, endpoint string, body interface{}) (T, error) {
	return decode[T](c.Do(ctx, http.MethodPut, endpoint, nil, body))
}

// Delete issues a DELETE request and decodes the response body into T.
func Delete[T any](ctx context.Context, c *Client, endpoint string) (T, error) {
	return decode[T](c.Do(ctx, http.MethodDelete, endpoint, nil, nil))
}

func decode[T any](data []byte, err error) (T, error) {
	var out T
	if err != nil {
		return out, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return out, nil
	}
	if err = json.Unmarshal(data, &out); err != nil {
		return out, procure.NewTransportError(fmt.Sprintf("failed to decode response: %v", err))
	}
	return out, nil
}
