// Package gateway provides the HTTP client for the GiftRedeem API
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// Envelope is the uniform response wrapper every endpoint uses.
// Code 0 means success; any other value is a server-defined error.
type Envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// TokenSource supplies the current bearer token. An empty string means
// the call goes out unauthenticated.
type TokenSource func() string

// Notifier receives the user-visible message for every failed call.
// The CLI wires this to the terminal printer; the gateway never formats
// output itself.
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to the Notifier interface
type NotifierFunc func(message string)

// Notify implements Notifier
func (f NotifierFunc) Notify(message string) { f(message) }

// Request describes one API call
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   interface{}
}

// Options configures a Client
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Token      TokenSource
	Notifier   Notifier
	Logger     *slog.Logger
	// RateLimit caps outbound requests per second; zero disables limiting
	RateLimit float64
}

// Client executes API calls against the GiftRedeem backend. It holds no
// per-call state and is safe for concurrent use.
type Client struct {
	baseURL  string
	http     *http.Client
	token    TokenSource
	notifier Notifier
	logger   *slog.Logger
	limiter  *rate.Limiter

	mu             sync.Mutex
	onUnauthorized func()
}

// NewClient creates a gateway client
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = NotifierFunc(func(string) {})
	}
	token := opts.Token
	if token == nil {
		token = func() string { return "" }
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	return &Client{
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		http:     httpClient,
		token:    token,
		notifier: notifier,
		logger:   logger,
		limiter:  limiter,
	}
}

// OnUnauthorized registers the observer invoked when any call comes back
// with HTTP 401. The session store registers its invalidation here; the
// observer fires exactly once per failing call, before the error is
// returned, regardless of what the caller does with the error.
func (c *Client) OnUnauthorized(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = fn
}

func (c *Client) unauthorizedObserver() func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.onUnauthorized
}

// Execute performs the request and returns the envelope's data payload
func (c *Client) Execute(ctx context.Context, req Request) (json.RawMessage, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, c.failNetwork("request canceled while rate limited", err)
		}
	}

	reqURL := c.baseURL + req.Path
	if len(req.Query) > 0 {
		reqURL += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, c.failNetwork("encoding request body failed", err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, reqURL, body)
	if err != nil {
		return nil, c.failNetwork("building request failed", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if token := c.token(); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	c.logger.Debug("executing API call",
		"method", req.Method,
		"path", req.Path,
	)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, c.failNetwork("network error: "+err.Error(), err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.failNetwork("reading response failed", err)
	}

	var env Envelope
	parseErr := json.Unmarshal(raw, &env)

	// HTTP 401 invalidates the session no matter what the body says and
	// no matter whether the caller intends to handle the error.
	if resp.StatusCode == http.StatusUnauthorized {
		msg := "session expired, please log in again"
		if parseErr == nil && env.Msg != "" {
			msg = env.Msg
		}
		c.logger.Debug("unauthorized response", "path", req.Path)
		if fn := c.unauthorizedObserver(); fn != nil {
			fn()
		}
		c.notifier.Notify(msg)
		return nil, &UnauthorizedError{Msg: msg}
	}

	if parseErr != nil {
		msg := fmt.Sprintf("server returned status %d with an unreadable response", resp.StatusCode)
		return nil, c.failNetwork(msg, parseErr)
	}

	if env.Code != 0 {
		msg := env.Msg
		if msg == "" {
			msg = "unknown error"
		}
		c.logger.Debug("API call failed",
			"path", req.Path,
			"code", env.Code,
			"msg", env.Msg,
		)
		c.notifier.Notify(msg)
		return nil, &DomainError{Code: env.Code, Msg: msg}
	}

	return env.Data, nil
}

// Get performs a GET request
func (c *Client) Get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	return c.Execute(ctx, Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post performs a POST request
func (c *Client) Post(ctx context.Context, path string, body interface{}) (json.RawMessage, error) {
	return c.Execute(ctx, Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put performs a PUT request
func (c *Client) Put(ctx context.Context, path string, body interface{}) (json.RawMessage, error) {
	return c.Execute(ctx, Request{Method: http.MethodPut, Path: path, Body: body})
}

// failNetwork notifies and wraps a transport-level failure
func (c *Client) failNetwork(msg string, err error) error {
	c.logger.Debug("network failure", "error", err, "msg", msg)
	c.notifier.Notify(msg)
	return &NetworkError{Msg: msg, Err: err}
}
