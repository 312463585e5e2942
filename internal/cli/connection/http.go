package connection

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"

	"github.com/yndnr/ipadmin-go/internal/telemetry/logger"
	"github.com/yndnr/ipadmin-go/internal/telemetry/metric"
)

const (
	// RefreshEndpoint issues a new access token from the refresh cookie.
	RefreshEndpoint = "/api/auth/refresh-token"

	// DefaultTimeout bounds a single HTTP attempt.
	DefaultTimeout = 10 * time.Second

	maxBodySize = 10 << 20
)

// Request describes one API call. It is not modified by Send.
type Request struct {
	Endpoint string
	Method   string
	Body     any
	Params   url.Values
	// Silent suppresses the success notification.
	Silent bool
}

// Options configures a Client. Zero values select defaults.
type Options struct {
	Timeout time.Duration
	// RateLimit is the sustained requests per second; 0 disables limiting.
	RateLimit float64
	Burst     int
	UserAgent string
	Notifier  Notifier
	Logger    logger.Logger
	Metrics   *metric.Registry
	// Transport overrides the HTTP transport, mainly for tests.
	Transport http.RoundTripper
	// Jar holds the refresh cookie. Clients sharing a jar share the login.
	Jar http.CookieJar
}

// Client is the single call surface to the backend. It attaches the
// session bearer token, refreshes once on 401 and notifies the user of
// outcomes.
type Client struct {
	baseURL   string
	session   *Session
	http      *http.Client
	limiter   *rate.Limiter
	notifier  Notifier
	log       logger.Logger
	metrics   *metric.Registry
	userAgent string
}

// NewClient creates a client for server. A scheme-less server gets http://.
func NewClient(server string, session *Session, opts Options) (*Client, error) {
	baseURL, err := NormalizeServer(server)
	if err != nil {
		return nil, err
	}
	if session == nil {
		session = NewSession("")
	}

	jar := opts.Jar
	if jar == nil {
		if jar, err = newJar(); err != nil {
			return nil, err
		}
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	c := &Client{
		baseURL:   baseURL,
		session:   session,
		limiter:   limiter,
		notifier:  opts.Notifier,
		log:       opts.Logger,
		metrics:   opts.Metrics,
		userAgent: opts.UserAgent,
		http: &http.Client{
			Timeout:   timeout,
			Jar:       jar,
			Transport: opts.Transport,
		},
	}
	if c.notifier == nil {
		c.notifier = NopNotifier{}
	}
	if c.log == nil {
		c.log = logger.Default()
	}
	if c.metrics == nil {
		c.metrics = metric.Global()
	}
	if c.userAgent == "" {
		c.userAgent = "ipadmin-cli"
	}
	return c, nil
}

func newJar() (http.CookieJar, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return jar, nil
}

// NormalizeServer validates a server address and returns it as a base URL
// without a trailing slash.
func NormalizeServer(server string) (string, error) {
	server = strings.TrimSpace(server)
	if server == "" {
		return "", errors.New("server address is empty")
	}
	if !strings.HasPrefix(server, "http://") && !strings.HasPrefix(server, "https://") {
		server = "http://" + server
	}
	u, err := url.Parse(server)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid server address %q", server)
	}
	return strings.TrimRight(server, "/"), nil
}

// BaseURL returns the base URL of the client.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Session returns the credential holder used by this client.
func (c *Client) Session() *Session {
	return c.session
}

// Do sends req and decodes a successful body into a new T.
func Do[T any](ctx context.Context, c *Client, req Request) (*T, error) {
	var out T
	if err := c.Send(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Send performs req and decodes a successful JSON body into out, which may
// be nil. A 401 triggers one token refresh and one replay of req. Errors
// are returned after the user has been notified.
func (c *Client) Send(ctx context.Context, req Request, out any) error {
	if req.Method == "" {
		req.Method = http.MethodGet
	}
	defer func() { c.metrics.SetSessionActive(c.session.Active()) }()

	retried := false
	for {
		status, body, err := c.attempt(ctx, req)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				c.notifyError(FallbackMessage)
			}
			return err
		}

		if status == http.StatusUnauthorized && !retried {
			retried = true
			rerr := c.refresh(ctx)
			if rerr == nil {
				continue
			}
			c.log.Debug("token refresh failed", "error", rerr)
			c.session.Clear()
		}

		if status < 200 || status >= 300 {
			apiErr := newAPIError(status, body)
			c.notifyError(apiErr.UserMessage())
			return apiErr
		}

		if out != nil && len(bytes.TrimSpace(body)) > 0 {
			if err := json.Unmarshal(body, out); err != nil {
				c.notifyError(FallbackMessage)
				return fmt.Errorf("parse response: %w", err)
			}
		}
		if !req.Silent {
			if msg := successMessage(req.Method); msg != "" {
				c.notifySuccess(msg)
			}
		}
		return nil
	}
}

// attempt performs one HTTP exchange for req with the current token.
func (c *Client) attempt(ctx context.Context, req Request) (int, []byte, error) {
	target := c.baseURL + req.Endpoint
	if len(req.Params) > 0 {
		target += "?" + req.Params.Encode()
	}

	var bodyReader io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return 0, nil, fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, bodyReader)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	c.addHeaders(httpReq, req.Body != nil)

	token := c.session.Token()
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	return c.exchange(ctx, httpReq, req.Endpoint, token != "")
}

// refresh asks the backend for a new access token. It is a separate path
// from Send: a failure here is never refreshed or retried.
func (c *Client) refresh(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+RefreshEndpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	c.addHeaders(httpReq, false)

	status, body, err := c.exchange(ctx, httpReq, RefreshEndpoint, false)
	if err != nil {
		c.metrics.RecordRefresh(metric.RefreshFailure)
		return err
	}
	if status != http.StatusOK {
		c.metrics.RecordRefresh(metric.RefreshFailure)
		return newAPIError(status, body)
	}

	var payload struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.AccessToken == "" {
		c.metrics.RecordRefresh(metric.RefreshFailure)
		return errors.New("refresh response has no access token")
	}

	c.session.Set(payload.AccessToken)
	c.metrics.RecordRefresh(metric.RefreshSuccess)
	return nil
}

func (c *Client) exchange(ctx context.Context, httpReq *http.Request, endpoint string, authenticated bool) (int, []byte, error) {
	requestID := ulid.Make().String()
	httpReq.Header.Set("X-Request-ID", requestID)

	ctx = logger.WithRequestID(ctx, requestID)
	log := logger.L(logger.WithLogger(ctx, c.log.WithContext(ctx)))
	route := routeLabel(endpoint)

	if err := c.limiter.Wait(ctx); err != nil {
		return 0, nil, &TransportError{Method: httpReq.Method, Endpoint: endpoint, Err: err}
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	elapsed := time.Since(start)
	if err != nil {
		c.metrics.RecordRequest(httpReq.Method, route, "error", elapsed.Seconds())
		log.Debug("api request failed", "method", httpReq.Method, "endpoint", endpoint, "error", err)
		return 0, nil, &TransportError{Method: httpReq.Method, Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return 0, nil, &TransportError{Method: httpReq.Method, Endpoint: endpoint, Err: fmt.Errorf("read body: %w", err)}
	}

	c.metrics.RecordRequest(httpReq.Method, route, strconv.Itoa(resp.StatusCode), elapsed.Seconds())
	log.Debug("api request",
		"method", httpReq.Method,
		"endpoint", endpoint,
		"status", resp.StatusCode,
		"authenticated", authenticated,
		"duration", elapsed,
	)
	return resp.StatusCode, body, nil
}

func (c *Client) addHeaders(req *http.Request, hasBody bool) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}
}

func (c *Client) notifySuccess(msg string) {
	c.metrics.RecordNotification("success")
	c.notifier.Success(msg)
}

func (c *Client) notifyError(msg string) {
	c.metrics.RecordNotification("error")
	c.notifier.Error(msg)
}

// routeLabel collapses numeric path segments so record IDs do not become
// metric label values.
func routeLabel(endpoint string) string {
	parts := strings.Split(endpoint, "/")
	for i, p := range parts {
		if p == "" {
			continue
		}
		if _, err := strconv.ParseUint(p, 10, 64); err == nil {
			parts[i] = ":id"
		}
	}
	return strings.Join(parts, "/")
}
