package backendapi

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// IHttpStatusHandler receives the outcome of every upstream request
type IHttpStatusHandler interface {
	// OnRequest handles a request with its status result
	OnRequest(status string)
}

// ClientOptions configures timeouts and rate limiting for upstream requests
type ClientOptions struct {
	ConnectionTimeout time.Duration
	RequestTimeout    time.Duration
	RatePerSecond     float64
	Burst             int
	LogPrefix         string
}

// DefaultClientOptions returns default HTTP client options
func DefaultClientOptions() ClientOptions {
	return ClientOptions{
		ConnectionTimeout: 10 * time.Second,
		RequestTimeout:    30 * time.Second,
		RatePerSecond:     10,
		Burst:             5,
		LogPrefix:         "Backend",
	}
}

// HTTPClient executes requests against the marketplace backend.
// There is no retry logic: callers that can degrade do so on the first
// failure, and callers that cannot surface the error as-is.
type HTTPClient struct {
	Client        *http.Client
	Opts          ClientOptions
	StatusHandler IHttpStatusHandler
	limiter       *rate.Limiter
}

// NewHTTPClient creates an HTTP client with timeouts and a request rate limiter
func NewHTTPClient(opts ClientOptions, handler IHttpStatusHandler) *HTTPClient {
	client := &http.Client{
		Timeout: opts.RequestTimeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout: opts.ConnectionTimeout,
			}).DialContext,
		},
	}

	var limiter *rate.Limiter
	if opts.RatePerSecond > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), burst)
	}

	return &HTTPClient{
		Client:        client,
		Opts:          opts,
		StatusHandler: handler,
		limiter:       limiter,
	}
}

// Execute runs the request and returns the response body.
// Non-2xx statuses produce a *RequestError carrying the status and body text.
func (c *HTTPClient) Execute(req *http.Request) ([]byte, time.Duration, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			c.report("error")
			return nil, 0, fmt.Errorf("rate limiter wait failed: %w", err)
		}
	}

	requestStart := time.Now()
	resp, err := c.Client.Do(req)
	requestDuration := time.Since(requestStart)

	if err != nil {
		c.report("error")
		return nil, requestDuration, fmt.Errorf("request failed after %.2fs: %w", requestDuration.Seconds(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.report("error")
		return nil, requestDuration, fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.report("upstream_error")
		return nil, requestDuration, &RequestError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	c.report("success")
	return body, requestDuration, nil
}

func (c *HTTPClient) report(status string) {
	if c.StatusHandler != nil {
		c.StatusHandler.OnRequest(status)
	}
}
