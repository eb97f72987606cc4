// Package apiclient wraps net/http with a single base URL and interceptor
// hooks run around every request.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// RequestInterceptor may inspect or replace an outgoing request before it is sent.
type RequestInterceptor func(req *http.Request) (*http.Request, error)

// ErrorInterceptor sees every error before it is returned to the caller.
// Returning nil keeps the incoming error; errors cannot be swallowed.
type ErrorInterceptor func(err error) error

// PassRequest forwards the request unchanged.
func PassRequest(req *http.Request) (*http.Request, error) { return req, nil }

// PassError forwards the error unchanged.
func PassError(err error) error { return err }

type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *logrus.Logger
}

// Response is a fully read reply.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// StatusError reports a non-2xx reply.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(string(e.Body))
	if body == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.StatusCode, body)
}

type Client struct {
	baseURL string
	http    *http.Client
	logger  *logrus.Logger

	mu       sync.RWMutex
	requests []RequestInterceptor
	errs     []ErrorInterceptor
}

func New(cfg Config) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		return nil, fmt.Errorf("api base url is required")
	}
	parsed, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("api base url must be http or https, got %q", parsed.Scheme)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}

	return &Client{
		baseURL:  strings.TrimRight(base, "/"),
		http:     httpClient,
		logger:   cfg.Logger,
		requests: []RequestInterceptor{PassRequest},
		errs:     []ErrorInterceptor{PassError},
	}, nil
}

// BaseURL returns the endpoint every path is resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// UseRequest appends a request interceptor. Interceptors run in registration order.
func (c *Client) UseRequest(i RequestInterceptor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests = append(c.requests, i)
}

// UseError appends an error interceptor. Interceptors run in registration order.
func (c *Client) UseError(i ErrorInterceptor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errs = append(c.errs, i)
}

// Do sends method to baseURL/path with body JSON-encoded when non-nil.
func (c *Client) Do(ctx context.Context, method, path string, body any) (*Response, error) {
	resp, err := c.do(ctx, method, path, body)
	if err != nil {
		return nil, c.interceptError(err)
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*Response, error) {
	target := c.resolve(path)

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s body: %w", method, target, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	req, err = c.interceptRequest(req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, target, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s %s response: %w", method, target, err)
	}

	c.logger.WithFields(logrus.Fields{
		"method":   method,
		"url":      target,
		"status":   res.StatusCode,
		"duration": time.Since(start),
	}).Debug("api request")

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &StatusError{
			Method:     method,
			URL:        target,
			StatusCode: res.StatusCode,
			Body:       data,
		}
	}

	return &Response{
		StatusCode: res.StatusCode,
		Header:     res.Header,
		Body:       data,
	}, nil
}

func (c *Client) resolve(path string) string {
	path = strings.TrimLeft(path, "/")
	if path == "" {
		return c.baseURL
	}
	return c.baseURL + "/" + path
}

func (c *Client) interceptRequest(req *http.Request) (*http.Request, error) {
	c.mu.RLock()
	chain := append([]RequestInterceptor(nil), c.requests...)
	c.mu.RUnlock()

	for _, intercept := range chain {
		next, err := intercept(req)
		if err != nil {
			return nil, fmt.Errorf("request interceptor: %w", err)
		}
		if next != nil {
			req = next
		}
	}
	return req, nil
}

func (c *Client) interceptError(err error) error {
	c.mu.RLock()
	chain := append([]ErrorInterceptor(nil), c.errs...)
	c.mu.RUnlock()

	for _, intercept := range chain {
		if next := intercept(err); next != nil {
			err = next
		}
	}
	return err
}
