// Copyright 2025 the original author or authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package overpass posts queries to an Overpass API interpreter.
package overpass

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultURL is the public Overpass interpreter.
const DefaultURL = "https://overpass-api.de/api/interpreter"

type clientOptions struct {
	url       string
	timeout   time.Duration
	retries   int
	retryWait time.Duration
	userAgent string
}

// Option configures a Client.
type Option func(*clientOptions)

// WithURL sets the interpreter URL.
func WithURL(url string) Option {
	return func(o *clientOptions) {
		o.url = url
	}
}

// WithTimeout sets the timeout of one attempt.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = d
	}
}

// WithRetries sets how many times a failed query is retried.
func WithRetries(n int) Option {
	return func(o *clientOptions) {
		o.retries = n
	}
}

// WithRetryWait sets the initial wait between retries.
func WithRetryWait(d time.Duration) Option {
	return func(o *clientOptions) {
		o.retryWait = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *clientOptions) {
		o.userAgent = ua
	}
}

var defaultClientOptions = clientOptions{
	url:       DefaultURL,
	timeout:   10 * time.Minute,
	retries:   3,
	retryWait: 5 * time.Second,
	userAgent: "addrcheck",
}

// Client runs Overpass queries.
type Client struct {
	url  string
	http *resty.Client
}

// NewClient creates a Client.
func NewClient(opts ...Option) *Client {
	o := defaultClientOptions
	for _, opt := range opts {
		opt(&o)
	}

	c := resty.New().
		SetTimeout(o.timeout).
		SetHeader("Content-Type", "text/plain; charset=utf-8").
		SetHeader("User-Agent", o.userAgent).
		SetRetryCount(o.retries).
		SetRetryWaitTime(o.retryWait).
		SetRetryMaxWaitTime(8 * o.retryWait)
	c.AddRetryCondition(retryCondition)

	return &Client{url: o.url, http: c}
}

// Query posts query and returns the response body.
func (c *Client) Query(ctx context.Context, query string) ([]byte, error) {
	start := time.Now()

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(query).
		Post(c.url)
	if err != nil {
		return nil, fmt.Errorf("overpass query failed: %w", err)
	}

	if resp.IsError() {
		return nil, &StatusError{Code: resp.StatusCode(), Body: resp.String()}
	}

	slog.Debug("overpass query completed", "status", resp.StatusCode(), "bytes", len(resp.Body()), "took", time.Since(start))

	return resp.Body(), nil
}

// StatusError is a non-2xx interpreter response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("overpass returned %d %s", e.Code, http.StatusText(e.Code))
}

// retryCondition retries network errors, rate limiting and gateway timeouts.
func retryCondition(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if r == nil {
		return false
	}

	code := r.StatusCode()

	return code == http.StatusTooManyRequests || code == http.StatusGatewayTimeout || code >= 500
}
