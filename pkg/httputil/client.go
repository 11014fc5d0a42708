package httputil

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/matzehuels/slidecraft/pkg/observability"
)

// DefaultTimeout bounds requests made with [NewClient].
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of an error response is kept.
const maxErrorBody = 512

// NewClient returns an HTTP client with a timeout, or [DefaultTimeout]
// when timeout is zero.
func NewClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// Do sends req with ctx and reports the request, its response or its
// failure to the HTTP observability hooks.
func Do(ctx context.Context, client *http.Client, req *http.Request) (*http.Response, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req = req.WithContext(ctx)
	method, host, path := req.Method, req.URL.Host, req.URL.Path

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, method, host, path)
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		hooks.OnError(ctx, method, host, path, err)
		return nil, err
	}
	hooks.OnResponse(ctx, method, host, path, resp.StatusCode, time.Since(start))
	return resp, nil
}

// CheckStatus returns nil for 2xx responses and a [StatusError] otherwise.
// 429 and 5xx errors come back wrapped as retryable. The body is read
// (partially) on error but never closed.
func CheckStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	err := &StatusError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       strings.TrimSpace(string(body)),
	}
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return Retryable(err)
	}
	return err
}
