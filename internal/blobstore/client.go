package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net"
	"net/http"
	"net/url"
	"time"
)

// Retry configuration
const (
	maxRetries   = 3
	baseDelay    = 500 * time.Millisecond
	maxDelay     = 10 * time.Second
	jitterFactor = 0.2 // 20% jitter
)

// Client reads raw objects from the external blob store.
type Client interface {
	Get(ctx context.Context, bucket, key string) (string, error)
}

// ErrNotFound reports a missing object. Missing reference data is fatal for
// the request that needed it, but callers can distinguish it from transport
// failures.
var ErrNotFound = errors.New("object not found")

type clientImpl struct {
	httpClient *http.Client
	endpoint   string
	logger     *slog.Logger
}

// NewClient creates a blob store client for an S3-compatible HTTP endpoint.
// Objects are addressed as {endpoint}/{bucket}/{key}.
func NewClient(logger *slog.Logger, endpoint string) (Client, error) {
	if _, err := url.Parse(endpoint); err != nil {
		return nil, fmt.Errorf("invalid blobstore endpoint: %w", err)
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	return &clientImpl{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   30 * time.Second,
		},
		endpoint: endpoint,
		logger:   logger.With("component", "blobstore_client"),
	}, nil
}

func isRetryableStatusCode(statusCode int) bool {
	switch statusCode {
	case http.StatusTooManyRequests, // 429
		http.StatusInternalServerError, // 500
		http.StatusBadGateway,          // 502
		http.StatusServiceUnavailable,  // 503
		http.StatusGatewayTimeout:      // 504
		return true
	default:
		return false
	}
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var opErr *net.OpError
	return errors.As(err, &opErr)
}

// calculateBackoff returns the delay for the given attempt using exponential backoff with jitter.
func calculateBackoff(attempt int) time.Duration {
	if attempt > 5 {
		attempt = 5
	}
	delay := baseDelay * time.Duration(1<<attempt)
	if delay > maxDelay {
		delay = maxDelay
	}

	jitter := time.Duration(float64(delay) * jitterFactor * (2*rand.Float64() - 1))
	return delay + jitter
}

func (c *clientImpl) Get(ctx context.Context, bucket, key string) (string, error) {
	startTime := time.Now()

	objectURL, err := url.JoinPath(c.endpoint, bucket, key)
	if err != nil {
		return "", err
	}

	var body []byte
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			delay := calculateBackoff(attempt - 1)
			c.logger.Warn("Retrying blob store fetch",
				"bucket", bucket,
				"key", key,
				"attempt", attempt,
				"max_retries", maxRetries,
				"delay", delay,
				"last_error", lastErr,
			)

			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
		}

		httpReq, err := http.NewRequestWithContext(ctx, "GET", objectURL, nil)
		if err != nil {
			return "", err
		}

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			if isRetryableError(err) && attempt < maxRetries {
				lastErr = err
				continue
			}
			RecordFetch(key, time.Since(startTime).Seconds(), false)
			return "", err
		}

		body, err = io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			if isRetryableError(err) && attempt < maxRetries {
				lastErr = err
				continue
			}
			RecordFetch(key, time.Since(startTime).Seconds(), false)
			return "", err
		}

		if resp.StatusCode == http.StatusOK {
			RecordFetch(key, time.Since(startTime).Seconds(), true)
			c.logger.Debug("Blob fetched", "bucket", bucket, "key", key, "bytes", len(body), "attempt", attempt)
			return string(body), nil
		}

		if resp.StatusCode == http.StatusNotFound {
			RecordFetch(key, time.Since(startTime).Seconds(), false)
			return "", fmt.Errorf("%w: %s/%s", ErrNotFound, bucket, key)
		}

		if isRetryableStatusCode(resp.StatusCode) && attempt < maxRetries {
			lastErr = fmt.Errorf("blob store error: %s", resp.Status)
			continue
		}

		c.logger.Error("Blob store returned non-OK status", "bucket", bucket, "key", key, "status", resp.Status)
		RecordFetch(key, time.Since(startTime).Seconds(), false)
		return "", fmt.Errorf("blob store error: %s", resp.Status)
	}

	RecordFetch(key, time.Since(startTime).Seconds(), false)
	return "", fmt.Errorf("blob store fetch failed after %d retries: %w", maxRetries, lastErr)
}
