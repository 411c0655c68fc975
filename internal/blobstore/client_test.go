package blobstore

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestClient_Get(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte("model,years\nBW3451R,2\n"))
	}))
	defer server.Close()

	client, err := NewClient(testLogger(), server.URL)
	require.NoError(t, err)

	body, err := client.Get(context.Background(), "support-data", "warranty.csv")
	require.NoError(t, err)
	assert.Equal(t, "model,years\nBW3451R,2\n", body)
	assert.Equal(t, "/support-data/warranty.csv", gotPath)
}

func TestClient_Get_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client, err := NewClient(testLogger(), server.URL)
	require.NoError(t, err)

	_, err = client.Get(context.Background(), "support-data", "missing.csv")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_Get_RetriesOnServerError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	client, err := NewClient(testLogger(), server.URL)
	require.NoError(t, err)

	body, err := client.Get(context.Background(), "support-data", "history.csv")
	require.NoError(t, err)
	assert.Equal(t, "ok", body)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_Get_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client, err := NewClient(testLogger(), server.URL)
	require.NoError(t, err)

	_, err = client.Get(context.Background(), "support-data", "history.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_Get_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client, err := NewClient(testLogger(), server.URL)
	require.NoError(t, err)

	_, err = client.Get(context.Background(), "support-data", "history.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blob store error")
	assert.Equal(t, int32(maxRetries+1), calls.Load())
}

func TestClient_Get_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client, err := NewClient(testLogger(), server.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = client.Get(ctx, "support-data", "history.csv")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCalculateBackoff(t *testing.T) {
	for attempt := 0; attempt < 8; attempt++ {
		delay := calculateBackoff(attempt)
		assert.Greater(t, delay.Seconds(), 0.0)
		// maxDelay plus the 20% jitter ceiling.
		assert.LessOrEqual(t, delay.Seconds(), (maxDelay + maxDelay/5).Seconds())
	}
}
