package testutil

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/ozsupport/triaged/internal/config"
	"github.com/ozsupport/triaged/internal/storage"
)

// TestLogger returns a discarding logger for tests.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// TestConfig returns a config with sensible test defaults.
func TestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Log.Level = "debug"
	cfg.Server.ListenPort = "0"
	cfg.BlobStore = config.BlobStoreConfig{
		Endpoint:    "https://blobs.test.local",
		Bucket:      "support-data",
		HistoryKey:  "history.csv",
		WarrantyKey: "warranty.csv",
	}
	cfg.Anthropic = config.AnthropicConfig{
		APIKey:    "test-key",
		Model:     "test-model",
		MaxTokens: 1024,
	}
	cfg.Matching = config.MatchingConfig{
		MaxCases:      10,
		DebugMaxCases: 30,
	}
	cfg.Database.Path = "test.db"
	return cfg
}

// TestStore creates a SQLite store in a temp directory, initialized and
// cleaned up with the test.
func TestStore(t *testing.T) *storage.SQLiteStore {
	t.Helper()

	store, err := storage.NewSQLiteStore(TestLogger(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init test store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}
