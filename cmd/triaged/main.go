package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/ozsupport/triaged/internal/blobstore"
	"github.com/ozsupport/triaged/internal/config"
	"github.com/ozsupport/triaged/internal/dataset"
	"github.com/ozsupport/triaged/internal/llm"
	"github.com/ozsupport/triaged/internal/matching"
	"github.com/ozsupport/triaged/internal/storage"
	"github.com/ozsupport/triaged/internal/web"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var Version = "dev"

var buildInfo = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: "triaged",
		Name:      "build_info",
		Help:      "Build information with version and Go runtime details",
	},
	[]string{"version", "go_version"},
)

func init() {
	buildInfo.WithLabelValues(Version, runtime.Version()).Set(1)
}

func runHealthcheck(configPath string) int {
	// Try to load config to get the port
	// We suppress errors here because if config fails, we might still want to try default port
	// or maybe the app is running with env vars only.
	cfg, err := config.Load(configPath)
	port := "9080"
	if err == nil && cfg.Server.ListenPort != "" {
		port = cfg.Server.ListenPort
	} else {
		// Fallback to env var if config load failed
		if envPort := os.Getenv("TRIAGED_SERVER_PORT"); envPort != "" {
			port = envPort
		}
	}

	url := fmt.Sprintf("http://localhost:%s/healthz", port)
	client := &http.Client{
		Timeout: 5 * time.Second,
	}
	resp, err := client.Get(url)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Healthcheck failed: %v\n", err)
		return 1
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "Healthcheck returned status: %d\n", resp.StatusCode)
		return 1
	}
	return 0
}

func main() {
	// Set up JSON logging early (before config load) with default INFO level.
	// Will be reconfigured with correct level after config is loaded.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found or failed to load, relying on environment variables")
	}

	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	healthcheck := flag.Bool("healthcheck", false, "run healthcheck and exit")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("triaged", Version)
		os.Exit(0)
	}

	if *healthcheck {
		os.Exit(runHealthcheck(*configPath))
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		// Can't use logger here, because it's not initialized yet
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		slog.Warn("unknown log level, defaulting to info", "level", cfg.Log.Level)
		logLevel = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
	logger.Info("Config loaded successfully", "debug_mode", cfg.Server.DebugMode)

	store, err := storage.NewSQLiteStore(logger, cfg.Database.Path)
	if err != nil {
		logger.Error("failed to create storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := store.Init(); err != nil {
		logger.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	logger.Info("Database initialized successfully.")

	blobClient, err := blobstore.NewClient(logger, cfg.BlobStore.Endpoint)
	if err != nil {
		logger.Error("failed to create blob store client", "error", err)
		os.Exit(1)
	}
	cache := dataset.NewCache(logger, blobClient, cfg.BlobStore.Bucket, cfg.BlobStore.HistoryKey, cfg.BlobStore.WarrantyKey)

	llmClient := llm.NewAnthropicClient(logger, cfg.Anthropic.APIKey, cfg.Anthropic.Model, cfg.Anthropic.MaxTokens)
	matcher := matching.NewService(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Warm the dataset cache so the first enquiry doesn't pay for two blob
	// fetches. Failure is not fatal: the request path retries the load.
	go func() {
		warmCtx, warmCancel := context.WithTimeout(ctx, 60*time.Second)
		defer warmCancel()
		if _, _, err := cache.Load(warmCtx); err != nil {
			logger.Warn("dataset cache warmup failed", "error", err)
		}
	}()

	webServer := web.NewServer(logger, cfg, cache, matcher, llmClient, store)
	srvDone := make(chan struct{})
	go func() {
		defer close(srvDone)
		if err := webServer.Start(ctx); err != nil {
			logger.Error("web server failed", "error", err)
			cancel() // Trigger graceful shutdown instead of os.Exit
		}
	}()

	logger.Info("Starting Triaged", "version", Version)

	<-ctx.Done()
	logger.Info("Shutting down...")

	// Wait for web server to stop
	<-srvDone
	logger.Info("Web server stopped")
}
