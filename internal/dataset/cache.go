package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// BlobStore abstracts the object store the reference datasets live in.
type BlobStore interface {
	Get(ctx context.Context, bucket, key string) (string, error)
}

// Cache fetches and memoizes the two reference datasets for the lifetime of
// the process. Each dataset is guarded by its own mutex so a cold start can
// load both concurrently; after the first successful load every call returns
// the cached copy without touching the blob store. Parsed data is read-only.
type Cache struct {
	logger      *slog.Logger
	store       BlobStore
	bucket      string
	historyKey  string
	warrantyKey string

	histMu  sync.Mutex
	records []HistoricalRecord

	warrMu   sync.Mutex
	warranty map[string]int
}

func NewCache(logger *slog.Logger, store BlobStore, bucket, historyKey, warrantyKey string) *Cache {
	return &Cache{
		logger:      logger.With("component", "dataset_cache"),
		store:       store,
		bucket:      bucket,
		historyKey:  historyKey,
		warrantyKey: warrantyKey,
	}
}

// Records returns the parsed repair-history dataset, fetching it on first use.
func (c *Cache) Records(ctx context.Context) ([]HistoricalRecord, error) {
	c.histMu.Lock()
	defer c.histMu.Unlock()

	if c.records != nil {
		return c.records, nil
	}

	start := time.Now()
	raw, err := c.store.Get(ctx, c.bucket, c.historyKey)
	if err != nil {
		RecordDatasetLoad(datasetHistory, time.Since(start).Seconds(), false)
		return nil, fmt.Errorf("fetching repair history: %w", err)
	}

	records := ParseHistoricalRecords(raw)
	RecordDatasetLoad(datasetHistory, time.Since(start).Seconds(), true)
	SetDatasetRows(datasetHistory, len(records))
	c.logger.Info("Repair history dataset loaded", "rows", len(records), "bytes", len(raw))

	c.records = records
	return c.records, nil
}

// Warranty returns the model-to-warranty-years mapping, fetching it on first
// use. Keys are uppercased at parse time.
func (c *Cache) Warranty(ctx context.Context) (map[string]int, error) {
	c.warrMu.Lock()
	defer c.warrMu.Unlock()

	if c.warranty != nil {
		return c.warranty, nil
	}

	start := time.Now()
	raw, err := c.store.Get(ctx, c.bucket, c.warrantyKey)
	if err != nil {
		RecordDatasetLoad(datasetWarranty, time.Since(start).Seconds(), false)
		return nil, fmt.Errorf("fetching warranty mapping: %w", err)
	}

	warranty := ParseWarranty(raw)
	RecordDatasetLoad(datasetWarranty, time.Since(start).Seconds(), true)
	SetDatasetRows(datasetWarranty, len(warranty))
	c.logger.Info("Warranty dataset loaded", "models", len(warranty), "bytes", len(raw))

	c.warranty = warranty
	return c.warranty, nil
}

// Load fetches both datasets concurrently. Used for warmup and by the
// request path so a cold cache costs one round trip, not two.
func (c *Cache) Load(ctx context.Context) ([]HistoricalRecord, map[string]int, error) {
	var (
		wg       sync.WaitGroup
		records  []HistoricalRecord
		warranty map[string]int
		histErr  error
		warrErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		records, histErr = c.Records(ctx)
	}()
	go func() {
		defer wg.Done()
		warranty, warrErr = c.Warranty(ctx)
	}()
	wg.Wait()

	if histErr != nil {
		return nil, nil, histErr
	}
	if warrErr != nil {
		return nil, nil, warrErr
	}
	return records, warranty, nil
}
