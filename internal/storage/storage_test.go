package storage

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	store, err := NewSQLiteStore(logger, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, store.Init())
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestAddAndGetEnquiries(t *testing.T) {
	store := newTestStore(t)

	entry := EnquiryLog{
		EnquiryText:     "My BW3451R baby monitor shows no picture",
		DetectedProduct: strPtr("Baby Monitor"),
		MatchedModel:    strPtr("BW3451R"),
		WarrantyYears:   intPtr(2),
		MatchedCases:    3,
		DurationMs:      850,
		InputTokens:     420,
		OutputTokens:    310,
		CreatedAt:       time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.AddEnquiry(entry))

	logs, err := store.GetRecentEnquiries(10)
	require.NoError(t, err)
	require.Len(t, logs, 1)

	got := logs[0]
	assert.NotZero(t, got.ID)
	assert.Equal(t, entry.EnquiryText, got.EnquiryText)
	require.NotNil(t, got.DetectedProduct)
	assert.Equal(t, "Baby Monitor", *got.DetectedProduct)
	require.NotNil(t, got.MatchedModel)
	assert.Equal(t, "BW3451R", *got.MatchedModel)
	require.NotNil(t, got.WarrantyYears)
	assert.Equal(t, 2, *got.WarrantyYears)
	assert.Equal(t, 3, got.MatchedCases)
	assert.False(t, got.DebugMode)
	assert.Equal(t, 850, got.DurationMs)
	assert.Equal(t, int64(420), got.InputTokens)
	assert.Equal(t, int64(310), got.OutputTokens)
}

func TestAddEnquiry_NullableSignalsStayNull(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.AddEnquiry(EnquiryLog{
		EnquiryText: "nothing matched",
		DebugMode:   true,
	}))

	logs, err := store.GetRecentEnquiries(10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Nil(t, logs[0].DetectedProduct)
	assert.Nil(t, logs[0].MatchedModel)
	assert.Nil(t, logs[0].WarrantyYears)
	assert.True(t, logs[0].DebugMode)
}

func TestGetRecentEnquiries_OrderAndLimit(t *testing.T) {
	store := newTestStore(t)

	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, store.AddEnquiry(EnquiryLog{
			EnquiryText:  "enquiry",
			MatchedCases: i,
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		}))
	}

	logs, err := store.GetRecentEnquiries(3)
	require.NoError(t, err)
	require.Len(t, logs, 3)
	// Newest first.
	assert.Equal(t, 4, logs[0].MatchedCases)
	assert.Equal(t, 3, logs[1].MatchedCases)
	assert.Equal(t, 2, logs[2].MatchedCases)
}

func TestCountEnquiries(t *testing.T) {
	store := newTestStore(t)

	total, err := store.CountEnquiries()
	require.NoError(t, err)
	assert.Equal(t, 0, total)

	require.NoError(t, store.AddEnquiry(EnquiryLog{EnquiryText: "a"}))
	require.NoError(t, store.AddEnquiry(EnquiryLog{EnquiryText: "b"}))

	total, err = store.CountEnquiries()
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestInit_Idempotent(t *testing.T) {
	store := newTestStore(t)
	assert.NoError(t, store.Init())
}
