package storage

import (
	"database/sql"
	"log/slog"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// EnquiryLog is one analysed enquiry in the audit trail. Nullable match
// signals stay nullable: an absent warranty term is information, not zero.
type EnquiryLog struct {
	ID              int64
	EnquiryText     string
	DetectedProduct *string
	MatchedModel    *string
	WarrantyYears   *int
	MatchedCases    int
	DebugMode       bool
	DurationMs      int
	InputTokens     int64
	OutputTokens    int64
	CreatedAt       time.Time
}

// EnquiryRepository persists and reads back analysed enquiries.
type EnquiryRepository interface {
	AddEnquiry(log EnquiryLog) error
	GetRecentEnquiries(limit int) ([]EnquiryLog, error)
	CountEnquiries() (int, error)
}

type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
	dbPath string
}

func NewSQLiteStore(logger *slog.Logger, path string) (*SQLiteStore, error) {
	originalPath := path
	if idx := strings.Index(path, "?"); idx != -1 {
		originalPath = path[:idx]
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// One connection avoids "database is locked" errors with concurrent
	// writes under modernc.org/sqlite; the audit log is low traffic.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, err
	}

	// The _journal_mode query param doesn't work with modernc.org/sqlite,
	// so WAL is set via PRAGMA after opening.
	var journalMode string
	if err := db.QueryRow("PRAGMA journal_mode=WAL").Scan(&journalMode); err != nil {
		logger.Warn("failed to set WAL journal mode", "error", err)
	} else {
		logger.Info("SQLite journal mode set", "mode", journalMode, "path", originalPath)
	}

	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		logger.Warn("failed to set busy timeout", "error", err)
	}

	return &SQLiteStore{db: db, logger: logger, dbPath: originalPath}, nil
}

func (s *SQLiteStore) Init() error {
	query := `
	CREATE TABLE IF NOT EXISTS enquiries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		enquiry_text TEXT NOT NULL,
		detected_product TEXT,
		matched_model TEXT,
		warranty_years INTEGER,
		matched_cases INTEGER NOT NULL DEFAULT 0,
		debug_mode INTEGER NOT NULL DEFAULT 0,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		input_tokens INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_enquiries_created_at ON enquiries(created_at);
	`
	_, err := s.db.Exec(query)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
