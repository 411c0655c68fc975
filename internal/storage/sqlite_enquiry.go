package storage

import (
	"time"
)

func (s *SQLiteStore) AddEnquiry(log EnquiryLog) error {
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	query := `
	INSERT INTO enquiries (
		enquiry_text, detected_product, matched_model, warranty_years,
		matched_cases, debug_mode, duration_ms, input_tokens, output_tokens, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.Exec(query,
		log.EnquiryText, log.DetectedProduct, log.MatchedModel, log.WarrantyYears,
		log.MatchedCases, log.DebugMode, log.DurationMs, log.InputTokens, log.OutputTokens,
		log.CreatedAt.UTC().Format("2006-01-02 15:04:05.999"),
	)
	return err
}

func (s *SQLiteStore) GetRecentEnquiries(limit int) ([]EnquiryLog, error) {
	query := `
	SELECT
		id, enquiry_text, detected_product, matched_model, warranty_years,
		matched_cases, debug_mode, duration_ms, input_tokens, output_tokens, created_at
	FROM enquiries
	ORDER BY created_at DESC, id DESC
	LIMIT ?`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []EnquiryLog
	for rows.Next() {
		var l EnquiryLog
		err := rows.Scan(
			&l.ID, &l.EnquiryText, &l.DetectedProduct, &l.MatchedModel, &l.WarrantyYears,
			&l.MatchedCases, &l.DebugMode, &l.DurationMs, &l.InputTokens, &l.OutputTokens, &l.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (s *SQLiteStore) CountEnquiries() (int, error) {
	var total int
	err := s.db.QueryRow("SELECT COUNT(*) FROM enquiries").Scan(&total)
	return total, err
}
