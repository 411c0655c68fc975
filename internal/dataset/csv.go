package dataset

import (
	"strconv"
	"strings"
)

// HistoricalRecord is one past repair job from the repair-history dataset.
// Records are immutable once parsed; the named fields are picked out of the
// row for the matching pipeline, Fields keeps every column by header name.
type HistoricalRecord struct {
	JobID             string
	Model             string
	CustomerComplaint string
	RepairComment     string
	Fields            map[string]string
}

// splitCSVLine splits a single CSV line into fields. Double-quoted spans are
// atomic (embedded commas stay inside the field), a doubled quote inside a
// quoted span is an escaped quote. Anything else is taken verbatim: the
// source datasets contain quoting that encoding/csv rejects outright.
func splitCSVLine(line string) []string {
	var fields []string
	var buf strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				buf.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ch == ',' && !inQuotes:
			fields = append(fields, buf.String())
			buf.Reset()
		default:
			buf.WriteByte(ch)
		}
	}
	fields = append(fields, buf.String())
	return fields
}

// parseTable parses raw CSV text into rows keyed by the header line. Short
// rows are padded with empty strings; extra trailing cells are dropped.
func parseTable(raw string) (headers []string, rows []map[string]string) {
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		cells := splitCSVLine(line)
		if headers == nil {
			for _, h := range cells {
				headers = append(headers, strings.TrimSpace(h))
			}
			continue
		}
		row := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(cells) {
				row[h] = strings.TrimSpace(cells[i])
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	return headers, rows
}

// Header aliases seen across dataset exports.
var (
	jobIDHeaders      = []string{"job_id", "job no", "job number", "job"}
	modelHeaders      = []string{"model", "product model"}
	complaintHeaders  = []string{"customer_complaint", "customer comment", "fault description", "complaint"}
	resolutionHeaders = []string{"repair_comment", "repair comment", "repair notes", "resolution"}
)

func pickField(row map[string]string, names []string) string {
	for key, val := range row {
		lower := strings.ToLower(key)
		for _, name := range names {
			if lower == name {
				return val
			}
		}
	}
	return ""
}

// ParseHistoricalRecords parses the repair-history dataset. Every row
// becomes a record; missing columns map to empty strings rather than errors.
func ParseHistoricalRecords(raw string) []HistoricalRecord {
	_, rows := parseTable(raw)

	records := make([]HistoricalRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, HistoricalRecord{
			JobID:             pickField(row, jobIDHeaders),
			Model:             pickField(row, modelHeaders),
			CustomerComplaint: pickField(row, complaintHeaders),
			RepairComment:     pickField(row, resolutionHeaders),
			Fields:            row,
		})
	}
	return records
}

// ParseWarranty parses the model,years mapping. The header line is skipped,
// blank lines are skipped, keys are uppercased. Lines with a missing model
// or a non-numeric year are dropped, not errors: the source sheet is
// maintained by hand.
func ParseWarranty(raw string) map[string]int {
	warranty := make(map[string]int)
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")

	seenHeader := false
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !seenHeader {
			seenHeader = true
			continue
		}
		cells := splitCSVLine(line)
		if len(cells) < 2 {
			continue
		}
		model := strings.ToUpper(strings.TrimSpace(cells[0]))
		if model == "" {
			continue
		}
		years, err := strconv.Atoi(strings.TrimSpace(cells[1]))
		if err != nil {
			continue
		}
		warranty[model] = years
	}
	return warranty
}
