package matching

import (
	"fmt"
	"strings"

	"github.com/ozsupport/triaged/internal/dataset"
)

// NoCasesSentinel is emitted when there is no historical evidence, so the
// downstream model sees an explicit statement instead of an empty block.
const NoCasesSentinel = "No similar historical cases found."

// FormatContext renders ranked records into the fixed one-line-per-case
// format used in the generated prompt. Fields go in verbatim.
func FormatContext(records []dataset.HistoricalRecord) string {
	if len(records) == 0 {
		return NoCasesSentinel
	}

	lines := make([]string, 0, len(records))
	for _, rec := range records {
		lines = append(lines, fmt.Sprintf("Job %s | Model: %s | Issue: %s | Fix: %s",
			rec.JobID, rec.Model, rec.CustomerComplaint, rec.RepairComment))
	}
	return strings.Join(lines, "\n")
}
