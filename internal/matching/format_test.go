package matching

import (
	"strings"
	"testing"

	"github.com/ozsupport/triaged/internal/dataset"
	"github.com/stretchr/testify/assert"
)

func TestFormatContext(t *testing.T) {
	records := []dataset.HistoricalRecord{
		rec("J1001", "BW3451R", "No picture on parent unit", "Replaced camera PCB"),
		rec("J1002", "IGOCAM85", "Dash cam reboots, loses footage", "Reflashed firmware"),
	}

	out := FormatContext(records)
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 2)
	assert.Equal(t, "Job J1001 | Model: BW3451R | Issue: No picture on parent unit | Fix: Replaced camera PCB", lines[0])
	assert.Equal(t, "Job J1002 | Model: IGOCAM85 | Issue: Dash cam reboots, loses footage | Fix: Reflashed firmware", lines[1])
}

func TestFormatContext_EmptyRendersSentinel(t *testing.T) {
	assert.Equal(t, NoCasesSentinel, FormatContext(nil))
	assert.Equal(t, NoCasesSentinel, FormatContext([]dataset.HistoricalRecord{}))
}

func TestFormatContext_EmptyFieldsGoInVerbatim(t *testing.T) {
	out := FormatContext([]dataset.HistoricalRecord{rec("J1", "", "", "")})
	assert.Equal(t, "Job J1 | Model:  | Issue:  | Fix: ", out)
}
