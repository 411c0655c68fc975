package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHistoricalRecords(t *testing.T) {
	raw := `job_id,model,customer_complaint,repair_comment
J1001,BW3451R,No picture on parent unit,Replaced camera PCB
J1002,IGOCAM85,"Dash cam reboots, loses footage",Reflashed firmware
`

	records := ParseHistoricalRecords(raw)
	require.Len(t, records, 2)

	assert.Equal(t, "J1001", records[0].JobID)
	assert.Equal(t, "BW3451R", records[0].Model)
	assert.Equal(t, "No picture on parent unit", records[0].CustomerComplaint)
	assert.Equal(t, "Replaced camera PCB", records[0].RepairComment)

	// The quoted field keeps its embedded comma.
	assert.Equal(t, "Dash cam reboots, loses footage", records[1].CustomerComplaint)
}

func TestParseHistoricalRecords_HeaderAliases(t *testing.T) {
	raw := `Job No,Product Model,Fault Description,Repair Notes
J1,BW3451R,no picture,replaced PCB
`

	records := ParseHistoricalRecords(raw)
	require.Len(t, records, 1)
	assert.Equal(t, "J1", records[0].JobID)
	assert.Equal(t, "BW3451R", records[0].Model)
	assert.Equal(t, "no picture", records[0].CustomerComplaint)
	assert.Equal(t, "replaced PCB", records[0].RepairComment)
}

func TestParseHistoricalRecords_ExtraColumnsPreserved(t *testing.T) {
	raw := `job_id,model,customer_complaint,repair_comment,technician
J1,BW3451R,no picture,replaced PCB,Alex
`

	records := ParseHistoricalRecords(raw)
	require.Len(t, records, 1)
	assert.Equal(t, "Alex", records[0].Fields["technician"])
}

func TestParseHistoricalRecords_RaggedRowsPadded(t *testing.T) {
	raw := `job_id,model,customer_complaint,repair_comment
J1,BW3451R,no picture
`

	records := ParseHistoricalRecords(raw)
	require.Len(t, records, 1)
	assert.Equal(t, "no picture", records[0].CustomerComplaint)
	assert.Equal(t, "", records[0].RepairComment)
}

func TestParseHistoricalRecords_BlankLinesAndCRLF(t *testing.T) {
	raw := "job_id,model,customer_complaint,repair_comment\r\n\r\nJ1,BW3451R,a,b\r\n\r\nJ2,IGOCAM85,c,d\r\n"

	records := ParseHistoricalRecords(raw)
	require.Len(t, records, 2)
	assert.Equal(t, "J1", records[0].JobID)
	assert.Equal(t, "J2", records[1].JobID)
}

func TestParseHistoricalRecords_Empty(t *testing.T) {
	assert.Empty(t, ParseHistoricalRecords(""))
	assert.Empty(t, ParseHistoricalRecords("job_id,model\n"))
}

func TestSplitCSVLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected []string
	}{
		{"plain", "a,b,c", []string{"a", "b", "c"}},
		{"quoted comma", `a,"b,c",d`, []string{"a", "b,c", "d"}},
		{"escaped quote", `a,"he said ""hi""",c`, []string{"a", `he said "hi"`, "c"}},
		{"trailing empty field", "a,b,", []string{"a", "b", ""}},
		{"unterminated quote tolerated", `a,"b,c`, []string{"a", "b,c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, splitCSVLine(tt.line))
		})
	}
}

func TestParseWarranty(t *testing.T) {
	raw := `model,years
BW3451R,2
igocam85,1

broken-line
DECT3035,abc
,3
APPCAMSOLOX2K-2,2
`

	warranty := ParseWarranty(raw)

	assert.Equal(t, map[string]int{
		"BW3451R":         2,
		"IGOCAM85":        1,
		"APPCAMSOLOX2K-2": 2,
	}, warranty)
}

func TestParseWarranty_Empty(t *testing.T) {
	assert.Empty(t, ParseWarranty(""))
	assert.Empty(t, ParseWarranty("model,years\n"))
}
