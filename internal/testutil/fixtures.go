package testutil

import (
	"github.com/ozsupport/triaged/internal/dataset"
)

// HistoryCSV is a small repair-history export in the shape the production
// datasets use, including a quoted field with an embedded comma and a short
// row.
const HistoryCSV = `job_id,model,customer_complaint,repair_comment
J1001,BW3451R,No picture on parent unit,Replaced camera PCB
J1002,IGOCAM85,"Dash cam reboots, loses footage",Reflashed firmware
J1003,DECT3035,Handset not charging,Replaced charge cradle
J1004,APPCAMSOLO,Camera offline after storm,Replaced power adapter
J1005,UPP500,No output voltage
`

// WarrantyCSV is a small warranty mapping with a malformed line that the
// parser must drop.
const WarrantyCSV = `model,years
BW3451R,2
IGOCAM85,1
IGOCAM85R,3
DECT3035,1
APPCAMSOLOX2K-2,2
not-a-number,abc
`

// TestRecords returns the parsed form of HistoryCSV.
func TestRecords() []dataset.HistoricalRecord {
	return dataset.ParseHistoricalRecords(HistoryCSV)
}

// TestWarranty returns the parsed form of WarrantyCSV.
func TestWarranty() map[string]int {
	return dataset.ParseWarranty(WarrantyCSV)
}
