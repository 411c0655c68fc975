package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectProduct(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected *Category
	}{
		{"baby monitor phrase", "Our baby monitor screen went black", ptr(CategoryBabyMonitor)},
		{"dash cam", "The dash cam keeps rebooting while driving", ptr(CategoryDashCam)},
		{"phone by handset", "The second handset won't pair", ptr(CategoryPhone)},
		{"security camera", "My CCTV feed dropped out overnight", ptr(CategorySecurityCamera)},
		{"recorder", "The DVR is not recording to the hard drive", ptr(CategoryRecorder)},
		{"radio", "UHF reception is poor on channel 40", ptr(CategoryRadio)},
		{"power supply", "The power adapter makes a buzzing noise", ptr(CategoryPowerSupply)},
		{"solar panel", "solar output dropped to zero", ptr(CategorySolarPanel)},
		{"case insensitive", "BABY MONITOR not working", ptr(CategoryBabyMonitor)},
		{"no keywords", "it is broken and I want a refund", nil},
		{"empty text", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectProduct(tt.text)
			if tt.expected == nil {
				assert.Nil(t, got)
			} else {
				assert.NotNil(t, got)
				assert.Equal(t, *tt.expected, *got)
			}
		})
	}
}

func TestDetectProduct_FirstDeclaredCategoryWins(t *testing.T) {
	// "monitor" (Baby Monitor) and "camera" (Security Camera) both appear;
	// Baby Monitor is declared first.
	got := DetectProduct("the monitor for my camera is blank")
	assert.NotNil(t, got)
	assert.Equal(t, CategoryBabyMonitor, *got)

	// Substring matching is intentionally coarse: "radiology" contains "radio".
	got = DetectProduct("enquiry from the radiology department")
	assert.NotNil(t, got)
	assert.Equal(t, CategoryRadio, *got)
}

func ptr[T any](v T) *T {
	return &v
}
