package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyModel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Category
	}{
		{"BW prefix", "BW3451R", CategoryBabyMonitor},
		{"BW prefix lowercase", "bw3102", CategoryBabyMonitor},
		{"BW must be a prefix, not substring", "XBW100", CategoryOther},
		{"dash cam by DASH", "DASH4K", CategoryDashCam},
		{"dash cam by IGO", "IGOCAM85", CategoryDashCam},
		{"phone by DECT", "DECT3035", CategoryPhone},
		{"phone by ELITE", "ELITE9145", CategoryPhone},
		{"security camera by SOLO", "APPCAMSOLO", CategorySecurityCamera},
		{"security camera with space", "APP CAM 24", CategorySecurityCamera},
		{"recorder by DVR", "DVR8-4980", CategoryRecorder},
		{"recorder by G37", "G37E", CategoryRecorder},
		{"radio by UH", "UH850S", CategoryRadio},
		{"radio by XTRAK", "XTRAK100", CategoryRadio},
		{"power supply", "UPP500", CategoryPowerSupply},
		{"solar panel", "SPS120", CategorySolarPanel},
		{"service job", "CLEAN AND TEST", CategoryService},
		{"entirely numeric", "12345", CategoryUnknown},
		{"unrecognized", "WIDGET9", CategoryOther},
		{"empty string", "", CategoryOther},
		{"whitespace only", "   ", CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyModel(tt.input))
		})
	}
}

func TestClassifyModel_RuleOrderDecidesTies(t *testing.T) {
	// DASH (rule 2) beats DVR (rule 5) when both are present.
	assert.Equal(t, CategoryDashCam, ClassifyModel("DASHDVR1"))

	// BW prefix (rule 1) beats everything after it.
	assert.Equal(t, CategoryBabyMonitor, ClassifyModel("BWDECT2"))
}

func TestClassifyModel_Deterministic(t *testing.T) {
	for i := 0; i < 10; i++ {
		assert.Equal(t, CategoryRadio, ClassifyModel("MHS-050"))
	}
}
