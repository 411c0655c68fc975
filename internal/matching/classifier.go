package matching

import "strings"

// Category is the closed set of product categories the triage pipeline
// works with. Derived from model strings or enquiry text, never stored.
type Category string

const (
	CategoryBabyMonitor    Category = "Baby Monitor"
	CategoryDashCam        Category = "Dash Cam"
	CategoryPhone          Category = "Phone"
	CategorySecurityCamera Category = "Security Camera"
	CategoryRecorder       Category = "Recorder"
	CategoryRadio          Category = "Radio"
	CategoryPowerSupply    Category = "Power Supply"
	CategorySolarPanel     Category = "Solar Panel"
	CategoryService        Category = "Service/Maintenance"
	CategoryUnknown        Category = "Unknown"
	CategoryOther          Category = "Other"
)

type classifierRule struct {
	category Category
	match    func(s string) bool
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Rule order is load-bearing: the first matching rule wins, so e.g. a model
// containing both DASH and DVR classifies as Dash Cam.
var classifierRules = []classifierRule{
	{CategoryBabyMonitor, func(s string) bool { return strings.HasPrefix(s, "BW") }},
	{CategoryDashCam, func(s string) bool { return containsAny(s, "DASH", "IGO") }},
	{CategoryPhone, func(s string) bool { return containsAny(s, "DECT", "SSE", "FP", "ELITE") }},
	{CategorySecurityCamera, func(s string) bool { return containsAny(s, "SOLO", "APPCAM", "APP CAM") }},
	{CategoryRecorder, func(s string) bool { return containsAny(s, "DVR", "NVR", "CVR", "XVR", "G37") }},
	{CategoryRadio, func(s string) bool { return containsAny(s, "XTRAK", "UH", "MHS", "X86", "X76", "ADV25") }},
	{CategoryPowerSupply, func(s string) bool { return strings.Contains(s, "UPP") }},
	{CategorySolarPanel, func(s string) bool { return strings.Contains(s, "SPS") }},
	{CategoryService, func(s string) bool { return containsAny(s, "CLEAN", "SERVICE", "TEST", "NETWORK") }},
	{CategoryUnknown, isNumeric},
}

// ClassifyModel maps a raw model/type string to a product category. Total
// over any input: unmatched strings (including empty) classify as Other.
func ClassifyModel(raw string) Category {
	s := strings.ToUpper(strings.TrimSpace(raw))
	for _, rule := range classifierRules {
		if rule.match(s) {
			return rule.category
		}
	}
	return CategoryOther
}
