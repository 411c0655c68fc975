package matching

import "strings"

type keywordEntry struct {
	category Category
	keywords []string
}

// productKeywords maps enquiry vocabulary to categories. Declaration order
// decides which category wins when keywords from several are present, so the
// more specific phrasings sit before the generic ones. Matching is plain
// substring by design: false positives are accepted in favour of recall.
var productKeywords = []keywordEntry{
	{CategoryBabyMonitor, []string{"baby monitor", "baby", "nursery", "monitor"}},
	{CategoryDashCam, []string{"dash cam", "dashcam", "dash camera", "windscreen camera"}},
	{CategoryPhone, []string{"cordless phone", "handset", "phone", "dect"}},
	{CategorySecurityCamera, []string{"security camera", "cctv", "doorbell", "camera"}},
	{CategoryRecorder, []string{"recorder", "dvr", "nvr", "hard drive"}},
	{CategoryRadio, []string{"uhf", "two way radio", "walkie", "radio", "antenna"}},
	{CategoryPowerSupply, []string{"power supply", "power adaptor", "power adapter", "charger"}},
	{CategorySolarPanel, []string{"solar panel", "solar"}},
}

// DetectProduct scans free text for product keywords and returns the first
// declared category with any hit, or nil when nothing matches.
func DetectProduct(text string) *Category {
	lower := strings.ToLower(text)
	for _, entry := range productKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				cat := entry.category
				return &cat
			}
		}
	}
	return nil
}
