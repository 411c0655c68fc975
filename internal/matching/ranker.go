package matching

import (
	"sort"
	"strings"

	"github.com/ozsupport/triaged/internal/dataset"
)

// Scoring weights: an exact model match must always outrank any amount of
// keyword overlap, a partial family match outranks half of it.
const (
	scoreExactModel   = 100
	scorePartialModel = 50
)

// enquiryKeywords tokenizes the enquiry into lowercased words longer than
// three characters. A whitespace split is deliberate: punctuation-glued
// words still hit via substring matching during scoring.
func enquiryKeywords(text string) []string {
	var words []string
	for _, w := range strings.Fields(strings.ToLower(text)) {
		if len(w) > 3 {
			words = append(words, w)
		}
	}
	return words
}

func scoreRecord(rec dataset.HistoricalRecord, matchedModel string, keywords []string) int {
	score := 0

	if matchedModel != "" && rec.Model != "" {
		switch {
		case strings.EqualFold(rec.Model, matchedModel):
			score += scoreExactModel
		default:
			recLower := strings.ToLower(rec.Model)
			matchLower := strings.ToLower(matchedModel)
			if strings.Contains(recLower, matchLower) || strings.Contains(matchLower, recLower) {
				score += scorePartialModel
			}
		}
	}

	comments := strings.ToLower(rec.CustomerComplaint + " " + rec.RepairComment)
	for _, kw := range keywords {
		if strings.Contains(comments, kw) {
			score++
		}
	}
	return score
}

// RankCases scores historical records against the enquiry and returns the
// top maxCases. When category is non-nil only records classifying into that
// category are considered. The sort is stable so equal scores keep their
// input order; results are reproducible for identical inputs.
func RankCases(records []dataset.HistoricalRecord, category *Category, matchedModel, text string, maxCases int) []dataset.HistoricalRecord {
	candidates := records
	if category != nil {
		candidates = nil
		for _, rec := range records {
			if ClassifyModel(rec.Model) == *category {
				candidates = append(candidates, rec)
			}
		}
	}

	keywords := enquiryKeywords(text)

	type scored struct {
		rec   dataset.HistoricalRecord
		score int
	}
	scoredRecs := make([]scored, 0, len(candidates))
	for _, rec := range candidates {
		scoredRecs = append(scoredRecs, scored{rec: rec, score: scoreRecord(rec, matchedModel, keywords)})
	}

	sort.SliceStable(scoredRecs, func(i, j int) bool {
		return scoredRecs[i].score > scoredRecs[j].score
	})

	if maxCases >= 0 && len(scoredRecs) > maxCases {
		scoredRecs = scoredRecs[:maxCases]
	}

	result := make([]dataset.HistoricalRecord, 0, len(scoredRecs))
	for _, s := range scoredRecs {
		result = append(result, s.rec)
	}
	return result
}
