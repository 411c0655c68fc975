package matching

import (
	"regexp"
	"strings"

	"github.com/ozsupport/triaged/internal/dataset"
)

// modelTokenRe matches model-like runs in uppercased text: alphanumeric,
// internal hyphen/plus/slash allowed (X2K-2, UHF+, DVR4/8).
var modelTokenRe = regexp.MustCompile(`[A-Z0-9]{2,}(?:[-+/][A-Z0-9]+)*`)

func containsDigit(s string) bool {
	return strings.ContainsAny(s, "0123456789")
}

// extractModelTokens pulls candidate model tokens out of uppercased text.
// A token must carry at least one digit and be at least minLen long; plain
// words never look like SKUs.
func extractModelTokens(upper string, minLen int) []string {
	var tokens []string
	for _, tok := range modelTokenRe.FindAllString(upper, -1) {
		if len(tok) >= minLen && containsDigit(tok) {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// MatchWarrantyModel resolves enquiry text against the warranty mapping.
//
// Phase 1 tests every known model key for containment in the text and keeps
// the longest key found (most specific SKU). Equal-length ties resolve to
// the lexicographically greater key so the outcome never depends on map
// iteration order.
//
// Phase 2 runs only when phase 1 finds nothing: model-like tokens are
// extracted from the text and tested for reverse containment inside the
// keys, which resolves shorthand like "X2K-2" against "APPCAMSOLOX2K-2".
// The longest token with any hit wins, then the shortest key containing it
// is selected as the minimal matching SKU.
//
// Absence of a match is a normal outcome, reported via ok=false.
func MatchWarrantyModel(text string, warranty map[string]int) (model string, years int, ok bool) {
	upper := strings.ToUpper(text)

	best := ""
	for key := range warranty {
		if !strings.Contains(upper, key) {
			continue
		}
		if len(key) > len(best) || (len(key) == len(best) && key > best) {
			best = key
		}
	}
	if best != "" {
		return best, warranty[best], true
	}

	bestToken := ""
	for _, tok := range extractModelTokens(upper, 3) {
		if len(tok) <= len(bestToken) {
			continue
		}
		for key := range warranty {
			if strings.Contains(key, tok) {
				bestToken = tok
				break
			}
		}
	}
	if bestToken == "" {
		return "", 0, false
	}

	winner := ""
	for key := range warranty {
		if !strings.Contains(key, bestToken) {
			continue
		}
		if winner == "" || len(key) < len(winner) || (len(key) == len(winner) && key > winner) {
			winner = key
		}
	}
	return winner, warranty[winner], true
}

// GuessModelFromHistory is the fallback when the warranty mapping resolves
// nothing: the same token extraction is run against the historical records'
// model field. The returned guess is the record's model string (a real SKU
// the ranker can use), with no warranty figure attached.
func GuessModelFromHistory(text string, records []dataset.HistoricalRecord) (string, bool) {
	tokens := extractModelTokens(strings.ToUpper(text), 3)
	if len(tokens) == 0 {
		return "", false
	}

	bestToken := ""
	bestModel := ""
	for _, rec := range records {
		if rec.Model == "" {
			continue
		}
		upperModel := strings.ToUpper(rec.Model)
		for _, tok := range tokens {
			if len(tok) > len(bestToken) && strings.Contains(upperModel, tok) {
				bestToken = tok
				bestModel = rec.Model
			}
		}
	}
	if bestModel == "" {
		return "", false
	}
	return bestModel, true
}
