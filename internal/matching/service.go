package matching

import (
	"log/slog"
	"time"

	"github.com/ozsupport/triaged/internal/dataset"
)

// Result is the grounding context computed for one enquiry. Nil pointers are
// valid, common outcomes ("we could not tell"), never errors.
type Result struct {
	DetectedProduct *Category
	MatchedModel    *string
	WarrantyYears   *int
	RelevantCases   []dataset.HistoricalRecord
}

// Service composes the matching pipeline. It holds no state beyond the
// logger; all data flows in per call from the dataset cache.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	return &Service{logger: logger.With("component", "matching")}
}

// Resolve runs the full enquiry-to-evidence pipeline: keyword detection,
// warranty resolution, historical fallback, category backfill, then
// relevance ranking. The category backfilled from a resolved model is
// suppressed when the classifier reports Unknown or Other - those mean "no
// usable category", not a category.
func (s *Service) Resolve(text string, records []dataset.HistoricalRecord, warranty map[string]int, maxCases int) Result {
	start := time.Now()

	detected := DetectProduct(text)

	var matchedModel *string
	var warrantyYears *int
	if model, years, ok := MatchWarrantyModel(text, warranty); ok {
		matchedModel = &model
		warrantyYears = &years
	} else if guess, ok := GuessModelFromHistory(text, records); ok {
		matchedModel = &guess
	}

	if detected == nil && matchedModel != nil {
		if cat := ClassifyModel(*matchedModel); cat != CategoryUnknown && cat != CategoryOther {
			detected = &cat
		}
	}

	model := ""
	if matchedModel != nil {
		model = *matchedModel
	}
	cases := RankCases(records, detected, model, text, maxCases)

	recordResolution(detected, matchedModel, warrantyYears, len(cases), time.Since(start).Seconds())
	s.logger.Debug("Enquiry resolved",
		"detected_product", categoryLabel(detected),
		"matched_model", model,
		"warranty_found", warrantyYears != nil,
		"relevant_cases", len(cases),
	)

	return Result{
		DetectedProduct: detected,
		MatchedModel:    matchedModel,
		WarrantyYears:   warrantyYears,
		RelevantCases:   cases,
	}
}

func categoryLabel(cat *Category) string {
	if cat == nil {
		return "none"
	}
	return string(*cat)
}
