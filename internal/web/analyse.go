package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ozsupport/triaged/internal/matching"
	"github.com/ozsupport/triaged/internal/storage"
)

type analyseRequest struct {
	Text      string `json:"text"`
	DebugMode bool   `json:"debugMode"`
}

type analyseResponse struct {
	Analysis        string  `json:"analysis"`
	DetectedProduct *string `json:"detectedProduct"`
	MatchedModel    *string `json:"matchedModel"`
	WarrantyYears   *int    `json:"warrantyYears"`
	MatchedCases    int     `json:"matchedCases"`
}

// debugResponse skips the model invocation entirely and exposes the
// intermediate matching results instead.
type debugResponse struct {
	DebugMode              bool           `json:"debugMode"`
	DetectedProduct        *string        `json:"detectedProduct"`
	MatchedModel           *string        `json:"matchedModel"`
	WarrantyYears          *int           `json:"warrantyYears"`
	TotalHistoricalRecords int            `json:"totalHistoricalRecords"`
	MatchedCases           int            `json:"matchedCases"`
	RelevantCases          []relevantCase `json:"relevantCases"`
	PromptPreview          string         `json:"promptPreview"`
}

type relevantCase struct {
	JobID             string `json:"jobId"`
	Model             string `json:"model"`
	CustomerComplaint string `json:"customerComplaint"`
	RepairComment     string `json:"repairComment"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// analyseHandler handles POST /api/analyse: run the matching pipeline over
// the enquiry text, assemble the grounding prompt and ask the model to draft
// an analysis. With debugMode the model call is skipped and the intermediate
// matching state is returned instead.
func (s *Server) analyseHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	start := s.now()

	var req analyseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Missing enquiry text"})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Missing enquiry text"})
		return
	}

	// Historical grounding is essential context: if the reference data is
	// unavailable the whole request fails, no degraded matching.
	records, warranty, err := s.cache.Load(r.Context())
	if err != nil {
		s.logger.Error("failed to load reference datasets", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Analysis failed", Details: err.Error()})
		return
	}

	maxCases := s.cfg.Matching.MaxCases
	if req.DebugMode {
		maxCases = s.cfg.Matching.DebugMaxCases
	}
	result := s.matcher.Resolve(req.Text, records, warranty, maxCases)

	prompt := s.buildPrompt(req.Text, result)

	if req.DebugMode {
		cases := make([]relevantCase, 0, len(result.RelevantCases))
		for _, rec := range result.RelevantCases {
			cases = append(cases, relevantCase{
				JobID:             rec.JobID,
				Model:             rec.Model,
				CustomerComplaint: rec.CustomerComplaint,
				RepairComment:     rec.RepairComment,
			})
		}
		s.auditEnquiry(req, result, 0, 0, s.now().Sub(start))
		writeJSON(w, http.StatusOK, debugResponse{
			DebugMode:              true,
			DetectedProduct:        categoryString(result.DetectedProduct),
			MatchedModel:           result.MatchedModel,
			WarrantyYears:          result.WarrantyYears,
			TotalHistoricalRecords: len(records),
			MatchedCases:           len(result.RelevantCases),
			RelevantCases:          cases,
			PromptPreview:          prompt,
		})
		return
	}

	completion, err := s.llm.Complete(r.Context(), prompt)
	if err != nil {
		s.logger.Error("analysis generation failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Analysis failed", Details: err.Error()})
		return
	}

	s.auditEnquiry(req, result, completion.InputTokens, completion.OutputTokens, s.now().Sub(start))

	writeJSON(w, http.StatusOK, analyseResponse{
		Analysis:        completion.Text,
		DetectedProduct: categoryString(result.DetectedProduct),
		MatchedModel:    result.MatchedModel,
		WarrantyYears:   result.WarrantyYears,
		MatchedCases:    len(result.RelevantCases),
	})
}

// buildPrompt assembles the analyst prompt: instructions, the current date
// for warranty-expiry reasoning, the enquiry, the deterministic matching
// signals and the formatted historical cases.
func (s *Server) buildPrompt(text string, result matching.Result) string {
	var b strings.Builder

	b.WriteString(`You are a technical support analyst. Analyse the following customer enquiry and provide:

1. **Summary**: A brief summary of the customer's issue
2. **Category**: The type of issue (e.g., Hardware, Software, Network, Account, Billing, etc.)
3. **Priority**: Suggested priority level (Low, Medium, High, Critical)
4. **Key Points**: Main technical details or concerns mentioned
5. **Suggested Response**: A draft response or next steps for the support team

`)

	fmt.Fprintf(&b, "Today's date: %s\n\n", s.now().Format("2006-01-02"))
	fmt.Fprintf(&b, "Customer Enquiry:\n%s\n\n", text)

	b.WriteString("Product Match:\n")
	if result.DetectedProduct != nil {
		fmt.Fprintf(&b, "- Detected product category: %s\n", *result.DetectedProduct)
	} else {
		b.WriteString("- Detected product category: unknown\n")
	}
	if result.MatchedModel != nil {
		fmt.Fprintf(&b, "- Matched model: %s\n", *result.MatchedModel)
	} else {
		b.WriteString("- Matched model: none\n")
	}
	if result.WarrantyYears != nil {
		fmt.Fprintf(&b, "- Warranty term: %d years from purchase\n", *result.WarrantyYears)
	} else {
		b.WriteString("- Warranty term: not found\n")
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Similar Historical Cases:\n%s\n\n", matching.FormatContext(result.RelevantCases))

	b.WriteString("Provide your analysis in a clear, structured format.")
	return b.String()
}

// auditEnquiry records the analysed enquiry in the audit log. Best-effort:
// a failed insert is logged but never fails the request.
func (s *Server) auditEnquiry(req analyseRequest, result matching.Result, inputTokens, outputTokens int64, duration time.Duration) {
	if s.enquiries == nil {
		return
	}

	entry := storage.EnquiryLog{
		EnquiryText:     req.Text,
		DetectedProduct: categoryString(result.DetectedProduct),
		MatchedModel:    result.MatchedModel,
		WarrantyYears:   result.WarrantyYears,
		MatchedCases:    len(result.RelevantCases),
		DebugMode:       req.DebugMode,
		DurationMs:      int(duration.Milliseconds()),
		InputTokens:     inputTokens,
		OutputTokens:    outputTokens,
		CreatedAt:       s.now(),
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.enquiries.AddEnquiry(entry); err != nil {
			s.logger.Error("failed to record enquiry in audit log", "error", err)
		}
	}()
}

func categoryString(cat *matching.Category) *string {
	if cat == nil {
		return nil
	}
	str := string(*cat)
	return &str
}
