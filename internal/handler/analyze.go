package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Yarok14Technologies/front-end-ASIC-design-LMM-tool-using-RAG/internal/rtlcheck"
	"github.com/Yarok14Technologies/front-end-ASIC-design-LMM-tool-using-RAG/internal/specparse"
)

type analysisRequest struct {
	RTLCode      string   `json:"rtl_code"`
	AnalysisType []string `json:"analysis_type,omitempty"`
}

var defaultAnalysisTypes = []string{"syntax", "complexity", "ppa_estimation"}

// HandleAnalyzeRTL runs the requested static analyses over RTL code.
func (s *Service) HandleAnalyzeRTL(w http.ResponseWriter, r *http.Request) {
	var req analysisRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "request body is not valid JSON", "")
		return
	}
	if strings.TrimSpace(req.RTLCode) == "" {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "rtl_code is required", "")
		return
	}
	types := req.AnalysisType
	if len(types) == 0 {
		types = defaultAnalysisTypes
	}

	start := time.Now()
	results := make(map[string]any, len(types))
	for _, t := range types {
		switch t {
		case "syntax":
			results["syntax"] = rtlcheck.Validate(req.RTLCode)
		case "complexity":
			results["complexity"] = rtlcheck.CountMetrics(req.RTLCode)
		case "ppa_estimation":
			results["ppa_estimation"] = rtlcheck.EstimatePPA(req.RTLCode)
		}
	}

	var recommendations []string
	if report, ok := results["syntax"].(rtlcheck.Report); ok && !report.Valid {
		recommendations = append(recommendations, "Fix syntax issues in RTL code")
	}
	if metrics, ok := results["complexity"].(rtlcheck.Metrics); ok && metrics.AlwaysBlocks > 10 {
		recommendations = append(recommendations, "Consider simplifying design - high number of always blocks")
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"analysis_id":     uuid.NewString(),
		"analysis_type":   types,
		"results":         results,
		"recommendations": recommendations,
		"analysis_time":   time.Since(start).Seconds(),
		"timestamp":       time.Now(),
	})
}

// HandleValidateSpec reports structural validation and complexity for a
// specification without generating anything.
func (s *Service) HandleValidateSpec(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SpecText string `json:"spec_text"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "request body is not valid JSON", "")
		return
	}
	spec := specparse.Parse(req.SpecText)
	validation := specparse.Validate(spec)

	var recommendations []string
	if validation.Score < 80 {
		recommendations = []string{
			"Ensure all interfaces are clearly defined",
			"Specify clock frequency and timing requirements",
			"Include power and area constraints if applicable",
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"validation":      validation,
		"complexity":      spec.Complexity,
		"parsed_data":     spec,
		"recommendations": recommendations,
	})
}

// HandleSuggestModuleName derives a module name from specification text.
func (s *Service) HandleSuggestModuleName(w http.ResponseWriter, r *http.Request) {
	specText := r.URL.Query().Get("spec_text")
	if strings.TrimSpace(specText) == "" {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "spec_text is required", "")
		return
	}
	name := specparse.SuggestModuleName(specText)
	writeJSON(w, http.StatusOK, map[string]any{
		"suggested_name": name,
		"alternative_names": []string{
			strings.Replace(name, "module_", "design_", 1),
			strings.Replace(name, "module_", "ip_", 1),
			name + "_top",
		},
		"keywords": specparse.ExtractKeywords(specText),
	})
}
