package handler

import (
	"net/http"
	"strings"

	"github.com/Yarok14Technologies/front-end-ASIC-design-LMM-tool-using-RAG/internal/pipeline"
	"github.com/Yarok14Technologies/front-end-ASIC-design-LMM-tool-using-RAG/internal/specparse"
)

// HandleGenerateRTL runs the full generation pipeline for one
// specification. A malformed payload is 400, a specification that fails
// structural validation is 422, a persistence failure is 500; backend
// failures never surface here because the pipeline substitutes a fallback.
func (s *Service) HandleGenerateRTL(w http.ResponseWriter, r *http.Request) {
	var req pipeline.Request
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "request body is not valid JSON", "")
		return
	}
	if strings.TrimSpace(req.SpecText) == "" {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "spec_text is required",
			"Provide the design specification as natural-language text.")
		return
	}
	if report := specparse.Validate(specparse.Parse(req.SpecText)); !report.Valid {
		writeError(w, http.StatusUnprocessableEntity, "SPEC_VALIDATION_FAILED",
			strings.Join(report.Issues, "; "),
			"Ensure the specification includes clear interface definitions and functional requirements.")
		return
	}

	result, err := s.Pipeline.GenerateRTL(r.Context(), req)
	if err != nil {
		s.Logger.Printf("handler: rtl generation: %v", err)
		writeError(w, http.StatusInternalServerError, "GENERATION_ERROR",
			"RTL generation failed: "+err.Error(),
			"Please check your specification and try again.")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HandleGenerateTestbench generates a verification testbench for RTL code.
func (s *Service) HandleGenerateTestbench(w http.ResponseWriter, r *http.Request) {
	var req pipeline.TestbenchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "request body is not valid JSON", "")
		return
	}
	if strings.TrimSpace(req.RTLCode) == "" || strings.TrimSpace(req.ModuleName) == "" {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "rtl_code and module_name are required",
			"Ensure the RTL code is valid and includes proper module declaration.")
		return
	}

	result, err := s.Pipeline.GenerateTestbench(r.Context(), req)
	if err != nil {
		s.Logger.Printf("handler: testbench generation: %v", err)
		writeError(w, http.StatusInternalServerError, "TESTBENCH_GENERATION_ERROR",
			"Testbench generation failed: "+err.Error(), "")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HandleBatchGenerate processes several specifications in one request.
func (s *Service) HandleBatchGenerate(w http.ResponseWriter, r *http.Request) {
	var req pipeline.BatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "request body is not valid JSON", "")
		return
	}
	if len(req.Specifications) == 0 {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "specifications must not be empty", "")
		return
	}
	writeJSON(w, http.StatusOK, s.Pipeline.GenerateBatch(r.Context(), req))
}
