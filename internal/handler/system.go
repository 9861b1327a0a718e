package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Yarok14Technologies/front-end-ASIC-design-LMM-tool-using-RAG/internal/specparse"
)

// HandleHealth reports overall and per-service status. The generation
// backend being unconfigured degrades health, it does not fail it: the
// pipeline still serves fallback artifacts.
func (s *Service) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	services := map[string]map[string]string{}
	status := "healthy"

	// An unconfigured backend degrades health rather than failing it;
	// fallback serving still works.
	llmStatus := "healthy"
	if s.Pipeline.LLM.Name() == "unconfigured" {
		llmStatus = "degraded"
		status = "degraded"
	}
	services["llm"] = map[string]string{"status": llmStatus, "backend": s.Pipeline.LLM.Name()}

	knowledgeStatus := "healthy"
	if len(s.Retriever.Retrieve(ctx, "health probe", 1)) == 0 {
		knowledgeStatus = "degraded"
		status = "degraded"
	}
	services["knowledge"] = map[string]string{"status": knowledgeStatus}
	services["artifacts"] = map[string]string{"status": "healthy", "root": s.Artifacts.Root()}

	snap := s.Stats.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         status,
		"version":        apiVersion,
		"timestamp":      time.Now(),
		"services":       services,
		"uptime_seconds": snap.UptimeSeconds,
		"total_requests": snap.RequestsProcessed,
	})
}

// HandleInfo describes the API surface: features, supported languages and
// protocols, and the endpoint list.
func (s *Service) HandleInfo(w http.ResponseWriter, r *http.Request) {
	snap := s.Stats.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"name":        "RTL Generation API",
		"version":     apiVersion,
		"description": "Generates RTL and verification testbenches from natural-language specifications using retrieval-augmented generation.",
		"features": []string{
			"RTL generation with knowledge retrieval",
			"Testbench generation",
			"Static RTL analysis and PPA estimation",
			"Specification upload and validation",
			"Project-organized artifact storage",
		},
		"supported_languages": []string{"Verilog", "VHDL", "SystemVerilog"},
		"supported_protocols": specparse.ProtocolVocabulary(),
		"endpoints": []map[string]any{
			{"path": "/api/v1/generate-rtl", "methods": []string{"POST"}, "description": "Generate RTL from specification"},
			{"path": "/api/v1/generate-testbench", "methods": []string{"POST"}, "description": "Generate testbench for RTL"},
			{"path": "/api/v1/batch/generate-rtl", "methods": []string{"POST"}, "description": "Batch RTL generation"},
			{"path": "/api/v1/upload-spec", "methods": []string{"POST"}, "description": "Upload specification file"},
			{"path": "/api/v1/projects", "methods": []string{"GET", "POST"}, "description": "List and create projects"},
			{"path": "/api/v1/projects/{id}/files", "methods": []string{"GET"}, "description": "List project files"},
			{"path": "/api/v1/download/{category}/{name}", "methods": []string{"GET"}, "description": "Download generated file"},
			{"path": "/api/v1/analyze-rtl", "methods": []string{"POST"}, "description": "Static RTL analysis"},
			{"path": "/api/v1/search", "methods": []string{"GET"}, "description": "Search knowledge base or stored files"},
			{"path": "/api/v1/utils/validate-spec", "methods": []string{"POST"}, "description": "Validate specification structure"},
			{"path": "/api/v1/utils/suggest-module-name", "methods": []string{"GET"}, "description": "Suggest module name from specification"},
			{"path": "/api/v1/info", "methods": []string{"GET"}, "description": "API description"},
			{"path": "/api/v1/health", "methods": []string{"GET"}, "description": "Health check"},
			{"path": "/api/v1/stats", "methods": []string{"GET"}, "description": "Usage statistics"},
			{"path": "/api/v1/watch", "methods": []string{"GET"}, "description": "Websocket stream of pipeline stage events"},
		},
		"uptime":         snap.UptimeSeconds,
		"total_requests": snap.RequestsProcessed,
	})
}

// HandleStats returns usage counters and derived rates.
func (s *Service) HandleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"timestamp": time.Now(),
		"requests":  s.Stats.Snapshot(),
	})
}
