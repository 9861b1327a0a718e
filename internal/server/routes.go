package server

import (
	"log"
	"net/http"

	"github.com/Yarok14Technologies/front-end-ASIC-design-LMM-tool-using-RAG/internal/handler"
	"github.com/Yarok14Technologies/front-end-ASIC-design-LMM-tool-using-RAG/internal/middleware"
)

// NewMux registers the REST surface under /api/v1 and wraps it with the
// request-log and CORS middlewares.
func NewMux(svc *handler.Service, logger *log.Logger) http.Handler {
	mux := http.NewServeMux()

	// Generation
	mux.HandleFunc("POST /api/v1/generate-rtl", svc.HandleGenerateRTL)
	mux.HandleFunc("POST /api/v1/generate-testbench", svc.HandleGenerateTestbench)
	mux.HandleFunc("POST /api/v1/batch/generate-rtl", svc.HandleBatchGenerate)

	// Files & projects
	mux.HandleFunc("POST /api/v1/upload-spec", svc.HandleUploadSpec)
	mux.HandleFunc("POST /api/v1/projects", svc.HandleCreateProject)
	mux.HandleFunc("GET /api/v1/projects", svc.HandleListProjects)
	mux.HandleFunc("GET /api/v1/projects/{id}/files", svc.HandleProjectFiles)
	mux.HandleFunc("GET /api/v1/download/{category}/{name}", svc.HandleDownload)

	// Analysis & search
	mux.HandleFunc("POST /api/v1/analyze-rtl", svc.HandleAnalyzeRTL)
	mux.HandleFunc("GET /api/v1/search", svc.HandleSearch)
	mux.HandleFunc("POST /api/v1/utils/validate-spec", svc.HandleValidateSpec)
	mux.HandleFunc("GET /api/v1/utils/suggest-module-name", svc.HandleSuggestModuleName)

	// System
	mux.HandleFunc("GET /api/v1/info", svc.HandleInfo)
	mux.HandleFunc("GET /api/v1/health", svc.HandleHealth)
	mux.HandleFunc("GET /api/v1/stats", svc.HandleStats)
	mux.HandleFunc("GET /api/v1/watch", svc.HandleWatch)

	return middleware.RequestLog(logger)(middleware.CORS(mux))
}
