// Package handler exposes the generation pipeline over JSON REST. Handlers
// stay thin: decode, delegate, encode. Every failure goes out as the
// {error, message, suggestion} envelope.
package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/Yarok14Technologies/front-end-ASIC-design-LMM-tool-using-RAG/internal/artifact"
	"github.com/Yarok14Technologies/front-end-ASIC-design-LMM-tool-using-RAG/internal/knowledge"
	"github.com/Yarok14Technologies/front-end-ASIC-design-LMM-tool-using-RAG/internal/pipeline"
)

const apiVersion = "1.0.0"

// Service holds every dependency the HTTP surface needs.
type Service struct {
	Pipeline  *pipeline.Pipeline
	Retriever *knowledge.Retriever
	Artifacts *artifact.Store
	Stats     *pipeline.Stats
	Events    *pipeline.EventHub
	Logger    *log.Logger
}

func NewService(p *pipeline.Pipeline, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		Pipeline:  p,
		Retriever: p.Retriever,
		Artifacts: p.Artifacts,
		Stats:     p.Stats,
		Events:    p.Events,
		Logger:    logger,
	}
}

// ErrorResponse is the wire shape of every failure.
type ErrorResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message, suggestion string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message, Suggestion: suggestion})
}

// decodeJSON reads the request body into v, rejecting unknown noise early.
func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// writeStoreError maps artifact-layer failures onto HTTP statuses.
func (s *Service) writeStoreError(w http.ResponseWriter, err error, code string) {
	var inputErr *artifact.InputError
	switch {
	case errors.As(err, &inputErr):
		writeError(w, http.StatusBadRequest, code, inputErr.Reason,
			"Correct the file and resubmit.")
	case errors.Is(err, artifact.ErrNotFound):
		writeError(w, http.StatusNotFound, code, err.Error(), "")
	default:
		writeError(w, http.StatusInternalServerError, code, err.Error(), "")
	}
}
