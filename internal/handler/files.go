package handler

import (
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Yarok14Technologies/front-end-ASIC-design-LMM-tool-using-RAG/internal/artifact"
	"github.com/Yarok14Technologies/front-end-ASIC-design-LMM-tool-using-RAG/internal/specparse"
)

type uploadResponse struct {
	artifact.UploadRef
	ParsedData parsedSpec `json:"parsed_data"`
}

type parsedSpec struct {
	specparse.Specification
	Validation specparse.Report `json:"validation"`
}

// HandleUploadSpec stores a specification file and returns it parsed:
// interfaces, protocols, parameters, complexity, and a structural
// validation report.
func (s *Service) HandleUploadSpec(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "multipart field 'file' is required", "")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "FILE_PROCESSING_ERROR", err.Error(), "")
		return
	}

	ref, err := s.Artifacts.SaveUpload(r.Context(), header.Filename, content, r.URL.Query().Get("project_id"))
	if err != nil {
		s.writeStoreError(w, err, "FILE_PROCESSING_ERROR")
		return
	}

	text, err := s.Artifacts.Read(ref.Path)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "FILE_PROCESSING_ERROR", err.Error(),
			"Please ensure the file is not corrupted and try again.")
		return
	}

	spec := specparse.Parse(text)
	writeJSON(w, http.StatusOK, uploadResponse{
		UploadRef:  ref,
		ParsedData: parsedSpec{Specification: spec, Validation: specparse.Validate(spec)},
	})
}

type createProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// HandleCreateProject sets up a new project tree.
func (s *Service) HandleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "request body is not valid JSON", "")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "name is required",
			"Use alphanumeric characters, spaces, hyphens, or underscores.")
		return
	}
	project, err := s.Artifacts.CreateProject(req.Name, req.Description)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "PROJECT_CREATION_ERROR", err.Error(), "")
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// HandleListProjects returns every known project.
func (s *Service) HandleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.Artifacts.ListProjects()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "PROJECT_LIST_ERROR", err.Error(), "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"projects":       projects,
		"total_projects": len(projects),
	})
}

// HandleProjectFiles lists a project's files grouped by category.
func (s *Service) HandleProjectFiles(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("id")
	files, err := s.Artifacts.ListProjectFiles(projectID)
	if err != nil {
		s.writeStoreError(w, err, "PROJECT_NOT_FOUND")
		return
	}
	total := 0
	breakdown := make(map[string]int, len(files))
	for category, infos := range files {
		total += len(infos)
		breakdown[category] = len(infos)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"project_id":          projectID,
		"files":               files,
		"total_files":         total,
		"file_type_breakdown": breakdown,
	})
}

var downloadCategories = map[string]string{
	"rtl":       artifact.CategoryRTL,
	"testbench": artifact.CategoryTestbenches,
	"report":    artifact.CategoryReports,
}

// HandleDownload streams a generated file back to the caller.
func (s *Service) HandleDownload(w http.ResponseWriter, r *http.Request) {
	category, ok := downloadCategories[r.PathValue("category")]
	if !ok {
		writeError(w, http.StatusBadRequest, "INVALID_FILE_TYPE",
			"invalid file type: "+r.PathValue("category"),
			"Supported types: rtl, testbench, report")
		return
	}
	filename := filepath.Base(r.PathValue("name"))
	content, err := s.Artifacts.Read(filepath.Join(category, filename))
	if err != nil {
		s.writeStoreError(w, err, "FILE_NOT_FOUND")
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = io.WriteString(w, content)
}

// HandleSearch queries the knowledge base by default; scope=files switches
// to a content scan over stored artifacts, optionally limited to a project.
func (s *Service) HandleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "query is required", "")
		return
	}

	if r.URL.Query().Get("scope") == "files" {
		results, err := s.Artifacts.Search(query, r.URL.Query().Get("project_id"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "SEARCH_ERROR", err.Error(), "")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"query":         query,
			"results":       results,
			"total_results": len(results),
		})
		return
	}

	topK := intQuery(r, "n_results", 5)
	snippets := s.Retriever.Retrieve(r.Context(), query, topK)
	writeJSON(w, http.StatusOK, map[string]any{
		"query":         query,
		"results":       snippets,
		"total_results": len(snippets),
	})
}

func intQuery(r *http.Request, key string, fallback int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || n < 1 || n > 20 {
		return fallback
	}
	return n
}
