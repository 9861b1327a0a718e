package artifact

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var projectSubdirs = []string{
	CategorySpecs, CategoryRTL, CategoryTestbenches, CategoryReports, CategoryLogs,
}

// CreateProject builds a fresh project tree and writes project_info.json.
// The id is derived from the name and creation instant, so two projects may
// share a display name without sharing storage.
func (s *Store) CreateProject(name, description string) (Project, error) {
	now := s.now()
	id := fmt.Sprintf("%x", md5.Sum([]byte(name+"_"+now.String())))[:12]
	projectDir := filepath.Join(s.root, CategoryProjects, id)
	for _, sub := range projectSubdirs {
		if err := os.MkdirAll(filepath.Join(projectDir, sub), 0o755); err != nil {
			return Project{}, fmt.Errorf("artifact: create project tree: %w", err)
		}
	}
	p := Project{
		ProjectID:   id,
		ProjectName: name,
		Description: description,
		CreatedAt:   now.Format(time.RFC3339),
		Directories: projectSubdirs,
	}
	if err := writeJSON(filepath.Join(projectDir, "project_info.json"), p); err != nil {
		return Project{}, err
	}
	return p, nil
}

// GetProject loads a project's project_info.json.
func (s *Store) GetProject(projectID string) (Project, error) {
	data, err := os.ReadFile(filepath.Join(s.root, CategoryProjects, projectID, "project_info.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return Project{}, ErrNotFound
		}
		return Project{}, fmt.Errorf("artifact: read project info: %w", err)
	}
	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return Project{}, fmt.Errorf("artifact: decode project info: %w", err)
	}
	return p, nil
}

// ListProjects enumerates every project that has a readable info sidecar.
func (s *Store) ListProjects() ([]Project, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, CategoryProjects))
	if err != nil {
		return nil, fmt.Errorf("artifact: list projects: %w", err)
	}
	projects := make([]Project, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		p, err := s.GetProject(entry.Name())
		if err != nil {
			continue
		}
		projects = append(projects, p)
	}
	return projects, nil
}

// ListProjectFiles returns the project's files grouped by category.
// Unknown projects yield ErrNotFound.
func (s *Store) ListProjectFiles(projectID string) (map[string][]FileInfo, error) {
	projectDir := filepath.Join(s.root, CategoryProjects, projectID)
	if _, err := os.Stat(projectDir); err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("artifact: stat project: %w", err)
	}
	out := make(map[string][]FileInfo, len(projectSubdirs))
	for _, category := range projectSubdirs {
		out[category] = []FileInfo{}
		dir := filepath.Join(projectDir, category)
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			out[category] = append(out[category], FileInfo{
				Filename: entry.Name(),
				Path:     filepath.Join(dir, entry.Name()),
				Size:     info.Size(),
				Modified: info.ModTime(),
			})
		}
	}
	return out, nil
}

// searchExtensions are the text-bearing files the content scan looks at.
var searchExtensions = map[string]struct{}{
	".txt": {}, ".md": {}, ".v": {}, ".sv": {}, ".vhd": {},
	".json": {}, ".yaml": {}, ".yml": {},
}

// Search runs a linear, case-insensitive substring scan over stored text
// files. Scoped to one project when projectID is set, otherwise over the
// specs, rtl, and testbenches categories. Unreadable files are skipped.
func (s *Store) Search(query, projectID string) ([]FileInfo, error) {
	var roots []string
	if projectID != "" {
		dir := filepath.Join(s.root, CategoryProjects, projectID)
		if _, err := os.Stat(dir); err == nil {
			roots = append(roots, dir)
		}
	} else {
		roots = []string{
			filepath.Join(s.root, CategorySpecs),
			filepath.Join(s.root, CategoryRTL),
			filepath.Join(s.root, CategoryTestbenches),
		}
	}

	needle := strings.ToLower(query)
	results := []FileInfo{}
	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}
			ext := strings.ToLower(filepath.Ext(path))
			if _, ok := searchExtensions[ext]; !ok {
				return nil
			}
			content, err := s.Read(path)
			if err != nil {
				return nil
			}
			if strings.Contains(strings.ToLower(content), needle) {
				if info, err := s.Info(path); err == nil {
					results = append(results, info)
				}
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("artifact: search walk: %w", err)
		}
	}
	return results, nil
}
