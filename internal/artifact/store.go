package artifact

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"
)

// DefaultMaxUploadSize caps upload entry only; internally generated
// artifacts are never size-checked.
const DefaultMaxUploadSize = 10 << 20

// uploadExtensions is the allow-list enforced on upload entry.
var uploadExtensions = map[string]struct{}{
	".txt": {}, ".md": {}, ".yaml": {}, ".yml": {}, ".json": {},
	".v": {}, ".vh": {}, ".sv": {}, ".vhd": {}, ".vhdl": {},
	".pdf": {}, ".doc": {}, ".docx": {},
}

// timestampLayout yields second-resolution filenames. Two writes of the
// same content in the same second collide onto the same path, which is
// idempotent; differing content in the same second overwrites (last writer
// wins, callers are warned).
const timestampLayout = "20060102_150405"

// Store persists artifacts under a single confined root directory.
type Store struct {
	root          string
	maxUploadSize int64
	logger        *log.Logger
	mirror        *Mirror

	now func() time.Time
}

// NewStore binds a store to root, creating the category tree. The root is
// resolved to an absolute path and every later operation is confined to it.
func NewStore(root string, maxUploadSize int64, logger *log.Logger) (*Store, error) {
	if root == "" {
		return nil, fmt.Errorf("artifact: empty root")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("artifact: resolve root: %w", err)
	}
	if maxUploadSize <= 0 {
		maxUploadSize = DefaultMaxUploadSize
	}
	if logger == nil {
		logger = log.Default()
	}
	s := &Store{root: abs, maxUploadSize: maxUploadSize, logger: logger, now: time.Now}
	for _, dir := range []string{
		abs,
		filepath.Join(abs, CategorySpecs),
		filepath.Join(abs, CategoryRTL),
		filepath.Join(abs, CategoryTestbenches),
		filepath.Join(abs, CategoryReports),
		filepath.Join(abs, CategoryTemp),
		filepath.Join(abs, CategoryProjects),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("artifact: create layout: %w", err)
		}
	}
	return s, nil
}

// Root returns the absolute upload root.
func (s *Store) Root() string { return s.root }

// AttachMirror enables best-effort object-storage mirroring of generated
// artifacts. Mirror failures are logged, never propagated.
func (s *Store) AttachMirror(m *Mirror) { s.mirror = m }

// resolve confines a caller-supplied path to the store root. Relative paths
// are joined under the root; absolute paths must already sit inside it.
func (s *Store) resolve(userPath string) (string, error) {
	if userPath == "" {
		return "", fmt.Errorf("artifact: empty path")
	}
	clean := filepath.Clean(userPath)
	var joined string
	if filepath.IsAbs(clean) {
		joined = clean
	} else {
		if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
			return "", fmt.Errorf("artifact: path traversal not allowed")
		}
		joined = filepath.Join(s.root, clean)
	}
	rootSlash := s.root + string(filepath.Separator)
	if joined != s.root && !strings.HasPrefix(joined, rootSlash) {
		return "", fmt.Errorf("artifact: path %q resolves outside storage root", userPath)
	}
	return joined, nil
}

func (s *Store) categoryDir(category, projectID string) (string, error) {
	if projectID != "" {
		dir := filepath.Join(s.root, CategoryProjects, projectID, category)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("artifact: create project dir: %w", err)
		}
		return dir, nil
	}
	return filepath.Join(s.root, category), nil
}

// SaveRTL writes generated RTL code to the rtl category (project-scoped
// when projectID is set) and, when metadata is non-nil, a _metadata.json
// provenance sidecar next to it.
func (s *Store) SaveRTL(ctx context.Context, code, moduleName, projectID string, metadata map[string]any) (Ref, error) {
	dir, err := s.categoryDir(CategoryRTL, projectID)
	if err != nil {
		return Ref{}, err
	}
	now := s.now()
	filename := fmt.Sprintf("%s_%s.v", now.Format(timestampLayout), moduleName)
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(code), 0o644); err != nil {
		return Ref{}, fmt.Errorf("artifact: write rtl: %w", err)
	}
	if metadata != nil {
		sidecar := strings.TrimSuffix(path, ".v") + "_metadata.json"
		if err := writeJSON(sidecar, metadata); err != nil {
			return Ref{}, err
		}
	}
	s.mirrorPut(ctx, CategoryRTL, projectID, filename, []byte(code))
	return Ref{
		Filename:   filename,
		Path:       path,
		ModuleName: moduleName,
		Size:       int64(len(code)),
		SavedAt:    now,
	}, nil
}

// SaveTestbench writes a generated testbench to the testbenches category.
func (s *Store) SaveTestbench(ctx context.Context, code, moduleName, projectID string) (Ref, error) {
	dir, err := s.categoryDir(CategoryTestbenches, projectID)
	if err != nil {
		return Ref{}, err
	}
	now := s.now()
	filename := fmt.Sprintf("%s_tb_%s.sv", now.Format(timestampLayout), moduleName)
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(code), 0o644); err != nil {
		return Ref{}, fmt.Errorf("artifact: write testbench: %w", err)
	}
	s.mirrorPut(ctx, CategoryTestbenches, projectID, filename, []byte(code))
	return Ref{
		Filename:   filename,
		Path:       path,
		ModuleName: "tb_" + moduleName,
		Size:       int64(len(code)),
		SavedAt:    now,
	}, nil
}

// SaveReport persists an analysis report as indented JSON under reports.
func (s *Store) SaveReport(ctx context.Context, report any, reportType, projectID string) (Ref, error) {
	dir, err := s.categoryDir(CategoryReports, projectID)
	if err != nil {
		return Ref{}, err
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return Ref{}, fmt.Errorf("artifact: encode report: %w", err)
	}
	now := s.now()
	filename := fmt.Sprintf("%s_%s_report.json", now.Format(timestampLayout), reportType)
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return Ref{}, fmt.Errorf("artifact: write report: %w", err)
	}
	s.mirrorPut(ctx, CategoryReports, projectID, filename, data)
	return Ref{
		Filename: filename,
		Path:     path,
		Size:     int64(len(data)),
		SavedAt:  now,
	}, nil
}

// SaveUpload stores user-supplied content. Size and extension limits apply
// here and only here. Uploads without a project are categorized by
// extension: HDL sources under rtl, text documents under specs, the rest
// under temp.
func (s *Store) SaveUpload(ctx context.Context, originalName string, content []byte, projectID string) (UploadRef, error) {
	if int64(len(content)) > s.maxUploadSize {
		return UploadRef{}, &InputError{
			Reason: fmt.Sprintf("file size exceeds maximum limit of %d bytes", s.maxUploadSize),
		}
	}
	ext := strings.ToLower(filepath.Ext(originalName))
	if _, ok := uploadExtensions[ext]; !ok {
		return UploadRef{}, &InputError{Reason: fmt.Sprintf("file type %q not allowed", ext)}
	}

	now := s.now()
	hash := fmt.Sprintf("%x", md5.Sum(content))[:8]
	stem := strings.ReplaceAll(strings.TrimSuffix(filepath.Base(originalName), filepath.Ext(originalName)), " ", "_")
	savedName := fmt.Sprintf("%s_%s_%s%s", now.Format(timestampLayout), hash, stem, ext)

	var dir string
	var err error
	switch {
	case projectID != "":
		dir = filepath.Join(s.root, CategoryProjects, projectID)
		err = os.MkdirAll(dir, 0o755)
	case isHDLExt(ext):
		dir = filepath.Join(s.root, CategoryRTL)
	case isSpecExt(ext):
		dir = filepath.Join(s.root, CategorySpecs)
	default:
		dir = filepath.Join(s.root, CategoryTemp)
	}
	if err != nil {
		return UploadRef{}, fmt.Errorf("artifact: create upload dir: %w", err)
	}

	path := filepath.Join(dir, savedName)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return UploadRef{}, fmt.Errorf("artifact: write upload: %w", err)
	}
	return UploadRef{
		OriginalName: originalName,
		SavedName:    savedName,
		Path:         path,
		Size:         int64(len(content)),
		Extension:    ext,
		ProjectID:    projectID,
		Hash:         hash,
		UploadedAt:   now,
	}, nil
}

func isHDLExt(ext string) bool {
	switch ext {
	case ".v", ".vh", ".sv", ".vhd", ".vhdl":
		return true
	}
	return false
}

func isSpecExt(ext string) bool {
	switch ext {
	case ".txt", ".md", ".yaml", ".yml", ".json":
		return true
	}
	return false
}

// Read returns file content as text. Bytes that are not valid UTF-8 are
// decoded as Latin-1 so legacy tool output still loads.
func (s *Store) Read(path string) (string, error) {
	p, err := s.resolve(path)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("artifact: read: %w", err)
	}
	if utf8.Valid(data) {
		return string(data), nil
	}
	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}
	return string(runes), nil
}

// Info returns detailed metadata for a single stored file.
func (s *Store) Info(path string) (FileInfo, error) {
	p, err := s.resolve(path)
	if err != nil {
		return FileInfo{}, err
	}
	st, err := os.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return FileInfo{}, ErrNotFound
		}
		return FileInfo{}, fmt.Errorf("artifact: stat: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(p))
	return FileInfo{
		Filename:  filepath.Base(p),
		Path:      p,
		Size:      st.Size(),
		SizeHuman: bytesHuman(st.Size()),
		Modified:  st.ModTime(),
		Extension: ext,
		Type:      fileTypeName(ext),
	}, nil
}

// Cleanup deletes temp-category files older than maxAge. Every failure is
// logged and swallowed; the sweep always finishes.
func (s *Store) Cleanup(maxAge time.Duration) {
	tempDir := filepath.Join(s.root, CategoryTemp)
	entries, err := os.ReadDir(tempDir)
	if err != nil {
		s.logger.Printf("artifact: cleanup warning: %v", err)
		return
	}
	cutoff := s.now().Add(-maxAge)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			s.logger.Printf("artifact: cleanup warning: %v", err)
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(tempDir, entry.Name())); err != nil {
				s.logger.Printf("artifact: cleanup warning: %v", err)
			}
		}
	}
}

func (s *Store) mirrorPut(ctx context.Context, category, projectID, filename string, data []byte) {
	if s.mirror == nil {
		return
	}
	object := category + "/" + filename
	if projectID != "" {
		object = CategoryProjects + "/" + projectID + "/" + object
	}
	if err := s.mirror.Put(ctx, object, data); err != nil {
		s.logger.Printf("artifact: mirror %s: %v", object, err)
	}
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("artifact: encode json: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("artifact: write json: %w", err)
	}
	return nil
}
