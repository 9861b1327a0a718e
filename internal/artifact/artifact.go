// Package artifact owns the on-disk layout for generated and uploaded
// files. No other package writes under the upload root; everything goes
// through a Store so naming, sidecars, and project structure stay in one
// place.
package artifact

import (
	"errors"
	"fmt"
	"time"
)

// Categories under the upload root. Projects get the same tree plus logs.
const (
	CategorySpecs       = "specs"
	CategoryRTL         = "rtl"
	CategoryTestbenches = "testbenches"
	CategoryReports     = "reports"
	CategoryTemp        = "temp"
	CategoryProjects    = "projects"
	CategoryLogs        = "logs"
)

// ErrNotFound reports a reference to a project or file that does not exist.
var ErrNotFound = errors.New("artifact: not found")

// InputError rejects an upload before it touches storage. Callers map it to
// a client-correctable failure.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return "artifact: " + e.Reason
}

// Ref describes a persisted artifact.
type Ref struct {
	Filename   string    `json:"filename"`
	Path       string    `json:"file_path"`
	ModuleName string    `json:"module_name,omitempty"`
	Size       int64     `json:"file_size"`
	SavedAt    time.Time `json:"saved_at"`
}

// UploadRef describes a stored upload, including the content hash baked
// into the filename.
type UploadRef struct {
	OriginalName string    `json:"filename"`
	SavedName    string    `json:"saved_filename"`
	Path         string    `json:"file_path"`
	Size         int64     `json:"file_size"`
	Extension    string    `json:"file_type"`
	ProjectID    string    `json:"project_id,omitempty"`
	Hash         string    `json:"file_hash"`
	UploadedAt   time.Time `json:"upload_time"`
}

// FileInfo is the listing/search view of a stored file.
type FileInfo struct {
	Filename  string    `json:"filename"`
	Path      string    `json:"file_path"`
	Size      int64     `json:"size"`
	SizeHuman string    `json:"size_human,omitempty"`
	Modified  time.Time `json:"modified"`
	Extension string    `json:"extension,omitempty"`
	Type      string    `json:"type,omitempty"`
}

// Project is the persisted project_info.json document.
type Project struct {
	ProjectID   string   `json:"project_id"`
	ProjectName string   `json:"project_name"`
	Description string   `json:"description"`
	CreatedAt   string   `json:"created_at"`
	Directories []string `json:"directories"`
}

var fileTypeNames = map[string]string{
	".v":    "Verilog Source",
	".vh":   "Verilog Header",
	".sv":   "SystemVerilog Source",
	".vhd":  "VHDL Source",
	".vhdl": "VHDL Source",
	".txt":  "Text Document",
	".md":   "Markdown Document",
	".yaml": "YAML Configuration",
	".yml":  "YAML Configuration",
	".json": "JSON Data",
	".pdf":  "PDF Document",
	".doc":  "Word Document",
	".docx": "Word Document",
}

func fileTypeName(ext string) string {
	if name, ok := fileTypeNames[ext]; ok {
		return name
	}
	return "Unknown"
}

func bytesHuman(n int64) string {
	size := float64(n)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if size < 1024.0 {
			return fmt.Sprintf("%.2f %s", size, unit)
		}
		size /= 1024.0
	}
	return fmt.Sprintf("%.2f TB", size)
}
