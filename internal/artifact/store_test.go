package artifact

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir(), 0, nil)
	require.NoError(t, err)
	return s
}

func TestNewStore_CreatesLayout(t *testing.T) {
	s := newTestStore(t)
	for _, dir := range []string{CategorySpecs, CategoryRTL, CategoryTestbenches, CategoryReports, CategoryTemp, CategoryProjects} {
		st, err := os.Stat(filepath.Join(s.Root(), dir))
		require.NoError(t, err)
		require.True(t, st.IsDir())
	}
}

func TestSaveRTL_WithMetadataSidecar(t *testing.T) {
	s := newTestStore(t)
	ref, err := s.SaveRTL(context.Background(), "module m; endmodule", "m", "", map[string]any{
		"generated_by": "gemini-2.5-flash",
	})
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(ref.Filename, "_m.v"))
	require.Equal(t, "m", ref.ModuleName)

	content, err := s.Read(ref.Path)
	require.NoError(t, err)
	require.Equal(t, "module m; endmodule", content)

	sidecar := strings.TrimSuffix(ref.Path, ".v") + "_metadata.json"
	data, err := os.ReadFile(sidecar)
	require.NoError(t, err)
	require.Contains(t, string(data), "gemini-2.5-flash")
}

func TestSaveRTL_SameSecondSameContentIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	fixed := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	first, err := s.SaveRTL(context.Background(), "module m; endmodule", "m", "", nil)
	require.NoError(t, err)
	second, err := s.SaveRTL(context.Background(), "module m; endmodule", "m", "", nil)
	require.NoError(t, err)
	require.Equal(t, first.Path, second.Path)

	entries, err := os.ReadDir(filepath.Join(s.Root(), CategoryRTL))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestSaveTestbench_Naming(t *testing.T) {
	s := newTestStore(t)
	ref, err := s.SaveTestbench(context.Background(), "module tb_m; endmodule", "m", "")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(ref.Filename, "_tb_m.sv"))
	require.Equal(t, "tb_m", ref.ModuleName)
}

func TestSaveUpload_Limits(t *testing.T) {
	s, err := NewStore(t.TempDir(), 16, nil)
	require.NoError(t, err)

	_, err = s.SaveUpload(context.Background(), "big.txt", make([]byte, 17), "")
	var inputErr *InputError
	require.ErrorAs(t, err, &inputErr)

	_, err = s.SaveUpload(context.Background(), "tool.exe", []byte("x"), "")
	require.ErrorAs(t, err, &inputErr)
}

func TestSaveUpload_CategorizesByExtension(t *testing.T) {
	s := newTestStore(t)
	cases := []struct {
		name     string
		category string
	}{
		{"counter.v", CategoryRTL},
		{"spec notes.md", CategorySpecs},
		{"manual.pdf", CategoryTemp},
	}
	for _, tc := range cases {
		ref, err := s.SaveUpload(context.Background(), tc.name, []byte("content"), "")
		require.NoError(t, err)
		require.Contains(t, ref.Path, string(filepath.Separator)+tc.category+string(filepath.Separator))
		require.Len(t, ref.Hash, 8)
		require.NotContains(t, ref.SavedName, " ")
	}
}

func TestRead_Latin1Fallback(t *testing.T) {
	s := newTestStore(t)
	path := filepath.Join(s.Root(), CategorySpecs, "legacy.txt")
	require.NoError(t, os.WriteFile(path, []byte{'c', 'a', 'f', 0xE9}, 0o644))

	content, err := s.Read(path)
	require.NoError(t, err)
	require.Equal(t, "café", content)
}

func TestRead_RejectsEscapingPaths(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Read("../outside.txt")
	require.Error(t, err)
	_, err = s.Read("/etc/hostname")
	require.Error(t, err)
}

func TestRead_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Read("specs/missing.txt")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCreateProject(t *testing.T) {
	s := newTestStore(t)
	p, err := s.CreateProject("uart bridge", "serial frontend")
	require.NoError(t, err)
	require.Len(t, p.ProjectID, 12)
	require.Equal(t, projectSubdirs, p.Directories)

	got, err := s.GetProject(p.ProjectID)
	require.NoError(t, err)
	require.Equal(t, p, got)

	files, err := s.ListProjectFiles(p.ProjectID)
	require.NoError(t, err)
	for _, category := range projectSubdirs {
		require.Empty(t, files[category])
	}
}

func TestListProjectFiles_Unknown(t *testing.T) {
	s := newTestStore(t)
	_, err := s.ListProjectFiles("nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSearch(t *testing.T) {
	s := newTestStore(t)
	_, err := s.SaveRTL(context.Background(), "module uart_tx; endmodule", "uart_tx", "", nil)
	require.NoError(t, err)
	_, err = s.SaveRTL(context.Background(), "module spi_master; endmodule", "spi_master", "", nil)
	require.NoError(t, err)

	results, err := s.Search("UART", "")
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Contains(t, results[0].Filename, "uart_tx")
}

func TestSearch_ProjectScope(t *testing.T) {
	s := newTestStore(t)
	p, err := s.CreateProject("demo", "")
	require.NoError(t, err)
	_, err = s.SaveRTL(context.Background(), "module fifo; endmodule", "fifo", p.ProjectID, nil)
	require.NoError(t, err)
	_, err = s.SaveRTL(context.Background(), "module fifo; endmodule", "fifo_global", "", nil)
	require.NoError(t, err)

	results, err := s.Search("fifo", p.ProjectID)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Contains(t, results[0].Path, p.ProjectID)
}

func TestCleanup_RemovesOnlyStaleTempFiles(t *testing.T) {
	s := newTestStore(t)
	tempDir := filepath.Join(s.Root(), CategoryTemp)
	stale := filepath.Join(tempDir, "old.tmp")
	fresh := filepath.Join(tempDir, "new.tmp")
	require.NoError(t, os.WriteFile(stale, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(fresh, []byte("x"), 0o644))
	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))

	s.Cleanup(24 * time.Hour)

	_, err := os.Stat(stale)
	require.True(t, errors.Is(err, os.ErrNotExist))
	_, err = os.Stat(fresh)
	require.NoError(t, err)
}

func TestInfo(t *testing.T) {
	s := newTestStore(t)
	ref, err := s.SaveRTL(context.Background(), "module m; endmodule", "m", "", nil)
	require.NoError(t, err)

	info, err := s.Info(ref.Path)
	require.NoError(t, err)
	require.Equal(t, ref.Filename, info.Filename)
	require.Equal(t, ".v", info.Extension)
	require.Equal(t, "Verilog Source", info.Type)
	require.NotEmpty(t, info.SizeHuman)
}
