package testutil

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"fo-go/internal/fo"
)

// MockFile represents a file in the mock filesystem.
type MockFile struct {
	Content     []byte
	Permissions fs.FileMode
	ModTime     time.Time
	IsDirectory bool
}

// MockFilesystemManager is an in-memory filesystem for testing.
// Paths are absolute; AddFile creates missing parent directories.
type MockFilesystemManager struct {
	mu        sync.Mutex
	files     map[string]*MockFile
	opens     map[string]int
	openErrs  map[string]error
	copyErrs  map[string]error
	copyCalls []string
}

// NewMockFilesystemManager creates a new mock filesystem.
func NewMockFilesystemManager() *MockFilesystemManager {
	return &MockFilesystemManager{
		files:    make(map[string]*MockFile),
		opens:    make(map[string]int),
		openErrs: make(map[string]error),
		copyErrs: make(map[string]error),
	}
}

// AddFile adds a file modified now to the mock filesystem.
func (m *MockFilesystemManager) AddFile(path string, content []byte) {
	m.AddFileWithModTime(path, content, time.Now())
}

// AddFileWithModTime adds a file with the given modification time.
func (m *MockFilesystemManager) AddFileWithModTime(path string, content []byte, modTime time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureParents(path)
	m.files[path] = &MockFile{
		Content:     content,
		Permissions: 0644,
		ModTime:     modTime,
	}
}

// AddDirectory adds a directory (and its parents) to the mock filesystem.
func (m *MockFilesystemManager) AddDirectory(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureParents(path)
	m.files[path] = newMockDir()
}

// FailOpen makes every Open of path return err.
func (m *MockFilesystemManager) FailOpen(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.openErrs[path] = err
}

// FailCopy makes every CopyFile from src return err.
func (m *MockFilesystemManager) FailCopy(src string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.copyErrs[src] = err
}

// OpenCount returns how many times path has been opened for reading.
func (m *MockFilesystemManager) OpenCount(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opens[path]
}

// CopyCalls returns the destination of every CopyFile call, in call order.
func (m *MockFilesystemManager) CopyCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.copyCalls...)
}

// ReadFile returns a file's content and whether it exists as a regular file.
func (m *MockFilesystemManager) ReadFile(path string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[path]
	if !ok || f.IsDirectory {
		return nil, false
	}
	return f.Content, true
}

// File returns the entry stored at path, or nil.
func (m *MockFilesystemManager) File(path string) *MockFile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.files[path]
}

// IsDir reports whether path exists as a directory.
func (m *MockFilesystemManager) IsDir(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[path]
	return ok && f.IsDirectory
}

// FilesUnder returns the sorted paths of regular files below dir.
func (m *MockFilesystemManager) FilesUnder(dir string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for p, f := range m.files {
		if !f.IsDirectory && strings.HasPrefix(p, dir+"/") {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

func (m *MockFilesystemManager) Resolve(rawPath string) (*fo.Path, error) {
	absPath, err := filepath.Abs(rawPath)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	file, ok := m.files[absPath]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", absPath)
	}
	return fo.NewPath(absPath, file.IsDirectory, newMockFileInfo(absPath, file)), nil
}

// FindFiles returns matching regular files in lexical path order.
func (m *MockFilesystemManager) FindFiles(root *fo.Path, pattern string) ([]*fo.Path, error) {
	if !root.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", root.String())
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var keys []string
	for p, f := range m.files {
		if f.IsDirectory || !strings.HasPrefix(p, root.String()+"/") {
			continue
		}
		rel := strings.TrimPrefix(p, root.String()+"/")
		matched, err := doublestar.Match(pattern, rel)
		if err != nil {
			return nil, fmt.Errorf("matching %q: %w", pattern, err)
		}
		if matched {
			keys = append(keys, p)
		}
	}
	sort.Strings(keys)

	paths := make([]*fo.Path, 0, len(keys))
	for _, p := range keys {
		paths = append(paths, fo.NewPath(p, false, newMockFileInfo(p, m.files[p])))
	}
	return paths, nil
}

func (m *MockFilesystemManager) Open(path *fo.Path) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.openErrs[path.String()]; ok {
		return nil, err
	}
	file, ok := m.files[path.String()]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", path.String())
	}
	if file.IsDirectory {
		return nil, fmt.Errorf("cannot open directory: %s", path.String())
	}
	m.opens[path.String()]++
	return io.NopCloser(bytes.NewReader(file.Content)), nil
}

func (m *MockFilesystemManager) CopyFile(src *fo.Path, dst string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.copyErrs[src.String()]; ok {
		return err
	}
	file, ok := m.files[src.String()]
	if !ok || file.IsDirectory {
		return fmt.Errorf("source not found: %s", src.String())
	}
	parent, ok := m.files[filepath.Dir(dst)]
	if !ok || !parent.IsDirectory {
		return fmt.Errorf("destination directory missing: %s", filepath.Dir(dst))
	}
	if existing, ok := m.files[dst]; ok && existing.IsDirectory {
		return fmt.Errorf("destination is a directory: %s", dst)
	}
	m.files[dst] = &MockFile{
		Content:     append([]byte(nil), file.Content...),
		Permissions: file.Permissions,
		ModTime:     file.ModTime,
	}
	m.copyCalls = append(m.copyCalls, dst)
	return nil
}

func (m *MockFilesystemManager) MakeDir(path string, parents bool) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.files[absPath]; ok {
		if existing.IsDirectory {
			return nil
		}
		return fmt.Errorf("not a directory: %s", absPath)
	}
	if parents {
		m.ensureParents(absPath)
	} else if parent, ok := m.files[filepath.Dir(absPath)]; !ok || !parent.IsDirectory {
		return fmt.Errorf("parent directory missing: %s", filepath.Dir(absPath))
	}
	m.files[absPath] = newMockDir()
	return nil
}

// ensureParents creates every missing ancestor of path. Caller holds m.mu.
func (m *MockFilesystemManager) ensureParents(path string) {
	for dir := filepath.Dir(path); ; dir = filepath.Dir(dir) {
		if _, ok := m.files[dir]; !ok {
			m.files[dir] = newMockDir()
		}
		if dir == filepath.Dir(dir) {
			return
		}
	}
}

func newMockDir() *MockFile {
	return &MockFile{
		Permissions: fs.ModeDir | 0755,
		ModTime:     time.Now(),
		IsDirectory: true,
	}
}

// mockFileInfo implements fs.FileInfo
type mockFileInfo struct {
	name     string
	size     int64
	mode     fs.FileMode
	modTime  time.Time
	isDir    bool
	mockFile *MockFile
}

func newMockFileInfo(path string, f *MockFile) *mockFileInfo {
	return &mockFileInfo{
		name:     filepath.Base(path),
		size:     int64(len(f.Content)),
		mode:     f.Permissions,
		modTime:  f.ModTime,
		isDir:    f.IsDirectory,
		mockFile: f,
	}
}

func (m *mockFileInfo) Name() string       { return m.name }
func (m *mockFileInfo) Size() int64        { return m.size }
func (m *mockFileInfo) Mode() fs.FileMode  { return m.mode }
func (m *mockFileInfo) ModTime() time.Time { return m.modTime }
func (m *mockFileInfo) IsDir() bool        { return m.isDir }
func (m *mockFileInfo) Sys() any           { return m.mockFile }

// Compile-time check
var _ fo.FilesystemManager = (*MockFilesystemManager)(nil)
