package fs

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"fo-go/internal/fo"
)

// OSFilesystemManager is the real filesystem implementation of FilesystemManager.
// It performs actual filesystem operations using the os package.
type OSFilesystemManager struct {
	exclude *ExcludeMatcher
}

// NewOSFilesystemManager creates a new filesystem manager that operates on the real filesystem.
// Files matching any of the exclude patterns are never returned by FindFiles.
func NewOSFilesystemManager(exclude []string) *OSFilesystemManager {
	return &OSFilesystemManager{exclude: NewExcludeMatcher(exclude)}
}

// Resolve validates a raw path and returns a Path object.
func (m *OSFilesystemManager) Resolve(rawPath string) (*fo.Path, error) {
	// Convert to absolute path
	absPath, err := filepath.Abs(rawPath)
	if err != nil {
		return nil, fmt.Errorf("resolving absolute path: %w", err)
	}

	// Stat the path, following symlinks
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("stat path: %w", err)
	}

	// Check for special file types we don't support
	mode := info.Mode()
	if mode&os.ModeDevice != 0 {
		return nil, fmt.Errorf("device files not supported: %s", absPath)
	}
	if mode&os.ModeNamedPipe != 0 {
		return nil, fmt.Errorf("named pipes not supported: %s", absPath)
	}
	if mode&os.ModeSocket != 0 {
		return nil, fmt.Errorf("sockets not supported: %s", absPath)
	}

	return fo.NewPath(absPath, info.IsDir(), info), nil
}

// FindFiles returns the regular files under root whose relative path matches
// pattern, sorted by path. Symlinked directories are not descended into; a
// symlink to a regular file is returned like the file itself.
func (m *OSFilesystemManager) FindFiles(root *fo.Path, pattern string) ([]*fo.Path, error) {
	if !root.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", root.String())
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid glob pattern: %s", pattern)
	}

	var paths []*fo.Path
	err := doublestar.GlobWalk(os.DirFS(root.String()), pattern, func(rel string, d fs.DirEntry) error {
		if d.IsDir() {
			return nil
		}
		if m.exclude.Match(rel) {
			return nil
		}
		full := filepath.Join(root.String(), filepath.FromSlash(rel))
		info, err := os.Stat(full)
		if err != nil {
			if d.Type()&fs.ModeSymlink != 0 && errors.Is(err, fs.ErrNotExist) {
				// dangling symlink
				return nil
			}
			return fmt.Errorf("stat %s: %w", full, err)
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		paths = append(paths, fo.NewPath(full, false, info))
		return nil
	}, doublestar.WithFailOnIOErrors(), doublestar.WithNoFollow())
	if err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	sort.Slice(paths, func(i, j int) bool { return paths[i].String() < paths[j].String() })
	return paths, nil
}

// Open opens a file for reading.
func (m *OSFilesystemManager) Open(path *fo.Path) (io.ReadCloser, error) {
	if path.IsDir() {
		return nil, fmt.Errorf("cannot open directory as file: %s", path.String())
	}
	return os.Open(path.String())
}

// CopyFile copies src to dst through a temp file in dst's directory and an
// atomic rename, then restores permission bits and access/modification times.
// An existing dst file is replaced.
func (m *OSFilesystemManager) CopyFile(src *fo.Path, dst string) error {
	in, err := os.Open(src.String())
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer in.Close()

	// Fresh stat so the copied times match the bytes we read.
	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("source is not a regular file: %s", src.String())
	}

	if existing, err := os.Lstat(dst); err == nil && existing.IsDir() {
		return fmt.Errorf("destination is a directory: %s", dst)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	// Clean up temp file on failure
	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := io.Copy(tmpFile, in); err != nil {
		tmpFile.Close()
		return fmt.Errorf("copying content: %w", err)
	}
	if err := tmpFile.Chmod(info.Mode().Perm()); err != nil {
		tmpFile.Close()
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, dst); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}
	success = true

	if err := os.Chtimes(dst, accessTime(info), info.ModTime()); err != nil {
		return fmt.Errorf("setting file times: %w", err)
	}
	return nil
}

// MakeDir creates path. An existing directory is accepted; an existing
// non-directory is an error. Without parents, a missing parent is an error.
func (m *OSFilesystemManager) MakeDir(path string, parents bool) error {
	if parents {
		return os.MkdirAll(path, 0755)
	}

	err := os.Mkdir(path, 0755)
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrExist) {
		info, statErr := os.Stat(path)
		if statErr == nil && info.IsDir() {
			return nil
		}
		return fmt.Errorf("path exists and is not a directory: %s", path)
	}
	return err
}

// Compile-time check that OSFilesystemManager implements fo.FilesystemManager interface
var _ fo.FilesystemManager = (*OSFilesystemManager)(nil)
