// Package safepath guards files written on behalf of MCP clients.
package safepath

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hpungsan/acta/internal/errors"
)

// Ext is the only extension Check accepts.
const Ext = ".pdf"

// Policy restricts where rendered documents may be written.
type Policy struct {
	// Dirs are allowed in addition to DefaultDir. Relative entries are ignored.
	Dirs []string

	// AllowUnsafe skips the directory allowlist. Extension and symlink
	// checks still apply.
	AllowUnsafe bool
}

// DefaultDir returns ~/.acta/output.
func DefaultDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", errors.NewInternal(fmt.Errorf("failed to get home directory: %w", err))
	}
	return filepath.Join(homeDir, ".acta", "output"), nil
}

// Check validates path for writing. The file must sit directly in an
// allowed directory: nested paths are rejected so no intermediate directory
// can be swapped for a symlink between Check and WriteFile.
func (p Policy) Check(path string) error {
	if path == "" {
		return errors.NewInvalidRequest("path is required")
	}
	if containsTraversal(path) {
		return errors.NewInvalidRequest("path must not contain directory traversal (..)")
	}

	cleaned := filepath.Clean(path)
	if !strings.EqualFold(filepath.Ext(cleaned), Ext) {
		return errors.NewInvalidRequest("path must have " + Ext + " extension")
	}

	absPath, err := filepath.Abs(cleaned)
	if err != nil {
		return errors.NewInvalidRequest(fmt.Sprintf("invalid path: %v", err))
	}

	if !p.AllowUnsafe {
		allowed, err := p.allowedDirs()
		if err != nil {
			return err
		}
		parent := filepath.Dir(absPath)
		if !isDirectlyIn(parent, allowed) {
			return errors.NewInvalidRequest(fmt.Sprintf(
				"file must be directly in an allowed directory (no subdirectories); allowed: %v", allowed))
		}
		if info, err := os.Lstat(parent); err == nil && info.Mode()&os.ModeSymlink != 0 {
			return errors.NewInvalidRequest("parent directory must not be a symlink")
		}
	}

	if info, err := os.Lstat(absPath); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return errors.NewInvalidRequest("path must not be a symlink")
	}
	return nil
}

// WriteFile creates or truncates path without following a symlink in the
// final component.
func WriteFile(path string, data []byte) error {
	f, err := openFileNoFollow(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// allowedDirs returns the absolute allowed directories, resolving entries
// that are themselves symlinks.
func (p Policy) allowedDirs() ([]string, error) {
	defaultDir, err := DefaultDir()
	if err != nil {
		return nil, err
	}
	dirs := []string{defaultDir}
	for _, d := range p.Dirs {
		if filepath.IsAbs(d) {
			dirs = append(dirs, filepath.Clean(d))
		}
	}

	result := make([]string, 0, len(dirs))
	for _, d := range dirs {
		abs, err := filepath.Abs(d)
		if err != nil {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("invalid allowed path: %v", err))
		}
		if info, err := os.Lstat(abs); err == nil && info.Mode()&os.ModeSymlink != 0 {
			resolved, err := filepath.EvalSymlinks(abs)
			if err != nil {
				return nil, errors.NewInvalidRequest(fmt.Sprintf("cannot resolve symlink in allowed path: %v", err))
			}
			abs = resolved
		}
		result = append(result, abs)
	}
	return result, nil
}

func isDirectlyIn(parent string, allowed []string) bool {
	parent = filepath.Clean(parent)
	for _, dir := range allowed {
		if parent == filepath.Clean(dir) {
			return true
		}
	}
	return false
}

// containsTraversal checks every path component, splitting on "/" as well
// on platforms with another separator.
func containsTraversal(path string) bool {
	for _, part := range strings.Split(path, string(filepath.Separator)) {
		if part == ".." {
			return true
		}
	}
	if filepath.Separator != '/' {
		for _, part := range strings.Split(path, "/") {
			if part == ".." {
				return true
			}
		}
	}
	return false
}
