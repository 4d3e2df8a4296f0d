package security

import (
	"path/filepath"

	"github.com/spf13/afero"
)

// SafeFS confines all filesystem access to a single root directory. Any
// client-specified path is rewritten to its basename before being resolved
// against the root, so an absolute path like "/etc/passwd" or a traversal
// like "../../etc/passwd" can never escape it.
type SafeFS struct {
	root string
	fs   afero.Fs
}

// NewSafeFS creates the root directory (if absent) and returns a SafeFS
// rooted there.
func NewSafeFS(root string) (*SafeFS, error) {
	base := afero.NewOsFs()
	if err := base.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &SafeFS{
		root: root,
		fs:   afero.NewBasePathFs(base, root),
	}, nil
}

// Resolve maps a client-specified path to its confined basename and returns
// the path to use against the SafeFS's afero.Fs.
func (s *SafeFS) Resolve(path string) string {
	return filepath.Base(filepath.Clean(path))
}

// Fs returns the underlying afero.Fs, rooted at the safe directory.
func (s *SafeFS) Fs() afero.Fs {
	return s.fs
}

// Root returns the absolute safe directory path.
func (s *SafeFS) Root() string {
	return s.root
}
