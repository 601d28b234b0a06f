// Package scanner walks a components root two levels deep: component folders
// directly under the root, and release folders directly under each component.
package scanner

import (
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	oerrors "github.com/pipeline-tools/component-finder/internal/errors"
	"github.com/pipeline-tools/component-finder/internal/output"
)

// ErrRootNotFound indicates the components root is missing or not a directory.
var ErrRootNotFound = fmt.Errorf("components root %w", oerrors.ErrNotFound)

// Component is a top-level folder under the components root.
type Component struct {
	Name string
	Path string
}

// Candidate is a folder under a component; it is a release once validated.
type Candidate struct {
	Component string
	Name      string
	Path      string
}

// Scanner lists components and their candidate release folders.
type Scanner struct {
	root   string
	ignore []string
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithIgnore excludes component folders whose names match any of the given
// doublestar patterns.
func WithIgnore(patterns ...string) Option {
	return func(s *Scanner) {
		s.ignore = append(s.ignore, patterns...)
	}
}

// New returns a Scanner for root. It fails with ErrRootNotFound when root does
// not exist or is not a directory.
func New(root string, opts ...Option) (*Scanner, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		reason := "path is not a directory"
		if err != nil {
			reason = err.Error()
		}
		return nil, &oerrors.DetailError{
			Type:     "components root not found",
			Message:  reason,
			Location: root,
			Hint:     "Pass --root or set CFINDER_ROOT to the shared components directory",
			Cause:    ErrRootNotFound,
		}
	}

	s := &Scanner{root: root}
	for _, opt := range opts {
		opt(s)
	}

	for _, p := range s.ignore {
		if !doublestar.ValidatePattern(p) {
			return nil, oerrors.NewValidationError(
				fmt.Sprintf("invalid ignore pattern %q", p),
				"",
				"Ignore patterns use doublestar glob syntax, e.g. \"_*\" or \"{archive,tmp}\"",
			)
		}
	}

	return s, nil
}

// Root returns the components root directory.
func (s *Scanner) Root() string {
	return s.root
}

// Components yields the component folders under the root in name order.
// Entries that are not directories, and ignored names, are skipped.
// A read error is yielded once and ends the sequence.
func (s *Scanner) Components() iter.Seq2[Component, error] {
	return func(yield func(Component, error) bool) {
		entries, err := os.ReadDir(s.root)
		if err != nil {
			yield(Component{}, fmt.Errorf("reading components root %s: %w", s.root, err))
			return
		}

		for _, e := range entries {
			path := filepath.Join(s.root, e.Name())
			if !isDir(path, e) {
				continue
			}
			if pattern, ok := s.ignored(e.Name()); ok {
				output.Debug("ignoring component folder", "component", e.Name(), "pattern", pattern)
				continue
			}
			if !yield(Component{Name: e.Name(), Path: path}, nil) {
				return
			}
		}
	}
}

// Releases yields the candidate release folders of c in name order.
// A read error is yielded once and ends the sequence.
func (c Component) Releases() iter.Seq2[Candidate, error] {
	return func(yield func(Candidate, error) bool) {
		entries, err := os.ReadDir(c.Path)
		if err != nil {
			yield(Candidate{}, fmt.Errorf("reading component %s: %w", c.Name, err))
			return
		}

		for _, e := range entries {
			path := filepath.Join(c.Path, e.Name())
			if !isDir(path, e) {
				continue
			}
			if !yield(Candidate{Component: c.Name, Name: e.Name(), Path: path}, nil) {
				return
			}
		}
	}
}

func (s *Scanner) ignored(name string) (string, bool) {
	for _, p := range s.ignore {
		// Patterns were validated in New.
		if ok, _ := doublestar.Match(p, name); ok {
			return p, true
		}
	}
	return "", false
}

// isDir reports whether the entry is a directory, following symlinks.
func isDir(path string, e fs.DirEntry) bool {
	if e.IsDir() {
		return true
	}
	if e.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
