// Package envfile writes the resolved component mapping as a dated script
// that bootstrap jobs source to find the latest validated components.
package envfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	oerrors "github.com/pipeline-tools/component-finder/internal/errors"
	"github.com/pipeline-tools/component-finder/internal/output"
	"github.com/pipeline-tools/component-finder/internal/resolver"
)

// BaseName is the file name stem shared by every generated file.
const BaseName = "pipeline_components_env"

// Options configures an Emitter.
type Options struct {
	// Dir is the output directory. It must exist.
	Dir string

	// Format selects the script dialect. Empty means FormatBat.
	Format Format

	// Prefix and Suffix wrap every variable name.
	Prefix string
	Suffix string

	// Tool and Version are recorded in the header.
	Tool    string
	Version string

	// Root is the scanned components root, recorded in the header.
	Root string
}

// Emitter renders and writes env files.
type Emitter struct {
	opts Options
}

// New returns an Emitter. It fails when the format is unknown.
func New(opts Options) (*Emitter, error) {
	if opts.Format == "" {
		opts.Format = FormatBat
	}
	if !opts.Format.Valid() {
		return nil, oerrors.NewValidationError(fmt.Sprintf("unknown env file format %q", opts.Format), "", "")
	}
	if opts.Dir == "" {
		opts.Dir = "."
	}
	return &Emitter{opts: opts}, nil
}

// Format returns the script dialect.
func (e *Emitter) Format() Format {
	return e.opts.Format
}

// FileName returns the dated file name for now, in now's location.
func (e *Emitter) FileName(now time.Time) string {
	return fmt.Sprintf("%s-%s.%s", BaseName, now.Format(time.DateOnly), e.opts.Format.Ext())
}

// LatestName returns the undated name the promotion step copies the file to.
// The emitter never writes it.
func (e *Emitter) LatestName() string {
	return fmt.Sprintf("%s.%s", BaseName, e.opts.Format.Ext())
}

// Assignments returns the variables the mapping renders to, in component
// name order.
func (e *Emitter) Assignments(m *resolver.Mapping) ([]Assignment, error) {
	return assignments(m, e.opts.Prefix, e.opts.Suffix)
}

// Render returns the script content for the mapping. Only the timestamp line
// depends on now.
func (e *Emitter) Render(m *resolver.Mapping, now time.Time) ([]byte, error) {
	vars, err := e.Assignments(m)
	if err != nil {
		return nil, err
	}

	h := header{
		tool:      e.opts.Tool,
		version:   e.opts.Version,
		root:      e.opts.Root,
		generated: now,
		count:     len(vars),
	}
	if e.opts.Format == FormatSh {
		return renderSh(h, vars)
	}
	return renderBat(h, vars)
}

// Write renders the mapping and creates the dated file in the output
// directory. An existing file is never overwritten. Returns the path written.
func (e *Emitter) Write(m *resolver.Mapping, now time.Time) (string, error) {
	content, err := e.Render(m, now)
	if err != nil {
		return "", err
	}

	path := filepath.Join(e.opts.Dir, e.FileName(now))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", openError(path, err)
	}

	if _, err := f.Write(content); err != nil {
		f.Close()
		os.Remove(path)
		return "", oerrors.NewWriteError("writing env file", path, "", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", oerrors.NewWriteError("closing env file", path, "", err)
	}

	output.Debug("env file written", "path", path, "bytes", len(content), "latest", e.LatestName())
	return path, nil
}

func openError(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrExist):
		return oerrors.NewWriteError("env file already exists", path,
			"Files are never overwritten; remove the stale file or pick another --output-dir", err)
	case errors.Is(err, fs.ErrNotExist):
		return oerrors.NewWriteError("output directory does not exist", filepath.Dir(path),
			"Create the directory or pass --output-dir", err)
	default:
		return oerrors.NewWriteError("creating env file", path, "", err)
	}
}
