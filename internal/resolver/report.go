package resolver

import (
	"errors"
	"fmt"
	"strings"

	oerrors "github.com/pipeline-tools/component-finder/internal/errors"
	"github.com/pipeline-tools/component-finder/internal/release"
	"github.com/pipeline-tools/component-finder/internal/semver"
)

// KindDuplicateMaximumVersion classifies a component whose maximum version is
// ambiguous.
const KindDuplicateMaximumVersion release.Kind = "DuplicateMaximumVersion"

// Sentinel errors carried by a Report. Both wrap errors.ErrValidation.
var (
	ErrInvalidReleases         = fmt.Errorf("invalid releases: %w", oerrors.ErrValidation)
	ErrDuplicateMaximumVersion = fmt.Errorf("duplicate maximum version: %w", oerrors.ErrValidation)
)

// Invalid is a release that failed validation.
type Invalid struct {
	Component string
	Release   string
	Path      string
	Problems  []release.Problem
}

// Duplicate records a component whose maximum version is carried by more
// than one release folder, for example "1.0.0" and "v1.0.0".
type Duplicate struct {
	Component string
	Version   semver.Version
	Releases  []string
}

// Report is the consolidated failure of a run. It lists every invalid release
// and every duplicate maximum version found across all components.
type Report struct {
	Invalid    []Invalid
	Duplicates []Duplicate
}

// Empty reports whether the report holds no failures.
func (r *Report) Empty() bool {
	return len(r.Invalid) == 0 && len(r.Duplicates) == 0
}

// Summary returns the one-line headline of the report.
func (r *Report) Summary() string {
	var parts []string
	if n := len(r.Invalid); n > 0 {
		parts = append(parts, fmt.Sprintf("%d invalid release(s)", n))
	}
	if n := len(r.Duplicates); n > 0 {
		parts = append(parts, fmt.Sprintf("%d component(s) with a duplicate maximum version", n))
	}
	return strings.Join(parts, " and ")
}

// Error renders the full report, one block per release or component.
func (r *Report) Error() string {
	var b strings.Builder
	b.WriteString(r.Summary())
	for _, inv := range r.Invalid {
		fmt.Fprintf(&b, "\n  %s/%s (%s)", inv.Component, inv.Release, inv.Path)
		for _, p := range inv.Problems {
			b.WriteString("\n    ")
			b.WriteString(strings.ReplaceAll(p.Error(), "\n", "\n    "))
		}
	}
	for _, d := range r.Duplicates {
		fmt.Fprintf(&b, "\n  %s: %s: version %s is carried by %s",
			d.Component, KindDuplicateMaximumVersion, d.Version.Canonical(), strings.Join(d.Releases, ", "))
	}
	return b.String()
}

// Unwrap exposes the report sentinels and every release problem to errors.Is.
func (r *Report) Unwrap() []error {
	var errs []error
	if len(r.Invalid) > 0 {
		errs = append(errs, ErrInvalidReleases)
	}
	if len(r.Duplicates) > 0 {
		errs = append(errs, ErrDuplicateMaximumVersion)
	}
	for _, inv := range r.Invalid {
		for _, p := range inv.Problems {
			errs = append(errs, p)
		}
	}
	return errs
}

// AsReport returns the Report carried by err, if any.
func AsReport(err error) (*Report, bool) {
	var r *Report
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}
