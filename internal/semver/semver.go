// Package semver parses and orders release folder names as semantic versions.
//
// Folder names may carry an optional leading "v" ("v2.1.0" and "2.1.0" are the
// same version). Precedence follows semver 2.0.0 and is delegated to
// golang.org/x/mod/semver: build metadata is ignored, and a pre-release sorts
// before the release of the same MAJOR.MINOR.PATCH.
package semver

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	xsemver "golang.org/x/mod/semver"
)

// ErrInvalidVersionFormat is the sentinel error wrapped by InvalidVersionError.
var ErrInvalidVersionFormat = errors.New("invalid version format")

// InvalidVersionError is returned when a string is not a MAJOR.MINOR.PATCH
// semantic version.
type InvalidVersionError struct {
	Value  string
	Reason string
}

// Error implements the error interface.
func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("invalid semantic version %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidVersionFormat so callers can use errors.Is.
func (e *InvalidVersionError) Unwrap() error { return ErrInvalidVersionFormat }

// Version is a parsed semantic version. The zero value is not a valid version.
type Version struct {
	raw string

	// canonical is the "v"-prefixed form without build metadata,
	// the form golang.org/x/mod/semver compares.
	canonical string

	// Major, Minor and Patch are decimal identifiers of any length.
	Major      string
	Minor      string
	Patch      string
	Prerelease string
	Build      string
}

// Parse parses s as a semantic version.
func Parse(s string) (Version, error) {
	if s == "" {
		return Version{}, &InvalidVersionError{Value: s, Reason: "empty string"}
	}

	v := s
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !xsemver.IsValid(v) {
		return Version{}, &InvalidVersionError{
			Value:  s,
			Reason: "expected MAJOR.MINOR.PATCH[-PRERELEASE][+BUILD]",
		}
	}

	// x/mod/semver accepts the "v1" and "v1.2" shorthands; release folders must not.
	core := v[1:]
	if i := strings.IndexAny(core, "-+"); i >= 0 {
		core = core[:i]
	}
	parts := strings.Split(core, ".")
	if len(parts) != 3 {
		return Version{}, &InvalidVersionError{
			Value:  s,
			Reason: "MAJOR.MINOR.PATCH are all required",
		}
	}

	return Version{
		raw:        s,
		canonical:  xsemver.Canonical(v),
		Major:      parts[0],
		Minor:      parts[1],
		Patch:      parts[2],
		Prerelease: strings.TrimPrefix(xsemver.Prerelease(v), "-"),
		Build:      strings.TrimPrefix(xsemver.Build(v), "+"),
	}, nil
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// IsValid reports whether s parses as a version.
func IsValid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// String returns the version exactly as it was parsed (the folder name).
func (v Version) String() string { return v.raw }

// Canonical returns the "v"-prefixed version without build metadata.
func (v Version) Canonical() string { return v.canonical }

// IsZero reports whether v is the zero value.
func (v Version) IsZero() bool { return v.canonical == "" }

// IsPrerelease reports whether v carries a pre-release suffix.
func (v Version) IsPrerelease() bool { return v.Prerelease != "" }

// Compare returns -1, 0 or +1 when v sorts before, equal to or after o.
func (v Version) Compare(o Version) int {
	return xsemver.Compare(v.canonical, o.canonical)
}

// Equal reports whether v and o have the same precedence: MAJOR.MINOR.PATCH
// and pre-release identifiers match exactly. Build metadata is ignored.
func (v Version) Equal(o Version) bool {
	return v.Compare(o) == 0
}

// Compare is the package-level form of Version.Compare, usable with slices.SortFunc.
func Compare(a, b Version) int {
	return a.Compare(b)
}

// Sort sorts versions in ascending precedence. Versions of equal precedence
// keep their relative order.
func Sort(vs []Version) {
	slices.SortStableFunc(vs, Compare)
}

// Max returns the indexes of every version sharing the highest precedence in vs.
// A unique maximum yields a single index; an empty input yields nil.
func Max(vs []Version) []int {
	var top []int
	for i, v := range vs {
		if len(top) == 0 {
			top = []int{i}
			continue
		}
		switch c := v.Compare(vs[top[0]]); {
		case c > 0:
			top = []int{i}
		case c == 0:
			top = append(top, i)
		}
	}
	return top
}
