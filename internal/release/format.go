package release

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

// complaints flattens a CUE error into one line per distinct problem:
// "<field path>: <message> (release.json:<line>:<col>)".
func complaints(err error) []string {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return []string{err.Error()}
	}

	lines := make([]string, 0, len(errs))
	for _, e := range errs {
		var b strings.Builder
		if path := strings.Join(e.Path(), "."); path != "" {
			b.WriteString(path)
			b.WriteString(": ")
		}
		b.WriteString(cueErrorMessage(e))
		if pos := documentPosition(e); pos != "" {
			b.WriteString(" (")
			b.WriteString(pos)
			b.WriteString(")")
		}
		lines = append(lines, b.String())
	}

	slices.Sort(lines)
	return slices.Compact(lines)
}

func cueErrorMessage(e cueerrors.Error) string {
	var parts []string
	var current error = e

	for current != nil {
		cueErr, ok := current.(cueerrors.Error) //nolint:errorlint // loop manually unwraps the CUE error chain
		if !ok {
			parts = append(parts, current.Error())
			break
		}

		format, args := cueErr.Msg()
		if format != "" {
			parts = append(parts, fmt.Sprintf(format, args...))
		}

		current = cueerrors.Unwrap(current)
	}

	return strings.Join(parts, ": ")
}

// documentPosition returns the first position inside the release document,
// skipping positions that point into the schema.
func documentPosition(e cueerrors.Error) string {
	for _, p := range cueerrors.Positions(e) {
		pos := p.Position()
		if !pos.IsValid() || filepath.Base(pos.Filename) != MetadataFilename {
			continue
		}
		return fmt.Sprintf("%s:%d:%d", MetadataFilename, pos.Line, pos.Column)
	}
	return ""
}
