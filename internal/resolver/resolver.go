// Package resolver aggregates validated releases into the component mapping.
// It is the release gate: one invalid release anywhere, or one component
// with an ambiguous maximum version, fails the whole run.
package resolver

import (
	"iter"

	"github.com/pipeline-tools/component-finder/internal/output"
	"github.com/pipeline-tools/component-finder/internal/release"
	"github.com/pipeline-tools/component-finder/internal/scanner"
	"github.com/pipeline-tools/component-finder/internal/semver"
)

// Source lists components. *scanner.Scanner implements it.
type Source interface {
	Root() string
	Components() iter.Seq2[scanner.Component, error]
}

// Checker validates one release folder. *release.Validator implements it.
type Checker interface {
	Validate(path string) *release.Result
}

// Result is the outcome of a resolution run.
type Result struct {
	// Root is the components root that was scanned.
	Root string

	// Mapping holds the winning release per component. It is nil when the
	// run failed the gate.
	Mapping *Mapping

	// Report lists every failure. It is empty when Mapping is set.
	Report *Report

	// Skipped names components that hold no release folders at all.
	Skipped []string

	// Checked counts the release folders that were validated.
	Checked int
}

// Resolve validates every release of every component and picks the maximum
// version per component.
//
// Scanner read errors abort immediately and are returned as is. Otherwise all
// components are visited; if any release is invalid or any component has more
// than one release at its maximum version, Resolve returns the Result together
// with its *Report as the error and the Result carries no Mapping.
func Resolve(src Source, checker Checker) (*Result, error) {
	res := &Result{Root: src.Root(), Report: &Report{}}
	var winners []Resolved

	for comp, err := range src.Components() {
		if err != nil {
			return nil, err
		}

		log := output.ComponentLogger(comp.Name)
		var valid []*release.Result
		seen := 0

		for cand, err := range comp.Releases() {
			if err != nil {
				return nil, err
			}
			seen++
			res.Checked++

			r := checker.Validate(cand.Path)
			if !r.Valid() {
				log.Warn("release rejected", "release", cand.Name, "problems", len(r.Problems))
				res.Report.Invalid = append(res.Report.Invalid, Invalid{
					Component: comp.Name,
					Release:   cand.Name,
					Path:      cand.Path,
					Problems:  r.Problems,
				})
				continue
			}
			log.Debug("release valid", "release", cand.Name)
			valid = append(valid, r)
		}

		if seen == 0 {
			log.Warn("component has no releases, skipping")
			res.Skipped = append(res.Skipped, comp.Name)
			continue
		}
		if len(valid) == 0 {
			continue
		}

		winner, dup := pickMaximum(comp.Name, valid)
		if dup != nil {
			log.Error("duplicate maximum version", "version", dup.Version.Canonical(), "releases", dup.Releases)
			res.Report.Duplicates = append(res.Report.Duplicates, *dup)
			continue
		}
		log.Debug("resolved", "release", winner.Release, "path", winner.Path)
		winners = append(winners, winner)
	}

	if !res.Report.Empty() {
		return res, res.Report
	}

	res.Mapping = NewMapping(winners...)
	return res, nil
}

// pickMaximum returns the release with the highest version, or a Duplicate
// when more than one release shares that version.
func pickMaximum(component string, valid []*release.Result) (Resolved, *Duplicate) {
	versions := make([]semver.Version, len(valid))
	for i, r := range valid {
		versions[i] = r.Version
	}

	idx := semver.Max(versions)
	if len(idx) > 1 {
		names := make([]string, len(idx))
		for i, j := range idx {
			names[i] = valid[j].Name
		}
		return Resolved{}, &Duplicate{Component: component, Version: versions[idx[0]], Releases: names}
	}

	w := valid[idx[0]]
	return Resolved{
		Component: component,
		Release:   w.Name,
		Version:   w.Version,
		Path:      w.Path,
		Metadata:  w.Metadata,
	}, nil
}
