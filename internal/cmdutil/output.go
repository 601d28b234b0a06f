package cmdutil

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pipeline-tools/component-finder/internal/config"
	oerrors "github.com/pipeline-tools/component-finder/internal/errors"
	"github.com/pipeline-tools/component-finder/internal/output"
	"github.com/pipeline-tools/component-finder/internal/pipeline"
	"github.com/pipeline-tools/component-finder/internal/resolver"
)

// PrintRunError prints a pipeline error in a user-friendly format. A failed
// release gate prints a summary line followed by one block per rejected
// release; detail errors print their location and hint.
func PrintRunError(err error) {
	var (
		report *resolver.Report
		detail *oerrors.DetailError
		verrs  config.ValidationErrors
	)

	switch {
	case errors.As(err, &report):
		output.Error("release gate failed: " + report.Summary())
		output.Details(FormatReport(report))
	case errors.As(err, &verrs):
		output.Error("config validation failed")
		for _, e := range verrs {
			output.Details(fmt.Sprintf("  %s: %s", e.Field, e.Message))
		}
	case errors.As(err, &detail):
		keyvals := []any{}
		if detail.Location != "" {
			keyvals = append(keyvals, "location", detail.Location)
		}
		output.Error(fmt.Sprintf("%s: %s", detail.Type, detail.Message), keyvals...)
		if detail.Hint != "" {
			output.Details("  Hint: " + detail.Hint)
		}
	default:
		output.Error("run failed", "error", err)
	}
}

// FormatReport renders a gate failure with one styled line per rejected
// release or duplicate, followed by its reasons.
func FormatReport(r *resolver.Report) string {
	var sb strings.Builder
	for _, inv := range r.Invalid {
		sb.WriteString(output.FormatReleaseLine(inv.Component, inv.Release, output.StatusInvalid) + "\n")
		sb.WriteString("    " + output.StyleDim.Render(inv.Path) + "\n")
		for _, p := range inv.Problems {
			sb.WriteString(fmt.Sprintf("    %s %s\n", output.StyleKind.Render(string(p.Kind)+":"), p.Message))
			for _, d := range p.Details {
				sb.WriteString("      " + d + "\n")
			}
		}
	}
	for _, d := range r.Duplicates {
		sb.WriteString(output.FormatReleaseLine(d.Component, d.Version.Canonical(), output.StatusDuplicate) + "\n")
		sb.WriteString(fmt.Sprintf("    %s carried by %s\n",
			output.StyleKind.Render(string(resolver.KindDuplicateMaximumVersion)+":"), strings.Join(d.Releases, ", ")))
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// ReportInfo converts a pipeline result into the vet report model.
func ReportInfo(res *pipeline.Result) *output.ReportInfo {
	info := &output.ReportInfo{}
	if res == nil || res.Resolution == nil {
		return info
	}

	resolution := res.Resolution
	info.Root = resolution.Root
	for _, name := range resolution.Skipped {
		info.Warnings = append(info.Warnings, fmt.Sprintf("component %s has no release folders", name))
	}

	if resolution.Mapping != nil {
		variables := make(map[string]string, len(res.Assignments))
		for _, a := range res.Assignments {
			variables[a.Component] = a.Name
		}
		for _, e := range resolution.Mapping.Entries() {
			info.Components = append(info.Components, output.ComponentInfo{
				Name:     e.Component,
				Version:  e.Release,
				Variable: variables[e.Component],
				Path:     e.Path,
			})
		}
	}

	if report := resolution.Report; report != nil {
		for _, inv := range report.Invalid {
			reasons := make([]string, len(inv.Problems))
			for i, p := range inv.Problems {
				reasons[i] = p.Error()
			}
			info.Releases = append(info.Releases, output.ReleaseInfo{
				Component: inv.Component,
				Release:   inv.Release,
				Path:      inv.Path,
				Status:    output.StatusInvalid,
				Reasons:   reasons,
			})
		}
		for _, d := range report.Duplicates {
			info.Releases = append(info.Releases, output.ReleaseInfo{
				Component: d.Component,
				Release:   d.Version.Canonical(),
				Path:      filepath.Join(resolution.Root, d.Component),
				Status:    output.StatusDuplicate,
				Reasons: []string{fmt.Sprintf("%s: carried by %s",
					resolver.KindDuplicateMaximumVersion, strings.Join(d.Releases, ", "))},
			})
		}
	}

	return info
}

// WriteResolvedLines logs one line per resolved component.
func WriteResolvedLines(res *pipeline.Result) {
	if res == nil || res.Resolution == nil || res.Resolution.Mapping == nil {
		return
	}
	variables := make(map[string]string, len(res.Assignments))
	for _, a := range res.Assignments {
		variables[a.Component] = a.Name
	}
	for _, e := range res.Resolution.Mapping.Entries() {
		output.Info(output.FormatReleaseLine(e.Component, e.Release, output.StatusResolved), "variable", variables[e.Component])
	}
}
