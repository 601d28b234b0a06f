package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// ReportOptions controls how a vet report is written.
type ReportOptions struct {
	// Format selects text, json or yaml output.
	Format OutputFormat
	// Writer is the output destination.
	Writer io.Writer
}

// ReportInfo provides access to resolution data without importing resolver.
type ReportInfo struct {
	Root       string
	Components []ComponentInfo
	Releases   []ReleaseInfo
	Warnings   []string
}

// ComponentInfo is one resolved component.
type ComponentInfo struct {
	Name     string
	Version  string
	Variable string
	Path     string
}

// ReleaseInfo is one rejected release or duplicate maximum.
type ReleaseInfo struct {
	Component string
	Release   string
	Path      string
	Status    string
	Reasons   []string
}

// report is the serialized form of a vet report.
type report struct {
	Root       string            `json:"root" yaml:"root"`
	Valid      bool              `json:"valid" yaml:"valid"`
	Components []reportComponent `json:"components" yaml:"components"`
	Rejected   []reportRelease   `json:"rejected,omitempty" yaml:"rejected,omitempty"`
	Warnings   []string          `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

type reportComponent struct {
	Name     string `json:"name" yaml:"name"`
	Version  string `json:"version" yaml:"version"`
	Variable string `json:"variable,omitempty" yaml:"variable,omitempty"`
	Path     string `json:"path" yaml:"path"`
}

type reportRelease struct {
	Component string   `json:"component" yaml:"component"`
	Release   string   `json:"release,omitempty" yaml:"release,omitempty"`
	Path      string   `json:"path" yaml:"path"`
	Status    string   `json:"status" yaml:"status"`
	Reasons   []string `json:"reasons" yaml:"reasons"`
}

// WriteReport writes a vet report in the requested format.
func WriteReport(info *ReportInfo, opts ReportOptions) error {
	r := buildReport(info)

	switch opts.Format {
	case FormatJSON:
		return writeReportJSON(r, opts.Writer)
	case FormatYAML:
		return writeReportYAML(r, opts.Writer)
	default:
		return writeReportText(r, opts.Writer)
	}
}

func buildReport(info *ReportInfo) *report {
	r := &report{
		Root:       info.Root,
		Valid:      len(info.Releases) == 0,
		Components: make([]reportComponent, 0, len(info.Components)),
		Warnings:   info.Warnings,
	}
	for _, c := range info.Components {
		r.Components = append(r.Components, reportComponent(c))
	}
	for _, rel := range info.Releases {
		r.Rejected = append(r.Rejected, reportRelease(rel))
	}
	return r
}

func writeReportJSON(r *report, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}

func writeReportYAML(r *report, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(r); err != nil {
		return err
	}
	return encoder.Close()
}

func writeReportText(r *report, w io.Writer) error {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Root: %s\n\n", StyleNoun.Render(r.Root)))

	if len(r.Components) > 0 && r.Valid {
		sb.WriteString("Resolved Components:\n")
		for _, c := range r.Components {
			sb.WriteString("  " + FormatReleaseLine(c.Name, c.Version, StatusResolved) + "\n")
		}
		sb.WriteString("\n")
	}

	if len(r.Rejected) > 0 {
		sb.WriteString("Rejected Releases:\n")
		for _, rel := range r.Rejected {
			sb.WriteString("  " + FormatReleaseLine(rel.Component, rel.Release, rel.Status) + "\n")
			for _, reason := range rel.Reasons {
				sb.WriteString(fmt.Sprintf("    %s %s\n", StyleDim.Render("-"), indentContinuation(reason, "      ")))
			}
		}
		sb.WriteString("\n")
	}

	if len(r.Warnings) > 0 {
		sb.WriteString("Warnings:\n")
		for _, warning := range r.Warnings {
			sb.WriteString(fmt.Sprintf("  ⚠ %s\n", warning))
		}
		sb.WriteString("\n")
	}

	if r.Valid {
		sb.WriteString(FormatCheckmark(fmt.Sprintf("%d component(s) resolved", len(r.Components))) + "\n")
	} else {
		sb.WriteString(FormatCross(fmt.Sprintf("%d release(s) rejected", len(r.Rejected))) + "\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// indentContinuation indents every line after the first.
func indentContinuation(s, indent string) string {
	return strings.ReplaceAll(s, "\n", "\n"+indent)
}
