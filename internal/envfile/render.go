package envfile

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"mvdan.cc/sh/v3/syntax"

	oerrors "github.com/pipeline-tools/component-finder/internal/errors"
)

// header holds the values of the fixed comment block.
type header struct {
	tool      string
	version   string
	root      string
	generated time.Time
	count     int
}

// lines returns the header comment lines, each free of line breaks.
func (h header) lines() []string {
	lines := []string{
		fmt.Sprintf("Generated by %s %s", h.tool, h.version),
		fmt.Sprintf("Generated at %s", h.generated.Format(time.RFC3339)),
		fmt.Sprintf("Source root: %s", h.root),
		fmt.Sprintf("Components: %d", h.count),
		"Do not edit: regenerate instead.",
	}
	for i, l := range lines {
		lines[i] = strings.NewReplacer("\r", " ", "\n", " ").Replace(l)
	}
	return lines
}

// renderBat renders a Windows batch script.
func renderBat(h header, vars []Assignment) ([]byte, error) {
	var b bytes.Buffer
	b.WriteString("@echo off\r\n")
	for _, l := range h.lines() {
		b.WriteString("REM " + escapeBat(l) + "\r\n")
	}
	for _, v := range vars {
		if strings.ContainsAny(v.Value, "\"\r\n") {
			return nil, oerrors.NewValidationError(
				fmt.Sprintf("path of component %q cannot be written to a batch file", v.Component),
				v.Value,
				"Batch values cannot hold double quotes or line breaks; use --format sh",
			)
		}
		fmt.Fprintf(&b, "set \"%s=%s\"\r\n", v.Name, escapeBat(v.Value))
	}
	return b.Bytes(), nil
}

// escapeBat doubles percent signs so cmd.exe does not expand them.
func escapeBat(s string) string {
	return strings.ReplaceAll(s, "%", "%%")
}

// renderSh renders a POSIX shell script and re-parses it to make sure every
// assignment survives quoting.
func renderSh(h header, vars []Assignment) ([]byte, error) {
	var b bytes.Buffer
	b.WriteString("# shellcheck shell=sh\n")
	for _, l := range h.lines() {
		b.WriteString("# " + l + "\n")
	}
	for _, v := range vars {
		quoted, err := syntax.Quote(v.Value, syntax.LangPOSIX)
		if err != nil {
			return nil, oerrors.NewValidationError(
				fmt.Sprintf("path of component %q cannot be quoted for sh: %v", v.Component, err),
				v.Value,
				"",
			)
		}
		fmt.Fprintf(&b, "export %s=%s\n", v.Name, quoted)
	}

	if err := checkShell(b.Bytes(), len(vars)); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// checkShell parses script and verifies it holds exactly want export clauses.
func checkShell(script []byte, want int) error {
	file, err := syntax.NewParser(syntax.Variant(syntax.LangPOSIX)).Parse(bytes.NewReader(script), "env.sh")
	if err != nil {
		return fmt.Errorf("generated script does not parse: %w", err)
	}

	// The POSIX parser yields export as a plain command; the bash variants
	// yield a declaration clause.
	got := 0
	syntax.Walk(file, func(node syntax.Node) bool {
		switch n := node.(type) {
		case *syntax.CallExpr:
			if len(n.Args) > 0 && n.Args[0].Lit() == "export" {
				got += len(n.Args) - 1
			}
		case *syntax.DeclClause:
			if n.Variant != nil && n.Variant.Value == "export" {
				got += len(n.Args)
			}
		}
		return true
	})
	if got != want {
		return fmt.Errorf("generated script holds %d exports, expected %d", got, want)
	}
	return nil
}
