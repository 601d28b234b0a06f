package envfile

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	oerrors "github.com/pipeline-tools/component-finder/internal/errors"
	"github.com/pipeline-tools/component-finder/internal/resolver"
)

var testNow = time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)

func testMapping(paths map[string]string) *resolver.Mapping {
	var entries []resolver.Resolved
	for name, path := range paths {
		entries = append(entries, resolver.Resolved{Component: name, Path: path})
	}
	return resolver.NewMapping(entries...)
}

func newEmitter(t *testing.T, opts Options) *Emitter {
	t.Helper()
	if opts.Tool == "" {
		opts.Tool = "component-finder"
		opts.Version = "1.2.3"
	}
	if opts.Suffix == "" {
		opts.Suffix = DefaultSuffix
	}
	e, err := New(opts)
	require.NoError(t, err)
	return e
}

// runShell sources a generated sh script and returns the exported variables.
func runShell(t *testing.T, script []byte, names ...string) map[string]string {
	t.Helper()
	file, err := syntax.NewParser().Parse(bytes.NewReader(script), "env.sh")
	require.NoError(t, err)

	runner, err := interp.New()
	require.NoError(t, err)
	require.NoError(t, runner.Run(context.Background(), file))

	out := make(map[string]string, len(names))
	for _, n := range names {
		out[n] = runner.Vars[n].String()
	}
	return out
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"", FormatBat, false},
		{"bat", FormatBat, false},
		{".BAT", FormatBat, false},
		{"cmd", FormatBat, false},
		{"sh", FormatSh, false},
		{"bash", FormatSh, false},
		{"ps1", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, oerrors.ErrValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_RejectsUnknownFormat(t *testing.T) {
	_, err := New(Options{Format: "ps1"})
	assert.True(t, errors.Is(err, oerrors.ErrValidation))
}

func TestVariableName(t *testing.T) {
	tests := []struct {
		component, prefix, suffix, want string
	}{
		{"alpha", "", "_PATH", "ALPHA_PATH"},
		{"Alpha", "", "_PATH", "ALPHA_PATH"},
		{"my-tool.core", "", "_PATH", "MY_TOOL_CORE_PATH"},
		{"with space", "", "_PATH", "WITH_SPACE_PATH"},
		{"3d-engine", "", "_PATH", "_3D_ENGINE_PATH"},
		{"3d-engine", "CF_", "_PATH", "CF_3D_ENGINE_PATH"},
		{"alpha", "PIPE_", "", "PIPE_ALPHA"},
		{"été", "", "", "_T_"},
	}

	for _, tt := range tests {
		t.Run(tt.component+"/"+tt.prefix+tt.suffix, func(t *testing.T) {
			assert.Equal(t, tt.want, VariableName(tt.component, tt.prefix, tt.suffix))
		})
	}
}

func TestAssignments_Collision(t *testing.T) {
	e := newEmitter(t, Options{})
	_, err := e.Assignments(testMapping(map[string]string{"my-tool": "/a", "my_tool": "/b"}))

	require.Error(t, err)
	assert.True(t, errors.Is(err, oerrors.ErrValidation))
	assert.Contains(t, err.Error(), "MY_TOOL_PATH")
}

func TestFileNames(t *testing.T) {
	bat := newEmitter(t, Options{})
	sh := newEmitter(t, Options{Format: FormatSh})

	assert.Equal(t, "pipeline_components_env-2026-10-16.bat", bat.FileName(testNow))
	assert.Equal(t, "pipeline_components_env-2026-10-16.sh", sh.FileName(testNow))
	assert.Equal(t, "pipeline_components_env.bat", bat.LatestName())
	assert.Equal(t, "pipeline_components_env.sh", sh.LatestName())
}

func TestRender_Bat(t *testing.T) {
	e := newEmitter(t, Options{Root: `D:\components`})
	content, err := e.Render(testMapping(map[string]string{
		"beta":  `D:\components\beta\1.0.0`,
		"alpha": `D:\components\alpha\100%\2.0.0`,
	}), testNow)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(string(content), "\r\n"), "\r\n")
	assert.Equal(t, "@echo off", lines[0])
	assert.Contains(t, string(content), "REM Generated by component-finder 1.2.3\r\n")
	assert.Contains(t, string(content), "REM Generated at 2026-10-16T09:30:00Z\r\n")
	assert.Contains(t, string(content), `REM Source root: D:\components`)
	assert.Equal(t, `set "ALPHA_PATH=D:\components\alpha\100%%\2.0.0"`, lines[len(lines)-2])
	assert.Equal(t, `set "BETA_PATH=D:\components\beta\1.0.0"`, lines[len(lines)-1])
}

func TestRender_BatRejectsQuotes(t *testing.T) {
	e := newEmitter(t, Options{})
	_, err := e.Render(testMapping(map[string]string{"alpha": `/odd"path`}), testNow)

	assert.True(t, errors.Is(err, oerrors.ErrValidation))
}

func TestRender_ShRoundTrips(t *testing.T) {
	paths := map[string]string{
		"alpha":   "/mnt/components/alpha/2.0.0",
		"beta":    "/mnt/my components/beta/1.0.0",
		"gamma":   "/mnt/it's/$HOME/`x`/gamma",
		"delta-x": "/mnt/100%/delta",
	}
	e := newEmitter(t, Options{Format: FormatSh})
	content, err := e.Render(testMapping(paths), testNow)
	require.NoError(t, err)

	got := runShell(t, content, "ALPHA_PATH", "BETA_PATH", "GAMMA_PATH", "DELTA_X_PATH")
	assert.Equal(t, map[string]string{
		"ALPHA_PATH":   paths["alpha"],
		"BETA_PATH":    paths["beta"],
		"GAMMA_PATH":   paths["gamma"],
		"DELTA_X_PATH": paths["delta-x"],
	}, got)
	assert.True(t, strings.HasPrefix(string(content), "# shellcheck shell=sh\n"))
}

func TestCheckShell_CountsExports(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   int
	}{
		{name: "single", script: "export A=b\n", want: 1},
		{name: "quoted", script: "export A='/x y'\nexport B=\"/z\"\n", want: 2},
		{name: "several names", script: "export A=1 B=2\n", want: 2},
		{name: "comments only", script: "# header\n", want: 0},
		{name: "other commands ignored", script: "echo export\nexport A=b\n", want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, checkShell([]byte(tt.script), tt.want))
		})
	}
}

func TestCheckShell_RejectsMismatch(t *testing.T) {
	err := checkShell([]byte("export A=b\n"), 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "holds 1 exports, expected 2")
}

func TestRender_ShSingleComponent(t *testing.T) {
	e := newEmitter(t, Options{Format: FormatSh})
	content, err := e.Render(testMapping(map[string]string{"alpha": "/mnt/alpha/1.0.0"}), testNow)
	require.NoError(t, err)

	assert.Contains(t, string(content), "export ALPHA_PATH=")
	assert.Equal(t, map[string]string{"ALPHA_PATH": "/mnt/alpha/1.0.0"}, runShell(t, content, "ALPHA_PATH"))
}

func TestRender_ShRejectsNullByte(t *testing.T) {
	e := newEmitter(t, Options{Format: FormatSh})
	_, err := e.Render(testMapping(map[string]string{"alpha": "/bad\x00path"}), testNow)

	assert.True(t, errors.Is(err, oerrors.ErrValidation))
}

func TestRender_HeaderHasNoLineBreaks(t *testing.T) {
	e := newEmitter(t, Options{Format: FormatSh, Root: "/tmp/evil\nrm -rf /"})
	content, err := e.Render(testMapping(nil), testNow)
	require.NoError(t, err)

	assert.Contains(t, string(content), "# Source root: /tmp/evil rm -rf /\n")
}

func TestRender_SameMappingDiffersOnlyInTimestamp(t *testing.T) {
	m := testMapping(map[string]string{"alpha": "/a/1.0.0", "beta": "/b/2.0.0"})
	for _, f := range []Format{FormatBat, FormatSh} {
		t.Run(string(f), func(t *testing.T) {
			e := newEmitter(t, Options{Format: f})
			first, err := e.Render(m, testNow)
			require.NoError(t, err)
			second, err := e.Render(m, testNow.Add(26*time.Hour))
			require.NoError(t, err)

			a := strings.Split(string(first), "\n")
			b := strings.Split(string(second), "\n")
			require.Equal(t, len(a), len(b))
			var diff []int
			for i := range a {
				if a[i] != b[i] {
					diff = append(diff, i)
				}
			}
			require.Len(t, diff, 1)
			assert.Contains(t, a[diff[0]], "Generated at")
		})
	}
}

func TestWrite_CreatesDatedFile(t *testing.T) {
	dir := t.TempDir()
	e := newEmitter(t, Options{Dir: dir})
	m := testMapping(map[string]string{"alpha": "/a/1.0.0"})

	path, err := e.Write(m, testNow)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "pipeline_components_env-2026-10-16.bat"), path)

	want, err := e.Render(m, testNow)
	require.NoError(t, err)
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = os.Stat(filepath.Join(dir, e.LatestName()))
	assert.True(t, os.IsNotExist(err), "the latest copy is never written")
}

func TestWrite_EmptyMapping(t *testing.T) {
	e := newEmitter(t, Options{Dir: t.TempDir(), Format: FormatSh})

	path, err := e.Write(testMapping(nil), testNow)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "# Components: 0")
	assert.NotContains(t, string(content), "export")
}

func TestWrite_NeverOverwrites(t *testing.T) {
	dir := t.TempDir()
	e := newEmitter(t, Options{Dir: dir})

	existing := filepath.Join(dir, e.FileName(testNow))
	require.NoError(t, os.WriteFile(existing, []byte("keep me"), 0o644))

	_, err := e.Write(testMapping(map[string]string{"alpha": "/a"}), testNow.Add(time.Hour))
	require.Error(t, err)
	assert.True(t, errors.Is(err, oerrors.ErrWrite))
	assert.True(t, errors.Is(err, os.ErrExist))
	assert.Equal(t, oerrors.ExitWriteError, oerrors.ExitCodeFromError(err))

	content, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "keep me", string(content))
}

func TestWrite_MissingOutputDir(t *testing.T) {
	e := newEmitter(t, Options{Dir: filepath.Join(t.TempDir(), "missing")})

	_, err := e.Write(testMapping(nil), testNow)
	require.Error(t, err)
	assert.True(t, errors.Is(err, oerrors.ErrWrite))

	var detail *oerrors.DetailError
	require.True(t, errors.As(err, &detail))
	assert.Contains(t, detail.Hint, "--output-dir")
}

func TestWrite_RenderFailureCreatesNothing(t *testing.T) {
	dir := t.TempDir()
	e := newEmitter(t, Options{Dir: dir})

	_, err := e.Write(testMapping(map[string]string{"a-b": "/1", "a_b": "/2"}), testNow)
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
