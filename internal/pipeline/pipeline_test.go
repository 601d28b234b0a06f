package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/pipeline-tools/component-finder/internal/errors"
	"github.com/pipeline-tools/component-finder/internal/envfile"
	"github.com/pipeline-tools/component-finder/internal/resolver"
	"github.com/pipeline-tools/component-finder/internal/testutil"
)

var fixedNow = time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)

func clock(ts ...time.Time) func() time.Time {
	i := 0
	return func() time.Time {
		t := ts[i]
		if i < len(ts)-1 {
			i++
		}
		return t
	}
}

func options(root, outDir string, format envfile.Format) Options {
	return Options{
		Root: root,
		Env: envfile.Options{
			Dir:     outDir,
			Format:  format,
			Suffix:  envfile.DefaultSuffix,
			Tool:    "component-finder",
			Version: "test",
		},
	}
}

func TestRun_WritesEnvFile(t *testing.T) {
	root := t.TempDir()
	out := t.TempDir()
	for _, v := range []string{"1.0.0", "2.0.0", "1.5.0"} {
		testutil.WriteValidRelease(t, root, "alpha", v)
	}
	testutil.WriteValidRelease(t, root, "beta", "0.3.1")

	res, err := NewPipeline(clock(fixedNow)).Run(options(root, out, envfile.FormatBat))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(out, "pipeline_components_env-2026-10-16.bat"), res.Path)
	assert.Equal(t, "pipeline_components_env.bat", res.LatestName)
	require.Len(t, res.Assignments, 2)
	assert.Equal(t, "ALPHA_PATH", res.Assignments[0].Name)
	assert.Equal(t, filepath.Join(root, "alpha", "2.0.0"), res.Assignments[0].Value)

	content, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `set "ALPHA_PATH=`+filepath.Join(root, "alpha", "2.0.0")+`"`)
	assert.Contains(t, string(content), `set "BETA_PATH=`+filepath.Join(root, "beta", "0.3.1")+`"`)
}

func TestRun_GateFailureWritesNothing(t *testing.T) {
	root := t.TempDir()
	out := t.TempDir()
	testutil.WriteValidRelease(t, root, "alpha", "2.0.0")
	testutil.WriteRelease(t, root, "alpha", "1.0.0",
		testutil.ValidDocument("alpha", "1.0.0").Without("peer_review"))

	res, err := NewPipeline(clock(fixedNow)).Run(options(root, out, envfile.FormatBat))
	require.Error(t, err)
	assert.True(t, errors.Is(err, resolver.ErrInvalidReleases))
	assert.Equal(t, oerrors.ExitValidationError, oerrors.ExitCodeFromError(err))

	require.NotNil(t, res)
	require.NotNil(t, res.Resolution)
	assert.Nil(t, res.Resolution.Mapping)
	assert.Len(t, res.Resolution.Report.Invalid, 1)
	assert.Empty(t, res.Path)

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRun_DryRun(t *testing.T) {
	root := t.TempDir()
	out := t.TempDir()
	testutil.WriteValidRelease(t, root, "alpha", "1.0.0")

	opts := options(root, out, envfile.FormatSh)
	opts.DryRun = true
	res, err := NewPipeline(clock(fixedNow)).Run(opts)
	require.NoError(t, err)

	assert.Empty(t, res.Path)
	assert.Equal(t, "pipeline_components_env-2026-10-16.sh", res.FileName)
	require.Len(t, res.Assignments, 1)

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRun_EmptyRootWritesNearEmptyFile(t *testing.T) {
	out := t.TempDir()

	res, err := NewPipeline(clock(fixedNow)).Run(options(t.TempDir(), out, envfile.FormatSh))
	require.NoError(t, err)

	assert.Equal(t, 0, res.Resolution.Mapping.Len())
	content, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "export")
}

func TestRun_RootNotFound(t *testing.T) {
	res, err := NewPipeline(nil).Run(options(filepath.Join(t.TempDir(), "missing"), t.TempDir(), envfile.FormatBat))

	assert.Nil(t, res)
	assert.True(t, errors.Is(err, oerrors.ErrNotFound))
	assert.Equal(t, oerrors.ExitNotFound, oerrors.ExitCodeFromError(err))
}

func TestRun_RootRequired(t *testing.T) {
	_, err := NewPipeline(nil).Run(Options{})

	assert.True(t, errors.Is(err, oerrors.ErrValidation))
}

func TestRun_UnknownFormatFailsBeforeResolving(t *testing.T) {
	root := t.TempDir()
	testutil.WriteValidRelease(t, root, "alpha", "1.0.0")

	_, err := NewPipeline(nil).Run(options(root, t.TempDir(), envfile.Format("ps1")))
	assert.True(t, errors.Is(err, oerrors.ErrValidation))
}

func TestRun_VariableCollision(t *testing.T) {
	root := t.TempDir()
	out := t.TempDir()
	testutil.WriteValidRelease(t, root, "my-tool", "1.0.0")
	testutil.WriteValidRelease(t, root, "my_tool", "1.0.0")

	res, err := NewPipeline(clock(fixedNow)).Run(options(root, out, envfile.FormatBat))
	require.Error(t, err)
	assert.True(t, errors.Is(err, oerrors.ErrValidation))
	require.NotNil(t, res)
	assert.Equal(t, 2, res.Resolution.Mapping.Len())

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRun_IgnoreAndReviewers(t *testing.T) {
	root := t.TempDir()
	testutil.WriteValidRelease(t, root, "alpha", "1.0.0")
	testutil.WriteRelease(t, root, "_archive", "0.0.1", nil)

	opts := options(root, t.TempDir(), envfile.FormatBat)
	opts.DryRun = true
	opts.Ignore = []string{"_*"}

	res, err := NewPipeline(nil).Run(opts)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Resolution.Mapping.Len())

	opts.Reviewers = []string{"someone.else@example.com"}
	_, err = NewPipeline(nil).Run(opts)
	require.Error(t, err, "the embedded reviewer is no longer authorized")
	assert.True(t, errors.Is(err, resolver.ErrInvalidReleases))
}

func TestRun_SameDayRerunFails(t *testing.T) {
	root := t.TempDir()
	out := t.TempDir()
	testutil.WriteValidRelease(t, root, "alpha", "1.0.0")

	p := NewPipeline(clock(fixedNow, fixedNow.Add(time.Hour)))
	first, err := p.Run(options(root, out, envfile.FormatBat))
	require.NoError(t, err)

	_, err = p.Run(options(root, out, envfile.FormatBat))
	require.Error(t, err)
	assert.True(t, errors.Is(err, oerrors.ErrWrite))

	content, err := os.ReadFile(first.Path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "2026-10-16T08:00:00Z", "the first file is untouched")
}

func TestRun_UnchangedTreeYieldsSameMapping(t *testing.T) {
	root := t.TempDir()
	testutil.WriteValidRelease(t, root, "alpha", "1.0.0")
	testutil.WriteValidRelease(t, root, "alpha", "1.1.0")
	testutil.WriteValidRelease(t, root, "beta", "3.0.0")

	p := NewPipeline(clock(fixedNow, fixedNow.Add(24*time.Hour)))
	first, err := p.Run(options(root, t.TempDir(), envfile.FormatSh))
	require.NoError(t, err)
	second, err := p.Run(options(root, t.TempDir(), envfile.FormatSh))
	require.NoError(t, err)

	assert.NotEqual(t, filepath.Base(first.Path), filepath.Base(second.Path))
	a, err := os.ReadFile(first.Path)
	require.NoError(t, err)
	b, err := os.ReadFile(second.Path)
	require.NoError(t, err)
	assert.Equal(t, withoutTimestamp(string(a)), withoutTimestamp(string(b)))
}

func withoutTimestamp(s string) string {
	var kept []string
	for _, line := range strings.Split(s, "\n") {
		if !strings.Contains(line, "Generated at") {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
