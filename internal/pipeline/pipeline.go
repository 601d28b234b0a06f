// Package pipeline runs the component-finder phases in order: scan the
// components root, validate every release, resolve the latest release per
// component and write the env file.
package pipeline

import (
	"time"

	oerrors "github.com/pipeline-tools/component-finder/internal/errors"
	"github.com/pipeline-tools/component-finder/internal/envfile"
	"github.com/pipeline-tools/component-finder/internal/output"
	"github.com/pipeline-tools/component-finder/internal/release"
	"github.com/pipeline-tools/component-finder/internal/resolver"
	"github.com/pipeline-tools/component-finder/internal/scanner"
)

var errRootRequired = oerrors.NewValidationError("components root is required", "", "Pass --root or set CFINDER_ROOT")

// pipeline implements the Pipeline interface.
type pipeline struct {
	now func() time.Time
}

// NewPipeline creates a new Pipeline. now supplies the run timestamp; nil
// means time.Now.
func NewPipeline(now func() time.Time) Pipeline {
	if now == nil {
		now = time.Now
	}
	return &pipeline{now: now}
}

// Run executes the pipeline.
//
// Phase sequence:
//  1. PREPARE:  scanner.New, release.NewValidator, envfile.New
//  2. RESOLVE:  resolver.Resolve validates every release and picks winners
//  3. ASSIGN:   variable names are derived and checked for collisions
//  4. EMIT:     the dated env file is created (skipped on dry run)
//
// Setup failures and scanner read errors return (nil, err). A gate failure
// returns the partial Result with the report as the error.
func (p *pipeline) Run(opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	// Phase 1: PREPARE. Fail on configuration errors before touching releases.
	src, err := scanner.New(opts.Root, scanner.WithIgnore(opts.Ignore...))
	if err != nil {
		return nil, err
	}

	var validatorOpts []release.Option
	if len(opts.Reviewers) > 0 {
		validatorOpts = append(validatorOpts, release.WithReviewers(opts.Reviewers...))
	}
	checker, err := release.NewValidator(validatorOpts...)
	if err != nil {
		return nil, err
	}

	envOpts := opts.Env
	envOpts.Root = opts.Root
	emitter, err := envfile.New(envOpts)
	if err != nil {
		return nil, err
	}

	now := p.now()
	result := &Result{
		FileName:    emitter.FileName(now),
		LatestName:  emitter.LatestName(),
		GeneratedAt: now,
	}

	// Phase 2: RESOLVE.
	resolution, err := resolver.Resolve(src, checker)
	result.Resolution = resolution
	if err != nil {
		if resolution == nil {
			return nil, err
		}
		return result, err
	}

	output.Debug("resolution complete",
		"root", resolution.Root,
		"checked", resolution.Checked,
		"resolved", resolution.Mapping.Len(),
		"skipped", len(resolution.Skipped),
	)

	// Phase 3: ASSIGN.
	result.Assignments, err = emitter.Assignments(resolution.Mapping)
	if err != nil {
		return result, err
	}

	if opts.DryRun {
		return result, nil
	}

	// Phase 4: EMIT.
	result.Path, err = emitter.Write(resolution.Mapping, now)
	if err != nil {
		return result, err
	}

	return result, nil
}
