package pipeline

import (
	"time"

	"github.com/pipeline-tools/component-finder/internal/envfile"
	"github.com/pipeline-tools/component-finder/internal/resolver"
)

// Pipeline runs one component-finder pass over a components root.
type Pipeline interface {
	// Run scans, validates and resolves the root, then writes the env file
	// unless opts.DryRun is set.
	//
	// A run that fails the release gate returns a non-nil Result with its
	// Resolution populated together with the *resolver.Report error.
	Run(opts Options) (*Result, error)
}

// Options configures a run.
type Options struct {
	// Root is the components root.
	Root string

	// Ignore lists doublestar patterns of component folders to skip.
	Ignore []string

	// Reviewers replaces the authorized reviewers of the release schema.
	// Empty keeps the embedded list.
	Reviewers []string

	// Env configures the emitter. Env.Root is filled in from Root.
	Env envfile.Options

	// DryRun validates and resolves without writing anything.
	DryRun bool
}

// Validate checks that required fields are set.
func (o Options) Validate() error {
	if o.Root == "" {
		return errRootRequired
	}
	return nil
}

// Result is the outcome of a run.
type Result struct {
	// Resolution is the resolver outcome.
	Resolution *resolver.Result

	// Assignments are the script variables, in component name order.
	// Empty when the gate failed.
	Assignments []envfile.Assignment

	// FileName is the dated file name of this run.
	FileName string

	// LatestName is the undated name the promotion step copies to.
	LatestName string

	// Path is the written file; empty on a dry run.
	Path string

	// GeneratedAt is the timestamp recorded in the file header.
	GeneratedAt time.Time
}
