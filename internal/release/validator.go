// Package release validates a single component release folder: its name must
// be a semantic version and it must hold a release.json document conforming to
// the embedded release JSON Schema, including a peer-review record.
package release

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cuejson "cuelang.org/go/encoding/json"

	"github.com/pipeline-tools/component-finder/internal/semver"
)

// Result is the outcome of validating one release folder.
type Result struct {
	// Component is the name of the folder holding the release.
	Component string

	// Name is the release folder name, expected to be a version.
	Name string

	// Path is the release folder path as given to Validate.
	Path string

	// Version is the parsed folder name; zero when the name is not a version.
	Version semver.Version

	// Metadata is the decoded document; set only when the release is valid.
	Metadata *Metadata

	// Problems lists every validation failure, in check order.
	Problems []Problem
}

// Valid reports whether the release passed every check.
func (r *Result) Valid() bool {
	return len(r.Problems) == 0
}

// Has reports whether the result carries a problem of the given kind.
func (r *Result) Has(kind Kind) bool {
	for _, p := range r.Problems {
		if p.Kind == kind {
			return true
		}
	}
	return false
}

// Err returns all problems joined into one error, or nil when valid.
func (r *Result) Err() error {
	if r.Valid() {
		return nil
	}
	errs := make([]error, len(r.Problems))
	for i, p := range r.Problems {
		errs[i] = p
	}
	return errors.Join(errs...)
}

func (r *Result) add(kind Kind, message string, details ...string) {
	r.Problems = append(r.Problems, Problem{Kind: kind, Message: message, Details: details})
}

// Option configures a Validator.
type Option func(*options)

type options struct {
	reviewers []string
}

// WithReviewers replaces the embedded authorized-reviewer allow-list.
func WithReviewers(reviewers ...string) Option {
	return func(o *options) {
		o.reviewers = reviewers
	}
}

// Validator checks release folders against the embedded release schema.
// A Validator is not safe for concurrent use.
type Validator struct {
	ctx    *cue.Context
	schema cue.Value
}

// NewValidator compiles the embedded release schema.
func NewValidator(opts ...Option) (*Validator, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	doc, err := schemaDocument(o.reviewers)
	if err != nil {
		return nil, err
	}

	ctx := cuecontext.New()
	schema, err := compileSchema(ctx, doc)
	if err != nil {
		return nil, err
	}

	return &Validator{ctx: ctx, schema: schema}, nil
}

// Validate runs every check against the release folder at path and collects
// all failures rather than stopping at the first. The component name is the
// name of path's parent folder. Validate only reads files.
func (v *Validator) Validate(path string) *Result {
	res := &Result{
		Component: filepath.Base(filepath.Dir(path)),
		Name:      filepath.Base(path),
		Path:      path,
	}

	// Check 1: folder name is a semantic version
	ver, err := semver.Parse(res.Name)
	if err != nil {
		res.add(KindInvalidVersionFormat, err.Error())
	} else {
		res.Version = ver
	}

	// Check 2: metadata document exists
	docPath := filepath.Join(path, MetadataFilename)
	data, err := os.ReadFile(docPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			res.add(KindMissingMetadataDocument, fmt.Sprintf("%s not found in release folder", MetadataFilename))
		} else {
			res.add(KindMissingMetadataDocument, fmt.Sprintf("cannot read %s: %v", MetadataFilename, err))
		}
		return res
	}

	// Check 3: metadata document is well-formed JSON
	doc, err := v.compileDocument(docPath, data)
	if err != nil {
		res.add(KindMalformedMetadataDocument,
			fmt.Sprintf("%s is not well-formed JSON", MetadataFilename),
			complaints(err)...)
		return res
	}

	// Check 4: metadata document conforms to the release schema
	if err := v.schema.Unify(doc).Validate(cue.Concrete(true)); err != nil {
		res.add(KindSchemaValidationFailed,
			fmt.Sprintf("%s does not conform to the release schema", MetadataFilename),
			complaints(err)...)
	}

	// Check 5: metadata document describes this folder
	res.checkIdentity(doc)

	if res.Valid() {
		var md Metadata
		if err := doc.Decode(&md); err != nil {
			res.add(KindMalformedMetadataDocument,
				fmt.Sprintf("decoding %s", MetadataFilename),
				complaints(err)...)
			return res
		}
		res.Metadata = &md
	}

	return res
}

func (v *Validator) compileDocument(docPath string, data []byte) (cue.Value, error) {
	expr, err := cuejson.Extract(docPath, data)
	if err != nil {
		return cue.Value{}, err
	}
	doc := v.ctx.BuildExpr(expr)
	if doc.Err() != nil {
		return cue.Value{}, doc.Err()
	}
	return doc, nil
}

// checkIdentity flags documents whose component or version fields name a
// different release than the folder they are stored in. Absent or mistyped
// fields are left to the schema check.
func (r *Result) checkIdentity(doc cue.Value) {
	if name, err := doc.LookupPath(cue.ParsePath("component")).String(); err == nil && name != "" {
		if !strings.EqualFold(name, r.Component) {
			r.add(KindMetadataMismatch,
				fmt.Sprintf("document names component %q but the release is stored under %q", name, r.Component))
		}
	}

	if r.Version.IsZero() {
		return
	}
	if raw, err := doc.LookupPath(cue.ParsePath("version")).String(); err == nil {
		if docVer, err := semver.Parse(raw); err == nil && !docVer.Equal(r.Version) {
			r.add(KindMetadataMismatch,
				fmt.Sprintf("document declares version %q but the release folder is %q", raw, r.Name))
		}
	}
}
