package release

import (
	"errors"
	"strings"

	oerrors "github.com/pipeline-tools/component-finder/internal/errors"
	"github.com/pipeline-tools/component-finder/internal/semver"
)

// Kind classifies why a release failed validation.
type Kind string

const (
	KindInvalidVersionFormat      Kind = "InvalidVersionFormat"
	KindMissingMetadataDocument   Kind = "MissingMetadataDocument"
	KindMalformedMetadataDocument Kind = "MalformedMetadataDocument"
	KindSchemaValidationFailed    Kind = "SchemaValidationFailed"
	KindMetadataMismatch          Kind = "MetadataMismatch"
)

// Sentinel errors, one per Kind. Every Problem also unwraps to
// errors.ErrValidation.
var (
	ErrMissingMetadataDocument   = errors.New("missing metadata document")
	ErrMalformedMetadataDocument = errors.New("malformed metadata document")
	ErrSchemaValidationFailed    = errors.New("schema validation failed")
	ErrMetadataMismatch          = errors.New("metadata does not match release folder")
)

func (k Kind) sentinel() error {
	switch k {
	case KindInvalidVersionFormat:
		return semver.ErrInvalidVersionFormat
	case KindMissingMetadataDocument:
		return ErrMissingMetadataDocument
	case KindMalformedMetadataDocument:
		return ErrMalformedMetadataDocument
	case KindSchemaValidationFailed:
		return ErrSchemaValidationFailed
	case KindMetadataMismatch:
		return ErrMetadataMismatch
	default:
		return nil
	}
}

// Problem is one reason a release is invalid.
type Problem struct {
	Kind    Kind
	Message string

	// Details holds itemized complaints, such as one line per schema violation.
	Details []string
}

// Error implements the error interface.
func (p Problem) Error() string {
	var b strings.Builder
	b.WriteString(string(p.Kind))
	b.WriteString(": ")
	b.WriteString(p.Message)
	for _, d := range p.Details {
		b.WriteString("\n  ")
		b.WriteString(d)
	}
	return b.String()
}

// Unwrap returns the kind's sentinel and errors.ErrValidation.
func (p Problem) Unwrap() []error {
	if s := p.Kind.sentinel(); s != nil {
		return []error{s, oerrors.ErrValidation}
	}
	return []error{oerrors.ErrValidation}
}
