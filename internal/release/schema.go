package release

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"cuelang.org/go/cue"
	cuejson "cuelang.org/go/encoding/json"
	"cuelang.org/go/encoding/jsonschema"
)

// SchemaFilename is the name the embedded schema is compiled under; it shows
// up in positions of internal schema errors.
const SchemaFilename = "release-schema.json"

// reviewerDefinition is the schema definition holding the peer-review allow-list.
const reviewerDefinition = "authorized_reviewers"

//go:embed schema/release-schema.json
var releaseSchemaJSON []byte

// SchemaJSON returns a copy of the embedded release JSON Schema.
func SchemaJSON() []byte {
	out := make([]byte, len(releaseSchemaJSON))
	copy(out, releaseSchemaJSON)
	return out
}

// schemaDocument returns the JSON Schema document to compile. A non-empty
// reviewers list replaces the embedded authorized-reviewer enum.
func schemaDocument(reviewers []string) ([]byte, error) {
	if len(reviewers) == 0 {
		return releaseSchemaJSON, nil
	}

	var doc map[string]any
	if err := json.Unmarshal(releaseSchemaJSON, &doc); err != nil {
		return nil, fmt.Errorf("decoding embedded schema: %w", err)
	}
	defs, ok := doc["definitions"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("embedded schema has no definitions")
	}
	def, ok := defs[reviewerDefinition].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("embedded schema has no %s definition", reviewerDefinition)
	}
	def["enum"] = reviewers

	return json.Marshal(doc)
}

// compileSchema converts a JSON Schema document to a CUE value that release
// documents are unified with.
func compileSchema(ctx *cue.Context, doc []byte) (cue.Value, error) {
	expr, err := cuejson.Extract(SchemaFilename, doc)
	if err != nil {
		return cue.Value{}, fmt.Errorf("parsing release schema: %w", err)
	}

	raw := ctx.BuildExpr(expr)
	if raw.Err() != nil {
		return cue.Value{}, fmt.Errorf("building release schema: %w", raw.Err())
	}

	f, err := jsonschema.Extract(raw, &jsonschema.Config{})
	if err != nil {
		return cue.Value{}, fmt.Errorf("converting release schema: %w", err)
	}

	schema := ctx.BuildFile(f)
	if schema.Err() != nil {
		return cue.Value{}, fmt.Errorf("compiling release schema: %w", schema.Err())
	}

	return schema, nil
}
