package scenario

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cueyaml "cuelang.org/go/encoding/yaml"
)

// Scenario schema, compiled once per validation call. Small enough that
// caching the compiled value is not worth the package-level state.
//
//go:embed schema.cue
var schemaCUE string

// ValidationError is one schema violation with its file position.
type ValidationError struct {
	// Pos is "file:line:col", or empty when CUE cannot attribute a
	// position.
	Pos string

	// Message is the human-readable violation.
	Message string
}

func (e *ValidationError) Error() string {
	if e.Pos != "" {
		return fmt.Sprintf("%s: %s", e.Pos, e.Message)
	}
	return e.Message
}

// Validate checks scenario YAML against the embedded CUE schema. Returns
// one entry per violation; nil means the document is schema-valid.
//
// Schema validation runs before the strict YAML decode in Load, so shape
// errors surface with file positions instead of decoder messages. The Go
// validation in Parse stays authoritative for cross-field rules the schema
// cannot express (e.g. per-assertion required fields).
func Validate(filename string, data []byte) []ValidationError {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return []ValidationError{{Message: fmt.Sprintf("compile schema: %v", err)}}
	}
	scenarioDef := schema.LookupPath(cue.ParsePath("#Scenario"))
	if err := scenarioDef.Err(); err != nil {
		return []ValidationError{{Message: fmt.Sprintf("schema has no #Scenario: %v", err)}}
	}

	file, err := cueyaml.Extract(filename, data)
	if err != nil {
		return toValidationErrors(err)
	}
	doc := ctx.BuildFile(file)
	if err := doc.Err(); err != nil {
		return toValidationErrors(err)
	}

	unified := scenarioDef.Unify(doc)
	if err := unified.Validate(cue.Concrete(true), cue.Final()); err != nil {
		return toValidationErrors(err)
	}
	return nil
}

// ValidateFile reads and validates one scenario file.
func ValidateFile(path string) []ValidationError {
	data, err := os.ReadFile(path)
	if err != nil {
		return []ValidationError{{Message: fmt.Sprintf("read scenario file: %v", err)}}
	}
	return Validate(path, data)
}

// toValidationErrors flattens a CUE error into per-violation entries with
// positions.
func toValidationErrors(err error) []ValidationError {
	var out []ValidationError
	for _, e := range cueerrors.Errors(err) {
		ve := ValidationError{Message: e.Error()}
		if pos := e.Position(); pos.IsValid() {
			ve.Pos = fmt.Sprintf("%s:%d:%d", pos.Filename(), pos.Line(), pos.Column())
			// cue errors often repeat the position inside the message
			ve.Message = strings.TrimPrefix(ve.Message, ve.Pos+": ")
		}
		out = append(out, ve)
	}
	if len(out) == 0 {
		out = append(out, ValidationError{Message: err.Error()})
	}
	return out
}
