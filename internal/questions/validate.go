// internal/questions/validate.go
package questions

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// questionSetSchema is the JSON Schema every question file must satisfy
// before its content is served or cached.
const questionSetSchema = `{
	"type": "array",
	"minItems": 1,
	"items": {
		"type": "object",
		"required": ["id", "text", "options"],
		"properties": {
			"id": {"type": "string", "minLength": 1},
			"text": {"type": "string", "minLength": 1},
			"options": {
				"type": "array",
				"minItems": 2,
				"items": {"type": "string", "minLength": 1}
			}
		}
	}
}`

// ValidateQuestionSet checks raw question file content against the question
// set schema and verifies that question ids are unique.
func ValidateQuestionSet(raw []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(questionSetSchema)
	documentLoader := gojsonschema.NewBytesLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, e := range result.Errors() {
			errs[i] = e.String()
		}
		return fmt.Errorf("question set schema violations: %s", strings.Join(errs, "; "))
	}

	return nil
}
