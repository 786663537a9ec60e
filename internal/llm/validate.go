package llm

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// replySchemaDef describes the JSON object the provider is instructed to
// emit. The prompt asks for a capitalized "Approaches" key but some models
// lowercase it, so either spelling satisfies the anyOf; a reply carrying
// neither is rejected rather than passed through as a partial question.
const replySchemaDef = `{
	"type": "object",
	"properties": {
		"Question": {"type": "string"},
		"Mistakes": {"type": "array", "items": {"type": "string"}},
		"Reasons": {"type": "array", "items": {"type": "string"}},
		"Approaches": {"type": "array", "items": {"type": "string"}},
		"approaches": {"type": "array", "items": {"type": "string"}}
	},
	"required": ["Question", "Mistakes", "Reasons"],
	"anyOf": [
		{"required": ["Approaches"]},
		{"required": ["approaches"]}
	]
}`

var (
	schemaOnce     sync.Once
	schemaErr      error
	compiledSchema *jsonschema.Schema
)

func replySchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		var def any
		if schemaErr = json.Unmarshal([]byte(replySchemaDef), &def); schemaErr != nil {
			return
		}
		c := jsonschema.NewCompiler()
		if schemaErr = c.AddResource("schema://generated_question.json", def); schemaErr != nil {
			return
		}
		compiledSchema, schemaErr = c.Compile("schema://generated_question.json")
	})
	return compiledSchema, schemaErr
}

// validateReply checks the raw provider reply against the expected shape
// before it is unmarshalled, so a malformed reply never yields a partial
// GeneratedQuestion.
func validateReply(raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("provider reply is not valid JSON: %v", err)
	}
	schema, err := replySchema()
	if err != nil {
		return fmt.Errorf("compile reply schema: %v", err)
	}
	if err := schema.Validate(parsed); err != nil {
		return fmt.Errorf("provider reply does not match expected shape: %v", err)
	}
	return nil
}
