package payload

import (
	"github.com/invopop/jsonschema"
)

// schemaDocument mirrors Document with the choices array spelled out for reflection.
type schemaDocument struct {
	Title   Scalar           `json:"title,omitempty" jsonschema:"description=Prompt title. Falls back to a default when empty"`
	Choices []ChoiceDocument `json:"choices,omitempty" jsonschema:"description=Selectable items in display order"`
}

// Schema returns the JSON Schema of the payload document.
func Schema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		DoNotReference:            true,
		ExpandedStruct:            true,
		AllowAdditionalProperties: true,
	}
	s := r.Reflect(new(schemaDocument))
	s.Title = "select payload"
	s.Description = "Title and choices for an interactive multi-select prompt"
	return s
}
