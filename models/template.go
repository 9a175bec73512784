package models

// VariableType constrains a template variable's value shape.
type VariableType string

const (
	VariableString  VariableType = "string"
	VariableNumber  VariableType = "number"
	VariableBoolean VariableType = "boolean"
	VariableArray   VariableType = "array"
)

// TemplateVariable declares a parameter of a CodeTemplate.
type TemplateVariable struct {
	Name         string       `json:"name"`
	Type         VariableType `json:"type"`
	Description  string       `json:"description"`
	Required     bool         `json:"required"`
	DefaultValue string       `json:"default_value,omitempty"`
}

// TemplateExample pairs a variable assignment with its expected rendering.
type TemplateExample struct {
	Description string            `json:"description"`
	Variables   map[string]string `json:"variables"`
	Output      string            `json:"output"`
}

// CodeTemplate is a parametrized code skeleton. Identity for removal is the
// (ID, Language) pair.
type CodeTemplate struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Language    string             `json:"language"`
	Framework   string             `json:"framework,omitempty"`
	Pattern     string             `json:"pattern"`
	Template    string             `json:"template"`
	Variables   []TemplateVariable `json:"variables"`
	Examples    []TemplateExample  `json:"examples"`
}

// VariableSource records how a variable value was resolved during matching.
// A variable absent from the match map renders as a literal {{name}} token,
// which callers can detect and surface.
type VariableSource string

const (
	VariableExtracted VariableSource = "extracted"
	VariableDefaulted VariableSource = "default"
)

// VariableValue is a resolved template variable with provenance.
type VariableValue struct {
	Value  string         `json:"value"`
	Items  []string       `json:"items,omitempty"`
	Source VariableSource `json:"source"`
}

// TemplateMatch is the ephemeral result of matching a prompt against one
// template.
type TemplateMatch struct {
	Template   *CodeTemplate            `json:"template"`
	Confidence float64                  `json:"confidence"`
	Variables  map[string]VariableValue `json:"variables"`
}
