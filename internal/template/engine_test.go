package template

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/copilot-core/models"
)

func TestMatchFunctionPrompt(t *testing.T) {
	engine := NewEngine(nil)

	match := engine.Match(&models.CodeGenerationRequest{
		Prompt:   "create a function called add that returns a+b",
		Language: "javascript",
	})

	require.NotNil(t, match)
	assert.Equal(t, "js-function-basic", match.Template.ID)
	assert.Greater(t, match.Confidence, 0.8)

	code, err := engine.Render(match)
	require.NoError(t, err)
	assert.Contains(t, code, "function")
	assert.Empty(t, UnresolvedVariables(code))
}

func TestMatchIsDeterministic(t *testing.T) {
	engine := NewEngine(nil)
	request := &models.CodeGenerationRequest{
		Prompt:   "create a function called add that returns a+b",
		Language: "javascript",
	}

	first := engine.Match(request)
	second := engine.Match(request)

	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, first.Template.ID, second.Template.ID)
	assert.Equal(t, first.Confidence, second.Confidence)
	assert.Equal(t, first.Variables, second.Variables)
}

func TestMatchReturnsFirstPastThreshold(t *testing.T) {
	engine := NewEmptyEngine(nil)

	// Both qualify, the second scores higher, the first still wins.
	engine.AddTemplate(&models.CodeTemplate{
		ID:          "first",
		Name:        "Widget",
		Description: "make a widget thing quickly",
		Language:    "javascript",
		Pattern:     `widget`,
		Template:    "first",
	})
	engine.AddTemplate(&models.CodeTemplate{
		ID:          "second",
		Name:        "Widget",
		Description: "make a widget thing",
		Language:    "javascript",
		Pattern:     `widget`,
		Template:    "second",
	})

	match := engine.Match(&models.CodeGenerationRequest{
		Prompt:   "make a widget thing",
		Language: "javascript",
	})

	require.NotNil(t, match)
	assert.Equal(t, "first", match.Template.ID)
}

func TestMatchNoQualifyingTemplate(t *testing.T) {
	engine := NewEngine(nil)

	assert.Nil(t, engine.Match(&models.CodeGenerationRequest{
		Prompt:   "what is the meaning of life",
		Language: "javascript",
	}))
	assert.Nil(t, engine.Match(&models.CodeGenerationRequest{
		Prompt:   "   ",
		Language: "javascript",
	}))
	assert.Nil(t, engine.Match(nil))
}

func TestCatalogExamplesRoundTrip(t *testing.T) {
	for _, tmpl := range seedTemplates() {
		for _, example := range tmpl.Examples {
			variables := make(map[string]models.VariableValue)
			for name, raw := range example.Variables {
				declared := declaredVariable(t, tmpl, name)
				variables[name] = newValue(declared, raw, models.VariableExtracted)
			}

			got := render(tmpl.Template, variables)
			assert.Equal(t, strings.TrimSpace(example.Output), strings.TrimSpace(got),
				"template %s example %q", tmpl.ID, example.Description)
		}
	}
}

func declaredVariable(t *testing.T, tmpl *models.CodeTemplate, name string) models.TemplateVariable {
	t.Helper()
	for _, v := range tmpl.Variables {
		if v.Name == name {
			return v
		}
	}
	t.Fatalf("template %s declares no variable %q", tmpl.ID, name)
	return models.TemplateVariable{}
}

func TestExtractVariableShapes(t *testing.T) {
	tmpl := &models.CodeTemplate{
		Variables: []models.TemplateVariable{
			{Name: "name", Type: models.VariableString},
		},
	}

	tests := []struct {
		prompt string
		want   string
	}{
		{"create it with name: alpha", "alpha"},
		{"create it with name = beta", "beta"},
		{"create it with name gamma", "gamma"},
		// colon shape wins over the bare-word shape
		{"name: alpha or name gamma", "alpha"},
	}
	for _, tt := range tests {
		got := extractVariables(tmpl, tt.prompt)
		require.Contains(t, got, "name", "prompt %q", tt.prompt)
		assert.Equal(t, tt.want, got["name"].Value, "prompt %q", tt.prompt)
		assert.Equal(t, models.VariableExtracted, got["name"].Source)
	}
}

func TestExtractVariableDefaults(t *testing.T) {
	tmpl := &models.CodeTemplate{
		Variables: []models.TemplateVariable{
			{Name: "params", Type: models.VariableString, DefaultValue: "a, b"},
			{Name: "body", Type: models.VariableString},
		},
	}

	got := extractVariables(tmpl, "create something")

	require.Contains(t, got, "params")
	assert.Equal(t, "a, b", got["params"].Value)
	assert.Equal(t, models.VariableDefaulted, got["params"].Source)

	// no match, no default: the variable stays absent
	assert.NotContains(t, got, "body")
}

func TestRenderConditionals(t *testing.T) {
	body := "f({{#if props}}{ {{props}} }{{/if}})"

	tests := []struct {
		name      string
		variables map[string]models.VariableValue
		want      string
	}{
		{"present", map[string]models.VariableValue{
			"props": {Value: "x", Source: models.VariableExtracted},
		}, "f({ x })"},
		{"absent", nil, "f()"},
		{"false", map[string]models.VariableValue{
			"props": {Value: "false", Source: models.VariableExtracted},
		}, "f()"},
		{"zero", map[string]models.VariableValue{
			"props": {Value: "0", Source: models.VariableExtracted},
		}, "f()"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render(body, tt.variables))
		})
	}
}

func TestRenderLoops(t *testing.T) {
	body := "{{#each fields}}  {{this}};{{/each}}"

	got := render(body, map[string]models.VariableValue{
		"fields": {Items: []string{"id: number", "name: string"}, Source: models.VariableExtracted},
	})
	assert.Equal(t, "  id: number;\n  name: string;", got)

	// missing variable renders nothing
	assert.Equal(t, "", render(body, nil))
}

func TestUnresolvedVariablesSurvive(t *testing.T) {
	got := render("function {{name}}() { return {{value}}; }", map[string]models.VariableValue{
		"value": {Value: "42", Source: models.VariableExtracted},
	})

	assert.Contains(t, got, "{{name}}")
	assert.Equal(t, []string{"name"}, UnresolvedVariables(got))
}

func TestRenderEmptyMatch(t *testing.T) {
	engine := NewEngine(nil)

	_, err := engine.Render(nil)
	assert.Error(t, err)
	_, err = engine.Render(&models.TemplateMatch{})
	assert.Error(t, err)
}

func TestAddRemoveTemplates(t *testing.T) {
	engine := NewEmptyEngine(nil)
	engine.AddTemplate(&models.CodeTemplate{ID: "a", Language: "go"})
	engine.AddTemplate(&models.CodeTemplate{ID: "b", Language: "go"})
	engine.AddTemplate(&models.CodeTemplate{ID: "a", Language: "python"})

	assert.Len(t, engine.GetTemplates("go"), 2)
	assert.Len(t, engine.GetTemplates(""), 3)

	// removal is keyed by (id, language)
	assert.True(t, engine.RemoveTemplate("a", "go"))
	assert.False(t, engine.RemoveTemplate("a", "go"))
	assert.Len(t, engine.GetTemplates("go"), 1)
	assert.Len(t, engine.GetTemplates("python"), 1)
}

func TestScoreTemplateWeights(t *testing.T) {
	tmpl := &models.CodeTemplate{
		Name:        "Function",
		Description: "Create a function that returns a value",
		Pattern:     `(create|write|make|generate).*function`,
	}

	// pattern hit + 4 of 5 keywords: 0.6 + 0.4*0.8
	got := scoreTemplate(tmpl, "create a function called add that returns a+b")
	assert.InDelta(t, 0.92, got, 1e-9)

	// keyword-only hit stays below the threshold
	got = scoreTemplate(tmpl, "a function that returns a value when you create it")
	assert.InDelta(t, 0.4, got, 1e-9)

	assert.Equal(t, 0.0, scoreTemplate(&models.CodeTemplate{}, "anything"))
}
