package template

import "github.com/yourusername/copilot-core/models"

// seedTemplates is the built-in catalog: seed data, not a contract. The
// matching and rendering algorithms do not depend on its contents.
func seedTemplates() []*models.CodeTemplate {
	return []*models.CodeTemplate{
		{
			ID:          "js-function-basic",
			Name:        "Function",
			Description: "Create a function that returns a value",
			Language:    "javascript",
			Pattern:     `(create|write|make|generate).*function`,
			Template:    "function {{name}}({{params}}) {\n  return {{returnValue}};\n}",
			Variables: []models.TemplateVariable{
				{Name: "name", Type: models.VariableString, Description: "function name", Required: true, DefaultValue: "myFunction"},
				{Name: "params", Type: models.VariableString, Description: "parameter list", Required: false, DefaultValue: "a, b"},
				{Name: "returnValue", Type: models.VariableString, Description: "return expression", Required: false, DefaultValue: "a + b"},
			},
			Examples: []models.TemplateExample{
				{
					Description: "add function",
					Variables:   map[string]string{"name": "add", "params": "a, b", "returnValue": "a + b"},
					Output:      "function add(a, b) {\n  return a + b;\n}",
				},
			},
		},
		{
			ID:          "js-class-basic",
			Name:        "Class",
			Description: "Create a class with a constructor",
			Language:    "javascript",
			Pattern:     `(create|write|make|generate).*class`,
			Template:    "class {{name}} {\n  constructor({{params}}) {\n{{#each fields}}    this.{{this}} = {{this}};{{/each}}\n  }\n}",
			Variables: []models.TemplateVariable{
				{Name: "name", Type: models.VariableString, Description: "class name", Required: true, DefaultValue: "MyClass"},
				{Name: "params", Type: models.VariableString, Description: "constructor parameters", Required: false, DefaultValue: ""},
				{Name: "fields", Type: models.VariableArray, Description: "fields assigned from parameters", Required: false},
			},
		},
		{
			ID:          "ts-interface",
			Name:        "Interface",
			Description: "Create a typescript interface with typed fields",
			Language:    "typescript",
			Pattern:     `(create|write|make|generate).*interface`,
			Template:    "interface {{name}} {\n{{#each fields}}  {{this}};{{/each}}\n}",
			Variables: []models.TemplateVariable{
				{Name: "name", Type: models.VariableString, Description: "interface name", Required: true, DefaultValue: "MyInterface"},
				{Name: "fields", Type: models.VariableArray, Description: "field declarations", Required: false, DefaultValue: "id: number"},
			},
			Examples: []models.TemplateExample{
				{
					Description: "user interface",
					Variables:   map[string]string{"name": "User", "fields": "id: number,name: string"},
					Output:      "interface User {\n  id: number;\n  name: string;\n}",
				},
			},
		},
		{
			ID:          "ts-type-alias",
			Name:        "Type alias",
			Description: "Create a typescript type alias",
			Language:    "typescript",
			Pattern:     `(create|write|make|generate).*type\s+alias`,
			Template:    "type {{name}} = {{definition}};",
			Variables: []models.TemplateVariable{
				{Name: "name", Type: models.VariableString, Description: "type name", Required: true, DefaultValue: "MyType"},
				{Name: "definition", Type: models.VariableString, Description: "aliased type", Required: false, DefaultValue: "string"},
			},
		},
		{
			ID:          "python-function",
			Name:        "Function",
			Description: "Create a python function that returns a value",
			Language:    "python",
			Pattern:     `(create|write|make|generate|def).*function`,
			Template:    "def {{name}}({{params}}):\n    return {{returnValue}}",
			Variables: []models.TemplateVariable{
				{Name: "name", Type: models.VariableString, Description: "function name", Required: true, DefaultValue: "my_function"},
				{Name: "params", Type: models.VariableString, Description: "parameter list", Required: false, DefaultValue: "a, b"},
				{Name: "returnValue", Type: models.VariableString, Description: "return expression", Required: false, DefaultValue: "a + b"},
			},
			Examples: []models.TemplateExample{
				{
					Description: "multiply function",
					Variables:   map[string]string{"name": "multiply", "params": "x, y", "returnValue": "x * y"},
					Output:      "def multiply(x, y):\n    return x * y",
				},
			},
		},
		{
			ID:          "react-component",
			Name:        "React component",
			Description: "Create a react functional component",
			Language:    "javascript",
			Framework:   "react",
			Pattern:     `(create|write|make|generate).*(react|component)`,
			Template:    "export function {{name}}({{#if props}}{ {{props}} }{{/if}}) {\n  return (\n    <div>{{content}}</div>\n  );\n}",
			Variables: []models.TemplateVariable{
				{Name: "name", Type: models.VariableString, Description: "component name", Required: true, DefaultValue: "MyComponent"},
				{Name: "props", Type: models.VariableString, Description: "destructured props", Required: false},
				{Name: "content", Type: models.VariableString, Description: "rendered content", Required: false, DefaultValue: ""},
			},
		},
		{
			ID:          "nextjs-page",
			Name:        "Next.js page",
			Description: "Create a nextjs page component",
			Language:    "typescript",
			Framework:   "nextjs",
			Pattern:     `(create|write|make|generate).*(next|page)`,
			Template:    "export default function {{name}}Page() {\n  return (\n    <main>\n      <h1>{{title}}</h1>\n    </main>\n  );\n}",
			Variables: []models.TemplateVariable{
				{Name: "name", Type: models.VariableString, Description: "page name", Required: true, DefaultValue: "Index"},
				{Name: "title", Type: models.VariableString, Description: "page heading", Required: false, DefaultValue: "Hello"},
			},
		},
	}
}
