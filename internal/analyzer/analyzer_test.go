package analyzer

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/copilot-core/models"
)

func codeFile(path, content, language string) models.CodeFile {
	return models.CodeFile{
		Path:         path,
		Content:      content,
		Language:     language,
		Size:         int64(len(content)),
		LastModified: time.Now(),
	}
}

func TestAnalyzeFile_UnknownLanguage(t *testing.T) {
	a := NewCodeAnalyzer(nil)
	_, err := a.AnalyzeFile(codeFile("x.cob", "DISPLAY.", "cobol"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no parser for language")
}

func TestAnalyzeFile_ComplexityBaseline(t *testing.T) {
	a := NewCodeAnalyzer(nil)
	result, err := a.AnalyzeFile(codeFile("x.js", "function f() { return 1; }", "javascript"))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Complexity, "no branches means complexity 1")
}

func TestAnalyzeFile_ComplexityScenario(t *testing.T) {
	a := NewCodeAnalyzer(nil)
	result, err := a.AnalyzeFile(codeFile("x.js", "if (a) { } while(b) { }", "javascript"))
	require.NoError(t, err)
	assert.Equal(t, 3, result.Complexity, "base 1 + if + while")
}

func TestAnalyzeFile_ComplexityMonotonicity(t *testing.T) {
	a := NewCodeAnalyzer(nil)

	base, err := a.AnalyzeFile(codeFile("x.js", "if (a) { }", "javascript"))
	require.NoError(t, err)
	more, err := a.AnalyzeFile(codeFile("x.js", "if (a) { }\nfor (;;) { }", "javascript"))
	require.NoError(t, err)

	assert.Equal(t, base.Complexity+1, more.Complexity)
}

func TestAnalyzeFile_DependenciesAndExports(t *testing.T) {
	a := NewCodeAnalyzer(nil)
	content := strings.Join([]string{
		`import { api } from "./api";`,
		`const db = require("pg");`,
		`export function save() {}`,
		`export class Repo {}`,
	}, "\n")

	result, err := a.AnalyzeFile(codeFile("repo.js", content, "javascript"))
	require.NoError(t, err)

	assert.Equal(t, []string{"./api", "pg"}, result.Dependencies)
	assert.Equal(t, result.Dependencies, result.Imports)
	assert.Equal(t, []string{"save", "Repo"}, result.Exports)
}

func TestAnalyzeFile_GoImportBlock(t *testing.T) {
	a := NewCodeAnalyzer(nil)
	content := "package main\n\nimport (\n\t\"fmt\"\n\tzl \"go.uber.org/zap\"\n)\n\nimport \"strings\"\n"
	result, err := a.AnalyzeFile(codeFile("main.go", content, "go"))
	require.NoError(t, err)

	assert.Equal(t, []string{"fmt", "go.uber.org/zap", "strings"}, result.Dependencies)
}

func TestAnalyzeFile_PythonDependencies(t *testing.T) {
	a := NewCodeAnalyzer(nil)
	content := "import os\nfrom flask import Flask\n"
	result, err := a.AnalyzeFile(codeFile("app.py", content, "python"))
	require.NoError(t, err)

	assert.Equal(t, []string{"os", "flask"}, result.Dependencies)
	assert.Nil(t, result.Exports, "only JS/TS expose exports")
}

func TestAnalyzeFile_Issues(t *testing.T) {
	a := NewCodeAnalyzer(nil)
	long := "const s = \"" + strings.Repeat("a", 120) + "\";"
	result, err := a.AnalyzeFile(codeFile("x.js", long+"\nvar y = 1;", "javascript"))
	require.NoError(t, err)

	require.Len(t, result.Issues, 2)
	assert.Equal(t, "line too long", result.Issues[0].Message)
	assert.Equal(t, 1, result.Issues[0].Location.Line)
	assert.Equal(t, "use of var detected", result.Issues[1].Message)
	assert.Equal(t, 2, result.Issues[1].Location.Line)
}

func TestAnalyzeFile_Patterns(t *testing.T) {
	a := NewCodeAnalyzer(nil)
	result, err := a.AnalyzeFile(codeFile("x.js", "function add() {}\nclass Calc {}", "javascript"))
	require.NoError(t, err)

	require.Len(t, result.Patterns, 2)
	assert.Equal(t, "FunctionDeclaration", result.Patterns[0].Type)
	assert.Equal(t, "add", result.Patterns[0].Name)
	assert.Equal(t, 0.9, result.Patterns[0].Confidence)
	assert.Equal(t, 1, result.Patterns[0].Location.Start)
	assert.Equal(t, "Calc", result.Patterns[1].Name)
	assert.Equal(t, 2, result.Patterns[1].Location.Start)
}

func TestAnalyzeProject_Aggregation(t *testing.T) {
	a := NewCodeAnalyzer(nil)
	files := []models.CodeFile{
		codeFile("a.js", "import x from \"lodash\";\nfunction go() { if (x) {} }", "javascript"),
		codeFile("b.js", "import y from \"lodash\";\nfunction go() {}", "javascript"),
	}

	analysis, err := a.AnalyzeProject(context.Background(), files)
	require.NoError(t, err)

	assert.Equal(t, 2, analysis.Metrics.FileCount)
	assert.Equal(t, 3, analysis.Metrics.TotalComplexity) // (1+if) + 1
	assert.Equal(t, 1.5, analysis.Metrics.AverageComplexity)
	assert.Equal(t, 0, analysis.Metrics.TotalIssues)
	assert.Equal(t, []string{"lodash"}, analysis.Dependencies, "dependencies deduplicate")
	assert.Equal(t, []string{"javascript"}, analysis.Structure.Languages)
	assert.Equal(t, 2, analysis.Structure.TotalFiles)

	// "go" appears in both files: aggregated confidence 2/2.
	require.NotEmpty(t, analysis.Patterns)
	assert.Equal(t, "go", analysis.Patterns[0].Name)
	assert.Equal(t, 1.0, analysis.Patterns[0].Confidence)
}

func TestAnalyzeProject_FailFast(t *testing.T) {
	a := NewCodeAnalyzer(nil)
	files := []models.CodeFile{
		codeFile("a.js", "function f() {}", "javascript"),
		codeFile("bad.cob", "DISPLAY.", "cobol"),
	}

	_, err := a.AnalyzeProject(context.Background(), files)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no parser for language")
}

func TestAnalyzeProject_Empty(t *testing.T) {
	a := NewCodeAnalyzer(nil)
	analysis, err := a.AnalyzeProject(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, analysis.Metrics.FileCount)
	assert.Equal(t, 0.0, analysis.Metrics.AverageComplexity)
}
