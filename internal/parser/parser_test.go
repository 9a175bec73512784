package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countType(program *Node, nodeType string) int {
	count := 0
	Walk(program, func(n *Node) {
		if n.Type == nodeType {
			count++
		}
	})
	return count
}

func TestJavaScript_FunctionsAndBranches(t *testing.T) {
	p := NewJavaScript()
	ast, err := p.Parse("function add(a, b) {\n  if (a > b) { return a; }\n  return b;\n}\nconst mul = (a, b) => a * b;\n")
	require.NoError(t, err)

	assert.Equal(t, 2, countType(ast, TypeFunctionDeclaration))
	assert.Equal(t, 1, countType(ast, TypeIfStatement))
}

func TestJavaScript_MultipleConstructsOneLine(t *testing.T) {
	p := NewJavaScript()
	ast, err := p.Parse("if (a) { } while(b) { }")
	require.NoError(t, err)

	assert.Equal(t, 1, countType(ast, TypeIfStatement))
	assert.Equal(t, 1, countType(ast, TypeWhileStatement))
}

func TestTypeScript_InterfaceAndTypeAlias(t *testing.T) {
	p := NewTypeScript()
	ast, err := p.Parse("interface User {\n  name: string;\n}\ntype ID = string;\n")
	require.NoError(t, err)

	assert.Equal(t, 2, countType(ast, TypeClassDeclaration))
}

func TestPython_DefClassAndImports(t *testing.T) {
	p := NewPython()
	ast, err := p.Parse("import os\nfrom sys import path\n\nclass Greeter:\n    def greet(self):\n        if True:\n            pass\n")
	require.NoError(t, err)

	assert.Equal(t, 2, countType(ast, TypeImportStatement))
	assert.Equal(t, 1, countType(ast, TypeClassDeclaration))
	assert.Equal(t, 1, countType(ast, TypeFunctionDeclaration))
	assert.Equal(t, 1, countType(ast, TypeIfStatement))
}

func TestGo_FuncAndStruct(t *testing.T) {
	p := NewGo()
	ast, err := p.Parse("package main\n\ntype server struct{}\n\nfunc (s *server) run() {\n\tfor {\n\t}\n}\n")
	require.NoError(t, err)

	assert.Equal(t, 1, countType(ast, TypeFunctionDeclaration))
	assert.Equal(t, 1, countType(ast, TypeClassDeclaration))
	assert.Equal(t, 1, countType(ast, TypeForStatement))
}

func TestParse_RecordsLineNumbers(t *testing.T) {
	p := NewJavaScript()
	ast, err := p.Parse("// header\nfunction greet() {}\n")
	require.NoError(t, err)

	var fn *Node
	Walk(ast, func(n *Node) {
		if n.Type == TypeFunctionDeclaration {
			fn = n
		}
	})
	require.NotNil(t, fn)
	assert.Equal(t, 2, fn.StartLine)
	assert.Equal(t, "greet", fn.Name)
}

func TestNew_UnknownLanguage(t *testing.T) {
	_, err := New("cobol")
	assert.Error(t, err)
}
