// Package parser contains the heuristic line-scanning parsers behind the
// CodeParser contract. The produced AST is intentionally approximate: a flat
// Program node whose children mark the constructs the analyzer walks. A real
// grammar-based parser can replace any of these behind the same interface.
package parser

import (
	"fmt"
	"regexp"
	"strings"
)

// Node types emitted by the heuristic parsers.
const (
	TypeProgram             = "Program"
	TypeFunctionDeclaration = "FunctionDeclaration"
	TypeClassDeclaration    = "ClassDeclaration"
	TypeIfStatement         = "IfStatement"
	TypeWhileStatement      = "WhileStatement"
	TypeForStatement        = "ForStatement"
	TypeSwitchStatement     = "SwitchStatement"
	TypeImportStatement     = "ImportStatement"
	TypeExportStatement     = "ExportStatement"
)

// Node is the loosely-typed AST node walked by the analyzer.
type Node struct {
	Type      string  `json:"type"`
	Name      string  `json:"name,omitempty"`
	Value     string  `json:"value,omitempty"`
	StartLine int     `json:"start_line"`
	EndLine   int     `json:"end_line"`
	Children  []*Node `json:"children,omitempty"`
}

// Parser is the contract every language parser fulfills.
type Parser interface {
	Parse(content string) (*Node, error)
	Language() string
	Extensions() []string
}

// rule maps a construct regex to a node type. A rule with a capture group
// records the first group as the node name.
type rule struct {
	pattern  *regexp.Regexp
	nodeType string
}

// lineParser scans content line by line, emitting one node per rule match.
// Multiple constructs on one line all get counted.
type lineParser struct {
	language   string
	extensions []string
	rules      []rule
}

func (p *lineParser) Language() string     { return p.language }
func (p *lineParser) Extensions() []string { return append([]string(nil), p.extensions...) }

func (p *lineParser) Parse(content string) (*Node, error) {
	program := &Node{Type: TypeProgram, StartLine: 1}

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lineNo := i + 1
		for _, r := range p.rules {
			for _, match := range r.pattern.FindAllStringSubmatch(line, -1) {
				node := &Node{
					Type:      r.nodeType,
					StartLine: lineNo,
					EndLine:   lineNo,
					Value:     strings.TrimSpace(match[0]),
				}
				if len(match) > 1 {
					node.Name = match[1]
				}
				program.Children = append(program.Children, node)
			}
		}
	}
	program.EndLine = len(lines)
	return program, nil
}

// Walk visits every node in the tree depth-first.
func Walk(node *Node, visit func(*Node)) {
	if node == nil {
		return
	}
	visit(node)
	for _, child := range node.Children {
		Walk(child, visit)
	}
}

// New returns the heuristic parser for a language, or an error when the
// language has none.
func New(language string) (Parser, error) {
	switch strings.ToLower(language) {
	case "javascript":
		return NewJavaScript(), nil
	case "typescript":
		return NewTypeScript(), nil
	case "python":
		return NewPython(), nil
	case "java":
		return NewJava(), nil
	case "go":
		return NewGo(), nil
	}
	return nil, fmt.Errorf("no parser for language: %s", language)
}

var (
	jsBranchRules = []rule{
		{regexp.MustCompile(`\bif\s*\(`), TypeIfStatement},
		{regexp.MustCompile(`\bwhile\s*\(`), TypeWhileStatement},
		{regexp.MustCompile(`\bfor\s*\(`), TypeForStatement},
		{regexp.MustCompile(`\bswitch\s*\(`), TypeSwitchStatement},
	}

	jsRules = append([]rule{
		{regexp.MustCompile(`\bfunction\s+(\w+)`), TypeFunctionDeclaration},
		{regexp.MustCompile(`\bconst\s+(\w+)\s*=\s*(?:async\s+)?\(?[\w\s,]*\)?\s*=>`), TypeFunctionDeclaration},
		{regexp.MustCompile(`\bclass\s+(\w+)`), TypeClassDeclaration},
		{regexp.MustCompile(`^\s*import\s+.+\bfrom\b`), TypeImportStatement},
		{regexp.MustCompile(`^\s*export\s+`), TypeExportStatement},
	}, jsBranchRules...)

	pythonRules = []rule{
		{regexp.MustCompile(`^\s*def\s+(\w+)`), TypeFunctionDeclaration},
		{regexp.MustCompile(`^\s*class\s+(\w+)`), TypeClassDeclaration},
		{regexp.MustCompile(`^\s*(?:el)?if\b`), TypeIfStatement},
		{regexp.MustCompile(`^\s*while\b`), TypeWhileStatement},
		{regexp.MustCompile(`^\s*for\b`), TypeForStatement},
		{regexp.MustCompile(`^\s*(?:import|from)\s+\w`), TypeImportStatement},
	}

	javaRules = append([]rule{
		{regexp.MustCompile(`\bclass\s+(\w+)`), TypeClassDeclaration},
		{regexp.MustCompile(`(?:public|private|protected|static|\s)+[\w<>\[\]]+\s+(\w+)\s*\([^)]*\)\s*\{`), TypeFunctionDeclaration},
		{regexp.MustCompile(`^\s*import\s+[\w.]+;`), TypeImportStatement},
	}, jsBranchRules...)

	goRules = []rule{
		{regexp.MustCompile(`\bfunc\s+(?:\([^)]*\)\s*)?(\w+)\s*\(`), TypeFunctionDeclaration},
		{regexp.MustCompile(`\btype\s+(\w+)\s+struct\b`), TypeClassDeclaration},
		{regexp.MustCompile(`\bif\b`), TypeIfStatement},
		{regexp.MustCompile(`\bfor\b`), TypeForStatement},
		{regexp.MustCompile(`\bswitch\b`), TypeSwitchStatement},
		{regexp.MustCompile(`^\s*import\s+`), TypeImportStatement},
	}
)

// NewJavaScript returns the JavaScript heuristic parser.
func NewJavaScript() Parser {
	return &lineParser{language: "javascript", extensions: []string{".js", ".jsx", ".mjs"}, rules: jsRules}
}

// NewTypeScript returns the TypeScript heuristic parser. It shares the
// JavaScript rules plus interface and type alias declarations.
func NewTypeScript() Parser {
	tsRules := append([]rule{
		{regexp.MustCompile(`\binterface\s+(\w+)`), TypeClassDeclaration},
		{regexp.MustCompile(`\btype\s+(\w+)\s*=`), TypeClassDeclaration},
	}, jsRules...)
	return &lineParser{language: "typescript", extensions: []string{".ts", ".tsx"}, rules: tsRules}
}

// NewPython returns the Python heuristic parser.
func NewPython() Parser {
	return &lineParser{language: "python", extensions: []string{".py"}, rules: pythonRules}
}

// NewJava returns the Java heuristic parser.
func NewJava() Parser {
	return &lineParser{language: "java", extensions: []string{".java"}, rules: javaRules}
}

// NewGo returns the Go heuristic parser.
func NewGo() Parser {
	return &lineParser{language: "go", extensions: []string{".go"}, rules: goRules}
}
