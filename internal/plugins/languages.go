package plugins

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/yourusername/copilot-core/internal/parser"
	"github.com/yourusername/copilot-core/models"
)

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(prompt string) (string, error)

func (f GeneratorFunc) Generate(prompt string) (string, error) { return f(prompt) }

// LinterFunc adapts a function to the Linter interface.
type LinterFunc func(code string) []models.CodeIssue

func (f LinterFunc) Lint(code string) []models.CodeIssue { return f(code) }

// FormatterFunc adapts a function to the Formatter interface.
type FormatterFunc func(code string) string

func (f FormatterFunc) Format(code string) string { return f(code) }

// trimTrailingWhitespace is the shared minimal formatter.
func trimTrailingWhitespace(code string) string {
	lines := strings.Split(code, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}

// balancedDelimiters is the weak validity heuristic for brace languages.
func balancedDelimiters(code string) bool {
	braces, parens := 0, 0
	for _, r := range code {
		switch r {
		case '{':
			braces++
		case '}':
			braces--
		case '(':
			parens++
		case ')':
			parens--
		}
		if braces < 0 || parens < 0 {
			return false
		}
	}
	return braces == 0 && parens == 0
}

var varUsage = regexp.MustCompile(`\bvar\s+\w`)

// lintJavaScript flags var usage and loose equality.
func lintJavaScript(code string) []models.CodeIssue {
	var issues []models.CodeIssue
	for i, line := range strings.Split(code, "\n") {
		if varUsage.MatchString(line) {
			issues = append(issues, models.CodeIssue{
				Type:       models.IssueWarning,
				Message:    "use of var detected",
				Severity:   2,
				Location:   models.Location{Line: i + 1},
				Suggestion: "prefer const or let",
			})
		}
		if strings.Contains(line, "==") && !strings.Contains(line, "===") && !strings.Contains(line, "!==") {
			issues = append(issues, models.CodeIssue{
				Type:       models.IssueInfo,
				Message:    "loose equality comparison",
				Severity:   1,
				Location:   models.Location{Line: i + 1},
				Suggestion: "use === or !==",
			})
		}
	}
	return issues
}

// lintPython flags tab indentation.
func lintPython(code string) []models.CodeIssue {
	var issues []models.CodeIssue
	for i, line := range strings.Split(code, "\n") {
		if strings.HasPrefix(line, "\t") {
			issues = append(issues, models.CodeIssue{
				Type:       models.IssueWarning,
				Message:    "tab indentation",
				Severity:   2,
				Location:   models.Location{Line: i + 1},
				Suggestion: "indent with 4 spaces",
			})
		}
	}
	return issues
}

// validatePython requires indentation in multiples of 4 for non-comment,
// non-blank lines once a def or class has been seen.
func validatePython(code string) bool {
	insideBlock := false
	for _, line := range strings.Split(code, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if insideBlock {
			indent := len(line) - len(strings.TrimLeft(line, " "))
			if indent%4 != 0 {
				return false
			}
		}
		if strings.HasPrefix(trimmed, "def ") || strings.HasPrefix(trimmed, "class ") {
			insideBlock = true
		}
	}
	return true
}

var javaClassDecl = regexp.MustCompile(`\bclass\s+\w+`)

// NewJavaScriptPlugin builds the JavaScript capability bundle.
func NewJavaScriptPlugin(logger *zap.Logger) *LanguagePlugin {
	return &LanguagePlugin{
		Name:       "JavaScript",
		Language:   "javascript",
		Extensions: []string{".js", ".jsx", ".mjs"},
		Version:    "ES2022",
		Parser:     parser.NewJavaScript(),
		Generator: GeneratorFunc(func(prompt string) (string, error) {
			return fmt.Sprintf("// %s\nfunction generated() {\n  // TODO: implement\n}\n", prompt), nil
		}),
		Linter:    LinterFunc(lintJavaScript),
		Formatter: FormatterFunc(trimTrailingWhitespace),
		validator: balancedDelimiters,
		logger:    logger,
	}
}

// NewTypeScriptPlugin builds the TypeScript capability bundle.
func NewTypeScriptPlugin(logger *zap.Logger) *LanguagePlugin {
	return &LanguagePlugin{
		Name:       "TypeScript",
		Language:   "typescript",
		Extensions: []string{".ts", ".tsx"},
		Version:    "5.x",
		Parser:     parser.NewTypeScript(),
		Generator: GeneratorFunc(func(prompt string) (string, error) {
			return fmt.Sprintf("// %s\nexport function generated(): void {\n  // TODO: implement\n}\n", prompt), nil
		}),
		Linter:    LinterFunc(lintJavaScript),
		Formatter: FormatterFunc(trimTrailingWhitespace),
		validator: balancedDelimiters,
		logger:    logger,
	}
}

// NewPythonPlugin builds the Python capability bundle.
func NewPythonPlugin(logger *zap.Logger) *LanguagePlugin {
	return &LanguagePlugin{
		Name:       "Python",
		Language:   "python",
		Extensions: []string{".py"},
		Version:    "3.12",
		Parser:     parser.NewPython(),
		Generator: GeneratorFunc(func(prompt string) (string, error) {
			return fmt.Sprintf("# %s\ndef generated():\n    pass\n", prompt), nil
		}),
		Linter:    LinterFunc(lintPython),
		Formatter: FormatterFunc(trimTrailingWhitespace),
		validator: validatePython,
		logger:    logger,
	}
}

// NewJavaPlugin builds the Java capability bundle. Java ships without a
// generator or formatter, exercising the optional-capability path.
func NewJavaPlugin(logger *zap.Logger) *LanguagePlugin {
	return &LanguagePlugin{
		Name:       "Java",
		Language:   "java",
		Extensions: []string{".java"},
		Version:    "21",
		Parser:     parser.NewJava(),
		validator: func(code string) bool {
			return javaClassDecl.MatchString(code)
		},
		logger: logger,
	}
}

// NewGoPlugin builds the Go capability bundle.
func NewGoPlugin(logger *zap.Logger) *LanguagePlugin {
	return &LanguagePlugin{
		Name:       "Go",
		Language:   "go",
		Extensions: []string{".go"},
		Version:    "1.23",
		Parser:     parser.NewGo(),
		Formatter:  FormatterFunc(trimTrailingWhitespace),
		validator: func(code string) bool {
			return strings.Contains(code, "package main") || strings.Contains(code, "func ")
		},
		logger: logger,
	}
}
