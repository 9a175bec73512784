// Package analyzer derives structural analysis from source files: imports,
// exports, complexity, recognized patterns, and advisory issues.
package analyzer

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/copilot-core/internal/parser"
	"github.com/yourusername/copilot-core/models"
)

const (
	maxLineLength     = 100
	patternConfidence = 0.9
)

// CodeAnalyzer analyzes single files and whole projects. It owns its own
// parser table so analysis stays self-contained; an unknown language is a
// hard error, never a silent empty result.
type CodeAnalyzer struct {
	parsers map[string]parser.Parser
	logger  *zap.Logger
}

// NewCodeAnalyzer creates an analyzer with parsers for the built-in
// languages.
func NewCodeAnalyzer(logger *zap.Logger) *CodeAnalyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	parsers := make(map[string]parser.Parser)
	for _, p := range []parser.Parser{
		parser.NewJavaScript(),
		parser.NewTypeScript(),
		parser.NewPython(),
		parser.NewJava(),
		parser.NewGo(),
	} {
		parsers[p.Language()] = p
	}
	return &CodeAnalyzer{parsers: parsers, logger: logger}
}

// AnalyzeFile parses one file and derives its analysis result.
func (a *CodeAnalyzer) AnalyzeFile(file models.CodeFile) (*models.AnalysisResult, error) {
	language := strings.ToLower(file.Language)
	p, ok := a.parsers[language]
	if !ok {
		return nil, fmt.Errorf("no parser for language: %s", file.Language)
	}

	ast, err := p.Parse(file.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", file.Path, err)
	}

	deps := extractDependencies(language, file.Content)
	result := &models.AnalysisResult{
		Path:         file.Path,
		AST:          ast,
		Dependencies: deps,
		Exports:      extractExports(language, file.Content),
		Imports:      deps,
		Complexity:   complexity(ast),
		Patterns:     extractPatterns(ast),
		Issues:       findIssues(language, file.Content),
	}

	a.logger.Debug("analyzed file",
		zap.String("path", file.Path),
		zap.Int("complexity", result.Complexity),
		zap.Int("issues", len(result.Issues)))
	return result, nil
}

// AnalyzeProject analyzes every file and aggregates the results. Analysis is
// fail-fast: the first parse failure aborts the batch. Per-file results are
// independent, so execution order never affects the outcome.
func (a *CodeAnalyzer) AnalyzeProject(ctx context.Context, files []models.CodeFile) (*models.ProjectAnalysis, error) {
	results := make([]*models.AnalysisResult, len(files))

	g, _ := errgroup.WithContext(ctx)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			result, err := a.AnalyzeFile(file)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("project analysis failed: %w", err)
	}

	analysis := &models.ProjectAnalysis{
		Files: make([]models.AnalysisResult, len(results)),
	}

	totalLines := 0
	totalComplexity := 0
	totalIssues := 0
	depSet := make(map[string]bool)
	languageSet := make(map[string]bool)

	for i, result := range results {
		analysis.Files[i] = *result
		totalComplexity += result.Complexity
		totalIssues += len(result.Issues)
		if program, ok := result.AST.(*parser.Node); ok {
			totalLines += program.EndLine
		}
		for _, dep := range result.Dependencies {
			if !depSet[dep] {
				depSet[dep] = true
				analysis.Dependencies = append(analysis.Dependencies, dep)
			}
		}
		if lang := strings.ToLower(files[i].Language); lang != "" {
			languageSet[lang] = true
		}
	}

	languages := make([]string, 0, len(languageSet))
	for lang := range languageSet {
		languages = append(languages, lang)
	}
	sort.Strings(languages)

	analysis.Structure = models.ProjectSummary{
		TotalFiles: len(files),
		TotalLines: totalLines,
		Languages:  languages,
	}
	analysis.Patterns = aggregatePatterns(results, len(files))
	analysis.Metrics = models.ProjectMetrics{
		TotalComplexity: totalComplexity,
		FileCount:       len(files),
		TotalIssues:     totalIssues,
	}
	if len(files) > 0 {
		analysis.Metrics.AverageComplexity = float64(totalComplexity) / float64(len(files))
	}
	return analysis, nil
}

// complexity starts at 1 and adds 1 for every branch node in the tree.
func complexity(ast *parser.Node) int {
	score := 1
	parser.Walk(ast, func(n *parser.Node) {
		switch n.Type {
		case parser.TypeIfStatement, parser.TypeWhileStatement,
			parser.TypeForStatement, parser.TypeSwitchStatement:
			score++
		}
	})
	return score
}

// extractPatterns turns every function and class declaration into a Pattern.
func extractPatterns(ast *parser.Node) []models.Pattern {
	var patterns []models.Pattern
	parser.Walk(ast, func(n *parser.Node) {
		switch n.Type {
		case parser.TypeFunctionDeclaration, parser.TypeClassDeclaration:
			patterns = append(patterns, models.Pattern{
				Type:       n.Type,
				Name:       n.Name,
				Confidence: patternConfidence,
				Location:   models.Range{Start: n.StartLine, End: n.EndLine},
			})
		}
	})
	return patterns
}

// aggregatePatterns folds per-file patterns into project-wide ones keyed by
// (type, name); confidence becomes occurrence-count / file-count.
func aggregatePatterns(results []*models.AnalysisResult, fileCount int) []models.Pattern {
	if fileCount == 0 {
		return nil
	}
	type key struct{ patternType, name string }
	counts := make(map[key]int)
	var order []key
	for _, result := range results {
		for _, p := range result.Patterns {
			k := key{p.Type, p.Name}
			if counts[k] == 0 {
				order = append(order, k)
			}
			counts[k]++
		}
	}

	patterns := make([]models.Pattern, 0, len(order))
	for _, k := range order {
		patterns = append(patterns, models.Pattern{
			Type:       k.patternType,
			Name:       k.name,
			Confidence: float64(counts[k]) / float64(fileCount),
		})
	}
	return patterns
}

// findIssues reports lines over the length limit and, for JS/TS, var usage.
func findIssues(language, content string) []models.CodeIssue {
	var issues []models.CodeIssue
	jsLike := language == "javascript" || language == "typescript"

	for i, line := range strings.Split(content, "\n") {
		if len(line) > maxLineLength {
			issues = append(issues, models.CodeIssue{
				Type:       models.IssueWarning,
				Message:    "line too long",
				Severity:   2,
				Location:   models.Location{Line: i + 1, Column: maxLineLength},
				Suggestion: fmt.Sprintf("keep lines under %d characters", maxLineLength),
			})
		}
		if jsLike && strings.Contains(line, "var ") {
			issues = append(issues, models.CodeIssue{
				Type:       models.IssueWarning,
				Message:    "use of var detected",
				Severity:   2,
				Location:   models.Location{Line: i + 1, Column: strings.Index(line, "var ")},
				Suggestion: "prefer const or let",
			})
		}
	}
	return issues
}
