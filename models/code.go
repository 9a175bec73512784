package models

import "time"

// CodeFile is a single source file submitted for analysis. It is immutable
// once handed to the analyzer.
type CodeFile struct {
	Path         string    `json:"path"`
	Content      string    `json:"content"`
	Language     string    `json:"language"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// Location identifies a position inside a file.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Range identifies a span of lines inside a file.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// IssueType classifies a CodeIssue.
type IssueType string

const (
	IssueError   IssueType = "error"
	IssueWarning IssueType = "warning"
	IssueInfo    IssueType = "info"
)

// CodeIssue is an advisory finding. Issues never block generation.
type CodeIssue struct {
	Type       IssueType `json:"type"`
	Message    string    `json:"message"`
	Severity   int       `json:"severity"`
	Location   Location  `json:"location"`
	Suggestion string    `json:"suggestion,omitempty"`
}

// Pattern is a recognized structural unit (function, class, ...). At project
// scope Confidence becomes occurrence-count / file-count.
type Pattern struct {
	Type       string  `json:"type"`
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
	Location   Range   `json:"location"`
}

// AnalysisResult is the derived analysis of one CodeFile. The AST field is
// opaque to everything except the analyzer's own walkers.
type AnalysisResult struct {
	Path         string      `json:"path"`
	AST          interface{} `json:"-"`
	Dependencies []string    `json:"dependencies"`
	Exports      []string    `json:"exports"`
	Imports      []string    `json:"imports"`
	Complexity   int         `json:"complexity"`
	Patterns     []Pattern   `json:"patterns"`
	Issues       []CodeIssue `json:"issues"`
}

// ProjectMetrics aggregates per-file metrics across a project analysis.
type ProjectMetrics struct {
	TotalComplexity   int     `json:"total_complexity"`
	AverageComplexity float64 `json:"average_complexity"`
	FileCount         int     `json:"file_count"`
	TotalIssues       int     `json:"total_issues"`
}

// ProjectSummary is the loose structural summary computed during project
// analysis.
type ProjectSummary struct {
	TotalFiles int      `json:"total_files"`
	TotalLines int      `json:"total_lines"`
	Languages  []string `json:"languages"`
}

// ProjectAnalysis is the aggregation of all per-file results.
type ProjectAnalysis struct {
	Files        []AnalysisResult `json:"files"`
	Structure    ProjectSummary   `json:"structure"`
	Patterns     []Pattern        `json:"patterns"`
	Dependencies []string         `json:"dependencies"`
	Metrics      ProjectMetrics   `json:"metrics"`
}
