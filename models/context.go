package models

import "time"

// ProjectFile is one file entry inside a detected project structure.
type ProjectFile struct {
	Path     string `json:"path"`
	Language string `json:"language"`
	Size     int64  `json:"size"`
}

// ProjectDependency is a declared dependency of the project being assisted.
type ProjectDependency struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

// ProjectStructure describes the shape of the project under assistance.
type ProjectStructure struct {
	Root         string              `json:"root"`
	Files        []ProjectFile       `json:"files"`
	Dependencies []ProjectDependency `json:"dependencies"`
	Config       map[string]string   `json:"config,omitempty"`
}

// ProjectContext is the cached per-project summary used for prompt
// enrichment. Invalidated only by cache TTL/eviction.
type ProjectContext struct {
	Language     string           `json:"language"`
	Framework    string           `json:"framework,omitempty"`
	Dependencies []string         `json:"dependencies"`
	Structure    ProjectStructure `json:"structure"`
}

// UserHistory tracks a user's recent interactions. Lists are bounded and
// most-recent-first.
type UserHistory struct {
	UserID            string    `json:"user_id"`
	RecentPrompts     []string  `json:"recent_prompts"`
	PreferredPatterns []string  `json:"preferred_patterns"`
	CommonMistakes    []string  `json:"common_mistakes"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// CodeStyle is a user's preferred programming paradigm.
type CodeStyle string

const (
	StyleFunctional     CodeStyle = "functional"
	StyleObjectOriented CodeStyle = "object-oriented"
	StyleProcedural     CodeStyle = "procedural"
)

// CommentStyle is a user's preferred comment density.
type CommentStyle string

const (
	CommentsDetailed CommentStyle = "detailed"
	CommentsMinimal  CommentStyle = "minimal"
	CommentsNone     CommentStyle = "none"
)

// UserPreferences holds per-user generation preferences, defaulted on first
// read.
type UserPreferences struct {
	UserID            string       `json:"user_id"`
	PreferredLanguage string       `json:"preferred_language"`
	CodeStyle         CodeStyle    `json:"code_style"`
	CommentStyle      CommentStyle `json:"comment_style"`
	TestingFramework  string       `json:"testing_framework,omitempty"`
	Linter            string       `json:"linter,omitempty"`
}

// CodeContext is the possibly-partial context a caller supplies with a
// generation request; enrichment fills the gaps.
type CodeContext struct {
	CurrentFile      string            `json:"current_file,omitempty"`
	SurroundingCode  string            `json:"surrounding_code,omitempty"`
	RelatedFiles     []string          `json:"related_files,omitempty"`
	ProjectStructure *ProjectStructure `json:"project_structure,omitempty"`
	UserPreferences  *UserPreferences  `json:"user_preferences,omitempty"`
	UserID           string            `json:"user_id,omitempty"`
}

// ContextWindow is the assembled bundle handed to generation: enriched code
// context plus the user's history.
type ContextWindow struct {
	Context CodeContext  `json:"context"`
	History *UserHistory `json:"history,omitempty"`
}
