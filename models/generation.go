package models

import "time"

// CodeGenerationRequest is the caller-facing request for one generation.
type CodeGenerationRequest struct {
	Prompt      string       `json:"prompt"`
	Language    string       `json:"language"`
	Framework   string       `json:"framework,omitempty"`
	Context     *CodeContext `json:"context,omitempty"`
	MaxTokens   int          `json:"max_tokens,omitempty"`
	Temperature float64      `json:"temperature,omitempty"`
}

// GenerationMetadata carries provenance for a generated result.
type GenerationMetadata struct {
	RequestID      string        `json:"request_id,omitempty"`
	Model          string        `json:"model,omitempty"`
	Source         string        `json:"source,omitempty"` // "template" or "ai"
	TokensUsed     int           `json:"tokens_used,omitempty"`
	ProcessingTime time.Duration `json:"processing_time,omitempty"`
}

// GeneratedCode is the output of one generation request. Never persisted by
// the core itself.
type GeneratedCode struct {
	Code        string              `json:"code"`
	Explanation string              `json:"explanation,omitempty"`
	Confidence  float64             `json:"confidence"`
	Suggestions []string            `json:"suggestions,omitempty"`
	Tests       string              `json:"tests,omitempty"`
	Metadata    *GenerationMetadata `json:"metadata,omitempty"`
}
