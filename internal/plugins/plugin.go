// Package plugins holds the per-language capability bundles and the registry
// that maps languages and file extensions to them.
package plugins

import (
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/yourusername/copilot-core/internal/parser"
	"github.com/yourusername/copilot-core/models"
)

// Feature names a plugin capability.
type Feature string

const (
	FeatureParsing    Feature = "parsing"
	FeatureGeneration Feature = "generation"
	FeatureLinting    Feature = "linting"
	FeatureFormatting Feature = "formatting"
)

// Capabilities is the explicit capability descriptor attached to every
// plugin at registration time; no type-testing is ever needed to discover
// what a plugin can do.
type Capabilities struct {
	Parsing    bool `json:"parsing"`
	Generation bool `json:"generation"`
	Linting    bool `json:"linting"`
	Formatting bool `json:"formatting"`
}

// Generator produces code from a free-text prompt.
type Generator interface {
	Generate(prompt string) (string, error)
}

// Linter finds advisory issues in code.
type Linter interface {
	Lint(code string) []models.CodeIssue
}

// Formatter normalizes code formatting.
type Formatter interface {
	Format(code string) string
}

// LanguageInfo summarizes a plugin for callers.
type LanguageInfo struct {
	Name       string   `json:"name"`
	Version    string   `json:"version"`
	Features   []string `json:"features"`
	Extensions []string `json:"extensions"`
}

// LanguagePlugin bundles a language's parser with its optional generator,
// linter and formatter. Parser is required; the rest may be nil.
type LanguagePlugin struct {
	Name       string
	Language   string
	Extensions []string
	Version    string

	Parser    parser.Parser
	Generator Generator
	Linter    Linter
	Formatter Formatter

	// validator is the language-specific heuristic behind ValidateCode.
	validator func(code string) bool

	logger      *zap.Logger
	initialized bool
	mu          sync.Mutex
}

// Initialize performs idempotent plugin setup.
func (p *LanguagePlugin) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initialized {
		return nil
	}
	if p.logger == nil {
		p.logger = zap.NewNop()
	}
	p.logger.Debug("language plugin initialized",
		zap.String("language", p.Language),
		zap.Strings("extensions", p.Extensions))
	p.initialized = true
	return nil
}

// Capabilities returns the plugin's capability descriptor.
func (p *LanguagePlugin) Capabilities() Capabilities {
	return Capabilities{
		Parsing:    p.Parser != nil,
		Generation: p.Generator != nil,
		Linting:    p.Linter != nil,
		Formatting: p.Formatter != nil,
	}
}

// Supports reports whether the plugin provides a feature.
func (p *LanguagePlugin) Supports(feature Feature) bool {
	caps := p.Capabilities()
	switch feature {
	case FeatureParsing:
		return caps.Parsing
	case FeatureGeneration:
		return caps.Generation
	case FeatureLinting:
		return caps.Linting
	case FeatureFormatting:
		return caps.Formatting
	}
	return false
}

// GetCapabilities lists the features the plugin provides.
func (p *LanguagePlugin) GetCapabilities() []string {
	var features []string
	for _, feature := range []Feature{FeatureParsing, FeatureGeneration, FeatureLinting, FeatureFormatting} {
		if p.Supports(feature) {
			features = append(features, string(feature))
		}
	}
	return features
}

// ValidateCode rejects empty or whitespace-only input, then delegates to the
// language-specific heuristic when one exists.
func (p *LanguagePlugin) ValidateCode(code string) bool {
	if strings.TrimSpace(code) == "" {
		return false
	}
	if p.validator == nil {
		return true
	}
	return p.validator(code)
}

// LanguageInfo reports the plugin's name, version, features and extensions.
func (p *LanguagePlugin) LanguageInfo() LanguageInfo {
	return LanguageInfo{
		Name:       p.Name,
		Version:    p.Version,
		Features:   p.GetCapabilities(),
		Extensions: append([]string(nil), p.Extensions...),
	}
}
