// Package template implements the prompt-to-template matching and rendering
// engine used before any AI provider is consulted.
package template

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/yourusername/copilot-core/models"
)

// matchThreshold gates template selection. The FIRST template in
// registration order whose confidence exceeds it wins, not the best-scoring
// one.
const matchThreshold = 0.8

// Engine holds the per-language template catalog and answers match and
// render requests.
type Engine struct {
	templates map[string][]*models.CodeTemplate
	languages []string // language bucket insertion order
	logger    *zap.Logger
	mu        sync.RWMutex
}

// NewEngine creates an engine preloaded with the seed catalog.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		templates: make(map[string][]*models.CodeTemplate),
		logger:    logger,
	}
	for _, t := range seedTemplates() {
		e.AddTemplate(t)
	}
	return e
}

// NewEmptyEngine creates an engine with no templates, mainly for tests.
func NewEmptyEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		templates: make(map[string][]*models.CodeTemplate),
		logger:    logger,
	}
}

// AddTemplate registers a template under its language bucket, preserving
// registration order.
func (e *Engine) AddTemplate(t *models.CodeTemplate) {
	e.mu.Lock()
	defer e.mu.Unlock()

	language := strings.ToLower(t.Language)
	if _, ok := e.templates[language]; !ok {
		e.languages = append(e.languages, language)
	}
	e.templates[language] = append(e.templates[language], t)
}

// RemoveTemplate deletes the template identified by (id, language).
func (e *Engine) RemoveTemplate(id, language string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	language = strings.ToLower(language)
	bucket := e.templates[language]
	for i, t := range bucket {
		if t.ID == id {
			e.templates[language] = append(bucket[:i], bucket[i+1:]...)
			return true
		}
	}
	return false
}

// GetTemplates returns the templates for a language, or all templates when
// language is empty. Order follows registration.
func (e *Engine) GetTemplates(language string) []*models.CodeTemplate {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if language != "" {
		bucket := e.templates[strings.ToLower(language)]
		out := make([]*models.CodeTemplate, len(bucket))
		copy(out, bucket)
		return out
	}
	var out []*models.CodeTemplate
	for _, lang := range e.languages {
		out = append(out, e.templates[lang]...)
	}
	return out
}

// Match scores the request prompt against each template registered for the
// request's language, in registration order, and returns the first match
// whose confidence exceeds the threshold. Nil means no template qualified.
func (e *Engine) Match(request *models.CodeGenerationRequest) *models.TemplateMatch {
	if request == nil || strings.TrimSpace(request.Prompt) == "" {
		return nil
	}

	e.mu.RLock()
	bucket := e.templates[strings.ToLower(request.Language)]
	e.mu.RUnlock()

	for _, t := range bucket {
		confidence := scoreTemplate(t, request.Prompt)
		if confidence > matchThreshold {
			match := &models.TemplateMatch{
				Template:   t,
				Confidence: confidence,
				Variables:  extractVariables(t, request.Prompt),
			}
			e.logger.Debug("template matched",
				zap.String("template", t.ID),
				zap.Float64("confidence", confidence))
			return match
		}
	}
	return nil
}

// Render fills the matched template with the match's variables.
func (e *Engine) Render(match *models.TemplateMatch) (string, error) {
	if match == nil || match.Template == nil {
		return "", fmt.Errorf("nothing to render: empty template match")
	}
	return render(match.Template.Template, match.Variables), nil
}
