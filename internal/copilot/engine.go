// Package copilot wires the whole assistant together: context assembly,
// template matching, and the AI fallback.
package copilot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yourusername/copilot-core/internal/analyzer"
	"github.com/yourusername/copilot-core/internal/contextmgr"
	"github.com/yourusername/copilot-core/internal/llm"
	"github.com/yourusername/copilot-core/internal/template"
	"github.com/yourusername/copilot-core/models"
)

// Engine orchestrates one generation call: enrich the context, try the
// template catalog, fall back to the AI generator. No retries happen here.
type Engine struct {
	contexts  *contextmgr.Manager
	templates *template.Engine
	generator *llm.CodeGenerator
	analyzer  *analyzer.CodeAnalyzer
	logger    *zap.Logger
}

// NewEngine assembles an engine from its collaborators.
func NewEngine(
	contexts *contextmgr.Manager,
	templates *template.Engine,
	generator *llm.CodeGenerator,
	codeAnalyzer *analyzer.CodeAnalyzer,
	logger *zap.Logger,
) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		contexts:  contexts,
		templates: templates,
		generator: generator,
		analyzer:  codeAnalyzer,
		logger:    logger,
	}
}

// GenerateCode produces code for the request. Enrichment always completes
// before template matching, which always completes before the AI fallback:
// matching must see the same context the AI prompt would use.
func (e *Engine) GenerateCode(ctx context.Context, request *models.CodeGenerationRequest) (*models.GeneratedCode, error) {
	if request == nil || strings.TrimSpace(request.Prompt) == "" {
		return nil, fmt.Errorf("invalid generation request: prompt is required")
	}

	requestID := uuid.NewString()
	startTime := time.Now()

	window, err := e.contexts.BuildContext(request)
	if err != nil {
		return nil, fmt.Errorf("context enrichment failed: %w", err)
	}
	request.Context = &window.Context

	if match := e.templates.Match(request); match != nil {
		code, err := e.templates.Render(match)
		if err != nil {
			return nil, fmt.Errorf("template rendering failed: %w", err)
		}
		e.logger.Info("generated from template",
			zap.String("request_id", requestID),
			zap.String("template", match.Template.ID),
			zap.Float64("confidence", match.Confidence))
		return &models.GeneratedCode{
			Code:        code,
			Explanation: fmt.Sprintf("Generated from the %q template.", match.Template.Name),
			Confidence:  match.Confidence,
			Metadata: &models.GenerationMetadata{
				RequestID:      requestID,
				Source:         "template",
				ProcessingTime: time.Since(startTime),
			},
		}, nil
	}

	generated, err := e.generator.Generate(ctx, request, window)
	if err != nil {
		return nil, fmt.Errorf("code generation failed: %w", err)
	}
	if generated.Metadata == nil {
		generated.Metadata = &models.GenerationMetadata{}
	}
	generated.Metadata.RequestID = requestID
	generated.Metadata.Source = "ai"
	generated.Metadata.ProcessingTime = time.Since(startTime)

	e.logger.Info("generated from provider",
		zap.String("request_id", requestID),
		zap.Float64("confidence", generated.Confidence))
	return generated, nil
}

// AnalyzeCode analyzes a single piece of code.
func (e *Engine) AnalyzeCode(code, language, filePath string) (*models.AnalysisResult, error) {
	if filePath == "" {
		filePath = "snippet"
	}
	result, err := e.analyzer.AnalyzeFile(models.CodeFile{
		Path:         filePath,
		Content:      code,
		Language:     language,
		Size:         int64(len(code)),
		LastModified: time.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("code analysis failed: %w", err)
	}
	return result, nil
}

// AnalyzeProject analyzes a batch of files.
func (e *Engine) AnalyzeProject(ctx context.Context, files []models.CodeFile) (*models.ProjectAnalysis, error) {
	analysis, err := e.analyzer.AnalyzeProject(ctx, files)
	if err != nil {
		return nil, fmt.Errorf("project analysis failed: %w", err)
	}
	return analysis, nil
}

// GetProjectContext returns the cached project context for a path.
func (e *Engine) GetProjectContext(projectPath string) (*models.ProjectContext, error) {
	project, err := e.contexts.GetProjectContext(projectPath)
	if err != nil {
		return nil, fmt.Errorf("project context failed: %w", err)
	}
	return project, nil
}

// RecordPrompt appends the prompt to the user's history.
func (e *Engine) RecordPrompt(userID, prompt string) error {
	return e.contexts.AddUserPrompt(userID, prompt)
}
