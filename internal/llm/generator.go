package llm

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/yourusername/copilot-core/models"
)

const defaultMaxTokens = 2048

var fencedBlock = regexp.MustCompile("(?s)```[a-zA-Z0-9]*\n(.*?)```")

// CodeGenerator turns a generation request plus its context window into a
// prompt, calls the provider, and parses the completion into GeneratedCode.
// Provider failures are soft: the caller always gets a well-typed result,
// with zero confidence and an explanatory message when the call failed.
type CodeGenerator struct {
	provider CompletionClient
	logger   *zap.Logger
}

// CompletionClient is the slice of Provider the generator needs. Both a
// single Provider and the fallback Manager satisfy it.
type CompletionClient interface {
	Generate(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error)
}

// NewCodeGenerator creates a generator over a completion client.
func NewCodeGenerator(provider CompletionClient, logger *zap.Logger) *CodeGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CodeGenerator{provider: provider, logger: logger}
}

// Generate produces code for the request. The returned error is reserved
// for programming mistakes (nil request); provider failures come back as a
// zero-confidence result.
func (g *CodeGenerator) Generate(ctx context.Context, request *models.CodeGenerationRequest, window *models.ContextWindow) (*models.GeneratedCode, error) {
	if request == nil {
		return nil, fmt.Errorf("nil generation request")
	}

	maxTokens := request.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	providerRequest := &GenerationRequest{
		SystemPrompt: buildSystemPrompt(request, window),
		Messages:     []Message{{Role: "user", Content: buildUserPrompt(request, window)}},
		MaxTokens:    maxTokens,
		Temperature:  request.Temperature,
	}

	response, err := g.provider.Generate(ctx, providerRequest)
	if err != nil {
		g.logger.Warn("provider call failed", zap.Error(err))
		return &models.GeneratedCode{
			Code:        "",
			Explanation: fmt.Sprintf("Failed to generate code: %v", err),
			Confidence:  0,
			Suggestions: []string{
				"Check your network connection",
				"Verify the AI provider configuration",
				"Try again in a moment",
			},
		}, nil
	}

	return g.parseResponse(response, maxTokens), nil
}

// parseResponse extracts code, explanation, suggestions and tests from the
// completion and scores confidence.
func (g *CodeGenerator) parseResponse(response *GenerationResponse, maxTokens int) *models.GeneratedCode {
	content := response.Content

	code := content
	if m := fencedBlock.FindStringSubmatch(content); m != nil {
		code = strings.TrimRight(m[1], "\n")
	}

	generated := &models.GeneratedCode{
		Code:        code,
		Explanation: explanationText(content),
		Confidence:  scoreConfidence(response, maxTokens),
		Suggestions: parseSuggestions(content),
		Tests:       parseTests(content),
		Metadata: &models.GenerationMetadata{
			Model:      response.Model,
			Source:     "ai",
			TokensUsed: response.TokensUsed,
		},
	}
	return generated
}

// scoreConfidence starts at 0.5, adds 0.3 for a clean stop and 0.2 when the
// completion used less than 80% of its token budget.
func scoreConfidence(response *GenerationResponse, maxTokens int) float64 {
	confidence := 0.5
	if response.FinishReason == "stop" {
		confidence += 0.3
	}
	if maxTokens > 0 && float64(response.TokensUsed) < 0.8*float64(maxTokens) {
		confidence += 0.2
	}
	if confidence > 1 {
		confidence = 1
	}
	return confidence
}

// explanationText is the completion minus its fenced code blocks.
func explanationText(content string) string {
	return strings.TrimSpace(fencedBlock.ReplaceAllString(content, ""))
}

// parseSuggestions reads a "Suggestions:"-prefixed comma list, if present.
func parseSuggestions(content string) []string {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "Suggestions:") {
			continue
		}
		rest := strings.TrimSpace(strings.TrimPrefix(trimmed, "Suggestions:"))
		if rest == "" {
			return nil
		}
		var suggestions []string
		for _, item := range strings.Split(rest, ",") {
			if item = strings.TrimSpace(item); item != "" {
				suggestions = append(suggestions, item)
			}
		}
		return suggestions
	}
	return nil
}

// parseTests reads the fenced block following a "Tests:" marker, if present.
func parseTests(content string) string {
	idx := strings.Index(content, "Tests:")
	if idx < 0 {
		return ""
	}
	if m := fencedBlock.FindStringSubmatch(content[idx:]); m != nil {
		return strings.TrimRight(m[1], "\n")
	}
	return ""
}

func buildSystemPrompt(request *models.CodeGenerationRequest, window *models.ContextWindow) string {
	var b strings.Builder
	b.WriteString("You are an expert ")
	if request.Language != "" {
		b.WriteString(request.Language + " ")
	}
	b.WriteString("developer. Generate clean, working code for the user's request.\n")
	b.WriteString("Reply with one fenced code block, then a short explanation.\n")

	if window == nil {
		return b.String()
	}
	if prefs := window.Context.UserPreferences; prefs != nil {
		if prefs.CodeStyle != "" {
			fmt.Fprintf(&b, "Preferred style: %s.\n", prefs.CodeStyle)
		}
		if prefs.CommentStyle != "" {
			fmt.Fprintf(&b, "Comment style: %s.\n", prefs.CommentStyle)
		}
		if prefs.TestingFramework != "" {
			fmt.Fprintf(&b, "Testing framework: %s.\n", prefs.TestingFramework)
		}
	}
	if window.History != nil && len(window.History.PreferredPatterns) > 0 {
		fmt.Fprintf(&b, "The user favors these patterns: %s.\n",
			strings.Join(window.History.PreferredPatterns, ", "))
	}
	if window.History != nil && len(window.History.CommonMistakes) > 0 {
		fmt.Fprintf(&b, "Avoid these recurring mistakes: %s.\n",
			strings.Join(window.History.CommonMistakes, ", "))
	}
	return b.String()
}

func buildUserPrompt(request *models.CodeGenerationRequest, window *models.ContextWindow) string {
	var b strings.Builder
	b.WriteString(request.Prompt)

	if request.Framework != "" {
		fmt.Fprintf(&b, "\n\nFramework: %s", request.Framework)
	}
	if window == nil {
		return b.String()
	}
	if window.Context.CurrentFile != "" {
		fmt.Fprintf(&b, "\n\nCurrent file: %s", window.Context.CurrentFile)
	}
	if window.Context.SurroundingCode != "" {
		fmt.Fprintf(&b, "\n\nSurrounding code:\n```\n%s\n```", window.Context.SurroundingCode)
	}
	if len(window.Context.RelatedFiles) > 0 {
		fmt.Fprintf(&b, "\n\nRelated files: %s", strings.Join(window.Context.RelatedFiles, ", "))
	}
	return b.String()
}
