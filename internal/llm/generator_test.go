package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/copilot-core/models"
)

type fakeProvider struct {
	response *GenerationResponse
	err      error
	requests []*GenerationRequest
}

func (f *fakeProvider) Generate(_ context.Context, request *GenerationRequest) (*GenerationResponse, error) {
	f.requests = append(f.requests, request)
	if f.err != nil {
		return nil, f.err
	}
	return f.response, nil
}

func (f *fakeProvider) GetInfo() ProviderInfo { return ProviderInfo{Name: "fake"} }

func (f *fakeProvider) IsHealthy(context.Context) bool { return f.err == nil }

func TestGenerateParsesFencedBlock(t *testing.T) {
	provider := &fakeProvider{response: &GenerationResponse{
		Content:      "Here is the function:\n```javascript\nfunction add(a, b) {\n  return a + b;\n}\n```\nIt adds two numbers.",
		FinishReason: "stop",
		TokensUsed:   100,
		Model:        "gpt-4-turbo-preview",
	}}
	generator := NewCodeGenerator(provider, nil)

	got, err := generator.Generate(context.Background(), &models.CodeGenerationRequest{
		Prompt:    "create an add function",
		Language:  "javascript",
		MaxTokens: 1000,
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, "function add(a, b) {\n  return a + b;\n}", got.Code)
	assert.Contains(t, got.Explanation, "It adds two numbers.")
	assert.NotContains(t, got.Explanation, "function add")
	// 0.5 base + 0.3 stop + 0.2 under budget
	assert.InDelta(t, 1.0, got.Confidence, 1e-9)
	assert.Equal(t, "ai", got.Metadata.Source)
	assert.Equal(t, 100, got.Metadata.TokensUsed)
}

func TestGenerateWithoutFence(t *testing.T) {
	provider := &fakeProvider{response: &GenerationResponse{
		Content:      "const x = 1;",
		FinishReason: "length",
		TokensUsed:   950,
	}}
	generator := NewCodeGenerator(provider, nil)

	got, err := generator.Generate(context.Background(), &models.CodeGenerationRequest{
		Prompt:    "x",
		MaxTokens: 1000,
	}, nil)

	require.NoError(t, err)
	// no fence: the whole content is the code
	assert.Equal(t, "const x = 1;", got.Code)
	// truncated and near budget: base confidence only
	assert.InDelta(t, 0.5, got.Confidence, 1e-9)
}

func TestConfidenceScoring(t *testing.T) {
	tests := []struct {
		name         string
		finishReason string
		tokensUsed   int
		want         float64
	}{
		{"stop under budget", "stop", 100, 1.0},
		{"stop at budget", "stop", 900, 0.8},
		{"truncated under budget", "length", 100, 0.7},
		{"truncated at budget", "length", 900, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scoreConfidence(&GenerationResponse{
				FinishReason: tt.finishReason,
				TokensUsed:   tt.tokensUsed,
			}, 1000)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestGenerateProviderFailureIsSoft(t *testing.T) {
	provider := &fakeProvider{err: errors.New("connection refused")}
	generator := NewCodeGenerator(provider, nil)

	got, err := generator.Generate(context.Background(), &models.CodeGenerationRequest{
		Prompt: "create something",
	}, nil)

	require.NoError(t, err)
	assert.Empty(t, got.Code)
	assert.Zero(t, got.Confidence)
	assert.Contains(t, got.Explanation, "Failed to generate code")
	assert.NotEmpty(t, got.Suggestions)
}

func TestGenerateParsesSuggestionsAndTests(t *testing.T) {
	provider := &fakeProvider{response: &GenerationResponse{
		Content: "```go\nfunc Add(a, b int) int { return a + b }\n```\n" +
			"Suggestions: add overflow checks, document the behavior\n" +
			"Tests:\n```go\nfunc TestAdd(t *testing.T) {}\n```",
		FinishReason: "stop",
		TokensUsed:   50,
	}}
	generator := NewCodeGenerator(provider, nil)

	got, err := generator.Generate(context.Background(), &models.CodeGenerationRequest{
		Prompt:    "create add",
		MaxTokens: 1000,
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, "func Add(a, b int) int { return a + b }", got.Code)
	assert.Equal(t, []string{"add overflow checks", "document the behavior"}, got.Suggestions)
	assert.Equal(t, "func TestAdd(t *testing.T) {}", got.Tests)
}

func TestPromptIncludesContextWindow(t *testing.T) {
	provider := &fakeProvider{response: &GenerationResponse{Content: "x", FinishReason: "stop"}}
	generator := NewCodeGenerator(provider, nil)

	window := &models.ContextWindow{
		Context: models.CodeContext{
			CurrentFile:     "src/math.js",
			SurroundingCode: "function sub(a, b) { return a - b; }",
			RelatedFiles:    []string{"src/math_test.js"},
			UserPreferences: &models.UserPreferences{
				CodeStyle:        models.StyleFunctional,
				TestingFramework: "jest",
			},
		},
		History: &models.UserHistory{
			PreferredPatterns: []string{"early-return"},
			CommonMistakes:    []string{"mutating arguments"},
		},
	}

	_, err := generator.Generate(context.Background(), &models.CodeGenerationRequest{
		Prompt:   "create an add function",
		Language: "javascript",
	}, window)
	require.NoError(t, err)

	require.Len(t, provider.requests, 1)
	sent := provider.requests[0]
	assert.Contains(t, sent.SystemPrompt, "javascript")
	assert.Contains(t, sent.SystemPrompt, "functional")
	assert.Contains(t, sent.SystemPrompt, "jest")
	assert.Contains(t, sent.SystemPrompt, "early-return")
	assert.Contains(t, sent.SystemPrompt, "mutating arguments")

	user := sent.Messages[0].Content
	assert.Contains(t, user, "create an add function")
	assert.Contains(t, user, "src/math.js")
	assert.Contains(t, user, "function sub")
	assert.Contains(t, user, "src/math_test.js")
}
