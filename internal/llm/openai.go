package llm

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements Provider on the OpenAI chat completions API.
type OpenAIProvider struct {
	client *openai.Client
	config ProviderConfig
}

// NewOpenAIProvider creates an OpenAI provider. The API key falls back to
// the OPENAI_API_KEY environment variable.
func NewOpenAIProvider(config ProviderConfig) (*OpenAIProvider, error) {
	apiKey := config.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key not provided")
	}

	if config.Model == "" {
		config.Model = openai.GPT4TurboPreview
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = 2048
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	if config.OrgID != "" {
		clientConfig.OrgID = config.OrgID
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Generate performs one chat completion against OpenAI.
func (p *OpenAIProvider) Generate(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error) {
	startTime := time.Now()

	timeout := request.Timeout
	if timeout == 0 {
		timeout = p.config.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	messages := p.convertMessages(request.Messages)
	if request.SystemPrompt != "" {
		systemMsg := openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: request.SystemPrompt,
		}
		messages = append([]openai.ChatCompletionMessage{systemMsg}, messages...)
	}

	response, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model(request.Model),
		Messages:    messages,
		MaxTokens:   p.maxTokens(request.MaxTokens),
		Temperature: p.temperature(request.Temperature),
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI API call failed: %w", err)
	}
	if len(response.Choices) == 0 {
		return nil, fmt.Errorf("no choices returned from OpenAI")
	}

	choice := response.Choices[0]
	return &GenerationResponse{
		Content:      choice.Message.Content,
		FinishReason: string(choice.FinishReason),
		TokensUsed:   response.Usage.TotalTokens,
		Model:        response.Model,
		Provider:     "openai",
		Latency:      time.Since(startTime),
		Timestamp:    time.Now(),
	}, nil
}

// GetInfo returns static provider information.
func (p *OpenAIProvider) GetInfo() ProviderInfo {
	return ProviderInfo{
		Name:      "openai",
		Models:    []string{openai.GPT4TurboPreview, openai.GPT4, openai.GPT3Dot5Turbo},
		MaxTokens: p.config.MaxTokens,
	}
}

// IsHealthy checks reachability with a model listing call.
func (p *OpenAIProvider) IsHealthy(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := p.client.ListModels(ctx)
	return err == nil
}

func (p *OpenAIProvider) convertMessages(messages []Message) []openai.ChatCompletionMessage {
	converted := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		converted = append(converted, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}
	return converted
}

func (p *OpenAIProvider) model(override string) string {
	if override != "" {
		return override
	}
	return p.config.Model
}

func (p *OpenAIProvider) maxTokens(override int) int {
	if override > 0 {
		return override
	}
	return p.config.MaxTokens
}

func (p *OpenAIProvider) temperature(override float64) float32 {
	if override > 0 {
		return float32(override)
	}
	return float32(p.config.Temperature)
}
