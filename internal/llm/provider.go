// Package llm adapts chat-completion providers to the code generator. The
// provider contract is OpenAI-chat-shaped; any vendor integration adapts to
// it.
package llm

import (
	"context"
	"time"
)

// Provider is the contract every AI provider integration satisfies.
type Provider interface {
	// Generate performs one chat completion.
	Generate(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error)

	// GetInfo returns static provider information.
	GetInfo() ProviderInfo

	// IsHealthy reports whether the provider is reachable.
	IsHealthy(ctx context.Context) bool
}

// Message is a chat message.
type Message struct {
	Role    string `json:"role"` // "system", "user", "assistant"
	Content string `json:"content"`
}

// GenerationRequest is a provider-agnostic completion request.
type GenerationRequest struct {
	Messages     []Message     `json:"messages"`
	SystemPrompt string        `json:"system_prompt,omitempty"`
	Model        string        `json:"model,omitempty"`
	MaxTokens    int           `json:"max_tokens,omitempty"`
	Temperature  float64       `json:"temperature,omitempty"`
	Timeout      time.Duration `json:"timeout,omitempty"`
}

// GenerationResponse is the normalized completion result.
type GenerationResponse struct {
	Content      string        `json:"content"`
	FinishReason string        `json:"finish_reason"`
	TokensUsed   int           `json:"tokens_used"`
	Model        string        `json:"model"`
	Provider     string        `json:"provider"`
	Latency      time.Duration `json:"latency"`
	Timestamp    time.Time     `json:"timestamp"`
}

// ProviderInfo holds static information about a provider.
type ProviderInfo struct {
	Name      string   `json:"name"`
	Models    []string `json:"models"`
	MaxTokens int      `json:"max_tokens"`
}

// ProviderConfig holds configuration for one provider.
type ProviderConfig struct {
	APIKey      string        `json:"api_key" yaml:"api_key"`
	Model       string        `json:"model" yaml:"model"`
	MaxTokens   int           `json:"max_tokens" yaml:"max_tokens"`
	Temperature float64       `json:"temperature" yaml:"temperature"`
	Timeout     time.Duration `json:"timeout" yaml:"timeout"`
	BaseURL     string        `json:"base_url,omitempty" yaml:"base_url"`
	OrgID       string        `json:"org_id,omitempty" yaml:"org_id"`
}

// ProvidersConfig holds configuration for all providers plus fallback
// ordering.
type ProvidersConfig struct {
	Primary       string         `json:"primary" yaml:"primary"`
	FallbackOrder []string       `json:"fallback_order" yaml:"fallback_order"`
	OpenAI        ProviderConfig `json:"openai" yaml:"openai"`
}

// ProviderStats accumulates per-provider usage counters.
type ProviderStats struct {
	TotalRequests      int64         `json:"total_requests"`
	SuccessfulRequests int64         `json:"successful_requests"`
	FailedRequests     int64         `json:"failed_requests"`
	TotalTokens        int64         `json:"total_tokens"`
	AverageLatency     time.Duration `json:"average_latency"`
	LastUsed           time.Time     `json:"last_used"`
	LastError          string        `json:"last_error,omitempty"`
}
