package llm

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	defaultTimeout          = 30 * time.Second
	circuitBreakerThreshold = 5
	circuitBreakerCooldown  = time.Minute
)

// circuitBreaker trips after consecutive failures and re-closes after a
// cooldown.
type circuitBreaker struct {
	failures  int
	openUntil time.Time
}

func (cb *circuitBreaker) closed(now time.Time) bool {
	return now.After(cb.openUntil)
}

func (cb *circuitBreaker) record(ok bool, now time.Time) {
	if ok {
		cb.failures = 0
		return
	}
	cb.failures++
	if cb.failures >= circuitBreakerThreshold {
		cb.openUntil = now.Add(circuitBreakerCooldown)
		cb.failures = 0
	}
}

// Manager fans requests out to the primary provider, falling back down the
// configured order when it fails.
type Manager struct {
	providers map[string]Provider
	primary   string
	fallback  []string
	stats     map[string]*ProviderStats
	breakers  map[string]*circuitBreaker
	logger    *zap.Logger
	mu        sync.RWMutex
}

// NewManager creates a manager from configured providers. The primary
// provider must be available.
func NewManager(config ProvidersConfig, logger *zap.Logger) (*Manager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		providers: make(map[string]Provider),
		primary:   config.Primary,
		fallback:  config.FallbackOrder,
		stats:     make(map[string]*ProviderStats),
		breakers:  make(map[string]*circuitBreaker),
		logger:    logger,
	}

	if config.OpenAI.APIKey != "" || config.Primary == "openai" {
		provider, err := NewOpenAIProvider(config.OpenAI)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize OpenAI provider: %w", err)
		}
		m.register("openai", provider)
	}

	if _, ok := m.providers[m.primary]; !ok {
		return nil, fmt.Errorf("primary provider %q not available", m.primary)
	}
	return m, nil
}

// NewManagerWithProviders builds a manager over pre-constructed providers,
// mainly for tests and custom integrations.
func NewManagerWithProviders(primary string, providers map[string]Provider, fallback []string, logger *zap.Logger) (*Manager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		providers: make(map[string]Provider),
		primary:   primary,
		fallback:  fallback,
		stats:     make(map[string]*ProviderStats),
		breakers:  make(map[string]*circuitBreaker),
		logger:    logger,
	}
	for name, provider := range providers {
		m.register(name, provider)
	}
	if _, ok := m.providers[m.primary]; !ok {
		return nil, fmt.Errorf("primary provider %q not available", m.primary)
	}
	return m, nil
}

func (m *Manager) register(name string, provider Provider) {
	m.providers[name] = provider
	m.stats[name] = &ProviderStats{}
	m.breakers[name] = &circuitBreaker{}
}

// Generate runs the request against the primary provider, then the fallback
// order.
func (m *Manager) Generate(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error) {
	response, primaryErr := m.generateWith(ctx, m.primary, request)
	if primaryErr == nil {
		return response, nil
	}
	m.logger.Warn("primary provider failed",
		zap.String("provider", m.primary), zap.Error(primaryErr))

	for _, name := range m.fallback {
		if name == m.primary {
			continue
		}
		response, err := m.generateWith(ctx, name, request)
		if err == nil {
			return response, nil
		}
		m.logger.Warn("fallback provider failed",
			zap.String("provider", name), zap.Error(err))
	}

	return nil, fmt.Errorf("all providers failed, primary error: %w", primaryErr)
}

func (m *Manager) generateWith(ctx context.Context, name string, request *GenerationRequest) (*GenerationResponse, error) {
	m.mu.RLock()
	provider, ok := m.providers[name]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("provider not found: %s", name)
	}

	m.mu.Lock()
	if !m.breakers[name].closed(time.Now()) {
		m.mu.Unlock()
		return nil, fmt.Errorf("circuit breaker open for provider: %s", name)
	}
	m.mu.Unlock()

	if request.Timeout == 0 {
		request.Timeout = defaultTimeout
	}

	startTime := time.Now()
	response, err := provider.Generate(ctx, request)
	m.recordResult(name, response, err, time.Since(startTime))
	return response, err
}

func (m *Manager) recordResult(name string, response *GenerationResponse, err error, latency time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := m.stats[name]
	stats.TotalRequests++
	stats.LastUsed = time.Now()
	if err != nil {
		stats.FailedRequests++
		stats.LastError = err.Error()
	} else {
		stats.SuccessfulRequests++
		stats.TotalTokens += int64(response.TokensUsed)
	}
	if stats.TotalRequests > 0 {
		total := time.Duration(stats.TotalRequests-1)*stats.AverageLatency + latency
		stats.AverageLatency = total / time.Duration(stats.TotalRequests)
	}
	m.breakers[name].record(err == nil, time.Now())
}

// Stats returns a snapshot of per-provider counters.
func (m *Manager) Stats() map[string]ProviderStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]ProviderStats, len(m.stats))
	for name, stats := range m.stats {
		out[name] = *stats
	}
	return out
}

// Providers lists the registered provider names.
func (m *Manager) Providers() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.providers))
	for name := range m.providers {
		names = append(names, name)
	}
	return names
}
