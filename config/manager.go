package config

import (
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// ErrNotLoaded is returned by getters used before a successful Load.
var ErrNotLoaded = fmt.Errorf("config not loaded")

// Manager holds the live configuration. It is pure in-memory state plus
// validation; file persistence goes through the loader and Export/Import.
type Manager struct {
	config *Config
	logger *zap.Logger
	mu     sync.RWMutex
}

// NewManager creates an unloaded config manager.
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{logger: logger}
}

// Load reads configuration from defaults, environment and files.
func (m *Manager) Load() error {
	config, err := Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	m.mu.Lock()
	m.config = config
	m.mu.Unlock()

	m.logger.Info("configuration loaded",
		zap.String("provider", config.AI.Provider),
		zap.String("model", config.AI.Model))
	return nil
}

// Get returns the full configuration, erroring when nothing is loaded yet.
func (m *Manager) Get() (*Config, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return nil, ErrNotLoaded
	}
	return m.config, nil
}

// Set replaces the full configuration.
func (m *Manager) Set(config *Config) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.config = config
}

// AI returns the AI section.
func (m *Manager) AI() (AIConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return AIConfig{}, ErrNotLoaded
	}
	return m.config.AI, nil
}

// Templates returns the templates section.
func (m *Manager) Templates() (TemplatesConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return TemplatesConfig{}, ErrNotLoaded
	}
	return m.config.Templates, nil
}

// Context returns the context section.
func (m *Manager) Context() (ContextConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return ContextConfig{}, ErrNotLoaded
	}
	return m.config.Context, nil
}

// Plugins returns the plugins section.
func (m *Manager) Plugins() (PluginsConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return PluginsConfig{}, ErrNotLoaded
	}
	return m.config.Plugins, nil
}

// UI returns the UI section.
func (m *Manager) UI() (UIConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return UIConfig{}, ErrNotLoaded
	}
	return m.config.UI, nil
}

// SetAI replaces the AI section.
func (m *Manager) SetAI(section AIConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.config == nil {
		return ErrNotLoaded
	}
	m.config.AI = section
	return nil
}

// SetContext replaces the context section.
func (m *Manager) SetContext(section ContextConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.config == nil {
		return ErrNotLoaded
	}
	m.config.Context = section
	return nil
}

// SetTemplates replaces the templates section.
func (m *Manager) SetTemplates(section TemplatesConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.config == nil {
		return ErrNotLoaded
	}
	m.config.Templates = section
	return nil
}

// Validate checks the loaded configuration. Violations are logged and
// reported as false, never as an error.
func (m *Manager) Validate() bool {
	m.mu.RLock()
	config := m.config
	m.mu.RUnlock()

	if config == nil {
		m.logger.Warn("config validation failed", zap.String("reason", "not loaded"))
		return false
	}

	valid := true
	fail := func(reason string) {
		m.logger.Warn("config validation failed", zap.String("reason", reason))
		valid = false
	}

	if config.AI.Provider == "" {
		fail("ai.provider is empty")
	}
	if config.AI.Model == "" {
		fail("ai.model is empty")
	}
	if config.AI.MaxTokens <= 0 {
		fail("ai.max_tokens must be positive")
	}
	if config.AI.Temperature < 0 || config.AI.Temperature > 2 {
		fail("ai.temperature must be within [0, 2]")
	}
	if config.Templates.Path == "" {
		fail("templates.path is empty")
	}
	if config.Context.MaxFiles <= 0 {
		fail("context.max_files must be positive")
	}
	if config.Context.MaxFileSize <= 0 {
		fail("context.max_file_size must be positive")
	}
	return valid
}

// ResetToDefaults replaces the configuration with built-in defaults.
func (m *Manager) ResetToDefaults() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.config = Defaults()
}

// Export serializes the configuration to JSON.
func (m *Manager) Export() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return "", ErrNotLoaded
	}
	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to export config: %w", err)
	}
	return string(data), nil
}

// Import replaces the configuration from JSON.
func (m *Manager) Import(data string) error {
	var config Config
	if err := json.Unmarshal([]byte(data), &config); err != nil {
		return fmt.Errorf("failed to import config: %w", err)
	}

	m.mu.Lock()
	m.config = &config
	m.mu.Unlock()
	return nil
}
