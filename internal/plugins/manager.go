package plugins

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/yourusername/copilot-core/internal/parser"
	"github.com/yourusername/copilot-core/models"
)

// ErrPluginNotFound is returned when a required capability has no plugin.
var ErrPluginNotFound = errors.New("plugin not found")

// contentSignature scores a language by how many of its regex signatures
// match anywhere in the content. Table order resolves score ties: the first
// language with the (strictly highest) score wins.
type contentSignature struct {
	language string
	patterns []*regexp.Regexp
}

var contentSignatures = []contentSignature{
	{"typescript", []*regexp.Regexp{
		regexp.MustCompile(`\binterface\s+\w+`),
		regexp.MustCompile(`\btype\s+\w+\s*=`),
		regexp.MustCompile(`:\s*\w+(\[\])?\s*[;,)=]`),
	}},
	{"javascript", []*regexp.Regexp{
		regexp.MustCompile(`\bfunction\s+\w+`),
		regexp.MustCompile(`\bconst\s+\w+\s*=`),
		regexp.MustCompile(`\brequire\s*\(`),
	}},
	{"python", []*regexp.Regexp{
		regexp.MustCompile(`\bdef\s+\w+`),
		regexp.MustCompile(`(?m)^\s*class\s+\w+.*:`),
		regexp.MustCompile(`(?m)^\s*import\s+\w+`),
	}},
	{"java", []*regexp.Regexp{
		regexp.MustCompile(`\bpublic\s+class\s+\w+`),
		regexp.MustCompile(`\bSystem\.out\.print`),
		regexp.MustCompile(`(?m)^\s*package\s+[\w.]+;`),
	}},
	{"go", []*regexp.Regexp{
		regexp.MustCompile(`\bfunc\s+\w+`),
		regexp.MustCompile(`(?m)^\s*package\s+\w+$`),
		regexp.MustCompile(`\bimport\s+\(`),
	}},
}

// Manager is the plugin registry: one plugin per language key plus an
// extension-to-plugin secondary index. Registration happens at startup;
// per-request access is read-only.
type Manager struct {
	plugins     map[string]*LanguagePlugin
	byExtension map[string]*LanguagePlugin
	logger      *zap.Logger
	initialized bool
	mu          sync.RWMutex
}

// NewManager creates an empty registry.
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		plugins:     make(map[string]*LanguagePlugin),
		byExtension: make(map[string]*LanguagePlugin),
		logger:      logger,
	}
}

// Initialize registers the built-in plugins. A second call is a no-op.
func (m *Manager) Initialize() error {
	m.mu.Lock()
	if m.initialized {
		m.mu.Unlock()
		return nil
	}
	m.initialized = true
	m.mu.Unlock()

	builtins := []*LanguagePlugin{
		NewJavaScriptPlugin(m.logger),
		NewTypeScriptPlugin(m.logger),
		NewPythonPlugin(m.logger),
		NewJavaPlugin(m.logger),
		NewGoPlugin(m.logger),
	}
	for _, plugin := range builtins {
		if err := m.RegisterPlugin(plugin); err != nil {
			return fmt.Errorf("failed to register %s plugin: %w", plugin.Language, err)
		}
	}
	m.logger.Info("plugin manager initialized", zap.Int("plugins", len(builtins)))
	return nil
}

// RegisterPlugin initializes the plugin and adds it to both indices. A
// plugin registered for an existing language replaces the previous one.
func (m *Manager) RegisterPlugin(plugin *LanguagePlugin) error {
	if err := plugin.Initialize(); err != nil {
		return fmt.Errorf("plugin initialization failed for %s: %w", plugin.Language, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.plugins[plugin.Language] = plugin
	for _, ext := range plugin.Extensions {
		m.byExtension[strings.ToLower(ext)] = plugin
	}
	return nil
}

// UnregisterPlugin removes a language and its extensions from the registry.
func (m *Manager) UnregisterPlugin(language string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	plugin, ok := m.plugins[language]
	if !ok {
		return false
	}
	delete(m.plugins, language)
	for _, ext := range plugin.Extensions {
		delete(m.byExtension, strings.ToLower(ext))
	}
	return true
}

// GetPlugin returns the plugin registered for a language.
func (m *Manager) GetPlugin(language string) (*LanguagePlugin, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	plugin, ok := m.plugins[strings.ToLower(language)]
	return plugin, ok
}

// GetPluginByExtension returns the plugin handling a file extension
// (".ts" or "ts" both work).
func (m *Manager) GetPluginByExtension(ext string) (*LanguagePlugin, bool) {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	plugin, ok := m.byExtension[ext]
	return plugin, ok
}

// GetAllPlugins returns every registered plugin.
func (m *Manager) GetAllPlugins() []*LanguagePlugin {
	m.mu.RLock()
	defer m.mu.RUnlock()
	all := make([]*LanguagePlugin, 0, len(m.plugins))
	for _, plugin := range m.plugins {
		all = append(all, plugin)
	}
	return all
}

// GetSupportedLanguages returns the registered language keys.
func (m *Manager) GetSupportedLanguages() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	languages := make([]string, 0, len(m.plugins))
	for language := range m.plugins {
		languages = append(languages, language)
	}
	return languages
}

// GetSupportedExtensions returns the registered file extensions.
func (m *Manager) GetSupportedExtensions() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	extensions := make([]string, 0, len(m.byExtension))
	for ext := range m.byExtension {
		extensions = append(extensions, ext)
	}
	return extensions
}

// DetectLanguage identifies the language of a file, first by extension and,
// failing that, by inspecting content. Returns "" when undetectable.
func (m *Manager) DetectLanguage(filePath, content string) string {
	ext := strings.ToLower(filepath.Ext(filePath))
	if ext != "" {
		if plugin, ok := m.GetPluginByExtension(ext); ok {
			return plugin.Language
		}
	}
	if content == "" {
		return ""
	}
	return detectByContent(content)
}

// detectByContent checks the shebang first, then scores each language's
// signature set. Only a strictly highest score wins; all-zero means unknown.
func detectByContent(content string) string {
	if strings.HasPrefix(content, "#!") {
		firstLine := content
		if idx := strings.IndexByte(content, '\n'); idx >= 0 {
			firstLine = content[:idx]
		}
		if strings.Contains(firstLine, "python") {
			return "python"
		}
		if strings.Contains(firstLine, "node") {
			return "javascript"
		}
	}

	bestLanguage := ""
	bestScore := 0
	for _, sig := range contentSignatures {
		score := 0
		for _, pattern := range sig.patterns {
			if pattern.MatchString(content) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			bestLanguage = sig.language
		}
	}
	return bestLanguage
}

// ParseCode parses content with the language's plugin parser. A missing
// plugin or parser is a hard error.
func (m *Manager) ParseCode(language, content string) (*parser.Node, error) {
	plugin, ok := m.GetPlugin(language)
	if !ok || plugin.Parser == nil {
		return nil, fmt.Errorf("%w: no parser for language %q", ErrPluginNotFound, language)
	}
	return plugin.Parser.Parse(content)
}

// GenerateCode delegates to the plugin's generator. A missing generator is a
// hard error.
func (m *Manager) GenerateCode(language, prompt string) (string, error) {
	plugin, ok := m.GetPlugin(language)
	if !ok || plugin.Generator == nil {
		return "", fmt.Errorf("%w: no generator for language %q", ErrPluginNotFound, language)
	}
	return plugin.Generator.Generate(prompt)
}

// LintCode delegates to the plugin's linter, degrading to no findings when
// the capability is absent.
func (m *Manager) LintCode(language, code string) []models.CodeIssue {
	plugin, ok := m.GetPlugin(language)
	if !ok || plugin.Linter == nil {
		return nil
	}
	return plugin.Linter.Lint(code)
}

// FormatCode delegates to the plugin's formatter, returning the code
// unchanged when the capability is absent.
func (m *Manager) FormatCode(language, code string) string {
	plugin, ok := m.GetPlugin(language)
	if !ok || plugin.Formatter == nil {
		return code
	}
	return plugin.Formatter.Format(code)
}

// Shutdown clears both indices and resets the initialized flag. Safe to
// call repeatedly.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plugins = make(map[string]*LanguagePlugin)
	m.byExtension = make(map[string]*LanguagePlugin)
	m.initialized = false
}
