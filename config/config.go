// Package config defines the application configuration, loads it through
// viper, and manages it at runtime behind ConfigManager.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/yourusername/copilot-core/internal/llm"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app" json:"app"`
	AI        AIConfig        `mapstructure:"ai" json:"ai"`
	Templates TemplatesConfig `mapstructure:"templates" json:"templates"`
	Context   ContextConfig   `mapstructure:"context" json:"context"`
	Plugins   PluginsConfig   `mapstructure:"plugins" json:"plugins"`
	UI        UIConfig        `mapstructure:"ui" json:"ui"`
	Storage   StorageConfig   `mapstructure:"storage" json:"storage"`
	Logging   LoggingConfig   `mapstructure:"logging" json:"logging"`
}

// AppConfig holds application settings.
type AppConfig struct {
	Name        string   `mapstructure:"name" json:"name"`
	Version     string   `mapstructure:"version" json:"version"`
	ProjectRoot string   `mapstructure:"project_root" json:"project_root"`
	Extensions  []string `mapstructure:"extensions" json:"extensions"`
	ExcludeDirs []string `mapstructure:"exclude_dirs" json:"exclude_dirs"`
}

// AIConfig holds AI provider settings.
type AIConfig struct {
	Provider      string             `mapstructure:"provider" json:"provider"`
	Model         string             `mapstructure:"model" json:"model"`
	MaxTokens     int                `mapstructure:"max_tokens" json:"max_tokens"`
	Temperature   float64            `mapstructure:"temperature" json:"temperature"`
	Timeout       time.Duration      `mapstructure:"timeout" json:"timeout"`
	FallbackOrder []string           `mapstructure:"fallback_order" json:"fallback_order"`
	OpenAI        llm.ProviderConfig `mapstructure:"openai" json:"openai"`
}

// TemplatesConfig holds template engine settings.
type TemplatesConfig struct {
	Path          string `mapstructure:"path" json:"path"`
	PreloadSeeds  bool   `mapstructure:"preload_seeds" json:"preload_seeds"`
	CustomEnabled bool   `mapstructure:"custom_enabled" json:"custom_enabled"`
}

// ContextConfig holds context manager settings.
type ContextConfig struct {
	MaxFiles     int           `mapstructure:"max_files" json:"max_files"`
	MaxFileSize  int64         `mapstructure:"max_file_size" json:"max_file_size"`
	CacheTTL     time.Duration `mapstructure:"cache_ttl" json:"cache_ttl"`
	CacheMaxSize int           `mapstructure:"cache_max_size" json:"cache_max_size"`
}

// PluginsConfig holds language plugin settings.
type PluginsConfig struct {
	Enabled  []string `mapstructure:"enabled" json:"enabled"`
	Disabled []string `mapstructure:"disabled" json:"disabled"`
}

// UIConfig holds interactive CLI settings.
type UIConfig struct {
	Color        bool   `mapstructure:"color" json:"color"`
	ProgressBars bool   `mapstructure:"progress_bars" json:"progress_bars"`
	Prompt       string `mapstructure:"prompt" json:"prompt"`
}

// StorageConfig holds persistence settings.
type StorageConfig struct {
	DatabasePath string `mapstructure:"database_path" json:"database_path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `mapstructure:"level" json:"level"`
}

// Load reads configuration from defaults, environment and an optional
// config.yaml.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvPrefix("COPILOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		v.Set("ai.openai.api_key", apiKey)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// no config file is fine, defaults apply
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "copilot-core")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.project_root", ".")
	v.SetDefault("app.extensions", []string{".js", ".jsx", ".ts", ".tsx", ".py", ".java", ".go"})
	v.SetDefault("app.exclude_dirs", []string{"vendor", "node_modules", ".git", "dist", "build"})

	v.SetDefault("ai.provider", "openai")
	v.SetDefault("ai.model", "gpt-4-turbo-preview")
	v.SetDefault("ai.max_tokens", 2048)
	v.SetDefault("ai.temperature", 0.2)
	v.SetDefault("ai.timeout", 30*time.Second)
	v.SetDefault("ai.fallback_order", []string{})
	v.SetDefault("ai.openai.model", "gpt-4-turbo-preview")
	v.SetDefault("ai.openai.max_tokens", 2048)
	v.SetDefault("ai.openai.temperature", 0.2)

	v.SetDefault("templates.path", "templates")
	v.SetDefault("templates.preload_seeds", true)
	v.SetDefault("templates.custom_enabled", true)

	v.SetDefault("context.max_files", 100)
	v.SetDefault("context.max_file_size", int64(1024*1024))
	v.SetDefault("context.cache_ttl", 5*time.Minute)
	v.SetDefault("context.cache_max_size", 1000)

	v.SetDefault("plugins.enabled", []string{"javascript", "typescript", "python", "java", "go"})
	v.SetDefault("plugins.disabled", []string{})

	v.SetDefault("ui.color", true)
	v.SetDefault("ui.progress_bars", true)
	v.SetDefault("ui.prompt", "copilot> ")

	v.SetDefault("storage.database_path", "storage/copilot.db")

	v.SetDefault("logging.level", "info")
}

// Defaults returns the built-in configuration without touching environment
// or files.
func Defaults() *Config {
	v := viper.New()
	setDefaults(v)

	var config Config
	// defaults always unmarshal cleanly
	_ = v.Unmarshal(&config)
	return &config
}
