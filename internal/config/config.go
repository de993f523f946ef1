package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      App      `mapstructure:"app"`
	AI       AI       `mapstructure:"ai"`
	Search   Search   `mapstructure:"search"`
	Pipeline Pipeline `mapstructure:"pipeline"`
}

// App holds general application configuration
type App struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// AI holds language-model configuration
type AI struct {
	Gemini GeminiConfig `mapstructure:"gemini"`
}

// GeminiConfig holds Google Gemini configuration
type GeminiConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	MaxTokens   int32   `mapstructure:"max_tokens"`
	Temperature float32 `mapstructure:"temperature"`
}

// Search holds search-service configuration
type Search struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Timeout string `mapstructure:"timeout"`
}

// Pipeline holds pipeline execution configuration
type Pipeline struct {
	MaxConcurrentRuns  int64 `mapstructure:"max_concurrent_runs"`
	PrimaryDelayMillis int   `mapstructure:"primary_delay_millis"`
	SecondaryDelayMs   int   `mapstructure:"secondary_delay_millis"`
}

var globalConfig *Config

// Load loads configuration from .env, an optional config file and the
// environment. The loaded config is cached for the life of the process.
func Load(configFile string) (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	// Load .env file if it exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			fmt.Printf("Warning: Error loading .env file: %v\n", err)
		}
	}

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
		viper.SetConfigName(".marketscout")
		viper.SetConfigType("yaml")
	}

	setDefaults()
	bindEnvironmentVariables()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	globalConfig = config
	return config, nil
}

// Get returns the global configuration, loading it if necessary
func Get() *Config {
	if globalConfig == nil {
		config, err := Load("")
		if err != nil {
			panic(fmt.Sprintf("Failed to load configuration: %v", err))
		}
		return config
	}
	return globalConfig
}

// Reset clears the cached configuration. Intended for tests.
func Reset() {
	globalConfig = nil
	viper.Reset()
}

func setDefaults() {
	viper.SetDefault("app.debug", false)
	viper.SetDefault("app.log_level", "info")

	viper.SetDefault("ai.gemini.model", "gemini-2.5-flash-preview-05-20")
	viper.SetDefault("ai.gemini.max_tokens", 4096)
	viper.SetDefault("ai.gemini.temperature", 0.3)

	viper.SetDefault("search.base_url", "https://api.tavily.com/search")
	viper.SetDefault("search.timeout", "30s")

	viper.SetDefault("pipeline.max_concurrent_runs", 3)
	viper.SetDefault("pipeline.primary_delay_millis", 1000)
	viper.SetDefault("pipeline.secondary_delay_millis", 800)
}

func bindEnvironmentVariables() {
	viper.BindEnv("ai.gemini.api_key", "GEMINI_API_KEY", "GOOGLE_GEMINI_API_KEY")
	viper.BindEnv("search.api_key", "TAVILY_API_KEY", "SEARCH_API_KEY")
	viper.BindEnv("app.log_level", "MARKETSCOUT_LOG_LEVEL")
}

func validateConfig(config *Config) error {
	if config.Pipeline.MaxConcurrentRuns < 1 {
		return fmt.Errorf("pipeline.max_concurrent_runs must be at least 1, got %d", config.Pipeline.MaxConcurrentRuns)
	}
	if config.Pipeline.PrimaryDelayMillis < 0 || config.Pipeline.SecondaryDelayMs < 0 {
		return fmt.Errorf("pipeline pacing delays must not be negative")
	}
	return nil
}
