// Package config resolves the application configuration.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/promptarena/arena/internal/adapter"
	"github.com/promptarena/arena/internal/domain"
)

const (
	defaultConfigName = "config"
	defaultConfigType = "yaml"
	envPrefix         = "ARENA"

	// backupEnvSuffix names the optional secondary credential for any
	// provider, e.g. GOOGLE_API_KEY_BACKUP. Every provider can opt into
	// retry-with-backup this way; none is special-cased.
	backupEnvSuffix = "_BACKUP"
)

// providerEnvVars maps each provider to the environment variables checked
// for its primary key, in priority order. CLAUDE_API_KEY is a legacy alias
// kept for existing .env files.
var providerEnvVars = map[domain.ProviderType][]string{
	domain.ProviderOpenAI:    {"OPENAI_API_KEY"},
	domain.ProviderAnthropic: {"ANTHROPIC_API_KEY", "CLAUDE_API_KEY"},
	domain.ProviderGoogle:    {"GOOGLE_API_KEY"},
	domain.ProviderMeta:      {"LLAMA_API_KEY"},
}

// providerOrder fixes batch result ordering.
var providerOrder = []domain.ProviderType{
	domain.ProviderOpenAI,
	domain.ProviderAnthropic,
	domain.ProviderGoogle,
	domain.ProviderMeta,
}

// Load resolves the configuration. Priority, highest to lowest:
//  1. Process environment (API keys, ARENA_-prefixed overrides)
//  2. .env file in the working directory
//  3. config.yaml (models, endpoints, server settings)
//  4. Built-in defaults
//
// API keys are only ever read from the environment or .env, never from
// the yaml file, so config files stay safe to commit.
func Load(configPath string) (*Configuration, error) {
	// .env values do not override an already-set process environment.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName(defaultConfigName)
	v.SetConfigType(defaultConfigType)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.promptarena")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, &ConfigError{
				Op:  "read",
				Err: fmt.Errorf("failed to read config file: %w", err),
			}
		}
		// No config file is fine; defaults plus env cover everything.
	}

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &ConfigError{
			Op:  "unmarshal",
			Err: fmt.Errorf("failed to unmarshal config: %w", err),
		}
	}

	cfg.Providers = loadProviders(v)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadProviders builds the ordered provider set, combining yaml/default
// model and endpoint settings with credentials from the environment.
func loadProviders(v *viper.Viper) []domain.ProviderConfig {
	providers := make([]domain.ProviderConfig, 0, len(providerOrder))

	for _, name := range providerOrder {
		key := "providers." + string(name)

		primary, backup := credentialsFromEnv(name)

		// A lone backup key serves as the primary; the retry slot stays empty.
		if primary == "" && backup != "" {
			primary, backup = backup, ""
		}

		providers = append(providers, domain.ProviderConfig{
			Name:       name,
			Model:      v.GetString(key + ".model"),
			BaseURL:    v.GetString(key + ".base_url"),
			Enabled:    v.GetBool(key + ".enabled"),
			PrimaryKey: primary,
			BackupKey:  backup,
		})
	}

	return providers
}

// credentialsFromEnv resolves the primary and backup keys for a provider.
// The backup is looked up as <primary var>_BACKUP on the first alias only.
func credentialsFromEnv(name domain.ProviderType) (primary, backup string) {
	envVars, ok := providerEnvVars[name]
	if !ok {
		return "", ""
	}

	for _, envVar := range envVars {
		if value := strings.TrimSpace(os.Getenv(envVar)); value != "" {
			primary = value
			break
		}
	}

	backup = strings.TrimSpace(os.Getenv(envVars[0] + backupEnvSuffix))
	return primary, backup
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout_seconds", 30)
	v.SetDefault("server.write_timeout_seconds", 150)
	v.SetDefault("server.shutdown_timeout_seconds", 15)

	// Request defaults
	v.SetDefault("request.max_tokens", adapter.DefaultMaxTokens)
	v.SetDefault("request.temperature", adapter.DefaultTemperature)
	v.SetDefault("request.call_timeout_seconds", 60)

	// Provider defaults
	v.SetDefault("providers.openai.model", adapter.DefaultOpenAIModel)
	v.SetDefault("providers.openai.base_url", adapter.DefaultOpenAIBaseURL)
	v.SetDefault("providers.openai.enabled", true)

	v.SetDefault("providers.anthropic.model", adapter.DefaultAnthropicModel)
	v.SetDefault("providers.anthropic.base_url", adapter.DefaultAnthropicBaseURL)
	v.SetDefault("providers.anthropic.enabled", true)

	v.SetDefault("providers.google.model", adapter.DefaultGeminiModel)
	v.SetDefault("providers.google.base_url", adapter.DefaultGeminiBaseURL)
	v.SetDefault("providers.google.enabled", true)

	v.SetDefault("providers.meta.model", adapter.DefaultLlamaModel)
	v.SetDefault("providers.meta.base_url", adapter.DefaultLlamaBaseURL)
	v.SetDefault("providers.meta.enabled", true)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
