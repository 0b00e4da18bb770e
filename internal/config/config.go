package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// DefaultPath is where `ane init` writes the configuration.
const DefaultPath = ".ane.yml"

// EnvPrefix marks environment overrides. A double underscore descends into a
// section: ANE_SERVER__PORT sets server.port.
const EnvPrefix = "ANE_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (ANE_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validProviders = map[ProviderType]bool{
	ProviderAnthropic: true,
	ProviderOpenAI:    true,
	ProviderGoogle:    true,
	ProviderOllama:    true,
}

var validQualityTiers = map[QualityTier]bool{
	QualityLite:   true,
	QualityNormal: true,
	QualityMax:    true,
}

var validArchiveDrivers = map[ArchiveDriver]bool{
	ArchiveMemory: true,
	ArchiveSQLite: true,
	ArchiveRedis:  true,
}

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	if !validProviders[c.Provider] {
		return fmt.Errorf("invalid provider %q: must be one of anthropic, openai, google, ollama", c.Provider)
	}
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.Quality != "" && !validQualityTiers[c.Quality] {
		return fmt.Errorf("invalid quality %q: must be one of lite, normal, max", c.Quality)
	}
	if c.RateLimitRPM < 0 {
		return fmt.Errorf("rate_limit_rpm must be non-negative")
	}
	if c.LogLevel != "" && !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q: must be one of debug, info, warn, error", c.LogLevel)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Session.TTLMinutes <= 0 || c.Session.SweepIntervalMinutes <= 0 {
		return fmt.Errorf("session.ttl_minutes and session.sweep_interval_minutes must be positive")
	}
	if c.Session.HistoryLimit <= 0 {
		return fmt.Errorf("session.history_limit must be positive")
	}

	for name, v := range map[string]float64{
		"dialogue.override_threshold":         c.Dialogue.OverrideThreshold,
		"dialogue.waiting_break_threshold":    c.Dialogue.WaitingBreakThreshold,
		"dialogue.classifier_trust_threshold": c.Dialogue.ClassifierTrustThreshold,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be between 0 and 1, got %v", name, v)
		}
	}

	if c.Voice.MaxAudioMB <= 0 || c.Voice.MaxAudioMB > 25 {
		return fmt.Errorf("voice.max_audio_mb must be between 1 and 25")
	}
	if c.Voice.MaxTTSChars <= 0 || c.Voice.MaxTTSChars > 4096 {
		return fmt.Errorf("voice.max_tts_chars must be between 1 and 4096")
	}

	if !validArchiveDrivers[c.Archive.Driver] {
		return fmt.Errorf("invalid archive.driver %q: must be one of memory, sqlite, redis", c.Archive.Driver)
	}
	if c.Archive.Driver == ArchiveSQLite && c.Archive.Path == "" {
		return fmt.Errorf("archive.path is required for the sqlite driver")
	}
	if c.Archive.Driver == ArchiveRedis && c.Archive.RedisAddr == "" {
		return fmt.Errorf("archive.redis_addr is required for the redis driver")
	}

	return nil
}

// APIKeyEnvVar returns the conventional environment variable name for
// the API key of the given provider.
func APIKeyEnvVar(provider ProviderType) string {
	switch provider {
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderGoogle:
		return "GOOGLE_API_KEY"
	default:
		return ""
	}
}
