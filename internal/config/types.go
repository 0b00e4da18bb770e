package config

// QualityTier trades reply quality against latency and cost.
type QualityTier string

const (
	QualityLite   QualityTier = "lite"
	QualityNormal QualityTier = "normal"
	QualityMax    QualityTier = "max"
)

// ProviderType identifies an LLM provider.
type ProviderType string

const (
	ProviderAnthropic ProviderType = "anthropic"
	ProviderOpenAI    ProviderType = "openai"
	ProviderGoogle    ProviderType = "google"
	ProviderOllama    ProviderType = "ollama"
)

// ArchiveDriver selects where generated artifacts are archived.
type ArchiveDriver string

const (
	ArchiveMemory ArchiveDriver = "memory"
	ArchiveSQLite ArchiveDriver = "sqlite"
	ArchiveRedis  ArchiveDriver = "redis"
)

// Config is the top-level configuration, corresponding to .ane.yml.
type Config struct {
	Provider     ProviderType   `yaml:"provider" koanf:"provider"`
	Model        string         `yaml:"model" koanf:"model"`
	Quality      QualityTier    `yaml:"quality" koanf:"quality"`
	RateLimitRPM int            `yaml:"rate_limit_rpm" koanf:"rate_limit_rpm"`
	LogLevel     string         `yaml:"log_level" koanf:"log_level"`
	Server       ServerConfig   `yaml:"server" koanf:"server"`
	Session      SessionConfig  `yaml:"session" koanf:"session"`
	Dialogue     DialogueConfig `yaml:"dialogue" koanf:"dialogue"`
	Voice        VoiceConfig    `yaml:"voice" koanf:"voice"`
	PDF          PDFConfig      `yaml:"pdf" koanf:"pdf"`
	Media        MediaConfig    `yaml:"media" koanf:"media"`
	Archive      ArchiveConfig  `yaml:"archive" koanf:"archive"`
}

// ServerConfig holds HTTP settings.
type ServerConfig struct {
	Port                  int  `yaml:"port" koanf:"port"`
	AllowAllOrigins       bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	RequestTimeoutSeconds int  `yaml:"request_timeout_seconds" koanf:"request_timeout_seconds"`
}

// SessionConfig controls conversation retention.
type SessionConfig struct {
	TTLMinutes           int `yaml:"ttl_minutes" koanf:"ttl_minutes"`
	SweepIntervalMinutes int `yaml:"sweep_interval_minutes" koanf:"sweep_interval_minutes"`
	HistoryLimit         int `yaml:"history_limit" koanf:"history_limit"`
}

// DialogueConfig holds the intent resolution thresholds.
type DialogueConfig struct {
	OverrideThreshold        float64 `yaml:"override_threshold" koanf:"override_threshold"`
	WaitingBreakThreshold    float64 `yaml:"waiting_break_threshold" koanf:"waiting_break_threshold"`
	ClassifierTrustThreshold float64 `yaml:"classifier_trust_threshold" koanf:"classifier_trust_threshold"`
}

// VoiceConfig holds speech limits.
type VoiceConfig struct {
	Enabled      bool   `yaml:"enabled" koanf:"enabled"`
	DefaultVoice string `yaml:"default_voice" koanf:"default_voice"`
	MaxAudioMB   int    `yaml:"max_audio_mb" koanf:"max_audio_mb"`
	MaxTTSChars  int    `yaml:"max_tts_chars" koanf:"max_tts_chars"`
}

// PDFConfig configures the headless Chrome renderer.
type PDFConfig struct {
	ChromeBin      string `yaml:"chrome_bin" koanf:"chrome_bin"`
	Headless       bool   `yaml:"headless" koanf:"headless"`
	TimeoutSeconds int    `yaml:"timeout_seconds" koanf:"timeout_seconds"`
}

// MediaConfig points at the static clips.
type MediaConfig struct {
	VideoDir string `yaml:"video_dir" koanf:"video_dir"`
}

// ArchiveConfig selects and configures the artifact archive.
type ArchiveConfig struct {
	Driver        ArchiveDriver `yaml:"driver" koanf:"driver"`
	Path          string        `yaml:"path" koanf:"path"`
	RedisAddr     string        `yaml:"redis_addr" koanf:"redis_addr"`
	RedisTTLHours int           `yaml:"redis_ttl_hours" koanf:"redis_ttl_hours"`
}
