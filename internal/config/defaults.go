package config

// qualityPresets maps each provider+quality combination to its chat model.
var qualityPresets = map[ProviderType]map[QualityTier]string{
	ProviderAnthropic: {
		QualityLite:   "claude-haiku-4-5-20251001",
		QualityNormal: "claude-sonnet-4-5-20250929",
		QualityMax:    "claude-sonnet-4-5-20250929",
	},
	ProviderOpenAI: {
		QualityLite:   "gpt-4o-mini",
		QualityNormal: "gpt-4o-mini",
		QualityMax:    "gpt-4o",
	},
	ProviderGoogle: {
		QualityLite:   "gemini-2.0-flash",
		QualityNormal: "gemini-2.0-flash",
		QualityMax:    "gemini-2.5-pro",
	},
	ProviderOllama: {
		QualityLite:   "llama3",
		QualityNormal: "llama3",
		QualityMax:    "llama3:70b",
	},
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider:     ProviderOpenAI,
		Model:        "gpt-4o-mini",
		Quality:      QualityNormal,
		RateLimitRPM: 0,
		LogLevel:     "info",
		Server: ServerConfig{
			Port:                  3000,
			AllowAllOrigins:       true,
			RequestTimeoutSeconds: 120,
		},
		Session: SessionConfig{
			TTLMinutes:           15,
			SweepIntervalMinutes: 5,
			HistoryLimit:         50,
		},
		Dialogue: DialogueConfig{
			OverrideThreshold:        0.8,
			WaitingBreakThreshold:    0.7,
			ClassifierTrustThreshold: 0.65,
		},
		Voice: VoiceConfig{
			Enabled:      true,
			DefaultVoice: "nova",
			MaxAudioMB:   25,
			MaxTTSChars:  4096,
		},
		PDF: PDFConfig{
			Headless:       true,
			TimeoutSeconds: 30,
		},
		Media: MediaConfig{
			VideoDir: "public",
		},
		Archive: ArchiveConfig{
			Driver:        ArchiveSQLite,
			Path:          ".ane/artifacts.db",
			RedisAddr:     "localhost:6379",
			RedisTTLHours: 24 * 30,
		},
	}
}

// GetPreset returns the chat model for the given provider and tier, or the
// normal OpenAI model for unknown combinations.
func GetPreset(provider ProviderType, tier QualityTier) string {
	if tiers, ok := qualityPresets[provider]; ok {
		if model, ok := tiers[tier]; ok {
			return model
		}
	}
	return qualityPresets[ProviderOpenAI][QualityNormal]
}
