package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Provider != ProviderOpenAI {
		t.Errorf("expected default provider %q, got %q", ProviderOpenAI, cfg.Provider)
	}
	if cfg.Session.TTLMinutes != 15 || cfg.Session.SweepIntervalMinutes != 5 || cfg.Session.HistoryLimit != 50 {
		t.Errorf("unexpected session defaults: %+v", cfg.Session)
	}
	if cfg.Dialogue.OverrideThreshold != 0.8 || cfg.Dialogue.WaitingBreakThreshold != 0.7 {
		t.Errorf("unexpected dialogue defaults: %+v", cfg.Dialogue)
	}
	if cfg.Voice.MaxAudioMB != 25 || cfg.Voice.MaxTTSChars != 4096 || cfg.Voice.DefaultVoice != "nova" {
		t.Errorf("unexpected voice defaults: %+v", cfg.Voice)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.ane.yml")

	original := DefaultConfig()
	original.Provider = ProviderGoogle
	original.Model = "gemini-2.0-flash"
	original.Server.Port = 8080
	original.Dialogue.OverrideThreshold = 0.9
	original.Archive.Driver = ArchiveRedis
	original.Archive.RedisAddr = "redis:6379"

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Provider != original.Provider {
		t.Errorf("provider: got %q, want %q", loaded.Provider, original.Provider)
	}
	if loaded.Model != original.Model {
		t.Errorf("model: got %q, want %q", loaded.Model, original.Model)
	}
	if loaded.Server.Port != 8080 {
		t.Errorf("server.port: got %d", loaded.Server.Port)
	}
	if loaded.Dialogue.OverrideThreshold != 0.9 {
		t.Errorf("dialogue.override_threshold: got %v", loaded.Dialogue.OverrideThreshold)
	}
	if loaded.Archive.Driver != ArchiveRedis || loaded.Archive.RedisAddr != "redis:6379" {
		t.Errorf("archive: got %+v", loaded.Archive)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yml"))
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.Provider != ProviderOpenAI {
		t.Errorf("expected default provider, got %q", cfg.Provider)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.yml")
	if err := DefaultConfig().Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Setenv("ANE_PROVIDER", "anthropic")
	t.Setenv("ANE_SERVER__PORT", "9090")
	t.Setenv("ANE_ARCHIVE__DRIVER", "memory")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Provider != ProviderAnthropic {
		t.Errorf("env override failed: got %q", loaded.Provider)
	}
	if loaded.Server.Port != 9090 {
		t.Errorf("nested env override failed: got %d", loaded.Server.Port)
	}
	if loaded.Archive.Driver != ArchiveMemory {
		t.Errorf("archive driver: got %q", loaded.Archive.Driver)
	}
	if loaded.Session.TTLMinutes != 15 {
		t.Errorf("untouched fields must keep their value, ttl = %d", loaded.Session.TTLMinutes)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"empty provider", func(c *Config) { c.Provider = "" }, true},
		{"unknown provider", func(c *Config) { c.Provider = "minimax" }, true},
		{"empty model", func(c *Config) { c.Model = "" }, true},
		{"bad quality", func(c *Config) { c.Quality = "ultra" }, true},
		{"negative rpm", func(c *Config) { c.RateLimitRPM = -1 }, true},
		{"bad log level", func(c *Config) { c.LogLevel = "trace" }, true},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }, true},
		{"zero ttl", func(c *Config) { c.Session.TTLMinutes = 0 }, true},
		{"threshold above one", func(c *Config) { c.Dialogue.OverrideThreshold = 1.2 }, true},
		{"audio above api limit", func(c *Config) { c.Voice.MaxAudioMB = 26 }, true},
		{"tts above api limit", func(c *Config) { c.Voice.MaxTTSChars = 5000 }, true},
		{"unknown archive", func(c *Config) { c.Archive.Driver = "s3" }, true},
		{"sqlite without path", func(c *Config) { c.Archive.Path = "" }, true},
		{"redis without addr", func(c *Config) { c.Archive.Driver = ArchiveRedis; c.Archive.RedisAddr = "" }, true},
		{"memory archive", func(c *Config) { c.Archive.Driver = ArchiveMemory; c.Archive.Path = "" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetPreset(t *testing.T) {
	if got := GetPreset(ProviderAnthropic, QualityLite); got != "claude-haiku-4-5-20251001" {
		t.Errorf("expected haiku model, got %q", got)
	}
	if got := GetPreset(ProviderOpenAI, QualityMax); got != "gpt-4o" {
		t.Errorf("expected gpt-4o, got %q", got)
	}
	if got := GetPreset("unknown", QualityLite); got != "gpt-4o-mini" {
		t.Errorf("expected fallback to gpt-4o-mini, got %q", got)
	}
}

func TestAPIKeyEnvVar(t *testing.T) {
	tests := []struct {
		provider ProviderType
		want     string
	}{
		{ProviderAnthropic, "ANTHROPIC_API_KEY"},
		{ProviderOpenAI, "OPENAI_API_KEY"},
		{ProviderGoogle, "GOOGLE_API_KEY"},
		{ProviderOllama, ""},
	}
	for _, tt := range tests {
		if got := APIKeyEnvVar(tt.provider); got != tt.want {
			t.Errorf("APIKeyEnvVar(%q) = %q, want %q", tt.provider, got, tt.want)
		}
	}
}

func TestValidatePort(t *testing.T) {
	for _, s := range []string{"0", "abc", "65536"} {
		if validatePort(s) == nil {
			t.Errorf("validatePort(%q) should fail", s)
		}
	}
	if err := validatePort("3000"); err != nil {
		t.Errorf("validatePort(3000): %v", err)
	}
}
