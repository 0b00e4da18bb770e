package cmd

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/felipe-codebit/prototipo-zap/internal/archive"
	"github.com/felipe-codebit/prototipo-zap/internal/config"
	"github.com/felipe-codebit/prototipo-zap/internal/db"
	"github.com/felipe-codebit/prototipo-zap/internal/dialogue"
	"github.com/felipe-codebit/prototipo-zap/internal/llm"
	"github.com/felipe-codebit/prototipo-zap/internal/logging"
	"github.com/felipe-codebit/prototipo-zap/internal/oracle"
	"github.com/felipe-codebit/prototipo-zap/internal/session"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `ane init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newLogger honours --verbose over the configured level. quiet keeps the
// terminal clean for interactive commands.
func newLogger(cfg *config.Config, quiet bool) (*logging.Logger, error) {
	level := cfg.LogLevel
	switch {
	case verbose:
		level = "debug"
	case quiet:
		level = "error"
	}
	return logging.New(level, verbose)
}

// createLLMProviderFromConfig creates the chat provider, rate limited when
// rate_limit_rpm is set.
func createLLMProviderFromConfig(cfg *config.Config) (llm.Provider, error) {
	provider, err := llm.NewProvider(string(cfg.Provider), cfg.Model)
	if err != nil {
		return nil, err
	}
	if cfg.RateLimitRPM > 0 {
		provider = llm.NewRateLimitedProvider(provider, cfg.RateLimitRPM)
	}
	return provider, nil
}

// openArchive returns the configured artifact archive and a closer for
// everything it opened.
func openArchive(cfg config.ArchiveConfig) (archive.Archive, func(), error) {
	switch cfg.Driver {
	case config.ArchiveSQLite:
		database, err := db.Open(cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("opening database: %w", err)
		}
		a, err := archive.NewArchive(archive.StoreTypeSQLite, archive.WithDB(database))
		if err != nil {
			database.Close()
			return nil, nil, err
		}
		return a, func() { a.Close(); database.Close() }, nil

	case config.ArchiveRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		a, err := archive.NewArchive(archive.StoreTypeRedis,
			archive.WithRedisClient(client),
			archive.WithRedisTTL(time.Duration(cfg.RedisTTLHours)*time.Hour),
		)
		if err != nil {
			client.Close()
			return nil, nil, err
		}
		return a, func() { a.Close() }, nil

	default:
		a, err := archive.NewArchive(archive.StoreTypeMemory)
		if err != nil {
			return nil, nil, err
		}
		return a, func() { a.Close() }, nil
	}
}

// assistant is everything a command needs to hold a conversation.
type assistant struct {
	store      *session.Store
	controller *dialogue.Controller
	close      func()
}

func buildAssistant(cfg *config.Config, log *zap.Logger) (*assistant, error) {
	provider, err := createLLMProviderFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating LLM provider: %w", err)
	}

	arch, closeArchive, err := openArchive(cfg.Archive)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}

	store := session.NewStore(
		session.WithHistoryLimit(cfg.Session.HistoryLimit),
		session.WithLogger(log),
	)

	classifier := oracle.NewClassifier(provider, cfg.Model,
		oracle.WithTrustThreshold(cfg.Dialogue.ClassifierTrustThreshold),
		oracle.WithClassifierLogger(log),
	)
	extractor := oracle.NewExtractor(provider, cfg.Model, log)
	generator := oracle.NewGenerator(provider, cfg.Model, log)

	controller := dialogue.New(store, classifier, extractor, generator,
		dialogue.WithArtifactStore(arch),
		dialogue.WithThresholds(dialogue.Thresholds{
			Override:     cfg.Dialogue.OverrideThreshold,
			WaitingBreak: cfg.Dialogue.WaitingBreakThreshold,
		}),
		dialogue.WithLogger(log),
	)

	log.Info("assistant ready",
		zap.String("provider", provider.Name()),
		zap.String("model", cfg.Model),
		zap.String("archive", string(cfg.Archive.Driver)),
	)

	return &assistant{store: store, controller: controller, close: closeArchive}, nil
}
