package logging

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a zap logger whose verbosity can be switched at runtime.
// Disabling it raises the level to error rather than silencing everything.
type Logger struct {
	*zap.Logger

	mu    sync.Mutex
	level zap.AtomicLevel
	base  zapcore.Level
}

// New builds a JSON production logger at the given level ("debug", "info", ...).
// dev switches to the human-readable console encoder.
func New(level string, dev bool) (*Logger, error) {
	base, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", level, err)
	}

	config := zap.NewProductionConfig()
	if dev {
		config = zap.NewDevelopmentConfig()
	}
	config.Level = zap.NewAtomicLevelAt(base)
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	zl, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return &Logger{Logger: zl, level: config.Level, base: base}, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{Logger: zap.NewNop(), level: zap.NewAtomicLevel(), base: zapcore.InfoLevel}
}

// Enabled reports whether the configured level is active.
func (l *Logger) Enabled() bool {
	return l.level.Level() == l.base
}

// SetEnabled restores the configured level or raises it to error.
func (l *Logger) SetEnabled(on bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if on {
		l.level.SetLevel(l.base)
	} else {
		l.level.SetLevel(zapcore.ErrorLevel)
	}
	l.Logger.Error("logging toggled", zap.Bool("enabled", on))
}

// Level returns the current effective level.
func (l *Logger) Level() zapcore.Level {
	return l.level.Level()
}
