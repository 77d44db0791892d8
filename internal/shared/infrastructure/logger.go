package infrastructure

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"salesdash/internal/config"
)

// Logger enveloppe un zap.SugaredLogger: messages + paires clé/valeur en snake_case
type Logger struct {
	sugar *zap.SugaredLogger
}

// NewLogger construit le logger à partir de la configuration
//   - format "json": configuration de production zap (une ligne JSON par événement)
//   - format "console": configuration de développement (lisible en terminal)
func NewLogger(cfg config.LoggingConfig) (*Logger, error) {
	var zcfg zap.Config
	switch strings.ToLower(cfg.Format) {
	case "json", "":
		zcfg = zap.NewProductionConfig()
	case "console":
		zcfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	// les stages écrivent sur stdout/fichiers: les logs vont sur stderr
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.DisableStacktrace = true

	zl, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return &Logger{sugar: zl.Sugar()}, nil
}

// NopLogger logger silencieux pour les tests
func NopLogger() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar()}
}

func (l *Logger) Debug(msg string, keysAndValues ...any) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l *Logger) Info(msg string, keysAndValues ...any) {
	l.sugar.Infow(msg, keysAndValues...)
}

func (l *Logger) Warn(msg string, keysAndValues ...any) {
	l.sugar.Warnw(msg, keysAndValues...)
}

func (l *Logger) Error(msg string, keysAndValues ...any) {
	l.sugar.Errorw(msg, keysAndValues...)
}

// With retourne un logger enrichi de champs permanents (stage, run_id)
func (l *Logger) With(keysAndValues ...any) *Logger {
	return &Logger{sugar: l.sugar.With(keysAndValues...)}
}

// Sync vide les buffers; l'erreur de sync sur stderr est ignorée (EINVAL sur certains OS)
func (l *Logger) Sync() {
	_ = l.sugar.Sync()
}
