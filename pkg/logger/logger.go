package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is a no-op until LoggerInit is called, so packages can log from tests.
var Log = zap.NewNop().Sugar()

// LoggerInit installs a development logger at the given level
// (debug, info, warn, error). Unknown levels fall back to info.
func LoggerInit(level string) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	rawLogger, err := cfg.Build()
	if err != nil {
		rawLogger, _ = zap.NewDevelopment()
	}
	Log = rawLogger.Sugar()
	if err != nil {
		Log.Warnw("could not build the configured logger", "err", err)
	}
}

func Sync() {
	_ = Log.Sync()
}
