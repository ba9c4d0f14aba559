package utils

import (
    "os"
    "path/filepath"
    "sync"

    "go.uber.org/zap"
    "go.uber.org/zap/zapcore"
)

var (
    logger *zap.Logger
    once   sync.Once
)

// Logger returns the process logger. LOG_LEVEL selects the level (default info),
// LOG_FILE additionally tees JSON records into that file.
func Logger() *zap.Logger {
    once.Do(func() { logger = build(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FILE")) })
    return logger
}

func build(level, logFile string) *zap.Logger {
    lvl := zapcore.InfoLevel
    if level != "" {
        if err := lvl.Set(level); err != nil { lvl = zapcore.InfoLevel }
    }
    encCfg := zap.NewProductionEncoderConfig()
    encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
    enc := zapcore.NewJSONEncoder(encCfg)
    consoleCore := zapcore.NewCore(enc, zapcore.AddSync(os.Stdout), lvl)
    if logFile == "" {
        return zap.New(consoleCore)
    }
    _ = os.MkdirAll(filepath.Dir(logFile), 0o755)
    f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return zap.New(consoleCore)
    }
    fileCore := zapcore.NewCore(enc, zapcore.AddSync(f), lvl)
    return zap.New(zapcore.NewTee(fileCore, consoleCore))
}

// OrNop lets library code accept a nil logger.
func OrNop(l *zap.Logger) *zap.Logger {
    if l == nil { return zap.NewNop() }
    return l
}
