package logging

import (
	"sync"

	"go.uber.org/zap"
)

// Debug controls whether debug logs are printed.
var Debug bool

var (
	mu     sync.RWMutex
	logger = zap.NewNop()
)

// Init builds the process logger. Debug mode uses zap's development config.
func Init(debug bool) error {
	Debug = debug
	var (
		l   *zap.Logger
		err error
	)
	if debug {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return err
	}
	Set(l)
	return nil
}

// Set replaces the process logger.
func Set(l *zap.Logger) {
	mu.Lock()
	logger = l
	mu.Unlock()
}

// L returns the process logger. It is a no-op logger until Init or Set runs.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Debugf logs a formatted debug message when Debug is enabled.
func Debugf(format string, v ...any) {
	if Debug {
		L().Sugar().Debugf(format, v...)
	}
}

// Sync flushes buffered log entries.
func Sync() {
	_ = L().Sync()
}
