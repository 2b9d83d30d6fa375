package logger

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

func (l LogLevel) zapLevel() zapcore.Level {
	switch l {
	case DEBUG:
		return zapcore.DebugLevel
	case WARN:
		return zapcore.WarnLevel
	case ERROR:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Logger writes leveled key/value logs and redacts credentials before they
// reach the sink.
type Logger struct {
	level zap.AtomicLevel
	sugar *zap.SugaredLogger
	isDev bool
}

var (
	defaultLogger *Logger
	once          sync.Once
	mu            sync.Mutex
)

// Initialize sets up the default logger instance
func Initialize(level LogLevel, isDev bool) {
	once.Do(func() {
		l, err := New(level, isDev)
		if err != nil {
			l = NewWithCore(zapcore.NewNopCore(), level, isDev)
		}
		mu.Lock()
		defaultLogger = l
		mu.Unlock()
	})
}

// New builds a logger writing to stdout. Development mode uses the console
// encoder, production emits JSON.
func New(level LogLevel, isDev bool) (*Logger, error) {
	atom := zap.NewAtomicLevelAt(level.zapLevel())

	var cfg zap.Config
	if isDev {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = atom
	cfg.OutputPaths = []string{"stdout"}
	cfg.DisableStacktrace = !isDev

	z, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return &Logger{level: atom, sugar: z.Sugar(), isDev: isDev}, nil
}

// NewWithCore wraps an existing zap core. Tests use it with an observer.
func NewWithCore(core zapcore.Core, level LogLevel, isDev bool) *Logger {
	atom := zap.NewAtomicLevelAt(level.zapLevel())
	filtered, err := zapcore.NewIncreaseLevelCore(core, atom)
	if err != nil {
		filtered = core
	}
	return &Logger{
		level: atom,
		sugar: zap.New(filtered, zap.AddCaller(), zap.AddCallerSkip(1)).Sugar(),
		isDev: isDev,
	}
}

// GetLogger returns the default logger instance
func GetLogger() *Logger {
	mu.Lock()
	l := defaultLogger
	mu.Unlock()
	if l == nil {
		Initialize(INFO, false)
		mu.Lock()
		l = defaultLogger
		mu.Unlock()
	}
	return l
}

// ReplaceDefault installs l as the default logger and returns a function
// restoring the previous one.
func ReplaceDefault(l *Logger) func() {
	mu.Lock()
	prev := defaultLogger
	defaultLogger = l
	mu.Unlock()
	return func() {
		mu.Lock()
		defaultLogger = prev
		mu.Unlock()
	}
}

// SetLevel updates the log level
func SetLevel(level LogLevel) {
	GetLogger().level.SetLevel(level.zapLevel())
}

// Sync flushes buffered entries of the default logger.
func Sync() {
	_ = GetLogger().sugar.Sync()
}

// truncateID shortens tokens and request ids so they stay correlatable
// without being replayable.
func truncateID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:4] + "****"
}

// redactValue redacts sensitive values based on the key name
func redactValue(key string, value interface{}) interface{} {
	keyLower := strings.ToLower(key)
	valueStr := fmt.Sprintf("%v", value)

	if strings.Contains(keyLower, "authorization") || strings.Contains(keyLower, "password") ||
		strings.Contains(keyLower, "hash") {
		return "[REDACTED]"
	}

	if strings.Contains(keyLower, "token") || strings.Contains(keyLower, "secret") {
		return truncateID(valueStr)
	}

	return value
}

// redactPairs applies redaction to every value of a key/value list. A
// dangling key gets an empty value.
func (l *Logger) redactPairs(keysAndValues []interface{}) []interface{} {
	if len(keysAndValues) == 0 {
		return nil
	}

	out := make([]interface{}, 0, len(keysAndValues)+1)
	for i := 0; i < len(keysAndValues); i += 2 {
		key := fmt.Sprintf("%v", keysAndValues[i])
		var value interface{} = ""
		if i+1 < len(keysAndValues) {
			value = keysAndValues[i+1]
		}

		// Dev mode at DEBUG shows raw values
		if !l.isDev || l.level.Level() > zapcore.DebugLevel {
			value = redactValue(key, value)
		}
		out = append(out, key, value)
	}
	return out
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, l.redactPairs(keysAndValues)...)
}

// Info logs an info message
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Infow(msg, l.redactPairs(keysAndValues)...)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.sugar.Warnw(msg, l.redactPairs(keysAndValues)...)
}

// Error logs an error message
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, l.redactPairs(keysAndValues)...)
}

// Package-level convenience functions. They call the sugared logger
// directly so the reported caller is the same frame depth as the methods.

// Debug logs a debug message using the default logger
func Debug(msg string, keysAndValues ...interface{}) {
	l := GetLogger()
	l.sugar.Debugw(msg, l.redactPairs(keysAndValues)...)
}

// Info logs an info message using the default logger
func Info(msg string, keysAndValues ...interface{}) {
	l := GetLogger()
	l.sugar.Infow(msg, l.redactPairs(keysAndValues)...)
}

// Warn logs a warning message using the default logger
func Warn(msg string, keysAndValues ...interface{}) {
	l := GetLogger()
	l.sugar.Warnw(msg, l.redactPairs(keysAndValues)...)
}

// Error logs an error message using the default logger
func Error(msg string, keysAndValues ...interface{}) {
	l := GetLogger()
	l.sugar.Errorw(msg, l.redactPairs(keysAndValues)...)
}

// ParseLevel converts a string to a LogLevel
func ParseLevel(level string) LogLevel {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}
