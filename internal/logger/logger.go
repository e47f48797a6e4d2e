package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// LogLevel is the severity of a log line.
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "debug"
	case LogLevelInfo:
		return "info"
	case LogLevelWarn:
		return "warn"
	case LogLevelError:
		return "error"
	default:
		return "unknown"
	}
}

// Logger writes timestamped lines for the enabled levels only.
type Logger struct {
	mu     sync.Mutex
	levels map[LogLevel]bool
	writer io.Writer
}

var (
	defaultMu     sync.RWMutex
	defaultLogger = NewLogger([]string{"warn", "error"}, os.Stderr)
)

// NewLogger creates a logger from level names (debug, info, warn, error).
// Unknown names are ignored.
func NewLogger(levels []string, writer io.Writer) *Logger {
	logger := &Logger{
		levels: make(map[LogLevel]bool),
		writer: writer,
	}
	for _, level := range levels {
		switch strings.ToLower(strings.TrimSpace(level)) {
		case "debug", "query":
			logger.levels[LogLevelDebug] = true
		case "info":
			logger.levels[LogLevelInfo] = true
		case "warn", "warning":
			logger.levels[LogLevelWarn] = true
		case "error":
			logger.levels[LogLevelError] = true
		}
	}
	return logger
}

// Discard returns a logger with every level disabled.
func Discard() *Logger {
	return NewLogger(nil, io.Discard)
}

func SetDefaultLogger(logger *Logger) {
	defaultMu.Lock()
	defaultLogger = logger
	defaultMu.Unlock()
}

func GetDefaultLogger() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// Enabled reports whether lines at level are written.
func (l *Logger) Enabled(level LogLevel) bool {
	return l != nil && l.levels[level]
}

func (l *Logger) log(level LogLevel, format string, args ...interface{}) {
	if !l.Enabled(level) {
		return
	}
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	line := fmt.Sprintf("[%s] [%s] %s\n", timestamp, strings.ToUpper(level.String()), fmt.Sprintf(format, args...))
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.writer, line)
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(LogLevelDebug, format, args...)
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.log(LogLevelInfo, format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(LogLevelWarn, format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.log(LogLevelError, format, args...)
}

// FormatValue renders an input value for a log line, redacting values that
// look like credentials and truncating long strings.
func FormatValue(v interface{}) string {
	switch x := v.(type) {
	case string:
		if isSensitiveData(x) {
			return "'***REDACTED***'"
		}
		if len(x) > 100 {
			return fmt.Sprintf("'%s...' (truncated)", x[:100])
		}
		return fmt.Sprintf("'%s'", x)
	case []byte:
		if len(x) > 0 {
			return "'***REDACTED***'"
		}
		return "''"
	case nil:
		return "NULL"
	case map[string]interface{}:
		return fmt.Sprintf("{%d keys}", len(x))
	case []interface{}:
		return fmt.Sprintf("[%d items]", len(x))
	default:
		str := fmt.Sprintf("%v", x)
		if isSensitiveData(str) {
			return "***REDACTED***"
		}
		return str
	}
}

func isSensitiveData(s string) bool {
	s = strings.ToLower(s)
	sensitiveKeywords := []string{
		"password", "passwd", "pwd",
		"secret", "token", "api_key", "apikey",
		"access_token", "refresh_token", "authorization",
		"credential", "private_key", "credit_card", "cvv",
	}
	for _, keyword := range sensitiveKeywords {
		if strings.Contains(s, keyword) {
			return true
		}
	}

	// JWTs and common provider key prefixes
	if len(s) > 20 && (strings.HasPrefix(s, "eyj") ||
		strings.HasPrefix(s, "sk_") ||
		strings.HasPrefix(s, "pk_") ||
		strings.HasPrefix(s, "ghp_") ||
		strings.HasPrefix(s, "xoxb-") ||
		strings.HasPrefix(s, "xoxp-")) {
		return true
	}
	return false
}

func Debug(format string, args ...interface{}) {
	GetDefaultLogger().Debug(format, args...)
}

func Info(format string, args ...interface{}) {
	GetDefaultLogger().Info(format, args...)
}

func Warn(format string, args ...interface{}) {
	GetDefaultLogger().Warn(format, args...)
}

func Error(format string, args ...interface{}) {
	GetDefaultLogger().Error(format, args...)
}

// SetLogLevels replaces the default logger, keeping its output on stderr.
func SetLogLevels(levels []string) {
	SetDefaultLogger(NewLogger(levels, os.Stderr))
}

// FileLogger creates a logger appending to filename.
func FileLogger(filename string, levels []string) (*Logger, error) {
	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return NewLogger(levels, file), nil
}
