// internal/logger/logger.go
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	// Log levels
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

var levelNames = map[LogLevel]string{
	DEBUG: "DEBUG",
	INFO:  "INFO",
	WARN:  "WARN",
	ERROR: "ERROR",
}

var zapLevels = map[LogLevel]zapcore.Level{
	DEBUG: zapcore.DebugLevel,
	INFO:  zapcore.InfoLevel,
	WARN:  zapcore.WarnLevel,
	ERROR: zapcore.ErrorLevel,
}

// ParseLevel converts a level name such as "debug" or "WARN" to a LogLevel
func ParseLevel(name string) (LogLevel, error) {
	for level, levelName := range levelNames {
		if strings.EqualFold(name, levelName) {
			return level, nil
		}
	}
	if strings.EqualFold(name, "warning") {
		return WARN, nil
	}
	return INFO, fmt.Errorf("unknown log level %q", name)
}

// Logger wraps a zap sugared logger behind a printf-style leveled API
type Logger struct {
	mu         sync.Mutex
	level      zap.AtomicLevel
	outputs    []io.Writer
	showFile   bool
	timeFormat string
	sugar      *zap.SugaredLogger
}

var (
	defaultLogger *Logger
	once          sync.Once
)

// GetLogger returns the default logger instance
func GetLogger() *Logger {
	once.Do(func() {
		defaultLogger = NewLogger(WARN)
		defaultLogger.AddOutput(os.Stderr)
	})
	return defaultLogger
}

// NewLogger creates a new logger instance with the specified minimum log level.
// It discards everything until an output is added.
func NewLogger(level LogLevel) *Logger {
	l := &Logger{
		level:      zap.NewAtomicLevelAt(zapLevels[level]),
		timeFormat: "2006-01-02 15:04:05",
		showFile:   true,
	}
	l.rebuild()
	return l
}

// rebuild recreates the zap core from the current settings. Callers hold l.mu
// or own l exclusively.
func (l *Logger) rebuild() {
	encCfg := zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		CallerKey:        "caller",
		MessageKey:       "msg",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeTime:       zapcore.TimeEncoderOfLayout(l.timeFormat),
		EncodeDuration:   zapcore.StringDurationEncoder,
		EncodeCaller:     zapcore.ShortCallerEncoder,
		ConsoleSeparator: " ",
	}

	syncers := make([]zapcore.WriteSyncer, 0, len(l.outputs))
	for _, w := range l.outputs {
		syncers = append(syncers, zapcore.AddSync(w))
	}

	var core zapcore.Core
	if len(syncers) == 0 {
		core = zapcore.NewNopCore()
	} else {
		core = zapcore.NewCore(
			zapcore.NewConsoleEncoder(encCfg),
			zapcore.NewMultiWriteSyncer(syncers...),
			l.level,
		)
	}

	opts := []zap.Option{}
	if l.showFile {
		// Skip log and the exported wrapper so the caller is the user's frame.
		opts = append(opts, zap.AddCaller(), zap.AddCallerSkip(2))
	}
	l.sugar = zap.New(core, opts...).Sugar()
}

// SetLevel changes the minimum log level
func (l *Logger) SetLevel(level LogLevel) {
	l.level.SetLevel(zapLevels[level])
}

// SetTimeFormat sets the time format string used in log messages
func (l *Logger) SetTimeFormat(format string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.timeFormat = format
	l.rebuild()
}

// SetShowFile enables or disables showing file and line information in logs
func (l *Logger) SetShowFile(show bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.showFile = show
	l.rebuild()
}

// AddOutput adds an output writer
func (l *Logger) AddOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.outputs = append(l.outputs, w)
	l.rebuild()
}

// SetOutput replaces all outputs with w
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.outputs = []io.Writer{w}
	l.rebuild()
}

// AddFileOutput adds a file output
func (l *Logger) AddFileOutput(filename string) error {
	// Ensure directory exists
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	l.AddOutput(file)
	return nil
}

// Sync flushes buffered log entries
func (l *Logger) Sync() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sugar.Sync()
}

// log writes a message at the given level
func (l *Logger) log(level LogLevel, format string, args ...interface{}) {
	l.mu.Lock()
	sugar := l.sugar
	l.mu.Unlock()

	// Format the message
	var msg string
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	} else {
		msg = format
	}

	switch level {
	case DEBUG:
		sugar.Debug(msg)
	case INFO:
		sugar.Info(msg)
	case WARN:
		sugar.Warn(msg)
	case ERROR:
		sugar.Error(msg)
	}
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(DEBUG, format, args...)
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(INFO, format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(WARN, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(ERROR, format, args...)
}

// Global convenience functions that use the default logger

func Debug(format string, args ...interface{}) {
	GetLogger().log(DEBUG, format, args...)
}

func Info(format string, args ...interface{}) {
	GetLogger().log(INFO, format, args...)
}

func Warn(format string, args ...interface{}) {
	GetLogger().log(WARN, format, args...)
}

func Error(format string, args ...interface{}) {
	GetLogger().log(ERROR, format, args...)
}

// SetGlobalLevel sets the level for the default logger
func SetGlobalLevel(level LogLevel) {
	GetLogger().SetLevel(level)
}
