package logger

import (
	"io"
	"os"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger wraps zerolog.Logger with additional context
type Logger struct {
	logger zerolog.Logger
}

// Fields is the structured payload attached to a log line.
type Fields = map[string]interface{}

// Config holds logger configuration
type Config struct {
	Level       string // debug, info, warn, error, fatal
	Format      string // json, console
	Output      io.Writer
	EnableColor bool
}

var globalLogger *Logger

// Initialize initializes the global logger with the given configuration
func Initialize(cfg Config) {
	zerolog.SetGlobalLevel(parseLogLevel(cfg.Level))

	var output io.Writer = os.Stdout
	if cfg.Output != nil {
		output = cfg.Output
	}

	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
			NoColor:    !cfg.EnableColor,
		}
	}

	logger := zerolog.New(output).With().Timestamp().Str("service", "variants").Logger()
	globalLogger = &Logger{logger: logger}
	log.Logger = logger
}

// parseLogLevel converts string level to zerolog.Level
func parseLogLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// Get returns the global logger instance
func Get() *Logger {
	if globalLogger == nil {
		Initialize(Config{
			Level:       "info",
			Format:      "console",
			EnableColor: true,
		})
	}
	return globalLogger
}

// WithContext returns a logger with additional context fields
func (l *Logger) WithContext(fields Fields) *Logger {
	ctx := l.logger.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &Logger{logger: ctx.Logger()}
}

// emit attaches the caller (skip frames above emit) and the first field map.
func emit(event *zerolog.Event, skip int, msg string, fields []Fields) {
	if event == nil {
		return
	}
	pc, file, line, _ := runtime.Caller(skip)
	event = event.Str("caller", zerolog.CallerMarshalFunc(pc, file, line))
	if len(fields) > 0 {
		for k, v := range fields[0] {
			event = event.Interface(k, v)
		}
	}
	event.Msg(msg)
}

func (l *Logger) Debug(msg string, fields ...Fields) {
	emit(l.logger.Debug(), 2, msg, fields)
}

func (l *Logger) Info(msg string, fields ...Fields) {
	emit(l.logger.Info(), 2, msg, fields)
}

func (l *Logger) Warn(msg string, fields ...Fields) {
	emit(l.logger.Warn(), 2, msg, fields)
}

// Error logs at error level; err may be nil.
func (l *Logger) Error(msg string, err error, fields ...Fields) {
	emit(l.logger.Error().Err(err), 2, msg, fields)
}

// Fatal logs and exits the process.
func (l *Logger) Fatal(msg string, err error, fields ...Fields) {
	emit(l.logger.Fatal().Err(err), 2, msg, fields)
}

// Package-level convenience functions

func Debug(msg string, fields ...Fields) {
	emit(Get().logger.Debug(), 2, msg, fields)
}

func Info(msg string, fields ...Fields) {
	emit(Get().logger.Info(), 2, msg, fields)
}

func Warn(msg string, fields ...Fields) {
	emit(Get().logger.Warn(), 2, msg, fields)
}

func Error(msg string, err error, fields ...Fields) {
	emit(Get().logger.Error().Err(err), 2, msg, fields)
}

func Fatal(msg string, err error, fields ...Fields) {
	emit(Get().logger.Fatal().Err(err), 2, msg, fields)
}

// WithContext returns a logger with additional context fields
func WithContext(fields Fields) *Logger {
	return Get().WithContext(fields)
}
