package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// -----------------------------------------------------------------------------

// Logger provides structured logging functionality. Each component gets a
// named instance; all instances share one zerolog sink configured by Setup.
type Logger struct {
	name string
	zl   zerolog.Logger
}

var root zerolog.Logger = zerolog.New(defaultWriter()).With().Timestamp().Logger()

// -----------------------------------------------------------------------------

func defaultWriter() io.Writer {
	return zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
}

// -----------------------------------------------------------------------------

// Setup configures the shared sink: console always, rotated file when
// filePath is non-empty. Call once from main before creating loggers.
func Setup(level, filePath string) {
	writers := []io.Writer{defaultWriter()}

	if filePath != "" {
		if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err == nil {
			writers = append(writers, &lumberjack.Logger{
				Filename:   filePath,
				MaxSize:    50, // megabytes
				MaxBackups: 5,
				MaxAge:     30, // days
				Compress:   true,
			})
		}
	}

	var w io.Writer = writers[0]
	if len(writers) > 1 {
		w = zerolog.MultiLevelWriter(writers...)
	}

	zerolog.SetGlobalLevel(parseLevel(level))
	root = zerolog.New(w).With().Timestamp().Logger()
}

// -----------------------------------------------------------------------------

func parseLevel(level string) zerolog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return zerolog.DebugLevel
	case "WARNING", "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// -----------------------------------------------------------------------------

// NewLogger creates a new Logger instance
func NewLogger(name string) *Logger {
	return &Logger{
		name: name,
		zl:   root.With().Str("component", name).Logger(),
	}
}

// -----------------------------------------------------------------------------

// Debug logs debug messages
func (l *Logger) Debug(format string, args ...interface{}) {
	l.zl.Debug().Msgf(format, args...)
}

// -----------------------------------------------------------------------------

// Warning logs warning messages
func (l *Logger) Warning(format string, args ...interface{}) {
	l.zl.Warn().Msgf(format, args...)
}

// -----------------------------------------------------------------------------

// Info logs informational messages
func (l *Logger) Info(format string, args ...interface{}) {
	l.zl.Info().Msgf(format, args...)
}

// -----------------------------------------------------------------------------

// Error logs error messages
func (l *Logger) Error(format string, args ...interface{}) {
	l.zl.Error().Msgf(format, args...)
}

// -----------------------------------------------------------------------------

// Critical logs critical errors and exits the application
func (l *Logger) Critical(format string, args ...interface{}) {
	l.zl.Fatal().Msgf(format, args...)
}
