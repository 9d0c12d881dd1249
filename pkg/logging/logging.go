package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileOptions configures the rotating log file
type FileOptions struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type settings struct {
	console io.Writer
	noColor bool
	file    *FileOptions
}

// Option customizes SetupLogger
type Option func(*settings)

// WithFile enables file logging with rotation. An empty path selects DefaultLogFile.
func WithFile(opts FileOptions) Option {
	return func(s *settings) {
		s.file = &opts
	}
}

// WithConsole replaces the console destination (stderr by default)
func WithConsole(w io.Writer) Option {
	return func(s *settings) {
		s.console = w
	}
}

// WithNoColor disables ANSI colors on the console writer
func WithNoColor(noColor bool) Option {
	return func(s *settings) {
		s.noColor = noColor
	}
}

// LevelForVerbosity maps the -v count to a zerolog level
func LevelForVerbosity(verbosity int) zerolog.Level {
	switch verbosity {
	case 0:
		return zerolog.WarnLevel
	case 1:
		return zerolog.InfoLevel
	case 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// SetupLogger configures the global logger based on verbosity level.
// Console output always goes to stderr; file output is opt-in.
func SetupLogger(verbosity int, opts ...Option) {
	s := &settings{console: os.Stderr}
	for _, opt := range opts {
		opt(s)
	}

	zerolog.SetGlobalLevel(LevelForVerbosity(verbosity))

	consoleWriter := zerolog.ConsoleWriter{
		Out:        s.console,
		TimeFormat: time.Kitchen,
		NoColor:    s.noColor,
	}

	writers := []io.Writer{consoleWriter}

	var logFile string
	var fileErr error
	if s.file != nil {
		logFile = s.file.Path
		if logFile == "" {
			logFile = DefaultLogFile()
		}
		var fw io.Writer
		fw, fileErr = newRotatingFile(logFile, *s.file)
		if fileErr == nil {
			writers = append(writers, fw)
		}
	}

	multi := zerolog.MultiLevelWriter(writers...)
	log.Logger = zerolog.New(multi).With().Timestamp().Logger()

	if fileErr != nil {
		log.Warn().Err(fileErr).Str("path", logFile).Msg("Failed to create log file, logging to console only")
	}

	if verbosity >= 2 {
		log.Logger = log.Logger.With().Caller().Logger()
	}

	log.Debug().Int("verbosity", verbosity).Str("logFile", logFile).Msg("Logger initialized")
}

// DefaultLogFile returns $XDG_STATE_HOME/textilize/textilize.log
func DefaultLogFile() string {
	return filepath.Join(xdg.StateHome, "textilize", "textilize.log")
}

func newRotatingFile(path string, opts FileOptions) (io.Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
	}, nil
}

// GetLogger returns a contextualized logger with the given name
func GetLogger(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

// WithContext attaches logger to ctx so stages of one unit share its fields
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return logger.WithContext(ctx)
}

// FromContext returns the logger carried by ctx tagged with component,
// falling back to GetLogger when ctx carries none
func FromContext(ctx context.Context, component string) zerolog.Logger {
	if l := zerolog.Ctx(ctx); l != nil && l.GetLevel() != zerolog.Disabled {
		return l.With().Str("component", component).Logger()
	}
	return GetLogger(component)
}

// WithFields returns a logger with additional fields
func WithFields(fields map[string]interface{}) zerolog.Logger {
	return log.With().Fields(fields).Logger()
}

// Must logs a fatal error and exits if err is not nil
func Must(err error, msg string) {
	if err != nil {
		log.Fatal().Err(err).Msg(msg)
	}
}

// LogCommand logs a command execution with its arguments
func LogCommand(cmd string, args []string) {
	log.Debug().
		Str("command", cmd).
		Strs("args", args).
		Msg("Executing command")
}

// LogDuration logs the duration of an operation
func LogDuration(start time.Time, operation string) {
	log.Debug().
		Str("operation", operation).
		Dur("duration", time.Since(start)).
		Msg("Operation completed")
}

// LogOperationStart logs the start of an operation and returns a function to log its completion
func LogOperationStart(logger zerolog.Logger, operation string) func() {
	start := time.Now()
	logger.Debug().
		Str("operation", operation).
		Msg("Operation started")

	return func() {
		logger.Debug().
			Str("operation", operation).
			Dur("duration", time.Since(start)).
			Msg("Operation completed")
	}
}
