package utils

import (
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Logger provides levelled logging throughout the application. Every entry
// carries the RunId of the process so runs can be told apart in shared logs.
// ERROR entries go to their own writer so they stay out of the report on stdout.
type Logger struct {
	entry    *logrus.Entry
	errEntry *logrus.Entry
}

type loggerOptions struct {
	out    io.Writer
	errOut io.Writer
	level  string
	json   bool
}

// LoggerOption customises NewLogger.
type LoggerOption func(*loggerOptions)

// WithOutput sets the destination of log entries (stdout by default). Errors
// follow it unless WithErrorOutput is also given.
func WithOutput(w io.Writer) LoggerOption {
	return func(o *loggerOptions) { o.out = w }
}

// WithErrorOutput sets the destination of ERROR entries (stderr by default).
func WithErrorOutput(w io.Writer) LoggerOption {
	return func(o *loggerOptions) { o.errOut = w }
}

// WithLevel sets the minimum level by name ("debug", "info", ...).
// Unknown names keep the info level.
func WithLevel(level string) LoggerOption {
	return func(o *loggerOptions) { o.level = level }
}

// WithJSON switches to the JSON formatter used in production.
func WithJSON(enabled bool) LoggerOption {
	return func(o *loggerOptions) { o.json = enabled }
}

// NewLogger creates a new Logger writing to stdout/stderr.
func NewLogger(opts ...LoggerOption) *Logger {
	o := loggerOptions{level: "info"}
	for _, opt := range opts {
		opt(&o)
	}
	if o.errOut == nil {
		o.errOut = os.Stderr
		if o.out != nil {
			o.errOut = o.out
		}
	}
	if o.out == nil {
		o.out = os.Stdout
	}

	runID := uuid.New().String()
	return &Logger{
		entry:    newBase(o.out, o).WithField("RunId", runID),
		errEntry: newBase(o.errOut, o).WithField("RunId", runID),
	}
}

func newBase(w io.Writer, o loggerOptions) *logrus.Logger {
	base := &logrus.Logger{
		Out:   w,
		Hooks: make(logrus.LevelHooks),
		Level: logrus.InfoLevel,
	}
	if lvl, err := logrus.ParseLevel(o.level); err == nil {
		base.Level = lvl
	}

	if o.json {
		base.Formatter = &logrus.JSONFormatter{}
	} else {
		base.Formatter = &logrus.TextFormatter{
			ForceColors:      true,
			FullTimestamp:    true,
			TimestampFormat:  "2006-01-02 15:04:05",
			QuoteEmptyFields: true,
		}
	}
	return base
}

// RunID returns the identifier attached to every entry of this logger.
func (l *Logger) RunID() string {
	id, _ := l.entry.Data["RunId"].(string)
	return id
}

// WithField returns a child logger that adds key=value to every entry.
func (l *Logger) WithField(key string, value any) *Logger {
	return &Logger{
		entry:    l.entry.WithField(key, value),
		errEntry: l.errEntry.WithField(key, value),
	}
}

func (l *Logger) Info(format string, args ...any) {
	l.entry.Infof(format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.entry.Warnf(format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.errEntry.Errorf(format, args...)
}

func (l *Logger) Debug(format string, args ...any) {
	l.entry.Debugf(format, args...)
}
