package logging

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger is the logging surface the launcher components depend on.
type Logger interface {
	Error(fmt string, a ...interface{})
	Warn(fmt string, a ...interface{})
	Info(fmt string, a ...interface{})
	Debug(fmt string, a ...interface{})

	WithFields(map[string]interface{}) Logger
	WithField(string, interface{}) Logger
	WithError(err error) Logger

	GetLevel() string
	SetLevel(string)
}

type StandardLogger struct {
	logger *logrus.Logger
	fields map[string]interface{}
}

// New returns a new application logger writing to stderr in logrus text
// format.
func New() *StandardLogger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{
		DisableLevelTruncation: true,
		QuoteEmptyFields:       true,
	})
	return &StandardLogger{logger: l}
}

// SetOutput sets the underlying logrus output.
func (l *StandardLogger) SetOutput(w io.Writer) {
	l.logger.SetOutput(w)
}

// WithFields creates a new logger instance carrying the given default
// fields in addition to the current ones.
func (l *StandardLogger) WithFields(fields map[string]interface{}) Logger {
	cp := *l
	cp.fields = make(map[string]interface{})
	for k, v := range l.fields {
		cp.fields[k] = v
	}
	for k, v := range fields {
		cp.fields[k] = v
	}
	return &cp
}

func (l *StandardLogger) WithField(name string, value interface{}) Logger {
	return l.WithFields(map[string]interface{}{name: value})
}

func (l *StandardLogger) WithError(err error) Logger {
	return l.WithField("error", err)
}

func (l *StandardLogger) GetLevel() string {
	return l.logger.GetLevel().String()
}

// SetLevel sets the logger level. The "null" level discards everything,
// which tests use to keep output quiet.
func (l *StandardLogger) SetLevel(level string) {
	switch strings.ToLower(level) {
	case "error":
		l.logger.SetLevel(logrus.ErrorLevel)
	case "warn", "warning":
		l.logger.SetLevel(logrus.WarnLevel)
	case "info":
		l.logger.SetLevel(logrus.InfoLevel)
	case "debug":
		l.logger.SetLevel(logrus.DebugLevel)
	case "null", "none":
		l.logger.SetOutput(io.Discard)
	default:
		l.Warn("unknown log level %v", level)
		l.logger.SetLevel(logrus.ErrorLevel)
	}
}

func (l *StandardLogger) Error(fmt string, a ...interface{}) {
	l.logger.WithFields(l.fields).Errorf(fmt, a...)
}

func (l *StandardLogger) Warn(fmt string, a ...interface{}) {
	l.logger.WithFields(l.fields).Warnf(fmt, a...)
}

func (l *StandardLogger) Info(fmt string, a ...interface{}) {
	l.logger.WithFields(l.fields).Infof(fmt, a...)
}

func (l *StandardLogger) Debug(fmt string, a ...interface{}) {
	l.logger.WithFields(l.fields).Debugf(fmt, a...)
}
