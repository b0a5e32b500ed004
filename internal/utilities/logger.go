package utilities

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/antonio-alexander/go-employee-payroll/internal"

	"github.com/sirupsen/logrus"
)

type logger struct {
	log    *logrus.Logger
	config struct {
		Level Level
	}
}

type Level int

const (
	Error Level = 1
	Info  Level = 2
	Debug Level = 3
	Trace Level = 4
)

func (l Level) String() string {
	switch l {
	default:
		return ""
	case Error:
		return "error"
	case Info:
		return "info"
	case Debug:
		return "debug"
	case Trace:
		return "trace"
	}
}

func (l Level) logrusLevel() logrus.Level {
	switch l {
	default:
		return logrus.ErrorLevel
	case Info:
		return logrus.InfoLevel
	case Debug:
		return logrus.DebugLevel
	case Trace:
		return logrus.TraceLevel
	}
}

type Logger interface {
	Error(ctx context.Context, format string, v ...any)
	Info(ctx context.Context, format string, v ...any)
	Debug(ctx context.Context, format string, v ...any)
	Trace(ctx context.Context, format string, v ...any)
}

func atoLogLevel(a string) Level {
	switch strings.ToLower(a) {
	default:
		return Error
	case "info":
		return Info
	case "debug":
		return Debug
	case "trace":
		return Trace
	}
}

// NewLogger creates a logger that writes to stdout, an io.Writer can
// be provided as a parameter to redirect output
func NewLogger(parameters ...any) interface {
	internal.Configurer
	Logger
} {
	l := &logger{log: logrus.New()}
	l.log.SetOutput(os.Stdout)
	l.log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	l.log.SetLevel(logrus.ErrorLevel)
	l.config.Level = Error
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case io.Writer:
			l.log.SetOutput(p)
		}
	}
	return l
}

func (l *logger) Configure(envs map[string]string) error {
	l.config.Level = Error
	if logLevel, ok := envs["LOG_LEVEL"]; ok {
		l.config.Level = atoLogLevel(logLevel)
	}
	l.log.SetLevel(l.config.Level.logrusLevel())
	return nil
}

func (l *logger) entry(ctx context.Context) *logrus.Entry {
	entry := logrus.NewEntry(l.log)
	if correlationId := internal.CorrelationIdFromCtx(ctx); correlationId != "" {
		entry = entry.WithField("correlation_id", correlationId)
	}
	if viewId := internal.ViewIdFromCtx(ctx); viewId != "" {
		entry = entry.WithField("view_id", viewId)
	}
	return entry
}

func (l *logger) Error(ctx context.Context, format string, v ...any) {
	l.entry(ctx).Errorf(format, v...)
}

func (l *logger) Info(ctx context.Context, format string, v ...any) {
	l.entry(ctx).Infof(format, v...)
}

func (l *logger) Debug(ctx context.Context, format string, v ...any) {
	l.entry(ctx).Debugf(format, v...)
}

func (l *logger) Trace(ctx context.Context, format string, v ...any) {
	l.entry(ctx).Tracef(format, v...)
}
