package logger

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/labstack/gommon/log"
)

type Output string

type Format string

type Level string

const (
	OutputStdout Output = "stdout"
	OutputStderr Output = "stderr"

	FormatJSON Format = "json"
	FormatText Format = "text"

	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

type Options struct {
	Output        Output
	Formatter     Format
	Level         Level
	DefaultFields map[string]string
}

type Logger interface {
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
	DebugWithContext(ctx context.Context, args ...interface{})
	InfoWithContext(ctx context.Context, args ...interface{})
	WarnWithContext(ctx context.Context, args ...interface{})
	ErrorWithContext(ctx context.Context, args ...interface{})
}

type appLogger struct {
	l      *log.Logger
	format Format
	fields map[string]string
}

func Init(opts Options) Logger {
	l := log.New("-")
	l.SetHeader(`{"time":"${time_rfc3339}","level":"${level}"}`)
	l.SetOutput(outputWriter(opts.Output))
	l.SetLevel(gommonLevel(opts.Level))

	return &appLogger{
		l:      l,
		format: opts.Formatter,
		fields: opts.DefaultFields,
	}
}

func outputWriter(o Output) io.Writer {
	if o == OutputStderr {
		return os.Stderr
	}
	return os.Stdout
}

func gommonLevel(lv Level) log.Lvl {
	switch lv {
	case LevelDebug:
		return log.DEBUG
	case LevelWarn:
		return log.WARN
	case LevelError:
		return log.ERROR
	default:
		return log.INFO
	}
}

func (a *appLogger) entry(ctx context.Context, args ...interface{}) log.JSON {
	j := log.JSON{"message": fmt.Sprint(args...)}
	for k, v := range a.fields {
		j[k] = v
	}
	if ctx != nil {
		if cid := CorrelationID(ctx); cid != "" {
			j["correlation_id"] = cid
		}
	}
	return j
}

func (a *appLogger) Debug(args ...interface{}) { a.l.Debugj(a.entry(nil, args...)) }
func (a *appLogger) Info(args ...interface{})  { a.l.Infoj(a.entry(nil, args...)) }
func (a *appLogger) Warn(args ...interface{})  { a.l.Warnj(a.entry(nil, args...)) }
func (a *appLogger) Error(args ...interface{}) { a.l.Errorj(a.entry(nil, args...)) }

func (a *appLogger) Debugf(format string, args ...interface{}) {
	a.l.Debugj(a.entry(nil, fmt.Sprintf(format, args...)))
}

func (a *appLogger) Infof(format string, args ...interface{}) {
	a.l.Infoj(a.entry(nil, fmt.Sprintf(format, args...)))
}

func (a *appLogger) Warnf(format string, args ...interface{}) {
	a.l.Warnj(a.entry(nil, fmt.Sprintf(format, args...)))
}

func (a *appLogger) Errorf(format string, args ...interface{}) {
	a.l.Errorj(a.entry(nil, fmt.Sprintf(format, args...)))
}

func (a *appLogger) Fatalf(format string, args ...interface{}) {
	a.l.Fatalj(a.entry(nil, fmt.Sprintf(format, args...)))
}

func (a *appLogger) DebugWithContext(ctx context.Context, args ...interface{}) {
	a.l.Debugj(a.entry(ctx, args...))
}

func (a *appLogger) InfoWithContext(ctx context.Context, args ...interface{}) {
	a.l.Infoj(a.entry(ctx, args...))
}

func (a *appLogger) WarnWithContext(ctx context.Context, args ...interface{}) {
	a.l.Warnj(a.entry(ctx, args...))
}

func (a *appLogger) ErrorWithContext(ctx context.Context, args ...interface{}) {
	a.l.Errorj(a.entry(ctx, args...))
}
