// Package observability wraps zerolog into the chainable builder API used
// throughout the pipeline, so every component logs through the same
// structured field set (fdd_id, item_no, stage) instead of ad hoc
// fmt.Sprintf calls.
package observability

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// LogConfig controls logger construction.
type LogConfig struct {
	Level       string // debug, info, warn, error
	Format      string // console, json
	ServiceName string
	Output      io.Writer // defaults to os.Stdout
}

// Logger is the pipeline's structured logger.
type Logger struct {
	zl zerolog.Logger
}

// New builds a Logger from config.
func New(cfg LogConfig) *Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	var writer io.Writer = out
	if cfg.Format != "json" {
		writer = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	zl := zerolog.New(writer).With().Timestamp().Logger()
	if cfg.ServiceName != "" {
		zl = zl.With().Str("service", cfg.ServiceName).Logger()
	}

	return &Logger{zl: zl}
}

// Default returns a Logger with sane development defaults.
func Default() *Logger {
	return New(LogConfig{Level: "info", Format: "console", ServiceName: "fdd-pipeline"})
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// With starts a sub-logger builder for attaching fields before use.
func (l *Logger) With() LoggerContext {
	return LoggerContext{ctx: l.zl.With()}
}

// LoggerContext accumulates fields before producing a scoped *Logger.
type LoggerContext struct {
	ctx zerolog.Context
}

func (c LoggerContext) Str(key, val string) LoggerContext {
	c.ctx = c.ctx.Str(key, val)
	return c
}

func (c LoggerContext) Int(key string, val int) LoggerContext {
	c.ctx = c.ctx.Int(key, val)
	return c
}

func (c LoggerContext) Logger() *Logger {
	return &Logger{zl: c.ctx.Logger()}
}

// WithFDD returns a sub-logger scoped to one FDD run.
func (l *Logger) WithFDD(fddID string) *Logger {
	return l.With().Str("fdd_id", fddID).Logger()
}

// WithItem returns a sub-logger scoped to one section item.
func (l *Logger) WithItem(itemNo int) *Logger {
	return l.With().Int("item_no", itemNo).Logger()
}

// WithStage returns a sub-logger scoped to a pipeline stage name.
func (l *Logger) WithStage(stage string) *Logger {
	return l.With().Str("stage", stage).Logger()
}

func (l *Logger) Debug() *LogEvent { return &LogEvent{ev: l.zl.Debug()} }
func (l *Logger) Info() *LogEvent  { return &LogEvent{ev: l.zl.Info()} }
func (l *Logger) Warn() *LogEvent  { return &LogEvent{ev: l.zl.Warn()} }
func (l *Logger) Error() *LogEvent { return &LogEvent{ev: l.zl.Error()} }

// LogEvent wraps zerolog.Event for chained field attachment.
type LogEvent struct {
	ev *zerolog.Event
}

func (e *LogEvent) Str(key, val string) *LogEvent {
	e.ev = e.ev.Str(key, val)
	return e
}

func (e *LogEvent) Int(key string, val int) *LogEvent {
	e.ev = e.ev.Int(key, val)
	return e
}

func (e *LogEvent) Float64(key string, val float64) *LogEvent {
	e.ev = e.ev.Float64(key, val)
	return e
}

func (e *LogEvent) Bool(key string, val bool) *LogEvent {
	e.ev = e.ev.Bool(key, val)
	return e
}

func (e *LogEvent) Dur(key string, val time.Duration) *LogEvent {
	e.ev = e.ev.Dur(key, val)
	return e
}

func (e *LogEvent) Err(err error) *LogEvent {
	e.ev = e.ev.Err(err)
	return e
}

func (e *LogEvent) Msg(msg string) {
	e.ev.Msg(msg)
}

func (e *LogEvent) Msgf(format string, args ...interface{}) {
	e.ev.Msgf(format, args...)
}
