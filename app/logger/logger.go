// Package logger builds the zerolog logger shared by the server, the
// middleware chain and the storage layer.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"blogapi/app/config"

	"github.com/rs/zerolog"
)

// New creates a logger writing to stdout in the configured format and level.
func New(cfg config.LogConfig) *zerolog.Logger {
	return NewWithWriter(cfg, os.Stdout)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(cfg config.LogConfig, out io.Writer) *zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var w io.Writer = out
	if cfg.Format == "console" {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	l := zerolog.New(w).Level(level).With().Timestamp().Logger()
	return &l
}

// BadgerLogger adapts a zerolog logger to badger.Logger.
type BadgerLogger struct {
	log *zerolog.Logger
}

// NewBadgerLogger tags every badger line with component=badger.
func NewBadgerLogger(l *zerolog.Logger) *BadgerLogger {
	sub := l.With().Str("component", "badger").Logger()
	return &BadgerLogger{log: &sub}
}

func (b *BadgerLogger) Errorf(format string, args ...interface{}) {
	b.log.Error().Msgf(trim(format), args...)
}

func (b *BadgerLogger) Warningf(format string, args ...interface{}) {
	b.log.Warn().Msgf(trim(format), args...)
}

func (b *BadgerLogger) Infof(format string, args ...interface{}) {
	b.log.Info().Msgf(trim(format), args...)
}

func (b *BadgerLogger) Debugf(format string, args ...interface{}) {
	b.log.Debug().Msgf(trim(format), args...)
}

// badger terminates its format strings with a newline
func trim(format string) string {
	return strings.TrimRight(format, "\n")
}
