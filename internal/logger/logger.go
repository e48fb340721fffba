// Package logger is the leveled logger used across mealplan. Output goes to
// stderr by default so command output on stdout stays scriptable.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

type Level int

const (
	LevelOff Level = iota
	// LevelNormal prints warnings and errors.
	LevelNormal
	// LevelVerbose adds info and debug lines.
	LevelVerbose
)

func ParseLevel(raw string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "normal", "warn":
		return LevelNormal, nil
	case "off", "quiet", "none":
		return LevelOff, nil
	case "verbose", "debug", "info":
		return LevelVerbose, nil
	default:
		return LevelNormal, fmt.Errorf("invalid log level %q (use off, normal or verbose)", raw)
	}
}

// Logger is safe for concurrent use.
type Logger struct {
	mu     sync.RWMutex
	level  Level
	debug  *log.Logger
	info   *log.Logger
	warn   *log.Logger
	errLog *log.Logger
}

// New creates a logger writing to out, or os.Stderr when out is nil.
func New(level Level, out io.Writer) *Logger {
	if out == nil {
		out = os.Stderr
	}
	flags := log.Ltime
	return &Logger{
		level:  level,
		debug:  log.New(out, "[DBG] ", flags),
		info:   log.New(out, "[INF] ", flags),
		warn:   log.New(out, "[WRN] ", flags),
		errLog: log.New(out, "[ERR] ", flags),
	}
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *Logger {
	return New(LevelOff, io.Discard)
}

func (l *Logger) SetLevel(level Level) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

func (l *Logger) GetLevel() Level {
	if l == nil {
		return LevelOff
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

func (l *Logger) Debug(format string, args ...any) {
	l.output(LevelVerbose, func(l *Logger) *log.Logger { return l.debug }, format, args...)
}

func (l *Logger) Info(format string, args ...any) {
	l.output(LevelVerbose, func(l *Logger) *log.Logger { return l.info }, format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.output(LevelNormal, func(l *Logger) *log.Logger { return l.warn }, format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.output(LevelNormal, func(l *Logger) *log.Logger { return l.errLog }, format, args...)
}

// output is a no-op on a nil receiver; dst is only read once l is known
// to be non-nil.
func (l *Logger) output(min Level, dst func(*Logger) *log.Logger, format string, args ...any) {
	if l == nil {
		return
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.level >= min {
		_ = dst(l).Output(3, fmt.Sprintf(format, args...))
	}
}
