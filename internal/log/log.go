// Copyright 2024 The go-classfile Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

// Package log provides the small structured-logging facility used
// internally by the classfile decoder for non-fatal diagnostics (the
// size of the input, a failed decode, trailing bytes after the last
// class attribute, and the like). It never
// carries data that becomes part of a returned error; it is strictly
// for operators watching a decode pipeline run over many files.
package log

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Level is the severity of a log line, ordered least to most severe.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger is the minimal sink every log call goes through: a level plus
// alternating key-value pairs, terminating in a msg key.
type Logger interface {
	Log(level Level, keyvals ...interface{}) error
}

// stdLogger writes one line per call to w, guarded by a mutex since
// multiple goroutines may each be decoding a different class file
// concurrently and sharing one Logger.
type stdLogger struct {
	mu sync.Mutex
	w  io.Writer
}

// NewStdLogger returns a Logger that writes plain text lines to w.
func NewStdLogger(w io.Writer) Logger {
	return &stdLogger{w: w}
}

func (l *stdLogger) Log(level Level, keyvals ...interface{}) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, err := fmt.Fprintf(l.w, "[%s] %s\n", level, formatKeyvals(keyvals))
	return err
}

func formatKeyvals(keyvals []interface{}) string {
	s := ""
	for i := 0; i+1 < len(keyvals); i += 2 {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%v=%v", keyvals[i], keyvals[i+1])
	}
	return s
}

// filter wraps a Logger and drops any call below a configured level.
type filter struct {
	next  Logger
	level Level
}

// FilterOption configures NewFilter.
type FilterOption func(*filter)

// FilterLevel sets the minimum level that passes through the filter.
func FilterLevel(level Level) FilterOption {
	return func(f *filter) { f.level = level }
}

// NewFilter wraps next, dropping calls below the configured level
// (LevelInfo by default).
func NewFilter(next Logger, opts ...FilterOption) Logger {
	f := &filter{next: next, level: LevelInfo}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *filter) Log(level Level, keyvals ...interface{}) error {
	if level < f.level {
		return nil
	}
	return f.next.Log(level, keyvals...)
}

// Helper adds leveled convenience methods over a Logger, mirroring the
// Debugf/Infof/Warnf/Errorf shape consumers of structured loggers expect.
type Helper struct {
	logger Logger
}

// NewHelper wraps logger; a nil logger yields a Helper whose methods are
// no-ops, so callers can always construct one without a nil check.
func NewHelper(logger Logger) *Helper {
	return &Helper{logger: logger}
}

func (h *Helper) log(level Level, format string, args ...interface{}) {
	if h == nil || h.logger == nil {
		return
	}
	h.logger.Log(level, "msg", fmt.Sprintf(format, args...))
}

func (h *Helper) Debugf(format string, args ...interface{}) { h.log(LevelDebug, format, args...) }
func (h *Helper) Infof(format string, args ...interface{})  { h.log(LevelInfo, format, args...) }
func (h *Helper) Warnf(format string, args ...interface{})  { h.log(LevelWarn, format, args...) }
func (h *Helper) Errorf(format string, args ...interface{}) { h.log(LevelError, format, args...) }

// DefaultLogger writes to os.Stderr at LevelWarn and above.
func DefaultLogger() Logger {
	return NewFilter(NewStdLogger(os.Stderr), FilterLevel(LevelWarn))
}
