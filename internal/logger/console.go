// Package logger provides leveled console logging for pipeline runs.
//
// Output is timestamped and thread-safe. Color is enabled automatically when
// writing to a TTY and disabled otherwise (and under NO_COLOR).
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Log levels in increasing severity.
const (
	levelTrace = iota
	levelDebug
	levelInfo
	levelWarn
	levelError
)

var levelNames = map[string]int{
	"trace": levelTrace,
	"debug": levelDebug,
	"info":  levelInfo,
	"warn":  levelWarn,
	"error": levelError,
}

// ConsoleLogger logs pipeline progress to a writer with timestamps and
// thread safety. Messages below the configured level are discarded.
type ConsoleLogger struct {
	writer   io.Writer
	level    int
	mutex    sync.Mutex
	useColor bool
}

// NewConsoleLogger creates a ConsoleLogger writing to w at the given level.
// Valid levels: trace, debug, info, warn, error (case-insensitive); empty or
// invalid levels default to info. If w is nil, messages are discarded.
func NewConsoleLogger(w io.Writer, level string) *ConsoleLogger {
	lvl, ok := levelNames[strings.ToLower(strings.TrimSpace(level))]
	if !ok {
		lvl = levelInfo
	}
	return &ConsoleLogger{
		writer:   w,
		level:    lvl,
		useColor: isTerminal(w),
	}
}

// isTerminal reports whether w is a TTY that supports color.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if color.NoColor {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (l *ConsoleLogger) log(level int, paint *color.Color, format string, args ...any) {
	if l == nil || l.writer == nil || level < l.level {
		return
	}
	l.mutex.Lock()
	defer l.mutex.Unlock()

	msg := fmt.Sprintf(format, args...)
	if l.useColor && paint != nil {
		msg = paint.Sprint(msg)
	}
	fmt.Fprintf(l.writer, "[%s] %s\n", time.Now().Format("15:04:05"), msg)
}

// Tracef logs at trace level.
func (l *ConsoleLogger) Tracef(format string, args ...any) {
	l.log(levelTrace, nil, format, args...)
}

// Debugf logs at debug level.
func (l *ConsoleLogger) Debugf(format string, args ...any) {
	l.log(levelDebug, nil, format, args...)
}

// Infof logs at info level.
func (l *ConsoleLogger) Infof(format string, args ...any) {
	l.log(levelInfo, nil, format, args...)
}

// Successf logs at info level in green.
func (l *ConsoleLogger) Successf(format string, args ...any) {
	l.log(levelInfo, color.New(color.FgGreen), format, args...)
}

// Warnf logs at warn level in yellow.
func (l *ConsoleLogger) Warnf(format string, args ...any) {
	l.log(levelWarn, color.New(color.FgYellow), format, args...)
}

// Errorf logs at error level in red.
func (l *ConsoleLogger) Errorf(format string, args ...any) {
	l.log(levelError, color.New(color.FgRed), format, args...)
}
