package utils

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"
)

// Log levels, lowest first.
const (
	LevelDebug = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Logger provides leveled, timestamped logging throughout the application.
// Messages below the configured minimum level are dropped.
type Logger struct {
	out      *log.Logger
	err      *log.Logger
	minLevel int
}

// NewLogger creates a Logger writing to stdout/stderr. The minimum level
// comes from LOG_LEVEL (debug|info|warn|error), defaulting to info.
func NewLogger() *Logger {
	return &Logger{
		out:      log.New(os.Stdout, "", 0),
		err:      log.New(os.Stderr, "", 0),
		minLevel: levelFromEnv(),
	}
}

func levelFromEnv() int {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l *Logger) timestamp() string {
	return time.Now().Format("2006-01-02 15:04:05")
}

func (l *Logger) Info(format string, args ...any) {
	if l.minLevel > LevelInfo {
		return
	}
	l.out.Printf(fmt.Sprintf("[%s] \033[32mINFO\033[0m  %s\n", l.timestamp(), format), args...)
}

func (l *Logger) Warn(format string, args ...any) {
	if l.minLevel > LevelWarn {
		return
	}
	l.out.Printf(fmt.Sprintf("[%s] \033[33mWARN\033[0m  %s\n", l.timestamp(), format), args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.err.Printf(fmt.Sprintf("[%s] \033[31mERROR\033[0m %s\n", l.timestamp(), format), args...)
}

func (l *Logger) Debug(format string, args ...any) {
	if l.minLevel > LevelDebug {
		return
	}
	l.out.Printf(fmt.Sprintf("[%s] \033[36mDEBUG\033[0m %s\n", l.timestamp(), format), args...)
}
