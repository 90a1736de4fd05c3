package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type LogLevel string

const (
	DEBUG LogLevel = "debug"
	INFO  LogLevel = "info"
	WARN  LogLevel = "warn"
	ERROR LogLevel = "error"
)

// Logger is a key/value structured logger. Events are snake_case names,
// fields follow as alternating key, value pairs or a single map.
type Logger struct {
	zl zerolog.Logger
}

var (
	global *Logger
	mu     sync.RWMutex
)

// New builds a logger writing to w. A nil writer means stdout.
func New(level LogLevel, jsonFormat bool, w io.Writer) *Logger {
	if w == nil {
		w = os.Stdout
	}
	if !jsonFormat {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
	}
	zl := zerolog.New(w).Level(parseLevel(level)).With().Timestamp().Logger()
	return &Logger{zl: zl}
}

// Init replaces the process-wide logger.
func Init(level LogLevel, jsonFormat bool, w io.Writer) {
	l := New(level, jsonFormat, w)
	mu.Lock()
	global = l
	mu.Unlock()
}

func GetLogger() *Logger {
	mu.RLock()
	l := global
	mu.RUnlock()
	if l == nil {
		Init(INFO, false, os.Stdout)
		mu.RLock()
		l = global
		mu.RUnlock()
	}
	return l
}

func parseLevel(level LogLevel) zerolog.Level {
	switch level {
	case DEBUG:
		return zerolog.DebugLevel
	case WARN, "warning":
		return zerolog.WarnLevel
	case ERROR:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// WithContext returns a child logger that always carries the given fields.
func (l *Logger) WithContext(fields ...interface{}) *Logger {
	return &Logger{zl: l.zl.With().Fields(toFields(fields)).Logger()}
}

func (l *Logger) Debug(msg string, fields ...interface{}) {
	l.zl.Debug().Fields(toFields(fields)).Msg(msg)
}

func (l *Logger) Info(msg string, fields ...interface{}) {
	l.zl.Info().Fields(toFields(fields)).Msg(msg)
}

func (l *Logger) Warn(msg string, fields ...interface{}) {
	l.zl.Warn().Fields(toFields(fields)).Msg(msg)
}

func (l *Logger) Error(msg string, fields ...interface{}) {
	l.zl.Error().Fields(toFields(fields)).Msg(msg)
}

// Zerolog exposes the underlying logger for libraries that want one.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.zl
}

func WithContext(fields ...interface{}) *Logger { return GetLogger().WithContext(fields...) }

func Debug(msg string, fields ...interface{}) { GetLogger().Debug(msg, fields...) }
func Info(msg string, fields ...interface{})  { GetLogger().Info(msg, fields...) }
func Warn(msg string, fields ...interface{})  { GetLogger().Warn(msg, fields...) }
func Error(msg string, fields ...interface{}) { GetLogger().Error(msg, fields...) }

func toFields(fields []interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(fields)/2+1)
	for i := 0; i < len(fields); i++ {
		switch v := fields[i].(type) {
		case map[string]interface{}:
			for k, val := range v {
				out[k] = val
			}
		case string:
			if i+1 < len(fields) {
				out[v] = fields[i+1]
				i++
			} else {
				out[v] = nil
			}
		default:
			out[fmt.Sprintf("field_%d", i)] = v
		}
	}
	return out
}
