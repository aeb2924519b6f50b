package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Config holds logger configuration.
type Config struct {
	Level       string
	Format      string // "json" or "text"
	Output      io.Writer
	Component   string
	Environment string
}

// Logger wraps slog.Logger with component scoping.
type Logger struct {
	*slog.Logger
}

func New(cfg Config) *Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}

	l := slog.New(handler)
	if cfg.Component != "" {
		l = l.With("component", cfg.Component)
	}
	if cfg.Environment != "" {
		l = l.With("environment", cfg.Environment)
	}
	return &Logger{Logger: l}
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *Logger {
	return New(Config{Output: io.Discard})
}

// WithComponent creates a logger with component context
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{Logger: l.Logger.With("component", component)}
}

// With returns a logger carrying extra key/value pairs.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// Error logs at error level with the caller's file and line.
func (l *Logger) Error(msg string, args ...any) {
	if _, file, line, ok := runtime.Caller(1); ok {
		args = append(args, "caller", fmt.Sprintf("%s:%d", filepath.Base(file), line))
	}
	l.Logger.Error(msg, args...)
}

// Fatal logs and exits.
func (l *Logger) Fatal(msg string, args ...any) {
	l.Logger.Error(msg, args...)
	time.Sleep(100 * time.Millisecond)
	os.Exit(1)
}

// Middleware logs every request once it completes.
func (l *Logger) Middleware() gin.HandlerFunc {
	httpLog := l.WithComponent("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		args := []any{
			"request_id", c.GetString("request_id"),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"remote_addr", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			args = append(args, "errors", c.Errors.String())
		}
		switch {
		case status >= 500:
			httpLog.Logger.Error("request completed", args...)
		case status >= 400:
			httpLog.Warn("request completed", args...)
		default:
			httpLog.Info("request completed", args...)
		}
	}
}
