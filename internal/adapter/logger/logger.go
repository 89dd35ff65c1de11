package logger

import (
	"log/slog"
	"os"
	"time"
)

// LoggerAdapter implements ports.LoggerPort on top of slog's JSON handler.
type LoggerAdapter struct {
	log *slog.Logger
}

func NewLoggerAdapter(env string) *LoggerAdapter {
	level := slog.LevelDebug
	if env == "production" {
		level = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					return slog.Attr{Key: "timestamp", Value: slog.StringValue(t.Format(time.RFC3339))}
				}
			}
			return a
		},
	})

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}

	return &LoggerAdapter{
		log: slog.New(handler).With("hostname", hostname),
	}
}

func fieldsToArgs(fields map[string]interface{}) []any {
	args := make([]any, 0, len(fields)*2)
	for key, value := range fields {
		args = append(args, key, value)
	}
	return args
}

func (l *LoggerAdapter) Debug(message string, fields map[string]interface{}) {
	l.log.Debug(message, fieldsToArgs(fields)...)
}

func (l *LoggerAdapter) Info(message string, fields map[string]interface{}) {
	l.log.Info(message, fieldsToArgs(fields)...)
}

func (l *LoggerAdapter) Warn(message string, fields map[string]interface{}) {
	l.log.Warn(message, fieldsToArgs(fields)...)
}

func (l *LoggerAdapter) Error(message string, fields map[string]interface{}) {
	l.log.Error(message, fieldsToArgs(fields)...)
}
