package services

import (
	"encoding/json"
	"log"
	"os"
	"strings"
	"time"
)

// Logger is the common logging interface for all services.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// JSONLogger writes one JSON object per line, suitable for log collectors.
type JSONLogger struct {
	logger  *log.Logger
	service string
}

func NewJSONLogger(service string) *JSONLogger {
	return &JSONLogger{
		logger:  log.New(os.Stdout, "", 0),
		service: service,
	}
}

func (l *JSONLogger) Info(msg string, keysAndValues ...interface{}) {
	l.write("INFO", msg, keysAndValues...)
}

func (l *JSONLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.write("WARN", msg, keysAndValues...)
}

func (l *JSONLogger) Error(msg string, keysAndValues ...interface{}) {
	l.write("ERROR", msg, keysAndValues...)
}

func (l *JSONLogger) write(level, msg string, keysAndValues ...interface{}) {
	entry := map[string]interface{}{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"level":     level,
		"service":   l.service,
		"message":   msg,
	}
	if len(keysAndValues) > 1 {
		fields := make(map[string]interface{}, len(keysAndValues)/2)
		for i := 0; i+1 < len(keysAndValues); i += 2 {
			if key, ok := keysAndValues[i].(string); ok {
				fields[key] = keysAndValues[i+1]
			}
		}
		if len(fields) > 0 {
			entry["fields"] = fields
		}
	}
	data, _ := json.Marshal(entry)
	l.logger.Println(string(data))
}

// NoOpLogger discards everything; used in tests.
type NoOpLogger struct{}

func (NoOpLogger) Info(msg string, keysAndValues ...interface{})  {}
func (NoOpLogger) Warn(msg string, keysAndValues ...interface{})  {}
func (NoOpLogger) Error(msg string, keysAndValues ...interface{}) {}

// NewLogger picks a logger from the environment: tests get the no-op
// logger, everything else gets structured JSON.
func NewLogger(service string) Logger {
	if strings.EqualFold(os.Getenv("GO_ENV"), "test") {
		return NoOpLogger{}
	}
	return NewJSONLogger(service)
}
