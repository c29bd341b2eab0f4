package main

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// LogType groups the log "type" labels used across the gateway.
var LogType = struct {
	Startup   string
	Web       string
	Routing   string
	Analytics string
	Queue     string
	DB        string
}{
	Startup:   "startup",
	Web:       "web",
	Routing:   "routing",
	Analytics: "analytics",
	Queue:     "queue",
	DB:        "db",
}

// LoggingFormat is the structured log envelope used everywhere in the
// gateway.
type LoggingFormat struct {
	Type           string
	Path           string
	Function       string
	Level          logrus.Level
	Message        string
	Error          error
	AdditionalData map[string]interface{}
}

// AddField attaches an extra structured field to the log entry.
func (l *LoggingFormat) AddField(key string, value interface{}) {
	if l.AdditionalData == nil {
		l.AdditionalData = make(map[string]interface{})
	}
	l.AdditionalData[key] = value
}

// Print emits the entry through the shared logrus logger.
func (l *LoggingFormat) Print() {
	fields := logrus.Fields{"type": l.Type}
	if l.Path != "" {
		fields["path"] = l.Path
	}
	if l.Function != "" {
		fields["function"] = l.Function
	}
	for k, v := range l.AdditionalData {
		fields[k] = v
	}
	if l.Error != nil {
		fields["error"] = l.Error.Error()
	}

	entry := logger.WithFields(fields)
	level := l.Level
	if level == 0 {
		level = logrus.InfoLevel
	}
	entry.Log(level, l.Message)
}

var logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(&logrus.JSONFormatter{})

	if lvl, err := logrus.ParseLevel(strings.ToLower(os.Getenv("LOG_LEVEL"))); err == nil {
		l.SetLevel(lvl)
	} else {
		l.SetLevel(logrus.InfoLevel)
	}
	return l
}
