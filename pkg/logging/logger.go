package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
)

// Prefix is written in front of every line of text log output.
const Prefix = "🦔 "

// NewLogger creates a new hclog logger with standard settings.
//
// A level of the form "json:<level>" switches to JSON output, as does
// HEDGEARC_JSON_LOG=1.
func NewLogger(name string, level string, output io.Writer) hclog.Logger {
	if output == nil {
		output = os.Stderr
	}

	jsonFormat := os.Getenv("HEDGEARC_JSON_LOG") == "1"
	if strings.HasPrefix(level, "json") {
		jsonFormat = true
		if _, rest, ok := strings.Cut(level, ":"); ok {
			level = rest
		} else {
			level = ""
		}
	}
	if level == "" {
		level = GetLogLevel()
	}

	if !jsonFormat {
		output = NewPrefixWriter(Prefix, output)
	}

	opts := &hclog.LoggerOptions{
		Name:       name,
		Level:      hclog.LevelFromString(level),
		JSONFormat: jsonFormat,
		Output:     output,
		TimeFormat: "2006-01-02T15:04:05Z", // UTC ISO format
		TimeFn: func() time.Time {
			return time.Now().UTC()
		},
	}

	return hclog.New(opts)
}

// GetLogLevel returns the configured log level from environment
func GetLogLevel() string {
	level := os.Getenv("HEDGEARC_LOG_LEVEL")
	if level == "" {
		level = "warn"
	}
	return level
}

// OrNull returns logger, or a logger that discards everything when nil.
func OrNull(logger hclog.Logger) hclog.Logger {
	if logger == nil {
		return hclog.NewNullLogger()
	}
	return logger
}
