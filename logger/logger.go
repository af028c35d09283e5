// Package logger holds the process-wide logrus logger.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is usable before Init; it then writes text at info level to stderr.
var Log = logrus.New()

// Init configures Log from LOG_LEVEL (default info) and LOG_FORMAT (json or
// text). Call once from main.
func Init() {
	InitTo(os.Stdout)
}

func InitTo(w io.Writer) {
	level, err := logrus.ParseLevel(envOr("LOG_LEVEL", "info"))
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	Log.SetOutput(w)
}

// Silence discards all output. Tests that drive noisy systems call it.
func Silence() {
	Log.SetOutput(io.Discard)
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
