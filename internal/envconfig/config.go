// Package envconfig reads settings from GRAPHGRAD_* environment variables.
package envconfig

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Var returns an environment variable with surrounding space and quotes
// removed.
func Var(key string) string {
	return strings.Trim(strings.TrimSpace(os.Getenv(key)), "\"'")
}

// LogLevel returns the log level from GRAPHGRAD_DEBUG.
// A true boolean selects Debug; an integer n selects slog.Level(-4n).
// Default: Info
func LogLevel() slog.Level {
	level := slog.LevelInfo
	if s := Var("GRAPHGRAD_DEBUG"); s != "" {
		if b, _ := strconv.ParseBool(s); b {
			level = slog.LevelDebug
		} else if i, _ := strconv.ParseInt(s, 10, 64); i != 0 {
			level = slog.Level(i * -4)
		}
	}

	return level
}

var (
	// Seed overrides the configured random seed when non-zero (GRAPHGRAD_SEED).
	Seed = Uint64("GRAPHGRAD_SEED", 0)
	// Config is the default configuration file path (GRAPHGRAD_CONFIG).
	Config = String("GRAPHGRAD_CONFIG")
	// DataDir overrides the configured dataset directory (GRAPHGRAD_DATA).
	DataDir = String("GRAPHGRAD_DATA")
	// NoProgress disables per-step progress records (GRAPHGRAD_NOPROGRESS).
	NoProgress = Bool("GRAPHGRAD_NOPROGRESS")
)

// BoolWithDefault returns a reader for a boolean variable. Values that do
// not parse count as true.
func BoolWithDefault(k string) func(defaultValue bool) bool {
	return func(defaultValue bool) bool {
		if s := Var(k); s != "" {
			b, err := strconv.ParseBool(s)
			if err != nil {
				return true
			}
			return b
		}
		return defaultValue
	}
}

// Bool returns a reader for a boolean variable that defaults to false.
func Bool(k string) func() bool {
	withDefault := BoolWithDefault(k)
	return func() bool {
		return withDefault(false)
	}
}

// String returns a reader for a string variable.
func String(s string) func() string {
	return func() string {
		return Var(s)
	}
}

// Uint64 returns a reader for an unsigned variable with a default.
func Uint64(key string, defaultValue uint64) func() uint64 {
	return func() uint64 {
		if s := Var(key); s != "" {
			if n, err := strconv.ParseUint(s, 10, 64); err != nil {
				slog.Warn("invalid environment variable, using default", "key", key, "value", s, "default", defaultValue)
			} else {
				return n
			}
		}
		return defaultValue
	}
}

// Values returns the current value of every variable, for display.
func Values() map[string]string {
	return map[string]string{
		"GRAPHGRAD_DEBUG":      LogLevel().String(),
		"GRAPHGRAD_SEED":       strconv.FormatUint(Seed(), 10),
		"GRAPHGRAD_CONFIG":     Config(),
		"GRAPHGRAD_DATA":       DataDir(),
		"GRAPHGRAD_NOPROGRESS": strconv.FormatBool(NoProgress()),
	}
}
