package envconfig

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVar(t *testing.T) {
	t.Setenv("GRAPHGRAD_TEST_VAR", `  "quoted"  `)
	assert.Equal(t, "quoted", Var("GRAPHGRAD_TEST_VAR"))
}

func TestLogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":      slog.LevelInfo,
		"false": slog.LevelInfo,
		"0":     slog.LevelInfo,
		"1":     slog.LevelDebug,
		"true":  slog.LevelDebug,
		"2":     slog.Level(-8),
	}

	for k, v := range cases {
		t.Run(k, func(t *testing.T) {
			t.Setenv("GRAPHGRAD_DEBUG", k)
			assert.Equal(t, v, LogLevel())
		})
	}
}

func TestSeed(t *testing.T) {
	t.Setenv("GRAPHGRAD_SEED", "")
	assert.Equal(t, uint64(0), Seed())

	t.Setenv("GRAPHGRAD_SEED", "1234")
	assert.Equal(t, uint64(1234), Seed())

	t.Setenv("GRAPHGRAD_SEED", "-3")
	assert.Equal(t, uint64(0), Seed())
}

func TestBool(t *testing.T) {
	cases := map[string]bool{
		"":      false,
		"0":     false,
		"false": false,
		"1":     true,
		"yes":   true,
	}

	for k, v := range cases {
		t.Run(k, func(t *testing.T) {
			t.Setenv("GRAPHGRAD_NOPROGRESS", k)
			assert.Equal(t, v, NoProgress())
		})
	}
}

func TestValues(t *testing.T) {
	t.Setenv("GRAPHGRAD_DATA", "/data/mnist")
	vals := Values()
	assert.Equal(t, "/data/mnist", vals["GRAPHGRAD_DATA"])
	assert.Contains(t, vals, "GRAPHGRAD_SEED")
}
