package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeKVs(t *testing.T) {
	out := sanitizeKVs([]interface{}{"user", "u1", "API_KEY", "u1.abc", "password", "hunter2", "dangling"})

	assert.Equal(t, []interface{}{"user", "u1", "API_KEY", "[REDACTED]", "password", "[REDACTED]", "dangling"}, out)
}

func TestNopLogger(t *testing.T) {
	l := Nop().With("component", "test")
	l.Info("hello", "token", "secret")
	l.Sync()
}
