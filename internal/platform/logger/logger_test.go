package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeKVs(t *testing.T) {
	l := &Logger{redact: true, salt: "s"}
	out := l.sanitizeKVs([]interface{}{
		"password", "hunter2",
		"owner_id", "6f1c",
		"path", "/api/ideas",
		"dangling",
	})
	assert.Equal(t, "[REDACTED]", out[1])
	assert.Contains(t, out[3], "hash:")
	assert.Equal(t, "/api/ideas", out[5])
	assert.Equal(t, "dangling", out[6])
}

func TestSanitizeDisabled(t *testing.T) {
	l := &Logger{redact: false}
	kv := []interface{}{"token", "abc"}
	assert.Equal(t, kv, l.sanitizeKVs(kv))
}

func TestJWTValueRedacted(t *testing.T) {
	l := &Logger{redact: true}
	jwt := "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxMjM0NTY3ODkwIn0.sig"
	assert.Equal(t, "[REDACTED]", l.sanitizeValue("note", jwt))
}

func TestTestModeIsNop(t *testing.T) {
	l, err := NewWithOptions(Options{Mode: "test"})
	assert.NoError(t, err)
	l.Info("ignored", "k", "v")
}
