package main

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCSRFKey(t *testing.T) {
	key, err := loadCSRFKey("")
	require.NoError(t, err)
	assert.Len(t, key, 32)

	key, err = loadCSRFKey("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)
	assert.Equal(t, []byte("0123456789abcdef0123456789abcdef"), key)

	_, err = loadCSRFKey("short")
	assert.Error(t, err)
}

func TestTrustedOrigins(t *testing.T) {
	assert.Equal(t, []string{"dash.example.com"}, trustedOrigins("https://dash.example.com"))
	assert.Equal(t, []string{"localhost:8080"}, trustedOrigins("http://localhost:8080/app"))
	assert.Nil(t, trustedOrigins(""))
}

func TestLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, logLevel("debug"))
	assert.Equal(t, slog.LevelWarn, logLevel("WARN"))
	assert.Equal(t, slog.LevelInfo, logLevel(""))
	assert.Equal(t, slog.LevelInfo, logLevel("chatty"))
}
