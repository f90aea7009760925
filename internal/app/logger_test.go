package app

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLoggerLevelFollowsEnvironment(t *testing.T) {
	dev := NewLogger(&Config{LogFormat: "pretty"})
	assert.True(t, dev.Enabled(context.Background(), slog.LevelDebug))

	prod := NewLogger(&Config{LogFormat: "json", AppEnv: "production"})
	assert.False(t, prod.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, prod.Enabled(context.Background(), slog.LevelInfo))
}
