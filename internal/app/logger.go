package app

import (
	"log/slog"
	"os"
)

// NewLogger builds the process logger: JSON for log collectors, text
// for terminals. Debug level stays on outside production so local runs
// show cache and transport chatter.
func NewLogger(cfg *Config) *slog.Logger {
	level := slog.LevelDebug
	if cfg.IsProduction() {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg != nil && cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
