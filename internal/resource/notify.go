package resource

import "log/slog"

// Notifier receives user-facing operation outcomes. The UI layer renders
// these as toasts; headless callers get the slog-backed default.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// LogNotifier writes notifications to a structured logger.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) Success(message string) {
	if n.Logger != nil {
		n.Logger.Info(message)
	}
}

func (n LogNotifier) Error(message string) {
	if n.Logger != nil {
		n.Logger.Error(message)
	}
}

// NopNotifier discards notifications.
type NopNotifier struct{}

func (NopNotifier) Success(string) {}

func (NopNotifier) Error(string) {}
