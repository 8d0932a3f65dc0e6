package diag

import (
	"log/slog"
)

// Warning is a non-fatal diagnostic produced while loading or navigating
// help. The affected item has already been dropped from the result.
type Warning struct {
	Component string `json:"component"`
	Message   string `json:"message"`
}

// String renders the warning in the "component: message" shape used for
// console and log capture.
func (w Warning) String() string {
	return w.Component + ": " + w.Message
}

// Emit logs every warning at Warn level on the given logger, attaching attrs
// to each line. A nil logger falls back to slog.Default().
func Emit(logger *slog.Logger, warnings []Warning, attrs ...any) {
	if logger == nil {
		logger = slog.Default()
	}
	for _, w := range warnings {
		logger.Warn(w.String(), attrs...)
	}
}
