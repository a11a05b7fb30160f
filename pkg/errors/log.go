package errors

import (
	"go.uber.org/zap"
)

// LogHandler is an ErrorHandler that writes through a zap logger.
type LogHandler struct {
	// Logger receives the entries. Nil falls back to zap.L().
	Logger *zap.Logger
	// Verbose adds stack traces to the entries.
	Verbose bool
}

// NewLogHandler returns a LogHandler writing to logger.
func NewLogHandler(logger *zap.Logger, verbose bool) *LogHandler {
	return &LogHandler{Logger: logger, Verbose: verbose}
}

func (h *LogHandler) logger() *zap.Logger {
	if h.Logger == nil {
		return zap.L()
	}
	return h.Logger
}

// HandleError logs a DriftError at error level.
func (h *LogHandler) HandleError(err *DriftError) {
	if err == nil {
		return
	}
	fields := []zap.Field{
		zap.String("op", err.Op),
		zap.Stringer("kind", err.Kind),
		zap.Error(err.Err),
	}
	if err.Channel != "" {
		fields = append(fields, zap.String("channel", err.Channel))
	}
	if h.Verbose && err.StackTrace != "" {
		fields = append(fields, zap.String("stack", err.StackTrace))
	}
	h.logger().Error("drift error", fields...)
}

// HandlePanic logs a PanicError at error level.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	fields := []zap.Field{zap.Any("value", err.Value)}
	if err.Op != "" {
		fields = append(fields, zap.String("op", err.Op))
	}
	if h.Verbose && err.StackTrace != "" {
		fields = append(fields, zap.String("stack", err.StackTrace))
	}
	h.logger().Error("drift panic", fields...)
}
