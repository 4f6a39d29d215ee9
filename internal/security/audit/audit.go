package audit

import (
	"context"
	"log/slog"
	"time"
)

// RequestIDKey is the context key the request-ID middleware stores under,
// shared so audit entries correlate with request logs.
type RequestIDKey struct{}

type Logger struct {
	logger *slog.Logger
}

func NewLogger(logger *slog.Logger) *Logger {
	return &Logger{logger: logger}
}

func (al *Logger) LogAction(ctx context.Context, subdomain, action, resource, resourceID, status string) {
	requestID := ""
	if reqID, ok := ctx.Value(RequestIDKey{}).(string); ok {
		requestID = reqID
	}

	al.logger.Info("audit",
		slog.String("action", action),
		slog.String("resource", resource),
		slog.String("resource_id", resourceID),
		slog.String("account", subdomain),
		slog.String("status", status),
		slog.String("request_id", requestID),
		slog.Time("timestamp", time.Now()),
	)
}

func (al *Logger) LogSave(ctx context.Context, subdomain, resource, status string) {
	al.LogAction(ctx, subdomain, "save", resource, "", status)
}

func (al *Logger) LogDelete(ctx context.Context, subdomain, resource, resourceID, status string) {
	al.LogAction(ctx, subdomain, "delete", resource, resourceID, status)
}

func (al *Logger) LogReorder(ctx context.Context, subdomain, resource, status string) {
	al.LogAction(ctx, subdomain, "reorder", resource, "", status)
}

func (al *Logger) LogDenied(ctx context.Context, subdomain, reason string) {
	al.LogAction(ctx, subdomain, "access_denied", "api", "", reason)
}
