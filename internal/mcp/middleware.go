package mcp

import (
	"context"
	"log/slog"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// LoggingMiddleware returns middleware that logs incoming method calls.
// Tool, prompt and resource calls log at info; protocol chatter such as
// ping and notifications logs at debug.
func LoggingMiddleware() sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			start := time.Now()

			result, err := next(ctx, method, req)

			attrs := []slog.Attr{
				slog.String("method", method),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
			}
			if err != nil {
				attrs = append(attrs, slog.String("error", err.Error()))
				slog.LogAttrs(ctx, slog.LevelError, "method call failed", attrs...)
				return result, err
			}
			slog.LogAttrs(ctx, methodLevel(method), "method call completed", attrs...)
			return result, nil
		}
	}
}

func methodLevel(method string) slog.Level {
	switch {
	case strings.HasPrefix(method, "tools/call"),
		strings.HasPrefix(method, "prompts/get"),
		strings.HasPrefix(method, "resources/read"):
		return slog.LevelInfo
	}
	return slog.LevelDebug
}
