package mcp

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// callLogger logs one line per completed request. Tool calls are logged at
// info with their outcome; protocol chatter and payloads only at debug.
func callLogger(logger *slog.Logger) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if logger == nil || strings.HasPrefix(method, "notifications/") {
				return next(ctx, method, req)
			}

			start := time.Now()
			result, err := next(ctx, method, req)

			attrs := []any{
				"method", method,
				"tenant_id", getTenantID(ctx),
				"duration_ms", time.Since(start).Milliseconds(),
			}
			level := slog.LevelDebug
			if call, ok := req.(*sdkmcp.CallToolRequest); ok && call.Params != nil {
				level = slog.LevelInfo
				attrs = append(attrs, "tool", call.Params.Name)
				if logger.Enabled(ctx, slog.LevelDebug) {
					attrs = append(attrs, "arguments", string(call.Params.Arguments))
				}
			}
			if toolResult, ok := result.(*sdkmcp.CallToolResult); ok && toolResult != nil {
				attrs = append(attrs, "is_error", toolResult.IsError)
				if toolResult.IsError {
					attrs = append(attrs, "error_code", errorCodeOf(toolResult))
				}
			}
			if err != nil {
				logger.Warn("mcp request failed", append(attrs, "error", err)...)
				return result, err
			}
			logger.Log(ctx, level, "mcp request", attrs...)
			return result, err
		}
	}
}

// errorCodeOf reads the code from a tool error result produced by errorResult.
func errorCodeOf(result *sdkmcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return ""
	}
	text, ok := result.Content[0].(*sdkmcp.TextContent)
	if !ok {
		return ""
	}
	var apiErr APIError
	if json.Unmarshal([]byte(text.Text), &apiErr) != nil {
		return ""
	}
	return apiErr.Code
}
