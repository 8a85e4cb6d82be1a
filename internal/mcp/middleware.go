package mcp

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/costwatch/internal/transport"
)

type contextKey int

const tenantIDKey contextKey = 0

func getTenantID(ctx context.Context) string {
	v, _ := ctx.Value(tenantIDKey).(string)
	return v
}

func withTenant(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, tenantIDKey, tenantID)
}

// TenantResolver is shared with the HTTP API so one key store serves both.
type TenantResolver = transport.TenantResolver

// unauthenticated methods carry no tenant data.
var unauthenticated = map[string]bool{
	"initialize":                true,
	"ping":                      true,
	"notifications/initialized": true,
}

func authMiddleware(resolver TenantResolver) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if unauthenticated[method] {
				return next(ctx, method, req)
			}
			tenantID, err := tenantFromRequest(ctx, resolver, req)
			if err != nil {
				return nil, err
			}
			return next(withTenant(ctx, tenantID), method, req)
		}
	}
}

func tenantFromRequest(ctx context.Context, resolver TenantResolver, req sdkmcp.Request) (string, error) {
	token := bearerToken(req)
	if token == "" {
		return "", fmt.Errorf("%w: missing bearer token", transport.ErrUnauthorized)
	}
	tenantID, err := resolver.ResolveTenant(ctx, token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", transport.ErrUnauthorized, err)
	}
	if tenantID == "" {
		return "", fmt.Errorf("%w: token has no tenant", transport.ErrUnauthorized)
	}
	return tenantID, nil
}

func bearerToken(req sdkmcp.Request) string {
	if req == nil {
		return ""
	}
	extra := req.GetExtra()
	if extra == nil || extra.Header == nil {
		return ""
	}
	return transport.BearerToken(extra.Header.Get("Authorization"))
}

// noAuthMiddleware pins every request to one tenant.
func noAuthMiddleware(tenantID string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			return next(withTenant(ctx, tenantID), method, req)
		}
	}
}
