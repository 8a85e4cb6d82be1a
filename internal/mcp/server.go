package mcp

import (
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Services contains all report services needed by MCP.
type Services struct {
	Contracts ContractService
	Overruns  OverrunService
	Portfolio PortfolioService
	Health    HealthService
	Events    EventService
}

// Config contains server configuration.
type Config struct {
	Services      Services
	Resolver      TenantResolver
	AuthEnabled   bool
	TransportMode string // "stdio" or "http"
	DefaultTenant string
	Version       string
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	version := cfg.Version
	if version == "" {
		version = "0.1.0"
	}
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "costwatch",
		Version: version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	defaultTenant := cfg.DefaultTenant
	if defaultTenant == "" {
		defaultTenant = "default"
	}
	// Later middleware wraps earlier, so the tenant is set before calls are logged.
	server.AddReceivingMiddleware(callLogger(cfg.Logger))
	// Stdio is local only and always runs as the configured tenant.
	if cfg.TransportMode != "stdio" && cfg.AuthEnabled {
		server.AddReceivingMiddleware(authMiddleware(cfg.Resolver))
	} else {
		server.AddReceivingMiddleware(noAuthMiddleware(defaultTenant))
	}

	registerTools(server, NewHandler(cfg.Services))

	return server
}
