package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/costwatch/internal/app"
	"github.com/rpggio/costwatch/internal/config"
	"github.com/rpggio/costwatch/internal/logging"
	"github.com/rpggio/costwatch/internal/mcp"
	"github.com/rpggio/costwatch/internal/sqlite"
	"github.com/rpggio/costwatch/internal/transport"
)

const (
	version         = "0.1.0"
	shutdownTimeout = 5 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "costwatch: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// stdout carries JSON-RPC in stdio mode.
	console := io.Writer(os.Stdout)
	if cfg.Transport.Mode == "stdio" {
		console = os.Stderr
	}
	logger, logCloser, err := logging.New(cfg.Log, console)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	db, err := sqlite.Open(cfg.DB.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	svc := app.New(db, cfg, nil, logger)
	mcpServer := mcp.NewServer(mcp.Config{
		Services:      svc.MCPServices(),
		Resolver:      svc.Resolver(cfg.Auth),
		AuthEnabled:   cfg.Auth.Enabled,
		TransportMode: cfg.Transport.Mode,
		DefaultTenant: cfg.Auth.Tenant,
		Version:       version,
		Logger:        logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Transport.Mode == "stdio" {
		return serveStdio(ctx, logger, mcpServer)
	}
	return serveHTTP(ctx, logger, cfg, svc, mcpServer)
}

func serveStdio(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server) error {
	logger.Info("serving mcp over stdio")
	err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{})
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("stdio transport: %w", err)
	}
	logger.Info("stdio transport closed")
	return nil
}

func serveHTTP(ctx context.Context, logger *slog.Logger, cfg config.Config, svc *app.App, mcpServer *sdkmcp.Server) error {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{SessionTimeout: 30 * time.Minute},
	)

	httpServer := &http.Server{
		Addr: fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: transport.NewServer(svc.HTTPServices(), transport.Options{
			Auth:           svc.AuthMiddleware(cfg.Auth),
			RequestTimeout: cfg.Server.RequestTimeout,
			MCP:            mcpHandler,
			Logger:         logger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", httpServer.Addr, "auth", cfg.Auth.Enabled, "auth_mode", cfg.Auth.Mode)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
