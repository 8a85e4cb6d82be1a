// Package testserver runs the full HTTP stack over an in-memory database.
package testserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/costwatch/internal/app"
	"github.com/rpggio/costwatch/internal/config"
	"github.com/rpggio/costwatch/internal/dataset"
	"github.com/rpggio/costwatch/internal/mcp"
	"github.com/rpggio/costwatch/internal/sqlite"
	"github.com/rpggio/costwatch/internal/transport"
	"github.com/stretchr/testify/require"
)

// Now is the fixed report clock of every test server.
var Now = time.Date(2026, 6, 3, 14, 0, 0, 0, time.UTC)

type TestServer struct {
	Server   *httptest.Server
	DB       *sqlite.DB
	App      *app.App
	Token    string
	TenantID string
}

func New(t *testing.T, token, tenantID string) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	cfg := config.Default()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := app.New(db, cfg, func() time.Time { return Now }, logger)

	mcpServer := mcp.NewServer(mcp.Config{
		Services:      svc.MCPServices(),
		Resolver:      svc.APIKeys,
		AuthEnabled:   true,
		TransportMode: "http",
		Logger:        logger,
	})
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{SessionTimeout: time.Minute},
	)

	server := httptest.NewServer(transport.NewServer(svc.HTTPServices(), transport.Options{
		Auth:           transport.AuthMiddleware(svc.APIKeys),
		RequestTimeout: 10 * time.Second,
		MCP:            mcpHandler,
		Logger:         logger,
	}))

	ts := &TestServer{
		Server:   server,
		DB:       db,
		App:      svc,
		Token:    token,
		TenantID: tenantID,
	}

	require.NoError(t, ts.AddAPIKey(token, tenantID))

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return ts
}

func (ts *TestServer) AddAPIKey(token, tenantID string) error {
	return ts.App.APIKeys.Add(context.Background(), tenantID, token, "test")
}

// Import loads a dataset file. The dataset's tenant must match ts.TenantID
// for its rows to be visible through ts.Token.
func (ts *TestServer) Import(t *testing.T, path string) dataset.Counts {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	ds, err := dataset.Decode(file)
	require.NoError(t, err)
	counts, err := ts.App.Import(context.Background(), ds)
	require.NoError(t, err)
	return counts
}

// Do sends an authenticated request and returns the response with its body read.
func (ts *TestServer) Do(t *testing.T, method, path string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, ts.Server.URL+path, nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+ts.Token)

	resp, err := ts.Server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

// GetJSON performs an authenticated GET, requires 200 and decodes the body into out.
func (ts *TestServer) GetJSON(t *testing.T, path string, out any) {
	t.Helper()
	resp, body := ts.Do(t, http.MethodGet, path)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.NoError(t, json.Unmarshal(body, out))
}
