package testserver_test

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/costwatch/internal/csvexport"
	"github.com/rpggio/costwatch/internal/domain/contract"
	"github.com/rpggio/costwatch/internal/domain/event"
	"github.com/rpggio/costwatch/internal/domain/health"
	"github.com/rpggio/costwatch/internal/domain/overrun"
	"github.com/rpggio/costwatch/internal/domain/portfolio"
	"github.com/rpggio/costwatch/internal/query"
	"github.com/rpggio/costwatch/internal/testserver"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const sample = "../dataset/testdata/sample.json"

func newSampleServer(t *testing.T) *testserver.TestServer {
	t.Helper()
	ts := testserver.New(t, "test-token", "acme-tenant")
	ts.Import(t, sample)
	return ts
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestReports_Unauthorized(t *testing.T) {
	ts := newSampleServer(t)

	resp, err := http.Get(ts.Server.URL + "/api/v1/reports/portfolio/projects")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = http.Get(ts.Server.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestReports_ContractCost(t *testing.T) {
	ts := newSampleServer(t)

	var row contract.Row
	ts.GetJSON(t, "/api/v1/reports/contracts/c-2/cost", &row)
	require.Equal(t, "C-002", row.Code)
	require.True(t, row.BudgetTotal.Equal(dec("800")))
	require.True(t, row.ActualTotal.Equal(dec("1700")))
	require.True(t, row.OverrunAmount.Decimal.Equal(dec("200")))
	require.True(t, row.RemainingValue.Decimal.IsZero())

	ts.GetJSON(t, "/api/v1/reports/contracts/c-3/cost", &row)
	require.False(t, row.OverrunAmount.Valid)
	require.True(t, row.ActualTotal.Equal(dec("50")))

	resp, _ := ts.Do(t, http.MethodGet, "/api/v1/reports/contracts/missing/cost")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestReports_TenantMismatch(t *testing.T) {
	ts := newSampleServer(t)
	require.NoError(t, ts.AddAPIKey("other-token", "other-tenant"))
	ts.Token = "other-token"

	resp, body := ts.Do(t, http.MethodGet, "/api/v1/reports/contracts/c-1/cost")
	require.Equal(t, http.StatusForbidden, resp.StatusCode, string(body))
	require.Contains(t, string(body), "TENANT_MISMATCH")

	var page query.Page[portfolio.ProjectRollup]
	ts.GetJSON(t, "/api/v1/reports/portfolio/projects", &page)
	require.Empty(t, page.Items)
	require.Equal(t, 0, page.Pagination.LastPage)
}

func TestReports_Overruns(t *testing.T) {
	ts := newSampleServer(t)

	var lists overrun.Lists
	ts.GetJSON(t, "/api/v1/reports/contracts/cost-overruns", &lists)
	require.Len(t, lists.OverBudget, 1)
	require.Equal(t, "c-1", lists.OverBudget[0].ID)
	require.Len(t, lists.Overrun, 1)
	require.Equal(t, "c-2", lists.Overrun[0].ID)

	var page query.Page[contract.Row]
	ts.GetJSON(t, "/api/v1/reports/contracts/cost-overruns/table?type=both&sort_by=code&sort_direction=asc", &page)
	require.Equal(t, 2, page.Pagination.Total)
	require.Equal(t, "C-001", page.Items[0].Code)
	require.Equal(t, "C-002", page.Items[1].Code)

	ts.GetJSON(t, "/api/v1/reports/contracts/cost-overruns/table?type=actual", &page)
	require.Equal(t, 1, page.Pagination.Total)

	resp, body := ts.Do(t, http.MethodGet, "/api/v1/reports/contracts/cost-overruns/export?type=actual")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, bytes.HasPrefix(body, csvexport.BOM))
	lines := strings.Split(strings.TrimSpace(string(body[len(csvexport.BOM):])), "\n")
	require.Len(t, lines, 2)
	require.True(t, strings.HasPrefix(lines[1], "C-002,"))
}

func TestReports_Portfolio(t *testing.T) {
	ts := newSampleServer(t)

	var projects query.Page[portfolio.ProjectRollup]
	ts.GetJSON(t, "/api/v1/reports/portfolio/projects?sort_by=name&sort_direction=asc", &projects)
	require.Len(t, projects.Items, 2)
	bridge := projects.Items[0]
	require.Equal(t, "p-bridge", bridge.ID)
	require.Equal(t, 2, bridge.ContractsCount)
	require.True(t, bridge.ContractsValueTotal.Decimal.Equal(dec("2500")))
	require.True(t, bridge.ActualTotal.Equal(dec("2600")))
	require.Equal(t, 1, bridge.OverBudgetContractsCount)
	require.Equal(t, 1, bridge.OverrunContractsCount)

	depot := projects.Items[1]
	require.Equal(t, 1, depot.ContractsCount)
	require.False(t, depot.ContractsValueTotal.Valid)

	var clients query.Page[portfolio.ClientRollup]
	ts.GetJSON(t, "/api/v1/reports/portfolio/clients?client_id=cl-north", &clients)
	require.Len(t, clients.Items, 1)
	require.Equal(t, 1, clients.Items[0].ProjectsCount)

	var summary struct {
		Summary *portfolio.ProjectSummary `json:"summary"`
	}
	ts.GetJSON(t, "/api/v1/reports/portfolio/projects/p-bridge", &summary)
	require.NotNil(t, summary.Summary)
	require.Equal(t, 1, summary.Summary.OverduePaymentsCount)
	require.True(t, summary.Summary.OverduePaymentsTotal.Equal(dec("250")))
}

func TestReports_HealthSnapshotsAndEvents(t *testing.T) {
	ts := newSampleServer(t)

	var portfolioResp struct {
		Projects []health.ProjectHealth `json:"projects"`
	}
	ts.GetJSON(t, "/api/v1/reports/health/portfolio", &portfolioResp)
	require.Len(t, portfolioResp.Projects, 2)
	byID := map[string]health.Health{}
	for _, p := range portfolioResp.Projects {
		byID[p.Project.ID] = p.Health
	}
	require.Equal(t, health.StatusCritical, byID["p-bridge"].OverallStatus)
	require.Equal(t, health.StatusGood, byID["p-depot"].OverallStatus)

	// served from cache: no second rebuild event
	ts.GetJSON(t, "/api/v1/reports/health/portfolio", &portfolioResp)

	resp, body := ts.Do(t, http.MethodPost, "/api/v1/reports/health/snapshots")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.JSONEq(t, `{"snapshotted":2}`, string(body))

	resp, body = ts.Do(t, http.MethodPost, "/api/v1/reports/health/projects/p-bridge/snapshot")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var history struct {
		History []health.HistoryPoint `json:"history"`
	}
	ts.GetJSON(t, "/api/v1/reports/health/history?days=7", &history)
	require.Equal(t, []health.HistoryPoint{
		{Date: "2026-06-03", Good: 1, Critical: 1, Total: 2},
	}, history.History)

	var events struct {
		Events []event.Event `json:"events"`
	}
	ts.GetJSON(t, "/api/v1/reports/events", &events)
	counts := map[event.Type]int{}
	for _, e := range events.Events {
		counts[e.Type]++
	}
	require.Equal(t, 1, counts[event.TypePortfolioRebuilt])
	require.Equal(t, 1, counts[event.TypeSnapshotSweep])
}

func TestReports_ImportRefreshesHealthPortfolio(t *testing.T) {
	ts := newSampleServer(t)

	var portfolioResp struct {
		Projects []health.ProjectHealth `json:"projects"`
	}
	ts.GetJSON(t, "/api/v1/reports/health/portfolio", &portfolioResp)
	require.Len(t, portfolioResp.Projects, 2)

	extra := filepath.Join(t.TempDir(), "extra.json")
	require.NoError(t, os.WriteFile(extra, []byte(`{
		"tenant_id": "acme-tenant",
		"projects": [{"id": "p-tunnel", "code": "TUNNEL", "name": "Service tunnel", "status": "active", "client_id": "cl-north"}]
	}`), 0o600))
	ts.Import(t, extra)

	ts.GetJSON(t, "/api/v1/reports/health/portfolio", &portfolioResp)
	require.Len(t, portfolioResp.Projects, 3)

	var events struct {
		Events []event.Event `json:"events"`
	}
	ts.GetJSON(t, "/api/v1/reports/events", &events)
	rebuilds := 0
	for _, e := range events.Events {
		if e.Type == event.TypePortfolioRebuilt {
			rebuilds++
		}
	}
	require.Equal(t, 2, rebuilds)
}

func TestMCP_OverHTTP(t *testing.T) {
	ts := newSampleServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, &sdkmcp.StreamableClientTransport{
		Endpoint:   ts.Server.URL + "/mcp",
		HTTPClient: &http.Client{Transport: bearer{token: ts.Token}},
	}, nil)
	require.NoError(t, err)
	defer session.Close()

	result, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      "get_contract_cost",
		Arguments: map[string]any{"contract_id": "c-1"},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)
	text, ok := result.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok)
	require.Contains(t, text.Text, `"code":"C-001"`)
}

type bearer struct {
	token string
}

func (b bearer) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+b.token)
	return http.DefaultTransport.RoundTrip(req)
}
