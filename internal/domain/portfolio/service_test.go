package portfolio_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/rpggio/costwatch/internal/domain/client"
	"github.com/rpggio/costwatch/internal/domain/contract"
	"github.com/rpggio/costwatch/internal/domain/portfolio"
	"github.com/rpggio/costwatch/internal/domain/project"
	"github.com/rpggio/costwatch/internal/domain/tenant"
	"github.com/rpggio/costwatch/internal/money"
	"github.com/rpggio/costwatch/internal/query"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func strPtr(s string) *string {
	return &s
}

type fakeProjects struct {
	projects []project.Project
}

func (f fakeProjects) List(_ context.Context, _ string, opts project.ListOptions) ([]project.Project, error) {
	var out []project.Project
	for _, p := range f.projects {
		if opts.ID != "" && p.ID != opts.ID {
			continue
		}
		if opts.Status != "" && p.Status != opts.Status {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f fakeProjects) Resolve(_ context.Context, tenantID, id string) (*project.Project, error) {
	for _, p := range f.projects {
		if p.ID == id {
			if err := tenant.Check(tenantID, p.TenantID, "project", id); err != nil {
				return nil, err
			}
			return &p, nil
		}
	}
	return nil, project.ErrProjectNotFound
}

type fakeClients struct {
	clients []client.Client
}

func (f fakeClients) List(context.Context, string, client.ListOptions) ([]client.Client, error) {
	return f.clients, nil
}

type fakeCosts struct {
	rows []contract.Row
}

func (f fakeCosts) Rows(_ context.Context, _ string, filter contract.Filter) ([]contract.Row, error) {
	var out []contract.Row
	for _, r := range f.rows {
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		if filter.ProjectID != "" && (r.ProjectID == nil || *r.ProjectID != filter.ProjectID) {
			continue
		}
		if filter.ClientID != "" && (r.ClientID == nil || *r.ClientID != filter.ClientID) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

type fakePayments struct {
	payments []contract.Payment
	today    time.Time
}

func (f *fakePayments) OverduePayments(_ context.Context, _ string, _ contract.PaymentFilter, today time.Time) ([]contract.Payment, error) {
	f.today = today
	return f.payments, nil
}

type rowFixture struct {
	code, projectID, clientID, value, actual, budget, currency string
	status                                                     contract.Status
}

func buildRow(s rowFixture) contract.Row {
	c := contract.Contract{
		ID:       "id-" + s.code,
		TenantID: "tenant1",
		Code:     s.code,
		Status:   contract.StatusActive,
		Currency: s.currency,
	}
	if s.status != "" {
		c.Status = s.status
	}
	if s.projectID != "" {
		c.ProjectID = strPtr(s.projectID)
	}
	if s.clientID != "" {
		c.ClientID = strPtr(s.clientID)
	}
	if s.value != "" {
		c.TotalValue = money.Some(dec(s.value))
	}
	var budget, expenses []contract.LineItem
	if s.budget != "" {
		budget = append(budget, contract.LineItem{Amount: money.Some(dec(s.budget))})
	}
	if s.actual != "" {
		expenses = append(expenses, contract.LineItem{Amount: money.Some(dec(s.actual))})
	}
	return contract.Row{Contract: c, Cost: contract.Compute(c, budget, expenses)}
}

func newService(projects []project.Project, clients []client.Client, rows []contract.Row, payments *fakePayments) *portfolio.Service {
	if payments == nil {
		payments = &fakePayments{}
	}
	now := func() time.Time { return time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC) }
	return portfolio.NewService(fakeProjects{projects}, fakeClients{clients}, fakeCosts{rows}, payments, now, nil)
}

func TestRollup_NullValueContractExcludedFromSums(t *testing.T) {
	rows := []contract.Row{
		buildRow(rowFixture{code: "A", projectID: "p1", actual: "300"}),
		buildRow(rowFixture{code: "B", projectID: "p1", value: "1000", actual: "1100"}),
	}
	m := portfolio.Rollup(rows)

	require.Equal(t, 2, m.ContractsCount)
	require.True(t, m.ContractsValueTotal.Valid)
	require.True(t, m.ContractsValueTotal.Decimal.Equal(dec("1000")))
	require.True(t, m.OverrunAmountTotal.Equal(dec("100")))
	require.True(t, m.ActualTotal.Equal(dec("1100")))
	require.Equal(t, 1, m.OverrunContractsCount)
	require.Equal(t, 0, m.OverBudgetContractsCount)
}

func TestRollup_ZeroValueTotalIsNull(t *testing.T) {
	m := portfolio.Rollup([]contract.Row{buildRow(rowFixture{code: "A", value: "0"})})
	require.False(t, m.ContractsValueTotal.Valid)
	require.Equal(t, 1, m.ContractsCount)

	m = portfolio.Rollup(nil)
	require.False(t, m.ContractsValueTotal.Valid)
	require.Equal(t, money.DefaultCurrency, m.Currency)
}

func TestRollup_FirstNonDefaultCurrency(t *testing.T) {
	m := portfolio.Rollup([]contract.Row{
		buildRow(rowFixture{code: "A", value: "10", currency: "USD"}),
		buildRow(rowFixture{code: "B", value: "10", currency: "eur"}),
		buildRow(rowFixture{code: "C", value: "10", currency: "GBP"}),
	})
	require.Equal(t, "EUR", m.Currency)
}

func TestProjects_RollupSortAndFilter(t *testing.T) {
	projects := []project.Project{
		{ID: "p1", TenantID: "tenant1", Code: "P-1", Name: "Bridge", Status: "active"},
		{ID: "p2", TenantID: "tenant1", Code: "P-2", Name: "Airport", Status: "active"},
		{ID: "p3", TenantID: "tenant1", Code: "P-3", Name: "Canal", Status: "on_hold"},
	}
	rows := []contract.Row{
		buildRow(rowFixture{code: "A", projectID: "p1", actual: "300"}),
		buildRow(rowFixture{code: "B", projectID: "p1", value: "1000", actual: "1100"}),
		buildRow(rowFixture{code: "C", projectID: "p2", value: "500", actual: "900", budget: "600"}),
	}
	svc := newService(projects, nil, rows, nil)
	ctx := context.Background()

	page, err := svc.Projects(ctx, "tenant1", portfolio.ProjectFilter{}, query.Pagination{}, query.Sort{})
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	require.Equal(t, "P-2", page.Items[0].Code)
	require.True(t, page.Items[0].OverrunAmountTotal.Equal(dec("400")))
	require.Equal(t, 1, page.Items[0].OverBudgetContractsCount)
	require.Equal(t, "P-1", page.Items[1].Code)
	require.True(t, page.Items[1].ContractsValueTotal.Decimal.Equal(dec("1000")))
	require.Equal(t, "P-3", page.Items[2].Code)
	require.False(t, page.Items[2].ContractsValueTotal.Valid)
	require.Equal(t, 0, page.Items[2].ContractsCount)

	page, err = svc.Projects(ctx, "tenant1", portfolio.ProjectFilter{}, query.Pagination{}, query.Sort{By: "name"})
	require.NoError(t, err)
	require.Equal(t, "Airport", page.Items[0].Name)

	page, err = svc.Projects(ctx, "tenant1", portfolio.ProjectFilter{MinOverrunAmount: money.Some(dec("150"))}, query.Pagination{}, query.Sort{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, "P-2", page.Items[0].Code)

	page, err = svc.Projects(ctx, "tenant1", portfolio.ProjectFilter{}, query.Pagination{Page: 2, PerPage: 2}, query.Sort{By: "code"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, query.Meta{Total: 3, PerPage: 2, CurrentPage: 2, LastPage: 2}, page.Pagination)
}

func TestClients_StatusFilterAppliedBeforeAggregation(t *testing.T) {
	clients := []client.Client{
		{ID: "c1", TenantID: "tenant1", Code: "CL-1", Name: "Acme"},
		{ID: "c2", TenantID: "tenant1", Code: "CL-2", Name: "Globex"},
	}
	rows := []contract.Row{
		buildRow(rowFixture{code: "A", clientID: "c1", projectID: "p1", value: "1000", actual: "1200"}),
		buildRow(rowFixture{code: "B", clientID: "c1", projectID: "p2", value: "100", actual: "50", status: contract.StatusCompleted}),
		buildRow(rowFixture{code: "C", clientID: "c1", projectID: "p1", value: "100", actual: "50"}),
		buildRow(rowFixture{code: "D", clientID: "c2", value: "100", actual: "150", status: contract.StatusCompleted}),
	}
	svc := newService(nil, clients, rows, nil)
	ctx := context.Background()

	all, err := svc.ExportClients(ctx, "tenant1", portfolio.ClientFilter{}, query.Sort{By: "code"})
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, 2, all[0].ProjectsCount)
	require.Equal(t, 3, all[0].ContractsCount)
	require.True(t, all[0].ContractsValueTotal.Decimal.Equal(dec("1200")))
	require.Equal(t, 0, all[1].ProjectsCount)

	active, err := svc.ExportClients(ctx, "tenant1", portfolio.ClientFilter{Status: "active"}, query.Sort{By: "code"})
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, "CL-1", active[0].Code)
	require.Equal(t, 2, active[0].ContractsCount)
	require.Equal(t, 1, active[0].ProjectsCount)
	require.True(t, active[0].OverrunAmountTotal.Equal(dec("200")))
}

func TestProjectSummary(t *testing.T) {
	projects := []project.Project{
		{ID: "p1", TenantID: "tenant1", Code: "P-1", Name: "Bridge"},
		{ID: "empty", TenantID: "tenant1", Code: "P-0", Name: "Empty"},
		{ID: "foreign", TenantID: "tenant2", Code: "X-1", Name: "Other"},
	}
	rows := []contract.Row{
		buildRow(rowFixture{code: "A", projectID: "p1", value: "1000", actual: "1100"}),
	}
	payments := &fakePayments{payments: []contract.Payment{
		{ID: "pay1", Amount: dec("250")},
		{ID: "pay2", Amount: dec("50.5")},
	}}
	svc := newService(projects, nil, rows, payments)
	ctx := context.Background()

	summary, err := svc.ProjectSummary(ctx, "tenant1", "p1")
	require.NoError(t, err)
	require.NotNil(t, summary)
	require.Equal(t, "P-1", summary.Code)
	require.Equal(t, 1, summary.OverrunContractsCount)
	require.Equal(t, 2, summary.OverduePaymentsCount)
	require.True(t, summary.OverduePaymentsTotal.Equal(dec("300.5")))
	require.Equal(t, 2026, payments.today.Year())

	summary, err = svc.ProjectSummary(ctx, "tenant1", "empty")
	require.NoError(t, err)
	require.Nil(t, summary)

	_, err = svc.ProjectSummary(ctx, "tenant1", "foreign")
	require.ErrorIs(t, err, tenant.ErrMismatch)

	_, err = svc.ProjectSummary(ctx, "tenant1", "missing")
	require.ErrorIs(t, err, project.ErrProjectNotFound)
}

func TestWriteProjectsCSV(t *testing.T) {
	rollups := []portfolio.ProjectRollup{{
		Code:       "P-1",
		Name:       "Bridge",
		Status:     "active",
		ClientName: "Acme",
		Metrics: portfolio.Rollup([]contract.Row{
			buildRow(rowFixture{code: "A", value: "1000", actual: "1100", budget: "900"}),
		}),
	}}

	var buf bytes.Buffer
	require.NoError(t, portfolio.WriteProjectsCSV(&buf, rollups))
	require.Equal(t, []byte{0xEF, 0xBB, 0xBF}, buf.Bytes()[:3])

	records, err := csv.NewReader(bytes.NewReader(buf.Bytes()[3:])).ReadAll()
	require.NoError(t, err)
	require.Equal(t, portfolio.ProjectExportHeader, records[0])
	require.Equal(t, []string{"P-1", "Bridge", "active", "Acme", "USD", "1", "1000.00", "900.00", "1100.00", "100.00", "0", "1"}, records[1])
}

func TestWriteClientsCSV_NullValueTotalIsBlank(t *testing.T) {
	rollups := []portfolio.ClientRollup{{Code: "CL-1", Name: "Acme", Metrics: portfolio.Rollup(nil)}}

	var buf bytes.Buffer
	require.NoError(t, portfolio.WriteClientsCSV(&buf, rollups))

	records, err := csv.NewReader(bytes.NewReader(buf.Bytes()[3:])).ReadAll()
	require.NoError(t, err)
	require.Equal(t, portfolio.ClientExportHeader, records[0])
	require.Equal(t, "", records[1][5])
	require.Equal(t, "0.00", records[1][6])
}
