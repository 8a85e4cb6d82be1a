// Package dataset loads tenant fixtures (clients, projects, contracts,
// line items, payments, tasks and API keys) from JSON into the store.
package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/rpggio/costwatch/internal/domain/client"
	"github.com/rpggio/costwatch/internal/domain/contract"
	"github.com/rpggio/costwatch/internal/domain/project"
	"github.com/rpggio/costwatch/internal/money"
	"github.com/rpggio/costwatch/internal/repository"
	"github.com/rpggio/costwatch/internal/sqlite"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// Dataset is the fixture document of one tenant.
type Dataset struct {
	TenantID    string     `json:"tenant_id"`
	Clients     []Client   `json:"clients"`
	Projects    []Project  `json:"projects"`
	Contracts   []Contract `json:"contracts"`
	BudgetLines []LineItem `json:"budget_lines"`
	Expenses    []LineItem `json:"expenses"`
	Payments    []Payment  `json:"payments"`
	Tasks       []Task     `json:"tasks"`
	APIKeys     []APIKey   `json:"api_keys"`
}

type Client struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

type Project struct {
	ID       string  `json:"id"`
	Code     string  `json:"code"`
	Name     string  `json:"name"`
	Status   string  `json:"status"`
	ClientID *string `json:"client_id"`
}

type Contract struct {
	ID         string              `json:"id"`
	Code       string              `json:"code"`
	Name       string              `json:"name"`
	Status     string              `json:"status"`
	Currency   string              `json:"currency"`
	TotalValue decimal.NullDecimal `json:"total_value"`
	ClientID   *string             `json:"client_id"`
	ProjectID  *string             `json:"project_id"`
}

type LineItem struct {
	ID         string              `json:"id"`
	ContractID string              `json:"contract_id"`
	Amount     decimal.NullDecimal `json:"amount"`
	Status     string              `json:"status"`
}

type Payment struct {
	ID         string          `json:"id"`
	ContractID string          `json:"contract_id"`
	Amount     decimal.Decimal `json:"amount"`
	Status     string          `json:"status"`
	DueDate    string          `json:"due_date"`
}

type Task struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	Title     string `json:"title"`
	Status    string `json:"status"`
	DueDate   string `json:"due_date"`
}

type APIKey struct {
	Token       string `json:"token"`
	Description string `json:"description"`
}

// Decode reads a dataset and checks that it names a tenant.
func Decode(r io.Reader) (*Dataset, error) {
	var ds Dataset
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&ds); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	if ds.TenantID == "" {
		return nil, fmt.Errorf("dataset tenant_id is required: %w", repository.ErrInvalidInput)
	}
	return &ds, nil
}

// Counts reports how many rows of each kind were imported.
type Counts struct {
	Clients     int
	Projects    int
	Contracts   int
	BudgetLines int
	Expenses    int
	Payments    int
	Tasks       int
	APIKeys     int
}

// Importer writes datasets through the SQLite repositories.
type Importer struct {
	clients   *sqlite.ClientRepository
	projects  *sqlite.ProjectRepository
	contracts *sqlite.ContractRepository
	tasks     *sqlite.TaskRepository
	keys      *sqlite.APIKeyRepository
}

// NewImporter creates an importer over db.
func NewImporter(db *sqlite.DB) *Importer {
	return &Importer{
		clients:   sqlite.NewClientRepository(db),
		projects:  sqlite.NewProjectRepository(db),
		contracts: sqlite.NewContractRepository(db),
		tasks:     sqlite.NewTaskRepository(db),
		keys:      sqlite.NewAPIKeyRepository(db),
	}
}

// Import inserts ds in dependency order and stops at the first failure.
func (im *Importer) Import(ctx context.Context, ds *Dataset) (Counts, error) {
	var counts Counts
	tenantID := ds.TenantID

	for _, c := range ds.Clients {
		if err := im.clients.Create(ctx, tenantID, &client.Client{ID: c.ID, Code: c.Code, Name: c.Name}); err != nil {
			return counts, fmt.Errorf("client %s: %w", c.ID, err)
		}
		counts.Clients++
	}
	for _, p := range ds.Projects {
		proj := &project.Project{ID: p.ID, Code: p.Code, Name: p.Name, Status: p.Status, ClientID: p.ClientID}
		if err := im.projects.Create(ctx, tenantID, proj); err != nil {
			return counts, fmt.Errorf("project %s: %w", p.ID, err)
		}
		counts.Projects++
	}
	for _, c := range ds.Contracts {
		if c.Currency != "" && !money.KnownCurrency(c.Currency) {
			return counts, fmt.Errorf("contract %s currency %q: %w", c.ID, c.Currency, repository.ErrInvalidInput)
		}
		status := contract.Status(c.Status)
		if status == "" {
			status = contract.StatusActive
		}
		row := &contract.Contract{
			ID:         c.ID,
			Code:       c.Code,
			Name:       c.Name,
			Status:     status,
			Currency:   c.Currency,
			TotalValue: c.TotalValue,
			ClientID:   c.ClientID,
			ProjectID:  c.ProjectID,
		}
		if err := im.contracts.CreateContract(ctx, tenantID, row); err != nil {
			return counts, fmt.Errorf("contract %s: %w", c.ID, err)
		}
		counts.Contracts++
	}
	for _, l := range ds.BudgetLines {
		if err := im.contracts.CreateBudgetLine(ctx, tenantID, l.toLineItem()); err != nil {
			return counts, fmt.Errorf("budget line %s: %w", l.ID, err)
		}
		counts.BudgetLines++
	}
	for _, l := range ds.Expenses {
		if err := im.contracts.CreateExpense(ctx, tenantID, l.toLineItem()); err != nil {
			return counts, fmt.Errorf("expense %s: %w", l.ID, err)
		}
		counts.Expenses++
	}
	for _, p := range ds.Payments {
		due, err := time.Parse(dateLayout, p.DueDate)
		if err != nil {
			return counts, fmt.Errorf("payment %s due_date: %w", p.ID, repository.ErrInvalidInput)
		}
		pay := &contract.Payment{ID: p.ID, ContractID: p.ContractID, Amount: p.Amount, Status: p.Status, DueDate: due}
		if err := im.contracts.CreatePayment(ctx, tenantID, pay); err != nil {
			return counts, fmt.Errorf("payment %s: %w", p.ID, err)
		}
		counts.Payments++
	}
	for _, t := range ds.Tasks {
		task := &sqlite.Task{ID: t.ID, ProjectID: t.ProjectID, Title: t.Title, Status: t.Status}
		if t.DueDate != "" {
			due, err := time.Parse(dateLayout, t.DueDate)
			if err != nil {
				return counts, fmt.Errorf("task %s due_date: %w", t.ID, repository.ErrInvalidInput)
			}
			task.DueDate = &due
		}
		if task.Status == "" {
			task.Status = sqlite.TaskTodo
		}
		if err := im.tasks.Create(ctx, tenantID, task); err != nil {
			return counts, fmt.Errorf("task %s: %w", t.ID, err)
		}
		counts.Tasks++
	}
	for _, k := range ds.APIKeys {
		if err := im.keys.Add(ctx, tenantID, k.Token, k.Description); err != nil {
			return counts, fmt.Errorf("api key %q: %w", k.Description, err)
		}
		counts.APIKeys++
	}
	return counts, nil
}

func (l LineItem) toLineItem() *contract.LineItem {
	return &contract.LineItem{ID: l.ID, ContractID: l.ContractID, Amount: l.Amount, Status: l.Status}
}
