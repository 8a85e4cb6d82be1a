package mocks

import (
	"context"
	"time"

	"github.com/rpggio/costwatch/internal/domain/client"
	"github.com/rpggio/costwatch/internal/domain/contract"
	"github.com/rpggio/costwatch/internal/domain/event"
	"github.com/rpggio/costwatch/internal/domain/health"
	"github.com/rpggio/costwatch/internal/domain/project"
	"github.com/stretchr/testify/mock"
)

// ContractRepository is a mock for contract.Repository.
type ContractRepository struct {
	mock.Mock
}

func (m *ContractRepository) Get(ctx context.Context, tenantID, id string) (*contract.Contract, error) {
	args := m.Called(ctx, tenantID, id)
	if c, ok := args.Get(0).(*contract.Contract); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ContractRepository) Lookup(ctx context.Context, id string) (*contract.Contract, error) {
	args := m.Called(ctx, id)
	if c, ok := args.Get(0).(*contract.Contract); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ContractRepository) List(ctx context.Context, tenantID string, filter contract.Filter) ([]contract.Contract, error) {
	args := m.Called(ctx, tenantID, filter)
	if list, ok := args.Get(0).([]contract.Contract); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ContractRepository) ActiveBudgetLines(ctx context.Context, tenantID, contractID string) ([]contract.LineItem, error) {
	args := m.Called(ctx, tenantID, contractID)
	if list, ok := args.Get(0).([]contract.LineItem); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ContractRepository) ActiveExpenses(ctx context.Context, tenantID, contractID string) ([]contract.LineItem, error) {
	args := m.Called(ctx, tenantID, contractID)
	if list, ok := args.Get(0).([]contract.LineItem); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ContractRepository) OverduePayments(ctx context.Context, tenantID string, filter contract.PaymentFilter, today time.Time) ([]contract.Payment, error) {
	args := m.Called(ctx, tenantID, filter, today)
	if list, ok := args.Get(0).([]contract.Payment); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ProjectRepository is a mock for project.Repository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Get(ctx context.Context, tenantID, id string) (*project.Project, error) {
	args := m.Called(ctx, tenantID, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) Lookup(ctx context.Context, id string) (*project.Project, error) {
	args := m.Called(ctx, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) List(ctx context.Context, tenantID string, opts project.ListOptions) ([]project.Project, error) {
	args := m.Called(ctx, tenantID, opts)
	if list, ok := args.Get(0).([]project.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ClientRepository is a mock for client.Repository.
type ClientRepository struct {
	mock.Mock
}

func (m *ClientRepository) Get(ctx context.Context, tenantID, id string) (*client.Client, error) {
	args := m.Called(ctx, tenantID, id)
	if c, ok := args.Get(0).(*client.Client); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ClientRepository) List(ctx context.Context, tenantID string, opts client.ListOptions) ([]client.Client, error) {
	args := m.Called(ctx, tenantID, opts)
	if list, ok := args.Get(0).([]client.Client); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// SnapshotRepository is a mock for health.SnapshotRepository.
type SnapshotRepository struct {
	mock.Mock
}

func (m *SnapshotRepository) Upsert(ctx context.Context, tenantID string, snap *health.Snapshot) error {
	args := m.Called(ctx, tenantID, snap)
	return args.Error(0)
}

func (m *SnapshotRepository) Get(ctx context.Context, tenantID, projectID, date string) (*health.Snapshot, error) {
	args := m.Called(ctx, tenantID, projectID, date)
	if snap, ok := args.Get(0).(*health.Snapshot); ok {
		return snap, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SnapshotRepository) CountByDateAndStatus(ctx context.Context, tenantID, fromDate, toDate string) ([]health.StatusCount, error) {
	args := m.Called(ctx, tenantID, fromDate, toDate)
	if list, ok := args.Get(0).([]health.StatusCount); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// TaskRepository is a mock for health.TaskRepository.
type TaskRepository struct {
	mock.Mock
}

func (m *TaskRepository) Stats(ctx context.Context, tenantID, projectID string, today time.Time) (health.TaskStats, error) {
	args := m.Called(ctx, tenantID, projectID, today)
	return args.Get(0).(health.TaskStats), args.Error(1)
}

// EventRepository is a mock for event.Repository.
type EventRepository struct {
	mock.Mock
}

func (m *EventRepository) Log(ctx context.Context, tenantID string, entry *event.Event) error {
	args := m.Called(ctx, tenantID, entry)
	return args.Error(0)
}

func (m *EventRepository) List(ctx context.Context, tenantID string, opts event.ListOptions) ([]event.Event, error) {
	args := m.Called(ctx, tenantID, opts)
	if list, ok := args.Get(0).([]event.Event); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
