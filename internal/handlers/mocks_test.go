package handlers

import (
	"context"

	"moldmes/internal/importer"
	"moldmes/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) Create(ctx context.Context, req *models.TaskCreate) (*models.Task, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockTaskService) Get(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockTaskService) List(ctx context.Context, limit, offset int) ([]*models.Task, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Task), args.Error(1)
}

func (m *MockTaskService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTaskService) ReportProgress(ctx context.Context, req *models.WorkReport) (*models.ProgressResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProgressResult), args.Error(1)
}

func (m *MockTaskService) Materials(ctx context.Context, id uuid.UUID) ([]*models.TaskMaterialRequirement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TaskMaterialRequirement), args.Error(1)
}

func (m *MockTaskService) Reports(ctx context.Context, id uuid.UUID) ([]*models.Report, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Report), args.Error(1)
}

type MockInventoryService struct {
	mock.Mock
}

func (m *MockInventoryService) Get(ctx context.Context, materialID uuid.UUID) (*models.Inventory, error) {
	args := m.Called(ctx, materialID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Inventory), args.Error(1)
}

func (m *MockInventoryService) List(ctx context.Context, limit, offset int) ([]*models.Inventory, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Inventory), args.Error(1)
}

func (m *MockInventoryService) Receive(ctx context.Context, req *models.StockReceipt) (*models.Inventory, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Inventory), args.Error(1)
}

func (m *MockInventoryService) Issue(ctx context.Context, taskID uuid.UUID, req *models.StockIssue) (*models.IssueResult, error) {
	args := m.Called(ctx, taskID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.IssueResult), args.Error(1)
}

func (m *MockInventoryService) Moves(ctx context.Context, materialID uuid.UUID, limit, offset int) ([]*models.StockMove, error) {
	args := m.Called(ctx, materialID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.StockMove), args.Error(1)
}

func (m *MockInventoryService) Reconcile(ctx context.Context) ([]models.LedgerBalance, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.LedgerBalance), args.Error(1)
}

func (m *MockInventoryService) BelowSafetyStock(ctx context.Context) ([]*models.Inventory, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Inventory), args.Error(1)
}

type MockTreeImporter struct {
	mock.Mock
}

func (m *MockTreeImporter) Import(ctx context.Context, src importer.Source) (*models.TreeImportResult, error) {
	args := m.Called(ctx, src)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TreeImportResult), args.Error(1)
}
