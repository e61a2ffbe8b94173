package services

import (
	"context"

	"moldmes/internal/caching"
	"moldmes/internal/models"
	"moldmes/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// fakeTransactor runs fn once against the mocked repositories, the way the
// real transactor would against a pgx.Tx. calls counts transactions opened.
type fakeTransactor struct {
	repos *repositories.Repositories
	calls int
}

func (f *fakeTransactor) WithinTx(ctx context.Context, fn func(repos *repositories.Repositories) error) error {
	f.calls++
	return fn(f.repos)
}

type mockRepos struct {
	Materials    *MockMaterialRepository
	Products     *MockProductRepository
	BOM          *MockBOMRepository
	Inventory    *MockInventoryRepository
	StockMoves   *MockStockMoveRepository
	Molds        *MockMoldRepository
	Tasks        *MockTaskRepository
	Requirements *MockRequirementRepository
	Reports      *MockReportRepository
}

func newMockRepos() (*mockRepos, *repositories.Repositories) {
	m := &mockRepos{
		Materials:    new(MockMaterialRepository),
		Products:     new(MockProductRepository),
		BOM:          new(MockBOMRepository),
		Inventory:    new(MockInventoryRepository),
		StockMoves:   new(MockStockMoveRepository),
		Molds:        new(MockMoldRepository),
		Tasks:        new(MockTaskRepository),
		Requirements: new(MockRequirementRepository),
		Reports:      new(MockReportRepository),
	}
	return m, &repositories.Repositories{
		Materials:    m.Materials,
		Products:     m.Products,
		BOM:          m.BOM,
		Inventory:    m.Inventory,
		StockMoves:   m.StockMoves,
		Molds:        m.Molds,
		Tasks:        m.Tasks,
		Requirements: m.Requirements,
		Reports:      m.Reports,
	}
}

func (m *mockRepos) AssertExpectations(t mock.TestingT) {
	m.Materials.AssertExpectations(t)
	m.Products.AssertExpectations(t)
	m.BOM.AssertExpectations(t)
	m.Inventory.AssertExpectations(t)
	m.StockMoves.AssertExpectations(t)
	m.Molds.AssertExpectations(t)
	m.Tasks.AssertExpectations(t)
	m.Requirements.AssertExpectations(t)
	m.Reports.AssertExpectations(t)
}

// Mock repositories
type MockMaterialRepository struct {
	mock.Mock
}

func (m *MockMaterialRepository) Create(ctx context.Context, material *models.Material) error {
	args := m.Called(ctx, material)
	return args.Error(0)
}

func (m *MockMaterialRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Material, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Material), args.Error(1)
}

func (m *MockMaterialRepository) GetByCode(ctx context.Context, code string) (*models.Material, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Material), args.Error(1)
}

func (m *MockMaterialRepository) Update(ctx context.Context, material *models.Material) error {
	args := m.Called(ctx, material)
	return args.Error(0)
}

func (m *MockMaterialRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMaterialRepository) List(ctx context.Context, limit, offset int) ([]*models.Material, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.Material), args.Error(1)
}

func (m *MockMaterialRepository) UpsertByCode(ctx context.Context, material *models.Material) (uuid.UUID, bool, error) {
	args := m.Called(ctx, material)
	return args.Get(0).(uuid.UUID), args.Bool(1), args.Error(2)
}

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByCode(ctx context.Context, code string) (*models.Product, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) List(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.Product), args.Error(1)
}

func (m *MockProductRepository) UpsertByCode(ctx context.Context, product *models.Product) (uuid.UUID, bool, error) {
	args := m.Called(ctx, product)
	return args.Get(0).(uuid.UUID), args.Bool(1), args.Error(2)
}

type MockBOMRepository struct {
	mock.Mock
}

func (m *MockBOMRepository) Upsert(ctx context.Context, item *models.BOMItem) (bool, error) {
	args := m.Called(ctx, item)
	return args.Bool(0), args.Error(1)
}

func (m *MockBOMRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.BOMItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BOMItem), args.Error(1)
}

func (m *MockBOMRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*models.BOMItem, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]*models.BOMItem), args.Error(1)
}

func (m *MockBOMRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBOMRepository) DeleteByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(int64), args.Error(1)
}

type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) Create(ctx context.Context, inventory *models.Inventory) error {
	args := m.Called(ctx, inventory)
	return args.Error(0)
}

func (m *MockInventoryRepository) GetByMaterial(ctx context.Context, materialID uuid.UUID) (*models.Inventory, error) {
	args := m.Called(ctx, materialID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Inventory), args.Error(1)
}

func (m *MockInventoryRepository) List(ctx context.Context, limit, offset int) ([]*models.Inventory, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.Inventory), args.Error(1)
}

func (m *MockInventoryRepository) Increment(ctx context.Context, materialID uuid.UUID, qty int) (*models.Inventory, error) {
	args := m.Called(ctx, materialID, qty)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Inventory), args.Error(1)
}

func (m *MockInventoryRepository) TryDecrement(ctx context.Context, materialID uuid.UUID, qty int) (*models.Inventory, bool, error) {
	args := m.Called(ctx, materialID, qty)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.Inventory), args.Bool(1), args.Error(2)
}

func (m *MockInventoryRepository) DeleteByMaterial(ctx context.Context, materialID uuid.UUID) error {
	args := m.Called(ctx, materialID)
	return args.Error(0)
}

func (m *MockInventoryRepository) ListBelowSafetyStock(ctx context.Context) ([]*models.Inventory, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.Inventory), args.Error(1)
}

func (m *MockInventoryRepository) Reconcile(ctx context.Context) ([]models.LedgerBalance, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.LedgerBalance), args.Error(1)
}

type MockStockMoveRepository struct {
	mock.Mock
}

func (m *MockStockMoveRepository) Append(ctx context.Context, move *models.StockMove) error {
	args := m.Called(ctx, move)
	return args.Error(0)
}

func (m *MockStockMoveRepository) ListByMaterial(ctx context.Context, materialID uuid.UUID, limit, offset int) ([]*models.StockMove, error) {
	args := m.Called(ctx, materialID, limit, offset)
	return args.Get(0).([]*models.StockMove), args.Error(1)
}

func (m *MockStockMoveRepository) SumByMaterial(ctx context.Context, materialID uuid.UUID) (int, error) {
	args := m.Called(ctx, materialID)
	return args.Int(0), args.Error(1)
}

type MockMoldRepository struct {
	mock.Mock
}

func (m *MockMoldRepository) Create(ctx context.Context, mold *models.Mold) error {
	args := m.Called(ctx, mold)
	return args.Error(0)
}

func (m *MockMoldRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Mold, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Mold), args.Error(1)
}

func (m *MockMoldRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Mold, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Mold), args.Error(1)
}

func (m *MockMoldRepository) Update(ctx context.Context, mold *models.Mold) error {
	args := m.Called(ctx, mold)
	return args.Error(0)
}

func (m *MockMoldRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMoldRepository) List(ctx context.Context, filter *models.MoldSearchFilter) ([]*models.Mold, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*models.Mold), args.Error(1)
}

func (m *MockMoldRepository) Occupy(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockMoldRepository) Release(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockMoldRepository) AddUsage(ctx context.Context, id uuid.UUID, qty int, release bool) (*models.Mold, error) {
	args := m.Called(ctx, id, qty, release)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Mold), args.Error(1)
}

type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, task *models.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockTaskRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockTaskRepository) GetByTaskNoForUpdate(ctx context.Context, taskNo string) (*models.Task, error) {
	args := m.Called(ctx, taskNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockTaskRepository) UpdateProgress(ctx context.Context, task *models.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTaskRepository) List(ctx context.Context, limit, offset int) ([]*models.Task, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.Task), args.Error(1)
}

type MockRequirementRepository struct {
	mock.Mock
}

func (m *MockRequirementRepository) Upsert(ctx context.Context, req *models.TaskMaterialRequirement) (bool, error) {
	args := m.Called(ctx, req)
	return args.Bool(0), args.Error(1)
}

func (m *MockRequirementRepository) GetForUpdate(ctx context.Context, taskID, materialID uuid.UUID) (*models.TaskMaterialRequirement, error) {
	args := m.Called(ctx, taskID, materialID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TaskMaterialRequirement), args.Error(1)
}

func (m *MockRequirementRepository) AddIssued(ctx context.Context, id uuid.UUID, qty int) (*models.TaskMaterialRequirement, error) {
	args := m.Called(ctx, id, qty)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TaskMaterialRequirement), args.Error(1)
}

func (m *MockRequirementRepository) ListByTask(ctx context.Context, taskID uuid.UUID) ([]*models.TaskMaterialRequirement, error) {
	args := m.Called(ctx, taskID)
	return args.Get(0).([]*models.TaskMaterialRequirement), args.Error(1)
}

func (m *MockRequirementRepository) DeleteByTask(ctx context.Context, taskID uuid.UUID) (int64, error) {
	args := m.Called(ctx, taskID)
	return args.Get(0).(int64), args.Error(1)
}

type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) Create(ctx context.Context, report *models.Report) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockReportRepository) ListByTask(ctx context.Context, taskID uuid.UUID) ([]*models.Report, error) {
	args := m.Called(ctx, taskID)
	return args.Get(0).([]*models.Report), args.Error(1)
}

func (m *MockReportRepository) DeleteByTask(ctx context.Context, taskID uuid.UUID) (int64, error) {
	args := m.Called(ctx, taskID)
	return args.Get(0).(int64), args.Error(1)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetInventory(ctx context.Context, materialID uuid.UUID) (*models.Inventory, error) {
	args := m.Called(ctx, materialID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Inventory), args.Error(1)
}

func (m *MockCacheService) BeginFill(ctx context.Context, materialID uuid.UUID) (caching.Fill, error) {
	args := m.Called(ctx, materialID)
	return args.Get(0).(caching.Fill), args.Error(1)
}

func (m *MockCacheService) SetInventory(ctx context.Context, inventory *models.Inventory, fill caching.Fill) (bool, error) {
	args := m.Called(ctx, inventory, fill)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheService) DeleteInventory(ctx context.Context, materialID uuid.UUID) error {
	args := m.Called(ctx, materialID)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateAllInventory(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
