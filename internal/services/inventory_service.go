package services

import (
	"context"

	"moldmes/internal/caching"
	"moldmes/internal/common"
	"moldmes/internal/models"
	"moldmes/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InventoryService is the stock ledger. Receive and Issue are the only
// operations that change on_hand, and each one appends a move in the same
// transaction.
type InventoryService interface {
	Get(ctx context.Context, materialID uuid.UUID) (*models.Inventory, error)
	List(ctx context.Context, limit, offset int) ([]*models.Inventory, error)
	Receive(ctx context.Context, req *models.StockReceipt) (*models.Inventory, error)
	Issue(ctx context.Context, taskID uuid.UUID, req *models.StockIssue) (*models.IssueResult, error)
	Moves(ctx context.Context, materialID uuid.UUID, limit, offset int) ([]*models.StockMove, error)
	Reconcile(ctx context.Context) ([]models.LedgerBalance, error)
	BelowSafetyStock(ctx context.Context) ([]*models.Inventory, error)
}

type inventoryService struct {
	tx     repositories.Transactor
	repos  *repositories.Repositories
	cache  caching.CacheService
	logger *zap.Logger
}

func NewInventoryService(tx repositories.Transactor, repos *repositories.Repositories, cache caching.CacheService, logger *zap.Logger) InventoryService {
	return &inventoryService{tx: tx, repos: repos, cache: cache, logger: logger}
}

func (s *inventoryService) Get(ctx context.Context, materialID uuid.UUID) (*models.Inventory, error) {
	cached, err := s.cache.GetInventory(ctx, materialID)
	if err != nil {
		s.logger.Warn("Inventory cache read failed", zap.String("material_id", materialID.String()), zap.Error(err))
	}
	if cached != nil {
		return cached, nil
	}

	// The fill token is taken before the read so a write committed in between
	// turns the cache write below into a no-op.
	fill, fillErr := s.cache.BeginFill(ctx, materialID)
	if fillErr != nil {
		s.logger.Warn("Inventory cache fill skipped", zap.String("material_id", materialID.String()), zap.Error(fillErr))
	}

	inventory, err := s.repos.Inventory.GetByMaterial(ctx, materialID)
	if err != nil {
		return nil, err
	}
	if fillErr == nil {
		if _, err := s.cache.SetInventory(ctx, inventory, fill); err != nil {
			s.logger.Warn("Inventory cache write failed", zap.String("material_id", materialID.String()), zap.Error(err))
		}
	}
	return inventory, nil
}

func (s *inventoryService) List(ctx context.Context, limit, offset int) ([]*models.Inventory, error) {
	limit, offset = common.Paginate(limit, offset)
	return s.repos.Inventory.List(ctx, limit, offset)
}

func (s *inventoryService) Receive(ctx context.Context, req *models.StockReceipt) (*models.Inventory, error) {
	if req.MaterialID == uuid.Nil {
		return nil, common.Validationf("material_id is required")
	}
	if err := common.ValidatePositiveInteger(req.Qty, "qty", maxQty); err != nil {
		return nil, err
	}
	note, err := common.ValidateOptionalString(req.Note, "note", 500)
	if err != nil {
		return nil, err
	}

	var inventory *models.Inventory
	err = s.tx.WithinTx(ctx, func(repos *repositories.Repositories) error {
		var err error
		if inventory, err = repos.Inventory.Increment(ctx, req.MaterialID, req.Qty); err != nil {
			return err
		}
		return repos.StockMoves.Append(ctx, &models.StockMove{
			ID:         uuid.New(),
			MaterialID: req.MaterialID,
			Qty:        req.Qty,
			MoveType:   models.MoveTypeIn,
			RefType:    models.RefTypeManual,
			Note:       note,
		})
	})
	if err != nil {
		return nil, err
	}

	invalidateInventory(ctx, s.cache, s.logger, req.MaterialID)
	s.logger.Info("Stock received",
		zap.String("material_id", req.MaterialID.String()),
		zap.Int("qty", req.Qty),
		zap.Int("on_hand", inventory.OnHand))
	return inventory, nil
}

// Issue consumes stock against a task requirement. The decrement is a single
// conditional update, so concurrent issues on one material can never take
// on_hand below zero; the loser sees ErrInsufficientStock.
func (s *inventoryService) Issue(ctx context.Context, taskID uuid.UUID, req *models.StockIssue) (*models.IssueResult, error) {
	if req.MaterialID == uuid.Nil {
		return nil, common.Validationf("material_id is required")
	}
	if err := common.ValidatePositiveInteger(req.Qty, "qty", maxQty); err != nil {
		return nil, err
	}

	var result *models.IssueResult
	err := s.tx.WithinTx(ctx, func(repos *repositories.Repositories) error {
		task, err := repos.Tasks.GetByID(ctx, taskID)
		if err != nil {
			return err
		}
		requirement, err := repos.Requirements.GetForUpdate(ctx, taskID, req.MaterialID)
		if err != nil {
			return err
		}

		inventory, ok, err := repos.Inventory.TryDecrement(ctx, req.MaterialID, req.Qty)
		if err != nil {
			return err
		}
		if !ok {
			current, err := repos.Inventory.GetByMaterial(ctx, req.MaterialID)
			if err != nil {
				return err
			}
			return common.InsufficientStockf("material %s has %d on hand, %d requested",
				current.MaterialCode, current.OnHand, req.Qty)
		}

		if requirement, err = repos.Requirements.AddIssued(ctx, requirement.ID, req.Qty); err != nil {
			return err
		}

		taskNo := task.TaskNo
		move := &models.StockMove{
			ID:           uuid.New(),
			MaterialID:   req.MaterialID,
			MaterialCode: inventory.MaterialCode,
			Qty:          -req.Qty,
			MoveType:     models.MoveTypeOut,
			RefType:      models.RefTypeTask,
			RefID:        &taskNo,
		}
		if err := repos.StockMoves.Append(ctx, move); err != nil {
			return err
		}

		result = &models.IssueResult{Inventory: inventory, Requirement: requirement, Move: move}
		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidateInventory(ctx, s.cache, s.logger, req.MaterialID)
	s.logger.Info("Stock issued",
		zap.String("task_id", taskID.String()),
		zap.String("material_id", req.MaterialID.String()),
		zap.Int("qty", req.Qty),
		zap.Int("on_hand", result.Inventory.OnHand))
	return result, nil
}

func (s *inventoryService) Moves(ctx context.Context, materialID uuid.UUID, limit, offset int) ([]*models.StockMove, error) {
	if _, err := s.repos.Inventory.GetByMaterial(ctx, materialID); err != nil {
		return nil, err
	}
	limit, offset = common.Paginate(limit, offset)
	return s.repos.StockMoves.ListByMaterial(ctx, materialID, limit, offset)
}

func (s *inventoryService) Reconcile(ctx context.Context) ([]models.LedgerBalance, error) {
	return s.repos.Inventory.Reconcile(ctx)
}

func (s *inventoryService) BelowSafetyStock(ctx context.Context) ([]*models.Inventory, error) {
	return s.repos.Inventory.ListBelowSafetyStock(ctx)
}
