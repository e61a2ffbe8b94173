package services

import (
	"context"

	"moldmes/internal/common"
	"moldmes/internal/models"
	"moldmes/internal/repositories"

	"github.com/google/uuid"
)

// BOMService edits single Product -> Material edges. Bulk edits go through
// the tree importer.
type BOMService interface {
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]*models.BOMItem, error)
	Upsert(ctx context.Context, productID uuid.UUID, req *models.BOMItemUpsert) (*models.BOMItem, bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type bomService struct {
	tx    repositories.Transactor
	repos *repositories.Repositories
}

func NewBOMService(tx repositories.Transactor, repos *repositories.Repositories) BOMService {
	return &bomService{tx: tx, repos: repos}
}

func (s *bomService) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*models.BOMItem, error) {
	if _, err := s.repos.Products.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	return s.repos.BOM.ListByProduct(ctx, productID)
}

func (s *bomService) Upsert(ctx context.Context, productID uuid.UUID, req *models.BOMItemUpsert) (*models.BOMItem, bool, error) {
	if req.MaterialID == uuid.Nil {
		return nil, false, common.Validationf("material_id is required")
	}
	if err := common.ValidatePositiveInteger(req.QtyPerUnit, "qty_per_unit", maxQty); err != nil {
		return nil, false, err
	}

	var (
		item    *models.BOMItem
		created bool
	)
	err := s.tx.WithinTx(ctx, func(repos *repositories.Repositories) error {
		if _, err := repos.Products.GetByID(ctx, productID); err != nil {
			return err
		}
		if _, err := repos.Materials.GetByID(ctx, req.MaterialID); err != nil {
			return err
		}
		edge := &models.BOMItem{ID: uuid.New(), ProductID: productID, MaterialID: req.MaterialID, QtyPerUnit: req.QtyPerUnit}
		var err error
		if created, err = repos.BOM.Upsert(ctx, edge); err != nil {
			return err
		}
		item, err = repos.BOM.GetByID(ctx, edge.ID)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return item, created, nil
}

func (s *bomService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repos.BOM.Delete(ctx, id)
}
