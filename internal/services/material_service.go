package services

import (
	"context"
	"strings"

	"moldmes/internal/caching"
	"moldmes/internal/common"
	"moldmes/internal/models"
	"moldmes/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	maxCodeLength = 100
	maxNameLength = 255
	maxQty        = 1<<31 - 1
)

type MaterialService interface {
	// Create stores the material together with its zero inventory row.
	Create(ctx context.Context, material *models.Material) (*models.Material, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Material, error)
	Update(ctx context.Context, id uuid.UUID, update *models.MaterialUpdate) (*models.Material, error)
	// Delete removes the material and its inventory row. Materials referenced
	// by moves, BOM edges or requirements are rejected with a conflict.
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Material, error)
}

type materialService struct {
	tx     repositories.Transactor
	repos  *repositories.Repositories
	cache  caching.CacheService
	logger *zap.Logger
}

func NewMaterialService(tx repositories.Transactor, repos *repositories.Repositories, cache caching.CacheService, logger *zap.Logger) MaterialService {
	return &materialService{tx: tx, repos: repos, cache: cache, logger: logger}
}

func (s *materialService) Create(ctx context.Context, material *models.Material) (*models.Material, error) {
	material.Code = strings.TrimSpace(material.Code)
	material.Name = strings.TrimSpace(material.Name)
	if err := validateCodeName(material.Code, material.Name, "material_code", "material_name"); err != nil {
		return nil, err
	}
	if err := normalizeMaterialOptionals(material); err != nil {
		return nil, err
	}
	material.Unit = strings.TrimSpace(material.Unit)
	if material.Unit == "" {
		material.Unit = models.DefaultUnit
	}
	if material.SafetyStock < 0 {
		return nil, common.Validationf("safety_stock must not be negative")
	}
	material.ID = uuid.New()

	var created *models.Material
	err := s.tx.WithinTx(ctx, func(repos *repositories.Repositories) error {
		if err := repos.Materials.Create(ctx, material); err != nil {
			return err
		}
		if err := repos.Inventory.Create(ctx, &models.Inventory{ID: uuid.New(), MaterialID: material.ID}); err != nil {
			return err
		}
		var err error
		created, err = repos.Materials.GetByID(ctx, material.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *materialService) Get(ctx context.Context, id uuid.UUID) (*models.Material, error) {
	return s.repos.Materials.GetByID(ctx, id)
}

func (s *materialService) List(ctx context.Context, limit, offset int) ([]*models.Material, error) {
	limit, offset = common.Paginate(limit, offset)
	return s.repos.Materials.List(ctx, limit, offset)
}

func (s *materialService) Update(ctx context.Context, id uuid.UUID, update *models.MaterialUpdate) (*models.Material, error) {
	var updated *models.Material
	err := s.tx.WithinTx(ctx, func(repos *repositories.Repositories) error {
		material, err := repos.Materials.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := applyMaterialUpdate(material, update); err != nil {
			return err
		}
		if err := repos.Materials.Update(ctx, material); err != nil {
			return err
		}
		updated, err = repos.Materials.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	// Cached inventory rows embed unit and safety stock.
	invalidateInventory(ctx, s.cache, s.logger, id)
	return updated, nil
}

func (s *materialService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.tx.WithinTx(ctx, func(repos *repositories.Repositories) error {
		if _, err := repos.Materials.GetByID(ctx, id); err != nil {
			return err
		}
		if err := repos.Inventory.DeleteByMaterial(ctx, id); err != nil {
			return err
		}
		return repos.Materials.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	invalidateInventory(ctx, s.cache, s.logger, id)
	return nil
}

func applyMaterialUpdate(material *models.Material, update *models.MaterialUpdate) error {
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if err := common.ValidateRequiredString(name, "material_name"); err != nil {
			return err
		}
		if len(name) > maxNameLength {
			return common.Validationf("material_name cannot exceed %d characters", maxNameLength)
		}
		material.Name = name
	}
	if update.DrawingNo != nil {
		v, err := common.ValidateOptionalString(update.DrawingNo, "drawing_no", maxNameLength)
		if err != nil {
			return err
		}
		material.DrawingNo = v
	}
	if update.MaterialType != nil {
		v, err := common.ValidateOptionalString(update.MaterialType, "material_type", maxCodeLength)
		if err != nil {
			return err
		}
		material.MaterialType = v
	}
	if update.Remark != nil {
		v, err := common.ValidateOptionalString(update.Remark, "remark", 2000)
		if err != nil {
			return err
		}
		material.Remark = v
	}
	if update.Unit != nil {
		material.Unit = strings.TrimSpace(*update.Unit)
		if material.Unit == "" {
			material.Unit = models.DefaultUnit
		}
	}
	if update.SafetyStock != nil {
		if *update.SafetyStock < 0 {
			return common.Validationf("safety_stock must not be negative")
		}
		material.SafetyStock = *update.SafetyStock
	}
	return nil
}

func normalizeMaterialOptionals(material *models.Material) error {
	var err error
	if material.DrawingNo, err = common.ValidateOptionalString(material.DrawingNo, "drawing_no", maxNameLength); err != nil {
		return err
	}
	if material.MaterialType, err = common.ValidateOptionalString(material.MaterialType, "material_type", maxCodeLength); err != nil {
		return err
	}
	material.Remark, err = common.ValidateOptionalString(material.Remark, "remark", 2000)
	return err
}

func validateCodeName(code, name, codeField, nameField string) error {
	if err := common.ValidateRequiredString(code, codeField); err != nil {
		return err
	}
	if err := common.ValidateRequiredString(name, nameField); err != nil {
		return err
	}
	if len(code) > maxCodeLength {
		return common.Validationf("%s cannot exceed %d characters", codeField, maxCodeLength)
	}
	if len(name) > maxNameLength {
		return common.Validationf("%s cannot exceed %d characters", nameField, maxNameLength)
	}
	return nil
}

// invalidateInventory drops a cached projection. Errors are logged, not
// returned.
func invalidateInventory(ctx context.Context, cache caching.CacheService, logger *zap.Logger, materialID uuid.UUID) {
	if err := cache.DeleteInventory(ctx, materialID); err != nil {
		logger.Warn("Failed to invalidate inventory cache",
			zap.String("material_id", materialID.String()), zap.Error(err))
	}
}
