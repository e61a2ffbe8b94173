package services

import (
	"context"

	"moldmes/internal/common"
	"moldmes/internal/models"
	"moldmes/internal/repositories"

	"github.com/google/uuid"
)

// Demand is the quantity of one material needed for a task.
type Demand struct {
	MaterialID  uuid.UUID
	RequiredQty int
}

// ExplodeBOM multiplies every direct edge of a product by targetQty. Only one
// level is expanded: sub-assemblies are demanded as materials even when they
// carry BOM edges of their own.
func ExplodeBOM(items []*models.BOMItem, targetQty int) ([]Demand, error) {
	demands := make([]Demand, 0, len(items))
	for _, item := range items {
		required := int64(item.QtyPerUnit) * int64(targetQty)
		if required > maxQty {
			return nil, common.Validationf("required quantity for material %s overflows (%d x %d)",
				item.MaterialCode, item.QtyPerUnit, targetQty)
		}
		demands = append(demands, Demand{MaterialID: item.MaterialID, RequiredQty: int(required)})
	}
	return demands, nil
}

// ExplodeRequirements upserts one requirement row per direct BOM edge of the
// task's product. Re-running it overwrites required_qty and leaves issued_qty
// alone. It never touches inventory.
func ExplodeRequirements(ctx context.Context, repos *repositories.Repositories, task *models.Task) ([]*models.TaskMaterialRequirement, error) {
	if task.ProductID == nil {
		return nil, nil
	}
	items, err := repos.BOM.ListByProduct(ctx, *task.ProductID)
	if err != nil {
		return nil, err
	}
	demands, err := ExplodeBOM(items, task.TargetQty)
	if err != nil {
		return nil, err
	}

	reqs := make([]*models.TaskMaterialRequirement, 0, len(demands))
	for _, d := range demands {
		req := &models.TaskMaterialRequirement{
			ID:          uuid.New(),
			TaskID:      task.ID,
			MaterialID:  d.MaterialID,
			RequiredQty: d.RequiredQty,
		}
		if _, err := repos.Requirements.Upsert(ctx, req); err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}
