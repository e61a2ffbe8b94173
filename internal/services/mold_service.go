package services

import (
	"context"
	"strings"

	"moldmes/internal/common"
	"moldmes/internal/models"
	"moldmes/internal/repositories"

	"github.com/google/uuid"
)

type MoldService interface {
	Create(ctx context.Context, mold *models.Mold) (*models.Mold, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Mold, error)
	Update(ctx context.Context, id uuid.UUID, update *models.MoldUpdate) (*models.Mold, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter *models.MoldSearchFilter) ([]*models.Mold, error)
}

type moldService struct {
	tx    repositories.Transactor
	repos *repositories.Repositories
}

func NewMoldService(tx repositories.Transactor, repos *repositories.Repositories) MoldService {
	return &moldService{tx: tx, repos: repos}
}

func (s *moldService) Create(ctx context.Context, mold *models.Mold) (*models.Mold, error) {
	mold.Code = strings.TrimSpace(mold.Code)
	mold.Name = strings.TrimSpace(mold.Name)
	if err := validateCodeName(mold.Code, mold.Name, "mold_code", "mold_name"); err != nil {
		return nil, err
	}
	if mold.TotalLife < 0 {
		return nil, common.Validationf("total_life must not be negative")
	}
	if mold.UsedCount < 0 {
		return nil, common.Validationf("used_count must not be negative")
	}
	if mold.Status == "" {
		mold.Status = models.MoldStatusIdle
	}
	if err := validateManualMoldStatus(mold.Status); err != nil {
		return nil, err
	}
	mold.ID = uuid.New()

	if err := s.repos.Molds.Create(ctx, mold); err != nil {
		return nil, err
	}
	return s.repos.Molds.GetByID(ctx, mold.ID)
}

func (s *moldService) Get(ctx context.Context, id uuid.UUID) (*models.Mold, error) {
	return s.repos.Molds.GetByID(ctx, id)
}

func (s *moldService) List(ctx context.Context, filter *models.MoldSearchFilter) ([]*models.Mold, error) {
	filter.Query = strings.TrimSpace(filter.Query)
	filter.Limit, filter.Offset = common.Paginate(filter.Limit, filter.Offset)
	return s.repos.Molds.List(ctx, filter)
}

// Update edits descriptive fields. Status may move between Idle and
// Maintenance only; a mold held by a task cannot be edited into another
// state.
func (s *moldService) Update(ctx context.Context, id uuid.UUID, update *models.MoldUpdate) (*models.Mold, error) {
	var updated *models.Mold
	err := s.tx.WithinTx(ctx, func(repos *repositories.Repositories) error {
		mold, err := repos.Molds.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if update.Name != nil {
			name := strings.TrimSpace(*update.Name)
			if err := validateCodeName(mold.Code, name, "mold_code", "mold_name"); err != nil {
				return err
			}
			mold.Name = name
		}
		if update.TotalLife != nil {
			if *update.TotalLife < 0 {
				return common.Validationf("total_life must not be negative")
			}
			mold.TotalLife = *update.TotalLife
		}
		if update.Status != nil && *update.Status != mold.Status {
			if err := validateManualMoldStatus(*update.Status); err != nil {
				return err
			}
			if mold.Status == models.MoldStatusInUse {
				return common.Conflictf("mold %s is in use by a task", mold.Code)
			}
			mold.Status = *update.Status
		}
		if err := repos.Molds.Update(ctx, mold); err != nil {
			return err
		}
		updated, err = repos.Molds.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *moldService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.tx.WithinTx(ctx, func(repos *repositories.Repositories) error {
		mold, err := repos.Molds.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if mold.Status == models.MoldStatusInUse {
			return common.Conflictf("mold %s is in use by a task", mold.Code)
		}
		return repos.Molds.Delete(ctx, id)
	})
}

func validateManualMoldStatus(status models.MoldStatus) error {
	if !status.Valid() {
		return common.Validationf("status must be one of Idle, InUse, Maintenance")
	}
	if status == models.MoldStatusInUse {
		return common.Validationf("status InUse is set by task creation only")
	}
	return nil
}
