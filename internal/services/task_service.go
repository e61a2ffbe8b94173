package services

import (
	"context"
	"errors"
	"strings"

	"moldmes/internal/common"
	"moldmes/internal/models"
	"moldmes/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TaskService owns the task state machine and the mold status it drives.
// A task is created InProgress and holds its mold InUse until it completes
// or is deleted.
type TaskService interface {
	Create(ctx context.Context, req *models.TaskCreate) (*models.Task, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Task, error)
	List(ctx context.Context, limit, offset int) ([]*models.Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ReportProgress(ctx context.Context, req *models.WorkReport) (*models.ProgressResult, error)
	Materials(ctx context.Context, id uuid.UUID) ([]*models.TaskMaterialRequirement, error)
	Reports(ctx context.Context, id uuid.UUID) ([]*models.Report, error)
}

type taskService struct {
	tx     repositories.Transactor
	repos  *repositories.Repositories
	logger *zap.Logger
}

func NewTaskService(tx repositories.Transactor, repos *repositories.Repositories, logger *zap.Logger) TaskService {
	return &taskService{tx: tx, repos: repos, logger: logger}
}

func validateTaskCreate(req *models.TaskCreate) error {
	req.TaskNo = strings.TrimSpace(req.TaskNo)
	req.OperatorName = strings.TrimSpace(req.OperatorName)
	if err := common.ValidateRequiredString(req.TaskNo, "task_no"); err != nil {
		return err
	}
	if len(req.TaskNo) > maxCodeLength {
		return common.Validationf("task_no cannot exceed %d characters", maxCodeLength)
	}
	if req.MoldID == uuid.Nil {
		return common.Validationf("mold_id is required")
	}
	if err := common.ValidateRequiredString(req.OperatorName, "operator_name"); err != nil {
		return err
	}
	if len(req.OperatorName) > maxCodeLength {
		return common.Validationf("operator_name cannot exceed %d characters", maxCodeLength)
	}
	if req.ProductID != nil && *req.ProductID == uuid.Nil {
		req.ProductID = nil
	}
	return common.ValidatePositiveInteger(req.TargetQty, "target_qty", maxQty)
}

func (s *taskService) Create(ctx context.Context, req *models.TaskCreate) (*models.Task, error) {
	if err := validateTaskCreate(req); err != nil {
		return nil, err
	}

	var created *models.Task
	err := s.tx.WithinTx(ctx, func(repos *repositories.Repositories) error {
		mold, err := repos.Molds.GetByIDForUpdate(ctx, req.MoldID)
		if errors.Is(err, common.ErrNotFound) {
			return common.Conflictf("mold %s does not exist", req.MoldID)
		}
		if err != nil {
			return err
		}
		if mold.Status != models.MoldStatusIdle {
			return common.Conflictf("mold %s is %s", mold.Code, mold.Status)
		}
		if req.ProductID != nil {
			if _, err := repos.Products.GetByID(ctx, *req.ProductID); err != nil {
				return err
			}
		}

		task := &models.Task{
			ID:           uuid.New(),
			TaskNo:       req.TaskNo,
			MoldID:       req.MoldID,
			ProductID:    req.ProductID,
			OperatorName: req.OperatorName,
			TargetQty:    req.TargetQty,
			Status:       models.TaskStatusInProgress,
		}
		if err := repos.Tasks.Create(ctx, task); err != nil {
			return err
		}
		occupied, err := repos.Molds.Occupy(ctx, req.MoldID)
		if err != nil {
			return err
		}
		if !occupied {
			return common.Conflictf("mold %s is no longer idle", mold.Code)
		}
		if _, err := ExplodeRequirements(ctx, repos, task); err != nil {
			return err
		}

		created, err = repos.Tasks.GetByID(ctx, task.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Task created",
		zap.String("task_no", created.TaskNo),
		zap.String("mold_id", created.MoldID.String()),
		zap.Int("target_qty", created.TargetQty))
	return created, nil
}

func (s *taskService) Get(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	return s.repos.Tasks.GetByID(ctx, id)
}

func (s *taskService) List(ctx context.Context, limit, offset int) ([]*models.Task, error) {
	limit, offset = common.Paginate(limit, offset)
	return s.repos.Tasks.List(ctx, limit, offset)
}

// ReportProgress adds produced quantity to a task. done_qty is clamped at
// target_qty while the mold's used_count grows by the full reported qty.
// Reaching the target completes the task and frees the mold.
func (s *taskService) ReportProgress(ctx context.Context, req *models.WorkReport) (*models.ProgressResult, error) {
	req.TaskNo = strings.TrimSpace(req.TaskNo)
	if err := common.ValidateRequiredString(req.TaskNo, "task_no"); err != nil {
		return nil, err
	}
	if err := common.ValidatePositiveInteger(req.Qty, "qty", maxQty); err != nil {
		return nil, err
	}

	var result *models.ProgressResult
	err := s.tx.WithinTx(ctx, func(repos *repositories.Repositories) error {
		task, err := repos.Tasks.GetByTaskNoForUpdate(ctx, req.TaskNo)
		if err != nil {
			return err
		}
		if task.Status == models.TaskStatusCompleted {
			return common.Conflictf("task %s is already completed", task.TaskNo)
		}

		completed := task.ApplyProgress(req.Qty)
		if err := repos.Tasks.UpdateProgress(ctx, task); err != nil {
			return err
		}
		mold, err := repos.Molds.AddUsage(ctx, task.MoldID, req.Qty, completed)
		if err != nil {
			return err
		}
		report := &models.Report{ID: uuid.New(), TaskID: task.ID, TaskNo: task.TaskNo, Qty: req.Qty}
		if err := repos.Reports.Create(ctx, report); err != nil {
			return err
		}

		result = &models.ProgressResult{Task: task, Mold: mold, Report: report}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Work reported",
		zap.String("task_no", result.Task.TaskNo),
		zap.Int("qty", req.Qty),
		zap.Int("done_qty", result.Task.DoneQty),
		zap.String("status", string(result.Task.Status)))
	return result, nil
}

// Delete removes a task with its requirements and reports. An InProgress
// task hands its mold back; a Completed task leaves the mold alone. Stock
// moves already written for the task stay in the ledger.
func (s *taskService) Delete(ctx context.Context, id uuid.UUID) error {
	var task *models.Task
	err := s.tx.WithinTx(ctx, func(repos *repositories.Repositories) error {
		var err error
		if task, err = repos.Tasks.GetByIDForUpdate(ctx, id); err != nil {
			return err
		}
		if task.Status == models.TaskStatusInProgress {
			if _, err := repos.Molds.Release(ctx, task.MoldID); err != nil {
				return err
			}
		}
		if _, err := repos.Requirements.DeleteByTask(ctx, id); err != nil {
			return err
		}
		if _, err := repos.Reports.DeleteByTask(ctx, id); err != nil {
			return err
		}
		return repos.Tasks.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Task deleted", zap.String("task_no", task.TaskNo), zap.String("status", string(task.Status)))
	return nil
}

func (s *taskService) Materials(ctx context.Context, id uuid.UUID) ([]*models.TaskMaterialRequirement, error) {
	if _, err := s.repos.Tasks.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.repos.Requirements.ListByTask(ctx, id)
}

func (s *taskService) Reports(ctx context.Context, id uuid.UUID) ([]*models.Report, error) {
	if _, err := s.repos.Tasks.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.repos.Reports.ListByTask(ctx, id)
}
