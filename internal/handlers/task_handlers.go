package handlers

import (
	"net/http"

	"moldmes/internal/common"
	"moldmes/internal/models"
	"moldmes/internal/services"

	"github.com/labstack/echo/v4"
)

// TaskHandlers handles production task requests, material issue and work
// reports
type TaskHandlers struct {
	taskService      services.TaskService
	inventoryService services.InventoryService
}

// NewTaskHandlers creates a new task handlers instance
func NewTaskHandlers(taskService services.TaskService, inventoryService services.InventoryService) *TaskHandlers {
	return &TaskHandlers{
		taskService:      taskService,
		inventoryService: inventoryService,
	}
}

// ListTasks handles GET /tasks
func (h *TaskHandlers) ListTasks(c echo.Context) error {
	limit, offset, err := pageParams(c)
	if err != nil {
		return err
	}

	tasks, err := h.taskService.List(c.Request().Context(), limit, offset)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"tasks":  nonNil(tasks),
		"limit":  limit,
		"offset": offset,
	})
}

// CreateTask handles POST /tasks. The mold is occupied and requirements are
// exploded in the same transaction.
func (h *TaskHandlers) CreateTask(c echo.Context) error {
	var req models.TaskCreate
	if err := bindBody(c, &req); err != nil {
		return err
	}

	task, err := h.taskService.Create(c.Request().Context(), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, task)
}

// GetTask handles GET /tasks/:id
func (h *TaskHandlers) GetTask(c echo.Context) error {
	id, err := common.ParseID(c, "id")
	if err != nil {
		return err
	}

	task, err := h.taskService.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

// DeleteTask handles DELETE /tasks/:id
func (h *TaskHandlers) DeleteTask(c echo.Context) error {
	id, err := common.ParseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.taskService.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListMaterials handles GET /tasks/:id/materials
func (h *TaskHandlers) ListMaterials(c echo.Context) error {
	id, err := common.ParseID(c, "id")
	if err != nil {
		return err
	}

	reqs, err := h.taskService.Materials(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"task_id":   id,
		"materials": nonNil(reqs),
	})
}

// IssueMaterial handles POST /tasks/:id/issue
func (h *TaskHandlers) IssueMaterial(c echo.Context) error {
	id, err := common.ParseID(c, "id")
	if err != nil {
		return err
	}

	var req models.StockIssue
	if err := bindBody(c, &req); err != nil {
		return err
	}

	result, err := h.inventoryService.Issue(c.Request().Context(), id, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// ListReports handles GET /tasks/:id/reports
func (h *TaskHandlers) ListReports(c echo.Context) error {
	id, err := common.ParseID(c, "id")
	if err != nil {
		return err
	}

	reports, err := h.taskService.Reports(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"task_id": id,
		"reports": nonNil(reports),
	})
}

// ReportWork handles POST /report
func (h *TaskHandlers) ReportWork(c echo.Context) error {
	var req models.WorkReport
	if err := bindBody(c, &req); err != nil {
		return err
	}

	result, err := h.taskService.ReportProgress(c.Request().Context(), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}
