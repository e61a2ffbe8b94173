package handlers

import (
	"net/http"

	"moldmes/internal/common"
	"moldmes/internal/models"
	"moldmes/internal/services"

	"github.com/labstack/echo/v4"
)

// MaterialHandlers handles material master data requests
type MaterialHandlers struct {
	materialService services.MaterialService
}

// NewMaterialHandlers creates a new material handlers instance
func NewMaterialHandlers(materialService services.MaterialService) *MaterialHandlers {
	return &MaterialHandlers{materialService: materialService}
}

// ListMaterials handles GET /materials
func (h *MaterialHandlers) ListMaterials(c echo.Context) error {
	limit, offset, err := pageParams(c)
	if err != nil {
		return err
	}

	materials, err := h.materialService.List(c.Request().Context(), limit, offset)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"materials": nonNil(materials),
		"limit":     limit,
		"offset":    offset,
	})
}

// CreateMaterial handles POST /materials. An inventory row with zero stock is
// created alongside.
func (h *MaterialHandlers) CreateMaterial(c echo.Context) error {
	var material models.Material
	if err := bindBody(c, &material); err != nil {
		return err
	}

	created, err := h.materialService.Create(c.Request().Context(), &material)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// GetMaterial handles GET /materials/:id
func (h *MaterialHandlers) GetMaterial(c echo.Context) error {
	id, err := common.ParseID(c, "id")
	if err != nil {
		return err
	}

	material, err := h.materialService.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, material)
}

// UpdateMaterial handles PUT /materials/:id
func (h *MaterialHandlers) UpdateMaterial(c echo.Context) error {
	id, err := common.ParseID(c, "id")
	if err != nil {
		return err
	}

	var update models.MaterialUpdate
	if err := bindBody(c, &update); err != nil {
		return err
	}

	material, err := h.materialService.Update(c.Request().Context(), id, &update)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, material)
}

// DeleteMaterial handles DELETE /materials/:id
func (h *MaterialHandlers) DeleteMaterial(c echo.Context) error {
	id, err := common.ParseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.materialService.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
