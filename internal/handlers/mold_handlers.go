package handlers

import (
	"net/http"

	"moldmes/internal/common"
	"moldmes/internal/models"
	"moldmes/internal/services"

	"github.com/labstack/echo/v4"
)

// MoldHandlers handles mold master data requests
type MoldHandlers struct {
	moldService services.MoldService
}

// NewMoldHandlers creates a new mold handlers instance
func NewMoldHandlers(moldService services.MoldService) *MoldHandlers {
	return &MoldHandlers{moldService: moldService}
}

// ListMolds handles GET /molds?q=&limit=&offset=
func (h *MoldHandlers) ListMolds(c echo.Context) error {
	var filter models.MoldSearchFilter
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &filter); err != nil {
		return common.Validationf("invalid query parameters")
	}

	molds, err := h.moldService.List(c.Request().Context(), &filter)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"molds":  nonNil(molds),
		"limit":  filter.Limit,
		"offset": filter.Offset,
	})
}

// CreateMold handles POST /molds
func (h *MoldHandlers) CreateMold(c echo.Context) error {
	var mold models.Mold
	if err := bindBody(c, &mold); err != nil {
		return err
	}

	created, err := h.moldService.Create(c.Request().Context(), &mold)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// GetMold handles GET /molds/:id
func (h *MoldHandlers) GetMold(c echo.Context) error {
	id, err := common.ParseID(c, "id")
	if err != nil {
		return err
	}

	mold, err := h.moldService.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mold)
}

// UpdateMold handles PUT /molds/:id
func (h *MoldHandlers) UpdateMold(c echo.Context) error {
	id, err := common.ParseID(c, "id")
	if err != nil {
		return err
	}

	var update models.MoldUpdate
	if err := bindBody(c, &update); err != nil {
		return err
	}

	mold, err := h.moldService.Update(c.Request().Context(), id, &update)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mold)
}

// DeleteMold handles DELETE /molds/:id
func (h *MoldHandlers) DeleteMold(c echo.Context) error {
	id, err := common.ParseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.moldService.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// nonNil keeps empty lists serialized as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
