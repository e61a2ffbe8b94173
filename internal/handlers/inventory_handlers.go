package handlers

import (
	"net/http"

	"moldmes/internal/common"
	"moldmes/internal/models"
	"moldmes/internal/services"

	"github.com/labstack/echo/v4"
)

// InventoryHandlers handles stock queries and receipts
type InventoryHandlers struct {
	inventoryService services.InventoryService
}

// NewInventoryHandlers creates a new inventory handlers instance
func NewInventoryHandlers(inventoryService services.InventoryService) *InventoryHandlers {
	return &InventoryHandlers{inventoryService: inventoryService}
}

// ListInventory handles GET /inventory
func (h *InventoryHandlers) ListInventory(c echo.Context) error {
	limit, offset, err := pageParams(c)
	if err != nil {
		return err
	}

	items, err := h.inventoryService.List(c.Request().Context(), limit, offset)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"inventory": nonNil(items),
		"limit":     limit,
		"offset":    offset,
	})
}

// GetInventory handles GET /inventory/:material_id
func (h *InventoryHandlers) GetInventory(c echo.Context) error {
	materialID, err := common.ParseID(c, "material_id")
	if err != nil {
		return err
	}

	inventory, err := h.inventoryService.Get(c.Request().Context(), materialID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, inventory)
}

// ReceiveStock handles POST /inventory/in
func (h *InventoryHandlers) ReceiveStock(c echo.Context) error {
	var req models.StockReceipt
	if err := bindBody(c, &req); err != nil {
		return err
	}

	inventory, err := h.inventoryService.Receive(c.Request().Context(), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, inventory)
}

// ListMoves handles GET /inventory/:material_id/moves, newest first.
func (h *InventoryHandlers) ListMoves(c echo.Context) error {
	materialID, err := common.ParseID(c, "material_id")
	if err != nil {
		return err
	}
	limit, offset, err := pageParams(c)
	if err != nil {
		return err
	}

	moves, err := h.inventoryService.Moves(c.Request().Context(), materialID, limit, offset)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"material_id": materialID,
		"moves":       nonNil(moves),
		"limit":       limit,
		"offset":      offset,
	})
}

// Reconcile handles GET /inventory/reconcile. Only drifted materials are
// listed.
func (h *InventoryHandlers) Reconcile(c echo.Context) error {
	balances, err := h.inventoryService.Reconcile(c.Request().Context())
	if err != nil {
		return err
	}

	drifted := make([]models.LedgerBalance, 0)
	for _, b := range balances {
		if !b.Consistent() {
			drifted = append(drifted, b)
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"checked":    len(balances),
		"consistent": len(drifted) == 0,
		"drifted":    drifted,
	})
}

// ListAlerts handles GET /inventory/alerts
func (h *InventoryHandlers) ListAlerts(c echo.Context) error {
	items, err := h.inventoryService.BelowSafetyStock(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"inventory": nonNil(items),
	})
}
