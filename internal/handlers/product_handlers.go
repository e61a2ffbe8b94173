package handlers

import (
	"net/http"

	"moldmes/internal/common"
	"moldmes/internal/models"
	"moldmes/internal/services"

	"github.com/labstack/echo/v4"
)

// ProductHandlers handles product and BOM requests
type ProductHandlers struct {
	productService services.ProductService
	bomService     services.BOMService
}

// NewProductHandlers creates a new product handlers instance
func NewProductHandlers(productService services.ProductService, bomService services.BOMService) *ProductHandlers {
	return &ProductHandlers{
		productService: productService,
		bomService:     bomService,
	}
}

// ListProducts handles GET /products
func (h *ProductHandlers) ListProducts(c echo.Context) error {
	limit, offset, err := pageParams(c)
	if err != nil {
		return err
	}

	products, err := h.productService.List(c.Request().Context(), limit, offset)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"products": nonNil(products),
		"limit":    limit,
		"offset":   offset,
	})
}

// CreateProduct handles POST /products
func (h *ProductHandlers) CreateProduct(c echo.Context) error {
	var product models.Product
	if err := bindBody(c, &product); err != nil {
		return err
	}

	created, err := h.productService.Create(c.Request().Context(), &product)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// GetProduct handles GET /products/:id
func (h *ProductHandlers) GetProduct(c echo.Context) error {
	id, err := common.ParseID(c, "id")
	if err != nil {
		return err
	}

	product, err := h.productService.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}

// UpdateProduct handles PUT /products/:id
func (h *ProductHandlers) UpdateProduct(c echo.Context) error {
	id, err := common.ParseID(c, "id")
	if err != nil {
		return err
	}

	var update models.ProductUpdate
	if err := bindBody(c, &update); err != nil {
		return err
	}

	product, err := h.productService.Update(c.Request().Context(), id, &update)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}

// DeleteProduct handles DELETE /products/:id. The product's BOM goes with it.
func (h *ProductHandlers) DeleteProduct(c echo.Context) error {
	id, err := common.ParseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.productService.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListBOM handles GET /products/:id/bom
func (h *ProductHandlers) ListBOM(c echo.Context) error {
	id, err := common.ParseID(c, "id")
	if err != nil {
		return err
	}

	items, err := h.bomService.ListByProduct(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"product_id": id,
		"items":      nonNil(items),
	})
}

// UpsertBOMItem handles POST /products/:id/bom. Posting an existing
// (product, material) pair overwrites its quantity.
func (h *ProductHandlers) UpsertBOMItem(c echo.Context) error {
	id, err := common.ParseID(c, "id")
	if err != nil {
		return err
	}

	var req models.BOMItemUpsert
	if err := bindBody(c, &req); err != nil {
		return err
	}

	item, created, err := h.bomService.Upsert(c.Request().Context(), id, &req)
	if err != nil {
		return err
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.JSON(status, item)
}

// DeleteBOMItem handles DELETE /bom_items/:id
func (h *ProductHandlers) DeleteBOMItem(c echo.Context) error {
	id, err := common.ParseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.bomService.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
