package handlers

import (
	"moldmes/internal/middleware"

	_ "moldmes/internal/docs"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
)

// Handlers bundles every route handler served by the API.
type Handlers struct {
	Molds     *MoldHandlers
	Materials *MaterialHandlers
	Products  *ProductHandlers
	Imports   *ImportHandlers
	Inventory *InventoryHandlers
	Tasks     *TaskHandlers
	Health    *HealthHandlers
}

// NewRouter builds the echo instance with middleware and all routes
// registered under /v1.
func NewRouter(h *Handlers, logger *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler(logger)

	e.Use(echoMiddleware.RequestID())
	e.Use(middleware.RequestLogger(logger))
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Pre(echoMiddleware.RemoveTrailingSlash())

	versionMiddleware := middleware.NewVersionMiddleware()
	e.Use(versionMiddleware.APIVersionResolver())

	e.GET("/health", h.Health.HealthCheck)
	e.GET("/health/ready", h.Health.ReadinessCheck)
	e.GET("/health/live", h.Health.LivenessCheck)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := versionMiddleware.VersionRoute(e, versionMiddleware.GetCurrentVersion())

	molds := v1.Group("/molds")
	molds.GET("", h.Molds.ListMolds)
	molds.POST("", h.Molds.CreateMold)
	molds.GET("/:id", h.Molds.GetMold)
	molds.PUT("/:id", h.Molds.UpdateMold)
	molds.DELETE("/:id", h.Molds.DeleteMold)

	materials := v1.Group("/materials")
	materials.GET("", h.Materials.ListMaterials)
	materials.POST("", h.Materials.CreateMaterial)
	materials.GET("/:id", h.Materials.GetMaterial)
	materials.PUT("/:id", h.Materials.UpdateMaterial)
	materials.DELETE("/:id", h.Materials.DeleteMaterial)

	products := v1.Group("/products")
	products.GET("", h.Products.ListProducts)
	products.POST("", h.Products.CreateProduct)
	products.GET("/:id", h.Products.GetProduct)
	products.PUT("/:id", h.Products.UpdateProduct)
	products.DELETE("/:id", h.Products.DeleteProduct)
	products.GET("/:id/bom", h.Products.ListBOM)
	products.POST("/:id/bom", h.Products.UpsertBOMItem)
	v1.DELETE("/bom_items/:id", h.Products.DeleteBOMItem)

	v1.POST("/bom/import_tree", h.Imports.ImportTree)

	inventory := v1.Group("/inventory")
	inventory.GET("", h.Inventory.ListInventory)
	inventory.POST("/in", h.Inventory.ReceiveStock)
	inventory.GET("/reconcile", h.Inventory.Reconcile)
	inventory.GET("/alerts", h.Inventory.ListAlerts)
	inventory.GET("/:material_id", h.Inventory.GetInventory)
	inventory.GET("/:material_id/moves", h.Inventory.ListMoves)

	tasks := v1.Group("/tasks")
	tasks.GET("", h.Tasks.ListTasks)
	tasks.POST("", h.Tasks.CreateTask)
	tasks.GET("/:id", h.Tasks.GetTask)
	tasks.DELETE("/:id", h.Tasks.DeleteTask)
	tasks.GET("/:id/materials", h.Tasks.ListMaterials)
	tasks.POST("/:id/issue", h.Tasks.IssueMaterial)
	tasks.GET("/:id/reports", h.Tasks.ListReports)
	v1.POST("/report", h.Tasks.ReportWork)

	return e
}
