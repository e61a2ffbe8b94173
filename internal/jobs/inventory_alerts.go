package jobs

import (
	"context"

	"moldmes/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SafetyStockSource lists inventory rows whose available stock is under the
// material's safety stock.
type SafetyStockSource interface {
	BelowSafetyStock(ctx context.Context) ([]*models.Inventory, error)
}

type SafetyStockAlert struct {
	MaterialID   uuid.UUID
	MaterialCode string
	MaterialName string
	Available    int
	SafetyStock  int
}

// Shortfall is how many units are needed to get back to safety stock.
func (a SafetyStockAlert) Shortfall() int {
	return a.SafetyStock - a.Available
}

type SafetyStockAlertService struct {
	source SafetyStockSource
	logger *zap.Logger
}

func NewSafetyStockAlertService(source SafetyStockSource, logger *zap.Logger) *SafetyStockAlertService {
	return &SafetyStockAlertService{source: source, logger: logger}
}

func (a *SafetyStockAlertService) CheckSafetyStock(ctx context.Context) ([]SafetyStockAlert, error) {
	inventories, err := a.source.BelowSafetyStock(ctx)
	if err != nil {
		return nil, err
	}

	var alerts []SafetyStockAlert
	for _, inv := range inventories {
		// The query already filters, but a row may have been restocked since.
		if !inv.BelowSafetyStock() {
			continue
		}
		alerts = append(alerts, SafetyStockAlert{
			MaterialID:   inv.MaterialID,
			MaterialCode: inv.MaterialCode,
			MaterialName: inv.MaterialName,
			Available:    inv.Available(),
			SafetyStock:  inv.SafetyStock,
		})
	}
	return alerts, nil
}

func (a *SafetyStockAlertService) LogAlerts(alerts []SafetyStockAlert) {
	if len(alerts) == 0 {
		a.logger.Debug("No safety stock alerts")
		return
	}

	for _, alert := range alerts {
		a.logger.Warn("Material below safety stock",
			zap.String("material_code", alert.MaterialCode),
			zap.String("material_name", alert.MaterialName),
			zap.Int("available", alert.Available),
			zap.Int("safety_stock", alert.SafetyStock),
			zap.Int("shortfall", alert.Shortfall()))
	}
}

// Run is the scheduled entry point.
func (a *SafetyStockAlertService) Run(ctx context.Context) error {
	alerts, err := a.CheckSafetyStock(ctx)
	if err != nil {
		a.logger.Error("Safety stock check failed", zap.Error(err))
		return err
	}
	a.LogAlerts(alerts)
	return nil
}
