package jobs

import (
	"context"

	"moldmes/internal/models"

	"go.uber.org/zap"
)

// LedgerSource compares every inventory row with the signed sum of its moves.
type LedgerSource interface {
	Reconcile(ctx context.Context) ([]models.LedgerBalance, error)
}

// LedgerReconciler reports materials whose on_hand no longer equals the sum
// of their stock moves. It only reports; it never repairs.
type LedgerReconciler struct {
	source LedgerSource
	logger *zap.Logger
}

func NewLedgerReconciler(source LedgerSource, logger *zap.Logger) *LedgerReconciler {
	return &LedgerReconciler{source: source, logger: logger}
}

// Drifted returns the balances that do not match.
func (r *LedgerReconciler) Drifted(ctx context.Context) ([]models.LedgerBalance, error) {
	balances, err := r.source.Reconcile(ctx)
	if err != nil {
		return nil, err
	}

	var drifted []models.LedgerBalance
	for _, b := range balances {
		if !b.Consistent() {
			drifted = append(drifted, b)
		}
	}
	return drifted, nil
}

func (r *LedgerReconciler) Run(ctx context.Context) error {
	drifted, err := r.Drifted(ctx)
	if err != nil {
		r.logger.Error("Ledger reconciliation failed", zap.Error(err))
		return err
	}

	for _, b := range drifted {
		r.logger.Error("Inventory drifted from stock moves",
			zap.String("material_code", b.MaterialCode),
			zap.Int("on_hand", b.OnHand),
			zap.Int("moves_total", b.MovesTotal),
			zap.Int("drift", b.Drift()))
	}
	r.logger.Info("Ledger reconciliation completed", zap.Int("drifted", len(drifted)))
	return nil
}
