package repositories

import (
	"context"
	"errors"

	"moldmes/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type InventoryRepository interface {
	// Create inserts the zero row for a material. Existing rows are kept.
	Create(ctx context.Context, inventory *models.Inventory) error
	GetByMaterial(ctx context.Context, materialID uuid.UUID) (*models.Inventory, error)
	List(ctx context.Context, limit, offset int) ([]*models.Inventory, error)
	// Increment adds qty to on_hand and returns the new row.
	Increment(ctx context.Context, materialID uuid.UUID, qty int) (*models.Inventory, error)
	// TryDecrement subtracts qty only when on_hand >= qty, as one statement.
	// ok is false when the guard rejected the update or the row is absent.
	TryDecrement(ctx context.Context, materialID uuid.UUID, qty int) (inv *models.Inventory, ok bool, err error)
	DeleteByMaterial(ctx context.Context, materialID uuid.UUID) error
	ListBelowSafetyStock(ctx context.Context) ([]*models.Inventory, error)
	// Reconcile compares each on_hand against the signed sum of its moves.
	Reconcile(ctx context.Context) ([]models.LedgerBalance, error)
}

type inventoryRepo struct {
	db Database
}

func NewInventoryRepo(db Database) InventoryRepository {
	return &inventoryRepo{db: db}
}

const inventorySelect = `
	SELECT i.id, i.material_id, m.code, m.name, m.unit, m.safety_stock, i.on_hand, i.reserved, i.updated_at
	FROM inventory i
	JOIN materials m ON m.id = i.material_id
`

func scanInventory(row rowScanner) (*models.Inventory, error) {
	inv := &models.Inventory{}
	err := row.Scan(&inv.ID, &inv.MaterialID, &inv.MaterialCode, &inv.MaterialName, &inv.Unit,
		&inv.SafetyStock, &inv.OnHand, &inv.Reserved, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *inventoryRepo) Create(ctx context.Context, inventory *models.Inventory) error {
	query := `
		INSERT INTO inventory (id, material_id, on_hand, reserved, updated_at)
		VALUES ($1, $2, 0, 0, NOW())
		ON CONFLICT (material_id) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, inventory.ID, inventory.MaterialID)
	return translate(err, "inventory")
}

func (r *inventoryRepo) GetByMaterial(ctx context.Context, materialID uuid.UUID) (*models.Inventory, error) {
	inv, err := scanInventory(r.db.QueryRow(ctx, inventorySelect+` WHERE i.material_id = $1`, materialID))
	if err != nil {
		return nil, translate(err, "inventory")
	}
	return inv, nil
}

func (r *inventoryRepo) List(ctx context.Context, limit, offset int) ([]*models.Inventory, error) {
	return r.list(ctx, inventorySelect+` ORDER BY m.code LIMIT $1 OFFSET $2`, limit, offset)
}

func (r *inventoryRepo) ListBelowSafetyStock(ctx context.Context) ([]*models.Inventory, error) {
	return r.list(ctx, inventorySelect+` WHERE m.safety_stock > 0 AND i.on_hand - i.reserved < m.safety_stock ORDER BY m.code`)
}

func (r *inventoryRepo) list(ctx context.Context, query string, args ...any) ([]*models.Inventory, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var inventories []*models.Inventory
	for rows.Next() {
		inv, err := scanInventory(rows)
		if err != nil {
			return nil, err
		}
		inventories = append(inventories, inv)
	}
	return inventories, rows.Err()
}

func (r *inventoryRepo) Increment(ctx context.Context, materialID uuid.UUID, qty int) (*models.Inventory, error) {
	query := `
		WITH updated AS (
			UPDATE inventory SET on_hand = on_hand + $2, updated_at = NOW()
			WHERE material_id = $1
			RETURNING id, material_id, on_hand, reserved, updated_at
		)
		SELECT u.id, u.material_id, m.code, m.name, m.unit, m.safety_stock, u.on_hand, u.reserved, u.updated_at
		FROM updated u JOIN materials m ON m.id = u.material_id
	`
	inv, err := scanInventory(r.db.QueryRow(ctx, query, materialID, qty))
	if err != nil {
		return nil, translate(err, "inventory")
	}
	return inv, nil
}

func (r *inventoryRepo) TryDecrement(ctx context.Context, materialID uuid.UUID, qty int) (*models.Inventory, bool, error) {
	query := `
		WITH updated AS (
			UPDATE inventory SET on_hand = on_hand - $2, updated_at = NOW()
			WHERE material_id = $1 AND on_hand >= $2
			RETURNING id, material_id, on_hand, reserved, updated_at
		)
		SELECT u.id, u.material_id, m.code, m.name, m.unit, m.safety_stock, u.on_hand, u.reserved, u.updated_at
		FROM updated u JOIN materials m ON m.id = u.material_id
	`
	inv, err := scanInventory(r.db.QueryRow(ctx, query, materialID, qty))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, translate(err, "inventory")
	}
	return inv, true, nil
}

func (r *inventoryRepo) DeleteByMaterial(ctx context.Context, materialID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM inventory WHERE material_id = $1`, materialID)
	return translate(err, "inventory")
}

func (r *inventoryRepo) Reconcile(ctx context.Context) ([]models.LedgerBalance, error) {
	query := `
		SELECT m.id, m.code, i.on_hand, COALESCE(SUM(s.qty), 0)::int AS moves_total
		FROM inventory i
		JOIN materials m ON m.id = i.material_id
		LEFT JOIN stock_moves s ON s.material_id = i.material_id
		GROUP BY m.id, m.code, i.on_hand
		ORDER BY m.code
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var balances []models.LedgerBalance
	for rows.Next() {
		var b models.LedgerBalance
		if err := rows.Scan(&b.MaterialID, &b.MaterialCode, &b.OnHand, &b.MovesTotal); err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}
	return balances, rows.Err()
}
