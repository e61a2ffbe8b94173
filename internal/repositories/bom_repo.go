package repositories

import (
	"context"

	"moldmes/internal/models"

	"github.com/google/uuid"
)

type BOMRepository interface {
	// Upsert creates the (product, material) edge or overwrites its
	// qty_per_unit. It reports whether the edge was created.
	Upsert(ctx context.Context, item *models.BOMItem) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.BOMItem, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]*models.BOMItem, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
}

type bomRepo struct {
	db Database
}

func NewBOMRepo(db Database) BOMRepository {
	return &bomRepo{db: db}
}

const bomSelect = `
	SELECT b.id, b.product_id, p.code, p.name, b.material_id, m.code, m.name, m.unit, b.qty_per_unit, b.created_at, b.updated_at
	FROM bom_items b
	JOIN products p ON p.id = b.product_id
	JOIN materials m ON m.id = b.material_id
`

func scanBOMItem(row rowScanner) (*models.BOMItem, error) {
	b := &models.BOMItem{}
	err := row.Scan(&b.ID, &b.ProductID, &b.ProductCode, &b.ProductName, &b.MaterialID, &b.MaterialCode,
		&b.MaterialName, &b.Unit, &b.QtyPerUnit, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *bomRepo) Upsert(ctx context.Context, item *models.BOMItem) (bool, error) {
	query := `
		INSERT INTO bom_items (id, product_id, material_id, qty_per_unit, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (product_id, material_id) DO UPDATE SET qty_per_unit = EXCLUDED.qty_per_unit, updated_at = NOW()
		RETURNING id, (xmax = 0) AS inserted
	`
	var inserted bool
	err := r.db.QueryRow(ctx, query, item.ID, item.ProductID, item.MaterialID, item.QtyPerUnit).Scan(&item.ID, &inserted)
	if err != nil {
		return false, translate(err, "bom item")
	}
	return inserted, nil
}

func (r *bomRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.BOMItem, error) {
	b, err := scanBOMItem(r.db.QueryRow(ctx, bomSelect+` WHERE b.id = $1`, id))
	if err != nil {
		return nil, translate(err, "bom item")
	}
	return b, nil
}

func (r *bomRepo) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*models.BOMItem, error) {
	rows, err := r.db.Query(ctx, bomSelect+` WHERE b.product_id = $1 ORDER BY m.code`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.BOMItem
	for rows.Next() {
		b, err := scanBOMItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	return items, rows.Err()
}

func (r *bomRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM bom_items WHERE id = $1`, id)
	if err != nil {
		return translate(err, "bom item")
	}
	if tag.RowsAffected() == 0 {
		return translate(errNoRows, "bom item")
	}
	return nil
}

func (r *bomRepo) DeleteByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM bom_items WHERE product_id = $1`, productID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
