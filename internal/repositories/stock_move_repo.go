package repositories

import (
	"context"

	"moldmes/internal/models"

	"github.com/google/uuid"
)

// StockMoveRepository is append-only: there is no update or delete.
type StockMoveRepository interface {
	Append(ctx context.Context, move *models.StockMove) error
	ListByMaterial(ctx context.Context, materialID uuid.UUID, limit, offset int) ([]*models.StockMove, error)
	SumByMaterial(ctx context.Context, materialID uuid.UUID) (int, error)
}

type stockMoveRepo struct {
	db Database
}

func NewStockMoveRepo(db Database) StockMoveRepository {
	return &stockMoveRepo{db: db}
}

func (r *stockMoveRepo) Append(ctx context.Context, move *models.StockMove) error {
	query := `
		INSERT INTO stock_moves (id, material_id, qty, move_type, ref_type, ref_id, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING created_at
	`
	err := r.db.QueryRow(ctx, query, move.ID, move.MaterialID, move.Qty, move.MoveType, move.RefType,
		move.RefID, move.Note).Scan(&move.CreatedAt)
	return translate(err, "stock move")
}

func (r *stockMoveRepo) ListByMaterial(ctx context.Context, materialID uuid.UUID, limit, offset int) ([]*models.StockMove, error) {
	query := `
		SELECT s.id, s.material_id, m.code, s.qty, s.move_type, s.ref_type, s.ref_id, s.note, s.created_at
		FROM stock_moves s
		JOIN materials m ON m.id = s.material_id
		WHERE s.material_id = $1
		ORDER BY s.created_at DESC, s.id
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, materialID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var moves []*models.StockMove
	for rows.Next() {
		m := &models.StockMove{}
		if err := rows.Scan(&m.ID, &m.MaterialID, &m.MaterialCode, &m.Qty, &m.MoveType, &m.RefType,
			&m.RefID, &m.Note, &m.CreatedAt); err != nil {
			return nil, err
		}
		moves = append(moves, m)
	}
	return moves, rows.Err()
}

func (r *stockMoveRepo) SumByMaterial(ctx context.Context, materialID uuid.UUID) (int, error) {
	var total int
	err := r.db.QueryRow(ctx, `SELECT COALESCE(SUM(qty), 0)::int FROM stock_moves WHERE material_id = $1`, materialID).Scan(&total)
	return total, err
}
