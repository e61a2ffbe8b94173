package repositories

import (
	"context"

	"moldmes/internal/models"

	"github.com/google/uuid"
)

type RequirementRepository interface {
	// Upsert creates the (task, material) row with issued_qty 0 or overwrites
	// required_qty on an existing one. issued_qty is never touched.
	Upsert(ctx context.Context, req *models.TaskMaterialRequirement) (bool, error)
	GetForUpdate(ctx context.Context, taskID, materialID uuid.UUID) (*models.TaskMaterialRequirement, error)
	AddIssued(ctx context.Context, id uuid.UUID, qty int) (*models.TaskMaterialRequirement, error)
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]*models.TaskMaterialRequirement, error)
	DeleteByTask(ctx context.Context, taskID uuid.UUID) (int64, error)
}

type requirementRepo struct {
	db Database
}

func NewRequirementRepo(db Database) RequirementRepository {
	return &requirementRepo{db: db}
}

const requirementSelect = `
	SELECT r.id, r.task_id, r.material_id, m.code, m.name, m.unit, r.required_qty, r.issued_qty, r.updated_at
	FROM task_material_requirements r
	JOIN materials m ON m.id = r.material_id
`

func scanRequirement(row rowScanner) (*models.TaskMaterialRequirement, error) {
	req := &models.TaskMaterialRequirement{}
	err := row.Scan(&req.ID, &req.TaskID, &req.MaterialID, &req.MaterialCode, &req.MaterialName, &req.Unit,
		&req.RequiredQty, &req.IssuedQty, &req.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (r *requirementRepo) Upsert(ctx context.Context, req *models.TaskMaterialRequirement) (bool, error) {
	query := `
		INSERT INTO task_material_requirements (id, task_id, material_id, required_qty, issued_qty, updated_at)
		VALUES ($1, $2, $3, $4, 0, NOW())
		ON CONFLICT (task_id, material_id) DO UPDATE SET required_qty = EXCLUDED.required_qty, updated_at = NOW()
		RETURNING id, issued_qty, (xmax = 0) AS inserted
	`
	var inserted bool
	err := r.db.QueryRow(ctx, query, req.ID, req.TaskID, req.MaterialID, req.RequiredQty).
		Scan(&req.ID, &req.IssuedQty, &inserted)
	if err != nil {
		return false, translate(err, "requirement")
	}
	return inserted, nil
}

func (r *requirementRepo) GetForUpdate(ctx context.Context, taskID, materialID uuid.UUID) (*models.TaskMaterialRequirement, error) {
	query := requirementSelect + ` WHERE r.task_id = $1 AND r.material_id = $2 FOR UPDATE OF r`
	req, err := scanRequirement(r.db.QueryRow(ctx, query, taskID, materialID))
	if err != nil {
		return nil, translate(err, "requirement")
	}
	return req, nil
}

func (r *requirementRepo) AddIssued(ctx context.Context, id uuid.UUID, qty int) (*models.TaskMaterialRequirement, error) {
	query := `
		WITH updated AS (
			UPDATE task_material_requirements SET issued_qty = issued_qty + $2, updated_at = NOW()
			WHERE id = $1
			RETURNING id, task_id, material_id, required_qty, issued_qty, updated_at
		)
		SELECT u.id, u.task_id, u.material_id, m.code, m.name, m.unit, u.required_qty, u.issued_qty, u.updated_at
		FROM updated u JOIN materials m ON m.id = u.material_id
	`
	req, err := scanRequirement(r.db.QueryRow(ctx, query, id, qty))
	if err != nil {
		return nil, translate(err, "requirement")
	}
	return req, nil
}

func (r *requirementRepo) ListByTask(ctx context.Context, taskID uuid.UUID) ([]*models.TaskMaterialRequirement, error) {
	rows, err := r.db.Query(ctx, requirementSelect+` WHERE r.task_id = $1 ORDER BY m.code`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reqs []*models.TaskMaterialRequirement
	for rows.Next() {
		req, err := scanRequirement(rows)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}

func (r *requirementRepo) DeleteByTask(ctx context.Context, taskID uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM task_material_requirements WHERE task_id = $1`, taskID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
