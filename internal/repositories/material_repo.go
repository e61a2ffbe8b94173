package repositories

import (
	"context"

	"moldmes/internal/models"

	"github.com/google/uuid"
)

type MaterialRepository interface {
	Create(ctx context.Context, material *models.Material) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Material, error)
	GetByCode(ctx context.Context, code string) (*models.Material, error)
	Update(ctx context.Context, material *models.Material) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Material, error)
	// UpsertByCode creates the material or refreshes its descriptive fields.
	// A blank unit keeps the stored unit. It reports whether a row was created.
	UpsertByCode(ctx context.Context, material *models.Material) (uuid.UUID, bool, error)
}

type materialRepo struct {
	db Database
}

func NewMaterialRepo(db Database) MaterialRepository {
	return &materialRepo{db: db}
}

const materialColumns = `id, code, name, drawing_no, material_type, remark, unit, safety_stock, created_at, updated_at`

func scanMaterial(row rowScanner) (*models.Material, error) {
	m := &models.Material{}
	err := row.Scan(&m.ID, &m.Code, &m.Name, &m.DrawingNo, &m.MaterialType, &m.Remark, &m.Unit, &m.SafetyStock, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *materialRepo) Create(ctx context.Context, material *models.Material) error {
	query := `
		INSERT INTO materials (id, code, name, drawing_no, material_type, remark, unit, safety_stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, material.ID, material.Code, material.Name, material.DrawingNo,
		material.MaterialType, material.Remark, material.Unit, material.SafetyStock)
	return translate(err, "material")
}

func (r *materialRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials WHERE id = $1`
	m, err := scanMaterial(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, translate(err, "material")
	}
	return m, nil
}

func (r *materialRepo) GetByCode(ctx context.Context, code string) (*models.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials WHERE code = $1`
	m, err := scanMaterial(r.db.QueryRow(ctx, query, code))
	if err != nil {
		return nil, translate(err, "material")
	}
	return m, nil
}

func (r *materialRepo) Update(ctx context.Context, material *models.Material) error {
	query := `
		UPDATE materials
		SET name = $2, drawing_no = $3, material_type = $4, remark = $5, unit = $6, safety_stock = $7, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query, material.ID, material.Name, material.DrawingNo, material.MaterialType,
		material.Remark, material.Unit, material.SafetyStock)
	if err != nil {
		return translate(err, "material")
	}
	if tag.RowsAffected() == 0 {
		return translate(errNoRows, "material")
	}
	return nil
}

func (r *materialRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM materials WHERE id = $1`, id)
	if err != nil {
		return translate(err, "material")
	}
	if tag.RowsAffected() == 0 {
		return translate(errNoRows, "material")
	}
	return nil
}

func (r *materialRepo) List(ctx context.Context, limit, offset int) ([]*models.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials ORDER BY created_at DESC, code LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var materials []*models.Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, err
		}
		materials = append(materials, m)
	}
	return materials, rows.Err()
}

func (r *materialRepo) UpsertByCode(ctx context.Context, material *models.Material) (uuid.UUID, bool, error) {
	query := `
		INSERT INTO materials (id, code, name, drawing_no, material_type, remark, unit, safety_stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, COALESCE(NULLIF($7::text, ''), 'pcs'), 0, NOW(), NOW())
		ON CONFLICT (code) DO UPDATE SET
			name = EXCLUDED.name,
			drawing_no = EXCLUDED.drawing_no,
			material_type = EXCLUDED.material_type,
			remark = EXCLUDED.remark,
			unit = COALESCE(NULLIF($7::text, ''), materials.unit),
			updated_at = NOW()
		RETURNING id, (xmax = 0) AS inserted
	`
	var id uuid.UUID
	var inserted bool
	err := r.db.QueryRow(ctx, query, material.ID, material.Code, material.Name, material.DrawingNo,
		material.MaterialType, material.Remark, material.Unit).Scan(&id, &inserted)
	if err != nil {
		return uuid.Nil, false, translate(err, "material")
	}
	return id, inserted, nil
}
