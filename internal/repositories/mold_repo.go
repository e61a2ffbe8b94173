package repositories

import (
	"context"
	"fmt"

	"moldmes/internal/models"

	"github.com/google/uuid"
)

type MoldRepository interface {
	Create(ctx context.Context, mold *models.Mold) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Mold, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Mold, error)
	Update(ctx context.Context, mold *models.Mold) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter *models.MoldSearchFilter) ([]*models.Mold, error)
	// Occupy moves an Idle mold to InUse. It reports false when the mold is
	// missing or not Idle.
	Occupy(ctx context.Context, id uuid.UUID) (bool, error)
	// Release moves an InUse mold back to Idle. Other states are left alone.
	Release(ctx context.Context, id uuid.UUID) (bool, error)
	// AddUsage adds qty to used_count and, when release is set, frees an InUse
	// mold in the same statement.
	AddUsage(ctx context.Context, id uuid.UUID, qty int, release bool) (*models.Mold, error)
}

type moldRepo struct {
	db Database
}

func NewMoldRepo(db Database) MoldRepository {
	return &moldRepo{db: db}
}

const moldColumns = `id, code, name, total_life, used_count, status, created_at, updated_at`

func scanMold(row rowScanner) (*models.Mold, error) {
	m := &models.Mold{}
	if err := row.Scan(&m.ID, &m.Code, &m.Name, &m.TotalLife, &m.UsedCount, &m.Status, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return m, nil
}

func (r *moldRepo) Create(ctx context.Context, mold *models.Mold) error {
	query := `
		INSERT INTO molds (id, code, name, total_life, used_count, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, mold.ID, mold.Code, mold.Name, mold.TotalLife, mold.UsedCount, mold.Status)
	return translate(err, "mold")
}

func (r *moldRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Mold, error) {
	m, err := scanMold(r.db.QueryRow(ctx, `SELECT `+moldColumns+` FROM molds WHERE id = $1`, id))
	if err != nil {
		return nil, translate(err, "mold")
	}
	return m, nil
}

func (r *moldRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Mold, error) {
	m, err := scanMold(r.db.QueryRow(ctx, `SELECT `+moldColumns+` FROM molds WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, translate(err, "mold")
	}
	return m, nil
}

func (r *moldRepo) Update(ctx context.Context, mold *models.Mold) error {
	query := `UPDATE molds SET name = $2, total_life = $3, status = $4, updated_at = NOW() WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, mold.ID, mold.Name, mold.TotalLife, mold.Status)
	if err != nil {
		return translate(err, "mold")
	}
	if tag.RowsAffected() == 0 {
		return translate(errNoRows, "mold")
	}
	return nil
}

func (r *moldRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM molds WHERE id = $1`, id)
	if err != nil {
		return translate(err, "mold")
	}
	if tag.RowsAffected() == 0 {
		return translate(errNoRows, "mold")
	}
	return nil
}

func (r *moldRepo) List(ctx context.Context, filter *models.MoldSearchFilter) ([]*models.Mold, error) {
	query := `SELECT ` + moldColumns + ` FROM molds`
	args := []any{}
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		query += ` WHERE code ILIKE $1 OR name ILIKE $1`
	}
	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var molds []*models.Mold
	for rows.Next() {
		m, err := scanMold(rows)
		if err != nil {
			return nil, err
		}
		molds = append(molds, m)
	}
	return molds, rows.Err()
}

func (r *moldRepo) Occupy(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `UPDATE molds SET status = 'InUse', updated_at = NOW() WHERE id = $1 AND status = 'Idle'`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return false, translate(err, "mold")
	}
	return tag.RowsAffected() == 1, nil
}

func (r *moldRepo) Release(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `UPDATE molds SET status = 'Idle', updated_at = NOW() WHERE id = $1 AND status = 'InUse'`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return false, translate(err, "mold")
	}
	return tag.RowsAffected() == 1, nil
}

func (r *moldRepo) AddUsage(ctx context.Context, id uuid.UUID, qty int, release bool) (*models.Mold, error) {
	query := `
		UPDATE molds
		SET used_count = used_count + $2,
			status = CASE WHEN $3::boolean AND status = 'InUse' THEN 'Idle' ELSE status END,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + moldColumns
	m, err := scanMold(r.db.QueryRow(ctx, query, id, qty, release))
	if err != nil {
		return nil, translate(err, "mold")
	}
	return m, nil
}
