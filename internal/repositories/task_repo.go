package repositories

import (
	"context"

	"moldmes/internal/models"

	"github.com/google/uuid"
)

type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Task, error)
	GetByTaskNoForUpdate(ctx context.Context, taskNo string) (*models.Task, error)
	// UpdateProgress persists done_qty and status only.
	UpdateProgress(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Task, error)
}

type taskRepo struct {
	db Database
}

func NewTaskRepo(db Database) TaskRepository {
	return &taskRepo{db: db}
}

const taskSelect = `
	SELECT t.id, t.task_no, t.mold_id, mo.code, mo.name, t.product_id, p.code, p.name,
		t.operator_name, t.target_qty, t.done_qty, t.status, t.created_at, t.updated_at
	FROM tasks t
	JOIN molds mo ON mo.id = t.mold_id
	LEFT JOIN products p ON p.id = t.product_id
`

func scanTask(row rowScanner) (*models.Task, error) {
	t := &models.Task{}
	err := row.Scan(&t.ID, &t.TaskNo, &t.MoldID, &t.MoldCode, &t.MoldName, &t.ProductID, &t.ProductCode,
		&t.ProductName, &t.OperatorName, &t.TargetQty, &t.DoneQty, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *taskRepo) Create(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (id, task_no, mold_id, product_id, operator_name, target_qty, done_qty, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, task.ID, task.TaskNo, task.MoldID, task.ProductID, task.OperatorName,
		task.TargetQty, task.DoneQty, task.Status).Scan(&task.CreatedAt, &task.UpdatedAt)
	return translate(err, "task")
}

func (r *taskRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	t, err := scanTask(r.db.QueryRow(ctx, taskSelect+` WHERE t.id = $1`, id))
	if err != nil {
		return nil, translate(err, "task")
	}
	return t, nil
}

func (r *taskRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	t, err := scanTask(r.db.QueryRow(ctx, taskSelect+` WHERE t.id = $1 FOR UPDATE OF t`, id))
	if err != nil {
		return nil, translate(err, "task")
	}
	return t, nil
}

func (r *taskRepo) GetByTaskNoForUpdate(ctx context.Context, taskNo string) (*models.Task, error) {
	t, err := scanTask(r.db.QueryRow(ctx, taskSelect+` WHERE t.task_no = $1 FOR UPDATE OF t`, taskNo))
	if err != nil {
		return nil, translate(err, "task")
	}
	return t, nil
}

func (r *taskRepo) UpdateProgress(ctx context.Context, task *models.Task) error {
	query := `UPDATE tasks SET done_qty = $2, status = $3, updated_at = NOW() WHERE id = $1 RETURNING updated_at`
	err := r.db.QueryRow(ctx, query, task.ID, task.DoneQty, task.Status).Scan(&task.UpdatedAt)
	return translate(err, "task")
}

func (r *taskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return translate(err, "task")
	}
	if tag.RowsAffected() == 0 {
		return translate(errNoRows, "task")
	}
	return nil
}

func (r *taskRepo) List(ctx context.Context, limit, offset int) ([]*models.Task, error) {
	rows, err := r.db.Query(ctx, taskSelect+` ORDER BY t.created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}
