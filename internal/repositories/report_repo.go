package repositories

import (
	"context"

	"moldmes/internal/models"

	"github.com/google/uuid"
)

type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]*models.Report, error)
	DeleteByTask(ctx context.Context, taskID uuid.UUID) (int64, error)
}

type reportRepo struct {
	db Database
}

func NewReportRepo(db Database) ReportRepository {
	return &reportRepo{db: db}
}

func (r *reportRepo) Create(ctx context.Context, report *models.Report) error {
	query := `INSERT INTO reports (id, task_id, qty, created_at) VALUES ($1, $2, $3, NOW()) RETURNING created_at`
	err := r.db.QueryRow(ctx, query, report.ID, report.TaskID, report.Qty).Scan(&report.CreatedAt)
	return translate(err, "report")
}

func (r *reportRepo) ListByTask(ctx context.Context, taskID uuid.UUID) ([]*models.Report, error) {
	query := `
		SELECT r.id, r.task_id, t.task_no, r.qty, r.created_at
		FROM reports r
		JOIN tasks t ON t.id = r.task_id
		WHERE r.task_id = $1
		ORDER BY r.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []*models.Report
	for rows.Next() {
		rep := &models.Report{}
		if err := rows.Scan(&rep.ID, &rep.TaskID, &rep.TaskNo, &rep.Qty, &rep.CreatedAt); err != nil {
			return nil, err
		}
		reports = append(reports, rep)
	}
	return reports, rows.Err()
}

func (r *reportRepo) DeleteByTask(ctx context.Context, taskID uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM reports WHERE task_id = $1`, taskID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
