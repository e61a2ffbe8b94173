package repositories

import (
	"context"

	"moldmes/internal/models"

	"github.com/google/uuid"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetByCode(ctx context.Context, code string) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Product, error)
	// UpsertByCode creates the product or refreshes its name only.
	UpsertByCode(ctx context.Context, product *models.Product) (uuid.UUID, bool, error)
}

type productRepo struct {
	db Database
}

func NewProductRepo(db Database) ProductRepository {
	return &productRepo{db: db}
}

const productColumns = `id, code, name, version, created_at, updated_at`

func scanProduct(row rowScanner) (*models.Product, error) {
	p := &models.Product{}
	if err := row.Scan(&p.ID, &p.Code, &p.Name, &p.Version, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (id, code, name, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, product.ID, product.Code, product.Name, product.Version)
	return translate(err, "product")
}

func (r *productRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, translate(err, "product")
	}
	return p, nil
}

func (r *productRepo) GetByCode(ctx context.Context, code string) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE code = $1`
	p, err := scanProduct(r.db.QueryRow(ctx, query, code))
	if err != nil {
		return nil, translate(err, "product")
	}
	return p, nil
}

func (r *productRepo) Update(ctx context.Context, product *models.Product) error {
	query := `UPDATE products SET name = $2, version = $3, updated_at = NOW() WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, product.ID, product.Name, product.Version)
	if err != nil {
		return translate(err, "product")
	}
	if tag.RowsAffected() == 0 {
		return translate(errNoRows, "product")
	}
	return nil
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return translate(err, "product")
	}
	if tag.RowsAffected() == 0 {
		return translate(errNoRows, "product")
	}
	return nil
}

func (r *productRepo) List(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC, code LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *productRepo) UpsertByCode(ctx context.Context, product *models.Product) (uuid.UUID, bool, error) {
	query := `
		INSERT INTO products (id, code, name, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, updated_at = NOW()
		RETURNING id, (xmax = 0) AS inserted
	`
	var id uuid.UUID
	var inserted bool
	err := r.db.QueryRow(ctx, query, product.ID, product.Code, product.Name, product.Version).Scan(&id, &inserted)
	if err != nil {
		return uuid.Nil, false, translate(err, "product")
	}
	return id, inserted, nil
}
