package services

import (
	"context"
	"strings"

	"moldmes/internal/common"
	"moldmes/internal/models"
	"moldmes/internal/repositories"

	"github.com/google/uuid"
)

type ProductService interface {
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Update(ctx context.Context, id uuid.UUID, update *models.ProductUpdate) (*models.Product, error)
	// Delete removes the product and its BOM edges. Products bound to tasks
	// are rejected with a conflict.
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Product, error)
}

type productService struct {
	tx    repositories.Transactor
	repos *repositories.Repositories
}

func NewProductService(tx repositories.Transactor, repos *repositories.Repositories) ProductService {
	return &productService{tx: tx, repos: repos}
}

func (s *productService) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	product.Code = strings.TrimSpace(product.Code)
	product.Name = strings.TrimSpace(product.Name)
	if err := validateCodeName(product.Code, product.Name, "product_code", "product_name"); err != nil {
		return nil, err
	}
	version, err := common.ValidateOptionalString(product.Version, "version", 50)
	if err != nil {
		return nil, err
	}
	product.Version = version
	product.ID = uuid.New()

	if err := s.repos.Products.Create(ctx, product); err != nil {
		return nil, err
	}
	return s.repos.Products.GetByID(ctx, product.ID)
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.repos.Products.GetByID(ctx, id)
}

func (s *productService) List(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	limit, offset = common.Paginate(limit, offset)
	return s.repos.Products.List(ctx, limit, offset)
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, update *models.ProductUpdate) (*models.Product, error) {
	var updated *models.Product
	err := s.tx.WithinTx(ctx, func(repos *repositories.Repositories) error {
		product, err := repos.Products.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if update.Name != nil {
			name := strings.TrimSpace(*update.Name)
			if err := validateCodeName(product.Code, name, "product_code", "product_name"); err != nil {
				return err
			}
			product.Name = name
		}
		if update.Version != nil {
			if product.Version, err = common.ValidateOptionalString(update.Version, "version", 50); err != nil {
				return err
			}
		}
		if err := repos.Products.Update(ctx, product); err != nil {
			return err
		}
		updated, err = repos.Products.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.tx.WithinTx(ctx, func(repos *repositories.Repositories) error {
		if _, err := repos.Products.GetByID(ctx, id); err != nil {
			return err
		}
		if _, err := repos.BOM.DeleteByProduct(ctx, id); err != nil {
			return err
		}
		return repos.Products.Delete(ctx, id)
	})
}
