package testhelpers

import (
	"context"
	"os"
	"testing"

	"moldmes/internal/models"
	"moldmes/internal/repositories"
	"moldmes/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// TestDB holds the database connection for testing
type TestDB struct {
	Pool    *pgxpool.Pool
	Repos   *repositories.Repositories
	Tx      repositories.Transactor
	Cleanup func() error
}

// SetupTestDB migrates and truncates the database named by TEST_DATABASE_URL.
// The test is skipped when the variable is unset.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	if err := database.Migrate(connString, 0, zap.NewNop()); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	pool, err := pgxpool.New(context.Background(), connString)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	_, err = pool.Exec(context.Background(), `
		TRUNCATE reports, task_material_requirements, tasks, molds,
			stock_moves, bom_items, products, inventory, materials CASCADE
	`)
	if err != nil {
		pool.Close()
		t.Fatalf("Failed to truncate test database: %v", err)
	}

	return &TestDB{
		Pool:  pool,
		Repos: repositories.New(pool),
		Tx:    repositories.NewTransactor(pool, repositories.DefaultTxOptions()),
		Cleanup: func() error {
			pool.Close()
			return nil
		},
	}
}

// SeedMaterial creates a material with its inventory row. A positive onHand
// is booked as an IN move so the ledger stays consistent.
func SeedMaterial(t *testing.T, db *TestDB, code string, onHand int) *models.Material {
	t.Helper()
	ctx := context.Background()

	material := &models.Material{
		ID:   uuid.New(),
		Code: code,
		Name: "Material " + code,
		Unit: "pcs",
	}
	err := db.Tx.WithinTx(ctx, func(repos *repositories.Repositories) error {
		if err := repos.Materials.Create(ctx, material); err != nil {
			return err
		}
		if err := repos.Inventory.Create(ctx, &models.Inventory{ID: uuid.New(), MaterialID: material.ID}); err != nil {
			return err
		}
		if onHand <= 0 {
			return nil
		}
		if _, err := repos.Inventory.Increment(ctx, material.ID, onHand); err != nil {
			return err
		}
		return repos.StockMoves.Append(ctx, &models.StockMove{
			ID:         uuid.New(),
			MaterialID: material.ID,
			Qty:        onHand,
			MoveType:   models.MoveTypeIn,
			RefType:    models.RefTypeManual,
		})
	})
	if err != nil {
		t.Fatalf("Failed to seed material %s: %v", code, err)
	}

	return material
}

// SeedProduct creates a product whose BOM lists each material with the given
// qty_per_unit.
func SeedProduct(t *testing.T, db *TestDB, code string, bom map[uuid.UUID]int) *models.Product {
	t.Helper()
	ctx := context.Background()

	product := &models.Product{ID: uuid.New(), Code: code, Name: "Product " + code}
	err := db.Tx.WithinTx(ctx, func(repos *repositories.Repositories) error {
		if err := repos.Products.Create(ctx, product); err != nil {
			return err
		}
		for materialID, qty := range bom {
			item := &models.BOMItem{ID: uuid.New(), ProductID: product.ID, MaterialID: materialID, QtyPerUnit: qty}
			if _, err := repos.BOM.Upsert(ctx, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to seed product %s: %v", code, err)
	}

	return product
}

// SeedMold creates an Idle mold.
func SeedMold(t *testing.T, db *TestDB, code string, totalLife int) *models.Mold {
	t.Helper()

	mold := &models.Mold{
		ID:        uuid.New(),
		Code:      code,
		Name:      "Mold " + code,
		TotalLife: totalLife,
		Status:    models.MoldStatusIdle,
	}
	if err := db.Repos.Molds.Create(context.Background(), mold); err != nil {
		t.Fatalf("Failed to seed mold %s: %v", code, err)
	}

	return mold
}
