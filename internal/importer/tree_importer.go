package importer

import (
	"context"
	"strings"
	"time"

	"moldmes/internal/models"
	"moldmes/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Archiver keeps a copy of the raw import payload.
type Archiver interface {
	ArchiveImport(ctx context.Context, importID uuid.UUID, filename, contentType string, payload []byte) (string, error)
}

// InventoryCache drops cached inventory rows. Material names and units are
// cached alongside stock, so an import invalidates every row it may touch.
type InventoryCache interface {
	InvalidateAllInventory(ctx context.Context) error
}

// Source is one uploaded tree table.
type Source struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// TreeImporter rebuilds a multi-level BOM from a depth-annotated table.
// Each import runs in a single transaction: either every row is applied or
// none is.
type TreeImporter struct {
	tx       repositories.Transactor
	archiver Archiver
	cache    InventoryCache
	logger   *zap.Logger
}

// NewTreeImporter wires the importer. archiver and cache may be nil.
func NewTreeImporter(tx repositories.Transactor, archiver Archiver, cache InventoryCache, logger *zap.Logger) *TreeImporter {
	return &TreeImporter{tx: tx, archiver: archiver, cache: cache, logger: logger}
}

func (i *TreeImporter) Import(ctx context.Context, src Source) (*models.TreeImportResult, error) {
	rows, err := ReadTable(src.Filename, src.Payload)
	if err != nil {
		return nil, err
	}
	if err := CheckTable(rows); err != nil {
		return nil, err
	}

	start := time.Now()
	importID := uuid.New()
	var result *models.TreeImportResult

	err = i.tx.WithinTx(ctx, func(repos *repositories.Repositories) error {
		// The transactor may retry, so counters start over on every attempt.
		result = &models.TreeImportResult{ImportID: importID, Rows: len(rows) - 1}
		var f frontier
		for _, cells := range rows[1:] {
			if err := ctx.Err(); err != nil {
				return err
			}
			row, ok := ParseRow(cells)
			if !ok {
				result.Skipped++
				continue
			}
			if err := applyRow(ctx, repos, row, &f, result); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		i.logger.Error("Tree import rolled back", zap.String("import_id", importID.String()), zap.Error(err))
		return nil, err
	}

	if i.cache != nil {
		if err := i.cache.InvalidateAllInventory(ctx); err != nil {
			i.logger.Warn("Failed to invalidate inventory cache after import", zap.String("import_id", importID.String()), zap.Error(err))
		}
	}

	if i.archiver != nil {
		key, err := i.archiver.ArchiveImport(ctx, importID, src.Filename, src.ContentType, src.Payload)
		if err != nil {
			i.logger.Warn("Failed to archive import payload", zap.String("import_id", importID.String()), zap.Error(err))
		} else {
			result.ArchiveKey = key
		}
	}

	i.logger.Info("Tree import committed",
		zap.String("import_id", importID.String()),
		zap.Int("rows", result.Rows),
		zap.Int("bom_created", result.BOMCreated),
		zap.Int("bom_updated", result.BOMUpdated),
		zap.Int("skipped", result.Skipped),
		zap.Duration("elapsed", time.Since(start)))

	return result, nil
}

// applyRow upserts the row's material and product, then attaches it to its
// parent. A row whose parent depth is not live still upserts its material
// and product but is counted as skipped and never enters the frontier.
func applyRow(ctx context.Context, repos *repositories.Repositories, row Row, f *frontier, result *models.TreeImportResult) error {
	material := &models.Material{
		ID:           uuid.New(),
		Code:         row.Code,
		Name:         row.Name,
		DrawingNo:    optional(row.DrawingNo),
		MaterialType: optional(row.Type),
		Remark:       optional(row.Remark),
		Unit:         row.Unit,
	}
	materialID, created, err := repos.Materials.UpsertByCode(ctx, material)
	if err != nil {
		return err
	}
	if created {
		if err := repos.Inventory.Create(ctx, &models.Inventory{ID: uuid.New(), MaterialID: materialID}); err != nil {
			return err
		}
	}

	productID, _, err := repos.Products.UpsertByCode(ctx, &models.Product{ID: uuid.New(), Code: row.Code, Name: row.Name})
	if err != nil {
		return err
	}

	if row.Depth == 0 {
		f.reset(productID)
		return nil
	}

	parentID, ok := f.parent(row.Depth)
	if !ok {
		result.Skipped++
		return nil
	}

	edgeCreated, err := repos.BOM.Upsert(ctx, &models.BOMItem{
		ID:         uuid.New(),
		ProductID:  parentID,
		MaterialID: materialID,
		QtyPerUnit: row.Qty,
	})
	if err != nil {
		return err
	}
	if edgeCreated {
		result.BOMCreated++
	} else {
		result.BOMUpdated++
	}

	f.push(row.Depth, productID)
	return nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
