package models

import (
	"time"

	"github.com/google/uuid"
)

// BOMItem is one edge Product -> Material. There is at most one edge per pair.
type BOMItem struct {
	ID           uuid.UUID `json:"id" db:"id"`
	ProductID    uuid.UUID `json:"product_id" db:"product_id"`
	ProductCode  string    `json:"product_code,omitempty" db:"product_code"`
	ProductName  string    `json:"product_name,omitempty" db:"product_name"`
	MaterialID   uuid.UUID `json:"material_id" db:"material_id"`
	MaterialCode string    `json:"material_code,omitempty" db:"material_code"`
	MaterialName string    `json:"material_name,omitempty" db:"material_name"`
	Unit         string    `json:"unit,omitempty" db:"unit"`
	QtyPerUnit   int       `json:"qty_per_unit" db:"qty_per_unit"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// TreeImportResult reports the outcome of a tree import.
type TreeImportResult struct {
	ImportID   uuid.UUID `json:"import_id"`
	Rows       int       `json:"rows"`
	BOMCreated int       `json:"bom_created"`
	BOMUpdated int       `json:"bom_updated"`
	Skipped    int       `json:"skipped"`
	ArchiveKey string    `json:"archive_key,omitempty"`
}
