package models

import (
	"time"

	"github.com/google/uuid"
)

const DefaultUnit = "pcs"

type Material struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Code         string    `json:"material_code" db:"code"`
	Name         string    `json:"material_name" db:"name"`
	DrawingNo    *string   `json:"drawing_no" db:"drawing_no"`
	MaterialType *string   `json:"material_type" db:"material_type"`
	Remark       *string   `json:"remark" db:"remark"`
	Unit         string    `json:"unit" db:"unit"`
	SafetyStock  int       `json:"safety_stock" db:"safety_stock"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// MaterialUpdate carries the mutable material fields. Code is immutable once
// created; a nil field is left untouched.
type MaterialUpdate struct {
	Name         *string `json:"material_name"`
	DrawingNo    *string `json:"drawing_no"`
	MaterialType *string `json:"material_type"`
	Remark       *string `json:"remark"`
	Unit         *string `json:"unit"`
	SafetyStock  *int    `json:"safety_stock"`
}
