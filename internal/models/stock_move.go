package models

import (
	"time"

	"github.com/google/uuid"
)

// Move types. Quantities are signed: IN is positive, OUT negative.
const (
	MoveTypeIn     = "IN"
	MoveTypeOut    = "OUT"
	MoveTypeAdjust = "ADJUST"
)

// Reference types recorded on a move.
const (
	RefTypeManual = "MANUAL"
	RefTypeTask   = "TASK"
)

// StockMove is an immutable ledger entry. Corrections are new moves.
type StockMove struct {
	ID           uuid.UUID `json:"id" db:"id"`
	MaterialID   uuid.UUID `json:"material_id" db:"material_id"`
	MaterialCode string    `json:"material_code,omitempty" db:"material_code"`
	Qty          int       `json:"qty" db:"qty"`
	MoveType     string    `json:"move_type" db:"move_type"`
	RefType      string    `json:"ref_type" db:"ref_type"`
	RefID        *string   `json:"ref_id" db:"ref_id"`
	Note         *string   `json:"note,omitempty" db:"note"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
