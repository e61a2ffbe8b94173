package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Inventory is the on-hand projection of a single material. Rows are 1:1 with
// materials and are only changed through ledger operations.
type Inventory struct {
	ID           uuid.UUID `json:"id" db:"id"`
	MaterialID   uuid.UUID `json:"material_id" db:"material_id"`
	MaterialCode string    `json:"material_code,omitempty" db:"material_code"`
	MaterialName string    `json:"material_name,omitempty" db:"material_name"`
	Unit         string    `json:"unit,omitempty" db:"unit"`
	SafetyStock  int       `json:"safety_stock" db:"safety_stock"`
	OnHand       int       `json:"on_hand" db:"on_hand"`
	Reserved     int       `json:"reserved" db:"reserved"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Available is on_hand minus reserved.
func (i Inventory) Available() int {
	return i.OnHand - i.Reserved
}

// BelowSafetyStock reports whether available stock dropped under the
// material's configured safety level.
func (i Inventory) BelowSafetyStock() bool {
	return i.SafetyStock > 0 && i.Available() < i.SafetyStock
}

func (i Inventory) MarshalJSON() ([]byte, error) {
	type inventory Inventory
	return json.Marshal(struct {
		inventory
		Available int `json:"available"`
	}{inventory(i), i.Available()})
}

// LedgerBalance compares the stored on_hand against the signed sum of moves.
type LedgerBalance struct {
	MaterialID   uuid.UUID `json:"material_id"`
	MaterialCode string    `json:"material_code"`
	OnHand       int       `json:"on_hand"`
	MovesTotal   int       `json:"moves_total"`
}

// Drift is zero when the projection matches the ledger.
func (b LedgerBalance) Drift() int {
	return b.OnHand - b.MovesTotal
}

func (b LedgerBalance) Consistent() bool {
	return b.Drift() == 0
}
