package models

import (
	"time"

	"github.com/google/uuid"
)

type MoldStatus string

const (
	MoldStatusIdle        MoldStatus = "Idle"
	MoldStatusInUse       MoldStatus = "InUse"
	MoldStatusMaintenance MoldStatus = "Maintenance"
)

func (s MoldStatus) Valid() bool {
	switch s {
	case MoldStatusIdle, MoldStatusInUse, MoldStatusMaintenance:
		return true
	}
	return false
}

type Mold struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	Code      string     `json:"mold_code" db:"code"`
	Name      string     `json:"mold_name" db:"name"`
	TotalLife int        `json:"total_life" db:"total_life"`
	UsedCount int        `json:"used_count" db:"used_count"`
	Status    MoldStatus `json:"status" db:"status"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

// MoldUpdate carries the editable mold fields. Status may only move between
// Idle and Maintenance here; InUse is owned by the task lifecycle.
type MoldUpdate struct {
	Name      *string     `json:"mold_name"`
	TotalLife *int        `json:"total_life"`
	Status    *MoldStatus `json:"status"`
}

// MoldSearchFilter holds list criteria for molds
type MoldSearchFilter struct {
	Query  string `query:"q"`
	Limit  int    `query:"limit"`
	Offset int    `query:"offset"`
}
