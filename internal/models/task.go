package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskStatusInProgress TaskStatus = "InProgress"
	TaskStatusCompleted  TaskStatus = "Completed"
)

type Task struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	TaskNo       string     `json:"task_no" db:"task_no"`
	MoldID       uuid.UUID  `json:"mold_id" db:"mold_id"`
	MoldCode     string     `json:"mold_code,omitempty" db:"mold_code"`
	MoldName     string     `json:"mold_name,omitempty" db:"mold_name"`
	ProductID    *uuid.UUID `json:"product_id" db:"product_id"`
	ProductCode  *string    `json:"product_code,omitempty" db:"product_code"`
	ProductName  *string    `json:"product_name,omitempty" db:"product_name"`
	OperatorName string     `json:"operator_name" db:"operator_name"`
	TargetQty    int        `json:"target_qty" db:"target_qty"`
	DoneQty      int        `json:"done_qty" db:"done_qty"`
	Status       TaskStatus `json:"status" db:"status"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// ApplyProgress adds qty to done_qty, clamped at target_qty, and completes the
// task when the target is reached. It reports whether this call completed it.
func (t *Task) ApplyProgress(qty int) bool {
	if t.Status == TaskStatusCompleted {
		return false
	}
	t.DoneQty += qty
	if t.DoneQty >= t.TargetQty {
		t.DoneQty = t.TargetQty
		t.Status = TaskStatusCompleted
		return true
	}
	return false
}

// TaskMaterialRequirement is the per-task demand for one material.
type TaskMaterialRequirement struct {
	ID           uuid.UUID `json:"id" db:"id"`
	TaskID       uuid.UUID `json:"task_id" db:"task_id"`
	MaterialID   uuid.UUID `json:"material_id" db:"material_id"`
	MaterialCode string    `json:"material_code,omitempty" db:"material_code"`
	MaterialName string    `json:"material_name,omitempty" db:"material_name"`
	Unit         string    `json:"unit,omitempty" db:"unit"`
	RequiredQty  int       `json:"required_qty" db:"required_qty"`
	IssuedQty    int       `json:"issued_qty" db:"issued_qty"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Shortage is the unmet part of the requirement, never negative.
func (r TaskMaterialRequirement) Shortage() int {
	if r.IssuedQty >= r.RequiredQty {
		return 0
	}
	return r.RequiredQty - r.IssuedQty
}

func (r TaskMaterialRequirement) MarshalJSON() ([]byte, error) {
	type requirement TaskMaterialRequirement
	return json.Marshal(struct {
		requirement
		ShortageQty int `json:"shortage_qty"`
	}{requirement(r), r.Shortage()})
}

// Report is the audit record of one work report against a task.
type Report struct {
	ID        uuid.UUID `json:"id" db:"id"`
	TaskID    uuid.UUID `json:"task_id" db:"task_id"`
	TaskNo    string    `json:"task_no,omitempty" db:"task_no"`
	Qty       int       `json:"qty" db:"qty"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
