package models

import "github.com/google/uuid"

// TaskCreate is the input of task creation.
type TaskCreate struct {
	TaskNo       string     `json:"task_no"`
	MoldID       uuid.UUID  `json:"mold_id"`
	ProductID    *uuid.UUID `json:"product_id"`
	OperatorName string     `json:"operator_name"`
	TargetQty    int        `json:"target_qty"`
}

// WorkReport reports produced quantity against a task number.
type WorkReport struct {
	TaskNo string `json:"task_no"`
	Qty    int    `json:"qty"`
}

type StockReceipt struct {
	MaterialID uuid.UUID `json:"material_id"`
	Qty        int       `json:"qty"`
	Note       *string   `json:"note"`
}

type StockIssue struct {
	MaterialID uuid.UUID `json:"material_id"`
	Qty        int       `json:"qty"`
}

type BOMItemUpsert struct {
	MaterialID uuid.UUID `json:"material_id"`
	QtyPerUnit int       `json:"qty_per_unit"`
}

// IssueResult is the state after a successful issue.
type IssueResult struct {
	Inventory   *Inventory               `json:"inventory"`
	Requirement *TaskMaterialRequirement `json:"requirement"`
	Move        *StockMove               `json:"move"`
}

// ProgressResult is the state after a work report.
type ProgressResult struct {
	Task   *Task   `json:"task"`
	Mold   *Mold   `json:"mold"`
	Report *Report `json:"report"`
}
