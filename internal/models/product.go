package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is an expandable assembly. Every imported tree node is both a
// Material and a Product sharing the same code.
type Product struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Code      string    `json:"product_code" db:"code"`
	Name      string    `json:"product_name" db:"name"`
	Version   *string   `json:"version" db:"version"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ProductUpdate carries the mutable product fields. Code is immutable.
type ProductUpdate struct {
	Name    *string `json:"product_name"`
	Version *string `json:"version"`
}
