package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// VariationOrderStatus mirrors domain.VariationOrderStatus for DB storage.
type VariationOrderStatus string

// VariationOrder is the DB representation of a variation order.
// ApprovedBy/ApprovedAt are nullable until the order leaves PENDING.
type VariationOrder struct {
	OrderID     string               `db:"order_id"`
	JobID       string               `db:"job_id"`
	Description string               `db:"description"`
	Value       decimal.Decimal      `db:"value"`
	Status      VariationOrderStatus `db:"status"`
	ApprovedBy  *string              `db:"approved_by"`
	ApprovedAt  *time.Time           `db:"approved_at"`
	Notes       string               `db:"notes"`
	AuditFields
}
