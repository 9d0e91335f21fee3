package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// VariationOrderStatus is the workflow state of a variation order.
// PENDING is the only non-terminal state: once an order is APPROVED or
// REJECTED no further workflow transition is permitted.
type VariationOrderStatus string

const (
	VariationPending  VariationOrderStatus = "PENDING"
	VariationApproved VariationOrderStatus = "APPROVED"
	VariationRejected VariationOrderStatus = "REJECTED"
)

// VariationOrder is a change to a job's approved scope. Only APPROVED
// orders contribute their value to the job's effective budget total.
type VariationOrder struct {
	OrderID     string               `json:"orderID"` // Primary key (UUID)
	JobID       string               `json:"jobID"`   // FK -> jobs.job_id
	Description string               `json:"description"`
	Value       decimal.Decimal      `json:"value"` // Signed; positive adds scope
	Status      VariationOrderStatus `json:"status"`
	ApprovedBy  string               `json:"approvedBy"` // Who closed the order (approve or reject)
	ApprovedAt  *time.Time           `json:"approvedAt"` // When the order left PENDING
	Notes       string               `json:"notes"`
	AuditFields
}

// IsTerminal reports whether the order has left the PENDING state.
func (v *VariationOrder) IsTerminal() bool {
	return v.Status == VariationApproved || v.Status == VariationRejected
}
