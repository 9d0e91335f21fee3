package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/voltcraft/jobledger/internal/core/domain"
)

// CreateVariationOrderRequest creates a new order in the PENDING state.
type CreateVariationOrderRequest struct {
	Description string          `json:"description" binding:"required"`
	Value       decimal.Decimal `json:"value"`
	Notes       string          `json:"notes"`
}

// UpdateVariationOrderRequest edits an order's text fields. Value may only
// be changed while the order is PENDING; approved orders change value
// through the explicit amend operation instead.
type UpdateVariationOrderRequest struct {
	Description *string          `json:"description"`
	Value       *decimal.Decimal `json:"value"`
	Notes       *string          `json:"notes"`
}

// RejectVariationOrderRequest closes a PENDING order as rejected.
type RejectVariationOrderRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// AmendVariationOrderRequest changes the value of an APPROVED order as an
// explicit, audited amendment.
type AmendVariationOrderRequest struct {
	Value  decimal.Decimal `json:"value" binding:"required"`
	Reason string          `json:"reason" binding:"required"`
}

// VariationOrderResponse defines the data returned for a variation order.
type VariationOrderResponse struct {
	OrderID     string                      `json:"orderID"`
	JobID       string                      `json:"jobID"`
	Description string                      `json:"description"`
	Value       decimal.Decimal             `json:"value"`
	Status      domain.VariationOrderStatus `json:"status"`
	ApprovedBy  string                      `json:"approvedBy,omitempty"`
	ApprovedAt  *time.Time                  `json:"approvedAt,omitempty"`
	Notes       string                      `json:"notes"`
	CreatedAt   time.Time                   `json:"createdAt"`
	CreatedBy   string                      `json:"createdBy"`
}

// ToVariationOrderResponse converts a domain.VariationOrder to its DTO.
func ToVariationOrderResponse(o *domain.VariationOrder) VariationOrderResponse {
	return VariationOrderResponse{
		OrderID:     o.OrderID,
		JobID:       o.JobID,
		Description: o.Description,
		Value:       o.Value,
		Status:      o.Status,
		ApprovedBy:  o.ApprovedBy,
		ApprovedAt:  o.ApprovedAt,
		Notes:       o.Notes,
		CreatedAt:   o.CreatedAt,
		CreatedBy:   o.CreatedBy,
	}
}

// ToListVariationOrderResponse converts a slice of orders to DTOs.
func ToListVariationOrderResponse(orders []domain.VariationOrder) []VariationOrderResponse {
	res := make([]VariationOrderResponse, len(orders))
	for i, o := range orders {
		res[i] = ToVariationOrderResponse(&o)
	}
	return res
}
