package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/voltcraft/jobledger/internal/core/domain"
	"github.com/voltcraft/jobledger/internal/utils/finance"
)

// UpdateBudgetRequest replaces the five budget components of a job in one
// atomic write. All values must be non-negative; validation of the decimal
// fields runs through the custom validator registered at startup.
type UpdateBudgetRequest struct {
	Labour    decimal.Decimal `json:"labour" binding:"gte=0"`
	Materials decimal.Decimal `json:"materials" binding:"gte=0"`
	Equipment decimal.Decimal `json:"equipment" binding:"gte=0"`
	Overheads decimal.Decimal `json:"overheads" binding:"gte=0"`
	Profit    decimal.Decimal `json:"profit" binding:"gte=0"`
}

// RecordCostRequest records one actual-cost entry against a job.
// Amount must be strictly positive; corrections are compensating entries,
// never negative amounts.
type RecordCostRequest struct {
	Category domain.CostCategory `json:"category" binding:"required,oneof=LABOUR MATERIALS EQUIPMENT OVERHEADS"`
	Amount   decimal.Decimal     `json:"amount" binding:"required"`
	Date     string              `json:"date" binding:"required"` // YYYY-MM-DD
	Notes    string              `json:"notes"`
}

// RecordAmountRequest carries a single monetary amount, used for invoiced
// and payment recording.
type RecordAmountRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Notes  string          `json:"notes"`
}

// JobFinancialResponse is the stored financial record plus its derived
// summary, computed fresh on every read.
type JobFinancialResponse struct {
	JobID string `json:"jobID"`

	BudgetLabour    decimal.Decimal `json:"budgetLabour"`
	BudgetMaterials decimal.Decimal `json:"budgetMaterials"`
	BudgetEquipment decimal.Decimal `json:"budgetEquipment"`
	BudgetOverheads decimal.Decimal `json:"budgetOverheads"`
	BudgetProfit    decimal.Decimal `json:"budgetProfit"`

	ActualLabour    decimal.Decimal `json:"actualLabour"`
	ActualMaterials decimal.Decimal `json:"actualMaterials"`
	ActualEquipment decimal.Decimal `json:"actualEquipment"`
	ActualOverheads decimal.Decimal `json:"actualOverheads"`

	Invoiced decimal.Decimal `json:"invoiced"`
	Paid     decimal.Decimal `json:"paid"`

	Summary finance.Summary `json:"summary"`

	// ActualsRecorded is an advisory flag set on budget updates when costs
	// were already recorded: variance figures will shift, but the edit is
	// never blocked.
	ActualsRecorded bool `json:"actualsRecorded,omitempty"`

	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// ToJobFinancialResponse assembles the response from the stored record and
// its variation orders.
func ToJobFinancialResponse(f *domain.JobFinancial, orders []domain.VariationOrder) *JobFinancialResponse {
	return &JobFinancialResponse{
		JobID:           f.JobID,
		BudgetLabour:    f.BudgetLabour,
		BudgetMaterials: f.BudgetMaterials,
		BudgetEquipment: f.BudgetEquipment,
		BudgetOverheads: f.BudgetOverheads,
		BudgetProfit:    f.BudgetProfit,
		ActualLabour:    f.ActualLabour,
		ActualMaterials: f.ActualMaterials,
		ActualEquipment: f.ActualEquipment,
		ActualOverheads: f.ActualOverheads,
		Invoiced:        f.Invoiced,
		Paid:            f.Paid,
		Summary:         finance.Summarize(f, orders),
		LastUpdatedAt:   f.LastUpdatedAt,
		LastUpdatedBy:   f.LastUpdatedBy,
	}
}

// CostEntryResponse defines the data returned for one audit-trail entry.
type CostEntryResponse struct {
	EntryID   string              `json:"entryID"`
	JobID     string              `json:"jobID"`
	Category  domain.CostCategory `json:"category"`
	Amount    decimal.Decimal     `json:"amount"`
	EntryDate time.Time           `json:"entryDate"`
	Notes     string              `json:"notes"`
	CreatedAt time.Time           `json:"createdAt"`
	CreatedBy string              `json:"createdBy"`
}

// ToCostEntryResponse converts a domain.CostEntry to its DTO.
func ToCostEntryResponse(e *domain.CostEntry) CostEntryResponse {
	return CostEntryResponse{
		EntryID:   e.EntryID,
		JobID:     e.JobID,
		Category:  e.Category,
		Amount:    e.Amount,
		EntryDate: e.EntryDate,
		Notes:     e.Notes,
		CreatedAt: e.CreatedAt,
		CreatedBy: e.CreatedBy,
	}
}

// ToListCostEntryResponse converts a slice of cost entries to DTOs.
func ToListCostEntryResponse(entries []domain.CostEntry) []CostEntryResponse {
	res := make([]CostEntryResponse, len(entries))
	for i, e := range entries {
		res[i] = ToCostEntryResponse(&e)
	}
	return res
}
