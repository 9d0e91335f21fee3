package domain

import (
	"github.com/shopspring/decimal"
)

// CostCategory is the closed set of cost buckets a job tracks. Budgeted
// profit has no actual-cost counterpart, so it is deliberately absent here.
type CostCategory string

const (
	CostLabour    CostCategory = "LABOUR"
	CostMaterials CostCategory = "MATERIALS"
	CostEquipment CostCategory = "EQUIPMENT"
	CostOverheads CostCategory = "OVERHEADS"
)

// CostCategories lists every valid category in a stable order.
var CostCategories = []CostCategory{CostLabour, CostMaterials, CostEquipment, CostOverheads}

// IsValid reports whether c is one of the four known categories.
func (c CostCategory) IsValid() bool {
	switch c {
	case CostLabour, CostMaterials, CostEquipment, CostOverheads:
		return true
	}
	return false
}

// JobFinancial is the stored financial state of a single job: the budgeted
// allocation across categories, the accumulated actual costs, and the
// invoiced/paid bookkeeping. Derived figures (totals, margin, status,
// variance) are never stored; see the finance package.
//
// Actual costs are monotonically non-decreasing: a cost entry only ever
// adds, and corrections are recorded as compensating entries.
type JobFinancial struct {
	JobID string `json:"jobID"` // Primary key, FK -> jobs.job_id (one-to-one)

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
	Paid     decimal.Decimal `json:"paid"` // Invariant: Paid <= Invoiced

	AuditFields
}

// BudgetFor returns the budgeted amount for a cost category.
func (f *JobFinancial) BudgetFor(c CostCategory) decimal.Decimal {
	switch c {
	case CostLabour:
		return f.BudgetLabour
	case CostMaterials:
		return f.BudgetMaterials
	case CostEquipment:
		return f.BudgetEquipment
	case CostOverheads:
		return f.BudgetOverheads
	}
	return decimal.Zero
}

// ActualFor returns the accumulated actual cost for a category.
func (f *JobFinancial) ActualFor(c CostCategory) decimal.Decimal {
	switch c {
	case CostLabour:
		return f.ActualLabour
	case CostMaterials:
		return f.ActualMaterials
	case CostEquipment:
		return f.ActualEquipment
	case CostOverheads:
		return f.ActualOverheads
	}
	return decimal.Zero
}

// HasActuals reports whether any actual cost has been recorded yet. Used to
// surface the advisory warning when a budget is edited after costs exist.
func (f *JobFinancial) HasActuals() bool {
	return f.ActualLabour.IsPositive() ||
		f.ActualMaterials.IsPositive() ||
		f.ActualEquipment.IsPositive() ||
		f.ActualOverheads.IsPositive()
}
