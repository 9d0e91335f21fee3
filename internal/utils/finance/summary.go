// Package finance holds the pure derivation rules for job financials:
// totals, margin, budget status and per-category variance. Everything here
// is a function of its inputs with no I/O, so summaries are always computed
// fresh from stored state and are safe to call from concurrent readers.
package finance

import (
	"github.com/shopspring/decimal"

	"github.com/voltcraft/jobledger/internal/core/domain"
)

// BudgetStatus is the headline budget position of a job.
type BudgetStatus string

const (
	StatusOnBudget   BudgetStatus = "On Budget"
	StatusOverBudget BudgetStatus = "Over Budget"
)

// CategoryVariance is the budget-vs-actual position for one cost category.
// Variance is budgeted minus actual: positive means under budget.
type CategoryVariance struct {
	Category domain.CostCategory `json:"category"`
	Budgeted decimal.Decimal     `json:"budgeted"`
	Actual   decimal.Decimal     `json:"actual"`
	Variance decimal.Decimal     `json:"variance"`
}

// Summary is the derived, read-only financial view of a job.
type Summary struct {
	BudgetTotal decimal.Decimal `json:"budgetTotal"`
	ActualTotal decimal.Decimal `json:"actualTotal"`
	// Margin is nil when BudgetTotal is zero: a margin over an empty budget
	// is not yet meaningful, and must not be conflated with 0%.
	Margin      *decimal.Decimal   `json:"margin"`
	Status      BudgetStatus       `json:"status"`
	Variances   []CategoryVariance `json:"variances"`
	Outstanding decimal.Decimal    `json:"outstanding"` // invoiced - paid
}

// marginPrecision bounds the division when budget totals do not divide
// evenly; four decimal places is ample for a percentage figure.
const marginPrecision = 4

// Summarize derives the financial summary for one job from its stored
// financial record and its variation orders. Only APPROVED orders
// contribute to the budget total; pending and rejected orders never do.
func Summarize(f *domain.JobFinancial, orders []domain.VariationOrder) Summary {
	budgetTotal := f.BudgetLabour.
		Add(f.BudgetMaterials).
		Add(f.BudgetEquipment).
		Add(f.BudgetOverheads).
		Add(f.BudgetProfit).
		Add(ApprovedVariationTotal(orders))

	actualTotal := f.ActualLabour.
		Add(f.ActualMaterials).
		Add(f.ActualEquipment).
		Add(f.ActualOverheads)

	summary := Summary{
		BudgetTotal: budgetTotal,
		ActualTotal: actualTotal,
		Status:      StatusOnBudget,
		Variances:   Variances(f),
		Outstanding: f.Invoiced.Sub(f.Paid),
	}

	if actualTotal.GreaterThan(budgetTotal) {
		summary.Status = StatusOverBudget
	}

	if budgetTotal.IsPositive() {
		m := budgetTotal.Sub(actualTotal).
			Div(budgetTotal).
			Mul(decimal.NewFromInt(100)).
			Round(marginPrecision)
		summary.Margin = &m
	}

	return summary
}

// ApprovedVariationTotal sums the value of every APPROVED variation order.
func ApprovedVariationTotal(orders []domain.VariationOrder) decimal.Decimal {
	total := decimal.Zero
	for _, o := range orders {
		if o.Status == domain.VariationApproved {
			total = total.Add(o.Value)
		}
	}
	return total
}

// Variances computes budgeted-minus-actual for each cost category, in the
// canonical category order.
func Variances(f *domain.JobFinancial) []CategoryVariance {
	out := make([]CategoryVariance, 0, len(domain.CostCategories))
	for _, c := range domain.CostCategories {
		budgeted := f.BudgetFor(c)
		actual := f.ActualFor(c)
		out = append(out, CategoryVariance{
			Category: c,
			Budgeted: budgeted,
			Actual:   actual,
			Variance: budgeted.Sub(actual),
		})
	}
	return out
}
