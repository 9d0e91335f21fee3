package models

import (
	"github.com/shopspring/decimal"
)

// JobFinancial is the DB representation of a job's financial record.
// Monetary columns are NUMERIC in Postgres and decimal.Decimal here; the
// actual_* columns are only ever mutated by atomic SQL increments.
type JobFinancial struct {
	JobID string `db:"job_id"`

	BudgetLabour    decimal.Decimal `db:"budget_labour"`
	BudgetMaterials decimal.Decimal `db:"budget_materials"`
	BudgetEquipment decimal.Decimal `db:"budget_equipment"`
	BudgetOverheads decimal.Decimal `db:"budget_overheads"`
	BudgetProfit    decimal.Decimal `db:"budget_profit"`

	ActualLabour    decimal.Decimal `db:"actual_labour"`
	ActualMaterials decimal.Decimal `db:"actual_materials"`
	ActualEquipment decimal.Decimal `db:"actual_equipment"`
	ActualOverheads decimal.Decimal `db:"actual_overheads"`

	Invoiced decimal.Decimal `db:"invoiced"`
	Paid     decimal.Decimal `db:"paid"`

	AuditFields
}
