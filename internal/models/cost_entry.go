package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CostEntry is the DB representation of one recorded expenditure. Rows are
// insert-only; they are the audit trail behind the aggregated actual_*
// columns on job_financials.
type CostEntry struct {
	EntryID   string          `db:"entry_id"`
	JobID     string          `db:"job_id"`
	Category  string          `db:"category"`
	Amount    decimal.Decimal `db:"amount"`
	EntryDate time.Time       `db:"entry_date"`
	Notes     string          `db:"notes"`
	AuditFields
}
