package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CostEntry is one recorded expenditure against a job. Entries are
// immutable once written; together they form the audit trail behind the
// aggregated actual-cost fields on JobFinancial. Amount is strictly
// positive — corrections are compensating entries, never decrements.
type CostEntry struct {
	EntryID   string          `json:"entryID"` // Primary key (UUID)
	JobID     string          `json:"jobID"`   // FK -> jobs.job_id
	Category  CostCategory    `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	EntryDate time.Time       `json:"entryDate"`
	Notes     string          `json:"notes"`
	AuditFields
}
