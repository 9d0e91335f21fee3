package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/voltcraft/jobledger/internal/core/domain"
)

// FinancialReader defines read operations for job financial data.
type FinancialReader interface {
	// FindFinancialByJobID retrieves the financial record for a job.
	FindFinancialByJobID(ctx context.Context, jobID string) (*domain.JobFinancial, error)

	// ListCostEntries retrieves the cost-entry audit trail for a job,
	// ordered by entry date then creation time.
	ListCostEntries(ctx context.Context, jobID string, limit int, offset int) ([]domain.CostEntry, error)
}

// FinancialWriter defines write operations for job financial data.
//
// All increment-style operations must be single atomic statements at the
// storage layer; callers never read-modify-write monetary columns.
type FinancialWriter interface {
	// ReplaceBudget atomically replaces the five budget columns and returns
	// the updated record.
	ReplaceBudget(ctx context.Context, jobID string, budget domain.JobFinancial, userID string, now time.Time) (*domain.JobFinancial, error)

	// ApplyCostEntry inserts the entry and increments the matching actual_*
	// column in one transaction, returning the updated record.
	ApplyCostEntry(ctx context.Context, entry domain.CostEntry) (*domain.JobFinancial, error)

	// AddInvoiced increments the invoiced column by amount.
	AddInvoiced(ctx context.Context, jobID string, amount decimal.Decimal, userID string, now time.Time) (*domain.JobFinancial, error)

	// AddPayment increments the paid column by amount, guarded so paid can
	// never exceed invoiced. Returns apperrors.ErrValidation when the guard
	// fails.
	AddPayment(ctx context.Context, jobID string, amount decimal.Decimal, userID string, now time.Time) (*domain.JobFinancial, error)
}

// FinancialRepositoryFacade combines all financial repository interfaces.
type FinancialRepositoryFacade interface {
	FinancialReader
	FinancialWriter
}
