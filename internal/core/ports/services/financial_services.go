package services

import (
	"context"

	"github.com/voltcraft/jobledger/internal/core/domain"
	"github.com/voltcraft/jobledger/internal/dto"
)

// FinancialReaderSvc defines read operations over job financials. Reads
// always derive the summary fresh from stored state; nothing is cached.
type FinancialReaderSvc interface {
	GetFinancial(ctx context.Context, jobID string) (*dto.JobFinancialResponse, error)
	ListCostEntries(ctx context.Context, jobID string, limit int, offset int) ([]domain.CostEntry, error)
}

// FinancialWriterSvc defines the mutating operations over job financials.
type FinancialWriterSvc interface {
	// UpdateBudget atomically replaces the five budget components. The
	// response carries an advisory flag when actual costs already exist.
	UpdateBudget(ctx context.Context, jobID string, req dto.UpdateBudgetRequest, userID string) (*dto.JobFinancialResponse, error)

	// RecordCost validates and applies one actual-cost entry. The increment
	// is atomic at the storage layer; the returned response reflects the
	// post-write state so callers never need a second read.
	RecordCost(ctx context.Context, jobID string, req dto.RecordCostRequest, userID string) (*dto.JobFinancialResponse, error)

	// RecordInvoiced adds to the amount invoiced for the job.
	RecordInvoiced(ctx context.Context, jobID string, req dto.RecordAmountRequest, userID string) (*dto.JobFinancialResponse, error)

	// RecordPayment adds to the amount paid; fails validation when the
	// payment would push paid above invoiced.
	RecordPayment(ctx context.Context, jobID string, req dto.RecordAmountRequest, userID string) (*dto.JobFinancialResponse, error)
}

// FinancialSvcFacade combines all financial service interfaces.
type FinancialSvcFacade interface {
	FinancialReaderSvc
	FinancialWriterSvc
}
