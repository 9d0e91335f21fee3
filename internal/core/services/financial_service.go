package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/voltcraft/jobledger/internal/apperrors"
	"github.com/voltcraft/jobledger/internal/core/domain"
	portsrepo "github.com/voltcraft/jobledger/internal/core/ports/repositories"
	portssvc "github.com/voltcraft/jobledger/internal/core/ports/services"
	"github.com/voltcraft/jobledger/internal/dto"
)

// entryDateLayout is the wire format for cost entry dates.
const entryDateLayout = "2006-01-02"

// financialServiceImpl implements the FinancialSvcFacade interface.
type financialServiceImpl struct {
	BaseService
	financialRepo portsrepo.FinancialRepositoryFacade
	orderRepo     portsrepo.VariationOrderReader
	publisher     portssvc.EventPublisher
}

// FinancialServiceOption is a functional option for the financial service.
type FinancialServiceOption func(*financialServiceImpl)

// WithFinancialEventPublisher adds an event publisher dependency.
func WithFinancialEventPublisher(p portssvc.EventPublisher) FinancialServiceOption {
	return func(s *financialServiceImpl) {
		s.publisher = p
	}
}

// NewFinancialService creates a new financial service. The variation-order
// reader is required because every derived summary folds approved orders
// into the budget total.
func NewFinancialService(repo portsrepo.FinancialRepositoryFacade, orderRepo portsrepo.VariationOrderReader, options ...FinancialServiceOption) portssvc.FinancialSvcFacade {
	svc := &financialServiceImpl{
		financialRepo: repo,
		orderRepo:     orderRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.FinancialSvcFacade = (*financialServiceImpl)(nil)

func (s *financialServiceImpl) GetFinancial(ctx context.Context, jobID string) (*dto.JobFinancialResponse, error) {
	financial, err := s.financialRepo.FindFinancialByJobID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	orders, err := s.orderRepo.ListVariationOrdersByJobID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return dto.ToJobFinancialResponse(financial, orders), nil
}

func (s *financialServiceImpl) ListCostEntries(ctx context.Context, jobID string, limit int, offset int) ([]domain.CostEntry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	// Surface not-found for unknown jobs rather than an empty list.
	if _, err := s.financialRepo.FindFinancialByJobID(ctx, jobID); err != nil {
		return nil, err
	}
	return s.financialRepo.ListCostEntries(ctx, jobID, limit, offset)
}

func (s *financialServiceImpl) UpdateBudget(ctx context.Context, jobID string, req dto.UpdateBudgetRequest, userID string) (*dto.JobFinancialResponse, error) {
	for name, v := range map[string]decimal.Decimal{
		"labour":    req.Labour,
		"materials": req.Materials,
		"equipment": req.Equipment,
		"overheads": req.Overheads,
		"profit":    req.Profit,
	} {
		if v.IsNegative() {
			return nil, fmt.Errorf("budget %s must not be negative: %w", name, apperrors.ErrValidation)
		}
	}

	budget := domain.JobFinancial{
		BudgetLabour:    req.Labour,
		BudgetMaterials: req.Materials,
		BudgetEquipment: req.Equipment,
		BudgetOverheads: req.Overheads,
		BudgetProfit:    req.Profit,
	}

	updated, err := s.financialRepo.ReplaceBudget(ctx, jobID, budget, userID, time.Now())
	if err != nil {
		s.LogError(ctx, err, "Failed to replace budget", slog.String("job_id", jobID))
		return nil, err
	}

	orders, err := s.orderRepo.ListVariationOrdersByJobID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	resp := dto.ToJobFinancialResponse(updated, orders)
	// Editing the budget after costs exist shifts the variance figures.
	// That is allowed, but the caller is told.
	resp.ActualsRecorded = updated.HasActuals()

	if s.publisher != nil {
		s.publisher.Publish(ctx, "budget_updated", jobID, userID, map[string]any{
			"budgetTotal": resp.Summary.BudgetTotal.String(),
		})
	}

	s.LogInfo(ctx, "Budget replaced", slog.String("job_id", jobID), slog.Bool("actuals_recorded", resp.ActualsRecorded))
	return resp, nil
}

func (s *financialServiceImpl) RecordCost(ctx context.Context, jobID string, req dto.RecordCostRequest, userID string) (*dto.JobFinancialResponse, error) {
	if !req.Category.IsValid() {
		return nil, fmt.Errorf("unknown cost category %q: %w", req.Category, apperrors.ErrValidation)
	}
	if !req.Amount.IsPositive() {
		// Zero and negative amounts are rejected outright; corrections are
		// compensating entries, so the ledger stays append-only.
		return nil, fmt.Errorf("cost amount must be greater than zero: %w", apperrors.ErrValidation)
	}
	entryDate, err := time.Parse(entryDateLayout, req.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid entry date %q: %w", req.Date, apperrors.ErrValidation)
	}

	now := time.Now()
	entry := domain.CostEntry{
		EntryID:   uuid.NewString(),
		JobID:     jobID,
		Category:  req.Category,
		Amount:    req.Amount,
		EntryDate: entryDate,
		Notes:     req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	updated, err := s.financialRepo.ApplyCostEntry(ctx, entry)
	if err != nil {
		s.LogError(ctx, err, "Failed to apply cost entry",
			slog.String("job_id", jobID),
			slog.String("category", string(req.Category)))
		return nil, err
	}

	orders, err := s.orderRepo.ListVariationOrdersByJobID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		s.publisher.Publish(ctx, "cost_recorded", jobID, userID, map[string]any{
			"entryID":  entry.EntryID,
			"category": string(entry.Category),
			"amount":   entry.Amount.String(),
		})
	}

	s.LogInfo(ctx, "Cost recorded",
		slog.String("job_id", jobID),
		slog.String("category", string(req.Category)),
		slog.String("amount", req.Amount.String()))
	return dto.ToJobFinancialResponse(updated, orders), nil
}

func (s *financialServiceImpl) RecordInvoiced(ctx context.Context, jobID string, req dto.RecordAmountRequest, userID string) (*dto.JobFinancialResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("invoiced amount must be greater than zero: %w", apperrors.ErrValidation)
	}

	updated, err := s.financialRepo.AddInvoiced(ctx, jobID, req.Amount, userID, time.Now())
	if err != nil {
		s.LogError(ctx, err, "Failed to record invoiced amount", slog.String("job_id", jobID))
		return nil, err
	}

	orders, err := s.orderRepo.ListVariationOrdersByJobID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		s.publisher.Publish(ctx, "invoice_recorded", jobID, userID, map[string]any{
			"amount": req.Amount.String(),
		})
	}

	return dto.ToJobFinancialResponse(updated, orders), nil
}

func (s *financialServiceImpl) RecordPayment(ctx context.Context, jobID string, req dto.RecordAmountRequest, userID string) (*dto.JobFinancialResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("payment amount must be greater than zero: %w", apperrors.ErrValidation)
	}

	updated, err := s.financialRepo.AddPayment(ctx, jobID, req.Amount, userID, time.Now())
	if err != nil {
		s.LogError(ctx, err, "Failed to record payment", slog.String("job_id", jobID))
		return nil, err
	}

	orders, err := s.orderRepo.ListVariationOrdersByJobID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		s.publisher.Publish(ctx, "payment_recorded", jobID, userID, map[string]any{
			"amount": req.Amount.String(),
		})
	}

	return dto.ToJobFinancialResponse(updated, orders), nil
}
