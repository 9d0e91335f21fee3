package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/voltcraft/jobledger/internal/apperrors"
	"github.com/voltcraft/jobledger/internal/core/domain"
	portsrepo "github.com/voltcraft/jobledger/internal/core/ports/repositories"
	portssvc "github.com/voltcraft/jobledger/internal/core/ports/services"
	"github.com/voltcraft/jobledger/internal/dto"
)

// variationOrderServiceImpl implements the VariationOrderSvcFacade
// interface. Workflow transitions are compare-and-swap guarded at the
// repository so concurrent approve/reject actions cannot both win.
type variationOrderServiceImpl struct {
	BaseService
	orderRepo     portsrepo.VariationOrderRepositoryFacade
	financialRepo portsrepo.FinancialReader
	publisher     portssvc.EventPublisher
}

// VariationOrderServiceOption is a functional option for the service.
type VariationOrderServiceOption func(*variationOrderServiceImpl)

// WithVariationOrderEventPublisher adds an event publisher dependency.
func WithVariationOrderEventPublisher(p portssvc.EventPublisher) VariationOrderServiceOption {
	return func(s *variationOrderServiceImpl) {
		s.publisher = p
	}
}

// NewVariationOrderService creates a new variation-order service. The
// financial reader is used to confirm the owning job exists on create.
func NewVariationOrderService(repo portsrepo.VariationOrderRepositoryFacade, financialRepo portsrepo.FinancialReader, options ...VariationOrderServiceOption) portssvc.VariationOrderSvcFacade {
	svc := &variationOrderServiceImpl{
		orderRepo:     repo,
		financialRepo: financialRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.VariationOrderSvcFacade = (*variationOrderServiceImpl)(nil)

func (s *variationOrderServiceImpl) CreateVariationOrder(ctx context.Context, jobID string, req dto.CreateVariationOrderRequest, userID string) (*domain.VariationOrder, error) {
	if strings.TrimSpace(req.Description) == "" {
		return nil, fmt.Errorf("description is required: %w", apperrors.ErrValidation)
	}

	// The order belongs to the job's financial record; confirm it exists.
	if _, err := s.financialRepo.FindFinancialByJobID(ctx, jobID); err != nil {
		return nil, err
	}

	now := time.Now()
	order := domain.VariationOrder{
		OrderID:     uuid.NewString(),
		JobID:       jobID,
		Description: req.Description,
		Value:       req.Value,
		Status:      domain.VariationPending,
		Notes:       req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.orderRepo.SaveVariationOrder(ctx, order); err != nil {
		s.LogError(ctx, err, "Failed to save variation order", slog.String("job_id", jobID))
		return nil, fmt.Errorf("failed to save variation order: %w", err)
	}

	if s.publisher != nil {
		s.publisher.Publish(ctx, "variation_order_created", jobID, userID, map[string]any{
			"orderID": order.OrderID,
			"value":   order.Value.String(),
		})
	}

	s.LogInfo(ctx, "Variation order created",
		slog.String("job_id", jobID),
		slog.String("order_id", order.OrderID))
	return &order, nil
}

func (s *variationOrderServiceImpl) GetVariationOrderByID(ctx context.Context, orderID string) (*domain.VariationOrder, error) {
	return s.orderRepo.FindVariationOrderByID(ctx, orderID)
}

func (s *variationOrderServiceImpl) ListVariationOrders(ctx context.Context, jobID string) ([]domain.VariationOrder, error) {
	return s.orderRepo.ListVariationOrdersByJobID(ctx, jobID)
}

func (s *variationOrderServiceImpl) ApproveVariationOrder(ctx context.Context, orderID string, userID string) (*domain.VariationOrder, error) {
	order, err := s.orderRepo.TransitionStatus(ctx, orderID, domain.VariationApproved, userID, "", time.Now())
	if err != nil {
		s.LogError(ctx, err, "Failed to approve variation order", slog.String("order_id", orderID))
		return nil, err
	}

	if s.publisher != nil {
		s.publisher.Publish(ctx, "variation_order_approved", order.JobID, userID, map[string]any{
			"orderID": order.OrderID,
			"value":   order.Value.String(),
		})
	}

	s.LogInfo(ctx, "Variation order approved",
		slog.String("order_id", orderID),
		slog.String("approved_by", userID))
	return order, nil
}

func (s *variationOrderServiceImpl) RejectVariationOrder(ctx context.Context, orderID string, req dto.RejectVariationOrderRequest, userID string) (*domain.VariationOrder, error) {
	if strings.TrimSpace(req.Reason) == "" {
		return nil, fmt.Errorf("rejection reason is required: %w", apperrors.ErrValidation)
	}

	order, err := s.orderRepo.TransitionStatus(ctx, orderID, domain.VariationRejected, userID, req.Reason, time.Now())
	if err != nil {
		s.LogError(ctx, err, "Failed to reject variation order", slog.String("order_id", orderID))
		return nil, err
	}

	if s.publisher != nil {
		s.publisher.Publish(ctx, "variation_order_rejected", order.JobID, userID, map[string]any{
			"orderID": order.OrderID,
			"reason":  req.Reason,
		})
	}

	s.LogInfo(ctx, "Variation order rejected",
		slog.String("order_id", orderID),
		slog.String("rejected_by", userID))
	return order, nil
}

func (s *variationOrderServiceImpl) UpdateVariationOrder(ctx context.Context, orderID string, req dto.UpdateVariationOrderRequest, userID string) (*domain.VariationOrder, error) {
	order, err := s.orderRepo.FindVariationOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if req.Description != nil {
		if strings.TrimSpace(*req.Description) == "" {
			return nil, fmt.Errorf("description must not be empty: %w", apperrors.ErrValidation)
		}
		order.Description = *req.Description
	}
	if req.Notes != nil {
		order.Notes = *req.Notes
	}
	if req.Value != nil {
		// A closed order's value never changes silently; approved orders go
		// through the amend operation instead.
		if order.IsTerminal() {
			return nil, fmt.Errorf("value of a %s order can only change via amendment: %w", order.Status, apperrors.ErrConflict)
		}
		order.Value = *req.Value
	}
	order.LastUpdatedAt = time.Now()
	order.LastUpdatedBy = userID

	if err := s.orderRepo.UpdateVariationOrder(ctx, *order); err != nil {
		s.LogError(ctx, err, "Failed to update variation order", slog.String("order_id", orderID))
		return nil, err
	}
	return order, nil
}

func (s *variationOrderServiceImpl) AmendVariationOrderValue(ctx context.Context, orderID string, req dto.AmendVariationOrderRequest, userID string) (*domain.VariationOrder, error) {
	if strings.TrimSpace(req.Reason) == "" {
		return nil, fmt.Errorf("amendment reason is required: %w", apperrors.ErrValidation)
	}

	order, err := s.orderRepo.FindVariationOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.VariationApproved {
		return nil, fmt.Errorf("only approved orders can be amended, order is %s: %w", order.Status, apperrors.ErrConflict)
	}

	oldValue := order.Value
	amendment := fmt.Sprintf("Amended: value %s -> %s (%s)", oldValue.String(), req.Value.String(), req.Reason)
	if order.Notes != "" {
		order.Notes = amendment + "\n\n" + order.Notes
	} else {
		order.Notes = amendment
	}
	order.Value = req.Value
	order.LastUpdatedAt = time.Now()
	order.LastUpdatedBy = userID

	if err := s.orderRepo.UpdateVariationOrder(ctx, *order); err != nil {
		s.LogError(ctx, err, "Failed to amend variation order", slog.String("order_id", orderID))
		return nil, err
	}

	if s.publisher != nil {
		s.publisher.Publish(ctx, "variation_order_amended", order.JobID, userID, map[string]any{
			"orderID":  order.OrderID,
			"oldValue": oldValue.String(),
			"newValue": req.Value.String(),
		})
	}

	s.LogInfo(ctx, "Variation order amended",
		slog.String("order_id", orderID),
		slog.String("old_value", oldValue.String()),
		slog.String("new_value", req.Value.String()))
	return order, nil
}

func (s *variationOrderServiceImpl) DeleteVariationOrder(ctx context.Context, orderID string, userID string) error {
	if err := s.orderRepo.DeleteVariationOrder(ctx, orderID); err != nil {
		s.LogError(ctx, err, "Failed to delete variation order", slog.String("order_id", orderID))
		return err
	}
	s.LogInfo(ctx, "Variation order deleted",
		slog.String("order_id", orderID),
		slog.String("deleted_by", userID))
	return nil
}
