package services

import (
	"context"

	"github.com/voltcraft/jobledger/internal/core/domain"
	"github.com/voltcraft/jobledger/internal/dto"
)

// VariationOrderReaderSvc defines read operations for variation orders.
type VariationOrderReaderSvc interface {
	GetVariationOrderByID(ctx context.Context, orderID string) (*domain.VariationOrder, error)
	ListVariationOrders(ctx context.Context, jobID string) ([]domain.VariationOrder, error)
}

// VariationOrderWriterSvc defines the workflow operations for variation
// orders. Approve and Reject are the only transitions out of PENDING and
// both are compare-and-swap guarded; APPROVED and REJECTED are terminal.
type VariationOrderWriterSvc interface {
	CreateVariationOrder(ctx context.Context, jobID string, req dto.CreateVariationOrderRequest, userID string) (*domain.VariationOrder, error)

	// ApproveVariationOrder transitions PENDING -> APPROVED, recording the
	// approver and timestamp. From that point the order's value contributes
	// to the job's budget total.
	ApproveVariationOrder(ctx context.Context, orderID string, userID string) (*domain.VariationOrder, error)

	// RejectVariationOrder transitions PENDING -> REJECTED with a required
	// reason, which is merged into the order's notes.
	RejectVariationOrder(ctx context.Context, orderID string, req dto.RejectVariationOrderRequest, userID string) (*domain.VariationOrder, error)

	// UpdateVariationOrder edits description/notes in any state; value may
	// only change while PENDING.
	UpdateVariationOrder(ctx context.Context, orderID string, req dto.UpdateVariationOrderRequest, userID string) (*domain.VariationOrder, error)

	// AmendVariationOrderValue changes the value of an APPROVED order as an
	// explicit, audited amendment (an "Amended:" line is appended to notes).
	AmendVariationOrderValue(ctx context.Context, orderID string, req dto.AmendVariationOrderRequest, userID string) (*domain.VariationOrder, error)

	// DeleteVariationOrder removes a closed order. A PENDING order must be
	// approved or rejected first; deleting it is a conflict.
	DeleteVariationOrder(ctx context.Context, orderID string, userID string) error
}

// VariationOrderSvcFacade combines all variation-order service interfaces.
type VariationOrderSvcFacade interface {
	VariationOrderReaderSvc
	VariationOrderWriterSvc
}
