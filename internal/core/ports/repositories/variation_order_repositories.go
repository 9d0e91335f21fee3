package repositories

import (
	"context"
	"time"

	"github.com/voltcraft/jobledger/internal/core/domain"
)

// VariationOrderReader defines read operations for variation orders.
type VariationOrderReader interface {
	// FindVariationOrderByID retrieves a specific order.
	FindVariationOrderByID(ctx context.Context, orderID string) (*domain.VariationOrder, error)

	// ListVariationOrdersByJobID retrieves every order for a job, ordered by
	// creation time.
	ListVariationOrdersByJobID(ctx context.Context, jobID string) ([]domain.VariationOrder, error)
}

// VariationOrderWriter defines write operations for variation orders.
type VariationOrderWriter interface {
	// SaveVariationOrder persists a new order (always PENDING).
	SaveVariationOrder(ctx context.Context, order domain.VariationOrder) error

	// TransitionStatus moves an order out of PENDING as a compare-and-swap:
	// the write only applies if the row is still PENDING. For a REJECTED
	// transition the reason is merged into the order's notes in the same
	// statement. Returns apperrors.ErrConflict when the order has already
	// been closed and apperrors.ErrNotFound when it does not exist.
	TransitionStatus(ctx context.Context, orderID string, to domain.VariationOrderStatus, actorID string, reason string, now time.Time) (*domain.VariationOrder, error)

	// UpdateVariationOrder updates description, value and notes. The write
	// carries an optimistic guard on order.Status: if the row's status has
	// changed since the order was read, apperrors.ErrConflict is returned
	// and nothing is written.
	UpdateVariationOrder(ctx context.Context, order domain.VariationOrder) error

	// DeleteVariationOrder removes an order. The delete is guarded in SQL so
	// a PENDING order is never removed; apperrors.ErrConflict is returned
	// instead.
	DeleteVariationOrder(ctx context.Context, orderID string) error
}

// VariationOrderRepositoryFacade combines all variation-order interfaces.
type VariationOrderRepositoryFacade interface {
	VariationOrderReader
	VariationOrderWriter
}
