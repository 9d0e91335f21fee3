package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/voltcraft/jobledger/internal/apperrors"
	"github.com/voltcraft/jobledger/internal/core/domain"
	portsrepo "github.com/voltcraft/jobledger/internal/core/ports/repositories"
	"github.com/voltcraft/jobledger/internal/models"
)

// PgxVariationOrderRepository persists variation orders in PostgreSQL.
//
// Workflow transitions are compare-and-swap statements keyed on the PENDING
// status, so of two racing approve/reject actions exactly one wins and the
// other observes a conflict.
type PgxVariationOrderRepository struct {
	BaseRepository
}

func newPgxVariationOrderRepository(pool *pgxpool.Pool) portsrepo.VariationOrderRepositoryFacade {
	return &PgxVariationOrderRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.VariationOrderRepositoryFacade = (*PgxVariationOrderRepository)(nil)

func toDomainVariationOrder(m models.VariationOrder) domain.VariationOrder {
	d := domain.VariationOrder{
		OrderID:     m.OrderID,
		JobID:       m.JobID,
		Description: m.Description,
		Value:       m.Value,
		Status:      domain.VariationOrderStatus(m.Status),
		ApprovedAt:  m.ApprovedAt,
		Notes:       m.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
	if m.ApprovedBy != nil {
		d.ApprovedBy = *m.ApprovedBy
	}
	return d
}

const variationOrderColumns = `order_id, job_id, description, value, status, approved_by, approved_at, notes,
	created_at, created_by, last_updated_at, last_updated_by`

func scanVariationOrder(row pgx.Row) (*models.VariationOrder, error) {
	var m models.VariationOrder
	err := row.Scan(
		&m.OrderID, &m.JobID, &m.Description, &m.Value, &m.Status,
		&m.ApprovedBy, &m.ApprovedAt, &m.Notes,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxVariationOrderRepository) SaveVariationOrder(ctx context.Context, order domain.VariationOrder) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO variation_orders (order_id, job_id, description, value, status, notes,
		                              created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		order.OrderID, order.JobID, order.Description, order.Value, string(order.Status), order.Notes,
		order.CreatedAt, order.CreatedBy, order.LastUpdatedAt, order.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert variation order: %w", err)
	}
	return nil
}

func (r *PgxVariationOrderRepository) FindVariationOrderByID(ctx context.Context, orderID string) (*domain.VariationOrder, error) {
	row := r.Pool.QueryRow(ctx, `SELECT `+variationOrderColumns+` FROM variation_orders WHERE order_id = $1`, orderID)
	m, err := scanVariationOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("variation order %s: %w", orderID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query variation order: %w", err)
	}
	d := toDomainVariationOrder(*m)
	return &d, nil
}

func (r *PgxVariationOrderRepository) ListVariationOrdersByJobID(ctx context.Context, jobID string) ([]domain.VariationOrder, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT `+variationOrderColumns+` FROM variation_orders
		WHERE job_id = $1
		ORDER BY created_at, order_id`, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to query variation orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.VariationOrder
	for rows.Next() {
		m, err := scanVariationOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan variation order row: %w", err)
		}
		orders = append(orders, toDomainVariationOrder(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating variation order rows: %w", err)
	}
	return orders, nil
}

// rejectedNotes merges a rejection reason into the order's existing notes:
// the reason comes first, separated from whatever was there by a blank line.
func rejectedNotes(reason string, existing string) string {
	merged := "Rejected: " + reason
	if existing != "" {
		merged += "\n\n" + existing
	}
	return merged
}

// TransitionStatus closes a PENDING order. The status predicate in the
// UPDATE is the compare-and-swap: zero rows affected means the order either
// does not exist or was already closed by someone else.
func (r *PgxVariationOrderRepository) TransitionStatus(ctx context.Context, orderID string, to domain.VariationOrderStatus, actorID string, reason string, now time.Time) (*domain.VariationOrder, error) {
	switch to {
	case domain.VariationApproved:
		row := r.Pool.QueryRow(ctx, `
			UPDATE variation_orders
			SET status = $2, approved_by = $3, approved_at = $4,
			    last_updated_at = $4, last_updated_by = $3
			WHERE order_id = $1 AND status = 'PENDING'
			RETURNING `+variationOrderColumns,
			orderID, string(to), actorID, now,
		)
		m, err := scanVariationOrder(row)
		return r.finishTransition(ctx, orderID, m, err)
	case domain.VariationRejected:
		return r.transitionRejected(ctx, orderID, actorID, reason, now)
	default:
		return nil, fmt.Errorf("invalid target status %q: %w", to, apperrors.ErrValidation)
	}
}

// transitionRejected closes the order and folds the reason into its notes.
// The compare-and-swap UPDATE row-locks the order, so reading the notes it
// returns and writing the merge back in the same transaction cannot
// interleave with another writer.
func (r *PgxVariationOrderRepository) transitionRejected(ctx context.Context, orderID string, actorID string, reason string, now time.Time) (*domain.VariationOrder, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	row := tx.QueryRow(ctx, `
		UPDATE variation_orders
		SET status = $2, approved_by = $3, approved_at = $4,
		    last_updated_at = $4, last_updated_by = $3
		WHERE order_id = $1 AND status = 'PENDING'
		RETURNING `+variationOrderColumns,
		orderID, string(domain.VariationRejected), actorID, now,
	)
	m, err := scanVariationOrder(row)
	if err != nil {
		return r.finishTransition(ctx, orderID, nil, err)
	}

	m.Notes = rejectedNotes(reason, m.Notes)
	if _, err := tx.Exec(ctx, `UPDATE variation_orders SET notes = $2 WHERE order_id = $1`, orderID, m.Notes); err != nil {
		return nil, fmt.Errorf("failed to record rejection reason: %w", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	d := toDomainVariationOrder(*m)
	return &d, nil
}

// finishTransition maps the outcome of a compare-and-swap transition: zero
// rows means the order is gone or already closed.
func (r *PgxVariationOrderRepository) finishTransition(ctx context.Context, orderID string, m *models.VariationOrder, scanErr error) (*domain.VariationOrder, error) {
	if scanErr != nil {
		if errors.Is(scanErr, pgx.ErrNoRows) {
			if _, findErr := r.FindVariationOrderByID(ctx, orderID); findErr != nil {
				return nil, findErr
			}
			return nil, fmt.Errorf("variation order %s is no longer pending: %w", orderID, apperrors.ErrConflict)
		}
		return nil, fmt.Errorf("failed to transition variation order: %w", scanErr)
	}
	d := toDomainVariationOrder(*m)
	return &d, nil
}

// UpdateVariationOrder writes description/value/notes with an optimistic
// guard on the status the caller read, so an edit never lands on an order
// whose workflow state changed underneath it.
func (r *PgxVariationOrderRepository) UpdateVariationOrder(ctx context.Context, order domain.VariationOrder) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE variation_orders
		SET description = $2, value = $3, notes = $4,
		    last_updated_at = $5, last_updated_by = $6
		WHERE order_id = $1 AND status = $7`,
		order.OrderID, order.Description, order.Value, order.Notes,
		order.LastUpdatedAt, order.LastUpdatedBy, string(order.Status),
	)
	if err != nil {
		return fmt.Errorf("failed to update variation order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, findErr := r.FindVariationOrderByID(ctx, order.OrderID); findErr != nil {
			return findErr
		}
		return fmt.Errorf("variation order %s changed state concurrently: %w", order.OrderID, apperrors.ErrConflict)
	}
	return nil
}

// DeleteVariationOrder removes a closed order. The status predicate keeps a
// PENDING order from being silently dropped while it awaits a decision.
func (r *PgxVariationOrderRepository) DeleteVariationOrder(ctx context.Context, orderID string) error {
	tag, err := r.Pool.Exec(ctx, `
		DELETE FROM variation_orders
		WHERE order_id = $1 AND status <> 'PENDING'`, orderID)
	if err != nil {
		return fmt.Errorf("failed to delete variation order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, findErr := r.FindVariationOrderByID(ctx, orderID); findErr != nil {
			return findErr
		}
		return fmt.Errorf("variation order %s is pending and must be approved or rejected first: %w", orderID, apperrors.ErrConflict)
	}
	return nil
}
