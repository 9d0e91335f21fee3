package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/voltcraft/jobledger/internal/apperrors"
	"github.com/voltcraft/jobledger/internal/core/domain"
	portsrepo "github.com/voltcraft/jobledger/internal/core/ports/repositories"
	"github.com/voltcraft/jobledger/internal/models"
)

// PgxFinancialRepository persists job financial records in PostgreSQL.
//
// Monetary mutations are single SQL statements (increments and guarded
// increments) so concurrent writers can never lose updates; the application
// never reads a value, adds to it and writes it back.
type PgxFinancialRepository struct {
	BaseRepository
}

func newPgxFinancialRepository(pool *pgxpool.Pool) portsrepo.FinancialRepositoryFacade {
	return &PgxFinancialRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.FinancialRepositoryFacade = (*PgxFinancialRepository)(nil)

func toModelFinancial(d domain.JobFinancial) models.JobFinancial {
	return models.JobFinancial{
		JobID:           d.JobID,
		BudgetLabour:    d.BudgetLabour,
		BudgetMaterials: d.BudgetMaterials,
		BudgetEquipment: d.BudgetEquipment,
		BudgetOverheads: d.BudgetOverheads,
		BudgetProfit:    d.BudgetProfit,
		ActualLabour:    d.ActualLabour,
		ActualMaterials: d.ActualMaterials,
		ActualEquipment: d.ActualEquipment,
		ActualOverheads: d.ActualOverheads,
		Invoiced:        d.Invoiced,
		Paid:            d.Paid,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

func toDomainFinancial(m models.JobFinancial) domain.JobFinancial {
	return domain.JobFinancial{
		JobID:           m.JobID,
		BudgetLabour:    m.BudgetLabour,
		BudgetMaterials: m.BudgetMaterials,
		BudgetEquipment: m.BudgetEquipment,
		BudgetOverheads: m.BudgetOverheads,
		BudgetProfit:    m.BudgetProfit,
		ActualLabour:    m.ActualLabour,
		ActualMaterials: m.ActualMaterials,
		ActualEquipment: m.ActualEquipment,
		ActualOverheads: m.ActualOverheads,
		Invoiced:        m.Invoiced,
		Paid:            m.Paid,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

const financialColumns = `job_id,
	budget_labour, budget_materials, budget_equipment, budget_overheads, budget_profit,
	actual_labour, actual_materials, actual_equipment, actual_overheads,
	invoiced, paid,
	created_at, created_by, last_updated_at, last_updated_by`

func scanFinancial(row pgx.Row) (*models.JobFinancial, error) {
	var m models.JobFinancial
	err := row.Scan(
		&m.JobID,
		&m.BudgetLabour, &m.BudgetMaterials, &m.BudgetEquipment, &m.BudgetOverheads, &m.BudgetProfit,
		&m.ActualLabour, &m.ActualMaterials, &m.ActualEquipment, &m.ActualOverheads,
		&m.Invoiced, &m.Paid,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// actualColumn maps a cost category to its aggregate column. The category
// is a closed enum so the column name never comes from user input directly.
func actualColumn(c domain.CostCategory) (string, error) {
	switch c {
	case domain.CostLabour:
		return "actual_labour", nil
	case domain.CostMaterials:
		return "actual_materials", nil
	case domain.CostEquipment:
		return "actual_equipment", nil
	case domain.CostOverheads:
		return "actual_overheads", nil
	}
	return "", fmt.Errorf("unknown cost category %q: %w", c, apperrors.ErrValidation)
}

func (r *PgxFinancialRepository) FindFinancialByJobID(ctx context.Context, jobID string) (*domain.JobFinancial, error) {
	row := r.Pool.QueryRow(ctx, `SELECT `+financialColumns+` FROM job_financials WHERE job_id = $1`, jobID)
	m, err := scanFinancial(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("financial record for job %s: %w", jobID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query job financial record: %w", err)
	}
	d := toDomainFinancial(*m)
	return &d, nil
}

func (r *PgxFinancialRepository) ListCostEntries(ctx context.Context, jobID string, limit int, offset int) ([]domain.CostEntry, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT entry_id, job_id, category, amount, entry_date, notes,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM cost_entries
		WHERE job_id = $1
		ORDER BY entry_date DESC, created_at DESC
		LIMIT $2 OFFSET $3`, jobID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query cost entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.CostEntry
	for rows.Next() {
		var m models.CostEntry
		err := rows.Scan(
			&m.EntryID, &m.JobID, &m.Category, &m.Amount, &m.EntryDate, &m.Notes,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cost entry row: %w", err)
		}
		entries = append(entries, domain.CostEntry{
			EntryID:   m.EntryID,
			JobID:     m.JobID,
			Category:  domain.CostCategory(m.Category),
			Amount:    m.Amount,
			EntryDate: m.EntryDate,
			Notes:     m.Notes,
			AuditFields: domain.AuditFields{
				CreatedAt:     m.CreatedAt,
				CreatedBy:     m.CreatedBy,
				LastUpdatedAt: m.LastUpdatedAt,
				LastUpdatedBy: m.LastUpdatedBy,
			},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cost entry rows: %w", err)
	}
	return entries, nil
}

func (r *PgxFinancialRepository) ReplaceBudget(ctx context.Context, jobID string, budget domain.JobFinancial, userID string, now time.Time) (*domain.JobFinancial, error) {
	row := r.Pool.QueryRow(ctx, `
		UPDATE job_financials
		SET budget_labour = $2, budget_materials = $3, budget_equipment = $4,
		    budget_overheads = $5, budget_profit = $6,
		    last_updated_at = $7, last_updated_by = $8
		WHERE job_id = $1
		RETURNING `+financialColumns,
		jobID,
		budget.BudgetLabour, budget.BudgetMaterials, budget.BudgetEquipment,
		budget.BudgetOverheads, budget.BudgetProfit,
		now, userID,
	)
	m, err := scanFinancial(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("financial record for job %s: %w", jobID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to replace budget: %w", err)
	}
	d := toDomainFinancial(*m)
	return &d, nil
}

// ApplyCostEntry bumps the matching aggregate and inserts the audit row in
// one transaction. The increment is a single statement so concurrent
// entries for the same job serialize at the row without lost updates. It
// runs first: an unknown job surfaces as zero rows there, before any audit
// row exists to violate the foreign key.
func (r *PgxFinancialRepository) ApplyCostEntry(ctx context.Context, entry domain.CostEntry) (*domain.JobFinancial, error) {
	column, err := actualColumn(entry.Category)
	if err != nil {
		return nil, err
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	row := tx.QueryRow(ctx, `
		UPDATE job_financials
		SET `+column+` = `+column+` + $2,
		    last_updated_at = $3, last_updated_by = $4
		WHERE job_id = $1
		RETURNING `+financialColumns,
		entry.JobID, entry.Amount, entry.CreatedAt, entry.CreatedBy,
	)
	m, err := scanFinancial(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("financial record for job %s: %w", entry.JobID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to apply cost entry: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO cost_entries (entry_id, job_id, category, amount, entry_date, notes,
		                          created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		entry.EntryID, entry.JobID, string(entry.Category), entry.Amount, entry.EntryDate, entry.Notes,
		entry.CreatedAt, entry.CreatedBy, entry.LastUpdatedAt, entry.LastUpdatedBy,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("financial record for job %s: %w", entry.JobID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to insert cost entry: %w", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	d := toDomainFinancial(*m)
	return &d, nil
}

func (r *PgxFinancialRepository) AddInvoiced(ctx context.Context, jobID string, amount decimal.Decimal, userID string, now time.Time) (*domain.JobFinancial, error) {
	row := r.Pool.QueryRow(ctx, `
		UPDATE job_financials
		SET invoiced = invoiced + $2,
		    last_updated_at = $3, last_updated_by = $4
		WHERE job_id = $1
		RETURNING `+financialColumns,
		jobID, amount, now, userID,
	)
	m, err := scanFinancial(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("financial record for job %s: %w", jobID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to add invoiced amount: %w", err)
	}
	d := toDomainFinancial(*m)
	return &d, nil
}

// AddPayment increments paid with the paid <= invoiced invariant enforced
// in the statement itself, so two concurrent payments cannot jointly
// overshoot the invoiced total.
func (r *PgxFinancialRepository) AddPayment(ctx context.Context, jobID string, amount decimal.Decimal, userID string, now time.Time) (*domain.JobFinancial, error) {
	row := r.Pool.QueryRow(ctx, `
		UPDATE job_financials
		SET paid = paid + $2,
		    last_updated_at = $3, last_updated_by = $4
		WHERE job_id = $1 AND paid + $2 <= invoiced
		RETURNING `+financialColumns,
		jobID, amount, now, userID,
	)
	m, err := scanFinancial(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Distinguish an unknown job from a guard failure.
			if _, findErr := r.FindFinancialByJobID(ctx, jobID); findErr != nil {
				return nil, findErr
			}
			return nil, fmt.Errorf("payment would exceed invoiced amount: %w", apperrors.ErrValidation)
		}
		return nil, fmt.Errorf("failed to add payment: %w", err)
	}
	d := toDomainFinancial(*m)
	return &d, nil
}
