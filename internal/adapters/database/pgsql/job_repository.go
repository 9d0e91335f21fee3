package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/voltcraft/jobledger/internal/apperrors"
	"github.com/voltcraft/jobledger/internal/core/domain"
	portsrepo "github.com/voltcraft/jobledger/internal/core/ports/repositories"
	"github.com/voltcraft/jobledger/internal/models"
)

// PgxJobRepository persists jobs in PostgreSQL.
type PgxJobRepository struct {
	BaseRepository
}

func newPgxJobRepository(pool *pgxpool.Pool) portsrepo.JobRepositoryFacade {
	return &PgxJobRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.JobRepositoryFacade = (*PgxJobRepository)(nil)

func toModelJob(d domain.Job) models.Job {
	return models.Job{
		JobID:       d.JobID,
		Title:       d.Title,
		ClientName:  d.ClientName,
		SiteAddress: d.SiteAddress,
		Status:      models.JobStatus(d.Status),
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

func toDomainJob(m models.Job) domain.Job {
	return domain.Job{
		JobID:       m.JobID,
		Title:       m.Title,
		ClientName:  m.ClientName,
		SiteAddress: m.SiteAddress,
		Status:      domain.JobStatus(m.Status),
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

const jobColumns = `job_id, title, client_name, site_address, status, created_at, created_by, last_updated_at, last_updated_by`

func scanJob(row pgx.Row) (*models.Job, error) {
	var m models.Job
	err := row.Scan(
		&m.JobID, &m.Title, &m.ClientName, &m.SiteAddress, &m.Status,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveJob inserts the job and its zero-valued financial record in a single
// transaction so neither can exist without the other.
func (r *PgxJobRepository) SaveJob(ctx context.Context, job domain.Job, financial domain.JobFinancial) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := toModelJob(job)
	_, err = tx.Exec(ctx, `
		INSERT INTO jobs (job_id, title, client_name, site_address, status, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		m.JobID, m.Title, m.ClientName, m.SiteAddress, m.Status,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert job: %w", err)
	}

	f := toModelFinancial(financial)
	_, err = tx.Exec(ctx, `
		INSERT INTO job_financials (
			job_id,
			budget_labour, budget_materials, budget_equipment, budget_overheads, budget_profit,
			actual_labour, actual_materials, actual_equipment, actual_overheads,
			invoiced, paid,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		f.JobID,
		f.BudgetLabour, f.BudgetMaterials, f.BudgetEquipment, f.BudgetOverheads, f.BudgetProfit,
		f.ActualLabour, f.ActualMaterials, f.ActualEquipment, f.ActualOverheads,
		f.Invoiced, f.Paid,
		f.CreatedAt, f.CreatedBy, f.LastUpdatedAt, f.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert job financial record: %w", err)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxJobRepository) FindJobByID(ctx context.Context, jobID string) (*domain.Job, error) {
	row := r.Pool.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE job_id = $1`, jobID)
	m, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("job %s: %w", jobID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query job: %w", err)
	}
	d := toDomainJob(*m)
	return &d, nil
}

func (r *PgxJobRepository) ListJobs(ctx context.Context, limit int, offset int) ([]domain.Job, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT `+jobColumns+` FROM jobs
		ORDER BY created_at DESC, job_id
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query jobs: %w", err)
	}
	defer rows.Close()

	var jobs []domain.Job
	for rows.Next() {
		m, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job row: %w", err)
		}
		jobs = append(jobs, toDomainJob(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating job rows: %w", err)
	}
	return jobs, nil
}

func (r *PgxJobRepository) UpdateJob(ctx context.Context, job domain.Job) error {
	m := toModelJob(job)
	tag, err := r.Pool.Exec(ctx, `
		UPDATE jobs
		SET title = $2, client_name = $3, site_address = $4, status = $5,
		    last_updated_at = $6, last_updated_by = $7
		WHERE job_id = $1`,
		m.JobID, m.Title, m.ClientName, m.SiteAddress, m.Status,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("job %s: %w", job.JobID, apperrors.ErrNotFound)
	}
	return nil
}

// DeleteJob removes a job; the financial record, cost entries and variation
// orders go with it via ON DELETE CASCADE.
func (r *PgxJobRepository) DeleteJob(ctx context.Context, jobID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM jobs WHERE job_id = $1`, jobID)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("job %s: %w", jobID, apperrors.ErrNotFound)
	}
	return nil
}
