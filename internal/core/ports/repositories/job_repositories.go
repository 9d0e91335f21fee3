package repositories

import (
	"context"

	"github.com/voltcraft/jobledger/internal/core/domain"
)

// JobReader defines read operations for job data.
type JobReader interface {
	// FindJobByID retrieves a specific job by its unique identifier.
	FindJobByID(ctx context.Context, jobID string) (*domain.Job, error)

	// ListJobs retrieves a paginated list of jobs, newest first.
	ListJobs(ctx context.Context, limit int, offset int) ([]domain.Job, error)
}

// JobWriter defines write operations for job data.
type JobWriter interface {
	// SaveJob persists a new job together with its zero-valued financial
	// record in a single transaction.
	SaveJob(ctx context.Context, job domain.Job, financial domain.JobFinancial) error

	// UpdateJob updates an existing job's details.
	UpdateJob(ctx context.Context, job domain.Job) error

	// DeleteJob removes a job and, by cascade, its financial record, cost
	// entries and variation orders.
	DeleteJob(ctx context.Context, jobID string) error
}

// JobRepositoryFacade combines all job-related repository interfaces.
type JobRepositoryFacade interface {
	JobReader
	JobWriter
}
