package services

import (
	"context"

	"github.com/voltcraft/jobledger/internal/core/domain"
	"github.com/voltcraft/jobledger/internal/dto"
)

// JobReaderSvc defines read operations for jobs.
type JobReaderSvc interface {
	GetJobByID(ctx context.Context, jobID string) (*domain.Job, error)
	ListJobs(ctx context.Context, limit int, offset int) ([]domain.Job, error)
}

// JobWriterSvc defines write operations for jobs.
type JobWriterSvc interface {
	// CreateJob creates the job and its zero-budget financial record in one
	// transaction.
	CreateJob(ctx context.Context, req dto.CreateJobRequest, userID string) (*domain.Job, error)
	UpdateJob(ctx context.Context, jobID string, req dto.UpdateJobRequest, userID string) (*domain.Job, error)
	// DeleteJob removes the job and cascades to its financial record, cost
	// entries and variation orders.
	DeleteJob(ctx context.Context, jobID string, userID string) error
}

// JobSvcFacade combines all job service interfaces.
type JobSvcFacade interface {
	JobReaderSvc
	JobWriterSvc
}
