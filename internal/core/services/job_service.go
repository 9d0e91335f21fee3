package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/voltcraft/jobledger/internal/core/domain"
	portsrepo "github.com/voltcraft/jobledger/internal/core/ports/repositories"
	portssvc "github.com/voltcraft/jobledger/internal/core/ports/services"
	"github.com/voltcraft/jobledger/internal/dto"
)

// jobServiceImpl implements the JobSvcFacade interface.
type jobServiceImpl struct {
	BaseService
	jobRepo   portsrepo.JobRepositoryFacade
	publisher portssvc.EventPublisher
}

// JobServiceOption is a functional option for configuring the job service.
type JobServiceOption func(*jobServiceImpl)

// WithJobEventPublisher adds an event publisher dependency.
func WithJobEventPublisher(p portssvc.EventPublisher) JobServiceOption {
	return func(s *jobServiceImpl) {
		s.publisher = p
	}
}

// NewJobService creates a new job service with the provided options.
func NewJobService(repo portsrepo.JobRepositoryFacade, options ...JobServiceOption) portssvc.JobSvcFacade {
	svc := &jobServiceImpl{jobRepo: repo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.JobSvcFacade = (*jobServiceImpl)(nil)

func (s *jobServiceImpl) CreateJob(ctx context.Context, req dto.CreateJobRequest, userID string) (*domain.Job, error) {
	now := time.Now()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}

	job := domain.Job{
		JobID:       uuid.NewString(),
		Title:       req.Title,
		ClientName:  req.ClientName,
		SiteAddress: req.SiteAddress,
		Status:      domain.JobQuoted,
		AuditFields: audit,
	}

	// The financial record is born with the job: zero budgets, zero actuals.
	financial := domain.JobFinancial{
		JobID:           job.JobID,
		BudgetLabour:    decimal.Zero,
		BudgetMaterials: decimal.Zero,
		BudgetEquipment: decimal.Zero,
		BudgetOverheads: decimal.Zero,
		BudgetProfit:    decimal.Zero,
		ActualLabour:    decimal.Zero,
		ActualMaterials: decimal.Zero,
		ActualEquipment: decimal.Zero,
		ActualOverheads: decimal.Zero,
		Invoiced:        decimal.Zero,
		Paid:            decimal.Zero,
		AuditFields:     audit,
	}

	if err := s.jobRepo.SaveJob(ctx, job, financial); err != nil {
		s.LogError(ctx, err, "Failed to save job", slog.String("job_id", job.JobID))
		return nil, fmt.Errorf("failed to save job: %w", err)
	}

	if s.publisher != nil {
		s.publisher.Publish(ctx, "job_created", job.JobID, userID, map[string]any{
			"title": job.Title,
		})
	}

	s.LogInfo(ctx, "Job created", slog.String("job_id", job.JobID))
	return &job, nil
}

func (s *jobServiceImpl) GetJobByID(ctx context.Context, jobID string) (*domain.Job, error) {
	job, err := s.jobRepo.FindJobByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return job, nil
}

func (s *jobServiceImpl) ListJobs(ctx context.Context, limit int, offset int) ([]domain.Job, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.jobRepo.ListJobs(ctx, limit, offset)
}

func (s *jobServiceImpl) UpdateJob(ctx context.Context, jobID string, req dto.UpdateJobRequest, userID string) (*domain.Job, error) {
	job, err := s.jobRepo.FindJobByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		job.Title = *req.Title
	}
	if req.ClientName != nil {
		job.ClientName = *req.ClientName
	}
	if req.SiteAddress != nil {
		job.SiteAddress = *req.SiteAddress
	}
	if req.Status != nil {
		job.Status = *req.Status
	}
	job.LastUpdatedAt = time.Now()
	job.LastUpdatedBy = userID

	if err := s.jobRepo.UpdateJob(ctx, *job); err != nil {
		s.LogError(ctx, err, "Failed to update job", slog.String("job_id", jobID))
		return nil, fmt.Errorf("failed to update job: %w", err)
	}
	return job, nil
}

func (s *jobServiceImpl) DeleteJob(ctx context.Context, jobID string, userID string) error {
	// Confirm existence first so the caller gets a clean not-found.
	if _, err := s.jobRepo.FindJobByID(ctx, jobID); err != nil {
		return err
	}

	if err := s.jobRepo.DeleteJob(ctx, jobID); err != nil {
		s.LogError(ctx, err, "Failed to delete job", slog.String("job_id", jobID))
		return fmt.Errorf("failed to delete job: %w", err)
	}

	if s.publisher != nil {
		s.publisher.Publish(ctx, "job_deleted", jobID, userID, nil)
	}

	s.LogInfo(ctx, "Job deleted", slog.String("job_id", jobID), slog.String("deleted_by", userID))
	return nil
}
