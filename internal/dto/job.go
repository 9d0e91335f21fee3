package dto

import (
	"time"

	"github.com/voltcraft/jobledger/internal/core/domain"
)

// CreateJobRequest defines the data needed to create a new job. The job's
// financial record is created with it, zero-budgeted.
type CreateJobRequest struct {
	Title       string `json:"title" binding:"required"`
	ClientName  string `json:"clientName" binding:"required"`
	SiteAddress string `json:"siteAddress"`
}

// UpdateJobRequest defines the data allowed for updating a job.
// Pointers distinguish zero-value updates from fields not provided.
type UpdateJobRequest struct {
	Title       *string           `json:"title"`
	ClientName  *string           `json:"clientName"`
	SiteAddress *string           `json:"siteAddress"`
	Status      *domain.JobStatus `json:"status" binding:"omitempty,oneof=QUOTED ACTIVE COMPLETED CANCELLED"`
}

// JobResponse defines the data returned for a job.
type JobResponse struct {
	JobID       string           `json:"jobID"`
	Title       string           `json:"title"`
	ClientName  string           `json:"clientName"`
	SiteAddress string           `json:"siteAddress"`
	Status      domain.JobStatus `json:"status"`
	CreatedAt   time.Time        `json:"createdAt"`
	CreatedBy   string           `json:"createdBy"`
	LastUpdatedAt time.Time      `json:"lastUpdatedAt"`
	LastUpdatedBy string         `json:"lastUpdatedBy"`
}

// ToJobResponse converts a domain.Job to JobResponse.
func ToJobResponse(j *domain.Job) JobResponse {
	return JobResponse{
		JobID:         j.JobID,
		Title:         j.Title,
		ClientName:    j.ClientName,
		SiteAddress:   j.SiteAddress,
		Status:        j.Status,
		CreatedAt:     j.CreatedAt,
		CreatedBy:     j.CreatedBy,
		LastUpdatedAt: j.LastUpdatedAt,
		LastUpdatedBy: j.LastUpdatedBy,
	}
}

// ToListJobResponse converts a slice of domain.Job to JobResponse DTOs.
func ToListJobResponse(jobs []domain.Job) []JobResponse {
	res := make([]JobResponse, len(jobs))
	for i, j := range jobs {
		res[i] = ToJobResponse(&j)
	}
	return res
}
