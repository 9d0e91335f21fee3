package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/voltcraft/jobledger/internal/core/ports/services"
	"github.com/voltcraft/jobledger/internal/dto"
	"github.com/voltcraft/jobledger/internal/middleware"
)

// jobHandler handles HTTP requests related to jobs.
type jobHandler struct {
	jobService portssvc.JobSvcFacade
}

func newJobHandler(js portssvc.JobSvcFacade) *jobHandler {
	return &jobHandler{jobService: js}
}

// RegisterJobRoutes registers routes related to jobs.
func RegisterJobRoutes(rg *gin.RouterGroup, jobService portssvc.JobSvcFacade) {
	h := newJobHandler(jobService)

	jobs := rg.Group("/jobs")
	{
		jobs.POST("", h.createJob)
		jobs.GET("", h.listJobs)
		jobs.GET("/:id", h.getJob)
		jobs.PUT("/:id", h.updateJob)
		jobs.DELETE("/:id", h.deleteJob)
	}
}

// createJob godoc
// @Summary Create a new job
// @Description Creates a job together with its zero-budget financial record
// @Tags jobs
// @Accept  json
// @Produce  json
// @Param   job body dto.CreateJobRequest true "Job details"
// @Success 201 {object} dto.JobResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create job"
// @Security BearerAuth
// @Router /jobs [post]
func (h *jobHandler) createJob(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createJob", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	job, err := h.jobService.CreateJob(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to create job")
		return
	}

	logger.Info("Job created", slog.String("job_id", job.JobID))
	c.JSON(http.StatusCreated, dto.ToJobResponse(job))
}

// listJobs godoc
// @Summary List jobs
// @Description Retrieves a paginated list of jobs, newest first
// @Tags jobs
// @Produce  json
// @Param   limit query int false "Page size (default 20)"
// @Param   offset query int false "Offset (default 0)"
// @Success 200 {array} dto.JobResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /jobs [get]
func (h *jobHandler) listJobs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	jobs, err := h.jobService.ListJobs(c.Request.Context(), limit, offset)
	if err != nil {
		respondWithError(c, err, "Failed to list jobs")
		return
	}
	c.JSON(http.StatusOK, dto.ToListJobResponse(jobs))
}

// getJob godoc
// @Summary Get a job by ID
// @Tags jobs
// @Produce  json
// @Param   id path string true "Job ID"
// @Success 200 {object} dto.JobResponse
// @Failure 404 {object} map[string]string "Job not found"
// @Security BearerAuth
// @Router /jobs/{id} [get]
func (h *jobHandler) getJob(c *gin.Context) {
	jobID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	job, err := h.jobService.GetJobByID(c.Request.Context(), jobID)
	if err != nil {
		respondWithError(c, err, "Failed to retrieve job")
		return
	}
	c.JSON(http.StatusOK, dto.ToJobResponse(job))
}

// updateJob godoc
// @Summary Update a job
// @Tags jobs
// @Accept  json
// @Produce  json
// @Param   id path string true "Job ID"
// @Param   job body dto.UpdateJobRequest true "Fields to update"
// @Success 200 {object} dto.JobResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Job not found"
// @Security BearerAuth
// @Router /jobs/{id} [put]
func (h *jobHandler) updateJob(c *gin.Context) {
	jobID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for updateJob", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	job, err := h.jobService.UpdateJob(c.Request.Context(), jobID, req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to update job")
		return
	}
	c.JSON(http.StatusOK, dto.ToJobResponse(job))
}

// deleteJob godoc
// @Summary Delete a job
// @Description Deletes a job and cascades to its financial record, cost entries and variation orders
// @Tags jobs
// @Param   id path string true "Job ID"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Job not found"
// @Security BearerAuth
// @Router /jobs/{id} [delete]
func (h *jobHandler) deleteJob(c *gin.Context) {
	jobID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	if err := h.jobService.DeleteJob(c.Request.Context(), jobID, userID); err != nil {
		respondWithError(c, err, "Failed to delete job")
		return
	}
	c.Status(http.StatusNoContent)
}
