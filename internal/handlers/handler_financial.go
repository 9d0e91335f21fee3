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

// financialHandler handles HTTP requests related to job financials.
type financialHandler struct {
	financialService portssvc.FinancialSvcFacade
}

func newFinancialHandler(fs portssvc.FinancialSvcFacade) *financialHandler {
	return &financialHandler{financialService: fs}
}

// RegisterFinancialRoutes registers routes related to job financials.
func RegisterFinancialRoutes(rg *gin.RouterGroup, financialService portssvc.FinancialSvcFacade) {
	h := newFinancialHandler(financialService)

	financials := rg.Group("/jobs/:id/financials")
	{
		financials.GET("", h.getFinancial)
		financials.PUT("/budget", h.updateBudget)
		financials.POST("/costs", h.recordCost)
		financials.GET("/costs", h.listCostEntries)
		financials.POST("/invoiced", h.recordInvoiced)
		financials.POST("/payments", h.recordPayment)
	}
}

// getFinancial godoc
// @Summary Get a job's financial record
// @Description Returns stored budget/actual/invoicing figures plus the derived summary (totals, margin, status, variance), computed fresh on every read
// @Tags financials
// @Produce  json
// @Param   id path string true "Job ID"
// @Success 200 {object} dto.JobFinancialResponse
// @Failure 404 {object} map[string]string "Job not found"
// @Security BearerAuth
// @Router /jobs/{id}/financials [get]
func (h *financialHandler) getFinancial(c *gin.Context) {
	jobID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.financialService.GetFinancial(c.Request.Context(), jobID)
	if err != nil {
		respondWithError(c, err, "Failed to retrieve financial record")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// updateBudget godoc
// @Summary Replace a job's budget
// @Description Atomically replaces the five budget components. If actual costs already exist the response flags that variance figures will shift; the edit is never blocked.
// @Tags financials
// @Accept  json
// @Produce  json
// @Param   id path string true "Job ID"
// @Param   budget body dto.UpdateBudgetRequest true "Budget components"
// @Success 200 {object} dto.JobFinancialResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Job not found"
// @Security BearerAuth
// @Router /jobs/{id}/financials/budget [put]
func (h *financialHandler) updateBudget(c *gin.Context) {
	jobID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for updateBudget", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	resp, err := h.financialService.UpdateBudget(c.Request.Context(), jobID, req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to update budget")
		return
	}

	if resp.ActualsRecorded {
		logger.Info("Budget replaced after actuals were recorded", slog.String("job_id", resp.JobID))
	}
	c.JSON(http.StatusOK, resp)
}

// recordCost godoc
// @Summary Record an actual cost
// @Description Appends one cost entry and atomically increments the matching category total. Amount must be strictly positive; use a compensating entry to correct mistakes.
// @Tags financials
// @Accept  json
// @Produce  json
// @Param   id path string true "Job ID"
// @Param   cost body dto.RecordCostRequest true "Cost entry"
// @Success 200 {object} dto.JobFinancialResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Job not found"
// @Security BearerAuth
// @Router /jobs/{id}/financials/costs [post]
func (h *financialHandler) recordCost(c *gin.Context) {
	jobID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecordCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for recordCost", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	resp, err := h.financialService.RecordCost(c.Request.Context(), jobID, req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to record cost")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// listCostEntries godoc
// @Summary List a job's cost entries
// @Description Returns the append-only audit trail of recorded costs, newest first
// @Tags financials
// @Produce  json
// @Param   id path string true "Job ID"
// @Param   limit query int false "Page size (default 50)"
// @Param   offset query int false "Offset (default 0)"
// @Success 200 {array} dto.CostEntryResponse
// @Failure 404 {object} map[string]string "Job not found"
// @Security BearerAuth
// @Router /jobs/{id}/financials/costs [get]
func (h *financialHandler) listCostEntries(c *gin.Context) {
	jobID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	entries, err := h.financialService.ListCostEntries(c.Request.Context(), jobID, limit, offset)
	if err != nil {
		respondWithError(c, err, "Failed to list cost entries")
		return
	}
	c.JSON(http.StatusOK, dto.ToListCostEntryResponse(entries))
}

// recordInvoiced godoc
// @Summary Record an invoiced amount
// @Tags financials
// @Accept  json
// @Produce  json
// @Param   id path string true "Job ID"
// @Param   amount body dto.RecordAmountRequest true "Amount invoiced"
// @Success 200 {object} dto.JobFinancialResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Job not found"
// @Security BearerAuth
// @Router /jobs/{id}/financials/invoiced [post]
func (h *financialHandler) recordInvoiced(c *gin.Context) {
	jobID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecordAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for recordInvoiced", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	resp, err := h.financialService.RecordInvoiced(c.Request.Context(), jobID, req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to record invoiced amount")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// recordPayment godoc
// @Summary Record a payment received
// @Description Increments the paid total; a payment that would push paid above invoiced is rejected
// @Tags financials
// @Accept  json
// @Produce  json
// @Param   id path string true "Job ID"
// @Param   amount body dto.RecordAmountRequest true "Amount paid"
// @Success 200 {object} dto.JobFinancialResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Job not found"
// @Security BearerAuth
// @Router /jobs/{id}/financials/payments [post]
func (h *financialHandler) recordPayment(c *gin.Context) {
	jobID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecordAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for recordPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	resp, err := h.financialService.RecordPayment(c.Request.Context(), jobID, req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to record payment")
		return
	}
	c.JSON(http.StatusOK, resp)
}
