package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/voltcraft/jobledger/internal/core/ports/services"
	"github.com/voltcraft/jobledger/internal/dto"
	"github.com/voltcraft/jobledger/internal/middleware"
)

// variationOrderHandler handles HTTP requests for the variation-order
// approval workflow.
type variationOrderHandler struct {
	orderService portssvc.VariationOrderSvcFacade
}

func newVariationOrderHandler(vs portssvc.VariationOrderSvcFacade) *variationOrderHandler {
	return &variationOrderHandler{orderService: vs}
}

// RegisterVariationOrderRoutes registers routes for variation orders.
// Creation and listing hang off the owning job; everything else addresses
// the order directly.
func RegisterVariationOrderRoutes(rg *gin.RouterGroup, orderService portssvc.VariationOrderSvcFacade) {
	h := newVariationOrderHandler(orderService)

	jobOrders := rg.Group("/jobs/:id/variation-orders")
	{
		jobOrders.POST("", h.createVariationOrder)
		jobOrders.GET("", h.listVariationOrders)
	}

	orders := rg.Group("/variation-orders")
	{
		orders.GET("/:orderID", h.getVariationOrder)
		orders.PUT("/:orderID", h.updateVariationOrder)
		orders.DELETE("/:orderID", h.deleteVariationOrder)
		orders.POST("/:orderID/approve", h.approveVariationOrder)
		orders.POST("/:orderID/reject", h.rejectVariationOrder)
		orders.POST("/:orderID/amend", h.amendVariationOrder)
	}
}

// createVariationOrder godoc
// @Summary Create a variation order
// @Description Creates a new order in the PENDING state; its value does not count toward the budget until approved
// @Tags variation-orders
// @Accept  json
// @Produce  json
// @Param   id path string true "Job ID"
// @Param   order body dto.CreateVariationOrderRequest true "Order details"
// @Success 201 {object} dto.VariationOrderResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Job not found"
// @Security BearerAuth
// @Router /jobs/{id}/variation-orders [post]
func (h *variationOrderHandler) createVariationOrder(c *gin.Context) {
	jobID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateVariationOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createVariationOrder", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	order, err := h.orderService.CreateVariationOrder(c.Request.Context(), jobID, req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to create variation order")
		return
	}
	c.JSON(http.StatusCreated, dto.ToVariationOrderResponse(order))
}

// listVariationOrders godoc
// @Summary List a job's variation orders
// @Description Returns every order for the job in creation order
// @Tags variation-orders
// @Produce  json
// @Param   id path string true "Job ID"
// @Success 200 {array} dto.VariationOrderResponse
// @Security BearerAuth
// @Router /jobs/{id}/variation-orders [get]
func (h *variationOrderHandler) listVariationOrders(c *gin.Context) {
	jobID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	orders, err := h.orderService.ListVariationOrders(c.Request.Context(), jobID)
	if err != nil {
		respondWithError(c, err, "Failed to list variation orders")
		return
	}
	c.JSON(http.StatusOK, dto.ToListVariationOrderResponse(orders))
}

// getVariationOrder godoc
// @Summary Get a variation order by ID
// @Tags variation-orders
// @Produce  json
// @Param   orderID path string true "Order ID"
// @Success 200 {object} dto.VariationOrderResponse
// @Failure 404 {object} map[string]string "Order not found"
// @Security BearerAuth
// @Router /variation-orders/{orderID} [get]
func (h *variationOrderHandler) getVariationOrder(c *gin.Context) {
	orderID, ok := uuidParam(c, "orderID")
	if !ok {
		return
	}

	order, err := h.orderService.GetVariationOrderByID(c.Request.Context(), orderID)
	if err != nil {
		respondWithError(c, err, "Failed to retrieve variation order")
		return
	}
	c.JSON(http.StatusOK, dto.ToVariationOrderResponse(order))
}

// updateVariationOrder godoc
// @Summary Edit a variation order
// @Description Edits description/notes in any state. Value may only change while the order is PENDING; approved orders change value through the amend operation.
// @Tags variation-orders
// @Accept  json
// @Produce  json
// @Param   orderID path string true "Order ID"
// @Param   order body dto.UpdateVariationOrderRequest true "Fields to update"
// @Success 200 {object} dto.VariationOrderResponse
// @Failure 404 {object} map[string]string "Order not found"
// @Failure 409 {object} map[string]string "Value edit on a closed order"
// @Security BearerAuth
// @Router /variation-orders/{orderID} [put]
func (h *variationOrderHandler) updateVariationOrder(c *gin.Context) {
	orderID, ok := uuidParam(c, "orderID")
	if !ok {
		return
	}

	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateVariationOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for updateVariationOrder", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	order, err := h.orderService.UpdateVariationOrder(c.Request.Context(), orderID, req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to update variation order")
		return
	}
	c.JSON(http.StatusOK, dto.ToVariationOrderResponse(order))
}

// approveVariationOrder godoc
// @Summary Approve a pending variation order
// @Description Transitions PENDING to APPROVED; from then on the order's value counts toward the job's budget total. Approval is compare-and-swap guarded, so of two racing decisions only one wins.
// @Tags variation-orders
// @Produce  json
// @Param   orderID path string true "Order ID"
// @Success 200 {object} dto.VariationOrderResponse
// @Failure 404 {object} map[string]string "Order not found"
// @Failure 409 {object} map[string]string "Order already closed"
// @Security BearerAuth
// @Router /variation-orders/{orderID}/approve [post]
func (h *variationOrderHandler) approveVariationOrder(c *gin.Context) {
	orderID, ok := uuidParam(c, "orderID")
	if !ok {
		return
	}

	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	order, err := h.orderService.ApproveVariationOrder(c.Request.Context(), orderID, userID)
	if err != nil {
		respondWithError(c, err, "Failed to approve variation order")
		return
	}
	c.JSON(http.StatusOK, dto.ToVariationOrderResponse(order))
}

// rejectVariationOrder godoc
// @Summary Reject a pending variation order
// @Description Transitions PENDING to REJECTED with a required reason, which is merged into the order's notes
// @Tags variation-orders
// @Accept  json
// @Produce  json
// @Param   orderID path string true "Order ID"
// @Param   rejection body dto.RejectVariationOrderRequest true "Rejection reason"
// @Success 200 {object} dto.VariationOrderResponse
// @Failure 400 {object} map[string]string "Missing reason"
// @Failure 404 {object} map[string]string "Order not found"
// @Failure 409 {object} map[string]string "Order already closed"
// @Security BearerAuth
// @Router /variation-orders/{orderID}/reject [post]
func (h *variationOrderHandler) rejectVariationOrder(c *gin.Context) {
	orderID, ok := uuidParam(c, "orderID")
	if !ok {
		return
	}

	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RejectVariationOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for rejectVariationOrder", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	order, err := h.orderService.RejectVariationOrder(c.Request.Context(), orderID, req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to reject variation order")
		return
	}
	c.JSON(http.StatusOK, dto.ToVariationOrderResponse(order))
}

// amendVariationOrder godoc
// @Summary Amend an approved variation order's value
// @Description Changes the value of an APPROVED order as an explicit, audited amendment; the old and new values and the reason are appended to the order's notes
// @Tags variation-orders
// @Accept  json
// @Produce  json
// @Param   orderID path string true "Order ID"
// @Param   amendment body dto.AmendVariationOrderRequest true "New value and reason"
// @Success 200 {object} dto.VariationOrderResponse
// @Failure 400 {object} map[string]string "Missing reason"
// @Failure 404 {object} map[string]string "Order not found"
// @Failure 409 {object} map[string]string "Order is not approved"
// @Security BearerAuth
// @Router /variation-orders/{orderID}/amend [post]
func (h *variationOrderHandler) amendVariationOrder(c *gin.Context) {
	orderID, ok := uuidParam(c, "orderID")
	if !ok {
		return
	}

	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AmendVariationOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for amendVariationOrder", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	order, err := h.orderService.AmendVariationOrderValue(c.Request.Context(), orderID, req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to amend variation order")
		return
	}
	c.JSON(http.StatusOK, dto.ToVariationOrderResponse(order))
}

// deleteVariationOrder godoc
// @Summary Delete a closed variation order
// @Description Deletes an APPROVED or REJECTED order. A PENDING order must be decided first; deleting it is a conflict.
// @Tags variation-orders
// @Param   orderID path string true "Order ID"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Order not found"
// @Failure 409 {object} map[string]string "Order is pending"
// @Security BearerAuth
// @Router /variation-orders/{orderID} [delete]
func (h *variationOrderHandler) deleteVariationOrder(c *gin.Context) {
	orderID, ok := uuidParam(c, "orderID")
	if !ok {
		return
	}

	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	if err := h.orderService.DeleteVariationOrder(c.Request.Context(), orderID, userID); err != nil {
		respondWithError(c, err, "Failed to delete variation order")
		return
	}
	c.Status(http.StatusNoContent)
}
