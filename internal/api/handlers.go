package api

import (
	"github.com/gin-gonic/gin"
)

type purchaseOrderRequest struct {
	NDC string `json:"ndc" binding:"required"`
	Qty int    `json:"qty" binding:"required,gt=0"`
}

// GET /api/v1/inventory
func (h *Handler) listInventory(c *gin.Context) {
	result := h.dash.ListInventory(c.Request.Context())

	c.Header(ForecastSourceHeader, string(result.Source))
	SuccessWithMessage(c, result.Status, result.Items)
}

// GET /api/v1/forecast/:ndc
func (h *Handler) listForecast(c *gin.Context) {
	result := h.dash.ListForecast(c.Request.Context(), c.Param("ndc"))

	if result.Supported {
		c.Header(ForecastSourceHeader, string(result.Source))
	}
	message := result.Status
	if message == "" {
		message = "OK"
	}
	SuccessWithMessage(c, message, result.Points)
}

// GET /api/v1/forecast-summary
func (h *Handler) forecastSummary(c *gin.Context) {
	summary := h.dash.ForecastSummary(c.Request.Context())

	c.Header(ForecastSourceHeader, string(summary.Source))
	Success(c, summary)
}

// POST /api/v1/purchase-orders
func (h *Handler) submitPurchaseOrder(c *gin.Context) {
	var req purchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequestWithValidation(c, err)
		return
	}

	ack := h.dash.SubmitPurchaseOrder(c.Request.Context(), req.NDC, req.Qty)
	SuccessWithMessage(c, ack.Status, ack)
}
