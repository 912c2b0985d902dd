package handler

import (
	"net/http"

	"backoffice/internal/middleware"
	"backoffice/internal/service"
	"backoffice/pkg/response"

	"github.com/gin-gonic/gin"
)

type AdjustmentHandler struct {
	adjustmentService service.AdjustmentService
}

func NewAdjustmentHandler(adjustmentService service.AdjustmentService) *AdjustmentHandler {
	return &AdjustmentHandler{adjustmentService: adjustmentService}
}

func (h *AdjustmentHandler) RegisterRoutes(router *gin.RouterGroup) {
	adjustments := router.Group("/adjustments", middleware.RequireRole(middleware.RoleWarehouse, middleware.RolePharmacist))
	{
		adjustments.POST("/preview", h.Preview)
		adjustments.POST("", h.Save)
	}
}

// Preview builds adjustment records against current stock without saving
// @Summary      Preview stock adjustment
// @Description  Returns the records, totals and per-line validation errors
// @Tags         adjustments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.AdjustmentRequest  true  "New stock per product"
// @Success      200      {object}  response.Response{data=service.AdjustmentPreview}
// @Failure      404      {object}  response.Response
// @Router       /api/adjustments/preview [post]
func (h *AdjustmentHandler) Preview(c *gin.Context) {
	var req service.AdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p, err := h.adjustmentService.Preview(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, p))
}

// Save posts a batch of stock adjustments
// @Summary      Save stock adjustment
// @Tags         adjustments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.AdjustmentRequest  true  "Adjustment batch"
// @Success      201      {object}  response.Response{data=service.AdjustmentResult}
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Failure      502      {object}  response.Response
// @Router       /api/adjustments [post]
func (h *AdjustmentHandler) Save(c *gin.Context) {
	var req service.AdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.adjustmentService.Save(c.Request.Context(), req, middleware.Username(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, res))
}
