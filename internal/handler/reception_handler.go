package handler

import (
	"net/http"

	"backoffice/internal/middleware"
	"backoffice/internal/service"
	"backoffice/pkg/pagination"
	"backoffice/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReceptionHandler struct {
	receptionService service.ReceptionService
}

func NewReceptionHandler(receptionService service.ReceptionService) *ReceptionHandler {
	return &ReceptionHandler{receptionService: receptionService}
}

func (h *ReceptionHandler) RegisterRoutes(router *gin.RouterGroup) {
	receptions := router.Group("/receptions", middleware.RequireRole(middleware.RolePharmacist))
	{
		receptions.GET("", h.ListReceptions)
		receptions.POST("", h.OpenReception)
		receptions.GET("/:id", h.GetReception)
		receptions.PATCH("/:id/items/:itemId/checklist", h.SetChecklist)
		receptions.PATCH("/:id/items/:itemId/quantity", h.SetQuantity)
		receptions.POST("/:id/items/:itemId/decision", h.Decide)
		receptions.POST("/:id/save", h.Save)
	}
}

// ListReceptions lists submitted receipts
// @Summary      List submitted receptions
// @Tags         receptions
// @Security     BearerAuth
// @Produce      json
// @Param        status  query     string  false  "approved or rejected"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Success      200     {object}  response.Response{data=[]service.ReceptionSummary,meta=pagination.Meta}
// @Router       /api/receptions [get]
func (h *ReceptionHandler) ListReceptions(c *gin.Context) {
	p := pagination.Parse(c)
	rows, total, err := h.receptionService.List(c.Request.Context(), c.Query("status"), p.Page, p.Limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, rows, p.NewMeta(total)))
}

// OpenReception starts inspecting a delivered invoice
// @Summary      Open reception
// @Description  Starts an inspection with every line pending
// @Tags         receptions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.OpenReceptionRequest  true  "Invoice header and lines"
// @Success      201      {object}  response.Response{data=service.ReceptionView}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /api/receptions [post]
func (h *ReceptionHandler) OpenReception(c *gin.Context) {
	var req service.OpenReceptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	v, err := h.receptionService.Open(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, v))
}

// GetReception returns a draft or a submitted receipt
// @Summary      Get reception
// @Tags         receptions
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Reception ID"
// @Success      200  {object}  response.Response{data=service.ReceptionView}
// @Failure      404  {object}  response.Response
// @Router       /api/receptions/{id} [get]
func (h *ReceptionHandler) GetReception(c *gin.Context) {
	v, err := h.receptionService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, v))
}

// SetChecklist toggles one inspection check of a line
// @Summary      Set checklist flag
// @Tags         receptions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                    true  "Reception ID"
// @Param        itemId   path      string                    true  "Line ID"
// @Param        payload  body      service.ChecklistRequest  true  "Flag and value"
// @Success      200      {object}  response.Response{data=service.ReceptionView}
// @Failure      404      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /api/receptions/{id}/items/{itemId}/checklist [patch]
func (h *ReceptionHandler) SetChecklist(c *gin.Context) {
	var req service.ChecklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	v, err := h.receptionService.SetChecklist(c.Request.Context(), c.Param("id"), c.Param("itemId"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, v))
}

// SetQuantity records the counted quantity of a line
// @Summary      Set received quantity
// @Tags         receptions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                   true  "Reception ID"
// @Param        itemId   path      string                   true  "Line ID"
// @Param        payload  body      service.QuantityRequest  true  "Received quantity"
// @Success      200      {object}  response.Response{data=service.ReceptionView}
// @Failure      404      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /api/receptions/{id}/items/{itemId}/quantity [patch]
func (h *ReceptionHandler) SetQuantity(c *gin.Context) {
	var req service.QuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	v, err := h.receptionService.SetQuantity(c.Request.Context(), c.Param("id"), c.Param("itemId"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, v))
}

// Decide approves or rejects a fully checked line
// @Summary      Decide line
// @Tags         receptions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                   true  "Reception ID"
// @Param        itemId   path      string                   true  "Line ID"
// @Param        payload  body      service.DecisionRequest  true  "approved or rejected"
// @Success      200      {object}  response.Response{data=service.ReceptionView}
// @Failure      404      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /api/receptions/{id}/items/{itemId}/decision [post]
func (h *ReceptionHandler) Decide(c *gin.Context) {
	var req service.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	v, err := h.receptionService.Decide(c.Request.Context(), c.Param("id"), c.Param("itemId"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, v))
}

// Save finalizes the inspection and submits it
// @Summary      Save reception
// @Description  Fixes the final disposition and posts approved stock. On 502 the draft is kept for a retry.
// @Tags         receptions
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Reception ID"
// @Success      200  {object}  response.Response{data=service.ReceptionView}
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Failure      422  {object}  response.Response
// @Failure      502  {object}  response.Response
// @Router       /api/receptions/{id}/save [post]
func (h *ReceptionHandler) Save(c *gin.Context) {
	v, err := h.receptionService.Save(c.Request.Context(), c.Param("id"), middleware.Username(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, v))
}
