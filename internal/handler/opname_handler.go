package handler

import (
	"mime"
	"net/http"

	"backoffice/internal/middleware"
	"backoffice/internal/service"
	"backoffice/pkg/response"

	"github.com/gin-gonic/gin"
)

type OpnameHandler struct {
	opnameService service.OpnameService
}

func NewOpnameHandler(opnameService service.OpnameService) *OpnameHandler {
	return &OpnameHandler{opnameService: opnameService}
}

func (h *OpnameHandler) RegisterRoutes(router *gin.RouterGroup) {
	opnames := router.Group("/opnames", middleware.RequireRole(middleware.RoleWarehouse, middleware.RolePharmacist))
	{
		opnames.POST("/reconcile", h.Reconcile)
		opnames.POST("", h.Save)
		opnames.GET("/:id/export", h.Export)
	}
}

// Reconcile calculates a physical count against the system
// @Summary      Reconcile stock count
// @Tags         opnames
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.OpnameRequest  true  "Counted batches per product"
// @Success      200      {object}  response.Response{data=service.OpnameView}
// @Failure      404      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /api/opnames/reconcile [post]
func (h *OpnameHandler) Reconcile(c *gin.Context) {
	var req service.OpnameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	v, err := h.opnameService.Reconcile(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, v))
}

// Save stores a count and posts its differences
// @Summary      Save stock count
// @Tags         opnames
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.OpnameRequest  true  "Stock count"
// @Success      201      {object}  response.Response{data=service.OpnameResult}
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Failure      502      {object}  response.Response
// @Router       /api/opnames [post]
func (h *OpnameHandler) Save(c *gin.Context) {
	var req service.OpnameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.opnameService.Save(c.Request.Context(), req, middleware.Username(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, res))
}

// Export downloads a saved count as a spreadsheet
// @Summary      Export stock count
// @Tags         opnames
// @Security     BearerAuth
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        id   path  string  true  "Opname ID"
// @Success      200  {file}    file
// @Failure      404  {object}  response.Response
// @Router       /api/opnames/{id}/export [get]
func (h *OpnameHandler) Export(c *gin.Context) {
	exp, err := h.opnameService.Export(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": exp.Filename}))
	c.Data(http.StatusOK, exp.ContentType, exp.Data)
}
