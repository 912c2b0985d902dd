package handler

import (
	"net/http"

	"backoffice/internal/middleware"
	"backoffice/internal/service"
	"backoffice/pkg/pagination"
	"backoffice/pkg/response"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	productService service.ProductService
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

func (h *ProductHandler) RegisterRoutes(router *gin.RouterGroup) {
	products := router.Group("/products")
	{
		products.GET("", middleware.RequireRole(middleware.RolePharmacist, middleware.RoleWarehouse), h.SearchProducts)
		products.GET("/:id/stock", middleware.RequireRole(middleware.RolePharmacist, middleware.RoleWarehouse), h.GetStock)
	}
}

// SearchProducts handles the product picker
// @Summary      Search products
// @Description  Retrieves a paginated list of products matching name or SKU
// @Tags         products
// @Security     BearerAuth
// @Produce      json
// @Param        search  query     string  false  "Name or SKU fragment"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Success      200     {object}  response.Response{data=[]service.ProductResponse,meta=pagination.Meta}
// @Failure      500     {object}  response.Response
// @Router       /api/products [get]
func (h *ProductHandler) SearchProducts(c *gin.Context) {
	p := pagination.Parse(c)
	products, total, err := h.productService.Search(c.Request.Context(), c.Query("search"), p.Page, p.Limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, products, p.NewMeta(total)))
}

// GetStock returns the on-hand stock and the latest stock card lines
// @Summary      Get product stock
// @Tags         products
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  response.Response{data=service.StockResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/products/{id}/stock [get]
func (h *ProductHandler) GetStock(c *gin.Context) {
	res, err := h.productService.Stock(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}
