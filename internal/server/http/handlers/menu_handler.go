package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hunabku/comanda/internal/domain/model"
	"github.com/hunabku/comanda/internal/server/http/dto"
)

// MenuHandler serves the catalog to customers and its CRUD to staff.
type MenuHandler struct {
	facade MenuFacade
}

// NewMenuHandler constructs MenuHandler.
func NewMenuHandler(facade MenuFacade) *MenuHandler {
	return &MenuHandler{facade: facade}
}

// Customer handles GET /api/menu.
func (h *MenuHandler) Customer(c *gin.Context) {
	products, err := h.facade.CustomerMenu(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponses(products))
}

// List handles GET /api/panel/products.
func (h *MenuHandler) List(c *gin.Context) {
	products, err := h.facade.Products(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponses(products))
}

// Create handles POST /api/panel/products.
func (h *MenuHandler) Create(c *gin.Context) {
	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	product, err := h.facade.CreateProduct(c.Request.Context(), req.ToProduct())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToProductResponse(*product))
}

// Update handles PUT /api/panel/products/:id.
func (h *MenuHandler) Update(c *gin.Context) {
	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	req.ID = c.Param("id")

	product, err := h.facade.UpdateProduct(c.Request.Context(), req.ToProduct())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToProductResponse(*product))
}

// Delete handles DELETE /api/panel/products/:id.
func (h *MenuHandler) Delete(c *gin.Context) {
	if err := h.facade.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func toProductResponses(products []model.Product) []dto.ProductResponse {
	response := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		response = append(response, dto.ToProductResponse(p))
	}
	return response
}
