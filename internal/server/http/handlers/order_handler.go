package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hunabku/comanda/internal/domain/model"
	"github.com/hunabku/comanda/internal/lifecycle"
	"github.com/hunabku/comanda/internal/server/http/dto"
)

// OrderHandler manages the customer ordering surface.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Checkout handles POST /api/orders.
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	items := make([]model.CartItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, model.CartItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	order, err := h.facade.PlaceOrder(c.Request.Context(), req.Table, items, req.Notes)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToOrderResponse(*order))
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.facade.Order(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToOrderResponse(*order))
}

// Stream handles GET /api/orders/:id/stream. Frames are sent as SSE
// events; the feed ends with the terminal frame or when the client leaves.
func (h *OrderHandler) Stream(c *gin.Context) {
	locale := c.DefaultQuery("locale", lifecycle.DefaultLocale)

	tracker, err := h.facade.TrackOrder(c.Request.Context(), c.Param("id"), locale)
	if err != nil {
		writeError(c, err)
		return
	}
	defer tracker.Close()

	c.Stream(func(w io.Writer) bool {
		select {
		case update, ok := <-tracker.Updates():
			if !ok {
				return false
			}
			c.SSEvent("update", update)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
