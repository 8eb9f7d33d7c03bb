package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hunabku/comanda/internal/domain/model"
	"github.com/hunabku/comanda/internal/server/http/dto"
)

// PanelHandler manages the staff surface: the queue, transitions, tables
// and dashboard stats.
type PanelHandler struct {
	facade PanelFacade
	logger *slog.Logger
}

// NewPanelHandler constructs PanelHandler.
func NewPanelHandler(facade PanelFacade, logger *slog.Logger) *PanelHandler {
	return &PanelHandler{facade: facade, logger: logger}
}

// Orders handles GET /api/panel/orders with an optional ?status= filter.
func (h *PanelHandler) Orders(c *gin.Context) {
	orders, err := h.facade.ActiveOrders(c.Request.Context(), model.OrderStatus(c.Query("status")))
	if err != nil {
		writeError(c, err)
		return
	}

	response := make([]dto.OrderResponse, 0, len(orders))
	for _, order := range orders {
		response = append(response, dto.ToOrderResponse(order))
	}
	c.JSON(http.StatusOK, response)
}

// Transition handles POST /api/panel/orders/:id/status.
func (h *PanelHandler) Transition(c *gin.Context) {
	var req dto.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	orderID := c.Param("id")
	if err := h.facade.RequestTransition(c.Request.Context(), orderID, model.OrderStatus(req.Status)); err != nil {
		writeError(c, err)
		return
	}
	h.logger.Info("order status changed",
		slog.String("order", orderID),
		slog.String("status", req.Status),
		slog.Int64("staff", CurrentStaffID(c)),
	)
	c.Status(http.StatusOK)
}

// Stream handles GET /api/panel/orders/stream. Every queue change is sent
// as a full rebuilt snapshot.
func (h *PanelHandler) Stream(c *gin.Context) {
	queue, err := h.facade.WatchQueue(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	defer queue.Close()

	c.Stream(func(w io.Writer) bool {
		select {
		case snapshot, ok := <-queue.Snapshots():
			if !ok {
				return false
			}
			response := make([]dto.OrderResponse, 0, len(snapshot))
			for _, order := range snapshot {
				response = append(response, dto.ToOrderResponse(order))
			}
			c.SSEvent("queue", response)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// Tables handles GET /api/panel/tables.
func (h *PanelHandler) Tables(c *gin.Context) {
	tables, err := h.facade.Tables(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	response := make([]dto.TableResponse, 0, len(tables))
	for _, table := range tables {
		response = append(response, dto.TableResponse{
			Number:   table.Number,
			Occupied: table.Occupied,
			OrderID:  table.OrderID,
		})
	}
	c.JSON(http.StatusOK, response)
}

// Stats handles GET /api/panel/stats.
func (h *PanelHandler) Stats(c *gin.Context) {
	stats, err := h.facade.Stats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.StatsResponse{
		ActiveOrders:   stats.ActiveOrders,
		PendingOrders:  stats.PendingOrders,
		TodayOrders:    stats.TodayOrders,
		TodaySales:     stats.TodaySales,
		OccupiedTables: stats.OccupiedTables,
		TableCount:     stats.TableCount,
	})
}
