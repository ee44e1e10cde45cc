package fraud

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mbd888/hispayment/internal/customer"
)

// CustomerLookup resolves customers so unknown ids map to 404.
type CustomerLookup interface {
	Get(ctx context.Context, id string) (*customer.Customer, error)
}

// Handler exposes read access to fraud alerts.
type Handler struct {
	store     Store
	customers CustomerLookup
}

// NewHandler creates a new fraud alert handler.
func NewHandler(store Store, customers CustomerLookup) *Handler {
	return &Handler{store: store, customers: customers}
}

// RegisterRoutes sets up fraud alert routes.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/customers/:id/fraud-alerts", h.ListAlerts)
}

// ListAlerts handles GET /customers/:id/fraud-alerts
func (h *Handler) ListAlerts(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.customers.Get(c.Request.Context(), id); err != nil {
		if errors.Is(err, customer.ErrCustomerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "customer_not_found", "message": "Customer not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Failed to get customer"})
		return
	}

	alerts, err := h.store.ListByCustomer(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Failed to list fraud alerts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"alerts": alerts, "count": len(alerts)})
}
