package ledger

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

// Handler provides HTTP endpoints for transaction history.
type Handler struct {
	ledger    *Ledger
	customers CustomerLookup
}

// NewHandler creates a new ledger handler.
func NewHandler(ledger *Ledger, customers CustomerLookup) *Handler {
	return &Handler{ledger: ledger, customers: customers}
}

// RegisterRoutes sets up ledger routes.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/customers/:id/transactions", h.GetHistory)
}

// GetHistory handles GET /customers/:id/transactions
func (h *Handler) GetHistory(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.customers.Get(c.Request.Context(), id); err != nil {
		if errors.Is(err, customer.ErrCustomerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "customer_not_found", "message": "Customer not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Failed to get customer"})
		return
	}

	txs, err := h.ledger.History(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "ledger_error",
			"message": "Failed to retrieve transaction history",
		})
		return
	}

	c.JSON(http.StatusOK, txs)
}
