package admission

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mbd888/hispayment/internal/customer"
	"github.com/shopspring/decimal"
)

// SubmitRequest is the POST /transactions body. amount accepts a JSON
// number or a decimal string.
type SubmitRequest struct {
	CustomerID string          `json:"customerId"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
}

// Handler provides the transaction submission endpoint.
type Handler struct {
	pipeline *Pipeline
}

// NewHandler creates a new admission handler.
func NewHandler(pipeline *Pipeline) *Handler {
	return &Handler{pipeline: pipeline}
}

// RegisterRoutes sets up admission routes.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/transactions", h.SubmitTransaction)
}

// SubmitTransaction handles POST /transactions
func (h *Handler) SubmitTransaction(c *gin.Context) {
	var body SubmitRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid request body",
		})
		return
	}
	if body.CustomerID == "" || body.Currency == "" || body.Amount.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "missing_fields",
			"message": "Missing required fields",
		})
		return
	}

	decision, err := h.pipeline.Admit(c.Request.Context(), Request{
		CustomerID: body.CustomerID,
		Amount:     body.Amount,
		Currency:   body.Currency,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidRequest):
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": err.Error()})
		case errors.Is(err, customer.ErrCustomerNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "customer_not_found", "message": "Customer not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Failed to process transaction"})
		}
		return
	}

	switch decision.Outcome {
	case OutcomeAdmitted:
		c.JSON(http.StatusCreated, gin.H{"transactionId": decision.Transaction.ID})
	case OutcomeBlocked:
		c.JSON(http.StatusForbidden, gin.H{
			"error":            "account_blocked",
			"message":          decision.Blocked.Error(),
			"remainingSeconds": decision.Blocked.RemainingSeconds,
			"blockedUntil":     decision.Blocked.BlockedUntil.UTC().Format(time.RFC3339),
		})
	case OutcomeDuplicateRejected:
		c.JSON(http.StatusConflict, gin.H{
			"error":   "duplicate_transaction",
			"message": "Duplicate transaction detected, please wait before retrying",
		})
	case OutcomeRateLimited:
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":              "rate_limited",
			"message":            decision.RateLimited.Error(),
			"blockedUntil":       decision.RateLimited.BlockedUntil.UTC().Format(time.RFC3339),
			"fraudAlertRecorded": decision.RateLimited.AlertRecorded,
		})
	}
}
