package mcpserver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/shopspring/decimal"

	"github.com/mbd888/hispayment/internal/customer"
)

// Handlers holds the handler functions for each MCP tool.
type Handlers struct {
	client *PaymentClient
	now    func() time.Time
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(client *PaymentClient) *Handlers {
	return &Handlers{client: client, now: time.Now}
}

// HandleCreateCustomer registers a customer.
func (h *Handlers) HandleCreateCustomer(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cr := customer.CreateRequest{
		FirstName:    req.GetString("first_name", ""),
		LastName:     req.GetString("last_name", ""),
		Email:        req.GetString("email", ""),
		PaymentToken: req.GetString("payment_token", ""),
	}

	id, err := h.client.CreateCustomer(ctx, cr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create customer: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Customer created.\nCustomer ID: %s", id)), nil
}

// HandleGetCustomer shows one customer and its block state.
func (h *Handlers) HandleGetCustomer(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("customer_id", "")
	if id == "" {
		return mcp.NewToolResultError("customer_id is required"), nil
	}

	c, err := h.client.GetCustomer(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get customer: %v", err)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Customer %s\n", c.ID)
	fmt.Fprintf(&sb, "  Name:  %s %s\n", c.FirstName, c.LastName)
	fmt.Fprintf(&sb, "  Email: %s\n", c.Email)
	if c.IsBlocked(h.now()) {
		fmt.Fprintf(&sb, "  Status: BLOCKED until %s\n", c.BlockedUntil.UTC().Format(time.RFC3339))
	} else {
		sb.WriteString("  Status: active\n")
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// HandleSubmitTransaction submits a payment and explains the decision.
func (h *Handlers) HandleSubmitTransaction(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("customer_id", "")
	currency := req.GetString("currency", "")
	if id == "" || currency == "" {
		return mcp.NewToolResultError("customer_id and currency are required"), nil
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(req.GetString("amount", "")))
	if err != nil || !amount.IsPositive() {
		return mcp.NewToolResultError("amount must be a positive decimal, e.g. '25.00'"), nil
	}

	txID, err := h.client.SubmitTransaction(ctx, id, amount.String(), currency)
	if err != nil {
		return mcp.NewToolResultError(describeRejection(err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"Transaction admitted.\nTransaction ID: %s\nAmount: %s %s", txID, amount.String(), currency)), nil
}

// HandleListTransactions lists a customer's ledger.
func (h *Handlers) HandleListTransactions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("customer_id", "")
	if id == "" {
		return mcp.NewToolResultError("customer_id is required"), nil
	}

	txs, err := h.client.ListTransactions(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list transactions: %v", err)), nil
	}
	if len(txs) == 0 {
		return mcp.NewToolResultText("No transactions recorded."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d transaction(s):\n\n", len(txs))
	for i, tx := range txs {
		fmt.Fprintf(&sb, "%d. %s  %s %s  %s  %s\n", i+1, tx.ID, tx.Amount.String(), tx.Currency,
			tx.Status, tx.CreatedAt.UTC().Format(time.RFC3339))
		if tx.ErrorMessage != "" {
			fmt.Fprintf(&sb, "   error: %s\n", tx.ErrorMessage)
		}
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// HandleListFraudAlerts lists alerts raised against a customer.
func (h *Handlers) HandleListFraudAlerts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("customer_id", "")
	if id == "" {
		return mcp.NewToolResultError("customer_id is required"), nil
	}

	alerts, err := h.client.ListFraudAlerts(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list fraud alerts: %v", err)), nil
	}
	if len(alerts) == 0 {
		return mcp.NewToolResultText("No fraud alerts."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d fraud alert(s):\n\n", len(alerts))
	for i, a := range alerts {
		fmt.Fprintf(&sb, "%d. %s  %d transactions in %s, blocked until %s\n", i+1, a.ID,
			a.TransactionCount, a.TimeWindow, a.BlockedUntil.UTC().Format(time.RFC3339))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// describeRejection turns an admission rejection into a sentence the model
// can act on.
func describeRejection(err error) string {
	apiErr, ok := asAPIError(err)
	if !ok {
		return fmt.Sprintf("Failed to submit transaction: %v", err)
	}

	switch apiErr.Code {
	case "account_blocked":
		return fmt.Sprintf("Rejected: account is blocked for another %d second(s) (until %s).",
			apiErr.RemainingSeconds, apiErr.BlockedUntil)
	case "duplicate_transaction":
		return "Rejected: an identical transaction was just submitted. Wait a few seconds before retrying."
	case "rate_limited":
		msg := fmt.Sprintf("Rejected: too many transactions. The account is blocked until %s.", apiErr.BlockedUntil)
		if apiErr.FraudAlertRecorded {
			msg += " A fraud alert was recorded."
		}
		return msg
	default:
		return fmt.Sprintf("Failed to submit transaction: %v", apiErr)
	}
}
