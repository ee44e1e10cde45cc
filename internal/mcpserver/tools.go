package mcpserver

import "github.com/mark3labs/mcp-go/mcp"

// Tool definitions for the payment MCP server.
// Descriptions are what the LLM reads to decide which tool to use.

var ToolCreateCustomer = mcp.NewTool("create_customer",
	mcp.WithDescription(
		"Register a new customer who can submit transactions. "+
			"Returns the new customer ID."),
	mcp.WithString("first_name", mcp.Required(),
		mcp.Description("Customer first name (letters, spaces, hyphens; no symbols like $ # @)")),
	mcp.WithString("last_name", mcp.Required(),
		mcp.Description("Customer last name")),
	mcp.WithString("email", mcp.Required(),
		mcp.Description("Customer email address")),
	mcp.WithString("payment_token", mcp.Required(),
		mcp.Description("Opaque payment method token issued by the card vault")),
)

var ToolGetCustomer = mcp.NewTool("get_customer",
	mcp.WithDescription(
		"Look up a customer, including whether the account is currently blocked and until when."),
	mcp.WithString("customer_id", mcp.Required(),
		mcp.Description("The customer ID returned by create_customer")),
)

var ToolSubmitTransaction = mcp.NewTool("submit_transaction",
	mcp.WithDescription(
		"Submit a payment for admission. The request may be rejected because the account is "+
			"blocked, because an identical payment was submitted a few seconds ago, or because "+
			"the customer is transacting too quickly (which blocks the account and raises a fraud alert)."),
	mcp.WithString("customer_id", mcp.Required(),
		mcp.Description("The paying customer's ID")),
	mcp.WithString("amount", mcp.Required(),
		mcp.Description("Positive decimal amount, e.g. '25.00'")),
	mcp.WithString("currency", mcp.Required(),
		mcp.Description("Currency code, e.g. 'USD'")),
)

var ToolListTransactions = mcp.NewTool("list_transactions",
	mcp.WithDescription(
		"List a customer's recorded transactions, oldest first."),
	mcp.WithString("customer_id", mcp.Required(),
		mcp.Description("The customer ID")),
)

var ToolListFraudAlerts = mcp.NewTool("list_fraud_alerts",
	mcp.WithDescription(
		"List fraud alerts raised against a customer by the velocity detector."),
	mcp.WithString("customer_id", mcp.Required(),
		mcp.Description("The customer ID")),
)
