package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer returns a server exposing customer registration, transaction
// submission and the read-only ledger and fraud alert views as tools.
func NewMCPServer(cfg Config, version string) *server.MCPServer {
	s := server.NewMCPServer("hispayment", version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	h := NewHandlers(NewPaymentClient(cfg))

	s.AddTool(ToolCreateCustomer, h.HandleCreateCustomer)
	s.AddTool(ToolGetCustomer, h.HandleGetCustomer)
	s.AddTool(ToolSubmitTransaction, h.HandleSubmitTransaction)
	s.AddTool(ToolListTransactions, h.HandleListTransactions)
	s.AddTool(ToolListFraudAlerts, h.HandleListFraudAlerts)

	return s
}
