// Command mcp serves the HisPayment API as MCP tools over stdio. It talks to
// a running API server and never touches storage directly.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/mbd888/hispayment/internal/mcpserver"
)

// Version is set by ldflags.
var Version = "dev"

func main() {
	cfg := mcpserver.Config{
		APIURL: os.Getenv("HISPAYMENT_API_URL"),
	}
	if cfg.APIURL == "" {
		cfg.APIURL = "http://localhost:3001"
	}
	if v := os.Getenv("HISPAYMENT_API_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid HISPAYMENT_API_TIMEOUT %q: %v\n", v, err)
			os.Exit(2)
		}
		cfg.Timeout = d
	}

	// stdout carries the protocol; diagnostics go to stderr.
	s := mcpserver.NewMCPServer(cfg, Version)
	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "mcp server: %v\n", err)
		os.Exit(1)
	}
}
