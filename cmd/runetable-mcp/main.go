package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"runetable/internal/catalog"
	"runetable/internal/config"
	"runetable/internal/deck"
	"runetable/internal/docstore"
	rtmcp "runetable/internal/mcp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	decks, err := deck.NewStore(cfg.SQLitePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer decks.Close()

	// The MCP process must share the store with the web process, so a
	// redis URL is required here; an in-memory store would see nothing.
	if cfg.RedisURL == "" {
		fmt.Fprintln(os.Stderr, "Error: RUNETABLE_REDIS_URL is required for the MCP server")
		os.Exit(1)
	}
	store, err := docstore.DialRedis(context.Background(), cfg.RedisURL, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	rtmcp.Configure(store, cat, decks, cfg.RNGSeed)

	s := server.NewMCPServer("runetable", "1.0.0")
	rtmcp.RegisterTools(s)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
