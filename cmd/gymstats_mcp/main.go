// Package main runs the progression MCP server over stdio (for local editor/agent use).
// The same MCP server is also mounted on the main backend at /mcp over HTTP.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/2beens/gymprogress/internal/config"
	"github.com/2beens/gymprogress/internal/db"
	"github.com/2beens/gymprogress/internal/gymstats/exercises"
	gymstatsmcp "github.com/2beens/gymprogress/internal/gymstats/mcp"
	"github.com/2beens/gymprogress/internal/gymstats/progress"
	"github.com/2beens/gymprogress/internal/progression"
	"github.com/2beens/gymprogress/internal/telemetry/metrics"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development | ddev | dockerdev]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	bounds, err := cfg.ProgressionBounds()
	if err != nil {
		log.Fatalf("progression bounds: %v", err)
	}
	engine, err := progression.NewEngine(bounds)
	if err != nil {
		log.Fatalf("progression engine: %v", err)
	}

	ctx := context.Background()
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		DBPassword:     os.Getenv("GYMPROGRESS_DB_PASS"),
		TracingEnabled: false,
	})
	if err != nil {
		log.Fatalf("db pool: %v", err)
	}
	defer dbPool.Close()

	progressService := progress.NewService(
		exercises.NewRepo(dbPool),
		engine,
		metrics.NewManager("gymprogress", "mcp_stdio", nil),
	)
	server := gymstatsmcp.NewServer(dbPool, progressService)

	// stdout belongs to the MCP transport, std log writes to stderr
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Fatal(err)
	}
}
