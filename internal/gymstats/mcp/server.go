package mcp

import (
	"github.com/2beens/gymprogress/internal/gymstats/progress"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const ServerName = "gymprogress-context"

// NewServer builds an MCP server with the progression tools.
// Used by the main backend when mounting MCP at /mcp, and by cmd/gymstats_mcp over stdio.
func NewServer(pool *pgxpool.Pool, progressService *progress.Service) *mcp.Server {
	return newServer(NewContextService(NewPoolSchemaRepo(pool), progressService))
}

func newServer(svc contextService) *mcp.Server {
	h := NewHandler(svc)
	s := mcp.NewServer(&mcp.Implementation{
		Name:    ServerName,
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "compute_progression",
		Description: "Computes next-session targets (weight and reps) per exercise from the logged history. Args: rule (INTENSITY or VOLUME); optional: from_date, to_date (YYYY-MM-DD), muscle_group, exercise_id (comma separated), only_prod. INTENSITY raises the load by up to 5% scaled by average adherence, VOLUME raises reps by up to 2.",
	}, h.ComputeProgressionTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_progression_bounds",
		Description: "Returns the bounds the progression engine interpolates between: load increase (fraction) and rep increase at adherence 0 and 1.",
	}, h.GetProgressionBoundsTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_history_schema",
		Description: "Returns the DB schema of the training history table (exercise): columns, types, nullable, default. Use when you need to know what a logged set contains.",
	}, h.GetHistorySchemaTool())

	return s
}
