package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/2beens/gymprogress/internal/gymstats/exercises"
	"github.com/2beens/gymprogress/internal/gymstats/progress"
	"github.com/2beens/gymprogress/internal/progression"
)

// progressionService is the part of progress.Service the MCP tools use.
type progressionService interface {
	Recommend(ctx context.Context, params exercises.HistoryParams, rule progression.Rule) (*progress.Recommendation, error)
	Bounds() progression.Bounds
}

// contextService provides the data behind the MCP tools. Used by Handler for testability.
type contextService interface {
	GetSchema(ctx context.Context) (string, error)
	Recommend(ctx context.Context, params exercises.HistoryParams, rule progression.Rule) (*progress.Recommendation, error)
	Bounds() progression.Bounds
}

type ContextService struct {
	schema      SchemaRepo
	progression progressionService
}

func NewContextService(schemaRepo SchemaRepo, progressionService progressionService) *ContextService {
	return &ContextService{
		schema:      schemaRepo,
		progression: progressionService,
	}
}

// GetSchema returns the history table schema as markdown.
func (s *ContextService) GetSchema(ctx context.Context) (string, error) {
	cols, err := s.schema.GetHistoryColumns(ctx)
	if err != nil {
		return "", err
	}
	return formatHistorySchema(cols), nil
}

func (s *ContextService) Recommend(ctx context.Context, params exercises.HistoryParams, rule progression.Rule) (*progress.Recommendation, error) {
	return s.progression.Recommend(ctx, params, rule)
}

func (s *ContextService) Bounds() progression.Bounds {
	return s.progression.Bounds()
}

func formatHistorySchema(cols []SchemaColumn) string {
	if len(cols) == 0 {
		return "# Training History Schema\n\nNo history tables found in the database.\n"
	}

	var b strings.Builder
	b.WriteString("# Training History Schema\n\n")
	b.WriteString("One row per logged set. Progression reads kilos, reps, rpe and adherence.\n")

	currentTable := ""
	for _, c := range cols {
		if c.TableName != currentTable {
			currentTable = c.TableName
			b.WriteString("\n## ")
			b.WriteString(currentTable)
			b.WriteString("\n\n| Column | Type | Nullable | Default |\n|--------|------|----------|---------|\n")
		}
		def := "-"
		if c.ColumnDef != nil && *c.ColumnDef != "" {
			def = *c.ColumnDef
		}
		b.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n", c.ColumnName, c.DataType, c.IsNullable, def))
	}

	return b.String()
}
