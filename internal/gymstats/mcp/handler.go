package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/2beens/gymprogress/internal/gymstats/exercises"
	"github.com/2beens/gymprogress/internal/gymstats/progress"
	"github.com/2beens/gymprogress/internal/progression"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Handler handles MCP tool requests and responses: parses input, calls the service, formats MCP result.
type Handler struct {
	service contextService
}

func NewHandler(service contextService) *Handler {
	return &Handler{
		service: service,
	}
}

// ComputeProgressionInput is the input for compute_progression.
type ComputeProgressionInput struct {
	Rule        string `json:"rule" jsonschema:"Progression rule: INTENSITY (raise load) or VOLUME (raise reps)"`
	FromDate    string `json:"from_date,omitempty" jsonschema:"Start date (YYYY-MM-DD), optional"`
	ToDate      string `json:"to_date,omitempty" jsonschema:"End date (YYYY-MM-DD, inclusive), optional"`
	MuscleGroup string `json:"muscle_group,omitempty" jsonschema:"Filter by muscle group (e.g. chest, legs)"`
	ExerciseID  string `json:"exercise_id,omitempty" jsonschema:"Filter by exercise id, comma separated for several (e.g. bench_press,squat)"`
	OnlyProd    bool   `json:"only_prod,omitempty" jsonschema:"Only use sets logged in production"`
}

func (h *Handler) ComputeProgressionTool() func(context.Context, *mcp.CallToolRequest, ComputeProgressionInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in ComputeProgressionInput) (*mcp.CallToolResult, any, error) {
		rule, err := progression.ParseRule(in.Rule)
		if err != nil {
			return errorResult(err.Error()), nil, nil
		}

		from, to, err := progress.ParseDateRange(in.FromDate, in.ToDate)
		if err != nil {
			return errorResult(err.Error()), nil, nil
		}

		recommendation, err := h.service.Recommend(ctx, exercises.HistoryParams{
			ExerciseIDs:        progress.SplitExerciseIDs(in.ExerciseID),
			MuscleGroup:        in.MuscleGroup,
			From:               from,
			To:                 to,
			OnlyProd:           in.OnlyProd,
			ExcludeTestingData: true,
		}, rule)
		if err != nil {
			var vErr *progression.ValidationError
			if errors.As(err, &vErr) {
				return errorResult(formatViolations(err)), nil, nil
			}
			return errorResult("Error computing progression: " + err.Error()), nil, nil
		}

		return jsonResult(recommendation), nil, nil
	}
}

func (h *Handler) GetProgressionBoundsTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		return jsonResult(h.service.Bounds()), nil, nil
	}
}

func (h *Handler) GetHistorySchemaTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		text, err := h.service.GetSchema(ctx)
		if err != nil {
			return errorResult("Error fetching schema: " + err.Error()), nil, nil
		}
		return textResult(text), nil, nil
	}
}

func formatViolations(err error) string {
	var b strings.Builder
	b.WriteString("Invalid progression input:\n")
	for _, vErr := range progression.ValidationErrors(err) {
		b.WriteString("- ")
		b.WriteString(vErr.Error())
		b.WriteString("\n")
	}
	return b.String()
}

func jsonResult(v any) *mcp.CallToolResult {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Error encoding response: " + err.Error())
	}
	return textResult(string(raw))
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}
