package exercises

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/gymprogress/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

type HistoryParams struct {
	ExerciseIDs        []string
	MuscleGroup        string
	From               *time.Time
	To                 *time.Time
	OnlyProd           bool
	ExcludeTestingData bool
}

// Repo reads logged sets. It never writes.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// History returns the sets matching params, oldest first.
func (r *Repo) History(ctx context.Context, params HistoryParams) (_ []Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.history")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise_ids", strings.Join(params.ExerciseIDs, ",")))
	span.SetAttributes(attribute.String("muscle_group", params.MuscleGroup))
	span.SetAttributes(attribute.Bool("only-prod", params.OnlyProd))
	span.SetAttributes(attribute.Bool("exclude-testing-data", params.ExcludeTestingData))
	if params.From != nil {
		span.SetAttributes(attribute.String("from", params.From.String()))
	}
	if params.To != nil {
		span.SetAttributes(attribute.String("to", params.To.String()))
	}

	exerciseIDs := params.ExerciseIDs
	if exerciseIDs == nil {
		exerciseIDs = []string{}
	}

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				e.id, e.exercise_id, e.muscle_group, e.kilos, e.reps, e.rpe, e.adherence, e.metadata, e.created_at
			FROM exercise e
				WHERE (cardinality($1::text[]) = 0 OR e.exercise_id = ANY($1::text[]))
				AND ($2::text = '' OR e.muscle_group = $2)
				AND ($3::timestamp IS NULL OR e.created_at >= $3)
				AND ($4::timestamp IS NULL OR e.created_at <= $4)
				AND ($5::boolean IS FALSE OR e.metadata->>'env' = 'prod' OR e.metadata->>'env' = 'production')
				AND ($6::boolean IS FALSE OR (
					COALESCE(e.metadata->>'testing', '') <> 'true' AND COALESCE(e.metadata->>'test', '') <> 'true'
				))
			ORDER BY e.created_at ASC, e.id ASC;`,
		exerciseIDs, params.MuscleGroup,
		params.From, params.To,
		params.OnlyProd, params.ExcludeTestingData,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	exercises, err := rows2exercises(rows)
	if err != nil {
		return nil, fmt.Errorf("rows2exercises: %w", err)
	}

	span.SetAttributes(attribute.Int("count", len(exercises)))
	return exercises, nil
}

func rows2exercises(rows pgx.Rows) ([]Exercise, error) {
	exercises := make([]Exercise, 0)
	for rows.Next() {
		var e Exercise
		var metadataBytes []byte
		if err := rows.Scan(
			&e.ID, &e.ExerciseID, &e.MuscleGroup,
			&e.Kilos, &e.Reps, &e.RPE, &e.Adherence,
			&metadataBytes, &e.CreatedAt,
		); err != nil {
			return nil, err
		}

		metadata, err := parseMetadata(metadataBytes)
		if err != nil {
			return nil, fmt.Errorf("exercise %d: %w", e.ID, err)
		}
		e.Metadata = metadata

		exercises = append(exercises, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return exercises, nil
}

// parseMetadata flattens the JSON metadata object into strings.
func parseMetadata(raw []byte) (map[string]string, error) {
	metadata := make(map[string]string)
	if len(raw) == 0 {
		return metadata, nil
	}

	var metadataMap map[string]any
	if err := json.Unmarshal(raw, &metadataMap); err != nil {
		return nil, fmt.Errorf("unmarshal metadata: %w", err)
	}
	for k, v := range metadataMap {
		if s, ok := v.(string); ok {
			metadata[k] = s
			continue
		}
		metadata[k] = fmt.Sprint(v)
	}

	return metadata, nil
}
