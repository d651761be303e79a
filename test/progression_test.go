package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/2beens/gymprogress/internal/gymstats/exercises"
	"github.com/2beens/gymprogress/internal/gymstats/progress"
	"github.com/2beens/gymprogress/internal/health"
	"github.com/2beens/gymprogress/internal/progression"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seedSet struct {
	exerciseID  string
	muscleGroup string
	kilos       float64
	reps        int
	rpe         *float64
	adherence   float64
	metadata    string
	createdAt   time.Time
}

func day(d int) time.Time {
	return time.Date(2026, 3, d, 18, 0, 0, 0, time.UTC)
}

func rpe(v float64) *float64 {
	return &v
}

var seedSets = []seedSet{
	{"bench_press", "chest", 100, 8, nil, 1.0, `{"env": "prod"}`, day(2)},
	{"squat", "legs", 140, 5, nil, 0.5, `{"env": "prod"}`, day(3)},
	{"bench_press", "chest", 100, 8, rpe(8), 0.8, `{"env": "prod"}`, day(4)},
	{"squat", "legs", 200, 1, nil, 1.0, `{"env": "prod", "testing": "true"}`, day(5)},
	{"row", "back", 60, 10, nil, 0.9, `{"env": "dev"}`, day(1)},
}

func (s *IntegrationTestSuite) deleteAllExercises() {
	_, err := s.DB.Exec("DELETE FROM exercise")
	require.NoError(s.T(), err)
}

func (s *IntegrationTestSuite) seedExercises() {
	s.deleteAllExercises()
	for _, set := range seedSets {
		_, err := s.DB.Exec(
			`INSERT INTO exercise (exercise_id, muscle_group, kilos, reps, rpe, adherence, metadata, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			set.exerciseID, set.muscleGroup, set.kilos, set.reps, set.rpe, set.adherence, set.metadata, set.createdAt,
		)
		require.NoError(s.T(), err)
	}
}

func (s *IntegrationTestSuite) doRequest(ctx context.Context, method, path string, body []byte) (int, []byte) {
	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, bytes.NewReader(body))
	require.NoError(s.T(), err)
	req.Header.Set("User-Agent", "test-agent")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)
	return resp.StatusCode, respBytes
}

func (s *IntegrationTestSuite) TestRepoHistory() {
	ctx := context.Background()
	s.seedExercises()
	defer s.deleteAllExercises()

	repo := exercises.NewRepo(s.dbPool)

	all, err := repo.History(ctx, exercises.HistoryParams{})
	require.NoError(s.T(), err)
	require.Len(s.T(), all, 5)
	for i := 1; i < len(all); i++ {
		assert.False(s.T(), all[i].CreatedAt.Before(all[i-1].CreatedAt), "history must be oldest first")
	}
	assert.Equal(s.T(), "row", all[0].ExerciseID)

	bench, err := repo.History(ctx, exercises.HistoryParams{ExerciseIDs: []string{"bench_press"}})
	require.NoError(s.T(), err)
	require.Len(s.T(), bench, 2)
	assert.Nil(s.T(), bench[0].RPE)
	require.NotNil(s.T(), bench[1].RPE)
	assert.Equal(s.T(), 8.0, *bench[1].RPE)
	assert.Equal(s.T(), 0.8, bench[1].Adherence)
	assert.Equal(s.T(), "prod", bench[1].Metadata["env"])

	legs, err := repo.History(ctx, exercises.HistoryParams{MuscleGroup: "legs", ExcludeTestingData: true})
	require.NoError(s.T(), err)
	require.Len(s.T(), legs, 1)
	assert.Equal(s.T(), 140.0, legs[0].Kilos)

	prod, err := repo.History(ctx, exercises.HistoryParams{OnlyProd: true})
	require.NoError(s.T(), err)
	assert.Len(s.T(), prod, 4)

	from, to, err := progress.ParseDateRange("2026-03-01", "2026-03-03")
	require.NoError(s.T(), err)
	ranged, err := repo.History(ctx, exercises.HistoryParams{From: from, To: to})
	require.NoError(s.T(), err)
	require.Len(s.T(), ranged, 2)
	assert.Equal(s.T(), "bench_press", ranged[0].ExerciseID)
	assert.Equal(s.T(), "squat", ranged[1].ExerciseID)
}

func (s *IntegrationTestSuite) TestRecommendFromStoredHistory() {
	ctx := context.Background()
	s.seedExercises()
	defer s.deleteAllExercises()

	status, body := s.doRequest(ctx, http.MethodGet,
		"/gymstats/progression/rule/intensity?exercise_id=bench_press,squat&only_prod=true&exclude_testing_data=true", nil)
	require.Equal(s.T(), http.StatusOK, status, string(body))

	var recommendation progress.Recommendation
	require.NoError(s.T(), json.Unmarshal(body, &recommendation))
	assert.Equal(s.T(), progression.RuleIntensity, recommendation.Rule)
	assert.Equal(s.T(), 3, recommendation.Entries)
	require.Len(s.T(), recommendation.Adjustments, 2)

	bench := recommendation.Adjustments[0]
	assert.Equal(s.T(), "bench_press", bench.ExerciseID)
	assert.Equal(s.T(), 104.5, bench.TargetWeight)
	assert.Equal(s.T(), 8, bench.TargetReps)
	assert.InDelta(s.T(), 0.9, bench.Adherence, 1e-9)

	squat := recommendation.Adjustments[1]
	assert.Equal(s.T(), "squat", squat.ExerciseID)
	assert.Equal(s.T(), 143.5, squat.TargetWeight)
	assert.Equal(s.T(), 5, squat.TargetReps)

	status, body = s.doRequest(ctx, http.MethodGet, "/gymstats/progression/rule/volume?group=back", nil)
	require.Equal(s.T(), http.StatusOK, status, string(body))
	require.NoError(s.T(), json.Unmarshal(body, &recommendation))
	require.Len(s.T(), recommendation.Adjustments, 1)
	assert.Equal(s.T(), 12, recommendation.Adjustments[0].TargetReps)
	assert.Equal(s.T(), 60.0, recommendation.Adjustments[0].TargetWeight)

	status, _ = s.doRequest(ctx, http.MethodGet, "/gymstats/progression/rule/strength", nil)
	assert.Equal(s.T(), http.StatusBadRequest, status)
}

func (s *IntegrationTestSuite) TestComputeEndpoint() {
	ctx := context.Background()

	reqBody, err := json.Marshal(progress.ComputeRequest{
		Rule: "VOLUME",
		History: []progression.HistoryEntry{
			{Date: day(1), ExerciseID: "ohp", Weight: 50, Reps: 6, Adherence: 0.5},
			{Date: day(8), ExerciseID: "ohp", Weight: 52.5, Reps: 6, Adherence: 0.5},
		},
	})
	require.NoError(s.T(), err)

	status, body := s.doRequest(ctx, http.MethodPost, "/gymstats/progression", reqBody)
	require.Equal(s.T(), http.StatusOK, status, string(body))

	var resp progress.ComputeResponse
	require.NoError(s.T(), json.Unmarshal(body, &resp))
	require.Len(s.T(), resp.Adjustments, 1)
	assert.Equal(s.T(), progression.Adjustment{
		ExerciseID:   "ohp",
		TargetWeight: 51.25,
		TargetReps:   7,
		Adherence:    0.5,
	}, resp.Adjustments[0])

	invalid, err := json.Marshal(progress.ComputeRequest{
		Rule: "VOLUME",
		History: []progression.HistoryEntry{
			{ExerciseID: "ohp", Weight: 50, Reps: 0, Adherence: 2},
		},
	})
	require.NoError(s.T(), err)

	status, body = s.doRequest(ctx, http.MethodPost, "/gymstats/progression", invalid)
	require.Equal(s.T(), http.StatusBadRequest, status, string(body))

	var errResp progress.ErrorResponse
	require.NoError(s.T(), json.Unmarshal(body, &errResp))
	require.Len(s.T(), errResp.Violations, 2)
	assert.Equal(s.T(), "reps", errResp.Violations[0].Field)
	assert.Equal(s.T(), "adherence", errResp.Violations[1].Field)
}

func (s *IntegrationTestSuite) TestHealth() {
	status, body := s.doRequest(context.Background(), http.MethodGet, "/health", nil)
	require.Equal(s.T(), http.StatusOK, status)

	var report health.Report
	require.NoError(s.T(), json.Unmarshal(body, &report))
	assert.Equal(s.T(), health.Report{Status: health.StatusOK, Postgres: health.StatusOK, Redis: health.StatusOK}, report)
}

func (s *IntegrationTestSuite) TestMCPTools() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.seedExercises()
	defer s.deleteAllExercises()

	client := mcp.NewClient(&mcp.Implementation{Name: "integration-test", Version: "0.0.1"}, nil)
	session, err := client.Connect(ctx, &mcp.StreamableClientTransport{
		Endpoint: fmt.Sprintf("%s/mcp", serverEndpoint),
	}, nil)
	require.NoError(s.T(), err)
	defer session.Close()

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name: "compute_progression",
		Arguments: map[string]any{
			"rule":        "INTENSITY",
			"exercise_id": "bench_press",
		},
	})
	require.NoError(s.T(), err)
	require.False(s.T(), res.IsError)
	require.Len(s.T(), res.Content, 1)

	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(s.T(), ok)
	var recommendation progress.Recommendation
	require.NoError(s.T(), json.Unmarshal([]byte(text.Text), &recommendation))
	require.Len(s.T(), recommendation.Adjustments, 1)
	assert.Equal(s.T(), 104.5, recommendation.Adjustments[0].TargetWeight)

	res, err = session.CallTool(ctx, &mcp.CallToolParams{Name: "get_progression_bounds"})
	require.NoError(s.T(), err)
	require.False(s.T(), res.IsError)
}
