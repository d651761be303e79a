package progress

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"github.com/2beens/gymprogress/internal/gymstats/exercises"
	"github.com/2beens/gymprogress/internal/middleware"
	"github.com/2beens/gymprogress/internal/progression"
	"github.com/2beens/gymprogress/internal/telemetry/metrics"
	"github.com/2beens/gymprogress/internal/telemetry/tracing"
	"github.com/2beens/gymprogress/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=progress_test

const maxRequestBodyBytes = 4 << 20

type progressionService interface {
	Compute(ctx context.Context, history []progression.HistoryEntry, rule progression.Rule) ([]progression.Adjustment, error)
	Recommend(ctx context.Context, params exercises.HistoryParams, rule progression.Rule) (*Recommendation, error)
	Bounds() progression.Bounds
}

type ComputeRequest struct {
	Rule    string                     `json:"rule"`
	History []progression.HistoryEntry `json:"history"`
}

type ComputeResponse struct {
	Rule        progression.Rule         `json:"rule"`
	Adjustments []progression.Adjustment `json:"adjustments"`
}

type ErrorResponse struct {
	Error      string                         `json:"error"`
	Violations []*progression.ValidationError `json:"violations,omitempty"`
}

type Handler struct {
	service progressionService
}

func NewHandler(service progressionService) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) SetupRoutes(
	router *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	metricsManager *metrics.Manager,
	allowedPerMin int,
) {
	// registered before the rate limited subrouter, which would shadow it
	router.HandleFunc("/gymstats/progression/bounds", handler.HandleBounds).Methods("GET", "OPTIONS").Name("progression-bounds")

	computeRouter := router.PathPrefix("/gymstats/progression").Subrouter()
	computeRouter.HandleFunc("", handler.HandleCompute).Methods("POST", "OPTIONS").Name("compute-progression")
	computeRouter.HandleFunc("/rule/{rule}", handler.HandleRecommend).Methods("GET", "OPTIONS").Name("recommend-progression")
	computeRouter.Use(middleware.RateLimit(rateLimiter, metricsManager, "progression", allowedPerMin))
}

func (handler *Handler) HandleCompute(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymstats.progression.compute")
	defer span.End()

	if mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err != nil || mediaType != pkg.ContentType.JSON {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req ComputeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)).Decode(&req); err != nil {
		log.Tracef("compute progression, unmarshal json params: %s", err)
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			pkg.WriteJSON(w, ErrorResponse{
				Error: "invalid request body",
				Violations: []*progression.ValidationError{{
					Index:  -1,
					Field:  typeErr.Field,
					Value:  typeErr.Value,
					Reason: "must be of type " + typeErr.Type.String(),
				}},
			}, http.StatusBadRequest)
			return
		}
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	rule, err := progression.ParseRule(req.Rule)
	if err != nil {
		writeComputeError(w, err)
		return
	}

	adjustments, err := handler.service.Compute(ctx, req.History, rule)
	if err != nil {
		writeComputeError(w, err)
		return
	}

	pkg.WriteJSON(w, ComputeResponse{
		Rule:        rule,
		Adjustments: adjustments,
	}, http.StatusOK)
}

func (handler *Handler) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymstats.progression.recommend")
	defer span.End()

	rule, err := progression.ParseRule(mux.Vars(r)["rule"])
	if err != nil {
		writeComputeError(w, err)
		return
	}

	query := r.URL.Query()
	from, to, err := ParseDateRange(query.Get("from"), query.Get("to"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	params := exercises.HistoryParams{
		ExerciseIDs:        SplitExerciseIDs(query["exercise_id"]...),
		MuscleGroup:        query.Get("group"),
		From:               from,
		To:                 to,
		OnlyProd:           query.Get("only_prod") == "true",
		ExcludeTestingData: query.Get("exclude_testing_data") == "true",
	}

	recommendation, err := handler.service.Recommend(ctx, params, rule)
	if err != nil {
		writeComputeError(w, err)
		return
	}

	pkg.WriteJSON(w, recommendation, http.StatusOK)
}

func (handler *Handler) HandleBounds(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymstats.progression.bounds")
	defer span.End()

	pkg.WriteJSON(w, handler.service.Bounds(), http.StatusOK)
}

// writeComputeError maps validation failures to 400 with every violation
// listed; anything else is a 500.
func writeComputeError(w http.ResponseWriter, err error) {
	var vErr *progression.ValidationError
	if errors.As(err, &vErr) {
		pkg.WriteJSON(w, ErrorResponse{
			Error:      err.Error(),
			Violations: progression.ValidationErrors(err),
		}, http.StatusBadRequest)
		return
	}

	log.Errorf("progression: %s", err)
	http.Error(w, "failed to compute progression", http.StatusInternalServerError)
}
