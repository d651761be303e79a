package progress

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/gymprogress/internal/gymstats/exercises"
	"github.com/2beens/gymprogress/internal/progression"
	"github.com/2beens/gymprogress/internal/telemetry/metrics"
	"github.com/2beens/gymprogress/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=progress_test

type historySource interface {
	History(ctx context.Context, params exercises.HistoryParams) ([]exercises.Exercise, error)
}

// Recommendation is the next-session plan derived from stored history.
type Recommendation struct {
	Rule        progression.Rule         `json:"rule"`
	Entries     int                      `json:"entries"`
	Adjustments []progression.Adjustment `json:"adjustments"`
}

// Service runs the progression engine over caller-supplied or stored history.
type Service struct {
	history        historySource
	engine         *progression.Engine
	metricsManager *metrics.Manager
}

func NewService(
	history historySource,
	engine *progression.Engine,
	metricsManager *metrics.Manager,
) *Service {
	return &Service{
		history:        history,
		engine:         engine,
		metricsManager: metricsManager,
	}
}

func (s *Service) Bounds() progression.Bounds {
	return s.engine.Bounds()
}

func (s *Service) Compute(
	ctx context.Context,
	history []progression.HistoryEntry,
	rule progression.Rule,
) (_ []progression.Adjustment, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "service.progression.compute")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("rule", rule.String()))
	span.SetAttributes(attribute.Int("history.entries", len(history)))

	start := time.Now()
	adjustments, err := s.engine.ComputeAdjustments(history, rule)
	s.metricsManager.HistogramComputeDuration.WithLabelValues(rule.String()).Observe(time.Since(start).Seconds())
	s.metricsManager.HistogramHistorySize.Observe(float64(len(history)))

	if err != nil {
		for _, vErr := range progression.ValidationErrors(err) {
			s.metricsManager.CounterProgressionValidation.WithLabelValues(vErr.Field).Inc()
		}
		return nil, err
	}

	s.metricsManager.CounterAdjustments.WithLabelValues(rule.String()).Add(float64(len(adjustments)))
	span.SetAttributes(attribute.Int("adjustments", len(adjustments)))
	log.Debugf("progression [%s]: %d entries -> %d adjustments", rule, len(history), len(adjustments))

	return adjustments, nil
}

// Recommend loads the matching history and computes adjustments from it.
// The rule is checked before any history is read.
func (s *Service) Recommend(
	ctx context.Context,
	params exercises.HistoryParams,
	rule progression.Rule,
) (_ *Recommendation, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.progression.recommend")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("rule", rule.String()))

	if !rule.IsValid() {
		return nil, progression.Validate(nil, rule)
	}

	stored, err := s.history.History(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	history := exercises.ToHistory(stored)
	adjustments, err := s.Compute(ctx, history, rule)
	if err != nil {
		var vErr *progression.ValidationError
		if errors.As(err, &vErr) {
			log.Errorf("stored history failed validation: %s", err)
		}
		return nil, err
	}

	return &Recommendation{
		Rule:        rule,
		Entries:     len(history),
		Adjustments: adjustments,
	}, nil
}
