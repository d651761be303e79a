package progression

import "math"

// Engine computes next-session targets from workout history.
// It keeps no state between calls and is safe for concurrent use.
type Engine struct {
	bounds Bounds
}

func NewEngine(bounds Bounds) (*Engine, error) {
	if err := bounds.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		bounds: bounds,
	}, nil
}

// MustNewEngine is like NewEngine but panics on invalid bounds.
func MustNewEngine(bounds Bounds) *Engine {
	e, err := NewEngine(bounds)
	if err != nil {
		panic(err)
	}
	return e
}

var defaultEngine = MustNewEngine(DefaultBounds())

// ComputeAdjustments runs the default-bounds engine.
func ComputeAdjustments(history []HistoryEntry, rule Rule) ([]Adjustment, error) {
	return defaultEngine.ComputeAdjustments(history, rule)
}

func (e *Engine) Bounds() Bounds {
	return e.bounds
}

// ComputeAdjustments groups the history by exercise (in first-seen order),
// averages each group and projects one Adjustment per exercise under the
// given rule. Input is validated as a whole before anything is computed;
// on any violation no adjustments are returned.
func (e *Engine) ComputeAdjustments(history []HistoryEntry, rule Rule) ([]Adjustment, error) {
	if err := Validate(history, rule); err != nil {
		return nil, err
	}

	groups := groupByExercise(history)

	adjustments := make([]Adjustment, 0, len(groups))
	for _, agg := range groups {
		adj, err := e.project(agg, rule)
		if err != nil {
			return nil, err
		}
		adjustments = append(adjustments, adj)
	}

	return adjustments, nil
}

func groupByExercise(history []HistoryEntry) []*aggregate {
	var groups []*aggregate
	byID := make(map[string]*aggregate)
	for _, entry := range history {
		agg, ok := byID[entry.ExerciseID]
		if !ok {
			agg = &aggregate{exerciseID: entry.ExerciseID}
			byID[entry.ExerciseID] = agg
			groups = append(groups, agg)
		}
		agg.add(entry)
	}
	return groups
}

func (e *Engine) project(agg *aggregate, rule Rule) (Adjustment, error) {
	n := float64(agg.sessions)
	avgWeight := agg.sumWeight / n
	avgReps := int(math.Round(float64(agg.sumReps) / n))
	avgAdherence := clamp(agg.sumAdherence/n, 0, 1)

	adj := Adjustment{
		ExerciseID: agg.exerciseID,
		Adherence:  avgAdherence,
	}

	switch rule {
	case RuleIntensity:
		adj.TargetWeight = roundTo2Decimals(avgWeight * (1 + e.bounds.intensityBump(avgAdherence)))
		adj.TargetReps = avgReps
	case RuleVolume:
		adj.TargetWeight = avgWeight
		adj.TargetReps = avgReps + e.bounds.repBump(avgAdherence)
	default:
		return Adjustment{}, invalidRuleError(string(rule))
	}

	return adj, nil
}

func roundTo2Decimals(v float64) float64 {
	return math.Round(v*100) / 100
}
