package progression

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// HistoryEntry is a single recorded set performance.
type HistoryEntry struct {
	Date       time.Time `json:"date"`
	ExerciseID string    `json:"exerciseId"`
	Weight     float64   `json:"weight"`
	Reps       int       `json:"reps"`
	// RPE is validated but not used by any rule yet.
	RPE       *float64 `json:"rpe,omitempty"`
	Adherence float64  `json:"adherence"`

	// set only when decoded from JSON, reported by Validate
	adherenceMissing bool
	typeErr          *json.UnmarshalTypeError
}

// UnmarshalJSON requires the adherence key. A value of the wrong JSON type
// does not fail the decode; it is kept on the entry so that Validate can
// report it together with the entry index.
func (e *HistoryEntry) UnmarshalJSON(data []byte) error {
	type plainEntry HistoryEntry
	var wire struct {
		plainEntry
		Adherence *float64 `json:"adherence"`
	}

	err := json.Unmarshal(data, &wire)
	var typeErr *json.UnmarshalTypeError
	if err != nil && !(errors.As(err, &typeErr) && typeErr.Field != "") {
		return err
	}

	*e = HistoryEntry(wire.plainEntry)
	e.typeErr = typeErr
	if wire.Adherence == nil {
		e.adherenceMissing = true
	} else {
		e.Adherence = *wire.Adherence
	}

	return nil
}

// Adjustment is the recommended next-session target for one exercise.
type Adjustment struct {
	ExerciseID   string  `json:"exerciseId"`
	TargetWeight float64 `json:"targetWeight"`
	TargetReps   int     `json:"targetReps"`
	// Adherence is the average adherence the adjustment was derived from.
	Adherence float64 `json:"adherence"`
}

// Rule can be one of:
//   - INTENSITY (push load, keep reps)
//   - VOLUME (push reps, keep load)
type Rule string

const (
	RuleIntensity Rule = "INTENSITY"
	RuleVolume    Rule = "VOLUME"
)

func (r Rule) String() string {
	return string(r)
}

func (r Rule) IsValid() bool {
	switch r {
	case RuleIntensity, RuleVolume:
		return true
	default:
		return false
	}
}

// ParseRule accepts the rule name in any letter case.
func ParseRule(s string) (Rule, error) {
	r := Rule(strings.ToUpper(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", invalidRuleError(s)
	}
	return r, nil
}

// aggregate is the per-exercise accumulator, alive for a single computation.
type aggregate struct {
	exerciseID   string
	sumWeight    float64
	sumReps      int
	sumAdherence float64
	sessions     int
}

func (a *aggregate) add(e HistoryEntry) {
	a.sumWeight += e.Weight
	a.sumReps += e.Reps
	a.sumAdherence += e.Adherence
	a.sessions++
}
