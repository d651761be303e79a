package progression

import (
	"fmt"
	"math"

	"go.uber.org/multierr"
)

const (
	MinRPE = 5.0
	MaxRPE = 10.0

	// MaxWeight (kg) and MaxReps cap a single entry, which keeps the
	// per-exercise sums finite and free of integer overflow.
	MaxWeight = 1000.0
	MaxReps   = 1000
)

// ValidationError describes one violated input constraint.
// Index is the offending history entry, or -1 when the rule itself is invalid.
type ValidationError struct {
	Index      int    `json:"index"`
	ExerciseID string `json:"exerciseId,omitempty"`
	Field      string `json:"field"`
	Value      any    `json:"value"`
	Reason     string `json:"reason"`
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("invalid %s [%v]: %s", e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf(
		"history[%d] (exercise %q): invalid %s [%v]: %s",
		e.Index, e.ExerciseID, e.Field, e.Value, e.Reason,
	)
}

func invalidRuleError(value string) *ValidationError {
	return &ValidationError{
		Index:  -1,
		Field:  "rule",
		Value:  value,
		Reason: fmt.Sprintf("must be one of %s, %s", RuleIntensity, RuleVolume),
	}
}

// ValidationErrors unpacks every *ValidationError contained in err.
func ValidationErrors(err error) []*ValidationError {
	var vErrs []*ValidationError
	for _, e := range multierr.Errors(err) {
		if vErr, ok := e.(*ValidationError); ok {
			vErrs = append(vErrs, vErr)
		}
	}
	return vErrs
}

// Validate checks the whole input up front. All violations are collected
// and combined, so a single call reports every bad field.
func Validate(history []HistoryEntry, rule Rule) error {
	var err error
	if !rule.IsValid() {
		err = multierr.Append(err, invalidRuleError(string(rule)))
	}
	for i, entry := range history {
		err = multierr.Append(err, validateEntry(i, entry))
	}
	return err
}

func validateEntry(i int, e HistoryEntry) error {
	var err error
	fail := func(field string, value any, reason string) {
		err = multierr.Append(err, &ValidationError{
			Index:      i,
			ExerciseID: e.ExerciseID,
			Field:      field,
			Value:      value,
			Reason:     reason,
		})
	}

	// a JSON value of the wrong type replaces the range checks of its field
	mistyped := func(field string) bool {
		if e.typeErr == nil || e.typeErr.Field != field {
			return false
		}
		fail(field, e.typeErr.Value, "must be of type "+e.typeErr.Type.String())
		return true
	}

	switch {
	case mistyped("exerciseId"):
	case e.ExerciseID == "":
		fail("exerciseId", e.ExerciseID, "must not be empty")
	}
	switch {
	case mistyped("weight"):
	case math.IsNaN(e.Weight) || math.IsInf(e.Weight, 0):
		fail("weight", e.Weight, "must be a finite number")
	case e.Weight < 0:
		fail("weight", e.Weight, "must be >= 0")
	case e.Weight > MaxWeight:
		fail("weight", e.Weight, fmt.Sprintf("must be <= %v", MaxWeight))
	}
	switch {
	case mistyped("reps"):
	case e.Reps < 1:
		fail("reps", e.Reps, "must be >= 1")
	case e.Reps > MaxReps:
		fail("reps", e.Reps, fmt.Sprintf("must be <= %d", MaxReps))
	}
	switch {
	case mistyped("rpe"):
	case e.RPE != nil && !(*e.RPE >= MinRPE && *e.RPE <= MaxRPE):
		fail("rpe", *e.RPE, fmt.Sprintf("must be within [%v, %v]", MinRPE, MaxRPE))
	}
	switch {
	case mistyped("adherence"):
	case e.adherenceMissing:
		fail("adherence", nil, "is required")
	// written negated so NaN fails too
	case !(e.Adherence >= 0 && e.Adherence <= 1):
		fail("adherence", e.Adherence, "must be within [0, 1]")
	}

	return err
}
