package exercises

import (
	"time"

	"github.com/2beens/gymprogress/internal/progression"
)

// Exercise is one logged set.
type Exercise struct {
	ID          int               `json:"id"`
	ExerciseID  string            `json:"exerciseId"`
	MuscleGroup string            `json:"muscleGroup"`
	Kilos       float64           `json:"kilos"`
	Reps        int               `json:"reps"`
	RPE         *float64          `json:"rpe,omitempty"`
	Adherence   float64           `json:"adherence"`
	CreatedAt   time.Time         `json:"createdAt"`
	Metadata    map[string]string `json:"metadata"`
}

func (e Exercise) ToHistoryEntry() progression.HistoryEntry {
	return progression.HistoryEntry{
		Date:       e.CreatedAt,
		ExerciseID: e.ExerciseID,
		Weight:     e.Kilos,
		Reps:       e.Reps,
		RPE:        e.RPE,
		Adherence:  e.Adherence,
	}
}

// ToHistory maps stored sets to engine input, keeping their order.
func ToHistory(exercises []Exercise) []progression.HistoryEntry {
	history := make([]progression.HistoryEntry, 0, len(exercises))
	for _, e := range exercises {
		history = append(history, e.ToHistoryEntry())
	}
	return history
}
