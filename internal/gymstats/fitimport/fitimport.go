// Package fitimport turns strength sets recorded in FIT activity files
// into progression history.
package fitimport

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/2beens/gymprogress/internal/progression"

	"github.com/muktihari/fit/decoder"
	"github.com/muktihari/fit/profile/basetype"
	"github.com/muktihari/fit/profile/mesgdef"
	"github.com/muktihari/fit/profile/typedef"
	"github.com/muktihari/fit/proto"
	log "github.com/sirupsen/logrus"
)

var ErrInvalidAdherence = errors.New("adherence must be within [0, 1]")

// Options control how FIT sets are mapped to history entries.
// FIT files carry no planned work, so adherence comes from the caller.
type Options struct {
	Adherence float64
}

func DefaultOptions() Options {
	return Options{
		Adherence: 1.0,
	}
}

type Importer struct {
	opts Options
}

func NewImporter(opts Options) (*Importer, error) {
	if !(opts.Adherence >= 0 && opts.Adherence <= 1) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidAdherence, opts.Adherence)
	}
	return &Importer{
		opts: opts,
	}, nil
}

// Decode reads every FIT sequence in r and returns one entry per active
// strength set, in file order.
func (i *Importer) Decode(r io.Reader) ([]progression.HistoryEntry, error) {
	dec := decoder.New(bufio.NewReader(r))

	history := make([]progression.HistoryEntry, 0)
	for {
		fit, err := dec.Decode()
		if err != nil {
			return nil, fmt.Errorf("decode fit: %w", err)
		}
		history = append(history, i.entriesFrom(fit)...)

		// chained FIT files
		if !dec.Next() {
			return history, nil
		}
	}
}

func (i *Importer) DecodeFile(path string) (_ []progression.HistoryEntry, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	history, err := i.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return history, nil
}

func (i *Importer) entriesFrom(fit *proto.FIT) []progression.HistoryEntry {
	var entries []progression.HistoryEntry
	skipped := 0
	for idx := range fit.Messages {
		msg := &fit.Messages[idx]
		if msg.Num != typedef.MesgNumSet {
			continue
		}

		entry, ok := i.entryFromSet(mesgdef.NewSet(msg))
		if !ok {
			skipped++
			continue
		}
		entries = append(entries, entry)
	}

	if skipped > 0 {
		log.Debugf("fit import: skipped %d non-strength sets", skipped)
	}

	return entries
}

func (i *Importer) entryFromSet(set *mesgdef.Set) (progression.HistoryEntry, bool) {
	if set.SetType != typedef.SetTypeActive {
		return progression.HistoryEntry{}, false
	}
	if set.Repetitions == 0 || set.Repetitions == basetype.Uint16Invalid {
		return progression.HistoryEntry{}, false
	}
	exerciseID, ok := exerciseIDFromCategory(set.Category)
	if !ok {
		return progression.HistoryEntry{}, false
	}

	weight := set.WeightScaled()
	if math.IsNaN(weight) || weight < 0 {
		// bodyweight set
		weight = 0
	}

	return progression.HistoryEntry{
		Date:       setTime(set),
		ExerciseID: exerciseID,
		Weight:     weight,
		Reps:       int(set.Repetitions),
		Adherence:  i.opts.Adherence,
	}, true
}

// exerciseIDFromCategory uses the first category's profile name,
// e.g. "bench_press", as the exercise id.
func exerciseIDFromCategory(categories []typedef.ExerciseCategory) (string, bool) {
	if len(categories) == 0 || categories[0] == typedef.ExerciseCategoryInvalid {
		return "", false
	}
	return categories[0].String(), true
}

func setTime(set *mesgdef.Set) time.Time {
	if !set.StartTime.IsZero() {
		return set.StartTime.UTC()
	}
	return set.Timestamp.UTC()
}
