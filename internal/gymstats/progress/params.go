package progress

import (
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// ParseDateRange parses optional YYYY-MM-DD bounds. The upper bound is
// inclusive, so it is moved to the last instant of that day.
func ParseDateRange(fromStr, toStr string) (from, to *time.Time, err error) {
	if fromStr != "" {
		f, err := time.Parse(DateLayout, fromStr)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid from date [%s]: use YYYY-MM-DD", fromStr)
		}
		from = &f
	}
	if toStr != "" {
		t, err := time.Parse(DateLayout, toStr)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid to date [%s]: use YYYY-MM-DD", toStr)
		}
		t = t.Add(24*time.Hour - time.Nanosecond)
		to = &t
	}
	if from != nil && to != nil && from.After(*to) {
		return nil, nil, fmt.Errorf("from date [%s] is after to date [%s]", fromStr, toStr)
	}
	return from, to, nil
}

// SplitExerciseIDs accepts repeated and comma separated ids.
func SplitExerciseIDs(values ...string) []string {
	var ids []string
	for _, v := range values {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}
