package progression

import (
	"errors"
	"fmt"
	"math"
)

const (
	// DefaultMinIntensityIncrease is the load increase at adherence 0.
	DefaultMinIntensityIncrease = 0.0
	// DefaultMaxIntensityIncrease is the load increase at adherence 1 (+5%).
	DefaultMaxIntensityIncrease = 0.05
	// DefaultMinRepIncrease is the rep increase at adherence 0.
	DefaultMinRepIncrease = 0.0
	// DefaultMaxRepIncrease is the rep increase at adherence 1.
	DefaultMaxRepIncrease = 2.0
)

var ErrInvalidBounds = errors.New("invalid progression bounds")

// Bounds holds the values each bump takes at adherence 0 (Min*) and
// adherence 1 (Max*). Intensity bounds are fractions of the load, rep
// bounds are absolute rep counts.
type Bounds struct {
	MinIntensityIncrease float64 `json:"minIntensityIncrease" toml:"min_intensity_increase"`
	MaxIntensityIncrease float64 `json:"maxIntensityIncrease" toml:"max_intensity_increase"`
	MinRepIncrease       float64 `json:"minRepIncrease" toml:"min_rep_increase"`
	MaxRepIncrease       float64 `json:"maxRepIncrease" toml:"max_rep_increase"`
}

func DefaultBounds() Bounds {
	return Bounds{
		MinIntensityIncrease: DefaultMinIntensityIncrease,
		MaxIntensityIncrease: DefaultMaxIntensityIncrease,
		MinRepIncrease:       DefaultMinRepIncrease,
		MaxRepIncrease:       DefaultMaxRepIncrease,
	}
}

func (b Bounds) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"min intensity increase", b.MinIntensityIncrease},
		{"max intensity increase", b.MaxIntensityIncrease},
		{"min rep increase", b.MinRepIncrease},
		{"max rep increase", b.MaxRepIncrease},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s is not a finite number", ErrInvalidBounds, f.name)
		}
	}
	if b.MinIntensityIncrease > b.MaxIntensityIncrease {
		return fmt.Errorf(
			"%w: min intensity increase %v > max %v",
			ErrInvalidBounds, b.MinIntensityIncrease, b.MaxIntensityIncrease,
		)
	}
	if b.MinRepIncrease > b.MaxRepIncrease {
		return fmt.Errorf(
			"%w: min rep increase %v > max %v",
			ErrInvalidBounds, b.MinRepIncrease, b.MaxRepIncrease,
		)
	}
	return nil
}

// intensityBump interpolates the fractional load increase for the given adherence.
func (b Bounds) intensityBump(adherence float64) float64 {
	bump := b.MinIntensityIncrease + (b.MaxIntensityIncrease-b.MinIntensityIncrease)*adherence
	return clamp(bump, b.MinIntensityIncrease, b.MaxIntensityIncrease)
}

// repBump interpolates the rep increase for the given adherence, rounded to whole reps.
func (b Bounds) repBump(adherence float64) int {
	bump := math.Round(b.MinRepIncrease + (b.MaxRepIncrease-b.MinRepIncrease)*adherence)
	return int(clamp(bump, math.Round(b.MinRepIncrease), math.Round(b.MaxRepIncrease)))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
