package fsrs

import (
	"math"
	"math/rand"
	"time"
)

// FuzzSource supplies the uniform draw in [0, 1) used to place a fuzzed
// interval within its band. It receives the card and review time so an
// implementation can derive the draw deterministically per event, which
// keeps Preview, Review, and Reschedule in agreement and makes replay
// reproducible.
type FuzzSource interface {
	Draw(card Card, review time.Time) float64
}

// seededFuzz is the default FuzzSource: a fresh generator seeded from
// the card identity, its rep count, and the review time. Same event in,
// same draw out.
type seededFuzz struct{}

func (seededFuzz) Draw(card Card, review time.Time) float64 {
	seed := card.CardID
	seed = seed*1000003 + int64(card.Reps)
	seed = seed*1000003 + review.UnixNano()
	return rand.New(rand.NewSource(seed)).Float64()
}

// FuzzFunc adapts a plain function to the FuzzSource interface.
type FuzzFunc func(card Card, review time.Time) float64

// Draw implements FuzzSource.
func (f FuzzFunc) Draw(card Card, review time.Time) float64 {
	return f(card, review)
}

type fuzzEntry struct {
	start, end float64
	factor     float64
}

var fuzzRanges = []fuzzEntry{
	{2.5, 7.0, 0.15},
	{7.0, 20.0, 0.10},
	{20.0, math.Inf(1), 0.05},
}

// fuzzDelta computes the fuzz range delta for a given interval.
// delta = 1.0 + Σ(factor * max(min(interval, end) - start, 0))
func fuzzDelta(interval float64) float64 {
	delta := 1.0
	for _, r := range fuzzRanges {
		delta += r.factor * math.Max(math.Min(interval, r.end)-r.start, 0)
	}
	return delta
}

// fuzzBounds computes the inclusive [min, max] band around an interval.
// The band widens with interval size, never drops below the elapsed
// days, and never exceeds maxIvl.
func fuzzBounds(interval, elapsedDays float64, maxIvl int) (int, int) {
	delta := fuzzDelta(interval)
	minIvl := int(math.Round(interval - delta))
	maxFuzzIvl := int(math.Round(interval + delta))
	if minIvl < 2 {
		minIvl = 2
	}
	if maxFuzzIvl > maxIvl {
		maxFuzzIvl = maxIvl
	}
	if interval > elapsedDays {
		lower := int(elapsedDays) + 1
		if minIvl < lower {
			minIvl = lower
		}
	}
	if minIvl > maxFuzzIvl {
		minIvl = maxFuzzIvl
	}
	return minIvl, maxFuzzIvl
}

// applyFuzz perturbs the interval within its band using the given draw.
// Intervals below 2.5 days pass through unchanged, and the result never
// exceeds maxIvl or drops below 1.
func applyFuzz(interval int, elapsedDays float64, maxIvl int, draw float64) int {
	if float64(interval) < 2.5 {
		return interval
	}
	minIvl, maxFuzzIvl := fuzzBounds(float64(interval), elapsedDays, maxIvl)
	fuzzed := int(math.Round(draw*float64(maxFuzzIvl-minIvl+1))) + minIvl
	if fuzzed > maxIvl {
		fuzzed = maxIvl
	}
	if fuzzed < 1 {
		fuzzed = 1
	}
	return fuzzed
}
