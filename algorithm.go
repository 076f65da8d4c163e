package fsrs

import (
	"fmt"
	"math"
)

// Model constants. decay and factor are fixed in FSRS-4.5: factor is
// chosen so that retrievability is exactly 0.9 when elapsed days equal
// stability.
const (
	decay  = -0.5
	factor = 19.0 / 81.0

	// stabilityMin is the floor for any computed stability.
	stabilityMin = 0.01

	// initStabilityMin is the floor for the initial stability S₀(G).
	initStabilityMin = 0.1
)

// algo evaluates the FSRS-4.5 memory formulas for one validated
// parameter set. The interval modifier is computed once at construction.
type algo struct {
	w           [19]float64
	ivlModifier float64
	maxInterval int
	shortTerm   bool
}

func newAlgo(p Parameters) algo {
	m, _ := CalculateIntervalModifier(p.RequestRetention)
	return algo{
		w:           p.W,
		ivlModifier: m,
		maxInterval: p.MaximumInterval,
		shortTerm:   p.EnableShortTerm,
	}
}

// CalculateIntervalModifier inverts the forgetting curve: the returned
// multiplier m satisfies R(m·S, S) = retention for any stability S.
// Returns ErrInvalidRetention outside (0, 1].
func CalculateIntervalModifier(retention float64) (float64, error) {
	if retention <= 0 || retention > 1 {
		return 0, fmt.Errorf("%w: %f", ErrInvalidRetention, retention)
	}
	return (math.Pow(retention, 1.0/decay) - 1) / factor, nil
}

// forgettingCurve computes R(t, S) = (1 + FACTOR * t / S) ^ DECAY.
// R(0, S) = 1 for any S. Zero stability decays immediately rather than
// dividing by zero.
func (a *algo) forgettingCurve(elapsedDays, stability float64) float64 {
	if elapsedDays <= 0 {
		return 1.0
	}
	if stability <= 0 {
		return 0.0
	}
	return math.Pow(1+factor*elapsedDays/stability, decay)
}

// nextInterval computes the next review interval in days:
// round(S * modifier), clamped to [1, maximumInterval].
func (a *algo) nextInterval(stability float64) int {
	ivl := int(math.Round(stability * a.ivlModifier))
	if ivl < 1 {
		ivl = 1
	}
	if ivl > a.maxInterval {
		ivl = a.maxInterval
	}
	return ivl
}

// initStability returns the initial stability S₀(G) = max(w[G-1], 0.1).
func (a *algo) initStability(r Rating) float64 {
	return math.Max(a.w[r-1], initStabilityMin)
}

// initDifficulty returns the initial difficulty D₀(G).
// D₀(G) = w[4] - e^(w[5] * (G - 1)) + 1
// When clamp is true, the result is clamped to [1, 10].
func (a *algo) initDifficulty(r Rating, clamp bool) float64 {
	d := a.w[4] - math.Exp(a.w[5]*float64(r-1)) + 1
	if clamp {
		return clampD(d)
	}
	return d
}

// nextDifficulty computes the updated difficulty after a review.
// ΔD = -w[6] * (G - 3), damped by (10 - D) / 9 only when the delta
// lowers difficulty, then mean-reverted toward D₀(Good):
// D'' = clamp_d(w[7]*D₀(Good) + (1-w[7])*D')
func (a *algo) nextDifficulty(difficulty float64, r Rating) float64 {
	deltaD := -a.w[6] * (float64(r) - 3)
	dPrime := difficulty + deltaD
	if deltaD < 0 {
		dPrime = difficulty + deltaD*(10-difficulty)/9
	}
	d0Good := a.initDifficulty(Good, false) // mean reversion target, unclamped
	return clampD(a.w[7]*d0Good + (1-a.w[7])*dPrime)
}

// nextStability dispatches to nextRecallStability or nextForgetStability.
func (a *algo) nextStability(d, s, r float64, rating Rating) float64 {
	if rating == Again {
		return a.nextForgetStability(d, s, r)
	}
	return a.nextRecallStability(d, s, r, rating)
}

// nextRecallStability computes stability after a successful recall (Hard/Good/Easy).
// S'_r = S * (e^w[8] * (11-D) * S^(-w[9]) * (e^(w[10]*(1-R)) - 1) * hardPenalty * easyBonus + 1)
func (a *algo) nextRecallStability(d, s, r float64, rating Rating) float64 {
	hardPenalty := 1.0
	if rating == Hard {
		hardPenalty = a.w[15]
	}
	easyBonus := 1.0
	if rating == Easy {
		easyBonus = a.w[16]
	}
	return clampS(s * (math.Exp(a.w[8])*
		(11-d)*
		math.Pow(s, -a.w[9])*
		(math.Exp(a.w[10]*(1-r))-1)*
		hardPenalty*easyBonus + 1))
}

// nextForgetStability computes stability after a lapse (Again).
// S'_f = w[11] * D^(-w[12]) * ((S+1)^w[13] - 1) * e^(w[14]*(1-R))
// A lapse never increases stability: the result is capped at
// S / e^(w[17]*w[18]) in short-term mode, at S otherwise.
func (a *algo) nextForgetStability(d, s, r float64) float64 {
	next := a.w[11] *
		math.Pow(d, -a.w[12]) *
		(math.Pow(s+1, a.w[13]) - 1) *
		math.Exp(a.w[14]*(1-r))
	limit := s
	if a.shortTerm {
		limit = s / math.Exp(a.w[17]*a.w[18])
	}
	return clampS(math.Min(next, limit))
}

// nextShortTermStability computes the same-day (Learning/Relearning)
// stability update: S' = S * e^(w[17] * (G - 3 + w[18])).
func (a *algo) nextShortTermStability(s float64, r Rating) float64 {
	return clampS(s * math.Exp(a.w[17]*(float64(r)-3+a.w[18])))
}

// nextMemory is the single entry point of the memory model. A nil
// memory state initializes stability and difficulty from the grade;
// otherwise retrievability at elapsedDays drives the recall or forget
// stability update and the difficulty update. Total over every valid
// (memory, elapsed, grade) triple: the result always satisfies
// difficulty ∈ [1,10] and stability ≥ stabilityMin.
func (a *algo) nextMemory(m *MemoryState, elapsedDays float64, r Rating) MemoryState {
	if m == nil {
		return MemoryState{
			Stability:  a.initStability(r),
			Difficulty: a.initDifficulty(r, true),
		}
	}
	retr := a.forgettingCurve(elapsedDays, m.Stability)
	return MemoryState{
		Stability:  a.nextStability(m.Difficulty, m.Stability, retr, r),
		Difficulty: a.nextDifficulty(m.Difficulty, r),
	}
}

// clampS clamps stability to the model floor.
func clampS(s float64) float64 {
	return math.Max(s, stabilityMin)
}

// clampD clamps difficulty to [1, 10].
func clampD(d float64) float64 {
	return math.Min(math.Max(d, 1), 10)
}
