package fsrs

import (
	"fmt"
	"sync/atomic"
)

// DefaultWeights are the published FSRS-4.5 default weight values.
var DefaultWeights = [19]float64{
	0.4072, 1.1829, 3.1262, 15.4722, // w[0..3]  initial stability S₀(G)
	7.2102, 0.5316, 1.0651, 0.0234, // w[4..7]  difficulty params
	1.616, 0.1544, 1.0824, 1.9813, // w[8..11] recall/forget stability
	0.0953, 0.2975, 2.2042, // w[12..14] forget stability params
	0.2407, 2.9466, // w[15..16] hard penalty, easy bonus
	0.5034, 0.6567, // w[17..18] short-term params
}

// LowerBounds defines the minimum allowed value for each weight.
var LowerBounds = [19]float64{
	stabilityMin, stabilityMin, stabilityMin, stabilityMin,
	1.0, 0.001, 0.001, 0.001,
	0.0, 0.0, 0.001, 0.001,
	0.001, 0.001, 0.0,
	0.0, 1.0,
	0.0, 0.0,
}

// UpperBounds defines the maximum allowed value for each weight.
var UpperBounds = [19]float64{
	100.0, 100.0, 100.0, 100.0,
	10.0, 4.0, 4.0, 0.75,
	4.5, 0.8, 3.5, 5.0,
	0.25, 0.9, 4.0,
	1.0, 6.0,
	2.0, 2.0,
}

// ValidateWeights checks that all 19 weights are within [LowerBounds, UpperBounds].
func ValidateWeights(w [19]float64) error {
	for i := 0; i < 19; i++ {
		if w[i] < LowerBounds[i] || w[i] > UpperBounds[i] {
			return fmt.Errorf("%w: w[%d] = %f, bounds [%f, %f]",
				ErrInvalidParameters, i, w[i], LowerBounds[i], UpperBounds[i])
		}
	}
	return nil
}

// Parameters holds the tunable model weights and global scheduling options.
// Once validated it is treated as an immutable value: updates go through
// Store.Update, which swaps in a whole new validated set.
type Parameters struct {
	W                [19]float64 `json:"w"`
	RequestRetention float64     `json:"request_retention"` // target recall probability, (0, 1].
	MaximumInterval  int         `json:"maximum_interval"`  // cap in days.
	EnableFuzz       bool        `json:"enable_fuzz"`
	EnableShortTerm  bool        `json:"enable_short_term"`
}

// DefaultParameters returns the default parameter set: the published
// weights, 0.9 retention, a 100-year interval cap, fuzzing off, and
// short-term (sub-day) scheduling on.
func DefaultParameters() Parameters {
	return Parameters{
		W:                DefaultWeights,
		RequestRetention: 0.9,
		MaximumInterval:  36500,
		EnableShortTerm:  true,
	}
}

// Validate checks the retention range, the interval cap, and the weight
// bounds. Out-of-range values fail loudly; nothing is clamped.
func (p Parameters) Validate() error {
	if p.RequestRetention <= 0 || p.RequestRetention > 1 {
		return fmt.Errorf("%w: %f", ErrInvalidRetention, p.RequestRetention)
	}
	if p.MaximumInterval < 1 {
		return fmt.Errorf("%w: maximum interval %d must be at least 1 day",
			ErrInvalidParameters, p.MaximumInterval)
	}
	return ValidateWeights(p.W)
}

// paramSnapshot is one immutable parameter set plus everything derived
// from it, handed out whole so in-flight computations never observe a
// partially updated configuration.
type paramSnapshot struct {
	params Parameters
	algo   algo
}

// Store holds the current parameter set and swaps it atomically on
// update. All Scheduler operations load exactly one snapshot, so a
// concurrent Update never bleeds into a computation already underway.
type Store struct {
	snap atomic.Pointer[paramSnapshot]
}

// NewStore validates p and creates a store holding it.
func NewStore(p Parameters) (*Store, error) {
	st := &Store{}
	if err := st.Update(p); err != nil {
		return nil, err
	}
	return st, nil
}

// Update validates p and atomically replaces the whole parameter set.
// On error the previous set stays in place untouched.
func (st *Store) Update(p Parameters) error {
	if err := p.Validate(); err != nil {
		return err
	}
	st.snap.Store(&paramSnapshot{params: p, algo: newAlgo(p)})
	return nil
}

// Params returns the current parameter set.
func (st *Store) Params() Parameters {
	return st.snap.Load().params
}

// IntervalModifier returns the cached elapsed-day multiplier derived
// from the current request retention.
func (st *Store) IntervalModifier() float64 {
	return st.snap.Load().algo.ivlModifier
}

func (st *Store) load() *paramSnapshot {
	return st.snap.Load()
}
