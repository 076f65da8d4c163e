package fsrs

import (
	"encoding/json"
	"fmt"
	"time"
)

// Short-term step intervals. Sub-day scheduling in the Learning and
// Relearning states uses fixed steps rather than the numeric model.
const (
	firstAgainStep = time.Minute
	firstHardStep  = 5 * time.Minute
	firstGoodStep  = 10 * time.Minute
	repeatStep     = 5 * time.Minute
	repeatHardStep = 10 * time.Minute
)

// SchedulerConfig configures a Scheduler.
// The zero value produces a scheduler with DefaultParameters.
type SchedulerConfig struct {
	// Parameters for a scheduler-private store. The zero value means
	// DefaultParameters; explicit out-of-range values are rejected.
	Parameters Parameters

	// Store, when non-nil, is shared with the caller (and possibly other
	// schedulers) and takes precedence over Parameters. Updates through
	// the store are picked up atomically by subsequent operations.
	Store *Store

	// FuzzSource supplies the uniform draws for interval fuzzing.
	// Nil selects a deterministic per-event seeded source.
	FuzzSource FuzzSource
}

// Scheduler schedules card reviews using the FSRS-4.5 algorithm.
// It holds no per-card state: every operation takes the card as a value
// and returns updated values, so a single Scheduler is safe for
// concurrent use.
type Scheduler struct {
	store *Store
	fuzz  FuzzSource
}

// NewScheduler creates a Scheduler from the given config.
// A zero Parameters value is replaced with DefaultParameters; anything
// else is validated and rejected with a configuration error.
func NewScheduler(cfg SchedulerConfig) (*Scheduler, error) {
	st := cfg.Store
	if st == nil {
		params := cfg.Parameters
		if params == (Parameters{}) {
			params = DefaultParameters()
		}
		var err error
		if st, err = NewStore(params); err != nil {
			return nil, err
		}
	}

	fuzz := cfg.FuzzSource
	if fuzz == nil {
		fuzz = seededFuzz{}
	}

	return &Scheduler{store: st, fuzz: fuzz}, nil
}

// Params returns the scheduler's current parameter set.
func (s *Scheduler) Params() Parameters {
	return s.store.Params()
}

// UpdateParameters validates p and swaps it in atomically. Operations
// already in flight keep the snapshot they started with.
func (s *Scheduler) UpdateParameters(p Parameters) error {
	return s.store.Update(p)
}

// Review grades the card at the given time and returns the updated card
// paired with the review log recording the transition. The input card
// is not mutated. Manual is not a grade: passing it (or any undefined
// rating) returns ErrInvalidRating.
func (s *Scheduler) Review(card Card, rating Rating, now time.Time) (SchedulingInfo, error) {
	if !rating.Graded() {
		return SchedulingInfo{}, fmt.Errorf("%w: %s is not a grade", ErrInvalidRating, rating)
	}
	return s.review(s.store.load(), card, rating, now), nil
}

// Preview returns the outcome of reviewing the card with each of the
// four grades, computed from the same starting state. The card is not
// mutated; the caller commits at most one of the outcomes.
func (s *Scheduler) Preview(card Card, now time.Time) RecordLog {
	snap := s.store.load()
	out := make(RecordLog, len(Grades))
	for _, g := range Grades {
		out[g] = s.review(snap, card, g, now)
	}
	return out
}

// Retrievability returns the probability of recall for the card at the
// given time. Returns 0 for a card that has never been graded.
func (s *Scheduler) Retrievability(card Card, now time.Time) float64 {
	m := card.Memory()
	if m == nil || card.LastReview == nil {
		return 0
	}
	snap := s.store.load()
	elapsed := now.Sub(*card.LastReview).Hours() / 24.0
	return snap.algo.forgettingCurve(elapsed, m.Stability)
}

// review runs one graded transition against a single parameter snapshot.
// rating must be a grade.
func (s *Scheduler) review(snap *paramSnapshot, card Card, rating Rating, now time.Time) SchedulingInfo {
	var elapsed float64
	if card.State != New && card.LastReview != nil {
		elapsed = now.Sub(*card.LastReview).Hours() / 24.0
		if elapsed < 0 {
			elapsed = 0
		}
	}

	log := newReviewLog(card, rating, elapsed, now)

	c := card.clone()
	c.ElapsedDays = elapsed
	c.Reps++

	var wait time.Duration
	if snap.params.EnableShortTerm {
		wait = s.transition(snap, &c, card, rating, elapsed, now)
	} else {
		wait = s.transitionLongTerm(snap, &c, card, rating, elapsed, now)
	}

	c.Due = now.Add(wait)
	c.LastReview = &now

	return SchedulingInfo{Card: c, ReviewLog: log}
}

// newReviewLog snapshots the card as it was before the event.
func newReviewLog(pre Card, rating Rating, elapsed float64, now time.Time) ReviewLog {
	return ReviewLog{
		CardID:          pre.CardID,
		Rating:          rating,
		State:           pre.State,
		Due:             pre.Due,
		Stability:       pre.stability(),
		Difficulty:      pre.difficulty(),
		ElapsedDays:     elapsed,
		LastElapsedDays: pre.ElapsedDays,
		ScheduledDays:   pre.ScheduledDays,
		Review:          now,
	}
}

// transition applies the short-term state machine and returns the wait
// until the card is due again.
func (s *Scheduler) transition(snap *paramSnapshot, c *Card, pre Card, rating Rating, elapsed float64, now time.Time) time.Duration {
	a := &snap.algo
	switch pre.State {
	case New:
		return s.transitionNew(snap, c, pre, rating, elapsed, now)

	case Learning, Relearning:
		c.setStability(a.nextShortTermStability(pre.stability(), rating))
		c.setDifficulty(a.nextDifficulty(pre.difficulty(), rating))

		switch rating {
		case Again:
			c.ScheduledDays = 0
			return repeatStep
		case Hard:
			c.ScheduledDays = 0
			return repeatHardStep
		default: // Good, Easy: graduate.
			c.State = Review
			return s.schedule(snap, c, pre, a.nextInterval(c.stability()), elapsed, now)
		}

	default: // Review
		return s.transitionReview(snap, c, pre, rating, elapsed, now)
	}
}

// transitionNew grades a card for the first time. Easy skips the
// Learning phase and graduates straight into Review.
func (s *Scheduler) transitionNew(snap *paramSnapshot, c *Card, pre Card, rating Rating, elapsed float64, now time.Time) time.Duration {
	a := &snap.algo
	c.setMemory(a.nextMemory(nil, 0, rating))

	switch rating {
	case Again:
		c.State = Learning
		c.ScheduledDays = 0
		return firstAgainStep
	case Hard:
		c.State = Learning
		c.ScheduledDays = 0
		return firstHardStep
	case Good:
		c.State = Learning
		c.ScheduledDays = 0
		return firstGoodStep
	default: // Easy
		c.State = Review
		return s.schedule(snap, c, pre, a.nextInterval(c.stability()), elapsed, now)
	}
}

// transitionReview handles the Review state: a lapse drops into
// Relearning, a recall stays in Review with an interval ordered across
// the three recall grades.
func (s *Scheduler) transitionReview(snap *paramSnapshot, c *Card, pre Card, rating Rating, elapsed float64, now time.Time) time.Duration {
	a := &snap.algo
	d, st := pre.difficulty(), pre.stability()
	retr := a.forgettingCurve(elapsed, st)

	c.setDifficulty(a.nextDifficulty(d, rating))

	if rating == Again {
		c.setStability(a.nextForgetStability(d, st, retr))
		c.Lapses++
		c.State = Relearning
		c.ScheduledDays = 0
		return repeatStep
	}

	sHard := a.nextRecallStability(d, st, retr, Hard)
	sGood := a.nextRecallStability(d, st, retr, Good)
	sEasy := a.nextRecallStability(d, st, retr, Easy)
	hardIvl, goodIvl, easyIvl := a.recallIntervals(sHard, sGood, sEasy)

	var ivl int
	switch rating {
	case Hard:
		c.setStability(sHard)
		ivl = hardIvl
	case Good:
		c.setStability(sGood)
		ivl = goodIvl
	default: // Easy
		c.setStability(sEasy)
		ivl = easyIvl
	}

	c.State = Review
	return s.schedule(snap, c, pre, ivl, elapsed, now)
}

// transitionLongTerm collapses the state machine when short-term mode
// is off: every grade lands in Review and all intervals come from the
// numeric model, ordered again ≤ hard ≤ good < easy.
func (s *Scheduler) transitionLongTerm(snap *paramSnapshot, c *Card, pre Card, rating Rating, elapsed float64, now time.Time) time.Duration {
	a := &snap.algo
	mem := pre.Memory()

	var sAgain, sHard, sGood, sEasy float64
	if mem == nil {
		sAgain = a.initStability(Again)
		sHard = a.initStability(Hard)
		sGood = a.initStability(Good)
		sEasy = a.initStability(Easy)
	} else {
		retr := a.forgettingCurve(elapsed, mem.Stability)
		sAgain = a.nextForgetStability(mem.Difficulty, mem.Stability, retr)
		sHard = a.nextRecallStability(mem.Difficulty, mem.Stability, retr, Hard)
		sGood = a.nextRecallStability(mem.Difficulty, mem.Stability, retr, Good)
		sEasy = a.nextRecallStability(mem.Difficulty, mem.Stability, retr, Easy)
	}

	c.setMemory(a.nextMemory(mem, elapsed, rating))

	againIvl, hardIvl, goodIvl, easyIvl := a.longTermIntervals(sAgain, sHard, sGood, sEasy)
	var ivl int
	switch rating {
	case Again:
		ivl = againIvl
		if pre.State == Review {
			c.Lapses++
		}
	case Hard:
		ivl = hardIvl
	case Good:
		ivl = goodIvl
	default:
		ivl = easyIvl
	}

	c.State = Review
	return s.schedule(snap, c, pre, ivl, elapsed, now)
}

// schedule finalizes a day-granular interval: fuzzes it when enabled,
// records it on the card, and converts it to a wait duration. The fuzz
// draw is derived from the pre-review card so Preview and Review agree.
func (s *Scheduler) schedule(snap *paramSnapshot, c *Card, pre Card, days int, elapsed float64, now time.Time) time.Duration {
	if snap.params.EnableFuzz {
		days = applyFuzz(days, elapsed, snap.algo.maxInterval, s.fuzz.Draw(pre, now))
	}
	c.ScheduledDays = days
	return time.Duration(days) * 24 * time.Hour
}

// recallIntervals orders the Hard/Good/Easy intervals so a better grade
// never schedules sooner, while respecting the interval cap.
func (a *algo) recallIntervals(sHard, sGood, sEasy float64) (int, int, int) {
	hard := a.nextInterval(sHard)
	good := a.nextInterval(sGood)
	easy := a.nextInterval(sEasy)

	hard = min(hard, good)
	good = max(good, hard+1)
	easy = max(easy, good+1)

	return min(hard, a.maxInterval), min(good, a.maxInterval), min(easy, a.maxInterval)
}

// longTermIntervals orders all four grade intervals for long-term mode.
func (a *algo) longTermIntervals(sAgain, sHard, sGood, sEasy float64) (int, int, int, int) {
	again := a.nextInterval(sAgain)
	hard, good, easy := a.recallIntervals(sHard, sGood, sEasy)
	again = min(again, hard)
	return min(again, a.maxInterval), hard, good, easy
}

// schedulerJSON is the serialized form of a Scheduler.
type schedulerJSON struct {
	Parameters Parameters `json:"parameters"`
}

// MarshalJSON implements json.Marshaler. Only the parameter set is
// serialized; the fuzz source is not.
func (s *Scheduler) MarshalJSON() ([]byte, error) {
	return json.Marshal(schedulerJSON{Parameters: s.store.Params()})
}

// UnmarshalJSON implements json.Unmarshaler.
// It revalidates the serialized parameter set and rebuilds the
// scheduler's derived state.
func (s *Scheduler) UnmarshalJSON(data []byte) error {
	var j schedulerJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	rebuilt, err := NewScheduler(SchedulerConfig{Parameters: j.Parameters})
	if err != nil {
		return err
	}
	*s = *rebuilt
	return nil
}
