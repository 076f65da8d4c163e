package fsrs

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// ReviewEvent is one entry of a card's review history, as collected by
// the surrounding system. A graded event carries only the rating and
// timestamp; a Manual event carries the explicit schedule override to
// pass through.
type ReviewEvent struct {
	Rating Rating    `json:"rating"`
	Review time.Time `json:"review"`

	// Override targets, consulted only when Rating is Manual.
	// Due is required for a Manual event; the rest are optional.
	Due        *time.Time `json:"due,omitempty"`
	State      *State     `json:"state,omitempty"`
	Stability  *float64   `json:"stability,omitempty"`
	Difficulty *float64   `json:"difficulty,omitempty"`
}

// RescheduleOptions controls a Reschedule replay.
type RescheduleOptions struct {
	// Comparator orders the history before replay. Nil means
	// chronological by Review time. Replay never relies on the slice
	// order the caller happened to collect history in.
	Comparator func(a, b ReviewEvent) int

	// SkipManual drops Manual events instead of applying their overrides.
	SkipManual bool

	// UpdateMemoryState lets Manual events overwrite stability and
	// difficulty. When false a Manual event refreshes only schedule and
	// state.
	UpdateMemoryState bool

	// Now anchors the reschedule item. Zero means time.Now().
	Now time.Time

	// FirstCard seeds the replay. Nil starts from an empty New card
	// with the current card's ID.
	FirstCard *Card
}

// RescheduleResult is the outcome of replaying a card's history.
type RescheduleResult struct {
	// AuditTrail holds one outcome per replayed event, in replay order.
	AuditTrail []SchedulingInfo `json:"audit_trail"`

	// RescheduleItem migrates the caller's current card onto the
	// replayed schedule as of Now: its card is the replayed state, its
	// log a Manual snapshot of the current card. Nil when the current
	// card already matches the replayed schedule.
	RescheduleItem *SchedulingInfo `json:"reschedule_item,omitempty"`
}

// Reschedule replays an ordered review history through the scheduler to
// reconstruct the card's state, deterministically: identical inputs and
// an identical fuzz source produce identical output regardless of how
// the history slice was ordered on input.
func (s *Scheduler) Reschedule(current Card, history []ReviewEvent, opts RescheduleOptions) (RescheduleResult, error) {
	events := make([]ReviewEvent, len(history))
	copy(events, history)
	cmp := opts.Comparator
	if cmp == nil {
		cmp = func(a, b ReviewEvent) int { return a.Review.Compare(b.Review) }
	}
	sort.SliceStable(events, func(i, j int) bool { return cmp(events[i], events[j]) < 0 })

	var item Card
	switch {
	case opts.FirstCard != nil:
		item = opts.FirstCard.clone()
	case len(events) > 0:
		item = NewCard(current.CardID, events[0].Review)
	default:
		item = NewCard(current.CardID, opts.Now)
	}

	trail := make([]SchedulingInfo, 0, len(events))
	for _, ev := range events {
		var info SchedulingInfo
		var err error
		if ev.Rating == Manual {
			if opts.SkipManual {
				continue
			}
			info, err = s.applyManual(item, ev, opts.UpdateMemoryState)
		} else {
			info, err = s.Review(item, ev.Rating, ev.Review)
		}
		if err != nil {
			return RescheduleResult{}, err
		}
		item = info.Card
		trail = append(trail, info)
	}

	res := RescheduleResult{AuditTrail: trail}
	if !sameSchedule(current, item) {
		now := opts.Now
		if now.IsZero() {
			now = time.Now()
		}
		var elapsed float64
		if current.LastReview != nil {
			elapsed = math.Max(now.Sub(*current.LastReview).Hours()/24.0, 0)
		}
		res.RescheduleItem = &SchedulingInfo{
			Card:      item.clone(),
			ReviewLog: newReviewLog(current, Manual, elapsed, now),
		}
	}
	return res, nil
}

// applyManual passes a Manual event through as a direct override,
// without invoking the numeric model.
func (s *Scheduler) applyManual(item Card, ev ReviewEvent, updateMemory bool) (SchedulingInfo, error) {
	if ev.Due == nil {
		return SchedulingInfo{}, fmt.Errorf("%w: manual review at %s", ErrInvalidManualEvent, ev.Review.Format(time.RFC3339))
	}

	var elapsed float64
	if item.State != New && item.LastReview != nil {
		elapsed = math.Max(ev.Review.Sub(*item.LastReview).Hours()/24.0, 0)
	}
	log := newReviewLog(item, Manual, elapsed, ev.Review)

	c := item.clone()
	c.ElapsedDays = elapsed
	c.Due = *ev.Due
	c.ScheduledDays = max(int(math.Round(ev.Due.Sub(ev.Review).Hours()/24.0)), 0)
	review := ev.Review
	c.LastReview = &review

	if ev.State != nil {
		c.State = *ev.State
		if c.State == New {
			// Reset to unseen.
			c.clearMemory()
			c.LastReview = nil
		}
	}
	if updateMemory && c.State != New {
		if ev.Stability != nil {
			c.setStability(*ev.Stability)
		}
		if ev.Difficulty != nil {
			c.setDifficulty(*ev.Difficulty)
		}
	}

	return SchedulingInfo{Card: c, ReviewLog: log}, nil
}

// sameSchedule reports whether two cards agree on everything the
// surrounding system persists for scheduling.
func sameSchedule(a, b Card) bool {
	if a.State != b.State || !a.Due.Equal(b.Due) {
		return false
	}
	return a.stability() == b.stability() && a.difficulty() == b.difficulty()
}
