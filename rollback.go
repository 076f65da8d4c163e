package fsrs

import (
	"fmt"
	"time"
)

// Rollback reconstructs the card's state before the review that
// produced the given log. The log stores the pre-event snapshot
// directly, so this is pure restoration with no numeric re-derivation.
//
// Returns ErrCardMismatch when the log does not belong to the card and
// ErrInvalidRating for a Manual log, whose override cannot be inverted.
func (s *Scheduler) Rollback(card Card, log ReviewLog) (Card, error) {
	if log.CardID != card.CardID {
		return Card{}, fmt.Errorf("%w: card %d, log %d", ErrCardMismatch, card.CardID, log.CardID)
	}
	if !log.Rating.Graded() {
		return Card{}, fmt.Errorf("%w: cannot roll back a %s review", ErrInvalidRating, log.Rating)
	}

	prev := card.clone()
	prev.State = log.State
	prev.Due = log.Due
	prev.ElapsedDays = log.LastElapsedDays
	prev.ScheduledDays = log.ScheduledDays
	prev.Reps = max(card.Reps-1, 0)
	if log.Rating == Again && log.State == Review {
		prev.Lapses = max(card.Lapses-1, 0)
	}

	if log.State == New {
		prev.clearMemory()
		prev.LastReview = nil
		return prev, nil
	}

	prev.setStability(log.Stability)
	prev.setDifficulty(log.Difficulty)
	// The previous review happened ElapsedDays before this one.
	last := log.Review.Add(-daysToDuration(log.ElapsedDays))
	prev.LastReview = &last
	return prev, nil
}

func daysToDuration(days float64) time.Duration {
	return time.Duration(days * 24 * float64(time.Hour))
}
