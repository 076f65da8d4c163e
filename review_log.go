package fsrs

import "time"

// ReviewLog records a single review event for a card. All card-valued
// fields are the card's values immediately before the event, which is
// what makes Rollback a pure restoration and replay auditable.
type ReviewLog struct {
	CardID          int64     `json:"card_id"`
	Rating          Rating    `json:"rating"`
	State           State     `json:"state"` // state before the event.
	Due             time.Time `json:"due"`   // due before the event.
	Stability       float64   `json:"stability"`
	Difficulty      float64   `json:"difficulty"`
	ElapsedDays     float64   `json:"elapsed_days"`      // days since the previous review.
	LastElapsedDays float64   `json:"last_elapsed_days"` // card's elapsed_days before the event.
	ScheduledDays   int       `json:"scheduled_days"`    // card's scheduled_days before the event.
	Review          time.Time `json:"review"`            // timestamp of the event.
	ReviewDuration  *int      `json:"review_duration,omitempty"` // milliseconds, optional.
}

// SchedulingInfo pairs an updated card with the review log that produced it.
type SchedulingInfo struct {
	Card      Card      `json:"card"`
	ReviewLog ReviewLog `json:"review_log"`
}

// RecordLog is the four-way forecast produced by Scheduler.Preview:
// one outcome per grade.
type RecordLog map[Rating]SchedulingInfo
