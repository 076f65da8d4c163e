package fsrs

import "time"

// Card represents a flashcard with its scheduling state.
type Card struct {
	CardID        int64      `json:"card_id"`
	State         State      `json:"state"`
	Due           time.Time  `json:"due"`
	Stability     *float64   `json:"stability"`  // nil before first graded review.
	Difficulty    *float64   `json:"difficulty"` // nil before first graded review.
	ElapsedDays   float64    `json:"elapsed_days"`
	ScheduledDays int        `json:"scheduled_days"`
	Reps          int        `json:"reps"`
	Lapses        int        `json:"lapses"`
	LastReview    *time.Time `json:"last_review,omitempty"` // nil before first review.
}

// MemoryState is the minimal {stability, difficulty} projection of a card,
// used when replaying history without the full Card.
type MemoryState struct {
	Stability  float64 `json:"stability"`
	Difficulty float64 `json:"difficulty"`
}

// NewCard creates an empty card in the New state with the given ID,
// due at now (immediately reviewable).
func NewCard(id int64, now time.Time) Card {
	return Card{
		CardID: id,
		State:  New,
		Due:    now,
	}
}

// Memory returns the card's memory state, or nil before the first
// graded review.
func (c Card) Memory() *MemoryState {
	if c.Stability == nil || c.Difficulty == nil {
		return nil
	}
	return &MemoryState{Stability: *c.Stability, Difficulty: *c.Difficulty}
}

// clone returns a deep copy of the card. Pointer fields are copied by value.
func (c Card) clone() Card {
	out := c
	if c.Stability != nil {
		v := *c.Stability
		out.Stability = &v
	}
	if c.Difficulty != nil {
		v := *c.Difficulty
		out.Difficulty = &v
	}
	if c.LastReview != nil {
		v := *c.LastReview
		out.LastReview = &v
	}
	return out
}

func (c *Card) setStability(s float64) {
	c.Stability = &s
}

func (c *Card) setDifficulty(d float64) {
	c.Difficulty = &d
}

func (c *Card) setMemory(m MemoryState) {
	c.setStability(m.Stability)
	c.setDifficulty(m.Difficulty)
}

func (c *Card) clearMemory() {
	c.Stability = nil
	c.Difficulty = nil
}

// stability returns the card's stability, or 0 before the first review.
func (c Card) stability() float64 {
	if c.Stability == nil {
		return 0
	}
	return *c.Stability
}

// difficulty returns the card's difficulty, or 0 before the first review.
func (c Card) difficulty() float64 {
	if c.Difficulty == nil {
		return 0
	}
	return *c.Difficulty
}
