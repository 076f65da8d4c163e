package fsrs

import "errors"

// Sentinel errors for the fsrs package.
// Use errors.Is to check: errors.Is(err, fsrs.ErrInvalidRating)
var (
	ErrInvalidRating      = errors.New("fsrs: invalid rating")
	ErrInvalidParameters  = errors.New("fsrs: parameters out of bounds")
	ErrInvalidRetention   = errors.New("fsrs: request retention out of range (0, 1]")
	ErrInvalidManualEvent = errors.New("fsrs: manual event missing due override")
	ErrCardMismatch       = errors.New("fsrs: card ID mismatch in review log")
)
