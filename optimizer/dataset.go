package optimizer

import (
	"sort"
	"time"

	fsrs "github.com/koljapluemer/see-you-again"
)

// review is an internal representation of a single review event for training.
type review struct {
	rating      fsrs.Rating
	elapsedDays float64   // days since previous review (0 for first)
	label       float64   // 0 if Again, 1 otherwise
	reviewTime  time.Time // original review timestamp (for Scheduler replay)
}

// formatRevlogs groups review logs by card ID and sorts each group by time.
// Each review computes elapsed_days from the previous review and a binary
// label. Manual entries are administrative overrides without a recall
// outcome and are dropped.
func formatRevlogs(logs []fsrs.ReviewLog) map[int64][]review {
	if len(logs) == 0 {
		return nil
	}

	// Group by card ID, graded entries only.
	groups := make(map[int64][]fsrs.ReviewLog)
	for _, log := range logs {
		if !log.Rating.Graded() {
			continue
		}
		groups[log.CardID] = append(groups[log.CardID], log)
	}
	if len(groups) == 0 {
		return nil
	}

	result := make(map[int64][]review, len(groups))
	for cardID, cardLogs := range groups {
		// Sort by review time.
		sort.Slice(cardLogs, func(i, j int) bool {
			return cardLogs[i].Review.Before(cardLogs[j].Review)
		})

		reviews := make([]review, len(cardLogs))
		for i, log := range cardLogs {
			var elapsed float64
			if i > 0 {
				elapsed = log.Review.Sub(cardLogs[i-1].Review).Hours() / 24.0
			}

			label := 1.0
			if log.Rating == fsrs.Again {
				label = 0.0
			}

			reviews[i] = review{
				rating:      log.Rating,
				elapsedDays: elapsed,
				label:       label,
				reviewTime:  log.Review,
			}
		}
		result[cardID] = reviews
	}

	return result
}

// countCrossDayReviews counts reviews where elapsed_days >= 1 (cross-day reviews).
// The first review of each card is never cross-day (elapsed_days = 0).
func countCrossDayReviews(data map[int64][]review) int {
	count := 0
	for _, reviews := range data {
		for _, r := range reviews {
			if r.elapsedDays >= 1.0 {
				count++
			}
		}
	}
	return count
}
