package optimizer

import (
	"math"

	fsrs "github.com/koljapluemer/see-you-again"
)

const bceClamp = 1e-7

// bceLoss computes the binary cross-entropy loss: -[y*ln(p) + (1-y)*ln(1-p)].
// rPred is clamped to [bceClamp, 1-bceClamp] to avoid log(0).
func bceLoss(rPred, y float64) float64 {
	p := math.Max(bceClamp, math.Min(rPred, 1-bceClamp))
	return -(y*math.Log(p) + (1-y)*math.Log(1-p))
}

// trainingScheduler builds a fuzz-free scheduler for the given weights.
func trainingScheduler(weights [19]float64) (*fsrs.Scheduler, error) {
	params := fsrs.DefaultParameters()
	params.W = weights
	return fsrs.NewScheduler(fsrs.SchedulerConfig{Parameters: params})
}

// computeBatchLoss computes the average BCE loss over all cross-day reviews.
// It creates a Scheduler from the weights and replays each card's review
// history. Returns 0 if there are no cross-day reviews.
func computeBatchLoss(weights [19]float64, data map[int64][]review) float64 {
	s, err := trainingScheduler(weights)
	if err != nil {
		return 0
	}

	var totalLoss float64
	var count int

	for cardID, reviews := range data {
		card := fsrs.NewCard(cardID, reviews[0].reviewTime)

		for _, rev := range reviews {
			// Compute retrievability BEFORE this review.
			rPred := s.Retrievability(card, rev.reviewTime)

			// Only cross-day reviews contribute to loss.
			if card.LastReview != nil && rev.elapsedDays >= 1.0 {
				totalLoss += bceLoss(rPred, rev.label)
				count++
			}

			// Update card state.
			info, err := s.Review(card, rev.rating, rev.reviewTime)
			if err != nil {
				continue
			}
			card = info.Card
		}
	}

	if count == 0 {
		return 0
	}
	return totalLoss / float64(count)
}

const gradEps = 1e-5

// numericalGradient computes the gradient of the batch loss w.r.t. each weight
// using central differences: dL/dw[i] ≈ (L(w[i]+ε) - L(w[i]-ε)) / (2ε).
func numericalGradient(weights [19]float64, data map[int64][]review) [19]float64 {
	var grad [19]float64
	for i := 0; i < 19; i++ {
		wPlus := weights
		wPlus[i] += gradEps
		wMinus := weights
		wMinus[i] -= gradEps

		lPlus := computeBatchLoss(wPlus, data)
		lMinus := computeBatchLoss(wMinus, data)

		grad[i] = (lPlus - lMinus) / (2 * gradEps)
	}
	return grad
}
