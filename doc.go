// Package fsrs implements the FSRS-4.5 spaced repetition scheduling algorithm.
//
// fsrs provides a pure-Go Scheduler that moves cards through the
// New → Learning → Review ⇄ Relearning lifecycle, previews all four
// grading outcomes, rolls back committed reviews, and replays review
// histories deterministically. An Optimizer (in the fsrs/optimizer
// subpackage) trains the 19 model weights from historical review logs.
//
// Basic usage:
//
//	s, err := fsrs.NewScheduler(fsrs.SchedulerConfig{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	card := fsrs.NewCard(1, time.Now())
//	info, err := s.Review(card, fsrs.Good, time.Now())
package fsrs
