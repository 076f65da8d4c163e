package fsrs_test

import (
	"testing"
	"time"

	fsrs "github.com/koljapluemer/see-you-again"
)

// BenchmarkReview measures the time to process a single review.
// Target: < 500ns/op.
func BenchmarkReview(b *testing.B) {
	s, err := fsrs.NewScheduler(fsrs.SchedulerConfig{})
	if err != nil {
		b.Fatal(err)
	}
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	card := fsrs.NewCard(1, now)

	// Prime the card with one review so it has stability/difficulty.
	info, _ := s.Review(card, fsrs.Good, now)
	card = info.Card
	now = now.Add(24 * time.Hour)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		info, _ = s.Review(card, fsrs.Good, now)
		card = info.Card
		now = now.Add(24 * time.Hour)
	}
}

// BenchmarkRetrievability measures the time to compute retrievability.
// Target: < 100ns/op.
func BenchmarkRetrievability(b *testing.B) {
	s, err := fsrs.NewScheduler(fsrs.SchedulerConfig{})
	if err != nil {
		b.Fatal(err)
	}
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	info, _ := s.Review(fsrs.NewCard(1, now), fsrs.Good, now)
	queryTime := now.Add(5 * 24 * time.Hour)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Retrievability(info.Card, queryTime)
	}
}

// BenchmarkPreview measures the time to preview all four grades.
// Target: < 2μs/op.
func BenchmarkPreview(b *testing.B) {
	s, err := fsrs.NewScheduler(fsrs.SchedulerConfig{})
	if err != nil {
		b.Fatal(err)
	}
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	info, _ := s.Review(fsrs.NewCard(1, now), fsrs.Good, now)
	now = now.Add(24 * time.Hour)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Preview(info.Card, now)
	}
}

// BenchmarkReschedule measures replaying a short history.
func BenchmarkReschedule(b *testing.B) {
	s, err := fsrs.NewScheduler(fsrs.SchedulerConfig{})
	if err != nil {
		b.Fatal(err)
	}
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	history := []fsrs.ReviewEvent{
		{Rating: fsrs.Good, Review: t0},
		{Rating: fsrs.Good, Review: t0.Add(24 * time.Hour)},
		{Rating: fsrs.Again, Review: t0.Add(8 * 24 * time.Hour)},
		{Rating: fsrs.Good, Review: t0.Add(8*24*time.Hour + 10*time.Minute)},
	}
	card := fsrs.NewCard(1, t0)
	opts := fsrs.RescheduleOptions{Now: t0.Add(9 * 24 * time.Hour)}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.Reschedule(card, history, opts); err != nil {
			b.Fatal(err)
		}
	}
}
