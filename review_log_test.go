package fsrs

import (
	"encoding/json"
	"testing"
)

func TestReviewLogJSONRoundTrip(t *testing.T) {
	dur := 4200
	log := ReviewLog{
		CardID:          3,
		Rating:          Good,
		State:           Review,
		Due:             t0,
		Stability:       8.5,
		Difficulty:      4.2,
		ElapsedDays:     7.25,
		LastElapsedDays: 3.0,
		ScheduledDays:   8,
		Review:          t0.AddDate(0, 0, 7),
		ReviewDuration:  &dur,
	}

	data, err := json.Marshal(log)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got ReviewLog
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if got.CardID != 3 || got.Rating != Good || got.State != Review {
		t.Errorf("round trip mismatch: %+v", got)
	}
	assertFloat(t, "Stability", got.Stability, 8.5)
	assertFloat(t, "ElapsedDays", got.ElapsedDays, 7.25)
	if got.ReviewDuration == nil || *got.ReviewDuration != 4200 {
		t.Errorf("ReviewDuration = %v, want 4200", got.ReviewDuration)
	}
}

func TestReviewLogOmitsNilDuration(t *testing.T) {
	data, err := json.Marshal(ReviewLog{CardID: 1, Rating: Again, Review: t0})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if _, ok := raw["review_duration"]; ok {
		t.Error("nil ReviewDuration should be omitted")
	}
}
