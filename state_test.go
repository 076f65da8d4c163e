package fsrs

import (
	"encoding/json"
	"testing"
)

func TestStateString(t *testing.T) {
	cases := map[State]string{
		New:        "New",
		Learning:   "Learning",
		Review:     "Review",
		Relearning: "Relearning",
	}
	for s, want := range cases {
		if got := s.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(s), got, want)
		}
	}
	if got := State(7).String(); got != "State(7)" {
		t.Errorf("invalid String() = %q, want State(7)", got)
	}
}

func TestStateShortTerm(t *testing.T) {
	if New.shortTerm() || Review.shortTerm() {
		t.Error("New and Review are not short-term states")
	}
	if !Learning.shortTerm() || !Relearning.shortTerm() {
		t.Error("Learning and Relearning are short-term states")
	}
}

func TestStateJSONRoundTrip(t *testing.T) {
	for _, s := range []State{New, Learning, Review, Relearning} {
		data, err := json.Marshal(s)
		if err != nil {
			t.Fatalf("Marshal(%v): %v", s, err)
		}
		var got State
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("Unmarshal(%s): %v", data, err)
		}
		if got != s {
			t.Errorf("round trip: got %v, want %v", got, s)
		}
	}
}

func TestStateJSONInvalid(t *testing.T) {
	if _, err := json.Marshal(State(7)); err == nil {
		t.Error("Marshal should reject an invalid state")
	}
	var s State
	if err := json.Unmarshal([]byte(`"Suspended"`), &s); err == nil {
		t.Error("Unmarshal should reject an unknown name")
	}
}
