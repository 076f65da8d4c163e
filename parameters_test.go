package fsrs

import (
	"errors"
	"testing"
)

func TestDefaultParameters(t *testing.T) {
	p := DefaultParameters()
	if p.W != DefaultWeights {
		t.Error("W should be DefaultWeights")
	}
	assertFloat(t, "RequestRetention", p.RequestRetention, 0.9)
	if p.MaximumInterval != 36500 {
		t.Errorf("MaximumInterval = %d, want 36500", p.MaximumInterval)
	}
	if p.EnableFuzz {
		t.Error("EnableFuzz should default to false")
	}
	if !p.EnableShortTerm {
		t.Error("EnableShortTerm should default to true")
	}
	if err := p.Validate(); err != nil {
		t.Errorf("DefaultParameters should validate: %v", err)
	}
}

func TestValidateWeights(t *testing.T) {
	if err := ValidateWeights(DefaultWeights); err != nil {
		t.Errorf("DefaultWeights should validate: %v", err)
	}

	w := DefaultWeights
	w[0] = -1.0
	if err := ValidateWeights(w); !errors.Is(err, ErrInvalidParameters) {
		t.Errorf("err = %v, want ErrInvalidParameters", err)
	}

	w = DefaultWeights
	w[7] = 0.9 // above upper bound 0.75
	if err := ValidateWeights(w); !errors.Is(err, ErrInvalidParameters) {
		t.Errorf("err = %v, want ErrInvalidParameters", err)
	}
}

func TestParametersValidateRetention(t *testing.T) {
	p := DefaultParameters()

	p.RequestRetention = 1.0 // boundary: accepted
	if err := p.Validate(); err != nil {
		t.Errorf("retention 1.0 should validate: %v", err)
	}

	for _, r := range []float64{0, -0.5, 1.1} {
		p.RequestRetention = r
		if err := p.Validate(); !errors.Is(err, ErrInvalidRetention) {
			t.Errorf("retention %v err = %v, want ErrInvalidRetention", r, err)
		}
	}
}

func TestParametersValidateMaxInterval(t *testing.T) {
	p := DefaultParameters()
	p.MaximumInterval = 0
	if err := p.Validate(); !errors.Is(err, ErrInvalidParameters) {
		t.Errorf("err = %v, want ErrInvalidParameters", err)
	}
	p.MaximumInterval = 1
	if err := p.Validate(); err != nil {
		t.Errorf("max interval 1 should validate: %v", err)
	}
}

// --- Store ---

func TestNewStoreRejectsInvalid(t *testing.T) {
	p := DefaultParameters()
	p.RequestRetention = 0
	if _, err := NewStore(p); err == nil {
		t.Error("NewStore should reject invalid parameters")
	}
}

func TestStoreUpdateKeepsOldOnError(t *testing.T) {
	st, err := NewStore(DefaultParameters())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	bad := DefaultParameters()
	bad.RequestRetention = 2.0
	if err := st.Update(bad); err == nil {
		t.Fatal("Update should reject invalid parameters")
	}

	// The previous set is still in place.
	got := st.Params()
	assertFloat(t, "RequestRetention", got.RequestRetention, 0.9)
}

func TestStoreUpdateSwapsWhole(t *testing.T) {
	st, err := NewStore(DefaultParameters())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	next := DefaultParameters()
	next.RequestRetention = 0.8
	next.MaximumInterval = 365
	if err := st.Update(next); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got := st.Params()
	assertFloat(t, "RequestRetention", got.RequestRetention, 0.8)
	if got.MaximumInterval != 365 {
		t.Errorf("MaximumInterval = %d, want 365", got.MaximumInterval)
	}

	// The derived modifier follows the new retention.
	want, _ := CalculateIntervalModifier(0.8)
	assertFloat(t, "IntervalModifier", st.IntervalModifier(), want)
}

func TestStoreIntervalModifierDefault(t *testing.T) {
	st, err := NewStore(DefaultParameters())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	assertFloat(t, "IntervalModifier", st.IntervalModifier(), 1.0)
}
