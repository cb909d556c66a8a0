package daemon

import (
	"testing"
	"time"
)

func TestDecayedValueAtFirstSolve(t *testing.T) {
	// Elapsed zero means the first solver gets the full initial value.
	if got := decayedValue(10000, 60000, 0); got != 10000 {
		t.Errorf("expected 10000, got %d", got)
	}
}

func TestDecayedValueAfterOneHalfLife(t *testing.T) {
	if got := decayedValue(10000, 60, 60); got != 5000 {
		t.Errorf("expected 5000, got %d", got)
	}
}

func TestDecayedValueAfterTwoHalfLives(t *testing.T) {
	if got := decayedValue(10000, 60, 120); got != 2500 {
		t.Errorf("expected 2500, got %d", got)
	}
}

func TestDecayedValueFloors(t *testing.T) {
	// 1001 * 0.5^1 = 500.5, floored to 500
	if got := decayedValue(1001, 60, 60); got != 500 {
		t.Errorf("expected 500, got %d", got)
	}
}

func TestDecayedValueNeverIncreases(t *testing.T) {
	prev := decayedValue(10000, 300, 0)
	for elapsed := float64(1); elapsed < 3600; elapsed += 37 {
		v := decayedValue(10000, 300, elapsed)
		if v > prev {
			t.Fatalf("value increased from %d to %d at elapsed %f", prev, v, elapsed)
		}
		if v < 0 {
			t.Fatalf("value went negative (%d) at elapsed %f", v, elapsed)
		}
		prev = v
	}
}

func TestLiveValueWithoutFirstSolve(t *testing.T) {
	// No first solve means decay has not started.
	if got := liveValue(500, 120, nil, time.Now()); got != 500 {
		t.Errorf("expected 500, got %d", got)
	}
}

func TestLiveValueAnchorsOnFirstSolve(t *testing.T) {
	first := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	now := first.Add(90 * time.Second)
	// 10000 * 0.5^(90/90) = 5000
	if got := liveValue(10000, 90, &first, now); got != 5000 {
		t.Errorf("expected 5000, got %d", got)
	}
}
