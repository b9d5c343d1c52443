package rng

import (
	"testing"
)

func TestSeededDeterminism(t *testing.T) {
	a := New(42)
	b := New(42)

	for i := 0; i < 100; i++ {
		if a.IntN(1000) != b.IntN(1000) {
			t.Fatalf("sources with the same seed diverged at draw %d", i)
		}
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	src := New(7)
	items := []int{0, 1, 2, 3, 4, 5, 6, 7}

	Shuffle(src, len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })

	seen := make(map[int]bool)
	for _, v := range items {
		if seen[v] {
			t.Fatalf("value %d appears twice after shuffle: %v", v, items)
		}
		seen[v] = true
	}
	if len(seen) != 8 {
		t.Errorf("shuffle lost elements: %v", items)
	}
}

func TestWeighted(t *testing.T) {
	tests := []struct {
		name     string
		roll     int
		weights  []int
		expected int
	}{
		{"first bucket", 0, []int{70, 20, 7, 2, 1}, 0},
		{"last of first bucket", 69, []int{70, 20, 7, 2, 1}, 0},
		{"second bucket", 70, []int{70, 20, 7, 2, 1}, 1},
		{"final bucket", 99, []int{70, 20, 7, 2, 1}, 4},
		{"zero weight skipped", 0, []int{0, 5}, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			src := NewScripted(nil, []int{tc.roll})
			if got := Weighted(src, tc.weights); got != tc.expected {
				t.Errorf("Weighted(roll=%d) = %d, expected %d", tc.roll, got, tc.expected)
			}
		})
	}

	if got := Weighted(New(1), []int{0, 0}); got != -1 {
		t.Errorf("Weighted with no positive weight = %d, expected -1", got)
	}
}

func TestInsideUnitCircle(t *testing.T) {
	src := New(3)
	for i := 0; i < 500; i++ {
		if p := InsideUnitCircle(src); p.Len() > 1 {
			t.Fatalf("point %v outside the unit circle", p)
		}
	}
}

func TestRangeAndChance(t *testing.T) {
	src := NewScripted([]float64{0.19, 0.2, 0.5}, []int{3})

	if !Chance(src, 0.2) {
		t.Error("0.19 < 0.2 should pass Chance")
	}
	if Chance(src, 0.2) {
		t.Error("0.2 should fail Chance(0.2)")
	}
	if got := RangeF(src, 1, 3); got != 2 {
		t.Errorf("RangeF = %f, expected 2", got)
	}
	if got := Range(src, 1, 5); got != 4 {
		t.Errorf("Range = %d, expected 4", got)
	}
	if got := Range(src, 3, 3); got != 3 {
		t.Errorf("empty Range = %d, expected lower bound", got)
	}
}
