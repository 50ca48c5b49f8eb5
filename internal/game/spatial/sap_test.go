package spatial

import (
	"math/rand"
	"slices"
	"testing"
)

func TestSweepAndPrunePairs(t *testing.T) {
	items := []Interval{
		{ID: 3, MinX: 0, MaxX: 2, MinZ: 0, MaxZ: 2},
		{ID: 1, MinX: 1, MaxX: 3, MinZ: 1, MaxZ: 3},
		{ID: 2, MinX: 1, MaxX: 3, MinZ: 5, MaxZ: 6}, // X overlap only
		{ID: 4, MinX: 3, MaxX: 4, MinZ: 2, MaxZ: 3}, // touches 1
	}

	got := NewSweepAndPrune(len(items)).Update(items)
	want := []Pair{{1, 3}, {1, 4}}
	if !slices.Equal(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

// TestSweepAndPruneMatchesBruteForce checks both sort modes against an
// all-pairs scan
func TestSweepAndPruneMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	items := make([]Interval, 60)
	for i := range items {
		x, z := rng.Float64()*40, rng.Float64()*24
		items[i] = Interval{ID: uint32(i), MinX: x, MaxX: x + 2, MinZ: z, MaxZ: z + 2}
	}

	var want []Pair
	for i := range items {
		for j := i + 1; j < len(items); j++ {
			a, b := items[i], items[j]
			if a.MinX <= b.MaxX && b.MinX <= a.MaxX && a.MinZ <= b.MaxZ && b.MinZ <= a.MaxZ {
				want = append(want, Pair{a.ID, b.ID})
			}
		}
	}

	for _, ins := range []bool{true, false} {
		s := NewSweepAndPrune(len(items))
		s.SetInsertionSort(ins)
		if got := s.Update(items); !slices.Equal(got, want) {
			t.Errorf("insertion=%v: expected %d pairs, got %d", ins, len(want), len(got))
		}
	}
}

func TestSweepAndPruneEmpty(t *testing.T) {
	if got := NewSweepAndPrune(0).Update(nil); len(got) != 0 {
		t.Errorf("Expected no pairs, got %v", got)
	}
}
