package spatial

import "sort"

// SweepAndPrune finds overlapping boxes by sweeping their X intervals.
// Insertion sort is the default; it wins on the small sets an arena holds.
type SweepAndPrune struct {
	endpoints  []endpoint
	pairs      []Pair
	active     []uint32
	useInsSort bool
}

type endpoint struct {
	value float64
	id    uint32
	isMin bool
}

// Interval is one object's extent on the sweep axis. Z bounds are checked
// before a pair is reported.
type Interval struct {
	ID         uint32
	MinX, MaxX float64
	MinZ, MaxZ float64
}

// Pair is two ids whose boxes overlap, with A < B.
type Pair struct {
	A, B uint32
}

func NewSweepAndPrune(capacity int) *SweepAndPrune {
	return &SweepAndPrune{
		endpoints:  make([]endpoint, 0, capacity*2),
		pairs:      make([]Pair, 0, capacity),
		active:     make([]uint32, 0, capacity/4+1),
		useInsSort: true,
	}
}

// Update returns every overlapping pair among items. The returned slice is
// reused on subsequent calls.
func (s *SweepAndPrune) Update(items []Interval) []Pair {
	s.pairs = s.pairs[:0]
	s.endpoints = s.endpoints[:0]

	byID := make(map[uint32]Interval, len(items))
	for _, it := range items {
		byID[it.ID] = it
		s.endpoints = append(s.endpoints,
			endpoint{it.MinX, it.ID, true},
			endpoint{it.MaxX, it.ID, false},
		)
	}

	if s.useInsSort {
		insertionSort(s.endpoints)
	} else {
		sort.Slice(s.endpoints, func(i, j int) bool { return less(s.endpoints[i], s.endpoints[j]) })
	}

	s.active = s.active[:0]
	for _, ep := range s.endpoints {
		if !ep.isMin {
			for i, id := range s.active {
				if id == ep.id {
					s.active[i] = s.active[len(s.active)-1]
					s.active = s.active[:len(s.active)-1]
					break
				}
			}
			continue
		}
		a := byID[ep.id]
		for _, other := range s.active {
			b := byID[other]
			if a.MinZ > b.MaxZ || b.MinZ > a.MaxZ {
				continue
			}
			p := Pair{ep.id, other}
			if p.A > p.B {
				p.A, p.B = p.B, p.A
			}
			s.pairs = append(s.pairs, p)
		}
		s.active = append(s.active, ep.id)
	}

	sort.Slice(s.pairs, func(i, j int) bool {
		if s.pairs[i].A != s.pairs[j].A {
			return s.pairs[i].A < s.pairs[j].A
		}
		return s.pairs[i].B < s.pairs[j].B
	})
	return s.pairs
}

// SetInsertionSort switches between insertion sort and sort.Slice.
func (s *SweepAndPrune) SetInsertionSort(enabled bool) {
	s.useInsSort = enabled
}

// less orders by value, with starts before ends at equal values so that
// touching intervals count as overlapping.
func less(a, b endpoint) bool {
	if a.value != b.value {
		return a.value < b.value
	}
	return a.isMin && !b.isMin
}

func insertionSort(eps []endpoint) {
	for i := 1; i < len(eps); i++ {
		key := eps[i]
		j := i - 1
		for j >= 0 && less(key, eps[j]) {
			eps[j+1] = eps[j]
			j--
		}
		eps[j+1] = key
	}
}
