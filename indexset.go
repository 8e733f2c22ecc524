package reta

import (
	"slices"

	"github.com/samber/lo"
)

// IndexSet is a set of row or column indices. Iteration through [IndexSet.Values]
// is always ascending. The zero value is an empty set ready to use.
type IndexSet struct {
	m map[int]struct{}
}

// NewIndexSet returns a set holding values.
func NewIndexSet(values ...int) IndexSet {
	s := IndexSet{m: make(map[int]struct{}, len(values))}
	for _, v := range values {
		s.m[v] = struct{}{}
	}
	return s
}

// Span returns the set from..to inclusive. It is empty when to < from.
func Span(from, to int) IndexSet {
	s := IndexSet{m: make(map[int]struct{})}
	for i := from; i <= to; i++ {
		s.m[i] = struct{}{}
	}
	return s
}

func (s *IndexSet) Add(values ...int) {
	if s.m == nil {
		s.m = make(map[int]struct{}, len(values))
	}
	for _, v := range values {
		s.m[v] = struct{}{}
	}
}

func (s *IndexSet) Remove(values ...int) {
	for _, v := range values {
		delete(s.m, v)
	}
}

func (s IndexSet) Has(v int) bool {
	_, ok := s.m[v]
	return ok
}

func (s IndexSet) Len() int { return len(s.m) }

func (s IndexSet) Empty() bool { return len(s.m) == 0 }

// Values returns the members in ascending order.
func (s IndexSet) Values() []int {
	values := lo.Keys(s.m)
	slices.Sort(values)
	return values
}

// Max returns the largest member, or 0 for an empty set.
func (s IndexSet) Max() int {
	if len(s.m) == 0 {
		return 0
	}
	return lo.Max(lo.Keys(s.m))
}

func (s IndexSet) Clone() IndexSet {
	out := IndexSet{m: make(map[int]struct{}, len(s.m))}
	for v := range s.m {
		out.m[v] = struct{}{}
	}
	return out
}

func (s IndexSet) Union(o IndexSet) IndexSet {
	out := s.Clone()
	for v := range o.m {
		out.m[v] = struct{}{}
	}
	return out
}

func (s IndexSet) Intersect(o IndexSet) IndexSet {
	out := IndexSet{m: make(map[int]struct{})}
	for v := range s.m {
		if o.Has(v) {
			out.m[v] = struct{}{}
		}
	}
	return out
}

func (s IndexSet) Difference(o IndexSet) IndexSet {
	out := IndexSet{m: make(map[int]struct{})}
	for v := range s.m {
		if !o.Has(v) {
			out.m[v] = struct{}{}
		}
	}
	return out
}

// Filter returns the members for which keep reports true.
func (s IndexSet) Filter(keep func(int) bool) IndexSet {
	out := IndexSet{m: make(map[int]struct{})}
	for v := range s.m {
		if keep(v) {
			out.m[v] = struct{}{}
		}
	}
	return out
}

func (s IndexSet) Equal(o IndexSet) bool {
	if len(s.m) != len(o.m) {
		return false
	}
	for v := range s.m {
		if !o.Has(v) {
			return false
		}
	}
	return true
}
