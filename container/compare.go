package container

import (
	"math"
	"sort"
)

// typeRank partitions the universe for ordering: numbers < strings <
// containers. Int and Float share a rank because they compare
// numerically.
func typeRank(v Value) int {
	switch v.Kind() {
	case KindInt, KindFloat:
		return 0
	case KindString:
		return 1
	default:
		return 2
	}
}

// containerRank is the fixed tie-break order across container kinds.
func containerRank(k Kind) int {
	switch k {
	case KindSequence:
		return 0
	case KindTuple:
		return 1
	case KindSet:
		return 2
	default: // KindMap
		return 3
	}
}

// Compare imposes a total order over the value universe, used for
// canonical iteration and deterministic collision tie-breaking.
// Containers are ordered by cached hash first, then by kind rank, then
// by deep structural comparison; comparing a container therefore
// computes its hash and freezes it.
//
// The order is reflexive, antisymmetric, transitive and total over all
// legal values; Compare(a, b) == 0 exactly when Equal(a, b).
func Compare(a, b Value) int {
	if ra, rb := typeRank(a), typeRank(b); ra != rb {
		return ra - rb
	}
	switch a.Kind() {
	case KindInt, KindFloat:
		return compareNumbers(a, b)
	case KindString:
		as, bs := a.(String), b.(String)
		switch {
		case as < bs:
			return -1
		case as > bs:
			return 1
		}
		return 0
	}
	ca, cb := a.(Container), b.(Container)
	if ha, hb := ca.HashCode(), cb.HashCode(); ha != hb {
		if ha < hb {
			return -1
		}
		return 1
	}
	if ra, rb := containerRank(a.Kind()), containerRank(b.Kind()); ra != rb {
		return ra - rb
	}
	return compareStructural(ca, cb)
}

// Equal reports recursive content equality. Unlike Compare it never
// hashes, so it is safe on mutable containers.
func Equal(a, b Value) bool {
	if typeRank(a) != typeRank(b) {
		return false
	}
	switch a.Kind() {
	case KindInt, KindFloat:
		return compareNumbers(a, b) == 0
	case KindString:
		return a.(String) == b.(String)
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch a := a.(type) {
	case *Sequence:
		return a.Equals(b.(*Sequence))
	case *Tuple:
		return a.Equals(b.(*Tuple))
	case *Set:
		return a.Equals(b.(*Set))
	default:
		return a.(*Map).Equals(b.(*Map))
	}
}

// compareNumbers orders Int and Float numerically and exactly: large
// int64 values are never round-tripped through float64, so transitivity
// holds beyond 2^53.
func compareNumbers(a, b Value) int {
	ai, aInt := a.(Int)
	bi, bInt := b.(Int)
	switch {
	case aInt && bInt:
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		}
		return 0
	case aInt:
		return compareIntFloat(int64(ai), float64(b.(Float)))
	case bInt:
		return -compareIntFloat(int64(bi), float64(a.(Float)))
	default:
		af, bf := float64(a.(Float)), float64(b.(Float))
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		}
		return 0
	}
}

// compareIntFloat compares an int64 with a finite float64 exactly.
func compareIntFloat(i int64, f float64) int {
	// 2^63 and -2^63 are exactly representable as float64.
	if f >= 9223372036854775808.0 {
		return -1
	}
	if f < -9223372036854775808.0 {
		return 1
	}
	t := math.Trunc(f)
	ti := int64(t)
	switch {
	case i < ti:
		return -1
	case i > ti:
		return 1
	case f > t: // positive fraction dropped by Trunc
		return -1
	case f < t: // negative fraction
		return 1
	}
	return 0
}

// compareStructural breaks ties between same-kind containers whose
// hashes collide: size first, then corresponding elements of each
// container's canonical element sequence.
func compareStructural(a, b Container) int {
	if d := a.Size() - b.Size(); d != 0 {
		return d
	}
	switch a := a.(type) {
	case *Sequence:
		return compareOrdered(a.elems, b.(*Sequence).elems)
	case *Tuple:
		return compareOrdered(a.elems, b.(*Tuple).elems)
	case *Set:
		return compareOrdered(a.sortedElems(), b.(*Set).sortedElems())
	default:
		am, bm := a.(*Map), b.(*Map)
		ak, bk := am.sortedIndices(), bm.sortedIndices()
		for i := range ak {
			if c := Compare(am.keys[ak[i]], bm.keys[bk[i]]); c != 0 {
				return c
			}
		}
		for i := range ak {
			if c := Compare(am.vals[ak[i]], bm.vals[bk[i]]); c != 0 {
				return c
			}
		}
		return 0
	}
}

func compareOrdered(a, b []Value) int {
	for i := range a {
		if c := Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return 0
}

// sortValues sorts into canonical order, in place.
func sortValues(vs []Value) {
	sort.Slice(vs, func(i, j int) bool { return Compare(vs[i], vs[j]) < 0 })
}
