package container

import (
	"fmt"
	"iter"
	"math/rand"
	"strings"

	umath "github.com/deepvalue/deepset/utils/math"
)

const (
	minTableSize = 8

	// DefaultPowersetMax bounds Powerset: 2^20 subsets is already a
	// million allocations, anything past that must be asked for
	// explicitly via PowersetWithin.
	DefaultPowersetMax = 20
)

// Set holds unique elements with value semantics: two sets are equal iff
// their contents are recursively equal, independent of insertion order.
//
// Storage is a structure-of-arrays open-addressing table: a dense array
// of live elements (with their hashes) for O(n) iteration and export,
// plus a sparse index of bucket -> dense position mappings probed
// linearly at a 0.75 load factor.
type Set struct {
	elems  []Value
	hashes []uint32
	index  []int32 // bucket -> dense index + 1; 0 means empty
	mask   uint32
	frozen bool
	hashed bool
	hash   uint32
}

// NewSet returns an empty mutable set.
func NewSet() *Set { return NewSetWithCapacity(0) }

// NewSetWithCapacity returns an empty mutable set sized to hold n
// elements without growing.
func NewSetWithCapacity(n int) *Set {
	size := minTableSize
	if n > 0 {
		if s := umath.NextPow2(umath.DivCeil(n*4, 3)); s > size {
			size = s
		}
	}
	return &Set{
		elems:  make([]Value, 0, n),
		hashes: make([]uint32, 0, n),
		index:  make([]int32, size),
		mask:   uint32(size - 1),
	}
}

// NewSetOf builds a mutable set from values. Duplicates collapse.
func NewSetOf(values ...Value) (*Set, error) {
	s := NewSetWithCapacity(len(values))
	for _, v := range values {
		if err := s.Add(v); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Set) Size() int { return len(s.elems) }

func (s *Set) IsEmpty() bool { return len(s.elems) == 0 }

func (s *Set) Frozen() bool { return s.frozen }

// Freeze permanently disallows mutation. Container elements were already
// frozen when they were added (insertion hashes them), so only the
// receiver's flag flips.
func (s *Set) Freeze() { s.frozen = true }

// HashCode returns the content hash and freezes the set. Element hashes
// are combined with an order-independent XOR fold, so two structurally
// equal sets built in different insertion orders hash identically.
func (s *Set) HashCode() uint32 {
	s.Freeze()
	if !s.hashed {
		fold := uint32(0)
		for _, h := range s.hashes {
			fold ^= h
		}
		s.hash = mix32(fold ^ setSeed)
		s.hashed = true
	}
	return s.hash
}

// find probes linearly from the element's home bucket. It returns the
// bucket where probing stopped and the dense position of the matching
// element, or -1 if absent (the bucket is then the insertion slot).
func (s *Set) find(v Value, h uint32) (bucket uint32, dense int) {
	b := h & s.mask
	for {
		slot := s.index[b]
		if slot == 0 {
			return b, -1
		}
		if d := int(slot - 1); s.hashes[d] == h && Equal(s.elems[d], v) {
			return b, d
		}
		b = (b + 1) & s.mask
	}
}

func (s *Set) grow() {
	size := len(s.index) * 2
	s.index = make([]int32, size)
	s.mask = uint32(size - 1)
	for d, h := range s.hashes {
		b := h & s.mask
		for s.index[b] != 0 {
			b = (b + 1) & s.mask
		}
		s.index[b] = int32(d + 1)
	}
}

// addKnown inserts a value this package already validated, growing the
// table when the next insertion would cross the load factor.
func (s *Set) addKnown(v Value, h uint32) {
	if len(s.elems)+1 > umath.DivFloor(len(s.index)*3, 4) {
		s.grow()
	}
	b, d := s.find(v, h)
	if d >= 0 {
		return // sets are idempotent
	}
	s.elems = append(s.elems, v)
	s.hashes = append(s.hashes, h)
	s.index[b] = int32(len(s.elems))
}

// Add inserts v. Adding an element already present is a no-op. A
// container element is frozen at the moment of insertion: computing its
// hash here pins the content its bucket was derived from.
func (s *Set) Add(v Value) error {
	if s.frozen {
		return frozenErr(KindSet, "Add")
	}
	if err := validateValue("Add", v); err != nil {
		return err
	}
	if reaches(v, s) {
		return fmt.Errorf("%w: Add would make the set a member of itself", ErrCycleViolation)
	}
	s.addKnown(v, HashOf(v))
	return nil
}

// Remove deletes v if present, reporting whether it was. The probe chain
// is repaired by backward-shift deletion instead of tombstoning, and the
// dense array stays hole-free via swap-and-pop, so removal is O(1)
// amortized and probe lengths do not degrade over successive deletions.
func (s *Set) Remove(v Value) (bool, error) {
	if s.frozen {
		return false, frozenErr(KindSet, "Remove")
	}
	if validateValue("Remove", v) != nil {
		return false, nil // nil or non-finite values are never members
	}
	b, d := s.find(v, HashOf(v))
	if d < 0 {
		return false, nil
	}
	s.unlink(b)
	s.popDense(d)
	return true, nil
}

// unlink empties bucket i, shifting forward-colliding entries back into
// the vacated slot so every surviving entry stays reachable from its
// home bucket.
func (s *Set) unlink(i uint32) {
	j := i
	for {
		j = (j + 1) & s.mask
		if s.index[j] == 0 {
			break
		}
		home := s.hashes[s.index[j]-1] & s.mask
		// The entry at j may only move back to i if its home bucket
		// does not lie cyclically within (i, j].
		var pinned bool
		if i <= j {
			pinned = i < home && home <= j
		} else {
			pinned = i < home || home <= j
		}
		if pinned {
			continue
		}
		s.index[i] = s.index[j]
		i = j
	}
	s.index[i] = 0
}

// popDense removes dense position d by moving the last element into it
// and retargeting that element's bucket.
func (s *Set) popDense(d int) {
	last := len(s.elems) - 1
	if d != last {
		s.elems[d] = s.elems[last]
		s.hashes[d] = s.hashes[last]
		b := s.hashes[d] & s.mask
		for s.index[b] != int32(last+1) {
			b = (b + 1) & s.mask
		}
		s.index[b] = int32(d + 1)
	}
	s.elems[last] = nil
	s.elems = s.elems[:last]
	s.hashes = s.hashes[:last]
}

// Has reports membership. Valid on both mutable and frozen sets.
func (s *Set) Has(v Value) bool {
	if validateValue("Has", v) != nil {
		return false
	}
	_, d := s.find(v, HashOf(v))
	return d >= 0
}

// Clear removes every element.
func (s *Set) Clear() error {
	if s.frozen {
		return frozenErr(KindSet, "Clear")
	}
	s.elems = s.elems[:0]
	s.hashes = s.hashes[:0]
	s.index = make([]int32, minTableSize)
	s.mask = minTableSize - 1
	return nil
}

// Equals reports recursive content equality. It never freezes either
// operand: lookups reuse the hashes cached at insertion time.
func (s *Set) Equals(other *Set) bool {
	if s == other {
		return true
	}
	if len(s.elems) != len(other.elems) {
		return false
	}
	if s.hashed && other.hashed && s.hash != other.hash {
		return false
	}
	for d, e := range s.elems {
		if _, od := other.find(e, s.hashes[d]); od < 0 {
			return false
		}
	}
	return true
}

// MutableCopy returns an independent mutable set with the same elements.
// Backing arrays are copied, never shared: aliasing would let one set's
// mutation corrupt another's cached hash.
func (s *Set) MutableCopy() *Set {
	c := &Set{
		elems:  make([]Value, len(s.elems)),
		hashes: make([]uint32, len(s.hashes)),
		index:  make([]int32, len(s.index)),
		mask:   s.mask,
	}
	copy(c.elems, s.elems)
	copy(c.hashes, s.hashes)
	copy(c.index, s.index)
	return c
}

// Union returns a new mutable set holding every element of s and other.
// Neither operand is mutated.
func (s *Set) Union(other *Set) *Set {
	res := s.MutableCopy()
	for d, e := range other.elems {
		res.addKnown(e, other.hashes[d])
	}
	return res
}

// Intersect returns a new mutable set holding the elements present in
// both s and other.
func (s *Set) Intersect(other *Set) *Set {
	small, large := s, other
	if large.Size() < small.Size() {
		small, large = large, small
	}
	res := NewSetWithCapacity(small.Size())
	for d, e := range small.elems {
		if _, od := large.find(e, small.hashes[d]); od >= 0 {
			res.addKnown(e, small.hashes[d])
		}
	}
	return res
}

// Difference returns a new mutable set holding the elements of s that
// are not in other.
func (s *Set) Difference(other *Set) *Set {
	res := NewSetWithCapacity(s.Size())
	for d, e := range s.elems {
		if _, od := other.find(e, s.hashes[d]); od < 0 {
			res.addKnown(e, s.hashes[d])
		}
	}
	return res
}

// SymmetricDifference returns a new mutable set holding the elements in
// exactly one of s and other.
func (s *Set) SymmetricDifference(other *Set) *Set {
	res := s.Difference(other)
	for d, e := range other.elems {
		if _, sd := s.find(e, other.hashes[d]); sd < 0 {
			res.addKnown(e, other.hashes[d])
		}
	}
	return res
}

// IsSubset reports whether every element of s is in other.
func (s *Set) IsSubset(other *Set) bool {
	if len(s.elems) > len(other.elems) {
		return false
	}
	for d, e := range s.elems {
		if _, od := other.find(e, s.hashes[d]); od < 0 {
			return false
		}
	}
	return true
}

// IsSuperset reports whether every element of other is in s.
func (s *Set) IsSuperset(other *Set) bool { return other.IsSubset(s) }

// CartesianProduct returns the set of all (a, b) tuples with a in s and
// b in other. Tuples are order-sensitive, so no pair collapses and the
// result size is exactly |s|*|other|.
func (s *Set) CartesianProduct(other *Set) *Set {
	res := NewSetWithCapacity(s.Size() * other.Size())
	for _, a := range s.elems {
		for _, b := range other.elems {
			t := mustTuple(a, b)
			res.addKnown(t, t.hash)
		}
	}
	return res
}

// Powerset enumerates all 2^n subsets, bounded by DefaultPowersetMax.
func (s *Set) Powerset() (*Set, error) {
	return s.PowersetWithin(DefaultPowersetMax)
}

// PowersetWithin enumerates all subsets by bitmask over the canonical
// element order. Sets larger than limit are rejected outright instead of
// silently allocating an exponential result.
func (s *Set) PowersetWithin(limit int) (*Set, error) {
	n := len(s.elems)
	if n > limit {
		return nil, fmt.Errorf("%w: powerset of %d elements exceeds bound %d", ErrCapacityExceeded, n, limit)
	}
	base := s.sortedElems()
	hs := make([]uint32, n)
	for i, e := range base {
		hs[i] = HashOf(e)
	}
	res := NewSetWithCapacity(1 << n)
	for bits := 0; bits < 1<<n; bits++ {
		sub := NewSet()
		for i := 0; i < n; i++ {
			if bits>>i&1 == 1 {
				sub.addKnown(base[i], hs[i])
			}
		}
		res.addKnown(sub, sub.HashCode())
	}
	return res, nil
}

// PickRandom returns a uniformly random element, or false when empty.
func (s *Set) PickRandom() (Value, bool) {
	if len(s.elems) == 0 {
		return nil, false
	}
	return s.elems[rand.Intn(len(s.elems))], true
}

func (s *Set) sortedElems() []Value {
	out := make([]Value, len(s.elems))
	copy(out, s.elems)
	sortValues(out)
	return out
}

// Entries returns the elements in canonical order.
func (s *Set) Entries() []Value { return s.sortedElems() }

// All iterates in canonical order over a snapshot taken at call time;
// mutations during iteration are invisible to that iteration.
func (s *Set) All() iter.Seq[Value] {
	snapshot := s.sortedElems()
	return func(yield func(Value) bool) {
		for _, e := range snapshot {
			if !yield(e) {
				return
			}
		}
	}
}

func (s *Set) String() string {
	var b strings.Builder
	b.WriteString("Set{")
	for i, e := range s.sortedElems() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(valueString(e))
	}
	b.WriteString("}")
	return b.String()
}
