package container

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustSet(t *testing.T, values ...Value) *Set {
	t.Helper()
	s, err := NewSetOf(values...)
	require.NoError(t, err)
	return s
}

func TestSetInsertionOrderIndependence(t *testing.T) {
	require.True(t, mustSet(t, Int(1), Int(2)).Equals(mustSet(t, Int(2), Int(1))))

	nested1 := mustSet(t, mustSet(t, Int(1), Int(2)), mustSet(t, Int(3)))
	nested2 := mustSet(t, mustSet(t, Int(3)), mustSet(t, Int(2), Int(1)))
	require.True(t, nested1.Equals(nested2))
}

func TestSetAddIsIdempotent(t *testing.T) {
	s := NewSet()
	require.NoError(t, s.Add(Int(1)))
	require.NoError(t, s.Add(Int(1)))
	require.Equal(t, 1, s.Size())

	// numerically equal values collapse across kinds
	require.NoError(t, s.Add(Float(1)))
	require.Equal(t, 1, s.Size())
}

func TestSetHasAcrossIdentities(t *testing.T) {
	inner := mustSet(t, Int(1), Int(2))
	s := mustSet(t, inner, String("x"))
	probe := mustSet(t, Int(2), Int(1)) // fresh instance, same content
	require.True(t, s.Has(probe))
	require.True(t, s.Has(String("x")))
	require.False(t, s.Has(Int(1)))
}

func TestSetRejectsNonFiniteNumbers(t *testing.T) {
	s := mustSet(t, Int(1))
	require.ErrorIs(t, s.Add(Float(math.NaN())), ErrInvalidValue)
	require.ErrorIs(t, s.Add(Float(math.Inf(1))), ErrInvalidValue)
	require.ErrorIs(t, s.Add(Float(math.Inf(-1))), ErrInvalidValue)
	require.ErrorIs(t, s.Add(nil), ErrInvalidValue)
	require.Equal(t, 1, s.Size())
}

func TestSetRejectsSelfMembership(t *testing.T) {
	s := NewSet()
	require.ErrorIs(t, s.Add(s), ErrCycleViolation)
	require.Equal(t, 0, s.Size())
	require.False(t, s.Frozen())

	seq, err := NewSequence(Int(1))
	require.NoError(t, err)
	require.NoError(t, s.Add(seq))
	require.ErrorIs(t, seq.Append(seq), ErrFrozenMutation)
}

func TestSetRemove(t *testing.T) {
	s := mustSet(t, Int(1), Int(2), Int(3))
	removed, err := s.Remove(Int(2))
	require.NoError(t, err)
	require.True(t, removed)
	require.Equal(t, 2, s.Size())
	require.False(t, s.Has(Int(2)))

	removed, err = s.Remove(Int(2))
	require.NoError(t, err)
	require.False(t, removed)
	require.Equal(t, 2, s.Size())
}

// Exercises growth, backward-shift deletion and swap-and-pop against a
// plain map oracle across a long randomized add/remove workload.
func TestSetAddRemoveStress(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	s := NewSet()
	oracle := make(map[int64]bool)
	for i := 0; i < 5000; i++ {
		k := r.Int63n(300)
		if r.Intn(3) == 0 {
			removed, err := s.Remove(Int(k))
			require.NoError(t, err)
			require.Equal(t, oracle[k], removed)
			delete(oracle, k)
		} else {
			require.NoError(t, s.Add(Int(k)))
			oracle[k] = true
		}
	}
	require.Equal(t, len(oracle), s.Size())
	for k := range oracle {
		require.True(t, s.Has(Int(k)), "missing %d", k)
	}
	for _, e := range s.Entries() {
		require.True(t, oracle[int64(e.(Int))])
	}
}

func TestSetUnionIntersectionSizeLaw(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for i := 0; i < 50; i++ {
		a, b := NewSet(), NewSet()
		for j := 0; j < 30; j++ {
			require.NoError(t, a.Add(Int(r.Int63n(40))))
			require.NoError(t, b.Add(Int(r.Int63n(40))))
		}
		union := a.Union(b)
		inter := a.Intersect(b)
		require.Equal(t, a.Size()+b.Size()-inter.Size(), union.Size())
		require.True(t, inter.IsSubset(a))
		require.True(t, inter.IsSubset(b))
		require.True(t, union.IsSuperset(a))
		require.True(t, union.IsSuperset(b))
	}
}

func TestSetSymmetricDifference(t *testing.T) {
	a := mustSet(t, Int(1), Int(2), Int(3))
	b := mustSet(t, Int(3), Int(4))
	sym := a.SymmetricDifference(b)
	require.True(t, sym.Equals(a.Difference(b).Union(b.Difference(a))))
	require.True(t, sym.Equals(mustSet(t, Int(1), Int(2), Int(4))))
}

func TestSetAlgebraDoesNotMutateOperands(t *testing.T) {
	a := mustSet(t, Int(1), Int(2))
	b := mustSet(t, Int(2), Int(3))
	_ = a.Union(b)
	_ = a.Intersect(b)
	_ = a.Difference(b)
	_ = a.SymmetricDifference(b)
	require.Equal(t, 2, a.Size())
	require.Equal(t, 2, b.Size())
	require.False(t, a.Frozen())
	require.False(t, b.Frozen())
	// results are fresh and mutable
	require.NoError(t, a.Union(b).Add(Int(99)))
}

func TestSetCartesianProduct(t *testing.T) {
	a := mustSet(t, Int(1), Int(2), Int(3))
	b := mustSet(t, String("x"), String("y"))
	prod := a.CartesianProduct(b)
	require.Equal(t, a.Size()*b.Size(), prod.Size())
	for _, e := range prod.Entries() {
		pair, ok := e.(*Tuple)
		require.True(t, ok)
		require.Equal(t, 2, pair.Size())
		first, _ := pair.Get(0)
		second, _ := pair.Get(1)
		require.True(t, a.Has(first))
		require.True(t, b.Has(second))
	}
}

func TestSetPowerset(t *testing.T) {
	s := mustSet(t, Int(1), Int(2), Int(3))
	ps, err := s.Powerset()
	require.NoError(t, err)
	require.Equal(t, 8, ps.Size())
	require.True(t, ps.Has(NewSet()))
	require.True(t, ps.Has(s))
	require.True(t, ps.Has(mustSet(t, Int(1), Int(3))))
}

func TestSetPowersetBound(t *testing.T) {
	s := NewSet()
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Add(Int(int64(i))))
	}
	_, err := s.PowersetWithin(4)
	require.ErrorIs(t, err, ErrCapacityExceeded)

	ps, err := s.PowersetWithin(5)
	require.NoError(t, err)
	require.Equal(t, 32, ps.Size())
}

func TestSetFreezeOnHash(t *testing.T) {
	s := mustSet(t, Int(1))
	require.False(t, s.Frozen())
	s.HashCode()
	require.True(t, s.Frozen())

	require.ErrorIs(t, s.Add(Int(2)), ErrFrozenMutation)
	_, err := s.Remove(Int(1))
	require.ErrorIs(t, err, ErrFrozenMutation)
	require.ErrorIs(t, s.Clear(), ErrFrozenMutation)
	require.Equal(t, 1, s.Size())

	// reads stay legal
	require.True(t, s.Has(Int(1)))
	_, ok := s.PickRandom()
	require.True(t, ok)
}

func TestSetFrozenErrorNamesOperation(t *testing.T) {
	s := mustSet(t, Int(1))
	s.Freeze()
	err := s.Add(Int(2))
	require.ErrorContains(t, err, "Set.Add")
	require.ErrorContains(t, err, "MutableCopy")
}

func TestSetElementsFreezeAtInsertion(t *testing.T) {
	inner := mustSet(t, Int(1))
	outer := mustSet(t, inner)
	require.True(t, inner.Frozen(), "elements freeze when inserted, not at first hash read")
	require.ErrorIs(t, inner.Add(Int(2)), ErrFrozenMutation)
	require.False(t, outer.Frozen())
}

func TestSetMutableCopyIsIndependent(t *testing.T) {
	s := mustSet(t, Int(1))
	s.HashCode()
	c := s.MutableCopy()
	require.False(t, c.Frozen())
	require.NoError(t, c.Add(Int(2)))
	require.Equal(t, 2, c.Size())
	require.Equal(t, 1, s.Size())
	require.False(t, s.Has(Int(2)))
}

func TestSetEntriesAreCanonicallyOrdered(t *testing.T) {
	s := mustSet(t, String("b"), Int(3), Int(1), String("a"), Float(2.5))
	entries := s.Entries()
	require.Equal(t, []Value{Int(1), Float(2.5), Int(3), String("a"), String("b")}, entries)
}

func TestSetIterationIsSnapshot(t *testing.T) {
	s := mustSet(t, Int(1), Int(2), Int(3))
	var seen []Value
	for e := range s.All() {
		require.NoError(t, s.Add(Int(100+int64(e.(Int)))))
		seen = append(seen, e)
	}
	require.Len(t, seen, 3)
	require.Equal(t, 6, s.Size())
}

func TestSetPickRandomReturnsMember(t *testing.T) {
	s := mustSet(t, Int(1), Int(2), Int(3))
	for i := 0; i < 20; i++ {
		v, ok := s.PickRandom()
		require.True(t, ok)
		require.True(t, s.Has(v))
	}
	_, ok := NewSet().PickRandom()
	require.False(t, ok)
}

func TestSetClear(t *testing.T) {
	s := mustSet(t, Int(1), Int(2))
	require.NoError(t, s.Clear())
	require.True(t, s.IsEmpty())
	require.NoError(t, s.Add(Int(1)))
	require.Equal(t, 1, s.Size())
}

func TestSetString(t *testing.T) {
	s := mustSet(t, Int(2), Int(1), String("a"))
	require.Equal(t, `Set{1, 2, "a"}`, s.String())
}

func TestFailedOperationLeavesSetUnchanged(t *testing.T) {
	s := mustSet(t, Int(1))
	require.Error(t, s.Add(Float(math.NaN())))
	require.Error(t, s.Add(s))
	require.True(t, s.Equals(mustSet(t, Int(1))))
	require.False(t, s.Frozen())
}

func TestFrozenSentinelMatching(t *testing.T) {
	s := mustSet(t, Int(1))
	s.Freeze()
	err := s.Add(Int(2))
	require.True(t, errors.Is(err, ErrFrozenMutation))
}
