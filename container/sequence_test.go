package container

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSequenceOrderSensitivity(t *testing.T) {
	a, err := NewSequence(Int(1), Int(2))
	require.NoError(t, err)
	b, err := NewSequence(Int(2), Int(1))
	require.NoError(t, err)
	require.False(t, a.Equals(b))
	require.NotEqual(t, a.HashCode(), b.HashCode())

	c, err := NewSequence(Int(1), Int(2))
	require.NoError(t, err)
	require.True(t, a.Equals(c))
	require.Equal(t, a.HashCode(), c.HashCode())
}

func TestSequenceMutation(t *testing.T) {
	s, err := NewSequence(Int(1))
	require.NoError(t, err)
	require.NoError(t, s.Append(Int(2)))
	require.NoError(t, s.SetAt(0, String("x")))
	require.Equal(t, 2, s.Size())
	v, ok := s.Get(0)
	require.True(t, ok)
	require.Equal(t, String("x"), v)

	require.ErrorIs(t, s.SetAt(5, Int(1)), ErrInvalidValue)
}

func TestSequenceFreezeOnHash(t *testing.T) {
	s, err := NewSequence(Int(1))
	require.NoError(t, err)
	s.HashCode()
	require.True(t, s.Frozen())
	require.ErrorIs(t, s.Append(Int(2)), ErrFrozenMutation)
	require.ErrorIs(t, s.SetAt(0, Int(2)), ErrFrozenMutation)

	c := s.MutableCopy()
	require.NoError(t, c.Append(Int(2)))
	require.Equal(t, 1, s.Size())
	require.Equal(t, 2, c.Size())
}

func TestSequenceFreezeIsTransitive(t *testing.T) {
	inner, err := NewSequence(Int(1))
	require.NoError(t, err)
	outer, err := NewSequence(inner)
	require.NoError(t, err)
	require.False(t, inner.Frozen(), "sequence nesting alone does not freeze")
	outer.HashCode()
	require.True(t, inner.Frozen())
	require.ErrorIs(t, inner.Append(Int(2)), ErrFrozenMutation)
}

func TestSequenceSelfAppend(t *testing.T) {
	s, err := NewSequence()
	require.NoError(t, err)
	require.ErrorIs(t, s.Append(s), ErrCycleViolation)
}

func TestSequenceString(t *testing.T) {
	s, err := NewSequence(Int(1), String("a"))
	require.NoError(t, err)
	require.Equal(t, `Sequence[1, "a"]`, s.String())
}
