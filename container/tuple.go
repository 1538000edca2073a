package container

import (
	"iter"
	"strings"
)

// Tuple is an immutable fixed-length ordered container, hashed once at
// construction. Positional order is part of its identity, which makes
// tuples suitable as composite keys such as (state, symbol) pairs.
type Tuple struct {
	elems []Value
	hash  uint32
}

// NewTuple builds a tuple from values, defensively copied. Construction
// computes the hash immediately, freezing any nested containers.
func NewTuple(values ...Value) (*Tuple, error) {
	elems := make([]Value, len(values))
	for i, v := range values {
		if err := validateValue("NewTuple", v); err != nil {
			return nil, err
		}
		elems[i] = v
	}
	t := &Tuple{elems: elems}
	t.hash = hashOrdered(tupleSeed, elems)
	return t, nil
}

// mustTuple is for values this package already validated.
func mustTuple(values ...Value) *Tuple {
	t, err := NewTuple(values...)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Tuple) Size() int { return len(t.elems) }

// Frozen is always true: tuples are born frozen.
func (t *Tuple) Frozen() bool { return true }

// Freeze is a no-op: construction already hashed (and so froze) every
// nested container.
func (t *Tuple) Freeze() {}

func (t *Tuple) HashCode() uint32 { return t.hash }

func (t *Tuple) Get(i int) (Value, bool) {
	if i < 0 || i >= len(t.elems) {
		return nil, false
	}
	return t.elems[i], true
}

// Entries returns a copy of the elements in positional order.
func (t *Tuple) Entries() []Value {
	out := make([]Value, len(t.elems))
	copy(out, t.elems)
	return out
}

func (t *Tuple) All() iter.Seq[Value] {
	return func(yield func(Value) bool) {
		for _, e := range t.elems {
			if !yield(e) {
				return
			}
		}
	}
}

// Equals requires equal length, equal hash, and pairwise-equal elements
// in order.
func (t *Tuple) Equals(other *Tuple) bool {
	if t == other {
		return true
	}
	if len(t.elems) != len(other.elems) || t.hash != other.hash {
		return false
	}
	for i := range t.elems {
		if !Equal(t.elems[i], other.elems[i]) {
			return false
		}
	}
	return true
}

func (t *Tuple) String() string {
	var b strings.Builder
	b.WriteString("Tuple(")
	for i, e := range t.elems {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(valueString(e))
	}
	b.WriteString(")")
	return b.String()
}
