package container

import (
	"fmt"
	"iter"
	"strconv"
	"strings"
)

// Sequence is a mutable ordered list. Position matters: its hash is an
// order-dependent fold, and two sequences are equal only if their
// elements match pairwise in order.
type Sequence struct {
	elems  []Value
	frozen bool
	hashed bool
	hash   uint32
}

// NewSequence builds a mutable sequence from values, defensively copied.
func NewSequence(values ...Value) (*Sequence, error) {
	s := &Sequence{elems: make([]Value, 0, len(values))}
	for _, v := range values {
		if err := s.Append(v); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Sequence) Size() int { return len(s.elems) }

func (s *Sequence) Frozen() bool { return s.frozen }

// Freeze permanently disallows mutation. Nested containers are frozen
// too: their content participates in this sequence's identity.
func (s *Sequence) Freeze() {
	if s.frozen {
		return
	}
	s.frozen = true
	for _, e := range s.elems {
		freezeValue(e)
	}
}

func (s *Sequence) HashCode() uint32 {
	s.Freeze()
	if !s.hashed {
		s.hash = hashOrdered(sequenceSeed, s.elems)
		s.hashed = true
	}
	return s.hash
}

func (s *Sequence) Append(v Value) error {
	if s.frozen {
		return frozenErr(KindSequence, "Append")
	}
	if err := validateValue("Append", v); err != nil {
		return err
	}
	if reaches(v, s) {
		return fmt.Errorf("%w: Append would make the sequence reachable from itself", ErrCycleViolation)
	}
	s.elems = append(s.elems, v)
	return nil
}

// SetAt replaces the element at position i.
func (s *Sequence) SetAt(i int, v Value) error {
	if s.frozen {
		return frozenErr(KindSequence, "SetAt")
	}
	if i < 0 || i >= len(s.elems) {
		return fmt.Errorf("%w: SetAt: index %d out of range [0,%d)", ErrInvalidValue, i, len(s.elems))
	}
	if err := validateValue("SetAt", v); err != nil {
		return err
	}
	if reaches(v, s) {
		return fmt.Errorf("%w: SetAt would make the sequence reachable from itself", ErrCycleViolation)
	}
	s.elems[i] = v
	return nil
}

func (s *Sequence) Get(i int) (Value, bool) {
	if i < 0 || i >= len(s.elems) {
		return nil, false
	}
	return s.elems[i], true
}

// Entries returns a copy of the elements in positional order.
func (s *Sequence) Entries() []Value {
	out := make([]Value, len(s.elems))
	copy(out, s.elems)
	return out
}

// All iterates over a snapshot taken at call time; mutations during
// iteration are invisible to that iteration.
func (s *Sequence) All() iter.Seq[Value] {
	snapshot := s.Entries()
	return func(yield func(Value) bool) {
		for _, e := range snapshot {
			if !yield(e) {
				return
			}
		}
	}
}

// MutableCopy returns an independent mutable sequence with the same
// elements. The backing array is never shared.
func (s *Sequence) MutableCopy() *Sequence {
	return &Sequence{elems: s.Entries()}
}

func (s *Sequence) Equals(other *Sequence) bool {
	if s == other {
		return true
	}
	if len(s.elems) != len(other.elems) {
		return false
	}
	if s.hashed && other.hashed && s.hash != other.hash {
		return false
	}
	for i := range s.elems {
		if !Equal(s.elems[i], other.elems[i]) {
			return false
		}
	}
	return true
}

func (s *Sequence) String() string {
	var b strings.Builder
	b.WriteString("Sequence[")
	for i, e := range s.elems {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(valueString(e))
	}
	b.WriteString("]")
	return b.String()
}

// valueString renders a value for diagnostics; strings are quoted so
// String("1") and Int(1) stay distinguishable.
func valueString(v Value) string {
	if s, ok := v.(String); ok {
		return strconv.Quote(string(s))
	}
	return fmt.Sprint(v)
}
