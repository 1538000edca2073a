// Package container implements a family of value-semantics containers —
// Set, Map, Tuple and Sequence — over a closed universe of values
// (numbers, strings, and containers of containers). Two containers are
// equal iff their contents are recursively equal, regardless of
// construction order or object identity.
//
// Every container is created mutable. Computing its hash code, freezing
// it explicitly, or nesting it inside another container that gets hashed
// transitions it permanently to the frozen state; MutableCopy is the only
// way back. This lifecycle is what keeps cached hashes from being
// corrupted while a container is used as a key or nested element.
package container

import (
	"fmt"
	"math"
	"strconv"
)

type Kind uint8

const (
	KindInt Kind = iota
	KindFloat
	KindString
	KindSequence
	KindTuple
	KindSet
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindString:
		return "String"
	case KindSequence:
		return "Sequence"
	case KindTuple:
		return "Tuple"
	case KindSet:
		return "Set"
	case KindMap:
		return "Map"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a member of the closed value universe. Concrete types:
//
//   - Int       (signed 64-bit integer)
//   - Float     (finite float64; NaN and ±Inf are rejected on insertion)
//   - String
//   - *Sequence (mutable ordered list, order-sensitive)
//   - *Tuple    (immutable fixed-length list, order-sensitive)
//   - *Set      (unordered unique elements, order-insensitive)
//   - *Map      (unordered key/value pairs, order-insensitive)
//
// Only types in this package implement Value.
type Value interface {
	Kind() Kind
	containerValue() // sealed marker
}

// Container is implemented by the four container kinds.
type Container interface {
	Value
	// HashCode returns the 32-bit content hash. The first call freezes
	// the container (and, transitively, every container nested in it).
	HashCode() uint32
	// Frozen reports whether the container still accepts mutations.
	Frozen() bool
	// Freeze permanently disallows mutation, transitively.
	Freeze()
	Size() int
}

type Int int64

type Float float64

type String string

func (Int) Kind() Kind       { return KindInt }
func (Float) Kind() Kind     { return KindFloat }
func (String) Kind() Kind    { return KindString }
func (*Sequence) Kind() Kind { return KindSequence }
func (*Tuple) Kind() Kind    { return KindTuple }
func (*Set) Kind() Kind      { return KindSet }
func (*Map) Kind() Kind      { return KindMap }

func (Int) containerValue()       {}
func (Float) containerValue()     {}
func (String) containerValue()    {}
func (*Sequence) containerValue() {}
func (*Tuple) containerValue()    {}
func (*Set) containerValue()      {}
func (*Map) containerValue()      {}

func (v Int) String() string { return strconv.FormatInt(int64(v), 10) }

func (v Float) String() string { return strconv.FormatFloat(float64(v), 'g', -1, 64) }

// validateValue gates every insertion boundary. Containers are accepted
// as-is: their own contents were validated when they were built.
func validateValue(op string, v Value) error {
	if v == nil {
		return fmt.Errorf("%w: %s: nil value", ErrInvalidValue, op)
	}
	if f, ok := v.(Float); ok {
		if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
			return fmt.Errorf("%w: %s: non-finite number %v", ErrInvalidValue, op, float64(f))
		}
	}
	return nil
}

// freezeValue transitively freezes v if it is a container.
func freezeValue(v Value) {
	if c, ok := v.(Container); ok {
		c.Freeze()
	}
}

// reaches reports whether target is reachable from v through nested
// container membership. Used to enforce the foundation axiom: a set may
// never contain itself, directly or through a chain of memberships.
func reaches(v Value, target Container) bool {
	c, ok := v.(Container)
	if !ok {
		return false
	}
	if c == target {
		return true
	}
	switch c := c.(type) {
	case *Sequence:
		for _, e := range c.elems {
			if reaches(e, target) {
				return true
			}
		}
	case *Tuple:
		for _, e := range c.elems {
			if reaches(e, target) {
				return true
			}
		}
	case *Set:
		for _, e := range c.elems {
			if reaches(e, target) {
				return true
			}
		}
	case *Map:
		for i := range c.keys {
			if reaches(c.keys[i], target) || reaches(c.vals[i], target) {
				return true
			}
		}
	}
	return false
}
