package container

import (
	"fmt"
	"iter"
	"sort"
	"strings"

	umath "github.com/deepvalue/deepset/utils/math"
)

// Map associates keys with values under the same value semantics,
// hashing and probing machinery as Set: parallel dense key/value arrays
// plus a sparse bucket index keyed on the key hash. Two maps with the
// same pairs inserted in different orders are equal and hash identically.
type Map struct {
	keys   []Value
	vals   []Value
	hashes []uint32 // key hashes, parallel to keys
	index  []int32  // bucket -> dense index + 1; 0 means empty
	mask   uint32
	frozen bool
	hashed bool
	hash   uint32
}

// Entry is a key/value pair for NewMapOf and Entries.
type Entry struct {
	Key   Value
	Value Value
}

// NewMap returns an empty mutable map.
func NewMap() *Map { return NewMapWithCapacity(0) }

// NewMapWithCapacity returns an empty mutable map sized to hold n
// entries without growing.
func NewMapWithCapacity(n int) *Map {
	size := minTableSize
	if n > 0 {
		if s := umath.NextPow2(umath.DivCeil(n*4, 3)); s > size {
			size = s
		}
	}
	return &Map{
		keys:   make([]Value, 0, n),
		vals:   make([]Value, 0, n),
		hashes: make([]uint32, 0, n),
		index:  make([]int32, size),
		mask:   uint32(size - 1),
	}
}

// NewMapOf builds a mutable map from entries. A repeated key keeps the
// last value, like successive Set calls.
func NewMapOf(entries ...Entry) (*Map, error) {
	m := NewMapWithCapacity(len(entries))
	for _, e := range entries {
		if err := m.Set(e.Key, e.Value); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Map) Size() int { return len(m.keys) }

func (m *Map) IsEmpty() bool { return len(m.keys) == 0 }

func (m *Map) Frozen() bool { return m.frozen }

// Freeze permanently disallows mutation. Keys froze when they were
// inserted; values freeze here, since the map's identity is about to
// include them.
func (m *Map) Freeze() {
	if m.frozen {
		return
	}
	m.frozen = true
	for _, v := range m.vals {
		freezeValue(v)
	}
}

// HashCode returns the content hash and freezes the map. Per-entry
// hashes — a fixed asymmetric combination of key and value hash — are
// folded with XOR, so insertion order cannot leak into the result.
func (m *Map) HashCode() uint32 {
	m.Freeze()
	if !m.hashed {
		fold := uint32(0)
		for d, kh := range m.hashes {
			fold ^= hashEntry(kh, HashOf(m.vals[d]))
		}
		m.hash = mix32(fold ^ mapSeed)
		m.hashed = true
	}
	return m.hash
}

func (m *Map) find(k Value, h uint32) (bucket uint32, dense int) {
	b := h & m.mask
	for {
		slot := m.index[b]
		if slot == 0 {
			return b, -1
		}
		if d := int(slot - 1); m.hashes[d] == h && Equal(m.keys[d], k) {
			return b, d
		}
		b = (b + 1) & m.mask
	}
}

func (m *Map) grow() {
	size := len(m.index) * 2
	m.index = make([]int32, size)
	m.mask = uint32(size - 1)
	for d, h := range m.hashes {
		b := h & m.mask
		for m.index[b] != 0 {
			b = (b + 1) & m.mask
		}
		m.index[b] = int32(d + 1)
	}
}

func (m *Map) setKnown(k Value, kh uint32, v Value) {
	if len(m.keys)+1 > umath.DivFloor(len(m.index)*3, 4) {
		m.grow()
	}
	b, d := m.find(k, kh)
	if d >= 0 {
		m.vals[d] = v // update in place, size unchanged
		return
	}
	m.keys = append(m.keys, k)
	m.vals = append(m.vals, v)
	m.hashes = append(m.hashes, kh)
	m.index[b] = int32(len(m.keys))
}

// Set inserts the pair or updates the value in place when the key is
// already present. The key is frozen at the moment of insertion; the
// value stays mutable until the map itself freezes.
func (m *Map) Set(k, v Value) error {
	if m.frozen {
		return frozenErr(KindMap, "Set")
	}
	if err := validateValue("Set", k); err != nil {
		return err
	}
	if err := validateValue("Set", v); err != nil {
		return err
	}
	if reaches(k, m) || reaches(v, m) {
		return fmt.Errorf("%w: Set would make the map reachable from itself", ErrCycleViolation)
	}
	m.setKnown(k, HashOf(k), v)
	return nil
}

// Get returns the value stored under k.
func (m *Map) Get(k Value) (Value, bool) {
	if validateValue("Get", k) != nil {
		return nil, false
	}
	if _, d := m.find(k, HashOf(k)); d >= 0 {
		return m.vals[d], true
	}
	return nil, false
}

// Has reports whether k is a key of m.
func (m *Map) Has(k Value) bool {
	_, ok := m.Get(k)
	return ok
}

// Delete removes the entry for k if present, reporting whether it was.
// Same strategy as Set.Remove: backward-shift the probe chain, then
// swap-and-pop the dense arrays.
func (m *Map) Delete(k Value) (bool, error) {
	if m.frozen {
		return false, frozenErr(KindMap, "Delete")
	}
	if validateValue("Delete", k) != nil {
		return false, nil // nil or non-finite keys are never present
	}
	b, d := m.find(k, HashOf(k))
	if d < 0 {
		return false, nil
	}
	m.unlink(b)
	m.popDense(d)
	return true, nil
}

func (m *Map) unlink(i uint32) {
	j := i
	for {
		j = (j + 1) & m.mask
		if m.index[j] == 0 {
			break
		}
		home := m.hashes[m.index[j]-1] & m.mask
		var pinned bool
		if i <= j {
			pinned = i < home && home <= j
		} else {
			pinned = i < home || home <= j
		}
		if pinned {
			continue
		}
		m.index[i] = m.index[j]
		i = j
	}
	m.index[i] = 0
}

func (m *Map) popDense(d int) {
	last := len(m.keys) - 1
	if d != last {
		m.keys[d] = m.keys[last]
		m.vals[d] = m.vals[last]
		m.hashes[d] = m.hashes[last]
		b := m.hashes[d] & m.mask
		for m.index[b] != int32(last+1) {
			b = (b + 1) & m.mask
		}
		m.index[b] = int32(d + 1)
	}
	m.keys[last] = nil
	m.vals[last] = nil
	m.keys = m.keys[:last]
	m.vals = m.vals[:last]
	m.hashes = m.hashes[:last]
}

// Clear removes every entry.
func (m *Map) Clear() error {
	if m.frozen {
		return frozenErr(KindMap, "Clear")
	}
	m.keys = m.keys[:0]
	m.vals = m.vals[:0]
	m.hashes = m.hashes[:0]
	m.index = make([]int32, minTableSize)
	m.mask = minTableSize - 1
	return nil
}

// Equals reports recursive content equality without freezing either
// operand.
func (m *Map) Equals(other *Map) bool {
	if m == other {
		return true
	}
	if len(m.keys) != len(other.keys) {
		return false
	}
	if m.hashed && other.hashed && m.hash != other.hash {
		return false
	}
	for d, k := range m.keys {
		_, od := other.find(k, m.hashes[d])
		if od < 0 || !Equal(m.vals[d], other.vals[od]) {
			return false
		}
	}
	return true
}

// MutableCopy returns an independent mutable map with the same entries.
// Backing arrays are copied, never shared.
func (m *Map) MutableCopy() *Map {
	c := &Map{
		keys:   make([]Value, len(m.keys)),
		vals:   make([]Value, len(m.vals)),
		hashes: make([]uint32, len(m.hashes)),
		index:  make([]int32, len(m.index)),
		mask:   m.mask,
	}
	copy(c.keys, m.keys)
	copy(c.vals, m.vals)
	copy(c.hashes, m.hashes)
	copy(c.index, m.index)
	return c
}

// sortedIndices returns dense positions ordered by canonical key order.
func (m *Map) sortedIndices() []int {
	idx := make([]int, len(m.keys))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool {
		return Compare(m.keys[idx[i]], m.keys[idx[j]]) < 0
	})
	return idx
}

// Keys returns the keys in canonical order.
func (m *Map) Keys() []Value {
	idx := m.sortedIndices()
	out := make([]Value, len(idx))
	for i, d := range idx {
		out[i] = m.keys[d]
	}
	return out
}

// Values returns the values in canonical key order.
func (m *Map) Values() []Value {
	idx := m.sortedIndices()
	out := make([]Value, len(idx))
	for i, d := range idx {
		out[i] = m.vals[d]
	}
	return out
}

// Entries returns the pairs in canonical key order.
func (m *Map) Entries() []Entry {
	idx := m.sortedIndices()
	out := make([]Entry, len(idx))
	for i, d := range idx {
		out[i] = Entry{Key: m.keys[d], Value: m.vals[d]}
	}
	return out
}

// All iterates over (key, value) pairs in canonical key order, on a
// snapshot taken at call time.
func (m *Map) All() iter.Seq2[Value, Value] {
	snapshot := m.Entries()
	return func(yield func(Value, Value) bool) {
		for _, e := range snapshot {
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}

func (m *Map) String() string {
	var b strings.Builder
	b.WriteString("Map{")
	for i, e := range m.Entries() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(valueString(e.Key))
		b.WriteString(": ")
		b.WriteString(valueString(e.Value))
	}
	b.WriteString("}")
	return b.String()
}
