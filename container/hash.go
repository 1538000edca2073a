package container

import "math"

// Hashing is deterministic and purely content-based: equal values hash
// equally no matter how they were built. Ordered containers (Sequence,
// Tuple) fold child hashes polynomially, so position matters; unordered
// containers (Set, Map) fold with XOR, so two structurally equal sets
// built in different insertion orders hash identically.

const (
	fnvOffset32 = 2166136261
	fnvPrime32  = 16777619

	// word-combining constants for 64-bit payloads
	wordC1 = 0x9e3779b1
	wordC2 = 0x85ebca6b

	// per-kind seeds keep empty containers of different kinds apart
	sequenceSeed = 0x2d51ed21
	tupleSeed    = 0x5bd1e995
	setSeed      = 0x27d4eb2f
	mapSeed      = 0x165667b1
)

// HashOf returns the 32-bit content hash of v. Hashing a container
// freezes it (see Container.HashCode).
func HashOf(v Value) uint32 {
	switch v := v.(type) {
	case Int:
		return hashInt(int64(v))
	case Float:
		return hashNumber(float64(v))
	case String:
		return hashString(string(v))
	case Container:
		return v.HashCode()
	default:
		panic("container: value outside the closed universe")
	}
}

// mix32 is an avalanche finalizer over 32 bits.
func mix32(h uint32) uint32 {
	h ^= h >> 16
	h *= 0x45d9f3b
	h ^= h >> 16
	h *= 0x45d9f3b
	h ^= h >> 16
	return h
}

func hashInt(i int64) uint32 {
	if i >= math.MinInt32 && i <= math.MaxInt32 {
		return mix32(uint32(int32(i)))
	}
	return hashNumber(float64(i))
}

// hashNumber dispatches on the numeric value rather than the declared
// type, so Int(2) and Float(2) hash identically, as required by the
// numeric comparison in Compare. +0 and -0 both take the integral path
// and collapse to the same code.
func hashNumber(f float64) uint32 {
	if f == math.Trunc(f) && f >= math.MinInt32 && f <= math.MaxInt32 {
		return mix32(uint32(int32(f)))
	}
	bits := math.Float64bits(f)
	return uint32(bits)*wordC1 ^ uint32(bits>>32)*wordC2
}

// hashString is 32-bit FNV-1a.
func hashString(s string) uint32 {
	h := uint32(fnvOffset32)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= fnvPrime32
	}
	return h
}

// hashOrdered is the polynomial fold for order-sensitive containers.
func hashOrdered(seed uint32, elems []Value) uint32 {
	h := seed
	for _, e := range elems {
		h = 31*h + HashOf(e)
	}
	return mix32(h)
}

// hashEntry combines a key and value hash asymmetrically so that
// Map{a:b} and Map{b:a} differ.
func hashEntry(kh, vh uint32) uint32 {
	return kh*wordC1 ^ vh*wordC2
}
