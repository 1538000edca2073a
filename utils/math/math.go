package math

import "golang.org/x/exp/constraints"

func DivCeil[T constraints.Integer](dividend, divisor T) T {
	base := dividend / divisor
	if dividend%divisor == 0 {
		return base
	} else {
		return base + 1
	}
}

func DivFloor[T constraints.Integer](dividend, divisor T) T {
	base := dividend / divisor
	return base
}

// NextPow2 returns the smallest power of two >= n (and at least 1).
func NextPow2[T constraints.Integer](n T) T {
	s := T(1)
	for s < n {
		s <<= 1
	}
	return s
}
