package utils

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Min returns the smaller value between two numbers.
func Min[T constraints.Ordered](x, y T) T {
	if x < y {
		return x
	}
	return y
}

// Max returns the bigger value between two numbers.
func Max[T constraints.Ordered](x, y T) T {
	if x > y {
		return x
	}
	return y
}

// Clamp restricts x to the [min, max] interval.
func Clamp[T constraints.Ordered](x, min, max T) T {
	return Max(min, Min(x, max))
}

// Hypot returns the length of the (x, y) vector.
func Hypot[T constraints.Float](x, y T) T {
	return T(math.Hypot(float64(x), float64(y)))
}
