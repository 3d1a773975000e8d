package turbo

import (
	"math/rand/v2"

	"golang.org/x/exp/constraints"
)

type Number interface {
	constraints.Integer | constraints.Float
}

// Element-wise sum of two equal length vectors
func add[T Number](a, b []T) []T {
	out := make([]T, len(a))
	for i := range a {
		out[i] = a[i] + b[i]
	}
	return out
}

// scale a vector by a factor
func scale[T Number](in []T, factor T) []T {
	out := make([]T, len(in))
	for i, v := range in {
		out[i] = v * factor
	}
	return out
}

// Extract one column of a row-major coded-bit matrix
func column(m [][]byte, col int) []byte {
	out := make([]byte, len(m))
	for i, row := range m {
		out[i] = row[col]
	}
	return out
}

// RandomBits draws n independent equiprobable bits.
func RandomBits(n int, rng *rand.Rand) []byte {
	bits := make([]byte, n)
	for i := range bits {
		bits[i] = byte(rng.Uint64() & 1)
	}
	return bits
}
