package turbo

import "math/rand/v2"

// Permutation maps output index i to input index p[i].
type Permutation []int

// NewRandomPermutation draws a uniformly random ordering of [0, n).
func NewRandomPermutation(n int, rng *rand.Rand) Permutation {
	return Permutation(rng.Perm(n))
}

// Inverse returns q such that p[q[i]] == i and q[p[i]] == i.
func (p Permutation) Inverse() Permutation {
	inv := make(Permutation, len(p))
	for i, v := range p {
		inv[v] = i
	}
	return inv
}

// Valid reports whether p is a bijection on [0, len(p)).
func (p Permutation) Valid() bool {
	seen := make([]bool, len(p))
	for _, v := range p {
		if v < 0 || v >= len(p) || seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}

// Permute reorders in so that out[i] = in[p[i]]. Interleaving applies the
// block permutation, de-interleaving applies its inverse.
func Permute[T any](in []T, p Permutation) []T {
	out := make([]T, len(p))
	for i, idx := range p {
		out[i] = in[idx]
	}
	return out
}
