package turbo

import (
	"math/rand/v2"
	"reflect"
	"testing"
)

func TestPermutationInverse(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for _, n := range []int{1, 2, 10, 367, 4096} {
		p := NewRandomPermutation(n, rng)
		if !p.Valid() {
			t.Fatalf("len %d: permutation is not a bijection", n)
		}
		inv := p.Inverse()
		for i := range p {
			if p[inv[i]] != i {
				t.Fatalf("len %d: p[inv[%d]] = %d", n, i, p[inv[i]])
			}
			if inv[p[i]] != i {
				t.Fatalf("len %d: inv[p[%d]] = %d", n, i, inv[p[i]])
			}
		}
	}
}

func TestPermute(t *testing.T) {
	p := Permutation{2, 0, 3, 1}
	in := []float64{10, 11, 12, 13}
	got := Permute(in, p)
	if want := []float64{12, 10, 13, 11}; !reflect.DeepEqual(got, want) {
		t.Errorf("Permute() = %v, want %v", got, want)
	}
	if back := Permute(got, p.Inverse()); !reflect.DeepEqual(back, in) {
		t.Errorf("de-interleaving gave %v, want %v", back, in)
	}
}

func TestPermutationValid(t *testing.T) {
	tests := []struct {
		name string
		p    Permutation
		want bool
	}{
		{"identity", Permutation{0, 1, 2}, true},
		{"empty", Permutation{}, true},
		{"duplicate", Permutation{0, 0, 2}, false},
		{"out of range", Permutation{0, 3, 1}, false},
		{"negative", Permutation{-1, 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}
