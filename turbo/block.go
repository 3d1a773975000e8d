package turbo

import (
	"fmt"
	"math/rand/v2"
)

// Code is the PCCC configuration shared by every block of a run: two
// identical RSC encoders, an interleaver of PermLen positions (tail
// included) and a puncturing pattern.
type Code struct {
	Encoder *RSC
	Pattern PuncturePattern
	PermLen int
	NbBits  int // information bits per block, tail excluded
	Rate    float64
	RecLen  int // transmitted bits per block
}

// NewCode validates the configuration once so blocks never have to.
func NewCode(enc *RSC, pattern PuncturePattern, permLen int) (*Code, error) {
	if enc.Outputs() != 2 {
		return nil, fmt.Errorf("%w: PCCC needs rate 1/2 constituent codes, got %d generators", ErrInvalidCode, enc.Outputs())
	}
	if err := pattern.Validate(); err != nil {
		return nil, err
	}
	nbBits := permLen - enc.TailLen()
	if nbBits < 1 {
		return nil, fmt.Errorf("%w: permutation length %d leaves no information bits with a %d bit tail", ErrInvalidCode, permLen, enc.TailLen())
	}
	recLen := pattern.RecLen(permLen)
	if got := pattern.Transmitted(permLen); got != recLen {
		return nil, fmt.Errorf("%w: pattern selects %d bits over %d positions, rate %.4f implies %d", ErrInvalidPattern, got, permLen, pattern.Rate(), recLen)
	}
	return &Code{
		Encoder: enc,
		Pattern: pattern,
		PermLen: permLen,
		NbBits:  nbBits,
		Rate:    pattern.Rate(),
		RecLen:  recLen,
	}, nil
}

// Block is one simulation unit, from information bits to intrinsic LLRs.
type Block struct {
	Bits       []byte
	Tail       []byte
	Systematic []byte // Bits followed by Tail, in natural order
	Parity1    []byte
	Parity2    []byte // computed on the interleaved systematic stream
	Perm       Permutation
	InvPerm    Permutation

	Transmitted []byte
	Received    []float64
	Intrinsic1  []float64
	Intrinsic2  []float64
	Decided     []byte
}

// NewBlock draws a permutation and information bits from rng, encodes them
// and punctures the result.
func (c *Code) NewBlock(rng *rand.Rand) *Block {
	b := &Block{}
	b.Perm = NewRandomPermutation(c.PermLen, rng)
	b.InvPerm = b.Perm.Inverse()
	b.Bits = RandomBits(c.NbBits, rng)

	var cod1 [][]byte
	b.Tail, cod1 = c.Encoder.EncodeTail(b.Bits)
	b.Systematic = append(append(make([]byte, 0, c.PermLen), b.Bits...), b.Tail...)
	cod2 := c.Encoder.Encode(Permute(b.Systematic, b.Perm))
	b.Parity1 = column(cod1, 0)
	b.Parity2 = column(cod2, 0)

	b.Transmitted = AssembleTransmitted(b.Systematic, b.Parity1, b.Parity2, c.Pattern)
	return b
}

// Receive stores the channel observations and splits them into the two
// decoders' intrinsic LLRs.
func (b *Block) Receive(observations []float64, lc float64, pattern PuncturePattern) {
	b.Received = observations
	b.Intrinsic1, b.Intrinsic2 = SplitReceived(observations, lc, pattern, len(b.Systematic))
}

// AssembleTransmitted punctures the three streams. At each position the
// selected bits are appended systematic first, then parity 1, then parity 2.
// SplitReceived relies on this order.
func AssembleTransmitted(systematic, parity1, parity2 []byte, pattern PuncturePattern) []byte {
	streams := [StreamCount][]byte{systematic, parity1, parity2}
	out := make([]byte, 0, pattern.RecLen(len(systematic)))
	for n := range systematic {
		for s := Systematic; s < StreamCount; s++ {
			if pattern.Selects(n, s) {
				out = append(out, streams[s][n])
			}
		}
	}
	return out
}

// SplitReceived de-punctures observations into two intrinsic vectors of
// 2*permLen LLRs, [2n] systematic and [2n+1] parity, scaled by lc. Punctured
// positions get 0. The systematic LLR only goes to the first decoder, so the
// second decoder's systematic slots stay 0.
func SplitReceived(observations []float64, lc float64, pattern PuncturePattern, permLen int) ([]float64, []float64) {
	dec1 := make([]float64, 2*permLen)
	dec2 := make([]float64, 2*permLen)
	k := 0
	next := func() float64 {
		v := lc * observations[k]
		k++
		return v
	}
	for n := 0; n < permLen; n++ {
		if pattern.Selects(n, Systematic) {
			dec1[2*n] = next()
		}
		if pattern.Selects(n, Parity1) {
			dec1[2*n+1] = next()
		}
		if pattern.Selects(n, Parity2) {
			dec2[2*n+1] = next()
		}
	}
	return dec1, dec2
}
