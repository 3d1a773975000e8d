package turbo

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// BPSK maps bit 0 to +1 and bit 1 to -1.
type BPSK struct{}

func (BPSK) Modulate(bits []byte) []float64 {
	out := make([]float64, len(bits))
	for i, b := range bits {
		out[i] = 1 - 2*float64(b)
	}
	return out
}

// Demodulate makes hard decisions: positive samples are 0, the rest 1.
func (BPSK) Demodulate(signal []float64) []byte {
	out := make([]byte, len(signal))
	for i, x := range signal {
		if x <= 0 {
			out[i] = 1
		}
	}
	return out
}

// HardDecision decides bits from LLRs in the ln(P(1)/P(0)) convention. The
// LLRs are negated to line up with the BPSK mapping.
func HardDecision(llr []float64) []byte {
	return BPSK{}.Demodulate(scale(llr, -1))
}

// Channel corrupts a vector of modulated symbols.
type Channel interface {
	Transmit(symbols []float64) []float64
}

// AWGN adds independent zero-mean Gaussian noise of variance sigma2 (N0/2
// for real BPSK) to every symbol.
type AWGN struct {
	noise distuv.Normal
}

func NewAWGN(sigma2 float64, src rand.Source) *AWGN {
	c := &AWGN{noise: distuv.Normal{Src: src}}
	c.SetNoise(sigma2)
	return c
}

func (c *AWGN) SetNoise(sigma2 float64) {
	c.noise.Sigma = math.Sqrt(sigma2)
}

func (c *AWGN) Noise() float64 {
	return c.noise.Sigma * c.noise.Sigma
}

func (c *AWGN) Transmit(symbols []float64) []float64 {
	out := make([]float64, len(symbols))
	for i, s := range symbols {
		out[i] = s + c.noise.Rand()
	}
	return out
}

// NoiseVariance converts Eb/N0 in dB to the per-dimension noise variance
// N0/2 for coded bit energy ec and code rate r.
func NoiseVariance(ebn0dB, ec, r float64) float64 {
	return (0.5 * ec / r) / math.Pow(10, ebn0dB/10)
}

// ChannelLLRScale is Lc = -2/sigma2, the factor turning received BPSK
// samples into ln(P(1)/P(0)) LLRs.
func ChannelLLRScale(sigma2 float64) float64 {
	return -2 / sigma2
}
