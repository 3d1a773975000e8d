package turbo

import "fmt"

// BlockDecoder decodes one received block, adds each iteration's error rate
// to ber (one slot per iteration) and returns the error count of the final
// iteration.
type BlockDecoder interface {
	Decode(b *Block, ber []float64) int
}

// TurboDecoder exchanges extrinsic information between two SISO decoders
// for a fixed number of iterations.
type TurboDecoder struct {
	SISO1      SISO
	SISO2      SISO
	Iterations int
	NbBits     int
}

func NewTurboDecoder(code *Code, metric MAPMetric, iterations int) (*TurboDecoder, error) {
	if iterations < 1 {
		return nil, fmt.Errorf("%w: iterations must be at least 1, got %d", ErrInvalidConfig, iterations)
	}
	return &TurboDecoder{
		SISO1:      NewRSCDecoder(code.Encoder, metric),
		SISO2:      NewRSCDecoder(code.Encoder, metric),
		Iterations: iterations,
		NbBits:     code.NbBits,
	}, nil
}

// Decode always runs all iterations; the per-iteration statistics depend on
// it.
func (d *TurboDecoder) Decode(b *Block, ber []float64) int {
	apriori := make([]float64, len(b.Perm))
	var berc BERCounter
	for n := 0; n < d.Iterations; n++ {
		_, extrinsic := d.SISO1.Decode(b.Intrinsic1, apriori)
		apriori = Permute(extrinsic, b.Perm)
		_, extrinsic = d.SISO2.Decode(b.Intrinsic2, apriori)

		aposteriori := add(apriori, extrinsic)
		decided := HardDecision(Permute(aposteriori, b.InvPerm))
		b.Decided = decided[:d.NbBits]
		berc.Clear()
		berc.Count(b.Bits, b.Decided)
		ber[n] += berc.ErrorRate()

		apriori = Permute(extrinsic, b.InvPerm)
	}
	return berc.Errors()
}
