package turbo

import (
	"fmt"
	"math/rand/v2"

	"github.com/jancona/pccc/exit"
)

// TransferConfig describes an EXIT transfer curve measurement of a single
// constituent decoder.
type TransferConfig struct {
	Generators       []uint
	ConstraintLength int
	Metric           MAPMetric
	Length           int // information bits per block
	Blocks           int // blocks per a-priori point
	EbN0dB           float64
	SigmaA           []float64 // standard deviations of the a-priori LLRs
	Bins             int
}

type TransferPoint struct {
	SigmaA     float64 `yaml:"sigma_a"`
	IA         float64 `yaml:"ia"`          // J(SigmaA)
	IAMeasured float64 `yaml:"ia_measured"` // histogram estimate on the a-priori samples
	IE         float64 `yaml:"ie"`
}

// constituentPattern sends the systematic and first parity streams only.
var constituentPattern = PuncturePattern{{true, true, false}}

// TransferCurve feeds a terminated RSC decoder with Gaussian a-priori
// information of increasing reliability and measures the mutual information
// of the extrinsic data it hands back. The extrinsic output is the one the
// turbo loop exchanges, systematic channel contribution included.
func TransferCurve(cfg TransferConfig, rng *rand.Rand) ([]TransferPoint, error) {
	enc, err := NewRSC(cfg.Generators, cfg.ConstraintLength)
	if err != nil {
		return nil, err
	}
	if enc.Outputs() != 2 {
		return nil, fmt.Errorf("%w: EXIT curve needs a rate 1/2 constituent code", ErrInvalidCode)
	}
	if cfg.Length < 1 || cfg.Blocks < 1 || cfg.Bins < 1 || len(cfg.SigmaA) == 0 {
		return nil, fmt.Errorf("%w: length, blocks, bins and sigma_a list must be non-empty", ErrInvalidConfig)
	}
	dec := NewRSCDecoder(enc, cfg.Metric)
	dec.Terminated = true

	sigma2 := NoiseVariance(cfg.EbN0dB, 1, constituentPattern.Rate())
	ch := NewAWGN(sigma2, rng)
	lc := ChannelLLRScale(sigma2)
	var bpsk BPSK

	points := make([]TransferPoint, 0, len(cfg.SigmaA))
	for _, sa := range cfg.SigmaA {
		var sent []byte
		var apriori, extrinsic []float64
		for range cfg.Blocks {
			bits := RandomBits(cfg.Length, rng)
			tail, parity := enc.EncodeTail(bits)
			sys := append(bits, tail...)
			tx := AssembleTransmitted(sys, column(parity, 0), nil, constituentPattern)
			intrinsic, _ := SplitReceived(ch.Transmit(bpsk.Modulate(tx)), lc, constituentPattern, len(sys))

			la := exit.GaussianApriori(sys, sa*sa, rng)
			_, le := dec.Decode(intrinsic, la)

			sent = append(sent, sys...)
			apriori = append(apriori, la...)
			extrinsic = append(extrinsic, le...)
		}
		p := TransferPoint{
			SigmaA:     sa,
			IA:         exit.AprioriMutualInfo(sa * sa),
			IAMeasured: exit.ExtrinsicMutualInfo(apriori, sent, cfg.Bins),
			IE:         exit.ExtrinsicMutualInfo(extrinsic, sent, cfg.Bins),
		}
		points = append(points, p)
	}
	return points, nil
}
