package turbo

import (
	"fmt"
	"log"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// Sweep runs the PCCC over a list of Eb/N0 operating points. Each point
// processes whole blocks until either ErrorsLimit errors were seen at the
// final iteration or BitsLimit information bits were sent.
type Sweep struct {
	Code    *Code
	Decoder BlockDecoder
	Metric  MAPMetric // recorded in the results only
	// Iterations is the length of every BER row. It must match the
	// iteration count of Decoder; Run checks it for a *TurboDecoder.
	Iterations  int
	EbN0dB      []float64
	Ec          float64
	ErrorsLimit int
	BitsLimit   int
	// Seed is the root of the per point generators. Point i always draws
	// from PCG(Seed, i), whatever the number of workers.
	Seed    uint64
	Workers int
	Metrics *Metrics
	// NewChannel builds the channel of one operating point; nil means AWGN.
	NewChannel func(sigma2 float64, rng *rand.Rand) Channel
}

// NewSweep validates cfg and builds the code and turbo decoder it describes.
func NewSweep(cfg Config) (*Sweep, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	code, err := cfg.NewCode()
	if err != nil {
		return nil, err
	}
	dec, err := NewTurboDecoder(code, cfg.Metric, cfg.Iterations)
	if err != nil {
		return nil, err
	}
	return &Sweep{
		Code:        code,
		Decoder:     dec,
		Metric:      cfg.Metric,
		Iterations:  cfg.Iterations,
		EbN0dB:      cfg.EbN0dB,
		Ec:          cfg.Ec,
		ErrorsLimit: cfg.ErrorsLimit,
		BitsLimit:   cfg.BitsLimit,
		Seed:        cfg.Seed,
		Workers:     cfg.Workers,
	}, nil
}

func (s *Sweep) Run() (*Results, error) {
	if s.Iterations < 1 || s.ErrorsLimit < 1 || s.BitsLimit < 1 {
		return nil, fmt.Errorf("%w: iterations and limits must be positive", ErrInvalidConfig)
	}
	if td, ok := s.Decoder.(*TurboDecoder); ok && td.Iterations != s.Iterations {
		return nil, fmt.Errorf("%w: sweep records %d iterations but the decoder runs %d", ErrInvalidConfig, s.Iterations, td.Iterations)
	}
	start := time.Now()
	res := newResults(s)
	var done atomic.Int32
	var g errgroup.Group
	g.SetLimit(max(s.Workers, 1))
	for i := range res.Points {
		g.Go(func() error {
			p := &res.Points[i]
			s.runPoint(i, p)
			log.Printf("[INFO] Eb/N0 %.2f dB done (%d/%d): %d blocks, %d errors, BER %.3e after %d iterations",
				p.EbN0dB, done.Add(1), len(res.Points), p.Blocks, p.Errors, p.BER[s.Iterations-1], s.Iterations)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.Printf("[INFO] Sweep finished in %s", time.Since(start).Round(time.Millisecond))
	return res, nil
}

// runPoint owns p; the decoder only ever sees its BER row.
func (s *Sweep) runPoint(i int, p *PointResult) {
	rng := rand.New(rand.NewPCG(s.Seed, uint64(i)))
	var ch Channel
	if s.NewChannel != nil {
		ch = s.NewChannel(p.Sigma2, rng)
	} else {
		ch = NewAWGN(p.Sigma2, rng)
	}
	lc := ChannelLLRScale(p.Sigma2)
	var bpsk BPSK

	for p.Errors < s.ErrorsLimit && p.Blocks*s.Code.NbBits < s.BitsLimit {
		b := s.Code.NewBlock(rng)
		b.Receive(ch.Transmit(bpsk.Modulate(b.Transmitted)), lc, s.Code.Pattern)
		errs := s.Decoder.Decode(b, p.BER)
		p.Errors += errs
		p.Blocks++
		s.Metrics.blockDone(p.EbN0dB, errs)
	}
	p.Bits = p.Blocks * s.Code.NbBits

	for n := range p.BER {
		p.BER[n] /= float64(p.Blocks)
	}
	if p.Errors < s.ErrorsLimit {
		log.Printf("[WARN] Eb/N0 %.2f dB: only %d of %d errors collected within %d bits, BER is less reliable",
			p.EbN0dB, p.Errors, s.ErrorsLimit, p.Bits)
	}
	s.Metrics.pointDone(p)
}
