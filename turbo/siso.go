package turbo

import (
	"fmt"
	"math"
)

// SISO is a soft-in/soft-out decoder for one constituent code.
//
// intrinsicCoded holds Outputs() channel LLRs per trellis step (systematic
// first), aprioriData one LLR per step. Both outputs exclude the matching
// input: extrinsicData has the a-priori removed and extrinsicCoded the
// intrinsic values. Implementations must not keep state between calls.
type SISO interface {
	Decode(intrinsicCoded, aprioriData []float64) (extrinsicCoded, extrinsicData []float64)
}

// MAPMetric selects how path metrics are combined in the trellis.
type MAPMetric int

const (
	MaxLogMAP MAPMetric = iota
	LogMAP
)

func ParseMAPMetric(s string) (MAPMetric, error) {
	switch s {
	case "maxlogMAP":
		return MaxLogMAP, nil
	case "logMAP":
		return LogMAP, nil
	}
	return 0, fmt.Errorf("%w: unsupported MAP metric %q", ErrInvalidCode, s)
}

func (m MAPMetric) String() string {
	switch m {
	case MaxLogMAP:
		return "maxlogMAP"
	case LogMAP:
		return "logMAP"
	}
	return fmt.Sprintf("MAPMetric(%d)", int(m))
}

var negInf = math.Inf(-1)

// Jacobian logarithm ln(e^a + e^b)
func maxStar(a, b float64) float64 {
	if a == negInf {
		return b
	}
	if b == negInf {
		return a
	}
	return math.Max(a, b) + math.Log1p(math.Exp(-math.Abs(a-b)))
}

func (m MAPMetric) combine() func(a, b float64) float64 {
	if m == LogMAP {
		return maxStar
	}
	return math.Max
}

// RSCDecoder is a forward-backward (BCJR) SISO decoder over the trellis of
// an RSC. LLRs follow the ln(P(1)/P(0)) convention.
type RSCDecoder struct {
	code   *RSC
	metric MAPMetric
	// Terminated forces the backward recursion to start in the zero state.
	// The PCCC decoders leave it false: the second encoder never terminates.
	Terminated bool
}

func NewRSCDecoder(code *RSC, metric MAPMetric) *RSCDecoder {
	return &RSCDecoder{
		code:   code,
		metric: metric,
	}
}

func (d *RSCDecoder) Decode(intrinsicCoded, aprioriData []float64) ([]float64, []float64) {
	c := d.code
	nOut := c.Outputs()
	steps := len(aprioriData)
	states := c.States()
	combine := d.metric.combine()

	// branch metrics: sum of the LLRs of every bit equal to one on the branch
	gamma := make([]float64, steps*states*2)
	for k := 0; k < steps; k++ {
		for s := 0; s < states; s++ {
			for u := 0; u < 2; u++ {
				var g float64
				if u == 1 {
					g = aprioriData[k]
				}
				for j, b := range c.outputs[s][u] {
					if b == 1 {
						g += intrinsicCoded[k*nOut+j]
					}
				}
				gamma[(k*states+s)*2+u] = g
			}
		}
	}

	alpha := make([]float64, (steps+1)*states)
	for s := 1; s < states; s++ {
		alpha[s] = negInf
	}
	for k := 0; k < steps; k++ {
		cur := alpha[k*states : (k+1)*states]
		next := alpha[(k+1)*states : (k+2)*states]
		for s := range next {
			next[s] = negInf
		}
		for s := 0; s < states; s++ {
			if cur[s] == negInf {
				continue
			}
			for u := 0; u < 2; u++ {
				ns := c.nextState[s][u]
				next[ns] = combine(next[ns], cur[s]+gamma[(k*states+s)*2+u])
			}
		}
		normalize(next)
	}

	beta := make([]float64, (steps+1)*states)
	if d.Terminated {
		for s := 1; s < states; s++ {
			beta[steps*states+s] = negInf
		}
	}
	for k := steps - 1; k >= 0; k-- {
		cur := beta[k*states : (k+1)*states]
		next := beta[(k+1)*states : (k+2)*states]
		for s := 0; s < states; s++ {
			cur[s] = negInf
			for u := 0; u < 2; u++ {
				cur[s] = combine(cur[s], next[c.nextState[s][u]]+gamma[(k*states+s)*2+u])
			}
		}
		normalize(cur)
	}

	extrinsicData := make([]float64, steps)
	extrinsicCoded := make([]float64, steps*nOut)
	one := make([]float64, nOut)
	zero := make([]float64, nOut)
	for k := 0; k < steps; k++ {
		for j := range one {
			one[j], zero[j] = negInf, negInf
		}
		num, den := negInf, negInf
		for s := 0; s < states; s++ {
			a := alpha[k*states+s]
			if a == negInf {
				continue
			}
			for u := 0; u < 2; u++ {
				m := a + gamma[(k*states+s)*2+u] + beta[(k+1)*states+c.nextState[s][u]]
				if u == 1 {
					num = combine(num, m)
				} else {
					den = combine(den, m)
				}
				for j, b := range c.outputs[s][u] {
					if b == 1 {
						one[j] = combine(one[j], m)
					} else {
						zero[j] = combine(zero[j], m)
					}
				}
			}
		}
		extrinsicData[k] = num - den - aprioriData[k]
		for j := range one {
			extrinsicCoded[k*nOut+j] = one[j] - zero[j] - intrinsicCoded[k*nOut+j]
		}
	}
	return extrinsicCoded, extrinsicData
}

// Shift metrics so the best state is at zero.
func normalize(m []float64) {
	best := negInf
	for _, v := range m {
		best = math.Max(best, v)
	}
	if best == negInf {
		return
	}
	for i := range m {
		m[i] -= best
	}
}
