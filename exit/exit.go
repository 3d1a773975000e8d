// Package exit estimates the mutual information quantities plotted in
// EXtrinsic Information Transfer charts.
//
// Reference: S. ten Brink, "Convergence behavior of iteratively decoded
// parallel concatenated codes", IEEE Trans. Commun., Oct. 2001. The a-priori
// information follows relation (14), the extrinsic information is estimated
// from histograms and integrated numerically as in relation (19).
package exit

import (
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate/quad"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ExtrinsicMutualInfo estimates I(X;E) between emitted bits and the soft
// observations they produced, using n histogram bins over the common
// support [min(obs), max(obs)].
//
// Degenerate inputs don't fail: NaN and infinite observations are left out
// together with their bits, a bit value that never occurs contributes
// nothing and a support collapsed to a single point gives 0.
func ExtrinsicMutualInfo(obs []float64, bits []byte, n int) float64 {
	if len(obs) != len(bits) {
		panic("exit: observation and bit slices differ in length")
	}
	obs, bits = finiteSamples(obs, bits)
	if len(obs) == 0 || n < 1 {
		return 0
	}
	lo, hi := floats.Min(obs), floats.Max(obs)
	if lo == hi {
		return 0
	}
	// both PDFs share the dividers so they can be compared bin by bin
	dividers := make([]float64, n+1)
	step := hi/float64(n) - lo/float64(n) // hi-lo may overflow
	for i := range dividers {
		dividers[i] = math.Min(lo+float64(i)*step, hi)
	}
	dividers[n] = math.Nextafter(hi, math.Inf(1))

	left := conditionalPDF(obs, bits, 0, dividers)
	right := conditionalPDF(obs, bits, 1, dividers)

	return 0.5 * (halfIntegral(left, right) + halfIntegral(right, left))
}

// finiteSamples drops the pairs whose observation is NaN or infinite. The
// input slices are returned untouched when there is nothing to drop.
func finiteSamples(obs []float64, bits []byte) ([]float64, []byte) {
	keep := 0
	for _, x := range obs {
		if !math.IsNaN(x) && !math.IsInf(x, 0) {
			keep++
		}
	}
	if keep == len(obs) {
		return obs, bits
	}
	fo := make([]float64, 0, keep)
	fb := make([]byte, 0, keep)
	for i, x := range obs {
		if !math.IsNaN(x) && !math.IsInf(x, 0) {
			fo = append(fo, x)
			fb = append(fb, bits[i])
		}
	}
	return fo, fb
}

// conditionalPDF is the histogram of the observations emitted with the given
// bit, normalised to unit mass. The bin width is left out on purpose: it
// cancels in every ratio of halfIntegral.
func conditionalPDF(obs []float64, bits []byte, bit byte, dividers []float64) []float64 {
	pdf := make([]float64, len(dividers)-1)
	var x []float64
	for i, b := range bits {
		if b == bit {
			x = append(x, obs[i])
		}
	}
	if len(x) == 0 {
		return pdf
	}
	sort.Float64s(x)
	stat.Histogram(pdf, dividers, x, nil)
	floats.Scale(1/float64(len(x)), pdf)
	return pdf
}

// halfIntegral integrates p*log2(2p/(p+q)) over the bins where p is non-zero
// with the trapezoidal rule on a unit grid. The edge correction is applied
// as is, so a coarse histogram can give a slightly negative result.
func halfIntegral(p, q []float64) float64 {
	var terms []float64
	for i := range p {
		if p[i] == 0 {
			continue
		}
		terms = append(terms, p[i]*math.Log2(2*p[i]/(p[i]+q[i])))
	}
	if len(terms) == 0 {
		return 0
	}
	return floats.Sum(terms) - 0.5*(terms[0]+terms[len(terms)-1])
}

// AprioriMutualInfo is the J function: the mutual information between a bit
// and a consistent Gaussian LLR of variance sigma2A (mean sigma2A/2).
func AprioriMutualInfo(sigma2A float64) float64 {
	if sigma2A <= 0 {
		return 0
	}
	sigma := math.Sqrt(sigma2A)
	mu := sigma2A / 2
	pdf := distuv.Normal{Mu: mu, Sigma: sigma}
	f := func(x float64) float64 {
		return pdf.Prob(x) * softplus(-x) / math.Ln2
	}
	return 1 - quad.Fixed(f, mu-12*sigma, mu+12*sigma, 256, nil, 0)
}

// log(1+e^x) without overflow
func softplus(x float64) float64 {
	if x > 0 {
		return x + math.Log1p(math.Exp(-x))
	}
	return math.Log1p(math.Exp(x))
}

// GaussianApriori models a-priori LLRs (ln(P(1)/P(0))) for bits as
// (sigma2A/2)*(2b-1) plus Gaussian noise of variance sigma2A.
func GaussianApriori(bits []byte, sigma2A float64, src rand.Source) []float64 {
	noise := distuv.Normal{Sigma: math.Sqrt(sigma2A), Src: src}
	out := make([]float64, len(bits))
	for i, b := range bits {
		out[i] = sigma2A/2*(2*float64(b)-1) + noise.Rand()
	}
	return out
}
